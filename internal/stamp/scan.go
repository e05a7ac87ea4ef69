package stamp

import "regexp"

// stampPattern matches a stamp up to the next whitespace.
var stampPattern = regexp.MustCompile(`\bsdns://[^\s]+`)

// Scan returns every stamp found in text, in order of appearance.
// Duplicates are kept. Empty text yields no stamps.
func Scan(text string) []string {
	if text == "" {
		return nil
	}
	return stampPattern.FindAllString(text, -1)
}

// Info scans text and decodes every stamp found.
func Info(text string) []Endpoint {
	stamps := Scan(text)
	if len(stamps) == 0 {
		return nil
	}

	endpoints := make([]Endpoint, 0, len(stamps))
	for _, s := range stamps {
		endpoints = append(endpoints, Decode(s))
	}
	return endpoints
}
