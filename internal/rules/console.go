package rules

import "fmt"

// Console renders a diagnostic line: source, url, key, address and port.
type Console struct{}

func (Console) Render(e Entry) string {
	return fmt.Sprintf("%s %s %s %s %s",
		orNone(e.Source), orNone(e.URL), orNone(e.Key), orNone(e.Address), orNone(e.Port))
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
