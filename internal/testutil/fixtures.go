package testutil

import (
	"embed"
)

//go:embed fixtures/*.md
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// MustFixture loads a fixture file and panics if it is missing.
func MustFixture(name string) []byte {
	data, err := LoadFixture(name)
	if err != nil {
		panic(err)
	}
	return data
}

// Expected decodings of fixtures/public-resolvers.md, in order.
var PublicResolverAddresses = []struct {
	Address string
	Port    string
}{
	{"9.9.9.9", "5353"},
	{"2a01:4f8::1", "8443"},
	{"", ""},
	{"2620:fe::fe", ""},
	{"", ""},
}
