package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	tests := map[string]string{
		"example.com":                    "example.com",
		"  Example.COM  ":                "example.com",
		"https://www.example.com/about":  "example.com",
		"http://shop.example.co.uk:8080": "shop.example.co.uk",
		"example.com.":                   "example.com",
		"not a domain":                   "not a domain",
		"www.com":                        "www.com",
		"www.co.uk":                      "www.co.uk",
		"www.github.io":                  "github.io",
		"https://Bücher.de/katalog":      "bücher.de",
		"example.com:abc":                "example.com:abc",
	}

	for input, want := range tests {
		assert.Equal(t, want, NormalizeDomain(input), input)
	}
}

func TestValidateDomain(t *testing.T) {
	valid := []string{
		"example.com",
		"amazon.com",
		"shop.example.co.uk",
		"foo.blogspot.com",
		"github.io",
		"blogspot.com",
		"herokuapp.com",
		"www.com",
		"bücher.de",
		"xn--bcher-kva.de",
	}
	for _, d := range valid {
		assert.NoError(t, ValidateDomain(d), d)
	}

	invalid := []string{
		"",
		"not a domain",
		"localhost",
		"com",
		"co.uk",
		"example.notarealtld",
		"-bad-.com",
		"1.2.3.45",
		"example.com:abc",
	}
	for _, d := range invalid {
		err := ValidateDomain(d)
		assert.Error(t, err, d)
		assert.Equal(t, StatusInvalidInput, StatusFromError(err), d)
	}
}

func TestValidateDomain_NormalizedInput(t *testing.T) {
	for _, input := range []string{"https://github.io", "www.blogspot.com", "http://herokuapp.com/", "www.com", "Bücher.de"} {
		assert.NoError(t, ValidateDomain(NormalizeDomain(input)), input)
	}
}

func TestParseDomainList(t *testing.T) {
	entries := ParseDomainList("amazon.com\r\n\n  facebook.com  \n\ngoogle.com\n")

	assert.Equal(t, []string{"amazon.com", "facebook.com", "google.com"}, entries)
}

func TestLookupCountry(t *testing.T) {
	country, err := LookupCountry("US")
	assert.NoError(t, err)
	assert.Equal(t, "us", country.Code)

	country, err = LookupCountry("world")
	assert.NoError(t, err)
	assert.Equal(t, WorldCountry, country.Code)

	_, err = LookupCountry("xx")
	assert.Equal(t, StatusInvalidInput, StatusFromError(err))
}
