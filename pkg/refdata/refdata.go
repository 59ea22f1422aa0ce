// Package refdata serves read-only airline and airport reference data keyed by IATA code.
// Data is loaded once at startup and never mutated afterwards, so a Provider is safe for
// concurrent use without locking.
package refdata

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var defaultData []byte

type Airline struct {
	Code    string `yaml:"code" json:"code"`
	Name    string `yaml:"name" json:"name"`
	NameAR  string `yaml:"name_ar" json:"name_ar,omitempty"`
	Country string `yaml:"country" json:"country,omitempty"`
	Website string `yaml:"website" json:"website,omitempty"`
}

type Airport struct {
	Code      string `yaml:"code" json:"code"`
	Name      string `yaml:"name" json:"name"`
	City      string `yaml:"city" json:"city"`
	CityAR    string `yaml:"city_ar" json:"city_ar,omitempty"`
	Country   string `yaml:"country" json:"country"`
	CountryAR string `yaml:"country_ar" json:"country_ar,omitempty"`
}

// Provider looks up reference entities by code. The bool is false when the code is unknown.
type Provider interface {
	LookupAirline(code string) (Airline, bool)
	LookupAirport(code string) (Airport, bool)
}

type document struct {
	Airlines []Airline `yaml:"airlines"`
	Airports []Airport `yaml:"airports"`
}

type staticProvider struct {
	airlines map[string]Airline
	airports map[string]Airport
}

// Load parses a YAML document with top-level `airlines` and `airports` lists.
func Load(r io.Reader) (Provider, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("refdata: decode: %w", err)
	}

	p := &staticProvider{
		airlines: make(map[string]Airline, len(doc.Airlines)),
		airports: make(map[string]Airport, len(doc.Airports)),
	}
	for _, a := range doc.Airlines {
		code := strings.ToUpper(strings.TrimSpace(a.Code))
		if code == "" {
			return nil, fmt.Errorf("refdata: airline %q has no code", a.Name)
		}
		a.Code = code
		p.airlines[code] = a
	}
	for _, a := range doc.Airports {
		code := strings.ToUpper(strings.TrimSpace(a.Code))
		if code == "" {
			return nil, fmt.Errorf("refdata: airport %q has no code", a.Name)
		}
		a.Code = code
		p.airports[code] = a
	}
	return p, nil
}

// Default returns the provider built from the embedded data set.
func Default() (Provider, error) {
	return Load(bytes.NewReader(defaultData))
}

func (p *staticProvider) LookupAirline(code string) (Airline, bool) {
	a, ok := p.airlines[strings.ToUpper(code)]
	return a, ok
}

func (p *staticProvider) LookupAirport(code string) (Airport, bool) {
	a, ok := p.airports[strings.ToUpper(code)]
	return a, ok
}
