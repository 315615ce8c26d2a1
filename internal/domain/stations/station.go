package stations

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidStation = errors.New("invalid station")

// Station mirrors the public fuel-price dataset. Prices stay as the source strings.
type Station struct {
	IDEESS             string     `json:"IDEESS"`
	Rotulo             string     `json:"Rótulo,omitempty"`
	Municipio          string     `json:"Municipio,omitempty"`
	Provincia          string     `json:"Provincia,omitempty"`
	Direccion          string     `json:"Dirección,omitempty"`
	PrecioGasolina95E5 string     `json:"Precio Gasolina 95 E5,omitempty"`
	PrecioGasoleoA     string     `json:"Precio Gasoleo A,omitempty"`
	Latitud            Coordinate `json:"Latitud"`
	Longitud           Coordinate `json:"Longitud"`
}

func (s Station) Validate() error {
	if strings.TrimSpace(s.IDEESS) == "" {
		return fmt.Errorf("%w: IDEESS is required", ErrInvalidStation)
	}
	if v, ok := s.Latitud.Float(); ok && (v < -90 || v > 90) {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidStation, v)
	}
	if v, ok := s.Longitud.Float(); ok && (v < -180 || v > 180) {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidStation, v)
	}
	return nil
}

// PathSegment escapes id for use as a single URL path segment. IDs that would change the
// path structure once joined are rejected.
func PathSegment(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "." || id == ".." || strings.Contains(id, "/") {
		return "", fmt.Errorf("%w: IDEESS %q is not a path segment", ErrInvalidStation, id)
	}
	return url.PathEscape(id), nil
}

// Gasolina95 is the parsed 95 E5 price.
func (s Station) Gasolina95() (float64, bool) {
	return ParsePrice(s.PrecioGasolina95E5)
}

// ParsePrice accepts both "1.459" and "1,459".
func ParsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Coordinate is an optional degree value. Source strings may use a decimal comma;
// unparseable input decodes as absent.
type Coordinate struct {
	value float64
	valid bool
}

func NewCoordinate(v float64) Coordinate {
	return Coordinate{value: v, valid: true}
}

func (c Coordinate) Float() (float64, bool) {
	return c.value, c.valid
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	*c = Coordinate{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if v, ok := ParsePrice(raw); ok {
			*c = NewCoordinate(v)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*c = NewCoordinate(v)
	return nil
}

// Filter selects stations for listing.
type Filter struct {
	Provincia string
	Municipio string
	PrecioMax float64
	Skip      int
	Limit     int
}

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

func (f Filter) Validate() error {
	if f.Skip < 0 {
		return fmt.Errorf("skip must be >= 0")
	}
	if f.Limit < 1 || f.Limit > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	return nil
}

// Page is one listing result.
type Page struct {
	Total       int64     `json:"total"`
	Skip        int       `json:"skip"`
	Limit       int       `json:"limit"`
	Count       int       `json:"count"`
	Gasolineras []Station `json:"gasolineras"`
}
