package stations

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStationDecodesDatasetShape(t *testing.T) {
	raw := `{"IDEESS":"12345","Rótulo":"REPSOL","Provincia":"MADRID","Dirección":"CALLE MAYOR 123",
		"Precio Gasolina 95 E5":"1,459","Latitud":"40,4168","Longitud":-3.7038}`

	var station Station
	if err := json.Unmarshal([]byte(raw), &station); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if station.Rotulo != "REPSOL" || station.Direccion != "CALLE MAYOR 123" {
		t.Fatalf("station = %+v", station)
	}
	if lat, ok := station.Latitud.Float(); !ok || lat != 40.4168 {
		t.Fatalf("Latitud = %v %v", lat, ok)
	}
	if lon, ok := station.Longitud.Float(); !ok || lon != -3.7038 {
		t.Fatalf("Longitud = %v %v", lon, ok)
	}
	if price, ok := station.Gasolina95(); !ok || price != 1.459 {
		t.Fatalf("Gasolina95() = %v %v", price, ok)
	}
}

func TestCoordinateAbsentValues(t *testing.T) {
	for _, raw := range []string{`null`, `""`, `"n/a"`} {
		var c Coordinate
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", raw, err)
		}
		if _, ok := c.Float(); ok {
			t.Fatalf("Unmarshal(%s) must decode as absent", raw)
		}
	}

	encoded, err := json.Marshal(Station{IDEESS: "1"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(encoded), `"Latitud":null`) {
		t.Fatalf("encoded = %s", encoded)
	}
}

func TestStationValidate(t *testing.T) {
	if err := (Station{IDEESS: "1", Latitud: NewCoordinate(91)}).Validate(); !errors.Is(err, ErrInvalidStation) {
		t.Fatalf("Validate(lat 91) error = %v", err)
	}
	if err := (Station{Latitud: NewCoordinate(1)}).Validate(); !errors.Is(err, ErrInvalidStation) {
		t.Fatalf("Validate(no id) error = %v", err)
	}
	if err := (Station{IDEESS: "1", Longitud: NewCoordinate(-180)}).Validate(); err != nil {
		t.Fatalf("Validate(valid) error = %v", err)
	}
}

func TestFilterValidate(t *testing.T) {
	if err := (Filter{Limit: DefaultLimit}).Validate(); err != nil {
		t.Fatalf("Validate(default) error = %v", err)
	}
	for _, f := range []Filter{{Limit: 0}, {Limit: MaxLimit + 1}, {Skip: -1, Limit: 1}} {
		if err := f.Validate(); err == nil {
			t.Fatalf("Validate(%+v) expected error", f)
		}
	}
}

func TestPathSegment(t *testing.T) {
	if got, err := PathSegment(" 12 34 "); err != nil || got != "12%2034" {
		t.Fatalf("PathSegment(12 34) = %q, %v", got, err)
	}
	for _, id := range []string{"", ".", "..", "../usuarios", "a/b"} {
		if _, err := PathSegment(id); !errors.Is(err, ErrInvalidStation) {
			t.Fatalf("PathSegment(%q) error = %v, want ErrInvalidStation", id, err)
		}
	}
}
