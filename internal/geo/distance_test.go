package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	p := Coordinates{Latitude: 8.4542, Longitude: 124.6319}

	d := DistanceKm(p, p)
	if math.Abs(d) > 1e-9 {
		t.Errorf("Expected distance 0, got %v", d)
	}
}

func TestDistanceKm_KnownPair(t *testing.T) {
	// One degree of latitude along a meridian is R * pi / 180
	from := Coordinates{Latitude: 0, Longitude: 0}
	to := Coordinates{Latitude: 1, Longitude: 0}

	want := EarthRadiusKm * math.Pi / 180
	got := DistanceKm(from, to)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected %v km, got %v km", want, got)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := Coordinates{Latitude: 8.4542, Longitude: 124.6319}
	b := Coordinates{Latitude: 14.5995, Longitude: 120.9842}

	if math.Abs(DistanceKm(a, b)-DistanceKm(b, a)) > 1e-9 {
		t.Error("Expected distance to be symmetric")
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{0, "0 m"},
		{0.4567, "457 m"},
		{0.9994, "999 m"},
		{1, "1.0 km"},
		{2.345, "2.3 km"},
		{12.06, "12.1 km"},
	}

	for _, tt := range tests {
		if got := FormatDistance(tt.km); got != tt.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tt.km, got, tt.want)
		}
	}
}

func TestMapsURL(t *testing.T) {
	coords := &Coordinates{Latitude: 8.45, Longitude: 124.63}

	if got := MapsURL(coords, "ignored"); got != "https://www.google.com/maps/search/?api=1&query=8.45,124.63" {
		t.Errorf("Unexpected coordinates URL: %s", got)
	}
	if got := MapsURL(nil, "Divisoria, CDO"); got != "https://www.google.com/maps/search/?api=1&query=Divisoria%2C+CDO" {
		t.Errorf("Unexpected address URL: %s", got)
	}
	if got := MapsURL(nil, ""); got != "" {
		t.Errorf("Expected empty URL, got %s", got)
	}
}

func TestCoordinatesValid(t *testing.T) {
	if !(Coordinates{Latitude: -90, Longitude: 180}).Valid() {
		t.Error("Expected boundary coordinates to be valid")
	}
	if (Coordinates{Latitude: 91, Longitude: 0}).Valid() {
		t.Error("Expected latitude 91 to be invalid")
	}
	if (Coordinates{Latitude: 0, Longitude: -181}).Valid() {
		t.Error("Expected longitude -181 to be invalid")
	}
}
