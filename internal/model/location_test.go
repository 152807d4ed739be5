package model

import "testing"

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		z, o float64
		want Location
	}{
		{name: "zero values", want: Location{}},
		{name: "positive coordinates", x: 100, y: 200, z: 300, o: 1.5, want: Location{X: 100, Y: 200, Z: 300, Orientation: 1.5}},
		{name: "negative coordinates", x: -100, y: -200, z: -300, want: Location{X: -100, Y: -200, Z: -300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLocation(tt.x, tt.y, tt.z, tt.o)
			if got != tt.want {
				t.Errorf("NewLocation() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLocation_WithCoordinates(t *testing.T) {
	loc := NewLocation(1, 2, 3, 0.5)
	moved := loc.WithCoordinates(10, 20, 30)

	if loc.X != 1 {
		t.Errorf("original mutated: %+v", loc)
	}
	if moved != (Location{X: 10, Y: 20, Z: 30, Orientation: 0.5}) {
		t.Errorf("WithCoordinates() = %+v", moved)
	}
}

func TestLocation_DistanceSquared(t *testing.T) {
	a := NewLocation(0, 0, 0, 0)
	b := NewLocation(3, 4, 0, 0)

	if got := a.DistanceSquared(b); got != 25 {
		t.Errorf("DistanceSquared() = %v, want 25", got)
	}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}

func TestLocation_WithinRadius(t *testing.T) {
	center := NewLocation(0, 0, 0, 0)

	tests := []struct {
		name   string
		other  Location
		radius float64
		want   bool
	}{
		{"inside", NewLocation(3, 0, 0, 0), 5, true},
		{"on border", NewLocation(5, 0, 0, 0), 5, true},
		{"outside", NewLocation(5.1, 0, 0, 0), 5, false},
		{"vertical", NewLocation(0, 0, 6, 0), 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := center.WithinRadius(tt.other, tt.radius); got != tt.want {
				t.Errorf("WithinRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}
