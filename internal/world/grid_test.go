package world

import "testing"

func TestCoordToRegionIndex(t *testing.T) {
	tests := []struct {
		name           string
		x, y           float64
		wantRX, wantRY int32
	}{
		{name: "origin", x: 0, y: 0, wantRX: 66, wantRY: 66},
		{name: "min boundaries", x: WorldMin, y: WorldMin, wantRX: 0, wantRY: 0},
		{name: "max boundaries", x: WorldMax - 1, y: WorldMax - 1, wantRX: RegionsPerAxis - 1, wantRY: RegionsPerAxis - 1},
		{name: "negative", x: -300, y: 300, wantRX: 65, wantRY: 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx, ry := CoordToRegionIndex(tt.x, tt.y)
			if rx != tt.wantRX || ry != tt.wantRY {
				t.Errorf("CoordToRegionIndex(%v, %v) = (%d, %d), want (%d, %d)",
					tt.x, tt.y, rx, ry, tt.wantRX, tt.wantRY)
			}
		})
	}
}

func TestIsValidRegionIndex(t *testing.T) {
	tests := []struct {
		name   string
		rx, ry int32
		want   bool
	}{
		{"valid min", 0, 0, true},
		{"valid max", RegionsPerAxis - 1, RegionsPerAxis - 1, true},
		{"negative x", -1, 0, false},
		{"overflow y", 0, RegionsPerAxis, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidRegionIndex(tt.rx, tt.ry); got != tt.want {
				t.Errorf("IsValidRegionIndex(%d, %d) = %v, want %v", tt.rx, tt.ry, got, tt.want)
			}
		})
	}
}

func TestRegionIndexToCoord_RoundTrip(t *testing.T) {
	for _, idx := range []int32{0, 10, 66, RegionsPerAxis - 1} {
		x, y := RegionIndexToCoord(idx, idx)
		rx, ry := CoordToRegionIndex(x, y)
		if rx != idx || ry != idx {
			t.Errorf("round trip %d -> (%v, %v) -> (%d, %d)", idx, x, y, rx, ry)
		}
	}
}

func TestRegionSpan(t *testing.T) {
	if got := regionSpan(30); got != 1 {
		t.Errorf("regionSpan(30) = %d, want 1", got)
	}
	if got := regionSpan(RegionSize * 2.5); got != 3 {
		t.Errorf("regionSpan(2.5 regions) = %d, want 3", got)
	}
}
