package geo

import "testing"

func TestCloseRing(t *testing.T) {
	tests := []struct {
		name string
		in   Ring
		want int
	}{
		{"open triangle", Ring{{0, 0}, {1, 0}, {1, 1}}, 4},
		{"already closed", Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, 4},
		{"two points", Ring{{0, 0}, {1, 0}}, 2},
		{"empty", Ring{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CloseRing(tt.in)
			if len(got) != tt.want {
				t.Fatalf("expected %d coordinates, got %d", tt.want, len(got))
			}
			if tt.want >= 4 && !got.Closed() {
				t.Errorf("ring not closed: %v", got)
			}
		})
	}

	in := Ring{{0, 0}, {1, 0}, {1, 1}}
	out := CloseRing(in)
	out[0] = Coordinate{9, 9}
	if in[0] != (Coordinate{0, 0}) || len(in) != 3 {
		t.Errorf("input modified: %v", in)
	}
}

func TestPolygonRoundTrip(t *testing.T) {
	coords := []Coordinate{
		{-100.30, 25.60},
		{-100.20, 25.60},
		{-100.20, 25.70},
		{-100.30, 25.60},
	}

	fc := CoordsToPolygonFeatureCollection(coords)
	if fc.Len() != 1 {
		t.Fatalf("expected 1 feature, got %d", fc.Len())
	}
	if fc.Features[0].Geometry.Type != GeometryTypePolygon {
		t.Fatalf("expected polygon, got %v", fc.Features[0].Geometry.Type)
	}
	if fc.Features[0].Properties == nil {
		t.Error("expected non-nil properties")
	}

	got := PolygonToLatLon(fc)
	if len(got) != len(coords) {
		t.Fatalf("expected %d records, got %d", len(coords), len(got))
	}
	for i, c := range coords {
		if got[i].Lat != c.Lat() || got[i].Lon != c.Lon() {
			t.Errorf("record %d: got %+v, want lat=%v lon=%v", i, got[i], c.Lat(), c.Lon())
		}
	}

	coords[0] = Coordinate{0, 0}
	if fc.Features[0].Geometry.Polygon[0][0] == (Coordinate{0, 0}) {
		t.Error("feature collection shares storage with input coordinates")
	}
}

func TestPolygonToLatLon(t *testing.T) {
	t.Run("skips non-area features", func(t *testing.T) {
		fc := NewFeatureCollection(
			NewFeature(NewPoint(Coordinate{1, 2})),
			NewFeature(NewPolygon(Ring{{3, 4}, {5, 4}, {5, 6}, {3, 4}})),
		)
		got := PolygonToLatLon(fc)
		if len(got) != 4 || got[0].Lat != 4 || got[0].Lon != 3 {
			t.Errorf("unexpected outline: %+v", got)
		}
	})

	t.Run("multipolygon uses first ring of first polygon", func(t *testing.T) {
		fc := NewFeatureCollection(NewFeature(NewMultiPolygon(
			[]Ring{{{10, 20}, {11, 20}, {11, 21}, {10, 20}}},
			[]Ring{{{30, 40}, {31, 40}, {31, 41}, {30, 40}}},
		)))
		got := PolygonToLatLon(fc)
		if len(got) != 4 || got[0].Lon != 10 || got[0].Lat != 20 {
			t.Errorf("unexpected outline: %+v", got)
		}
	})

	t.Run("no area feature", func(t *testing.T) {
		got := PolygonToLatLon(NewFeatureCollection(NewFeature(NewPoint(Coordinate{1, 2}))))
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})
}
