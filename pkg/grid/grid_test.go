package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/beetlebugorg/urbanmap/pkg/geo"
)

// monterrey is the default map extent.
var monterrey = geo.BoundingBox{MinLon: -100.43, MinLat: 25.55, MaxLon: -100.05, MaxLat: 25.78}

func splitLines(t *testing.T, fc geo.FeatureCollection) (vertical, horizontal []geo.Feature) {
	t.Helper()
	seenHorizontal := false
	for i, f := range fc.Features {
		if f.Geometry.Type != geo.GeometryTypeLineString || len(f.Geometry.LineString) != 2 {
			t.Fatalf("feature %d: expected 2-point LineString, got %+v", i, f.Geometry)
		}
		switch f.Properties["orientation"] {
		case OrientationVertical:
			if seenHorizontal {
				t.Fatalf("feature %d: vertical line after horizontal lines", i)
			}
			vertical = append(vertical, f)
		case OrientationHorizontal:
			seenHorizontal = true
			horizontal = append(horizontal, f)
		default:
			t.Fatalf("feature %d: unexpected orientation %v", i, f.Properties["orientation"])
		}
	}
	return vertical, horizontal
}

func extent(fc geo.FeatureCollection) geo.BoundingBox {
	var out geo.BoundingBox
	for i, f := range fc.Features {
		b, _ := geo.GeometryBounds(f.Geometry)
		if i == 0 {
			out = b
			continue
		}
		out = out.Union(b)
	}
	return out
}

func TestGenerateGeographicThreeCells(t *testing.T) {
	fc, err := Generate(Spec{
		Bounds:            geo.BoundingBox{MinLon: 0, MinLat: 0, MaxLon: 3, MaxLat: 3},
		CellSizeKm:        KmPerDegree,
		ReferenceLatitude: 0,
		Model:             ModelGeographic,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	vertical, horizontal := splitLines(t, fc)
	if len(vertical) != 4 || len(horizontal) != 4 {
		t.Fatalf("expected 4 vertical + 4 horizontal lines, got %d + %d", len(vertical), len(horizontal))
	}

	for i, f := range vertical {
		line := f.Geometry.LineString
		if line[0].Lon() != float64(i) || line[1].Lon() != float64(i) {
			t.Errorf("vertical %d: expected lon %d, got %v", i, i, line)
		}
		if line[0].Lat() != 0 || line[1].Lat() != 3 {
			t.Errorf("vertical %d: expected to span lat 0..3, got %v", i, line)
		}
	}
	for i, f := range horizontal {
		line := f.Geometry.LineString
		if line[0].Lat() != float64(i) || line[0].Lon() != 0 || line[1].Lon() != 3 {
			t.Errorf("horizontal %d: unexpected line %v", i, line)
		}
	}
}

func TestGenerateCornerOrder(t *testing.T) {
	spec := Spec{
		Bounds:     geo.BoundingBox{MinLon: 3, MinLat: 3, MaxLon: 0, MaxLat: 0},
		CellSizeKm: KmPerDegree,
		Model:      ModelGeographic,
	}
	fc, err := Generate(spec)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if fc.Len() != 8 {
		t.Errorf("expected 8 lines, got %d", fc.Len())
	}
}

func TestGenerateProjectedThreeCells(t *testing.T) {
	sw := project.Mercator.ToWGS84(orb.Point{0, 0})
	ne := project.Mercator.ToWGS84(orb.Point{4500, 4500})

	for _, align := range []bool{false, true} {
		fc, err := Generate(Spec{
			Bounds:              geo.BoundingBox{MinLon: sw[0], MinLat: sw[1], MaxLon: ne[0], MaxLat: ne[1]},
			CellSizeKm:          1.5,
			AlignToGlobalOrigin: align,
		})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}

		vertical, horizontal := splitLines(t, fc)
		if len(vertical) != 4 || len(horizontal) != 4 {
			t.Fatalf("align=%v: expected 4 + 4 lines, got %d + %d", align, len(vertical), len(horizontal))
		}

		for i, f := range vertical {
			a := project.WGS84.ToMercator(orb.Point(f.Geometry.LineString[0]))
			if math.Abs(a[0]-float64(i)*1500) > 1e-3 {
				t.Errorf("align=%v vertical %d: expected x=%d m, got %v", align, i, i*1500, a[0])
			}
		}
		for i, f := range horizontal {
			a := project.WGS84.ToMercator(orb.Point(f.Geometry.LineString[0]))
			if math.Abs(a[1]-float64(i)*1500) > 1e-3 {
				t.Errorf("align=%v horizontal %d: expected y=%d m, got %v", align, i, i*1500, a[1])
			}
		}
	}
}

func TestGenerateProjectedAlignment(t *testing.T) {
	fc, err := Generate(Spec{
		Bounds:              monterrey,
		CellSizeKm:          1.5,
		AlignToGlobalOrigin: true,
		PaddingCells:        1,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	vertical, horizontal := splitLines(t, fc)
	if len(vertical) < 3 || len(horizontal) < 3 {
		t.Fatalf("expected several lines, got %d + %d", len(vertical), len(horizontal))
	}

	// Interior lines sit on multiples of the cell size; the outer two are
	// clamped to the padded edge.
	for i, f := range vertical[1 : len(vertical)-1] {
		x := project.WGS84.ToMercator(orb.Point(f.Geometry.LineString[0]))[0]
		if r := x / 1500; math.Abs(r-math.Round(r)) > 1e-6 {
			t.Errorf("vertical %d: x=%v is not a multiple of 1500 m", i+1, x)
		}
	}
	for i, f := range horizontal[1 : len(horizontal)-1] {
		y := project.WGS84.ToMercator(orb.Point(f.Geometry.LineString[0]))[1]
		if r := y / 1500; math.Abs(r-math.Round(r)) > 1e-6 {
			t.Errorf("horizontal %d: y=%v is not a multiple of 1500 m", i+1, y)
		}
	}

	// Moving the box by less than a cell keeps the interior lines in place.
	shifted := monterrey
	shifted.MinLon += 0.001
	shifted.MaxLon += 0.001
	fc2, err := Generate(Spec{Bounds: shifted, CellSizeKm: 1.5, AlignToGlobalOrigin: true, PaddingCells: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	v2, _ := splitLines(t, fc2)
	want := vertical[2].Geometry.LineString[0].Lon()
	found := false
	for _, f := range v2 {
		if math.Abs(f.Geometry.LineString[0].Lon()-want) < 1e-9 {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("grid phase moved: no vertical line at lon %v after shifting the box", want)
	}
}

func TestGeneratePaddingGrowsExtent(t *testing.T) {
	for _, model := range []Model{ModelProjected, ModelGeographic} {
		t.Run(model.String(), func(t *testing.T) {
			spec := Spec{Bounds: monterrey, CellSizeKm: 1.5, ReferenceLatitude: 25.67, Model: model}

			prev := geo.BoundingBox{}
			for padding := 0; padding <= 2; padding++ {
				spec.PaddingCells = padding
				fc, err := Generate(spec)
				if err != nil {
					t.Fatalf("Generate: %v", err)
				}
				ext := extent(fc)
				if padding > 0 {
					if !(ext.MinLon < prev.MinLon && ext.MinLat < prev.MinLat &&
						ext.MaxLon > prev.MaxLon && ext.MaxLat > prev.MaxLat) {
						t.Errorf("padding %d: extent %+v does not strictly contain %+v", padding, ext, prev)
					}
				}
				prev = ext
			}
		})
	}
}

func TestAxisPositions(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		step   float64
		align  bool
		want   []float64
	}{
		{"exact fit", 0, 3, 1, false, []float64{0, 1, 2, 3}},
		{"partial last cell", 0, 2.5, 1, false, []float64{0, 1, 2, 2.5}},
		{"aligned", 0.5, 2.5, 1, true, []float64{0.5, 1, 2, 2.5}},
		{"unaligned", 0.5, 2.5, 1, false, []float64{0.5, 1.5, 2.5}},
		{"aligned negative uses floor", -2.5, -0.5, 1, true, []float64{-2.5, -2, -1, -0.5}},
		{"degenerate", 4, 4, 1, false, []float64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := axisPositions(tt.lo, tt.hi, tt.step, tt.align)
			if err != nil {
				t.Fatalf("axisPositions: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("position %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateInvalidSpec(t *testing.T) {
	tests := []struct {
		name  string
		spec  Spec
		field string
	}{
		{"zero cell", Spec{Bounds: monterrey, CellSizeKm: 0}, "CellSizeKm"},
		{"negative cell", Spec{Bounds: monterrey, CellSizeKm: -1.5}, "CellSizeKm"},
		{"nan cell", Spec{Bounds: monterrey, CellSizeKm: math.NaN()}, "CellSizeKm"},
		{"negative padding", Spec{Bounds: monterrey, CellSizeKm: 1.5, PaddingCells: -1}, "PaddingCells"},
		{"nan bounds", Spec{Bounds: geo.BoundingBox{MinLon: math.NaN()}, CellSizeKm: 1.5}, "Bounds"},
		{"pole reference", Spec{Bounds: monterrey, CellSizeKm: 1.5, ReferenceLatitude: 90, Model: ModelGeographic}, "ReferenceLatitude"},
		{"unknown model", Spec{Bounds: monterrey, CellSizeKm: 1.5, Model: Model(7)}, "Model"},
		{"too many lines", Spec{Bounds: geo.BoundingBox{MinLon: -180, MinLat: -80, MaxLon: 180, MaxLat: 80}, CellSizeKm: 0.01}, "CellSizeKm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.spec)
			var specErr *ErrInvalidSpec
			if !errors.As(err, &specErr) {
				t.Fatalf("expected *ErrInvalidSpec, got %v", err)
			}
			if specErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, specErr.Field)
			}
		})
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		in      string
		want    Model
		wantErr bool
	}{
		{"", ModelProjected, false},
		{"Projected", ModelProjected, false},
		{"mercator", ModelProjected, false},
		{" geographic ", ModelGeographic, false},
		{"degrees", ModelGeographic, false},
		{"utm", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseModel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseModel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
