package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestCropRegion(t *testing.T) {
	img := createPatternImage(100, 100)

	cropped, err := CropRegion(img, Region{0, 0, 50, 50})
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}

	b := cropped.Bounds()
	if b.Min != (image.Point{}) {
		t.Errorf("cropped origin: got %v, want (0,0)", b.Min)
	}
	if b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", b.Dx(), b.Dy())
	}
}

func TestCropRegion_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name   string
		region Region
	}{
		{"x1 negative", Region{-1, 0, 50, 50}},
		{"y1 negative", Region{0, -1, 50, 50}},
		{"x2 too large", Region{0, 0, 101, 50}},
		{"y2 too large", Region{0, 0, 50, 101}},
		{"all out of bounds", Region{-1, -1, 200, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CropRegion(img, tt.region); err == nil {
				t.Error("CropRegion should fail for out-of-bounds coordinates")
			}
		})
	}
}

func TestCropRegion_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name   string
		region Region
	}{
		{"x1 >= x2", Region{50, 0, 50, 50}},
		{"x1 > x2", Region{60, 0, 50, 50}},
		{"y1 >= y2", Region{0, 50, 50, 50}},
		{"y1 > y2", Region{0, 60, 50, 50}},
		{"zero area", Region{50, 50, 50, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CropRegion(img, tt.region); err == nil {
				t.Error("CropRegion should fail for invalid region")
			}
		})
	}
}

func TestCropRegion_VerifyContent(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		name   string
		region Region
		want   color.RGBA
	}{
		{"top-left", Region{0, 0, 50, 50}, color.RGBA{255, 0, 0, 255}},
		{"top-right", Region{50, 0, 100, 50}, color.RGBA{0, 255, 0, 255}},
		{"bottom-left", Region{0, 50, 50, 100}, color.RGBA{0, 0, 255, 255}},
		{"bottom-right", Region{50, 50, 100, 100}, color.RGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cropped, err := CropRegion(img, tt.region)
			if err != nil {
				t.Fatalf("CropRegion failed: %v", err)
			}
			r, g, b, _ := cropped.At(25, 25).RGBA()
			got := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255}
			if got != tt.want {
				t.Errorf("color: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegion_Origin(t *testing.T) {
	r := Region{12, 34, 56, 78}
	if got := r.Origin(); got != image.Pt(12, 34) {
		t.Errorf("Origin: got %v, want (12,34)", got)
	}
	if got := r.Rect(); got != image.Rect(12, 34, 56, 78) {
		t.Errorf("Rect: got %v", got)
	}
}

func TestNamedRegion(t *testing.T) {
	tests := []struct {
		name string
		want Region
	}{
		{"top-left", Region{0, 0, 50, 50}},
		{"top-right", Region{50, 0, 100, 50}},
		{"bottom-left", Region{0, 50, 50, 100}},
		{"bottom-right", Region{50, 50, 100, 100}},
		{"top-half", Region{0, 0, 100, 50}},
		{"bottom-half", Region{0, 50, 100, 100}},
		{"left-half", Region{0, 0, 50, 100}},
		{"right-half", Region{50, 0, 100, 100}},
		{"center", Region{25, 25, 75, 75}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NamedRegion(100, 100, tt.name)
			if err != nil {
				t.Fatalf("NamedRegion(%s) failed: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNamedRegion_Invalid(t *testing.T) {
	for _, name := range []string{"invalid", "TOP-LEFT", "middle", "", "center-left"} {
		t.Run(name, func(t *testing.T) {
			if _, err := NamedRegion(100, 100, name); err == nil {
				t.Errorf("NamedRegion should fail for %q", name)
			}
		})
	}
}

func TestNamedRegion_OddDimensions(t *testing.T) {
	r, err := NamedRegion(101, 101, "bottom-right")
	if err != nil {
		t.Fatalf("NamedRegion failed: %v", err)
	}
	if r != (Region{50, 50, 101, 101}) {
		t.Errorf("got %+v", r)
	}
}
