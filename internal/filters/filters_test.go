package filters

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/keagan/vidfx/internal/clips"
	"github.com/keagan/vidfx/internal/registry"
	"github.com/keagan/vidfx/internal/testsupport"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	if err := Register(r); err != nil {
		t.Fatalf("register filters: %v", err)
	}
	return r
}

func build(t *testing.T, r *registry.Registry, spec string) registry.Transform {
	t.Helper()
	req, err := r.Bind(registry.CategoryFilter, spec)
	if err != nil {
		t.Fatalf("bind %q: %v", spec, err)
	}
	tr, err := req.Transform()
	if err != nil {
		t.Fatalf("build %q: %v", spec, err)
	}
	return tr
}

func apply(t *testing.T, r *registry.Registry, spec string, c *clips.Clip) []*image.RGBA {
	t.Helper()
	out, err := build(t, r, spec).Apply(c)
	if err != nil {
		t.Fatalf("apply %q: %v", spec, err)
	}
	return testsupport.Frames(t, out)
}

func TestRegisterOrder(t *testing.T) {
	want := []string{"greyscale", "film", "high-contrast", "hue", "purpleish", "pink_future", "identity"}
	got := newRegistry(t).List(registry.CategoryFilter)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("filter %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFiltersPreserveShapeAndInput(t *testing.T) {
	r := newRegistry(t)
	c := testsupport.Pattern(t, 16, 9, 3, 24)
	before := testsupport.Frames(t, c)
	snapshot := make([][]byte, len(before))
	for i, f := range before {
		snapshot[i] = bytes.Clone(f.Pix)
	}

	for _, name := range r.List(registry.CategoryFilter) {
		t.Run(name, func(t *testing.T) {
			frames := apply(t, r, name, c)
			if len(frames) != c.Len() {
				t.Fatalf("got %d frames, want %d", len(frames), c.Len())
			}
			for i, f := range frames {
				if f.Rect.Dx() != 16 || f.Rect.Dy() != 9 {
					t.Errorf("frame %d is %v", i, f.Rect)
				}
			}
			for i, f := range testsupport.Frames(t, c) {
				if !bytes.Equal(f.Pix, snapshot[i]) {
					t.Fatalf("filter modified input frame %d", i)
				}
			}
		})
	}
}

func TestGreyscaleIsLuminance(t *testing.T) {
	r := newRegistry(t)
	for _, f := range apply(t, r, "greyscale", testsupport.Pattern(t, 8, 8, 2, 24)) {
		for p := 0; p < len(f.Pix); p += 4 {
			if f.Pix[p] != f.Pix[p+1] || f.Pix[p+1] != f.Pix[p+2] {
				t.Fatalf("pixel %d not grey: %v", p/4, f.Pix[p:p+3])
			}
		}
	}

	// Mid grey is the contrast pivot.
	f := apply(t, r, "greyscale:contrast=3", testsupport.Solid(t, 2, 2, 1, 24, color.RGBA{128, 128, 128, 255}))[0]
	if f.Pix[0] != 128 {
		t.Errorf("mid grey moved to %d", f.Pix[0])
	}
}

func TestHighContrast(t *testing.T) {
	r := newRegistry(t)
	f := apply(t, r, "high-contrast:contrast=2", testsupport.Solid(t, 1, 1, 1, 24, color.RGBA{200, 50, 128, 255}))[0]
	if f.Pix[0] != 255 || f.Pix[1] != 0 {
		t.Errorf("expected channels pushed to the extremes, got %v", f.Pix[:3])
	}
}

func TestHue(t *testing.T) {
	r := newRegistry(t)

	grey := testsupport.Solid(t, 2, 2, 1, 24, color.RGBA{90, 90, 90, 255})
	if f := apply(t, r, "hue", grey)[0]; f.Pix[0] != 90 || f.Pix[1] != 90 || f.Pix[2] != 90 {
		t.Errorf("hue changed a grey pixel: %v", f.Pix[:3])
	}

	red := testsupport.Solid(t, 1, 1, 1, 24, color.RGBA{255, 0, 0, 255})
	f := apply(t, r, "hue:degrees=120", red)[0]
	if f.Pix[0] != 0 || f.Pix[1] != 255 || f.Pix[2] != 0 {
		t.Errorf("red rotated by 120 degrees = %v, want green", f.Pix[:3])
	}

	full := apply(t, r, "hue:degrees=360", red)[0]
	if full.Pix[0] != 255 || full.Pix[1] != 0 || full.Pix[2] != 0 {
		t.Errorf("full rotation changed the color: %v", full.Pix[:3])
	}
}

func TestFilmIsDeterministic(t *testing.T) {
	r := newRegistry(t)
	c := testsupport.Pattern(t, 12, 8, 2, 24)

	a := apply(t, r, "film", c)
	b := apply(t, r, "film", c)
	for i := range a {
		if !bytes.Equal(a[i].Pix, b[i].Pix) {
			t.Fatalf("frame %d differs between runs", i)
		}
	}

	noGrain := apply(t, r, "film:grain=0:saturation=1:warm_r=1:warm_g=1:warm_b=1", c)
	for i, f := range testsupport.Frames(t, c) {
		if !bytes.Equal(f.Pix, noGrain[i].Pix) {
			t.Fatalf("neutral film settings changed frame %d", i)
		}
	}
}

func TestPurpleish(t *testing.T) {
	r := newRegistry(t)
	blue := testsupport.Solid(t, 1, 1, 1, 24, color.RGBA{20, 40, 200, 255})
	f := apply(t, r, "purpleish", blue)[0]
	if f.Pix[0] != 120 || f.Pix[1] != 32 || f.Pix[2] != 200 {
		t.Errorf("bright blue tinted to %v", f.Pix[:3])
	}

	dark := testsupport.Solid(t, 1, 1, 1, 24, color.RGBA{10, 10, 10, 255})
	if f := apply(t, r, "purpleish", dark)[0]; f.Pix[0] != 10 || f.Pix[2] != 10 {
		t.Errorf("dark pixel below the grey floor was tinted: %v", f.Pix[:3])
	}
}

func TestPinkFuture(t *testing.T) {
	r := newRegistry(t)

	white := testsupport.Solid(t, 1, 1, 1, 24, color.RGBA{255, 255, 255, 255})
	if f := apply(t, r, "pink_future", white)[0]; f.Pix[0] != 255 || f.Pix[1] != 193 || f.Pix[2] != 255 {
		t.Errorf("highlight = %v, want pink", f.Pix[:3])
	}

	black := testsupport.Solid(t, 1, 1, 1, 24, color.RGBA{0, 0, 0, 255})
	if f := apply(t, r, "pink_future", black)[0]; f.Pix[0] != 0 || f.Pix[1] != 128 || f.Pix[2] != 128 {
		t.Errorf("shadow = %v, want cyan", f.Pix[:3])
	}
}

func TestIdentityIsIdempotent(t *testing.T) {
	r := newRegistry(t)
	c := testsupport.Pattern(t, 8, 8, 4, 24)
	tr := build(t, r, "identity")

	once, err := tr.Apply(c)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := tr.Apply(once)
	if err != nil {
		t.Fatal(err)
	}
	if !testsupport.SameFrames(t, once, twice) || !testsupport.SameFrames(t, c, once) {
		t.Error("identity changed the clip")
	}
}
