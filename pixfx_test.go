package pixfx

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// solidImage returns a w x h straight-alpha image filled with c.
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// assertPixels fails unless every pixel of img equals want.
func assertPixels(t *testing.T, img *image.NRGBA, want color.NRGBA) {
	t.Helper()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if got := img.NRGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

// cpuState returns a CPU pipeline state over img.
func cpuState(img *image.NRGBA) *PipelineState {
	w, h := imageSize(img)
	return &PipelineState{
		ImageData:    img,
		SourceWidth:  w,
		SourceHeight: h,
		Resources:    NewResourcePool(),
	}
}

// --- Recording GPU context ---

type gpuDraw struct {
	dst, src *ebiten.Image
	aux      []*ebiten.Image
	program  *ebiten.Shader
	uniforms map[string]any
}

// fakeGPU records GPU work without executing it. Textures are real images
// (allocation works without a running game); programs are placeholders.
type fakeGPU struct {
	lost        bool
	failProgram error
	failTexture error

	textures int
	programs []string
	deleted  int
	uploads  int
	copies   int
	draws    []gpuDraw
	// uploaded holds the bytes of every Upload, keyed by texture.
	uploaded map[*ebiten.Image][]byte
}

func (g *fakeGPU) NewTexture(w, h int) (*ebiten.Image, error) {
	if g.failTexture != nil {
		return nil, g.failTexture
	}
	g.textures++
	return ebiten.NewImage(w, h), nil
}

func (g *fakeGPU) NewProgram(src []byte) (*ebiten.Shader, error) {
	if g.failProgram != nil {
		return nil, g.failProgram
	}
	g.programs = append(g.programs, string(src))
	return new(ebiten.Shader), nil
}

func (g *fakeGPU) DeleteProgram(*ebiten.Shader) { g.deleted++ }

func (g *fakeGPU) Upload(dst *ebiten.Image, pix []byte) {
	g.uploads++
	if g.uploaded == nil {
		g.uploaded = make(map[*ebiten.Image][]byte)
	}
	g.uploaded[dst] = append([]byte(nil), pix...)
}

func (g *fakeGPU) Copy(*ebiten.Image, *ebiten.Image) { g.copies++ }

func (g *fakeGPU) Draw(dst, src *ebiten.Image, program *ebiten.Shader, uniforms map[string]any, aux ...*ebiten.Image) {
	u := make(map[string]any, len(uniforms))
	for k, v := range uniforms {
		if s, ok := v.([]float32); ok {
			v = append([]float32(nil), s...)
		}
		u[k] = v
	}
	g.draws = append(g.draws, gpuDraw{
		dst:      dst,
		src:      src,
		aux:      append([]*ebiten.Image(nil), aux...),
		program:  program,
		uniforms: u,
	})
}

func (g *fakeGPU) Lost() bool { return g.lost }

// --- Enums ---

func TestFilterTypeRoundTrip(t *testing.T) {
	types := []FilterType{
		FilterBrightness, FilterHueRotation, FilterColorMatrix,
		FilterContrast, FilterSaturation, FilterBlur,
		FilterPalette, FilterOutline, FilterInline,
	}
	for _, ft := range types {
		got, ok := ParseFilterType(ft.String())
		if !ok || got != ft {
			t.Errorf("ParseFilterType(%q) = %v, %v; want %v", ft.String(), got, ok, ft)
		}
	}
	if _, ok := ParseFilterType("Sepia"); ok {
		t.Error("Sepia should not parse")
	}
	if s := FilterType(99).String(); s != "FilterType(99)" {
		t.Errorf("unknown String() = %q", s)
	}
}

func TestBackendKindString(t *testing.T) {
	if BackendCPU.String() != "cpu" || BackendGPU.String() != "gpu" {
		t.Errorf("got %q/%q", BackendCPU, BackendGPU)
	}
}

func TestClampByte(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-10, 0},
		{0, 0},
		{0.5, 1},
		{1.49, 1},
		{127.5, 128},
		{254.6, 255},
		{300, 255},
	}
	for _, tt := range tests {
		if got := clampByte(tt.in); got != tt.want {
			t.Errorf("clampByte(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
