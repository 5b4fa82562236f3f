package pixfx

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const paletteSize = 256

// Palette remaps every pixel through a 256-entry palette indexed by
// luminance. CycleOffset shifts the index, wrapping around, for palette
// animation. Alpha is kept; fully transparent pixels become transparent
// black.
//
// The GPU path samples the palette from a pooled texture the size of the
// source, uploaded on Prepare and again whenever the colors or the source
// size change.
type Palette struct {
	Colors      [paletteSize]color.NRGBA
	CycleOffset float64

	uploaded [paletteSize]color.NRGBA // colors in the pool texture when it is ours
	texWidth int
}

var paletteDefaults = func() Palette {
	var p Palette
	for i := range p.Colors {
		v := uint8(i)
		p.Colors[i] = color.NRGBA{v, v, v, 255}
	}
	return p
}()

// NewPalette creates a palette filter with a grayscale ramp.
func NewPalette() *Palette {
	f := paletteDefaults
	return &f
}

// SetGradient fills the palette by interpolating evenly between stops. With
// 256 stops the palette is the stops themselves. Fewer than two stops fill
// the palette with the single color, or leave it unchanged when empty.
func (f *Palette) SetGradient(stops ...color.NRGBA) {
	switch len(stops) {
	case 0:
		return
	case 1:
		for i := range f.Colors {
			f.Colors[i] = stops[0]
		}
		return
	}
	n := len(stops)
	for i := range f.Colors {
		pos := float64(i) * float64(n-1) / (paletteSize - 1)
		j := min(int(pos), n-2)
		t := pos - float64(j)
		a, b := stops[j], stops[j+1]
		f.Colors[i] = color.NRGBA{
			R: clampByte(float64(a.R) + (float64(b.R)-float64(a.R))*t),
			G: clampByte(float64(a.G) + (float64(b.G)-float64(a.G))*t),
			B: clampByte(float64(a.B) + (float64(b.B)-float64(a.B))*t),
			A: clampByte(float64(a.A) + (float64(b.A)-float64(a.A))*t),
		}
	}
}

func (f *Palette) Type() FilterType                { return FilterPalette }
func (f *Palette) MainParameter() string           { return "cycleOffset" }
func (f *Palette) MainParameterValue() float64     { return f.CycleOffset }
func (f *Palette) SetMainParameterValue(v float64) { f.CycleOffset = v }
func (f *Palette) Passes() int                     { return 1 }

// IsNeutralState reports false: every palette, the grayscale default
// included, replaces colors.
func (f *Palette) IsNeutralState(*PipelineState) bool { return false }

// ApplyTo runs one pass on the selected backend.
func (f *Palette) ApplyTo(st *PipelineState) error { return applyTo(f, st) }

// index returns the palette entry for a straight-alpha luminance in [0, 1].
func (f *Palette) index(lum float64) int {
	idx := math.Floor(lum*(paletteSize-1) + f.CycleOffset + 0.5)
	idx = math.Mod(idx, paletteSize)
	if idx < 0 {
		idx += paletteSize
	}
	return int(idx)
}

// ApplyToCPU remaps st.ImageData in place.
func (f *Palette) ApplyToCPU(st *PipelineState) error {
	img := st.ImageData
	w, h := imageSize(img)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] == 0 {
				row[i], row[i+1], row[i+2] = 0, 0, 0
				continue
			}
			lum := (0.299*float64(row[i]) + 0.587*float64(row[i+1]) + 0.114*float64(row[i+2])) / 255
			c := f.Colors[f.index(lum)]
			row[i], row[i+1], row[i+2] = c.R, c.G, c.B
		}
	}
	return nil
}

// FragmentSource returns the palette lookup program.
func (f *Palette) FragmentSource() string { return paletteShaderSrc }

// UniformLocations binds the palette size, cycle offset and texture width.
func (f *Palette) UniformLocations(GPUContext, *Program) UniformLocations {
	return UniformLocations{
		"size":   "PaletteSize",
		"offset": "CycleOffset",
		"width":  "TexWidth",
	}
}

// SendUniformData writes the cycle offset and the width of the pooled
// palette texture.
func (f *Palette) SendUniformData(_ GPUContext, loc UniformLocations, uniforms map[string]any) {
	uniforms[loc["size"]] = float32(paletteSize)
	uniforms[loc["offset"]] = float32(f.CycleOffset)
	uniforms[loc["width"]] = float32(f.texWidth)
}

func (f *Palette) auxImages(st *PipelineState) ([]*ebiten.Image, error) {
	t, err := f.upload(st.Context, st.Resources, st.SourceWidth, st.SourceHeight)
	if err != nil {
		return nil, err
	}
	f.texWidth = t.Width()
	return []*ebiten.Image{t.Image()}, nil
}

// prepare uploads the palette at the size of the pool's current source
// texture, or at 256x1 before the first run.
func (f *Palette) prepare(ctx GPUContext, pool *ResourcePool) error {
	w, h := paletteSize, 1
	if src, ok := pool.textures[RoleSource]; ok {
		w, h = src.Width(), src.Height()
	}
	_, err := f.upload(ctx, pool, w, h)
	return err
}

// upload returns the pooled palette texture at w x h holding f's colors. The
// texture is rewritten only when another filter used it last, it was
// resized, or the colors changed.
func (f *Palette) upload(ctx GPUContext, pool *ResourcePool, w, h int) (*Texture, error) {
	t, err := pool.AcquireTexture(ctx, RolePalette, w, h)
	if err != nil {
		return nil, err
	}
	if t.owner == f && f.uploaded == f.Colors {
		return t, nil
	}
	stage := pool.AcquireCanvas(RolePalette, w, h)
	// Entries are stretched across the width and repeated per row.
	for x := 0; x < w; x++ {
		idx := min(int((float64(x)+0.5)*paletteSize/float64(w)), paletteSize-1)
		c := f.Colors[idx]
		a := int(c.A)
		pm := [4]uint8{
			uint8((int(c.R)*a + 127) / 255),
			uint8((int(c.G)*a + 127) / 255),
			uint8((int(c.B)*a + 127) / 255),
			c.A,
		}
		for y := 0; y < h; y++ {
			copy(stage.Pix[y*stage.Stride+4*x:], pm[:])
		}
	}
	ctx.Upload(t.Image(), stage.Pix)
	t.owner = f
	f.uploaded = f.Colors
	logger.Debug("pixfx: palette uploaded", "w", w, "h", h)
	return t, nil
}
