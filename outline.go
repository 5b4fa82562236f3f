package pixfx

import "image/color"

// edgeColor is the shared state of the 1-pixel edge filters. Color is straight
// alpha; a fully transparent color is neutral.
type edgeColor struct {
	Color color.NRGBA

	colorF32 [4]float32 // persistent uniform buffer, premultiplied
}

// alphaValue is the main parameter of the edge filters: the color's alpha in
// [0, 1], so an edge can be faded in or out.
func (e *edgeColor) alphaValue() float64 { return float64(e.Color.A) / 255 }

func (e *edgeColor) setAlphaValue(v float64) { e.Color.A = clampByte(v * 255) }

func (e *edgeColor) sendColor(name string, loc UniformLocations, uniforms map[string]any) {
	a := float32(e.Color.A) / 255
	e.colorF32[0] = float32(e.Color.R) / 255 * a
	e.colorF32[1] = float32(e.Color.G) / 255 * a
	e.colorF32[2] = float32(e.Color.B) / 255 * a
	e.colorF32[3] = a
	uniforms[loc[name]] = e.colorF32[:]
}

// opaqueAt reports whether (x, y) is inside src and not fully transparent.
func opaqueAt(src []uint8, stride, w, h, x, y int) bool {
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return src[y*stride+4*x+3] != 0
}

// over composites straight-alpha c over the straight-alpha pixel p in place.
func over(p []uint8, c color.NRGBA) {
	ca := float64(c.A) / 255
	pa := float64(p[3]) / 255 * (1 - ca)
	a := ca + pa
	if a == 0 {
		return
	}
	p[0] = clampByte((float64(c.R)*ca + float64(p[0])*pa) / a)
	p[1] = clampByte((float64(c.G)*ca + float64(p[1])*pa) / a)
	p[2] = clampByte((float64(c.B)*ca + float64(p[2])*pa) / a)
	p[3] = clampByte(a * 255)
}

// applyEdgeCPU composites c over every pixel for which edge reports true.
// The test reads a snapshot of the input so recolored pixels do not leak
// into their neighbors' tests.
func applyEdgeCPU(st *PipelineState, c color.NRGBA, edge func(src []uint8, stride, w, h, x, y int) bool) {
	img := st.ImageData
	w, h := imageSize(img)
	snap := st.Resources.AcquireImage(RoleSnapshot, w, h)
	for y := 0; y < h; y++ {
		copy(snap.Pix[y*snap.Stride:y*snap.Stride+4*w], img.Pix[y*img.Stride:y*img.Stride+4*w])
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !edge(snap.Pix, snap.Stride, w, h, x, y) {
				continue
			}
			i := y*img.Stride + 4*x
			over(img.Pix[i:i+4], c)
		}
	}
}

// --- Outline ---

// Outline draws a 1-pixel outline in Color on the transparent pixels that
// touch an opaque pixel horizontally or vertically. The outline stays inside
// the image bounds; leave a transparent margin to outline shapes that reach
// the edge.
type Outline struct {
	edgeColor
}

var outlineDefaults = Outline{edgeColor{Color: color.NRGBA{0, 0, 0, 255}}}

// NewOutline creates an outline filter.
func NewOutline(c color.NRGBA) *Outline {
	f := outlineDefaults
	f.Color = c
	return &f
}

func (f *Outline) Type() FilterType                { return FilterOutline }
func (f *Outline) MainParameter() string           { return "alpha" }
func (f *Outline) MainParameterValue() float64     { return f.alphaValue() }
func (f *Outline) SetMainParameterValue(v float64) { f.setAlphaValue(v) }
func (f *Outline) Passes() int                     { return 1 }

// IsNeutralState reports whether the outline color is fully transparent.
func (f *Outline) IsNeutralState(*PipelineState) bool { return f.Color.A == 0 }

// ApplyTo runs one pass on the selected backend.
func (f *Outline) ApplyTo(st *PipelineState) error { return applyTo(f, st) }

// ApplyToCPU outlines st.ImageData in place.
func (f *Outline) ApplyToCPU(st *PipelineState) error {
	applyEdgeCPU(st, f.Color, func(src []uint8, stride, w, h, x, y int) bool {
		if opaqueAt(src, stride, w, h, x, y) {
			return false
		}
		return opaqueAt(src, stride, w, h, x+1, y) || opaqueAt(src, stride, w, h, x-1, y) ||
			opaqueAt(src, stride, w, h, x, y+1) || opaqueAt(src, stride, w, h, x, y-1)
	})
	return nil
}

// FragmentSource returns the outline program.
func (f *Outline) FragmentSource() string { return outlineShaderSrc }

// UniformLocations binds the outline color.
func (f *Outline) UniformLocations(GPUContext, *Program) UniformLocations {
	return UniformLocations{"color": "OutlineColor"}
}

// SendUniformData sends the premultiplied outline color.
func (f *Outline) SendUniformData(_ GPUContext, loc UniformLocations, uniforms map[string]any) {
	f.sendColor("color", loc, uniforms)
}

// --- Inline ---

// Inline paints Color over the opaque pixels that touch a transparent pixel
// or the image border horizontally or vertically. An opaque Color replaces
// the edge; a translucent one tints it.
type Inline struct {
	edgeColor
}

var inlineDefaults = Inline{edgeColor{Color: color.NRGBA{255, 255, 255, 255}}}

// NewInline creates an inline filter.
func NewInline(c color.NRGBA) *Inline {
	f := inlineDefaults
	f.Color = c
	return &f
}

func (f *Inline) Type() FilterType                { return FilterInline }
func (f *Inline) MainParameter() string           { return "alpha" }
func (f *Inline) MainParameterValue() float64     { return f.alphaValue() }
func (f *Inline) SetMainParameterValue(v float64) { f.setAlphaValue(v) }
func (f *Inline) Passes() int                     { return 1 }

// IsNeutralState reports whether the inline color is fully transparent.
func (f *Inline) IsNeutralState(*PipelineState) bool { return f.Color.A == 0 }

// ApplyTo runs one pass on the selected backend.
func (f *Inline) ApplyTo(st *PipelineState) error { return applyTo(f, st) }

// ApplyToCPU recolors the edge pixels of st.ImageData in place.
func (f *Inline) ApplyToCPU(st *PipelineState) error {
	applyEdgeCPU(st, f.Color, func(src []uint8, stride, w, h, x, y int) bool {
		if !opaqueAt(src, stride, w, h, x, y) {
			return false
		}
		return !opaqueAt(src, stride, w, h, x+1, y) || !opaqueAt(src, stride, w, h, x-1, y) ||
			!opaqueAt(src, stride, w, h, x, y+1) || !opaqueAt(src, stride, w, h, x, y-1)
	})
	return nil
}

// FragmentSource returns the inline program.
func (f *Inline) FragmentSource() string { return inlineShaderSrc }

// UniformLocations binds the inline color.
func (f *Inline) UniformLocations(GPUContext, *Program) UniformLocations {
	return UniformLocations{"color": "InlineColor"}
}

// SendUniformData sends the premultiplied inline color.
func (f *Inline) SendUniformData(_ GPUContext, loc UniformLocations, uniforms map[string]any) {
	f.sendColor("color", loc, uniforms)
}
