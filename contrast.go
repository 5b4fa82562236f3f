package pixfx

import "math"

// Contrast stretches channels around mid-gray. Contrast is in [-1, 1]; 0 is
// neutral, -1 flattens to gray.
type Contrast struct {
	Contrast float64
}

var contrastDefaults = Contrast{}

// NewContrast creates a contrast filter.
func NewContrast(c float64) *Contrast {
	f := contrastDefaults
	f.Contrast = c
	return &f
}

func (f *Contrast) Type() FilterType                { return FilterContrast }
func (f *Contrast) MainParameter() string           { return "contrast" }
func (f *Contrast) MainParameterValue() float64     { return f.Contrast }
func (f *Contrast) SetMainParameterValue(v float64) { f.Contrast = v }
func (f *Contrast) Passes() int                     { return 1 }

// IsNeutralState reports whether Contrast is 0.
func (f *Contrast) IsNeutralState(*PipelineState) bool { return f.Contrast == 0 }

// ApplyTo runs one pass on the selected backend.
func (f *Contrast) ApplyTo(st *PipelineState) error { return applyTo(f, st) }

// ApplyToCPU uses the 8-bit contrast correction factor
// 259(c+255) / 255(259-c) with c = floor(Contrast*255).
func (f *Contrast) ApplyToCPU(st *PipelineState) error {
	c := math.Floor(f.Contrast * 255)
	factor := 259 * (c + 255) / (255 * (259 - c))
	img := st.ImageData
	w, h := imageSize(img)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for i := 0; i < len(row); i += 4 {
			row[i] = clampByte(factor*(float64(row[i])-128) + 128)
			row[i+1] = clampByte(factor*(float64(row[i+1])-128) + 128)
			row[i+2] = clampByte(factor*(float64(row[i+2])-128) + 128)
		}
	}
	return nil
}

// FragmentSource returns the contrast program.
func (f *Contrast) FragmentSource() string { return contrastShaderSrc }

// UniformLocations binds the contrast amount.
func (f *Contrast) UniformLocations(GPUContext, *Program) UniformLocations {
	return UniformLocations{"contrast": "Contrast"}
}

// SendUniformData sends Contrast unscaled; the program derives its factor.
func (f *Contrast) SendUniformData(_ GPUContext, loc UniformLocations, uniforms map[string]any) {
	uniforms[loc["contrast"]] = float32(f.Contrast)
}
