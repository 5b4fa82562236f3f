package pixfx

import "math"

// Saturation scales the distance of each channel from the brightest channel
// of its pixel. Saturation is in [-1, 1]: -1 is grayscale by max channel,
// positive values oversaturate.
type Saturation struct {
	Saturation float64
}

var saturationDefaults = Saturation{}

// NewSaturation creates a saturation filter.
func NewSaturation(s float64) *Saturation {
	f := saturationDefaults
	f.Saturation = s
	return &f
}

func (f *Saturation) Type() FilterType                { return FilterSaturation }
func (f *Saturation) MainParameter() string           { return "saturation" }
func (f *Saturation) MainParameterValue() float64     { return f.Saturation }
func (f *Saturation) SetMainParameterValue(v float64) { f.Saturation = v }
func (f *Saturation) Passes() int                     { return 1 }

// IsNeutralState reports whether Saturation is 0.
func (f *Saturation) IsNeutralState(*PipelineState) bool { return f.Saturation == 0 }

// ApplyTo runs one pass on the selected backend.
func (f *Saturation) ApplyTo(st *PipelineState) error { return applyTo(f, st) }

// ApplyToCPU adjusts st.ImageData in place.
func (f *Saturation) ApplyToCPU(st *PipelineState) error {
	adjust := -f.Saturation
	img := st.ImageData
	w, h := imageSize(img)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for i := 0; i < len(row); i += 4 {
			r, g, b := float64(row[i]), float64(row[i+1]), float64(row[i+2])
			m := math.Max(r, math.Max(g, b))
			row[i] = clampByte(r + (m-r)*adjust)
			row[i+1] = clampByte(g + (m-g)*adjust)
			row[i+2] = clampByte(b + (m-b)*adjust)
		}
	}
	return nil
}

// FragmentSource returns the saturation program.
func (f *Saturation) FragmentSource() string { return saturationShaderSrc }

// UniformLocations binds the per-channel step.
func (f *Saturation) UniformLocations(GPUContext, *Program) UniformLocations {
	return UniformLocations{"saturation": "Saturation"}
}

// SendUniformData sends the negated parameter, the per-channel step the
// shader applies.
func (f *Saturation) SendUniformData(_ GPUContext, loc UniformLocations, uniforms map[string]any) {
	uniforms[loc["saturation"]] = float32(-f.Saturation)
}
