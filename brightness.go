package pixfx

// Brightness adds a constant to the R, G and B channels. Brightness is in
// [-1, 1]: the CPU path adds round(Brightness*255) to each byte, the GPU path
// adds Brightness in normalized color space.
type Brightness struct {
	Brightness float64
}

var brightnessDefaults = Brightness{}

// NewBrightness creates a brightness filter.
func NewBrightness(b float64) *Brightness {
	f := brightnessDefaults
	f.Brightness = b
	return &f
}

func (f *Brightness) Type() FilterType                { return FilterBrightness }
func (f *Brightness) MainParameter() string           { return "brightness" }
func (f *Brightness) MainParameterValue() float64     { return f.Brightness }
func (f *Brightness) SetMainParameterValue(v float64) { f.Brightness = v }
func (f *Brightness) Passes() int                     { return 1 }

// IsNeutralState reports whether Brightness is exactly 0.
func (f *Brightness) IsNeutralState(*PipelineState) bool { return f.Brightness == 0 }

// ApplyTo runs one pass on the selected backend.
func (f *Brightness) ApplyTo(st *PipelineState) error { return applyTo(f, st) }

// ApplyToCPU offsets every pixel of st.ImageData in place. Out-of-range sums
// clamp on store.
func (f *Brightness) ApplyToCPU(st *PipelineState) error {
	if f.Brightness == 0 {
		return nil
	}
	d := int(roundHalfUp(f.Brightness * 255))
	img := st.ImageData
	w, h := imageSize(img)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for i := 0; i < len(row); i += 4 {
			row[i] = clampInt(int(row[i]) + d)
			row[i+1] = clampInt(int(row[i+1]) + d)
			row[i+2] = clampInt(int(row[i+2]) + d)
		}
	}
	return nil
}

// FragmentSource returns the brightness program.
func (f *Brightness) FragmentSource() string { return brightnessShaderSrc }

// UniformLocations binds the brightness offset.
func (f *Brightness) UniformLocations(GPUContext, *Program) UniformLocations {
	return UniformLocations{"brightness": "Brightness"}
}

// SendUniformData sends Brightness in normalized units.
func (f *Brightness) SendUniformData(_ GPUContext, loc UniformLocations, uniforms map[string]any) {
	uniforms[loc["brightness"]] = float32(f.Brightness)
}
