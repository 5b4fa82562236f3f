package pixfx

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const (
	// blurSamples is the number of samples on each side of the center tap.
	blurSamples = 15
	// blurCPUScale converts Blur to a fraction of the image dimension on the
	// CPU path.
	blurCPUScale = 0.06 * 0.5
	// blurGPUScale converts Blur to a fraction of the texture size on the GPU
	// path.
	blurGPUScale = 0.12
)

// Blur is a two-pass separable blur. Blur is in [0, 1], a fraction of the
// image dimensions, so the result looks the same at any resolution. The first
// pass runs along the horizontal axis, the second along the vertical one.
//
// The CPU path jitters every sample with true randomness to hide banding, so
// two CPU runs differ slightly. The GPU path gets the same effect from a hash
// of the fragment position and is deterministic.
type Blur struct {
	Blur float64
	// Rand supplies the CPU jitter. Nil uses the global source.
	Rand *rand.Rand

	horizontal  bool
	aspectRatio float64
	width       int
	height      int
	deltaF32    [2]float32 // persistent uniform buffer
}

var blurDefaults = Blur{horizontal: true, aspectRatio: 1}

// NewBlur creates a blur filter.
func NewBlur(blur float64) *Blur {
	f := blurDefaults
	f.Blur = blur
	return &f
}

func (f *Blur) Type() FilterType                { return FilterBlur }
func (f *Blur) MainParameter() string           { return "blur" }
func (f *Blur) MainParameterValue() float64     { return f.Blur }
func (f *Blur) SetMainParameterValue(v float64) { f.Blur = v }

// Passes returns 2: one horizontal and one vertical pass.
func (f *Blur) Passes() int { return 2 }

// IsNeutralState reports whether Blur is 0.
func (f *Blur) IsNeutralState(*PipelineState) bool { return f.Blur == 0 }

// Horizontal reports whether the next pass runs along the x axis.
func (f *Blur) Horizontal() bool { return f.horizontal }

func (f *Blur) setHorizontal(h bool) { f.horizontal = h }

// ApplyTo records the source geometry and runs the pass for the current
// axis.
func (f *Blur) ApplyTo(st *PipelineState) error {
	f.width, f.height = st.SourceWidth, st.SourceHeight
	f.aspectRatio = 1
	if st.SourceHeight > 0 {
		f.aspectRatio = float64(st.SourceWidth) / float64(st.SourceHeight)
	}
	return applyTo(f, st)
}

// axisScale shrinks the radius along the long axis so the blur is isotropic
// on non-square images.
func (f *Blur) axisScale() float64 {
	if f.horizontal {
		if f.aspectRatio > 1 {
			return 1 / f.aspectRatio
		}
		return 1
	}
	if f.aspectRatio < 1 {
		return f.aspectRatio
	}
	return 1
}

// chooseDelta returns the blur extent for the current axis in normalized
// texture coordinates.
func (f *Blur) chooseDelta() [2]float64 {
	var delta [2]float64
	b := f.axisScale() * f.Blur * blurGPUScale
	if f.horizontal {
		delta[0] = b
	} else {
		delta[1] = b
	}
	return delta
}

func (f *Blur) random() float64 {
	if f.Rand != nil {
		return f.Rand.Float64()
	}
	return rand.Float64()
}

// ApplyToCPU accumulates shifted, weighted copies of st.ImageData along the
// current axis and writes the result to st.CPUTarget.
func (f *Blur) ApplyToCPU(st *PipelineState) error {
	w, h := st.SourceWidth, st.SourceHeight
	if st.CPUTarget == nil || st.CPUTarget == st.ImageData {
		st.setupCPUTarget()
	}
	layer1 := st.Resources.AcquireCanvas(RoleBlurLayer1, w, h)
	layer2 := st.Resources.AcquireCanvas(RoleBlurLayer2, w, h)
	r := layer1.Bounds()
	draw.Draw(layer1, r, st.ImageData, st.ImageData.Rect.Min, draw.Src)

	dim := float64(w)
	if !f.horizontal {
		dim = float64(h)
	}
	radius := f.Blur * blurCPUScale * f.axisScale()

	var opts draw.Options
	for i := -blurSamples; i <= blurSamples; i++ {
		jitter := (f.random() - 0.5) / 4
		percent := float64(i) / blurSamples
		alpha := 1 - math.Abs(percent)
		if alpha <= 0 {
			continue
		}
		offset := radius*percent*dim + jitter
		tx, ty := offset, jitter
		if !f.horizontal {
			tx, ty = jitter, offset
		}
		clear(layer2.Pix)
		opts.SrcMask = image.NewUniform(color.Alpha16{A: uint16(alpha*0xffff + 0.5)})
		draw.BiLinear.Transform(layer2, f64.Aff3{1, 0, tx, 0, 1, ty}, layer1, r, draw.Over, &opts)
		draw.Draw(layer1, r, layer2, image.Point{}, draw.Over)
	}

	draw.Draw(st.CPUTarget, r, layer1, image.Point{}, draw.Src)
	clear(layer1.Pix)
	return nil
}

// FragmentSource returns the directional blur program.
func (f *Blur) FragmentSource() string { return blurShaderSrc }

// UniformLocations binds the blur extent.
func (f *Blur) UniformLocations(GPUContext, *Program) UniformLocations {
	return UniformLocations{"delta": "Delta"}
}

// SendUniformData sends the blur extent in pixels, the unit the Kage program
// samples in.
func (f *Blur) SendUniformData(_ GPUContext, loc UniformLocations, uniforms map[string]any) {
	d := f.chooseDelta()
	f.deltaF32[0] = float32(d[0] * float64(f.width))
	f.deltaF32[1] = float32(d[1] * float64(f.height))
	uniforms[loc["delta"]] = f.deltaF32[:]
}
