package pixfx

import "github.com/hajimehoshi/ebiten/v2"

// Filter is a parameterized pixel transform. Filters hold parameters only;
// buffers, programs and the GPU context are passed in through the
// PipelineState.
type Filter interface {
	// Type returns the filter kind. It never changes for an instance.
	Type() FilterType
	// MainParameter names the descriptor field of the primary tunable value.
	MainParameter() string
	// MainParameterValue returns the primary tunable value.
	MainParameterValue() float64
	// SetMainParameterValue assigns the primary tunable value.
	SetMainParameterValue(v float64)
	// Passes returns how many passes one application takes.
	Passes() int
	// IsNeutralState reports whether the current parameters are an identity
	// transform. Filters with derived state recompute it first.
	IsNeutralState(st *PipelineState) bool
	// ApplyTo runs one pass on the backend selected by st.GPU.
	ApplyTo(st *PipelineState) error
}

// CPUFilter is a filter with an imperative pixel path.
type CPUFilter interface {
	Filter
	// ApplyToCPU filters st.ImageData in place, or writes st.CPUTarget for
	// multi-pass filters.
	ApplyToCPU(st *PipelineState) error
}

// GPUFilter is a filter with a Kage shader path.
type GPUFilter interface {
	Filter
	// FragmentSource returns the Kage source of the filter's program.
	FragmentSource() string
	// UniformLocations returns the uniform bindings of a freshly compiled
	// program. Called once per program.
	UniformLocations(ctx GPUContext, p *Program) UniformLocations
	// SendUniformData writes the current parameters into uniforms using
	// the bindings from UniformLocations.
	SendUniformData(ctx GPUContext, loc UniformLocations, uniforms map[string]any)
}

// directionalFilter is a multi-pass filter whose passes alternate between
// the horizontal and vertical axis.
type directionalFilter interface {
	setHorizontal(h bool)
}

// auxImageFilter is a GPU filter that samples pool textures besides the
// source. The images are bound after the source and match its size.
type auxImageFilter interface {
	auxImages(st *PipelineState) ([]*ebiten.Image, error)
}

// preparer is a filter with auxiliary GPU resources that can be built before
// its first pass.
type preparer interface {
	prepare(ctx GPUContext, pool *ResourcePool) error
}

// applyTo dispatches one pass of f to the backend st selected. A filter that
// lacks the backend's method fails with CapabilityMismatchError.
func applyTo(f Filter, st *PipelineState) error {
	if st.GPU {
		g, ok := f.(GPUFilter)
		if !ok {
			return &CapabilityMismatchError{Index: -1, Filter: f.Type(), Backend: BackendGPU}
		}
		return applyToGPU(g, st)
	}
	c, ok := f.(CPUFilter)
	if !ok {
		return &CapabilityMismatchError{Index: -1, Filter: f.Type(), Backend: BackendCPU}
	}
	return c.ApplyToCPU(st)
}

// applyToGPU draws one pass of f from the source texture into the frame
// buffer chosen by the pass setup.
func applyToGPU(f GPUFilter, st *PipelineState) error {
	if err := checkContext(st.Context); err != nil {
		return err
	}
	p, err := st.Programs.Get(st.Context, f)
	if err != nil {
		return err
	}
	var aux []*ebiten.Image
	if a, ok := f.(auxImageFilter); ok {
		if aux, err = a.auxImages(st); err != nil {
			return err
		}
	}
	f.SendUniformData(st.Context, p.Locations, p.uniforms)
	dst := st.setupFrameBuffer()
	st.Context.Draw(dst.Image(), st.SourceTexture.Image(), p.Shader, p.uniforms, aux...)
	st.lastWritten = dst
	return nil
}
