package pixfx

import (
	"context"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// BackendConfig configures a FilterBackend.
type BackendConfig struct {
	// GPU is the graphics context used for GPU runs. Nil means every run
	// executes on the CPU.
	GPU GPUContext
}

// RunOptions are the inputs of one pipeline run.
type RunOptions struct {
	// GPU requests the shader path. It is honored only when the backend has
	// a GPU context.
	GPU bool
	// Image is the straight-alpha input. Required on the CPU path, where it
	// is also the output: the run mutates it in place. On the GPU path it is
	// uploaded when Source is nil.
	Image *image.NRGBA
	// Source is an optional GPU-resident input.
	Source *ebiten.Image
	// Output is an optional caller-visible surface the final GPU pass draws
	// into. It must match the input size.
	Output *ebiten.Image
}

// Result describes a finished run.
type Result struct {
	Backend BackendKind
	// Image is the filtered CPU buffer (the caller's RunOptions.Image).
	Image *image.NRGBA
	// Texture is the filtered GPU image: RunOptions.Output when given,
	// otherwise a pool texture valid until the next run.
	Texture *ebiten.Image
	// Passes is the number of passes executed.
	Passes int
	// Swaps is the number of source/target exchanges.
	Swaps int
	// Skipped is the number of neutral filters elided.
	Skipped int
}

// FilterBackend runs pipelines. It owns the program cache and the resource
// pool; both live until Dispose. Runs must be serialized by the caller (the
// rendering loop); a reentrant Run fails with ErrBackendBusy.
type FilterBackend struct {
	gpu       GPUContext
	programs  *ProgramCache
	resources *ResourcePool
	running   bool
}

// NewFilterBackend creates a backend. Buffers and programs are allocated
// lazily on first use.
func NewFilterBackend(cfg BackendConfig) *FilterBackend {
	return &FilterBackend{
		gpu:       cfg.GPU,
		programs:  NewProgramCache(),
		resources: NewResourcePool(),
	}
}

// Resources returns the backend's resource pool.
func (b *FilterBackend) Resources() *ResourcePool { return b.resources }

// Programs returns the backend's program cache.
func (b *FilterBackend) Programs() *ProgramCache { return b.programs }

// HasGPU reports whether GPU runs are possible.
func (b *FilterBackend) HasGPU() bool { return b.gpu != nil }

// selectBackend picks the backend for a run.
func (b *FilterBackend) selectBackend(requested bool) BackendKind {
	if !requested {
		return BackendCPU
	}
	if b.gpu == nil {
		logger.Warn("pixfx: gpu requested without a gpu context, running on cpu")
		return BackendCPU
	}
	return BackendGPU
}

// Run applies pipeline to the input in opts. The backend is chosen once and
// used for every filter. Neutral filters are skipped without touching either
// backend. A filter without an implementation for the chosen backend fails
// the run before any pass executes.
func (b *FilterBackend) Run(pipeline Pipeline, opts RunOptions) (*Result, error) {
	if b.running {
		return nil, ErrBackendBusy
	}
	b.running = true
	defer func() { b.running = false }()

	kind := b.selectBackend(opts.GPU)
	logger.Debug("pixfx: run", "backend", kind, "filters", len(pipeline))

	st := &PipelineState{
		GPU:       kind == BackendGPU,
		Resources: b.resources,
	}
	switch {
	case opts.Source != nil && st.GPU:
		bounds := opts.Source.Bounds()
		st.SourceWidth, st.SourceHeight = bounds.Dx(), bounds.Dy()
	case opts.Image != nil:
		st.SourceWidth, st.SourceHeight = imageSize(opts.Image)
	default:
		return nil, ErrNoImage
	}

	active, skipped, err := b.activeFilters(pipeline, kind, st)
	if err != nil {
		return nil, err
	}

	res := &Result{Backend: kind, Skipped: skipped}
	if st.GPU {
		err = b.runGPU(active, opts, st, res)
	} else {
		err = b.runCPU(active, opts, st, res)
	}
	res.Passes = st.Pass
	res.Swaps = st.Swaps
	if err != nil {
		return nil, err
	}
	return res, nil
}

// activeFilters drops neutral filters and checks that every remaining one can
// run on kind.
func (b *FilterBackend) activeFilters(pipeline Pipeline, kind BackendKind, st *PipelineState) ([]Filter, int, error) {
	active := make([]Filter, 0, len(pipeline))
	skipped := 0
	for i, f := range pipeline {
		if f == nil || f.IsNeutralState(st) {
			skipped++
			continue
		}
		var ok bool
		if kind == BackendGPU {
			_, ok = f.(GPUFilter)
		} else {
			_, ok = f.(CPUFilter)
		}
		if !ok {
			return nil, 0, &CapabilityMismatchError{Index: i, Filter: f.Type(), Backend: kind}
		}
		active = append(active, f)
	}
	return active, skipped, nil
}

func (b *FilterBackend) runCPU(filters []Filter, opts RunOptions, st *PipelineState, res *Result) error {
	st.ImageData = opts.Image
	err := runPasses(filters, st)
	// The caller's buffer is the result even when the last pass wrote a
	// pooled one, so pool memory never escapes the backend.
	if st.ImageData != opts.Image {
		draw.Draw(opts.Image, opts.Image.Bounds(), st.ImageData, image.Point{}, draw.Src)
		st.ImageData = opts.Image
	}
	res.Image = opts.Image
	return err
}

func (b *FilterBackend) runGPU(filters []Filter, opts RunOptions, st *PipelineState, res *Result) error {
	ctx := b.gpu
	if err := checkContext(ctx); err != nil {
		return err
	}
	w, h := st.SourceWidth, st.SourceHeight
	if opts.Output != nil {
		ob := opts.Output.Bounds()
		if ob.Dx() != w || ob.Dy() != h {
			return ErrDimensionMismatch
		}
	}
	st.Context = ctx
	st.Programs = b.programs
	st.output = wrapOutput(opts.Output)

	var err error
	if st.SourceTexture, err = b.resources.AcquireTexture(ctx, RoleSource, w, h); err != nil {
		return err
	}
	if st.TargetTexture, err = b.resources.AcquireTexture(ctx, RoleTarget, w, h); err != nil {
		return err
	}
	if opts.Source != nil {
		ctx.Copy(st.SourceTexture.Image(), opts.Source)
	} else {
		upload := b.resources.AcquireCanvas(RoleUpload, w, h)
		draw.Draw(upload, upload.Bounds(), opts.Image, opts.Image.Rect.Min, draw.Src)
		ctx.Upload(st.SourceTexture.Image(), upload.Pix)
	}

	if err := runPasses(filters, st); err != nil {
		return err
	}
	if len(filters) == 0 && st.output != nil {
		ctx.Copy(st.output.Image(), st.SourceTexture.Image())
		st.SourceTexture = st.output
	}
	res.Texture = st.SourceTexture.Image()
	return nil
}

// Prepare compiles the GPU programs of filters ahead of their first run and
// uploads their auxiliary textures (the Palette lookup table), so the first
// frame that uses them does not pay for it. It does nothing without a GPU
// context and stops early when ctx is done.
func (b *FilterBackend) Prepare(ctx context.Context, filters ...Filter) error {
	if b.gpu == nil {
		return nil
	}
	for _, f := range filters {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, ok := f.(GPUFilter)
		if !ok {
			continue
		}
		if _, err := b.programs.Get(b.gpu, g); err != nil {
			return err
		}
		if p, ok := f.(preparer); ok {
			if err := p.prepare(b.gpu, b.resources); err != nil {
				return err
			}
		}
	}
	return nil
}

// Dispose releases every texture and program. The backend can be reused
// afterwards; buffers are recreated on demand.
func (b *FilterBackend) Dispose() {
	b.programs.Dispose(b.gpu)
	b.resources.Dispose()
}
