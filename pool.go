package pixfx

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Role names a scratch buffer slot in a ResourcePool.
type Role string

const (
	RoleSource     Role = "source"     // GPU ping-pong texture A
	RoleTarget     Role = "target"     // GPU ping-pong texture B
	RoleUpload     Role = "upload"     // premultiplied staging canvas for uploads
	RoleBlurLayer1 Role = "blurLayer1" // CPU blur accumulation layer
	RoleBlurLayer2 Role = "blurLayer2" // CPU blur sample layer
	RolePing       Role = "ping"       // CPU multi-pass target A
	RolePong       Role = "pong"       // CPU multi-pass target B
	RolePalette    Role = "palette"    // Palette lookup texture and its staging canvas
	RoleSnapshot   Role = "snapshot"   // CPU copy of the input for neighbor tests
)

// Texture is a pool-owned GPU image. Resizing replaces the underlying image
// but keeps the *Texture, so every holder sees the new backing store.
type Texture struct {
	image *ebiten.Image
	w, h  int
	// owner is the filter whose data was last uploaded. Resizing clears it.
	owner Filter
}

// Image returns the current backing image.
func (t *Texture) Image() *ebiten.Image {
	return t.image
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	return t.w
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	return t.h
}

// resize deallocates the old image and creates one at the new size.
func (t *Texture) resize(ctx GPUContext, w, h int) error {
	img, err := ctx.NewTexture(w, h)
	if err != nil {
		return err
	}
	if t.image != nil {
		t.image.Deallocate()
	}
	t.image = img
	t.w = w
	t.h = h
	t.owner = nil
	return nil
}

func (t *Texture) dispose() {
	if t.image != nil {
		t.image.Deallocate()
		t.image = nil
	}
	t.owner = nil
}

// PoolStats counts pool allocation activity.
type PoolStats struct {
	Allocations int // buffers created on first use of a role
	Resizes     int // in-place resizes of an existing role
}

// ResourcePool owns the scratch buffers of a FilterBackend, keyed by role.
// There is no release: buffers live until Dispose and are reused by every
// later run. Not safe for concurrent use.
type ResourcePool struct {
	textures map[Role]*Texture
	canvases map[Role]*image.RGBA
	images   map[Role]*image.NRGBA
	stats    PoolStats
}

// NewResourcePool creates an empty pool.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		textures: make(map[Role]*Texture),
		canvases: make(map[Role]*image.RGBA),
		images:   make(map[Role]*image.NRGBA),
	}
}

// AcquireTexture returns the texture for role at w x h, creating it on first
// use and resizing it in place when its size differs.
func (p *ResourcePool) AcquireTexture(ctx GPUContext, role Role, w, h int) (*Texture, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	t, ok := p.textures[role]
	if ok && t.w == w && t.h == h {
		return t, nil
	}
	if !ok {
		t = &Texture{}
	}
	if err := t.resize(ctx, w, h); err != nil {
		return nil, &ResourceAllocationError{Resource: "texture", Role: role, Err: err}
	}
	if ok {
		p.stats.Resizes++
		logger.Debug("pixfx: texture resized", "role", role, "w", w, "h", h)
	} else {
		p.textures[role] = t
		p.stats.Allocations++
		logger.Debug("pixfx: texture allocated", "role", role, "w", w, "h", h)
	}
	return t, nil
}

// AcquireCanvas returns the premultiplied CPU canvas for role at w x h. A
// resized canvas is cleared; an unchanged one keeps its contents.
func (p *ResourcePool) AcquireCanvas(role Role, w, h int) *image.RGBA {
	c, ok := p.canvases[role]
	if ok {
		if c.Rect.Dx() != w || c.Rect.Dy() != h {
			c.Pix, c.Stride, c.Rect = resizePix(c.Pix, w, h)
			p.resized(role, w, h)
		}
		return c
	}
	c = image.NewRGBA(image.Rect(0, 0, w, h))
	p.canvases[role] = c
	p.allocated(role, w, h)
	return c
}

// AcquireImage returns the straight-alpha CPU buffer for role at w x h,
// following the same rules as AcquireCanvas.
func (p *ResourcePool) AcquireImage(role Role, w, h int) *image.NRGBA {
	img, ok := p.images[role]
	if ok {
		if img.Rect.Dx() != w || img.Rect.Dy() != h {
			img.Pix, img.Stride, img.Rect = resizePix(img.Pix, w, h)
			p.resized(role, w, h)
		}
		return img
	}
	img = image.NewNRGBA(image.Rect(0, 0, w, h))
	p.images[role] = img
	p.allocated(role, w, h)
	return img
}

// Stats returns the allocation counters.
func (p *ResourcePool) Stats() PoolStats {
	return p.stats
}

// Dispose deallocates every GPU texture and drops all CPU buffers. The pool is
// empty afterwards and may be reused.
func (p *ResourcePool) Dispose() {
	for role, t := range p.textures {
		t.dispose()
		delete(p.textures, role)
	}
	clear(p.canvases)
	clear(p.images)
}

func (p *ResourcePool) allocated(role Role, w, h int) {
	p.stats.Allocations++
	logger.Debug("pixfx: canvas allocated", "role", role, "w", w, "h", h)
}

func (p *ResourcePool) resized(role Role, w, h int) {
	p.stats.Resizes++
	logger.Debug("pixfx: canvas resized", "role", role, "w", w, "h", h)
}

// resizePix reuses pix when its capacity allows and returns the new slice,
// stride and bounds for a cleared w x h 4-byte-per-pixel buffer.
func resizePix(pix []uint8, w, h int) ([]uint8, int, image.Rectangle) {
	n := 4 * w * h
	if cap(pix) < n {
		pix = make([]uint8, n)
	} else {
		pix = pix[:n]
		clear(pix)
	}
	return pix, 4 * w, image.Rect(0, 0, w, h)
}
