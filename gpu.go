package pixfx

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// GPUContext is the graphics device a FilterBackend submits work to. Every
// GPU method of a filter receives it explicitly; filters never hold one.
//
// Submission is asynchronous relative to the caller but in order: a draw
// reads whatever earlier draws wrote. Results become visible when the owning
// surface flushes the command stream.
type GPUContext interface {
	// NewTexture creates an offscreen w x h texture.
	NewTexture(w, h int) (*ebiten.Image, error)
	// NewProgram compiles a Kage fragment program.
	NewProgram(src []byte) (*ebiten.Shader, error)
	// DeleteProgram releases a program created by NewProgram.
	DeleteProgram(p *ebiten.Shader)
	// Upload replaces the contents of dst with premultiplied RGBA bytes.
	Upload(dst *ebiten.Image, pix []byte)
	// Copy replaces the contents of dst with src.
	Copy(dst, src *ebiten.Image)
	// Draw runs program over a full-size quad reading src as image 0 and
	// overwriting dst (no blending). aux are bound as images 1 and up and
	// must match the size of src.
	Draw(dst, src *ebiten.Image, program *ebiten.Shader, uniforms map[string]any, aux ...*ebiten.Image)
	// Lost reports whether the context can no longer be used.
	Lost() bool
}

// EbitenContext is the GPUContext backed by the running Ebitengine game. It
// must only be used from the game's Update/Draw goroutine.
type EbitenContext struct {
	lost     bool
	shaderOp ebiten.DrawRectShaderOptions
	imgOp    ebiten.DrawImageOptions
}

// NewEbitenContext returns a GPU context for the current Ebitengine game.
func NewEbitenContext() *EbitenContext {
	return &EbitenContext{}
}

// NewTexture creates an unmanaged offscreen image. Ebitengine panics on
// invalid sizes; that is reported as an error instead.
func (c *EbitenContext) NewTexture(w, h int) (img *ebiten.Image, err error) {
	if c.lost {
		return nil, ErrContextLost
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid texture size %dx%d", w, h)
	}
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("ebiten: %v", r)
		}
	}()
	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, w, h),
		&ebiten.NewImageOptions{Unmanaged: true},
	), nil
}

// NewProgram compiles src with ebiten.NewShader.
func (c *EbitenContext) NewProgram(src []byte) (*ebiten.Shader, error) {
	if c.lost {
		return nil, ErrContextLost
	}
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	return s, nil
}

// DeleteProgram deallocates a compiled shader.
func (c *EbitenContext) DeleteProgram(p *ebiten.Shader) {
	p.Deallocate()
}

// Upload writes premultiplied RGBA bytes into dst.
func (c *EbitenContext) Upload(dst *ebiten.Image, pix []byte) {
	dst.WritePixels(pix)
}

// Copy overwrites dst with src at the origin.
func (c *EbitenContext) Copy(dst, src *ebiten.Image) {
	op := &c.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Filter = ebiten.FilterNearest
	op.Blend = ebiten.BlendCopy
	dst.DrawImage(src, op)
}

// Draw runs program with src as Images[0] and aux as Images[1:]. The previous
// contents of dst are replaced, so pooled targets need no Clear between passes.
func (c *EbitenContext) Draw(dst, src *ebiten.Image, program *ebiten.Shader, uniforms map[string]any, aux ...*ebiten.Image) {
	if len(aux) >= len(c.shaderOp.Images) {
		panic("pixfx: too many auxiliary images")
	}
	bounds := src.Bounds()
	c.shaderOp.Images[0] = src
	copy(c.shaderOp.Images[1:], aux)
	c.shaderOp.Uniforms = uniforms
	c.shaderOp.Blend = ebiten.BlendCopy
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), program, &c.shaderOp)
	clear(c.shaderOp.Images[:])
}

// Invalidate marks the context lost. The owning surface calls this when the
// graphics device goes away; every later allocation fails with ErrContextLost.
func (c *EbitenContext) Invalidate() {
	c.lost = true
}

// Lost reports whether Invalidate was called.
func (c *EbitenContext) Lost() bool {
	return c.lost
}

// checkContext returns ErrContextLost wrapped as a resource error when ctx is
// unusable.
func checkContext(ctx GPUContext) error {
	if ctx == nil {
		return &ResourceAllocationError{Resource: "context", Err: errors.New("no gpu context")}
	}
	if ctx.Lost() {
		return &ResourceAllocationError{Resource: "context", Err: ErrContextLost}
	}
	return nil
}
