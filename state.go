package pixfx

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// PipelineState carries one pipeline run across filters and passes. It is
// created by FilterBackend.Run and handed to every filter method.
type PipelineState struct {
	// GPU selects the shader path for every filter of the run.
	GPU bool

	// ImageData is the CPU buffer being filtered. Single-pass CPU filters
	// mutate it in place; multi-pass filters write CPUTarget and the
	// orchestrator swaps the two.
	ImageData *image.NRGBA
	CPUTarget *image.NRGBA

	// SourceWidth and SourceHeight are fixed for the whole run.
	SourceWidth, SourceHeight int

	// Passes is the number of passes still to run, including the current
	// one. Multi-pass filters add their extra passes when they start.
	Passes int
	// Pass counts completed passes over the whole pipeline.
	Pass int
	// Swaps counts source/target exchanges.
	Swaps int

	Resources *ResourcePool

	// GPU path only.
	Context       GPUContext
	Programs      *ProgramCache
	SourceTexture *Texture
	TargetTexture *Texture
	// output receives the final GPU pass when the caller supplied a surface.
	output *Texture
	// lastWritten is the texture the most recent GPU pass drew into.
	lastWritten *Texture
}

// finalPass reports whether the pass about to run is the last one of the
// pipeline.
func (st *PipelineState) finalPass() bool {
	return st.Passes <= 1
}

// setupFrameBuffer returns the texture the next GPU pass renders into:
// the caller's output surface on the final pass, the pooled target otherwise.
func (st *PipelineState) setupFrameBuffer() *Texture {
	if st.finalPass() && st.output != nil {
		return st.output
	}
	return st.TargetTexture
}

// setupCPUTarget points CPUTarget at a pooled buffer that is not the current
// ImageData.
func (st *PipelineState) setupCPUTarget() {
	role := RolePing
	if ping, ok := st.Resources.images[RolePing]; ok && ping == st.ImageData {
		role = RolePong
	}
	st.CPUTarget = st.Resources.AcquireImage(role, st.SourceWidth, st.SourceHeight)
}

// swapTextures makes the texture just written the source of the next pass.
func (st *PipelineState) swapTextures(written *Texture) {
	if written == st.output {
		st.TargetTexture = st.SourceTexture
		st.SourceTexture = written
	} else {
		st.SourceTexture, st.TargetTexture = st.TargetTexture, st.SourceTexture
	}
	st.Swaps++
	st.advance()
}

// swapImages makes CPUTarget the ImageData of the next pass.
func (st *PipelineState) swapImages() {
	st.ImageData, st.CPUTarget = st.CPUTarget, st.ImageData
	st.Swaps++
	st.advance()
}

func (st *PipelineState) advance() {
	st.Passes--
	st.Pass++
}

// wrapOutput adapts a caller surface to the Texture used by pass setup.
func wrapOutput(img *ebiten.Image) *Texture {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	return &Texture{image: img, w: b.Dx(), h: b.Dy()}
}
