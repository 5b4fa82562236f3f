package pixfx

import (
	"fmt"
	"image"
	"math"
)

// FilterType identifies one of the built-in filter kinds. The set is closed:
// every value maps to exactly one concrete filter type in this package.
type FilterType uint8

const (
	FilterBrightness  FilterType = iota + 1 // per-channel offset
	FilterHueRotation                       // gray-axis color matrix rotation
	FilterColorMatrix                       // arbitrary 4x5 color matrix
	FilterContrast                          // contrast stretch around mid-gray
	FilterSaturation                        // push channels toward/away from max
	FilterBlur                              // two-pass separable blur
	FilterPalette                           // luminance lookup into a 256-entry palette
	FilterOutline                           // 1px outline around opaque pixels
	FilterInline                            // recolor opaque pixels that border transparency
)

// String returns the descriptor name of the filter type.
func (t FilterType) String() string {
	switch t {
	case FilterBrightness:
		return "Brightness"
	case FilterHueRotation:
		return "HueRotation"
	case FilterColorMatrix:
		return "ColorMatrix"
	case FilterContrast:
		return "Contrast"
	case FilterSaturation:
		return "Saturation"
	case FilterBlur:
		return "Blur"
	case FilterPalette:
		return "Palette"
	case FilterOutline:
		return "Outline"
	case FilterInline:
		return "Inline"
	default:
		return fmt.Sprintf("FilterType(%d)", uint8(t))
	}
}

// ParseFilterType maps a descriptor type name to a FilterType.
func ParseFilterType(name string) (FilterType, bool) {
	switch name {
	case "Brightness":
		return FilterBrightness, true
	case "HueRotation":
		return FilterHueRotation, true
	case "ColorMatrix":
		return FilterColorMatrix, true
	case "Contrast":
		return FilterContrast, true
	case "Saturation":
		return FilterSaturation, true
	case "Blur":
		return FilterBlur, true
	case "Palette":
		return FilterPalette, true
	case "Outline":
		return FilterOutline, true
	case "Inline":
		return FilterInline, true
	}
	return 0, false
}

// BackendKind selects where a pipeline run executes.
type BackendKind uint8

const (
	BackendCPU BackendKind = iota // imperative pixel loops over *image.NRGBA
	BackendGPU                    // Kage shaders over *ebiten.Image
)

func (k BackendKind) String() string {
	if k == BackendGPU {
		return "gpu"
	}
	return "cpu"
}

// Pipeline is an ordered list of filters. Order is execution order and the
// same filter may appear more than once.
type Pipeline []Filter

// clampByte rounds v half up (matching canvas ImageData stores) and clamps it
// to [0, 255].
func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Floor(v + 0.5))
}

// clampInt clamps an integer channel value to [0, 255].
func clampInt(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// roundHalfUp rounds like JavaScript's Math.round.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// imageSize returns the pixel dimensions of img.
func imageSize(img *image.NRGBA) (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}
