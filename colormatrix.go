package pixfx

import "math"

// identityMatrix is the neutral 4x5 color matrix.
var identityMatrix = [20]float64{
	1, 0, 0, 0, 0,
	0, 1, 0, 0, 0,
	0, 0, 1, 0, 0,
	0, 0, 0, 1, 0,
}

// colorMatrix is the shared CPU and GPU implementation of the 4x5 matrix
// family. Row-major: [R_r, R_g, R_b, R_a, R_offset, G_r, ...]. Offsets are in
// normalized [0, 1] units on both paths.
type colorMatrix struct {
	// Matrix is the transform applied on the next pass.
	Matrix [20]float64
	// ColorsOnly leaves the alpha channel untouched and ignores the alpha
	// input column for RGB.
	ColorsOnly bool

	matrixF32 [20]float32 // persistent uniform buffer
}

// effective returns the matrix as applied, with the alpha row and column
// forced to identity when ColorsOnly is set.
func (m *colorMatrix) effective() [20]float64 {
	e := m.Matrix
	if m.ColorsOnly {
		e[3], e[8], e[13] = 0, 0, 0
		e[15], e[16], e[17], e[18], e[19] = 0, 0, 0, 1, 0
	}
	return e
}

func (m *colorMatrix) isIdentity() bool {
	return m.effective() == identityMatrix
}

// applyMatrixCPU transforms every pixel of st.ImageData in place. Channels are
// in [0, 255]; the offset column is scaled by 255.
func (m *colorMatrix) applyMatrixCPU(st *PipelineState) {
	e := m.effective()
	img := st.ImageData
	w, h := imageSize(img)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for i := 0; i < len(row); i += 4 {
			r := float64(row[i])
			g := float64(row[i+1])
			b := float64(row[i+2])
			a := float64(row[i+3])
			row[i] = clampByte(r*e[0] + g*e[1] + b*e[2] + a*e[3] + e[4]*255)
			row[i+1] = clampByte(r*e[5] + g*e[6] + b*e[7] + a*e[8] + e[9]*255)
			row[i+2] = clampByte(r*e[10] + g*e[11] + b*e[12] + a*e[13] + e[14]*255)
			if !m.ColorsOnly {
				row[i+3] = clampByte(r*e[15] + g*e[16] + b*e[17] + a*e[18] + e[19]*255)
			}
		}
	}
}

func (m *colorMatrix) matrixLocations() UniformLocations {
	return UniformLocations{"matrix": "Matrix"}
}

// sendMatrix converts the effective matrix into the persistent float32
// buffer and binds it.
func (m *colorMatrix) sendMatrix(loc UniformLocations, uniforms map[string]any) {
	e := m.effective()
	for i, v := range e {
		m.matrixF32[i] = float32(v)
	}
	uniforms[loc["matrix"]] = m.matrixF32[:]
}

// --- ColorMatrix ---

// ColorMatrix applies an arbitrary 4x5 color matrix.
type ColorMatrix struct {
	colorMatrix
}

var colorMatrixDefaults = ColorMatrix{
	colorMatrix: colorMatrix{Matrix: identityMatrix, ColorsOnly: true},
}

// NewColorMatrix creates a colors-only color matrix filter set to m.
func NewColorMatrix(m [20]float64) *ColorMatrix {
	f := colorMatrixDefaults
	f.Matrix = m
	return &f
}

func (f *ColorMatrix) Type() FilterType      { return FilterColorMatrix }
func (f *ColorMatrix) MainParameter() string { return "matrix" }
func (f *ColorMatrix) Passes() int           { return 1 }

// MainParameterValue returns 0; a matrix has no scalar main value.
func (f *ColorMatrix) MainParameterValue() float64 { return 0 }

// SetMainParameterValue is a no-op for ColorMatrix.
func (f *ColorMatrix) SetMainParameterValue(float64) {}

// IsNeutralState reports whether the effective matrix is the identity.
func (f *ColorMatrix) IsNeutralState(*PipelineState) bool { return f.isIdentity() }

// ApplyTo runs one pass on the selected backend.
func (f *ColorMatrix) ApplyTo(st *PipelineState) error { return applyTo(f, st) }

// ApplyToCPU transforms st.ImageData in place.
func (f *ColorMatrix) ApplyToCPU(st *PipelineState) error {
	f.applyMatrixCPU(st)
	return nil
}

// FragmentSource returns the color matrix program.
func (f *ColorMatrix) FragmentSource() string { return colorMatrixShaderSrc }

// UniformLocations binds the 20-float matrix.
func (f *ColorMatrix) UniformLocations(GPUContext, *Program) UniformLocations {
	return f.matrixLocations()
}

// SendUniformData sends the effective matrix.
func (f *ColorMatrix) SendUniformData(_ GPUContext, loc UniformLocations, uniforms map[string]any) {
	f.sendMatrix(loc, uniforms)
}

// --- HueRotation ---

// HueRotation rotates hue around the gray axis (1,1,1)/sqrt(3). Rotation is
// in [-1, 1] and is multiplied by pi. The matrix is derived from Rotation on
// every pass and every neutrality check.
type HueRotation struct {
	colorMatrix
	Rotation float64
}

var hueRotationDefaults = HueRotation{
	colorMatrix: colorMatrix{Matrix: identityMatrix, ColorsOnly: true},
}

// NewHueRotation creates a hue rotation filter.
func NewHueRotation(rotation float64) *HueRotation {
	f := hueRotationDefaults
	f.Rotation = rotation
	return &f
}

// calculateMatrix rebuilds Matrix from Rotation.
func (f *HueRotation) calculateMatrix() {
	rad := f.Rotation * math.Pi
	cos, sin := math.Cos(rad), math.Sin(rad)
	third := 1.0 / 3
	thirdSqrtSin := math.Sqrt(third) * sin
	oneMinusCos := 1 - cos

	f.Matrix = identityMatrix
	f.Matrix[0] = cos + oneMinusCos/3
	f.Matrix[1] = third*oneMinusCos - thirdSqrtSin
	f.Matrix[2] = third*oneMinusCos + thirdSqrtSin
	f.Matrix[5] = third*oneMinusCos + thirdSqrtSin
	f.Matrix[6] = cos + third*oneMinusCos
	f.Matrix[7] = third*oneMinusCos - thirdSqrtSin
	f.Matrix[10] = third*oneMinusCos - thirdSqrtSin
	f.Matrix[11] = third*oneMinusCos + thirdSqrtSin
	f.Matrix[12] = cos + third*oneMinusCos
}

func (f *HueRotation) Type() FilterType                { return FilterHueRotation }
func (f *HueRotation) MainParameter() string           { return "rotation" }
func (f *HueRotation) MainParameterValue() float64     { return f.Rotation }
func (f *HueRotation) SetMainParameterValue(v float64) { f.Rotation = v }
func (f *HueRotation) Passes() int                     { return 1 }

// IsNeutralState recomputes the matrix and compares it with the identity.
func (f *HueRotation) IsNeutralState(*PipelineState) bool {
	f.calculateMatrix()
	return f.isIdentity()
}

// ApplyTo recomputes the matrix and runs one pass.
func (f *HueRotation) ApplyTo(st *PipelineState) error {
	f.calculateMatrix()
	return applyTo(f, st)
}

// ApplyToCPU transforms st.ImageData in place with the current matrix.
func (f *HueRotation) ApplyToCPU(st *PipelineState) error {
	f.applyMatrixCPU(st)
	return nil
}

// FragmentSource returns the color matrix program; hue rotation is a matrix.
func (f *HueRotation) FragmentSource() string { return colorMatrixShaderSrc }

// UniformLocations binds the 20-float matrix.
func (f *HueRotation) UniformLocations(GPUContext, *Program) UniformLocations {
	return f.matrixLocations()
}

// SendUniformData sends the rotation matrix computed by the last ApplyTo.
func (f *HueRotation) SendUniformData(_ GPUContext, loc UniformLocations, uniforms map[string]any) {
	f.sendMatrix(loc, uniforms)
}
