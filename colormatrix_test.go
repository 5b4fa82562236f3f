package pixfx

import (
	"image/color"
	"testing"
)

// --- HueRotation ---

func TestHueRotationZeroIsIdentity(t *testing.T) {
	f := NewHueRotation(0)
	if !f.IsNeutralState(nil) {
		t.Fatal("rotation 0 should be neutral")
	}
	for i, v := range f.Matrix {
		assertNear(t, "Matrix", v, identityMatrix[i])
	}
}

func TestHueRotationNeutralRecomputesMatrix(t *testing.T) {
	f := NewHueRotation(0.5)
	f.IsNeutralState(nil)
	if f.Matrix == identityMatrix {
		t.Fatal("matrix should be recomputed for rotation 0.5")
	}
	// A parameter change between frames must be picked up by the next check.
	f.Rotation = 0
	if !f.IsNeutralState(nil) {
		t.Error("rotation reset to 0 should be neutral again")
	}
}

func TestHueRotationHalfTurn(t *testing.T) {
	f := NewHueRotation(1)
	f.calculateMatrix()
	// cos(pi) = -1: diagonal -1 + 2/3, off-diagonal 2/3 (sin(pi) ~ 0).
	assertNearTol(t, "Matrix[0]", f.Matrix[0], -1.0/3, 1e-12)
	assertNearTol(t, "Matrix[1]", f.Matrix[1], 2.0/3, 1e-12)
	assertNearTol(t, "Matrix[2]", f.Matrix[2], 2.0/3, 1e-12)
	assertNearTol(t, "Matrix[6]", f.Matrix[6], -1.0/3, 1e-12)
	assertNear(t, "Matrix[18]", f.Matrix[18], 1)
	assertNear(t, "Matrix[4]", f.Matrix[4], 0)
}

func TestHueRotationRowsSumToOne(t *testing.T) {
	f := NewHueRotation(0.37)
	f.calculateMatrix()
	for row := 0; row < 3; row++ {
		sum := f.Matrix[row*5] + f.Matrix[row*5+1] + f.Matrix[row*5+2]
		assertNearTol(t, "row sum", sum, 1, 1e-12)
	}
}

func TestHueRotationKeepsGray(t *testing.T) {
	gray := color.NRGBA{90, 90, 90, 200}
	img := solidImage(2, 2, gray)
	st := cpuState(img)
	if err := NewHueRotation(0.6).ApplyTo(st); err != nil {
		t.Fatal(err)
	}
	assertPixels(t, img, gray)
}

func TestHueRotationSwapsChannels(t *testing.T) {
	// One third of a turn (2pi/3) maps red to green.
	img := solidImage(1, 1, color.NRGBA{255, 0, 0, 255})
	if err := NewHueRotation(2.0 / 3).ApplyTo(cpuState(img)); err != nil {
		t.Fatal(err)
	}
	assertPixels(t, img, color.NRGBA{0, 255, 0, 255})
}

// --- ColorMatrix ---

func TestColorMatrixIdentityNeutral(t *testing.T) {
	if !NewColorMatrix(identityMatrix).IsNeutralState(nil) {
		t.Error("identity matrix should be neutral")
	}
}

func TestColorMatrixColorsOnlyIgnoresAlphaRow(t *testing.T) {
	m := identityMatrix
	m[18] = 0.5
	f := NewColorMatrix(m)
	if !f.IsNeutralState(nil) {
		t.Error("alpha row change should be ignored with ColorsOnly")
	}
	f.ColorsOnly = false
	if f.IsNeutralState(nil) {
		t.Error("alpha row change should count without ColorsOnly")
	}
}

func TestColorMatrixCPUOffsetAndAlpha(t *testing.T) {
	m := [20]float64{
		1, 0, 0, 0, 0.2,
		0, 0, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 0.5, 0,
	}
	img := solidImage(1, 1, color.NRGBA{100, 100, 100, 200})
	f := NewColorMatrix(m)
	f.ColorsOnly = false
	if err := f.ApplyToCPU(cpuState(img)); err != nil {
		t.Fatal(err)
	}
	assertPixels(t, img, color.NRGBA{151, 0, 100, 100})
}

func TestColorMatrixUniforms(t *testing.T) {
	m := identityMatrix
	m[4] = 0.25
	f := NewColorMatrix(m)
	loc := f.UniformLocations(nil, nil)
	u := map[string]any{}
	f.SendUniformData(nil, loc, u)
	got, ok := u["Matrix"].([]float32)
	if !ok || len(got) != 20 {
		t.Fatalf("Matrix uniform = %#v", u["Matrix"])
	}
	if got[4] != 0.25 || got[0] != 1 || got[18] != 1 {
		t.Errorf("Matrix uniform = %v", got)
	}
}

func TestColorMatrixFamilySharesSource(t *testing.T) {
	if NewHueRotation(0).FragmentSource() != NewColorMatrix(identityMatrix).FragmentSource() {
		t.Error("hue rotation should render through the color matrix program")
	}
}

func assertNearTol(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if d := got - want; d > tol || d < -tol {
		t.Errorf("%s = %v, want %v (tol %v)", name, got, want, tol)
	}
}
