package pixfx

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenFilterReachesTarget(t *testing.T) {
	f := NewBlur(0)
	tw := TweenFilter(f, 1, 1, ease.Linear)
	if tw.Target() != f {
		t.Fatal("Target() should return the animated filter")
	}

	tw.Update(0.5)
	assertNearTol(t, "mid", f.Blur, 0.5, 1e-6)
	if tw.Done {
		t.Error("tween finished early")
	}

	tw.Update(0.6)
	assertNearTol(t, "end", f.Blur, 1, 1e-6)
	if !tw.Done {
		t.Error("tween should be done")
	}

	// A finished tween leaves the parameter alone.
	f.Blur = 0.3
	tw.Update(1)
	assertNear(t, "after done", f.Blur, 0.3)
}

func TestTweenFilterReset(t *testing.T) {
	f := NewBrightness(0.2)
	tw := TweenFilter(f, -0.2, 0.5, ease.Linear)
	tw.Update(1)
	if !tw.Done {
		t.Fatal("tween should be done")
	}
	tw.Reset()
	if tw.Done {
		t.Error("Reset should clear Done")
	}
	tw.Update(0)
	assertNearTol(t, "start", f.Brightness, 0.2, 1e-6)
}
