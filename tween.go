package pixfx

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// FilterTween animates a filter's main parameter. Call Update(dt) once per
// frame before running the pipeline; the tween only assigns the parameter,
// so the next run picks up the new value.
//
// There is no global animation manager: callers own and update tweens.
type FilterTween struct {
	tween  *gween.Tween
	target Filter
	Done   bool
}

// TweenFilter creates a tween from the filter's current main parameter value
// to to over duration seconds.
func TweenFilter(f Filter, to float64, duration float32, fn ease.TweenFunc) *FilterTween {
	return &FilterTween{
		tween:  gween.New(float32(f.MainParameterValue()), float32(to), duration, fn),
		target: f,
	}
}

// Update advances the tween by dt seconds and writes the value to the filter.
func (t *FilterTween) Update(dt float32) {
	if t.Done {
		return
	}
	val, finished := t.tween.Update(dt)
	t.target.SetMainParameterValue(float64(val))
	t.Done = finished
}

// Reset rewinds the tween to its start value.
func (t *FilterTween) Reset() {
	t.tween.Reset()
	t.Done = false
}

// Target returns the animated filter.
func (t *FilterTween) Target() Filter {
	return t.target
}
