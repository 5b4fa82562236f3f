package pixfx

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
)

// Descriptor is the serialized form of a filter:
//
//	{"type": "Brightness", "mainParameter": "brightness", "brightness": 0.2}
//
// Numeric fields may be any JSON or TOML number. Unknown fields are ignored.
type Descriptor map[string]any

// ParseDescriptor builds a filter from d. Fields absent from d keep the
// filter type's defaults. Parsing is synchronous and allocates no backend
// resources; see FilterBackend.FromObject for the preparing variant.
func ParseDescriptor(d Descriptor) (Filter, error) {
	name, ok := d["type"].(string)
	if !ok || name == "" {
		return nil, &ConfigurationError{Field: "type", Err: ErrInvalidField}
	}
	t, ok := ParseFilterType(name)
	if !ok {
		return nil, &ConfigurationError{Type: name, Err: ErrUnknownFilter}
	}

	var f Filter
	var err error
	switch t {
	case FilterBrightness:
		b := brightnessDefaults
		err = d.number(name, "brightness", &b.Brightness)
		f = &b
	case FilterHueRotation:
		h := hueRotationDefaults
		err = d.number(name, "rotation", &h.Rotation)
		f = &h
	case FilterContrast:
		c := contrastDefaults
		err = d.number(name, "contrast", &c.Contrast)
		f = &c
	case FilterSaturation:
		s := saturationDefaults
		err = d.number(name, "saturation", &s.Saturation)
		f = &s
	case FilterBlur:
		b := blurDefaults
		err = d.number(name, "blur", &b.Blur)
		f = &b
	case FilterColorMatrix:
		m := colorMatrixDefaults
		if err = d.matrix(name, "matrix", &m.Matrix); err == nil {
			err = d.boolean(name, "colorsOnly", &m.ColorsOnly)
		}
		f = &m
	case FilterPalette:
		p := paletteDefaults
		if err = d.palette(name, "palette", &p); err == nil {
			err = d.number(name, "cycleOffset", &p.CycleOffset)
		}
		f = &p
	case FilterOutline:
		o := outlineDefaults
		err = d.color(name, "color", &o.Color)
		f = &o
	case FilterInline:
		in := inlineDefaults
		err = d.color(name, "color", &in.Color)
		f = &in
	}
	if err != nil {
		return nil, err
	}

	if mp, ok := d["mainParameter"]; ok {
		if s, isString := mp.(string); !isString || s != f.MainParameter() {
			return nil, &ConfigurationError{
				Type:  name,
				Field: "mainParameter",
				Err:   fmt.Errorf("%w: want %q, got %v", ErrInvalidField, f.MainParameter(), mp),
			}
		}
	}
	return f, nil
}

// FromObject parses d and prepares the filter's backend resources. It is the
// asynchronous half of construction: compilation happens here, not in
// ParseDescriptor, and it honors ctx.
func (b *FilterBackend) FromObject(ctx context.Context, d Descriptor) (Filter, error) {
	f, err := ParseDescriptor(d)
	if err != nil {
		return nil, err
	}
	if err := b.Prepare(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ToObject returns the descriptor of f. ParseDescriptor(ToObject(f)) yields
// a filter with the same parameters.
func ToObject(f Filter) Descriptor {
	d := Descriptor{
		"type":          f.Type().String(),
		"mainParameter": f.MainParameter(),
	}
	switch v := f.(type) {
	case *ColorMatrix:
		m := make([]any, len(v.Matrix))
		for i, x := range v.Matrix {
			m[i] = x
		}
		d["matrix"] = m
		d["colorsOnly"] = v.ColorsOnly
	case *Palette:
		stops := make([]any, len(v.Colors))
		for i, c := range v.Colors {
			stops[i] = colorValue(c)
		}
		d["palette"] = stops
		d["cycleOffset"] = v.CycleOffset
	case *Outline:
		d["color"] = colorValue(v.Color)
	case *Inline:
		d["color"] = colorValue(v.Color)
	default:
		d[f.MainParameter()] = f.MainParameterValue()
	}
	return d
}

// ParsePipelineJSON parses a JSON array of descriptors.
func ParsePipelineJSON(data []byte) (Pipeline, error) {
	var descs []Descriptor
	if err := json.Unmarshal(data, &descs); err != nil {
		return nil, fmt.Errorf("parse pipeline: %w", err)
	}
	return ParsePipeline(descs)
}

// ParsePipeline parses each descriptor in order.
func ParsePipeline(descs []Descriptor) (Pipeline, error) {
	p := make(Pipeline, 0, len(descs))
	for i, d := range descs {
		f, err := ParseDescriptor(d)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		p = append(p, f)
	}
	return p, nil
}

// MarshalPipelineJSON encodes p as a JSON array of descriptors.
func MarshalPipelineJSON(p Pipeline) ([]byte, error) {
	descs := make([]Descriptor, len(p))
	for i, f := range p {
		descs[i] = ToObject(f)
	}
	return json.Marshal(descs)
}

// number stores field into dst when present.
func (d Descriptor) number(typ, field string, dst *float64) error {
	v, ok := d[field]
	if !ok {
		return nil
	}
	n, ok := toFloat(v)
	if !ok {
		return &ConfigurationError{Type: typ, Field: field, Err: fmt.Errorf("%w: not a number: %v", ErrInvalidField, v)}
	}
	*dst = n
	return nil
}

func (d Descriptor) boolean(typ, field string, dst *bool) error {
	v, ok := d[field]
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return &ConfigurationError{Type: typ, Field: field, Err: fmt.Errorf("%w: not a bool: %v", ErrInvalidField, v)}
	}
	*dst = b
	return nil
}

// matrix stores a 20-element numeric array into dst when present.
func (d Descriptor) matrix(typ, field string, dst *[20]float64) error {
	v, ok := d[field]
	if !ok {
		return nil
	}
	var vals []any
	switch m := v.(type) {
	case []any:
		vals = m
	case []float64:
		for _, x := range m {
			vals = append(vals, x)
		}
	default:
		return &ConfigurationError{Type: typ, Field: field, Err: fmt.Errorf("%w: not an array", ErrInvalidField)}
	}
	if len(vals) != len(dst) {
		return &ConfigurationError{Type: typ, Field: field, Err: fmt.Errorf("%w: want %d values, got %d", ErrInvalidField, len(dst), len(vals))}
	}
	for i, x := range vals {
		n, ok := toFloat(x)
		if !ok {
			return &ConfigurationError{Type: typ, Field: field, Err: fmt.Errorf("%w: element %d not a number", ErrInvalidField, i)}
		}
		dst[i] = n
	}
	return nil
}

// color stores an [r, g, b] or [r, g, b, a] array of 0-255 numbers into dst
// when present. Alpha defaults to 255.
func (d Descriptor) color(typ, field string, dst *color.NRGBA) error {
	v, ok := d[field]
	if !ok {
		return nil
	}
	c, err := parseColor(v)
	if err != nil {
		return &ConfigurationError{Type: typ, Field: field, Err: err}
	}
	*dst = c
	return nil
}

// palette stores a list of color stops into p when present: 256 stops are
// the palette itself, fewer are interpolated with SetGradient.
func (d Descriptor) palette(typ, field string, p *Palette) error {
	v, ok := d[field]
	if !ok {
		return nil
	}
	vals, ok := v.([]any)
	if !ok || len(vals) < 2 || len(vals) > paletteSize {
		return &ConfigurationError{Type: typ, Field: field, Err: fmt.Errorf("%w: want 2 to %d colors", ErrInvalidField, paletteSize)}
	}
	stops := make([]color.NRGBA, len(vals))
	for i, x := range vals {
		c, err := parseColor(x)
		if err != nil {
			return &ConfigurationError{Type: typ, Field: field, Err: fmt.Errorf("color %d: %w", i, err)}
		}
		stops[i] = c
	}
	p.SetGradient(stops...)
	return nil
}

func parseColor(v any) (color.NRGBA, error) {
	vals, ok := v.([]any)
	if !ok || (len(vals) != 3 && len(vals) != 4) {
		return color.NRGBA{}, fmt.Errorf("%w: want [r, g, b] or [r, g, b, a]", ErrInvalidField)
	}
	ch := [4]uint8{3: 255}
	for i, x := range vals {
		n, ok := toFloat(x)
		if !ok || n < 0 || n > 255 {
			return color.NRGBA{}, fmt.Errorf("%w: channel %d not in [0, 255]: %v", ErrInvalidField, i, x)
		}
		ch[i] = clampByte(n)
	}
	return color.NRGBA{ch[0], ch[1], ch[2], ch[3]}, nil
}

func colorValue(c color.NRGBA) []any {
	return []any{float64(c.R), float64(c.G), float64(c.B), float64(c.A)}
}

// toFloat accepts the numeric types encoding/json and BurntSushi/toml decode
// into.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
