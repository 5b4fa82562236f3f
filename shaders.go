package pixfx

// Kage sources. All programs use //kage:unit pixels. Ebitengine textures are
// premultiplied, so programs un-premultiply, work in straight alpha like the
// CPU path does, and re-premultiply on output.

const brightnessShaderSrc = `//kage:unit pixels
package main

var Brightness float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	rgb := clamp(c.rgb+Brightness, 0, 1)
	return vec4(rgb*c.a, c.a)
}
`

const contrastShaderSrc = `//kage:unit pixels
package main

var Contrast float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	f := 1.015 * (Contrast + 1.0) / (1.015 - Contrast)
	rgb := clamp(f*(c.rgb-0.5)+0.5, 0, 1)
	return vec4(rgb*c.a, c.a)
}
`

const saturationShaderSrc = `//kage:unit pixels
package main

var Saturation float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	m := max(max(c.r, c.g), c.b)
	rgb := c.rgb + (m-c.rgb)*Saturation
	rgb = clamp(rgb, 0, 1)
	return vec4(rgb*c.a, c.a)
}
`

// Matrix is row-major, offsets in elements 4, 9, 14 and 19.
const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

// Delta is the full blur extent in pixels along the active axis. The seed
// hash of the fragment position stands in for per-sample randomness.
const blurShaderSrc = `//kage:unit pixels
package main

var Delta vec2

func random(pos vec2) float {
	return fract(sin(dot(pos, vec2(12.9898, 78.233))) * 43758.5453)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	origin := imageSrc0Origin()
	limit := origin + imageSrc0Size() - 1
	sum := vec4(0)
	total := 0.0
	offset := random(dst.xy)
	for i := 0; i < 31; i++ {
		percent := (float(i) - 15.0 + offset - 0.5) / 15.0
		weight := 1.0 - abs(percent)
		pos := clamp(src+Delta*percent, origin, limit)
		sum += imageSrc0At(pos) * weight
		total += weight
	}
	return sum / total
}
`

// The palette texture has the source size; its 256 entries are stretched
// across TexWidth, so lookups are exact from 256 pixels wide.
const paletteShaderSrc = `//kage:unit pixels
package main

var PaletteSize float
var CycleOffset float
var TexWidth float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	c.rgb /= c.a
	lum := 0.299*c.r + 0.587*c.g + 0.114*c.b
	idx := mod(floor(lum*(PaletteSize-1.0)+CycleOffset+0.5), PaletteSize)
	u := (idx + 0.5) / PaletteSize * TexWidth
	pal := imageSrc1At(vec2(u, 0.5))
	if pal.a > 0 {
		pal.rgb /= pal.a
	}
	return vec4(pal.rgb*c.a, c.a)
}
`

// Neighbors outside the image read as transparent.
const outlineShaderSrc = `//kage:unit pixels
package main

var OutlineColor vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		return c
	}
	if imageSrc0At(src+vec2(1, 0)).a > 0 ||
		imageSrc0At(src+vec2(-1, 0)).a > 0 ||
		imageSrc0At(src+vec2(0, 1)).a > 0 ||
		imageSrc0At(src+vec2(0, -1)).a > 0 {
		return OutlineColor
	}
	return vec4(0)
}
`

const inlineShaderSrc = `//kage:unit pixels
package main

var InlineColor vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	if imageSrc0At(src+vec2(1, 0)).a == 0 ||
		imageSrc0At(src+vec2(-1, 0)).a == 0 ||
		imageSrc0At(src+vec2(0, 1)).a == 0 ||
		imageSrc0At(src+vec2(0, -1)).a == 0 {
		return InlineColor + c*(1-InlineColor.a)
	}
	return c
}
`
