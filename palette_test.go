package pixfx

import (
	"context"
	"image/color"
	"testing"
)

func TestPaletteGrayscaleKeepsGray(t *testing.T) {
	f := NewPalette()
	if f.Passes() != 1 || f.IsNeutralState(nil) {
		t.Fatalf("passes = %d, neutral = %v", f.Passes(), f.IsNeutralState(nil))
	}
	for _, v := range []uint8{0, 1, 100, 128, 254, 255} {
		img := solidImage(2, 1, color.NRGBA{v, v, v, 200})
		if err := f.ApplyToCPU(cpuState(img)); err != nil {
			t.Fatal(err)
		}
		assertPixels(t, img, color.NRGBA{v, v, v, 200})
	}
}

func TestPaletteCPULookup(t *testing.T) {
	f := NewPalette()
	f.SetGradient(color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 255})

	tests := []struct {
		name string
		in   color.NRGBA
		want color.NRGBA
	}{
		{"black", color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 0, 0, 255}},
		{"white", color.NRGBA{255, 255, 255, 128}, color.NRGBA{0, 0, 255, 128}},
		// Pure green has luminance 0.587: index 150.
		{"green", color.NRGBA{0, 255, 0, 255}, f.Colors[150]},
		{"transparent", color.NRGBA{90, 80, 70, 0}, color.NRGBA{}},
	}
	for _, tt := range tests {
		img := solidImage(1, 1, tt.in)
		if err := f.ApplyToCPU(cpuState(img)); err != nil {
			t.Fatal(err)
		}
		if got := img.NRGBAAt(0, 0); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPaletteCycleOffsetWraps(t *testing.T) {
	tests := []struct {
		offset float64
		want   uint8
	}{
		{0, 100},
		{10, 110},
		{200, 44},
		{256, 100},
		{-150, 206},
	}
	for _, tt := range tests {
		f := NewPalette()
		f.SetMainParameterValue(tt.offset)
		img := solidImage(1, 1, color.NRGBA{100, 100, 100, 255})
		if err := f.ApplyToCPU(cpuState(img)); err != nil {
			t.Fatal(err)
		}
		if got := img.NRGBAAt(0, 0).R; got != tt.want {
			t.Errorf("offset %v: got %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestPaletteSetGradient(t *testing.T) {
	f := NewPalette()
	f.SetGradient()
	if f.Colors != paletteDefaults.Colors {
		t.Error("no stops should leave the palette alone")
	}

	f.SetGradient(color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255})
	if f.Colors != paletteDefaults.Colors {
		t.Error("black to white should be the grayscale ramp")
	}

	c := color.NRGBA{1, 2, 3, 4}
	f.SetGradient(c)
	if f.Colors[0] != c || f.Colors[255] != c {
		t.Errorf("single stop = %v..%v", f.Colors[0], f.Colors[255])
	}

	var stops [paletteSize]color.NRGBA
	for i := range stops {
		stops[i] = color.NRGBA{uint8(255 - i), uint8(i), 7, 255}
	}
	f.SetGradient(stops[:]...)
	if f.Colors != stops {
		t.Error("256 stops should be copied exactly")
	}
}

func TestPaletteGPUSamplesPooledTexture(t *testing.T) {
	gpu := &fakeGPU{}
	b := NewFilterBackend(BackendConfig{GPU: gpu})
	f := NewPalette()
	f.CycleOffset = 3
	img := solidImage(4, 2, color.NRGBA{100, 100, 100, 255})

	if _, err := b.Run(Pipeline{f}, RunOptions{GPU: true, Image: img}); err != nil {
		t.Fatal(err)
	}
	if len(gpu.draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(gpu.draws))
	}
	d := gpu.draws[0]
	tex := b.Resources().textures[RolePalette]
	if len(d.aux) != 1 || d.aux[0] != tex.Image() {
		t.Fatal("draw should sample the pooled palette texture")
	}
	if tex.Width() != 4 || tex.Height() != 2 {
		t.Errorf("palette texture = %dx%d, want source size 4x2", tex.Width(), tex.Height())
	}
	want := map[string]float32{"PaletteSize": 256, "CycleOffset": 3, "TexWidth": 4}
	for k, v := range want {
		if got := d.uniforms[k]; got != v {
			t.Errorf("%s = %v, want %v", k, got, v)
		}
	}
	// Source plus palette.
	if gpu.uploads != 2 {
		t.Errorf("uploads = %d, want 2", gpu.uploads)
	}

	if _, err := b.Run(Pipeline{f}, RunOptions{GPU: true, Image: img}); err != nil {
		t.Fatal(err)
	}
	if gpu.uploads != 3 {
		t.Errorf("unchanged palette uploaded again: uploads = %d, want 3", gpu.uploads)
	}

	f.Colors[0] = color.NRGBA{255, 0, 0, 255}
	if _, err := b.Run(Pipeline{f}, RunOptions{GPU: true, Image: img}); err != nil {
		t.Fatal(err)
	}
	if gpu.uploads != 5 {
		t.Errorf("changed palette not uploaded: uploads = %d, want 5", gpu.uploads)
	}
}

func TestPaletteSharedTextureReuploadsPerFilter(t *testing.T) {
	gpu := &fakeGPU{}
	b := NewFilterBackend(BackendConfig{GPU: gpu})
	red, blue := NewPalette(), NewPalette()
	red.SetGradient(color.NRGBA{255, 0, 0, 255})
	blue.SetGradient(color.NRGBA{0, 0, 255, 255})
	img := solidImage(2, 2, color.NRGBA{A: 255})

	if _, err := b.Run(Pipeline{red, blue}, RunOptions{GPU: true, Image: img}); err != nil {
		t.Fatal(err)
	}
	if gpu.uploads != 3 {
		t.Errorf("uploads = %d, want source plus one per palette", gpu.uploads)
	}
	tex := b.Resources().textures[RolePalette]
	if got := gpu.uploaded[tex.Image()][0]; got != 0 {
		t.Errorf("texture holds red %d, want the last palette", got)
	}
}

func TestPalettePrepareUploadsPremultiplied(t *testing.T) {
	gpu := &fakeGPU{}
	b := NewFilterBackend(BackendConfig{GPU: gpu})
	f, err := b.FromObject(context.Background(), Descriptor{
		"type":    "Palette",
		"palette": []any{[]any{0.0, 0.0, 0.0}, []any{255.0, 255.0, 255.0}},
	})
	if err != nil {
		t.Fatal(err)
	}
	p := f.(*Palette)
	if _, ok := b.Programs().Lookup(p); !ok {
		t.Error("FromObject should compile the palette program")
	}
	tex, ok := b.Resources().textures[RolePalette]
	if !ok || tex.Width() != paletteSize || tex.Height() != 1 {
		t.Fatalf("prepared palette texture = %v", tex)
	}
	if gpu.uploads != 1 {
		t.Fatalf("uploads = %d, want 1", gpu.uploads)
	}

	p.Colors[10] = color.NRGBA{200, 100, 0, 128}
	if err := b.Prepare(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	pix := gpu.uploaded[tex.Image()]
	got := [4]uint8(pix[40:44])
	if want := [4]uint8{100, 50, 0, 128}; got != want {
		t.Errorf("entry 10 = %v, want premultiplied %v", got, want)
	}
	if got := [4]uint8(pix[4*255:]); got != [4]uint8{255, 255, 255, 255} {
		t.Errorf("entry 255 = %v", got)
	}
}

func TestPaletteUploadStretchesAcrossWidth(t *testing.T) {
	gpu := &fakeGPU{}
	pool := NewResourcePool()
	f := NewPalette()
	tex, err := f.upload(gpu, pool, 512, 2)
	if err != nil {
		t.Fatal(err)
	}
	pix := gpu.uploaded[tex.Image()]
	stride := 4 * 512
	for _, x := range []int{0, 1, 2, 3, 300, 511} {
		want := uint8(x / 2)
		if pix[4*x] != want || pix[stride+4*x] != want {
			t.Errorf("column %d = %d/%d, want %d on both rows", x, pix[4*x], pix[stride+4*x], want)
		}
	}
}
