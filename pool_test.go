package pixfx

import (
	"errors"
	"testing"
)

func TestPoolCanvasReuse(t *testing.T) {
	p := NewResourcePool()
	a := p.AcquireCanvas(RoleBlurLayer1, 4, 3)
	b := p.AcquireCanvas(RoleBlurLayer1, 4, 3)
	if a != b {
		t.Fatal("same role and size should return the same canvas")
	}
	a.Pix[0] = 42
	if p.AcquireCanvas(RoleBlurLayer1, 4, 3).Pix[0] != 42 {
		t.Error("unchanged canvas should keep its contents")
	}
	if s := p.Stats(); s.Allocations != 1 || s.Resizes != 0 {
		t.Errorf("stats = %+v, want 1 allocation", s)
	}
}

func TestPoolCanvasResizeInPlace(t *testing.T) {
	p := NewResourcePool()
	a := p.AcquireCanvas(RoleUpload, 4, 4)
	a.Pix[0] = 7
	b := p.AcquireCanvas(RoleUpload, 2, 6)
	if a != b {
		t.Fatal("resize should keep the canvas instance")
	}
	if b.Rect.Dx() != 2 || b.Rect.Dy() != 6 || b.Stride != 8 || len(b.Pix) != 48 {
		t.Errorf("resized canvas = %v stride %d len %d", b.Rect, b.Stride, len(b.Pix))
	}
	if b.Pix[0] != 0 {
		t.Error("resized canvas should be cleared")
	}
	if s := p.Stats(); s.Allocations != 1 || s.Resizes != 1 {
		t.Errorf("stats = %+v, want 1 allocation and 1 resize", s)
	}
}

func TestPoolRolesAreDistinct(t *testing.T) {
	p := NewResourcePool()
	if p.AcquireImage(RolePing, 2, 2) == p.AcquireImage(RolePong, 2, 2) {
		t.Error("ping and pong should be different buffers")
	}
	if p.AcquireCanvas(RoleBlurLayer1, 2, 2) == p.AcquireCanvas(RoleBlurLayer2, 2, 2) {
		t.Error("blur layers should be different buffers")
	}
}

func TestPoolTextureLifecycle(t *testing.T) {
	gpu := &fakeGPU{}
	p := NewResourcePool()
	a, err := p.AcquireTexture(gpu, RoleSource, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.AcquireTexture(gpu, RoleSource, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if a != b || gpu.textures != 1 {
		t.Fatalf("reuse: same=%v textures=%d", a == b, gpu.textures)
	}

	old := a.Image()
	c, err := p.AcquireTexture(gpu, RoleSource, 16, 4)
	if err != nil {
		t.Fatal(err)
	}
	if c != a {
		t.Fatal("resize should keep the texture instance")
	}
	if c.Image() == old || c.Width() != 16 || c.Height() != 4 {
		t.Errorf("resized texture = %dx%d, new image %v", c.Width(), c.Height(), c.Image() != old)
	}
	if s := p.Stats(); s.Allocations != 1 || s.Resizes != 1 {
		t.Errorf("stats = %+v", s)
	}

	p.Dispose()
	if a.Image() != nil {
		t.Error("Dispose should release the backing image")
	}
	d, err := p.AcquireTexture(gpu, RoleSource, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if d == a {
		t.Error("a disposed pool should allocate a new texture")
	}
}

func TestPoolTextureErrors(t *testing.T) {
	p := NewResourcePool()
	if _, err := p.AcquireTexture(nil, RoleSource, 1, 1); err == nil {
		t.Error("nil context should fail")
	}
	if _, err := p.AcquireTexture(&fakeGPU{lost: true}, RoleSource, 1, 1); !errors.Is(err, ErrContextLost) {
		t.Errorf("lost context err = %v, want ErrContextLost", err)
	}

	boom := errors.New("out of memory")
	_, err := p.AcquireTexture(&fakeGPU{failTexture: boom}, RoleTarget, 1, 1)
	var rae *ResourceAllocationError
	if !errors.As(err, &rae) || rae.Role != RoleTarget || !errors.Is(err, boom) {
		t.Errorf("err = %v, want ResourceAllocationError for target", err)
	}
}
