package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shadow/engine/camera"
	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestShadowDepthTextureDescriptor(t *testing.T) {
	desc := ShadowDepthTextureDescriptor(2048, 1024)

	if desc.Size.Width != 2048 || desc.Size.Height != 1024 || desc.Size.DepthOrArrayLayers != 1 {
		t.Errorf("Size = %+v, want 2048x1024x1", desc.Size)
	}
	if desc.Format != wgpu.TextureFormatDepth32Float {
		t.Errorf("Format = %v, want Depth32Float", desc.Format)
	}
	if desc.Usage&wgpu.TextureUsageRenderAttachment == 0 {
		t.Errorf("Usage %v is missing RenderAttachment", desc.Usage)
	}
	if desc.Usage&wgpu.TextureUsageTextureBinding == 0 {
		t.Errorf("Usage %v is missing TextureBinding", desc.Usage)
	}
}

func TestNewShadowTargetRejectsInvalidInput(t *testing.T) {
	if _, err := NewShadowTarget(nil, 512, 512); err == nil {
		t.Errorf("NewShadowTarget(nil device) error = nil, want an error")
	}
	if _, err := NewShadowTarget(&wgpu.Device{}, 0, 512); err == nil {
		t.Errorf("NewShadowTarget(zero width) error = nil, want an error")
	}
}

func TestWrapShadowTarget(t *testing.T) {
	target := WrapShadowTarget(nil, nil, 640, 480)

	if target.ActualWidth() != 640 || target.ActualHeight() != 480 {
		t.Errorf("size = %dx%d, want 640x480", target.ActualWidth(), target.ActualHeight())
	}

	target.Release()
	target.Release()
	if target.Texture() != nil || target.View() != nil {
		t.Errorf("Texture()/View() should be nil after Release")
	}
}

func TestShadowBindGroupLayoutDescriptor(t *testing.T) {
	desc := ShadowBindGroupLayoutDescriptor(wgpu.ShaderStageFragment)

	if len(desc.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(desc.Entries))
	}
	data, depth, samp := desc.Entries[0], desc.Entries[1], desc.Entries[2]
	if data.Binding != ShadowBindingData || data.Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage {
		t.Errorf("data entry = %+v, want read-only storage at binding %d", data, ShadowBindingData)
	}
	if data.Buffer.MinBindingSize != 80 {
		t.Errorf("data MinBindingSize = %d, want 80", data.Buffer.MinBindingSize)
	}
	if depth.Binding != ShadowBindingDepth || depth.Texture.SampleType != wgpu.TextureSampleTypeDepth {
		t.Errorf("depth entry = %+v, want depth texture at binding %d", depth, ShadowBindingDepth)
	}
	if samp.Binding != ShadowBindingSampler || samp.Sampler.Type != wgpu.SamplerBindingTypeComparison {
		t.Errorf("sampler entry = %+v, want comparison sampler at binding %d", samp, ShadowBindingSampler)
	}
	for _, e := range desc.Entries {
		if e.Visibility != wgpu.ShaderStageFragment {
			t.Errorf("binding %d visibility = %v, want fragment", e.Binding, e.Visibility)
		}
	}
}

func TestShadowComparisonSamplerDescriptor(t *testing.T) {
	desc := ShadowComparisonSamplerDescriptor()
	if desc.Compare != wgpu.CompareFunctionLess {
		t.Errorf("Compare = %v, want Less", desc.Compare)
	}
	if desc.AddressModeU != wgpu.AddressModeClampToEdge || desc.AddressModeV != wgpu.AddressModeClampToEdge {
		t.Errorf("address modes = %v/%v, want clamp to edge", desc.AddressModeU, desc.AddressModeV)
	}
}

func TestGrowCapacity(t *testing.T) {
	tests := []struct {
		current, need, expected int
	}{
		{1, 1, 1},
		{1, 2, 2},
		{4, 5, 8},
		{4, 17, 32},
		{0, 3, 4},
	}

	for _, tt := range tests {
		if got := growCapacity(tt.current, tt.need); got != tt.expected {
			t.Errorf("growCapacity(%d, %d) = %d, want %d", tt.current, tt.need, got, tt.expected)
		}
	}
	if shadowBufferSize(0) != 80 || shadowBufferSize(3) != 240 {
		t.Errorf("shadowBufferSize = %d/%d, want 80/240", shadowBufferSize(0), shadowBufferSize(3))
	}
}

func TestNewShadowBindingsRejectsInvalidInput(t *testing.T) {
	if _, err := NewShadowBindings(nil, WrapShadowTarget(nil, nil, 1, 1), wgpu.ShaderStageFragment, 1); err == nil {
		t.Errorf("NewShadowBindings(nil device) error = nil, want an error")
	}
	if _, err := NewShadowBindings(&wgpu.Device{}, WrapShadowTarget(nil, nil, 1, 1), wgpu.ShaderStageFragment, 1); err == nil {
		t.Errorf("NewShadowBindings(released target) error = nil, want an error")
	}
}

func TestShadowPassDescriptor(t *testing.T) {
	desc := ShadowPassDescriptor(nil)

	if len(desc.ColorAttachments) != 0 {
		t.Errorf("ColorAttachments = %d, want a depth-only pass", len(desc.ColorAttachments))
	}
	ds := desc.DepthStencilAttachment
	if ds == nil {
		t.Fatalf("DepthStencilAttachment = nil")
	}
	if ds.DepthLoadOp != wgpu.LoadOpClear || ds.DepthStoreOp != wgpu.StoreOpStore || ds.DepthClearValue != 1 {
		t.Errorf("depth attachment = %+v, want clear to 1 and store", ds)
	}
}

func TestShadowTargetSizesDirectionalTexels(t *testing.T) {
	target := WrapShadowTarget(nil, nil, 1024, 1024)
	cam := camera.NewCamera(camera.WithNear(0.5))
	sun := light.NewLight(light.LightTypeDirectional, light.WithDirection(0.3, -1, 0.2), light.WithCastsShadows(true))
	sun.SetShadowFarDistance(64)

	pose := shadow.NewDirectionalPointStrategy().ShadowCamera(shadow.DefaultSettings(), cam, target, sun, 0)
	if pose.Projection != shadow.ProjectionOrthographic {
		t.Fatalf("Projection = %v, want orthographic", pose.Projection)
	}
	if pose.OrthoWidth != 128 {
		t.Errorf("OrthoWidth = %v, want 128", pose.OrthoWidth)
	}
	if got, want := shadow.WorldTexelSize(64, target), float32(128)/1024; got != want {
		t.Errorf("WorldTexelSize = %v, want %v", got, want)
	}
}
