package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/engine/shadow"
	"github.com/cogentcore/webgpu/wgpu"
)

// shadowTargetImpl is the implementation of the ShadowTarget interface.
type shadowTargetImpl struct {
	mu *sync.Mutex

	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   uint32
	height  uint32
}

// ShadowTarget is the depth render target a shadow camera draws into. It is the
// viewport shadow strategies size their texels against.
type ShadowTarget interface {
	// ActualWidth returns the width of the depth texture in texels.
	//
	// Returns:
	//   - uint32: texture width
	ActualWidth() uint32

	// ActualHeight returns the height of the depth texture in texels.
	//
	// Returns:
	//   - uint32: texture height
	ActualHeight() uint32

	// Texture returns the depth texture, or nil after Release.
	//
	// Returns:
	//   - *wgpu.Texture: the depth texture
	Texture() *wgpu.Texture

	// View returns the depth texture view used as the pass attachment, or nil after Release.
	//
	// Returns:
	//   - *wgpu.TextureView: the depth texture view
	View() *wgpu.TextureView

	// Release frees the GPU texture and view. Safe to call more than once.
	Release()
}

var _ ShadowTarget = &shadowTargetImpl{}
var _ shadow.Viewport = &shadowTargetImpl{}

// ShadowDepthTextureDescriptor describes a Depth32Float texture usable both as a
// shadow pass attachment and as a sampled texture in the lit pass.
//
// Parameters:
//   - width: texture width in texels
//   - height: texture height in texels
//
// Returns:
//   - *wgpu.TextureDescriptor: the descriptor to create the texture with
func ShadowDepthTextureDescriptor(width, height int) *wgpu.TextureDescriptor {
	return &wgpu.TextureDescriptor{
		Label: "Shadow Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	}
}

// ShadowPassDescriptor describes a depth-only render pass into view that clears
// depth to 1.0 and stores the result for sampling.
//
// Parameters:
//   - view: the shadow target's depth view
//
// Returns:
//   - *wgpu.RenderPassDescriptor: the pass descriptor
func ShadowPassDescriptor(view *wgpu.TextureView) *wgpu.RenderPassDescriptor {
	return &wgpu.RenderPassDescriptor{
		Label: "Shadow Pass",
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	}
}

// NewShadowTarget creates a shadow depth texture and its view on the device.
//
// Parameters:
//   - device: the GPU device to allocate on
//   - width: texture width in texels
//   - height: texture height in texels
//
// Returns:
//   - ShadowTarget: the created target
//   - error: an error if the texture or its view cannot be created
func NewShadowTarget(device *wgpu.Device, width, height int) (ShadowTarget, error) {
	if device == nil {
		return nil, fmt.Errorf("shadow target requires a device")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid shadow target size %dx%d", width, height)
	}

	tex, err := device.CreateTexture(ShadowDepthTextureDescriptor(width, height))
	if err != nil {
		return nil, fmt.Errorf("failed to create shadow depth texture: %w", err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create shadow depth texture view: %w", err)
	}

	return WrapShadowTarget(tex, view, uint32(width), uint32(height)), nil
}

// WrapShadowTarget wraps an existing depth texture and view. Ownership passes
// to the returned target; Release frees both.
//
// Parameters:
//   - tex: the depth texture
//   - view: a view of tex
//   - width, height: the texture size in texels
//
// Returns:
//   - ShadowTarget: the wrapping target
func WrapShadowTarget(tex *wgpu.Texture, view *wgpu.TextureView, width, height uint32) ShadowTarget {
	return &shadowTargetImpl{
		mu:      &sync.Mutex{},
		texture: tex,
		view:    view,
		width:   width,
		height:  height,
	}
}

func (t *shadowTargetImpl) ActualWidth() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width
}

func (t *shadowTargetImpl) ActualHeight() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.height
}

func (t *shadowTargetImpl) Texture() *wgpu.Texture {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.texture
}

func (t *shadowTargetImpl) View() *wgpu.TextureView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

func (t *shadowTargetImpl) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
