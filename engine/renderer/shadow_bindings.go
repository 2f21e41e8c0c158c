package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shadow/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
)

// Binding indices of the shadow bind group, matching the lit pass shader:
//
//	@binding(0) var<storage, read> shadows: array<ShadowData>;
//	@binding(1) var shadow_map: texture_depth_2d;
//	@binding(2) var shadow_sampler: sampler_comparison;
const (
	ShadowBindingData    = 0
	ShadowBindingDepth   = 1
	ShadowBindingSampler = 2
)

// shadowDataSize is the marshaled size of one light.GPUShadowData entry.
const shadowDataSize = 80

// shadowBindingsImpl is the implementation of the ShadowBindings interface.
type shadowBindingsImpl struct {
	mu *sync.Mutex

	device *wgpu.Device
	target ShadowTarget

	layout    *wgpu.BindGroupLayout
	bindGroup *wgpu.BindGroup
	buffer    *wgpu.Buffer
	sampler   *wgpu.Sampler
	capacity  int
}

// ShadowBindings owns the GPU resources the lit pass samples shadows through:
// the storage buffer of per-light shadow data, the shadow depth texture and the
// comparison sampler, bound together in one bind group.
type ShadowBindings interface {
	// BindGroupLayout returns the layout of the shadow bind group.
	BindGroupLayout() *wgpu.BindGroupLayout

	// BindGroup returns the current shadow bind group. The bind group is
	// recreated when Write grows the buffer, so fetch it after writing.
	BindGroup() *wgpu.BindGroup

	// Buffer returns the shadow data storage buffer.
	Buffer() *wgpu.Buffer

	// Capacity returns the number of shadow entries the buffer holds.
	Capacity() int

	// Write uploads the shadow data, growing the buffer first when it is too small.
	//
	// Parameters:
	//   - queue: the queue to write through
	//   - data: the shadow entries, in shader array order
	//
	// Returns:
	//   - error: an error if the buffer or bind group cannot be recreated
	Write(queue *wgpu.Queue, data []light.GPUShadowData) error

	// Release frees every GPU object owned by the bindings. The shadow target is
	// not released. Safe to call more than once.
	Release()
}

var _ ShadowBindings = &shadowBindingsImpl{}

// ShadowBindGroupLayoutDescriptor returns the layout of the shadow bind group.
//
// Parameters:
//   - visibility: the shader stages that read the shadow bindings
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func ShadowBindGroupLayoutDescriptor(visibility wgpu.ShaderStage) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Shadow Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    ShadowBindingData,
				Visibility: visibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: shadowDataSize,
				},
			},
			{
				Binding:    ShadowBindingDepth,
				Visibility: visibility,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeDepth,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    ShadowBindingSampler,
				Visibility: visibility,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeComparison,
				},
			},
		},
	}
}

// ShadowComparisonSamplerDescriptor returns the clamped, linearly filtered
// comparison sampler used for PCF shadow lookups.
//
// Returns:
//   - *wgpu.SamplerDescriptor: the sampler descriptor
func ShadowComparisonSamplerDescriptor() *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         "Shadow Comparison Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		Compare:       wgpu.CompareFunctionLess,
		MaxAnisotropy: 1,
	}
}

// NewShadowBindings creates the shadow bind group for a shadow target.
//
// Parameters:
//   - device: the GPU device to allocate on
//   - target: the shadow depth target sampled by the lit pass
//   - visibility: the shader stages that read the shadow bindings
//   - capacity: initial number of shadow entries (minimum 1)
//
// Returns:
//   - ShadowBindings: the created bindings
//   - error: an error if any GPU object cannot be created
func NewShadowBindings(device *wgpu.Device, target ShadowTarget, visibility wgpu.ShaderStage, capacity int) (ShadowBindings, error) {
	if device == nil {
		return nil, fmt.Errorf("shadow bindings require a device")
	}
	if target == nil || target.View() == nil {
		return nil, fmt.Errorf("shadow bindings require a live shadow target")
	}

	desc := ShadowBindGroupLayoutDescriptor(visibility)
	layout, err := device.CreateBindGroupLayout(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create shadow bind group layout: %w", err)
	}

	samp, err := device.CreateSampler(ShadowComparisonSamplerDescriptor())
	if err != nil {
		layout.Release()
		return nil, fmt.Errorf("failed to create comparison sampler: %w", err)
	}

	b := &shadowBindingsImpl{
		mu:      &sync.Mutex{},
		device:  device,
		target:  target,
		layout:  layout,
		sampler: samp,
	}
	if err := b.resize(max(capacity, 1)); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (b *shadowBindingsImpl) BindGroupLayout() *wgpu.BindGroupLayout {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.layout
}

func (b *shadowBindingsImpl) BindGroup() *wgpu.BindGroup {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bindGroup
}

func (b *shadowBindingsImpl) Buffer() *wgpu.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer
}

func (b *shadowBindingsImpl) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

func (b *shadowBindingsImpl) Write(queue *wgpu.Queue, data []light.GPUShadowData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(data) == 0 {
		return nil
	}
	if len(data) > b.capacity {
		if err := b.resize(growCapacity(b.capacity, len(data))); err != nil {
			return err
		}
	}
	queue.WriteBuffer(b.buffer, 0, light.MarshalShadowBuffer(data))
	return nil
}

func (b *shadowBindingsImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseBuffer()
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
	if b.layout != nil {
		b.layout.Release()
		b.layout = nil
	}
}

// resize replaces the storage buffer and bind group with ones holding capacity entries.
func (b *shadowBindingsImpl) resize(capacity int) error {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Shadow Data Buffer",
		Size:  shadowBufferSize(capacity),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create shadow data buffer: %w", err)
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Shadow Bind Group",
		Layout: b.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: ShadowBindingData, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
			{Binding: ShadowBindingDepth, TextureView: b.target.View()},
			{Binding: ShadowBindingSampler, Sampler: b.sampler},
		},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("failed to create shadow bind group: %w", err)
	}

	b.releaseBuffer()
	b.buffer = buf
	b.bindGroup = bindGroup
	b.capacity = capacity
	return nil
}

func (b *shadowBindingsImpl) releaseBuffer() {
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
	b.capacity = 0
}

// shadowBufferSize returns the byte size of a buffer holding n shadow entries.
func shadowBufferSize(n int) uint64 {
	return uint64(max(n, 1)) * shadowDataSize
}

// growCapacity doubles current until it holds need entries.
func growCapacity(current, need int) int {
	c := max(current, 1)
	for c < need {
		c *= 2
	}
	return c
}
