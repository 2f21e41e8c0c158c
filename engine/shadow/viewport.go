package shadow

// FixedViewport is a Viewport with fixed pixel dimensions.
type FixedViewport struct {
	Width  uint32
	Height uint32
}

var _ Viewport = FixedViewport{}

func (v FixedViewport) ActualWidth() uint32 {
	return v.Width
}

// ActualHeight returns the viewport height in pixels.
func (v FixedViewport) ActualHeight() uint32 {
	return v.Height
}
