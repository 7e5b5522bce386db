package htmlxml

// Viewport is the browser window a document is laid out in. Positions in
// the output are CSS pixels relative to the top-left corner of the page.
type Viewport struct {
	// Width of the window in CSS pixels. Defaults to 1280.
	Width int

	// Height of the window in CSS pixels. Defaults to 1024.
	Height int

	// DeviceScaleFactor is the ratio of device pixels to CSS pixels.
	// Defaults to 1.0. It does not change reported coordinates.
	DeviceScaleFactor float64

	// Mobile emulates a mobile device, enabling meta viewport handling.
	Mobile bool
}

// Common viewports.
var (
	Desktop = Viewport{Width: 1280, Height: 1024, DeviceScaleFactor: 1}
	Laptop  = Viewport{Width: 1366, Height: 768, DeviceScaleFactor: 1}
	Tablet  = Viewport{Width: 768, Height: 1024, DeviceScaleFactor: 2}
	Phone   = Viewport{Width: 390, Height: 844, DeviceScaleFactor: 3, Mobile: true}
)

// DefaultViewport returns the viewport used when none is configured.
func DefaultViewport() Viewport {
	return Desktop
}

// resolved returns a Viewport with all zero values replaced by defaults.
func (v *Viewport) resolved() Viewport {
	d := DefaultViewport()
	if v == nil {
		return d
	}
	r := *v
	if r.Width <= 0 {
		r.Width = d.Width
	}
	if r.Height <= 0 {
		r.Height = d.Height
	}
	if r.DeviceScaleFactor <= 0 {
		r.DeviceScaleFactor = d.DeviceScaleFactor
	}
	return r
}
