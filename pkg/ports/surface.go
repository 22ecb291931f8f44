package ports

// Surface is an off-screen raster target. It receives pictures from a
// VideoSource and produces encoded still images.
type Surface interface {
	// Resize sets the raster dimensions in pixels.
	Resize(width, height int)

	// Clear resets every pixel to transparent black.
	Clear()

	// RenderFrom draws the current picture of src into the given rectangle.
	RenderFrom(src VideoSource, x, y, width, height float64) error

	// Encode returns the raster encoded as a data URL in the given format.
	// Unknown formats fall back to PNG.
	Encode(format string) (string, error)
}
