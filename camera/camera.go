// Package camera maps between screen pixels and field cells for the graphical front end.
package camera

// Camera controls the viewport into the field.
// The field is bounded: the camera centre stays inside it and pointer
// positions outside it are reported as such.
type Camera struct {
	// Position is the camera center in field coordinates
	X, Y float32

	// Zoom is screen pixels per field cell
	Zoom float32

	// Viewport rectangle on screen
	ViewportX, ViewportY float32
	ViewportW, ViewportH float32

	// Field dimensions in cells
	FieldW, FieldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera that fits the whole field into the viewport rectangle.
func New(viewportX, viewportY, viewportW, viewportH, fieldW, fieldH float32) *Camera {
	c := &Camera{
		ViewportX: viewportX,
		ViewportY: viewportY,
		ViewportW: viewportW,
		ViewportH: viewportH,
		FieldW:    fieldW,
		FieldH:    fieldH,
		MaxZoom:   16,
	}
	c.updateMinZoom()
	c.Reset()
	return c
}

// fitZoom is the zoom at which the whole field just fits the viewport.
func (c *Camera) fitZoom() float32 {
	return min(c.ViewportW/c.FieldW, c.ViewportH/c.FieldH)
}

func (c *Camera) updateMinZoom() {
	c.MinZoom = c.fitZoom()
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
}

// FieldToScreen converts field coordinates to screen coordinates.
func (c *Camera) FieldToScreen(fx, fy float32) (sx, sy float32) {
	sx = c.ViewportX + c.ViewportW/2 + (fx-c.X)*c.Zoom
	sy = c.ViewportY + c.ViewportH/2 + (fy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToField converts screen coordinates to field coordinates.
// ok is false when the point lies outside the field or the viewport.
func (c *Camera) ScreenToField(sx, sy float32) (fx, fy float32, ok bool) {
	fx = c.X + (sx-c.ViewportX-c.ViewportW/2)/c.Zoom
	fy = c.Y + (sy-c.ViewportY-c.ViewportH/2)/c.Zoom
	ok = c.InViewport(sx, sy) && fx >= 0 && fy >= 0 && fx < c.FieldW && fy < c.FieldH
	return fx, fy, ok
}

// InViewport reports whether a screen point is inside the viewport rectangle.
func (c *Camera) InViewport(sx, sy float32) bool {
	return sx >= c.ViewportX && sy >= c.ViewportY &&
		sx < c.ViewportX+c.ViewportW && sy < c.ViewportY+c.ViewportH
}

// ScreenRadius converts a radius in cells to screen pixels.
func (c *Camera) ScreenRadius(r float32) float32 {
	return r * c.Zoom
}

// SetViewport updates the viewport rectangle and recalculates zoom constraints.
func (c *Camera) SetViewport(x, y, w, h float32) {
	if x == c.ViewportX && y == c.ViewportY && w == c.ViewportW && h == c.ViewportH {
		return
	}
	c.ViewportX, c.ViewportY = x, y
	c.ViewportW, c.ViewportH = w, h
	c.updateMinZoom()
	c.SetZoom(c.Zoom)
}

// SetField updates the field dimensions after a resize and refits the view.
func (c *Camera) SetField(w, h float32) {
	c.FieldW, c.FieldH = w, h
	c.updateMinZoom()
	c.Reset()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, c.FieldW)
	c.Y = clamp(c.Y+dy/c.Zoom, 0, c.FieldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomAt multiplies the zoom by factor, keeping the field point under (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	fx, fy, _ := c.ScreenToField(sx, sy)
	c.SetZoom(c.Zoom * factor)
	nx, ny := c.FieldToScreen(fx, fy)
	c.Pan(nx-sx, ny-sy)
}

// Reset fits the whole field in the viewport.
func (c *Camera) Reset() {
	c.X = c.FieldW / 2
	c.Y = c.FieldH / 2
	c.Zoom = c.MinZoom
}

// VisibleFieldBounds returns the field-coordinate bounds of the visible area,
// clipped to the field.
func (c *Camera) VisibleFieldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = max(c.X-halfW, 0)
	maxX = min(c.X+halfW, c.FieldW)
	minY = max(c.Y-halfH, 0)
	maxY = min(c.Y+halfH, c.FieldH)
	return
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
