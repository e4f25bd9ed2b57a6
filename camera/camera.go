// Package camera maps between screen and world coordinates for a driver
// that renders or picks entities.
package camera

import "math"

// Zoom limits
const (
	MinZoom = 0.3
	MaxZoom = 3.0
)

// PickMargin is the screen-independent slack added to a scaled radius when
// picking an entity under the cursor.
const PickMargin = 5.0

// smoothing is the fraction of the remaining distance to the target covered per Update.
const smoothing = 0.1

// Camera controls the viewport into the simulation world.
// Pans and zooms move a target; Update eases the camera toward it.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float64

	// Target the camera eases toward
	TargetX, TargetY float64

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// World dimensions (for toroidal wrapping)
	WorldW, WorldH float64
}

// New creates a camera centered on the world with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float64) *Camera {
	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		TargetX:   worldW / 2,
		TargetY:   worldH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
// For toroidal worlds, this finds the shortest path to the viewport.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)

	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom

	wx = mod(c.X+dx, c.WorldW)
	wy = mod(c.Y+dy, c.WorldH)
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)

	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius

	return math.Abs(dx) <= halfW && math.Abs(dy) <= halfH
}

// PickTolerance returns the world distance within which an entity of the
// given radius counts as under the cursor at the current zoom.
func (c *Camera) PickTolerance(radius float64) float64 {
	return PickTolerance(radius, c.Zoom)
}

// PickTolerance returns the pick distance for an entity of the given radius
// seen at zoom.
func PickTolerance(radius, zoom float64) float64 {
	return radius*zoom + PickMargin
}

// Pan moves the target by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.TargetX = mod(c.TargetX+dx/c.Zoom, c.WorldW)
	c.TargetY = mod(c.TargetY+dy/c.Zoom, c.WorldH)
}

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, MinZoom, MaxZoom)
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// the screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(factor, sx, sy float64) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom * factor)

	// Place the camera so (wx, wy) maps back to (sx, sy)
	c.X = mod(wx-(sx-c.ViewportW/2)/c.Zoom, c.WorldW)
	c.Y = mod(wy-(sy-c.ViewportH/2)/c.Zoom, c.WorldH)
	c.TargetX, c.TargetY = c.X, c.Y
}

// Update eases the camera toward its target along the shortest toroidal path.
func (c *Camera) Update() {
	c.X = mod(c.X+toroidalDelta(c.TargetX, c.X, c.WorldW)*smoothing, c.WorldW)
	c.Y = mod(c.Y+toroidalDelta(c.TargetY, c.Y, c.WorldH)*smoothing, c.WorldH)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.TargetX, c.TargetY = c.X, c.Y
	c.Zoom = 1.0
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float64) float64 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (math.Mod can return negative).
func mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
