package main

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// camera projects the world XY plane onto the screen. World Y points up.
type camera struct {
	// X and Y are the world position at the center of the viewport.
	X, Y float64
	// Zoom is pixels per world unit.
	Zoom float64
	// Rotation is the view rotation in radians (clockwise on screen).
	Rotation float64

	width, height float64

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	scrollTween *scrollAnim
}

func newCamera(width, height int, zoom float64) *camera {
	return &camera{
		Zoom:   zoom,
		width:  float64(width),
		height: float64(height),
		dirty:  true,
	}
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Pan moves the camera by a screen-space offset in pixels.
func (c *camera) Pan(dx, dy float64) {
	c.X += dx / c.Zoom
	c.Y -= dy / c.Zoom
	c.dirty = true
}

// ZoomBy multiplies the zoom by factor, clamped to a usable range.
func (c *camera) ZoomBy(factor float64) {
	c.Zoom = math.Max(1, math.Min(c.Zoom*factor, 4096))
	c.dirty = true
}

func (c *camera) update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	if !c.scrollTween.doneX {
		val, done := c.scrollTween.tweenX.Update(dt)
		c.X = float64(val)
		c.scrollTween.doneX = done
	}
	if !c.scrollTween.doneY {
		val, done := c.scrollTween.tweenY.Update(dt)
		c.Y = float64(val)
		c.scrollTween.doneY = done
	}
	if c.scrollTween.doneX && c.scrollTween.doneY {
		c.scrollTween = nil
	}
	c.dirty = true
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom, -zoom) * Rotate(-rotation) * Translate(-X, -Y)
// where cx, cy = viewport center. The negative Y scale flips world Y up.
func (c *camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.width / 2
	cy := c.height / 2

	cos := math.Cos(-c.Rotation)
	sin := math.Sin(-c.Rotation)
	z := c.Zoom

	a := z * cos
	b := -z * sin
	cc := -z * sin
	d := -z * cos
	tx := cx - a*c.X - b*c.Y
	ty := cy - cc*c.X - d*c.Y

	c.viewMatrix = [6]float64{a, cc, b, d, tx, ty}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	return transformPoint(c.viewMatrix, wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return transformPoint(c.invViewMatrix, sx, sy)
}

// transformPoint applies m, stored as [a, c, b, d, tx, ty].
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func invertAffine(m [6]float64) [6]float64 {
	a, c, b, d, tx, ty := m[0], m[1], m[2], m[3], m[4], m[5]
	det := a*d - b*c
	if det > -1e-12 && det < 1e-12 {
		return [6]float64{1, 0, 0, 1, 0, 0}
	}
	inv := 1 / det
	ia := d * inv
	ib := -b * inv
	ic := -c * inv
	id := a * inv
	return [6]float64{ia, ic, ib, id, -(ia*tx + ib*ty), -(ic*tx + id*ty)}
}
