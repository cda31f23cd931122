package tour

// Point is a position in viewport coordinates.
type Point struct {
	X, Y float64
}

// Size is a width and height in viewport units.
type Size struct {
	W, H float64
}

// layout tracks where the panel sits. Position is the panel's center.
type layout struct {
	panel    Size
	viewport Size
	pos      Point
	dragging bool
	grab     Point // pointer offset from the center when the drag began
}

func newLayout(panel, viewport Size) layout {
	l := layout{panel: panel, viewport: viewport}
	l.reset()
	return l
}

func (l *layout) reset() {
	l.pos = Point{X: l.viewport.W / 2, Y: l.viewport.H / 2}
	l.dragging = false
}

// clamp keeps the center at least half a panel away from every viewport
// edge, so the panel never leaves the screen. A panel larger than the
// viewport is centered on that axis.
func (l *layout) clamp(p Point) Point {
	return Point{
		X: clampAxis(p.X, l.panel.W, l.viewport.W),
		Y: clampAxis(p.Y, l.panel.H, l.viewport.H),
	}
}

func clampAxis(v, panel, viewport float64) float64 {
	lo, hi := panel/2, viewport-panel/2
	if lo > hi {
		return viewport / 2
	}
	return min(max(v, lo), hi)
}

// Position returns the panel's center.
func (e *Engine) Position() Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout.pos
}

// SetViewport updates the viewport size and pulls the panel back inside it.
func (e *Engine) SetViewport(viewport Size) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layout.viewport = viewport
	e.layout.pos = e.layout.clamp(e.layout.pos)
}

// BeginDrag starts moving the panel. Drags only start from the panel
// header and only while the tour is running.
func (e *Engine) BeginDrag(pointer Point, inHeader bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning || !inHeader {
		return false
	}
	e.layout.dragging = true
	e.layout.grab = Point{X: pointer.X - e.layout.pos.X, Y: pointer.Y - e.layout.pos.Y}
	return true
}

// DragTo moves the panel with the pointer and returns the clamped center.
func (e *Engine) DragTo(pointer Point) Point {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.layout.dragging && e.state == StateRunning {
		e.layout.pos = e.layout.clamp(Point{
			X: pointer.X - e.layout.grab.X,
			Y: pointer.Y - e.layout.grab.Y,
		})
	}
	return e.layout.pos
}

// EndDrag finishes a drag.
func (e *Engine) EndDrag() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layout.dragging = false
}
