package seatmap

import (
	"fmt"

	"seatmap-cli/venue"
)

// Point is a screen position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

type Viewport struct {
	Width  float64
	Height float64
}

type Mode int

const (
	Overview Mode = iota
	Detail
)

func (m Mode) String() string {
	if m == Detail {
		return "detail"
	}
	return "overview"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "overview":
		*m = Overview
	case "detail":
		*m = Detail
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}

// ViewState is the zoom, pan and focus of the map. Focus is empty in
// overview.
type ViewState struct {
	Zoom  float64 `json:"zoom"`
	Pan   Point   `json:"pan"`
	Focus string  `json:"focus,omitempty"`
}

func initialViewState() ViewState {
	return ViewState{Zoom: 1}
}

func (s ViewState) Mode() Mode {
	if s.Focus != "" {
		return Detail
	}
	return Overview
}

// Controller owns the ViewState and the drag session. Every input is clamped
// into range; nothing is rejected.
type Controller struct {
	cfg    Config
	mapper Mapper
	state  ViewState

	dragging  bool
	dragStart Point
}

func NewController(cfg Config) *Controller {
	cfg = cfg.normalized()
	return &Controller{
		cfg:    cfg,
		mapper: Mapper{cfg: cfg},
		state:  initialViewState(),
	}
}

func (c *Controller) State() ViewState { return c.state }
func (c *Controller) Mode() Mode       { return c.state.Mode() }
func (c *Controller) Dragging() bool   { return c.dragging }

// Reset returns to overview at zoom 1 with no pan and ends any drag.
func (c *Controller) Reset() {
	c.state = initialViewState()
	c.dragging = false
	c.dragStart = Point{}
}

// Focus zooms to the threshold and centers section on the stage. It reports
// whether the focused section changed.
func (c *Controller) Focus(section venue.Section, viewport Viewport) bool {
	previous := c.state.Focus
	zoom := c.cfg.Threshold
	anchor := c.mapper.AnchorPixels(section.Anchor, viewport)
	center := c.mapper.StageCenter(viewport)
	origin := c.mapper.Origin(viewport)

	c.state = ViewState{
		Zoom:  zoom,
		Pan:   center.Sub(origin).Sub(anchor.Sub(origin).Scale(zoom)),
		Focus: section.ID,
	}
	c.clampPan()
	c.dragging = false
	return previous != section.ID
}

// ZoomIn steps toward MaxZoom around the stage center. No-op in overview.
func (c *Controller) ZoomIn(viewport Viewport) bool {
	if c.state.Mode() == Overview {
		return false
	}
	return c.zoomTo(c.state.Zoom+c.cfg.ZoomStep, viewport)
}

// ZoomOut steps down; reaching the floor of 1 returns to overview.
func (c *Controller) ZoomOut(viewport Viewport) bool {
	if c.state.Mode() == Overview {
		return false
	}
	return c.zoomTo(c.state.Zoom-c.cfg.ZoomStep, viewport)
}

// SetZoom jumps to an absolute zoom, clamped to [1, MaxZoom].
func (c *Controller) SetZoom(zoom float64, viewport Viewport) bool {
	if c.state.Mode() == Overview {
		return false
	}
	return c.zoomTo(zoom, viewport)
}

func (c *Controller) zoomTo(zoom float64, viewport Viewport) bool {
	if zoom <= 1 {
		changed := c.state != initialViewState()
		c.Reset()
		return changed
	}
	zoom = min(zoom, c.cfg.MaxZoom)
	if zoom == c.state.Zoom {
		return false
	}

	center := c.mapper.StageCenter(viewport)
	origin := c.mapper.Origin(viewport)
	world := c.mapper.Inverse(center, c.state, viewport)

	before := c.state.Pan
	c.state.Zoom = zoom
	c.state.Pan = center.Sub(origin).Sub(world.Sub(origin).Scale(zoom))
	c.clampPan()
	if c.dragging {
		// rebase so the next move continues from the zoomed pan
		c.dragStart = c.dragStart.Add(before.Sub(c.state.Pan))
	}
	return true
}

// DragStart begins a pan session at p. Only meaningful in detail.
func (c *Controller) DragStart(p Point) bool {
	if c.state.Mode() == Overview {
		return false
	}
	c.dragging = true
	c.dragStart = p.Sub(c.state.Pan)
	return true
}

// DragMove pans so the content follows the pointer. The x axis is clamped
// on every update.
func (c *Controller) DragMove(p Point) bool {
	if !c.dragging {
		return false
	}
	before := c.state.Pan
	c.state.Pan = p.Sub(c.dragStart)
	c.clampPan()
	return c.state.Pan != before
}

// DragEnd ends the session; the last pan is kept.
func (c *Controller) DragEnd() bool {
	was := c.dragging
	c.dragging = false
	return was
}

// DragCancel ends the session on abnormal termination, such as the pointer
// leaving the stage. The pan reached so far is kept, as with DragEnd.
func (c *Controller) DragCancel() bool {
	return c.DragEnd()
}

// Pan moves by a delta without a drag session (keyboard panning).
func (c *Controller) Pan(delta Point) bool {
	if c.state.Mode() == Overview {
		return false
	}
	before := c.state.Pan
	c.state.Pan = c.state.Pan.Add(delta)
	c.clampPan()
	return c.state.Pan != before
}

func (c *Controller) clampPan() {
	if c.state.Pan.X > c.cfg.PanBoundX {
		c.state.Pan.X = c.cfg.PanBoundX
	}
}
