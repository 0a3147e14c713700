package seatmap

import "seatmap-cli/venue"

// Event is one discrete input for Widget.Apply.
type Event interface {
	apply(w *Widget) bool
}

type SectionSelected struct{ SectionID string }

type ZoomInPressed struct{}

type ZoomOutPressed struct{}

type ZoomSet struct{ Zoom float64 }

type DragStarted struct{ At Point }

type DragMoved struct{ At Point }

type DragEnded struct{}

type DragCanceled struct{}

// SeatClicked is a click already resolved to a seat.
type SeatClicked struct{ Seat venue.SeatID }

// PointClicked is a raw click on the stage.
type PointClicked struct{ At Point }

type TicketToggled struct{ TicketID string }

type Cleared struct{}

func (e SectionSelected) apply(w *Widget) bool { return w.SelectSection(e.SectionID) }
func (ZoomInPressed) apply(w *Widget) bool     { return w.ZoomIn() }
func (ZoomOutPressed) apply(w *Widget) bool    { return w.ZoomOut() }
func (e ZoomSet) apply(w *Widget) bool         { return w.SetZoom(e.Zoom) }
func (e DragStarted) apply(w *Widget) bool     { return w.DragStart(e.At) }
func (e DragMoved) apply(w *Widget) bool       { return w.DragMove(e.At) }
func (DragEnded) apply(w *Widget) bool         { return w.DragEnd() }
func (DragCanceled) apply(w *Widget) bool      { return w.DragCancel() }
func (e SeatClicked) apply(w *Widget) bool     { return w.ClickSeat(e.Seat) }
func (e PointClicked) apply(w *Widget) bool    { return w.ClickAt(e.At) }
func (e TicketToggled) apply(w *Widget) bool   { return w.ToggleTicket(e.TicketID) }
func (Cleared) apply(w *Widget) bool           { return w.Clear() }
