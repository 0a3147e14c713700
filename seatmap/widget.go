// Package seatmap is the interactive seat map core: a zoom/pan/focus state
// machine, the mapping between layout and screen coordinates, and the seat
// and ticket selections. It holds no timers and does no I/O; renderers read
// Snapshots and feed input back through Widget.
package seatmap

import (
	"log/slog"

	"golang.org/x/exp/slices"

	"seatmap-cli/venue"
)

// DefaultViewport is used until the first Resize.
var DefaultViewport = Viewport{Width: 1280, Height: 800}

// Snapshot is the output contract handed to renderers and sibling panels.
type Snapshot struct {
	EventID   string         `json:"eventId"`
	View      ViewState      `json:"view"`
	Mode      Mode           `json:"mode"`
	Dragging  bool           `json:"dragging"`
	Seats     []venue.SeatID `json:"seats"`
	TicketIDs []string       `json:"ticketIds"`
	Viewport  Viewport       `json:"viewport"`
}

type Option func(*Widget)

func WithLogger(log *slog.Logger) Option {
	return func(w *Widget) {
		if log != nil {
			w.log = log
		}
	}
}

func WithSeatPolicy(policy Policy) Option {
	return func(w *Widget) { w.seatPolicy = policy }
}

// WithAutoSelectTicket selects the first ticket of the focused section when
// a seat is added while no ticket is selected.
func WithAutoSelectTicket(enabled bool) Option {
	return func(w *Widget) { w.autoSelectTicket = enabled }
}

func WithViewport(viewport Viewport) Option {
	return func(w *Widget) { w.viewport = viewport }
}

// Widget ties the controller, mapper and selections to one layout. It is
// not safe for concurrent use; feed it one input at a time.
type Widget struct {
	cfg    Config
	ctrl   *Controller
	mapper Mapper
	log    *slog.Logger

	layout      *venue.Layout
	tickets     []venue.Ticket
	ticketIndex map[string]int

	seatPolicy       Policy
	autoSelectTicket bool
	seats            *Selection[venue.SeatID]
	ticketSel        *Selection[string]

	viewport     Viewport
	listeners    []listener
	nextListener int
}

type listener struct {
	id int
	fn func(Snapshot)
}

func New(cfg Config, layout *venue.Layout, tickets []venue.Ticket, opts ...Option) *Widget {
	cfg = cfg.normalized()
	w := &Widget{
		cfg:      cfg,
		ctrl:     NewController(cfg),
		mapper:   NewMapper(cfg),
		log:      slog.New(slog.DiscardHandler),
		viewport: DefaultViewport,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.seats = NewSelection(w.seatPolicy, w.seatAdmitted)
	w.ticketSel = NewSelection(Single, w.ticketAdmitted)
	w.setData(layout, tickets)
	return w
}

func (w *Widget) Config() Config          { return w.cfg }
func (w *Widget) Mapper() Mapper          { return w.mapper }
func (w *Widget) Layout() *venue.Layout   { return w.layout }
func (w *Widget) Viewport() Viewport      { return w.viewport }
func (w *Widget) State() ViewState        { return w.ctrl.State() }
func (w *Widget) Tickets() []venue.Ticket { return w.tickets }

func (w *Widget) Snapshot() Snapshot {
	return Snapshot{
		EventID:   w.layout.EventID,
		View:      w.ctrl.State(),
		Mode:      w.ctrl.Mode(),
		Dragging:  w.ctrl.Dragging(),
		Seats:     w.seats.IDs(),
		TicketIDs: w.ticketSel.IDs(),
		Viewport:  w.viewport,
	}
}

// Subscribe registers fn to run after every state change. The returned func
// removes it.
func (w *Widget) Subscribe(fn func(Snapshot)) func() {
	w.nextListener++
	id := w.nextListener
	w.listeners = append(w.listeners, listener{id: id, fn: fn})
	return func() {
		w.listeners = slices.DeleteFunc(w.listeners, func(l listener) bool { return l.id == id })
	}
}

// Apply dispatches a typed input event.
func (w *Widget) Apply(e Event) bool {
	if e == nil {
		return false
	}
	return e.apply(w)
}

func (w *Widget) SelectSection(id string) bool {
	section, ok := w.layout.Section(id)
	if !ok {
		w.log.Debug("select unknown section", "section", id)
		return false
	}
	before := w.ctrl.State()
	if w.ctrl.Focus(section, w.viewport) {
		w.clearSelections()
	}
	w.log.Debug("section focused", "section", id, "zoom", w.ctrl.State().Zoom)
	return w.commit(before != w.ctrl.State())
}

func (w *Widget) ZoomIn() bool {
	return w.zoom(func() bool { return w.ctrl.ZoomIn(w.viewport) })
}

func (w *Widget) ZoomOut() bool {
	return w.zoom(func() bool { return w.ctrl.ZoomOut(w.viewport) })
}

func (w *Widget) SetZoom(zoom float64) bool {
	return w.zoom(func() bool { return w.ctrl.SetZoom(zoom, w.viewport) })
}

func (w *Widget) zoom(step func() bool) bool {
	focus := w.ctrl.State().Focus
	if !step() {
		return false
	}
	if w.ctrl.State().Focus != focus {
		w.clearSelections()
		w.log.Debug("returned to overview", "section", focus)
	}
	return w.commit(true)
}

func (w *Widget) DragStart(p Point) bool { return w.commit(w.ctrl.DragStart(p)) }
func (w *Widget) DragMove(p Point) bool  { return w.commit(w.ctrl.DragMove(p)) }
func (w *Widget) DragEnd() bool          { return w.commit(w.ctrl.DragEnd()) }
func (w *Widget) DragCancel() bool       { return w.commit(w.ctrl.DragCancel()) }

// Pan moves the focused view by delta without a drag session.
func (w *Widget) Pan(delta Point) bool { return w.commit(w.ctrl.Pan(delta)) }

// ClickAt resolves a stage click: a section box while boxes are shown, a
// seat once seats are.
func (w *Widget) ClickAt(p Point) bool {
	state := w.ctrl.State()
	if id, ok := w.mapper.ResolveSeatAt(p, state, w.layout, w.viewport); ok {
		return w.ClickSeat(id)
	}
	if id, ok := w.mapper.ResolveSectionAt(p, state, w.layout, w.viewport); ok {
		return w.SelectSection(id)
	}
	return false
}

// ClickSeat is a pre-resolved seat click. Seats outside the focused section
// are ignored.
func (w *Widget) ClickSeat(id venue.SeatID) bool {
	focus := w.ctrl.State().Focus
	if focus == "" || id.Section != focus {
		w.log.Debug("seat click outside focus", "seat", id.String(), "focus", focus)
		return false
	}
	return w.ToggleSeat(id)
}

// ToggleSeat applies the seat policy to id.
func (w *Widget) ToggleSeat(id venue.SeatID) bool {
	if !w.seats.Toggle(id) {
		w.log.Debug("seat not toggled", "seat", id.String())
		return false
	}
	if w.autoSelectTicket && w.seats.Contains(id) && w.ticketSel.Len() == 0 {
		for _, ticket := range w.AvailableTicketsForFocus() {
			if w.ticketSel.Toggle(ticket.ID) {
				break
			}
		}
	}
	w.log.Debug("seat toggled", "seat", id.String(), "selected", w.seats.Len())
	return w.commit(true)
}

func (w *Widget) ToggleTicket(id string) bool {
	if !w.ticketSel.Toggle(id) {
		w.log.Debug("ticket not toggled", "ticket", id)
		return false
	}
	return w.commit(true)
}

// Clear empties both selections, as after a finished purchase.
func (w *Widget) Clear() bool {
	return w.commit(w.clearSelections())
}

func (w *Widget) Resize(viewport Viewport) bool {
	if viewport.Width <= 0 || viewport.Height <= 0 || viewport == w.viewport {
		return false
	}
	w.viewport = viewport
	return w.commit(true)
}

// Load swaps the layout. A different event starts over; the same event keeps
// the view and drops selections that no longer resolve.
func (w *Widget) Load(layout *venue.Layout, tickets []venue.Ticket) bool {
	previous := w.layout.EventID
	w.setData(layout, tickets)
	if w.layout.EventID != previous {
		w.ctrl.Reset()
		w.clearSelections()
		return w.commit(true)
	}
	dropped := w.seats.Retain(w.layout.Has)
	dropped += w.ticketSel.Retain(func(id string) bool {
		_, ok := w.ticketIndex[id]
		return ok
	})
	if focus := w.ctrl.State().Focus; focus != "" {
		if _, ok := w.layout.Section(focus); !ok {
			w.ctrl.Reset()
			w.clearSelections()
		}
	}
	if dropped > 0 {
		w.log.Debug("dropped stale selections", "count", dropped)
	}
	return w.commit(true)
}

// Reset returns to overview with nothing selected.
func (w *Widget) Reset() bool {
	w.ctrl.Reset()
	w.clearSelections()
	return w.commit(true)
}

// AvailableTicketsForFocus lists the tickets of the focused section, or all
// tickets in overview.
func (w *Widget) AvailableTicketsForFocus() []venue.Ticket {
	focus := w.ctrl.State().Focus
	if focus == "" {
		return append([]venue.Ticket(nil), w.tickets...)
	}
	var out []venue.Ticket
	for _, ticket := range w.tickets {
		if ticket.SectionID == focus {
			out = append(out, ticket)
		}
	}
	return out
}

func (w *Widget) SelectedTickets() []venue.Ticket {
	return w.lookupTickets(w.ticketSel.IDs())
}

// SelectedSeats returns the selected seat ids in selection order.
func (w *Widget) SelectedSeats() []venue.SeatID {
	return w.seats.IDs()
}

// CheckoutTickets is what a purchase covers: the tickets of the selected
// seats, or the selected panel ticket when no seat is selected.
func (w *Widget) CheckoutTickets() []venue.Ticket {
	if w.seats.Len() == 0 {
		return w.SelectedTickets()
	}
	ids := make([]string, 0, w.seats.Len())
	for _, seat := range w.seats.IDs() {
		ids = append(ids, venue.TicketID(w.layout.EventID, seat))
	}
	return w.lookupTickets(ids)
}

// PlacedSeats returns the renderable seats under the current view.
func (w *Widget) PlacedSeats() []PlacedSeat {
	return w.mapper.Seats(w.layout, w.ctrl.State(), w.viewport)
}

func (w *Widget) Presentation() Presentation {
	return w.cfg.Present(w.ctrl.State().Zoom)
}

func (w *Widget) lookupTickets(ids []string) []venue.Ticket {
	out := make([]venue.Ticket, 0, len(ids))
	for _, id := range ids {
		if i, ok := w.ticketIndex[id]; ok {
			out = append(out, w.tickets[i])
		}
	}
	return out
}

func (w *Widget) setData(layout *venue.Layout, tickets []venue.Ticket) {
	if layout == nil {
		layout = venue.NewLayout("", nil)
	}
	w.layout = layout
	w.tickets = tickets
	w.ticketIndex = make(map[string]int, len(tickets))
	for i, ticket := range tickets {
		w.ticketIndex[ticket.ID] = i
	}
}

func (w *Widget) seatAdmitted(id venue.SeatID) bool {
	seat, ok := w.layout.Seat(id)
	return ok && seat.Available
}

func (w *Widget) ticketAdmitted(id string) bool {
	i, ok := w.ticketIndex[id]
	return ok && w.tickets[i].Available
}

func (w *Widget) clearSelections() bool {
	seats := w.seats.Clear()
	tickets := w.ticketSel.Clear()
	return seats || tickets
}

func (w *Widget) commit(changed bool) bool {
	if !changed {
		return false
	}
	snapshot := w.Snapshot()
	for _, l := range slices.Clone(w.listeners) {
		l.fn(snapshot)
	}
	return true
}
