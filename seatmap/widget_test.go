package seatmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatmap-cli/venue"
)

func newScenarioWidget(opts ...Option) *Widget {
	layout := scenarioLayout()
	return New(DefaultConfig(), layout, venue.Tickets(layout), opts...)
}

func TestWidgetScenario(t *testing.T) {
	w := newScenarioWidget()

	require.True(t, w.Apply(SectionSelected{SectionID: "sec-1"}))
	snap := w.Snapshot()
	assert.Equal(t, Detail, snap.Mode)
	assert.Equal(t, "sec-1", snap.View.Focus)

	require.True(t, w.Apply(SeatClicked{Seat: seatA1}))
	assert.Equal(t, []venue.SeatID{seatA1}, w.Snapshot().Seats)
	assert.Equal(t, "sec-1-A-1", w.Snapshot().Seats[0].String())

	assert.False(t, w.Apply(SeatClicked{Seat: seatA2}))
	assert.Equal(t, []venue.SeatID{seatA1}, w.Snapshot().Seats)

	require.True(t, w.ToggleSeat(seatA1))
	assert.Empty(t, w.Snapshot().Seats)
}

func TestWidgetFocusChangeClears(t *testing.T) {
	layout := raggedLayout()
	w := New(DefaultConfig(), layout, venue.Tickets(layout))
	w.SelectSection("upper")

	upper, _ := layout.Section("upper")
	id := venue.SeatID{Section: "upper", Row: upper.Rows[0].Label, Seat: upper.Rows[0].Seats[0].Label}
	require.True(t, w.ClickSeat(id))
	require.True(t, w.ToggleTicket(venue.TicketID(layout.EventID, id)))

	assert.False(t, w.SelectSection("upper"), "same section, nothing to do")
	assert.Len(t, w.SelectedSeats(), 1)

	require.True(t, w.SelectSection("floor-a"))
	assert.Empty(t, w.SelectedSeats())
	assert.Empty(t, w.SelectedTickets())
}

func TestWidgetZoomOutToOverviewClears(t *testing.T) {
	w := newScenarioWidget()
	w.SelectSection("sec-1")
	w.ClickSeat(seatA1)

	for w.Snapshot().Mode == Detail {
		require.True(t, w.Apply(ZoomOutPressed{}))
	}
	snap := w.Snapshot()
	assert.Equal(t, ViewState{Zoom: 1}, snap.View)
	assert.Empty(t, snap.Seats)
	assert.False(t, w.ZoomOut())
}

func TestWidgetStaleInputIsIgnored(t *testing.T) {
	w := newScenarioWidget()
	calls := 0
	w.Subscribe(func(Snapshot) { calls++ })

	assert.False(t, w.SelectSection("nope"))
	assert.False(t, w.ClickSeat(seatA1), "not focused yet")
	assert.False(t, w.ToggleTicket("ticket-missing"))
	assert.False(t, w.Apply(nil))
	assert.False(t, w.DragMove(Point{X: 4}))
	assert.Equal(t, 0, calls)

	w.SelectSection("sec-1")
	assert.False(t, w.ClickSeat(venue.SeatID{Section: "other", Row: "A", Seat: "1"}))
	assert.False(t, w.ClickSeat(venue.SeatID{Section: "sec-1", Row: "Z", Seat: "9"}))
	assert.Equal(t, 1, calls)
}

func TestWidgetClickAt(t *testing.T) {
	w := newScenarioWidget(WithViewport(testViewport))
	m := w.Mapper()

	require.True(t, w.Apply(PointClicked{At: Point{X: 448, Y: 400}}))
	require.Equal(t, "sec-1", w.State().Focus)

	pos, ok := m.SeatPosition(w.Layout(), seatA1, w.State(), w.Viewport())
	require.True(t, ok)
	require.True(t, w.ClickAt(pos))
	assert.Equal(t, []venue.SeatID{seatA1}, w.SelectedSeats())

	pos, _ = m.SeatPosition(w.Layout(), seatA2, w.State(), w.Viewport())
	assert.False(t, w.ClickAt(pos), "reserved seat resolves but is not selected")

	assert.False(t, w.ClickAt(Point{X: 5, Y: 5}))
}

func TestWidgetDragEvents(t *testing.T) {
	w := newScenarioWidget(WithViewport(testViewport))
	w.SelectSection("sec-1")

	require.True(t, w.Apply(DragStarted{At: Point{X: 10, Y: 10}}))
	assert.True(t, w.Snapshot().Dragging)
	require.True(t, w.Apply(DragMoved{At: Point{X: 0, Y: 30}}))
	assert.Equal(t, Point{X: -906, Y: 20}, w.State().Pan)
	require.True(t, w.Apply(DragCanceled{}))
	assert.False(t, w.Snapshot().Dragging)
	assert.False(t, w.Apply(DragEnded{}))
}

func TestWidgetAutoSelectTicket(t *testing.T) {
	w := newScenarioWidget(WithAutoSelectTicket(true))
	w.SelectSection("sec-1")
	w.ClickSeat(seatA1)

	tickets := w.SelectedTickets()
	require.Len(t, tickets, 1)
	assert.Equal(t, "ticket-event-1-sec-1-A-1", tickets[0].ID)

	plain := newScenarioWidget()
	plain.SelectSection("sec-1")
	plain.ClickSeat(seatA1)
	assert.Empty(t, plain.SelectedTickets())
}

func TestWidgetSingleSeatPolicy(t *testing.T) {
	layout := raggedLayout()
	w := New(DefaultConfig(), layout, nil, WithSeatPolicy(Single))
	w.SelectSection("upper")

	upper, _ := layout.Section("upper")
	first := venue.SeatID{Section: "upper", Row: upper.Rows[0].Label, Seat: upper.Rows[0].Seats[0].Label}
	second := venue.SeatID{Section: "upper", Row: upper.Rows[0].Label, Seat: upper.Rows[0].Seats[1].Label}
	w.ClickSeat(first)
	w.ClickSeat(second)
	assert.Equal(t, []venue.SeatID{second}, w.SelectedSeats())
}

func TestWidgetAvailableTicketsForFocus(t *testing.T) {
	layout := raggedLayout()
	tickets := venue.Tickets(layout)
	w := New(DefaultConfig(), layout, tickets)

	assert.Len(t, w.AvailableTicketsForFocus(), len(tickets))

	w.SelectSection("upper")
	got := w.AvailableTicketsForFocus()
	require.Len(t, got, 6)
	for _, ticket := range got {
		assert.Equal(t, "upper", ticket.SectionID)
	}
}

func TestWidgetCheckoutTickets(t *testing.T) {
	w := newScenarioWidget()
	w.SelectSection("sec-1")
	assert.Empty(t, w.CheckoutTickets())

	w.ToggleTicket("ticket-event-1-sec-1-A-1")
	require.Len(t, w.CheckoutTickets(), 1)

	w.ClickSeat(seatA1)
	tickets := w.CheckoutTickets()
	require.Len(t, tickets, 1)
	assert.Equal(t, 100.0, tickets[0].Price)

	require.True(t, w.Clear())
	assert.Empty(t, w.CheckoutTickets())
}

func TestWidgetLoad(t *testing.T) {
	layout := raggedLayout()
	w := New(DefaultConfig(), layout, venue.Tickets(layout))
	w.SelectSection("floor-a")
	floor, _ := layout.Section("floor-a")

	var seat venue.SeatID
	for _, row := range floor.Rows {
		for _, s := range row.Seats {
			if s.Available && seat.IsZero() {
				seat = venue.SeatID{Section: "floor-a", Row: row.Label, Seat: s.Label}
			}
		}
	}
	require.True(t, w.ClickSeat(seat))

	// same event, seat still present
	w.Load(venue.NewLayout(layout.EventID, layout.Sections), venue.Tickets(layout))
	assert.Equal(t, "floor-a", w.State().Focus)
	assert.Equal(t, []venue.SeatID{seat}, w.SelectedSeats())

	// same event, focused section removed
	upper, _ := layout.Section("upper")
	w.Load(venue.NewLayout(layout.EventID, []venue.Section{upper}), nil)
	assert.Equal(t, Overview, w.Snapshot().Mode)
	assert.Empty(t, w.SelectedSeats())

	// another event starts over
	w.SelectSection("upper")
	other := scenarioLayout()
	require.True(t, w.Load(other, venue.Tickets(other)))
	assert.Equal(t, ViewState{Zoom: 1}, w.State())
	assert.Equal(t, "event-1", w.Snapshot().EventID)

	w.Load(nil, nil)
	assert.Equal(t, 0, w.Layout().Len())
}

func TestWidgetSubscribe(t *testing.T) {
	w := newScenarioWidget()
	var seen []Snapshot
	unsubscribe := w.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	w.SelectSection("sec-1")
	w.ClickSeat(seatA1)
	require.Len(t, seen, 2)
	assert.Equal(t, []venue.SeatID{seatA1}, seen[1].Seats)

	unsubscribe()
	w.Reset()
	assert.Len(t, seen, 2)
	assert.Equal(t, Overview, w.Snapshot().Mode)
}

func TestWidgetUnsubscribeRemovesListener(t *testing.T) {
	w := newScenarioWidget()
	var first, second int
	for range 50 {
		w.Subscribe(func(Snapshot) {})()
	}
	assert.Empty(t, w.listeners)

	stopFirst := w.Subscribe(func(Snapshot) { first++ })
	w.Subscribe(func(Snapshot) { second++ })
	stopFirst()
	stopFirst()
	w.SelectSection("sec-1")

	assert.Len(t, w.listeners, 1)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestSnapshotModeAsText(t *testing.T) {
	w := newScenarioWidget()
	w.SelectSection("sec-1")

	data, err := json.Marshal(w.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mode":"detail"`)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Detail, decoded.Mode)

	var mode Mode
	assert.Error(t, mode.UnmarshalText([]byte("zoomed")))
}

func TestWidgetResize(t *testing.T) {
	w := newScenarioWidget()
	assert.Equal(t, DefaultViewport, w.Viewport())
	assert.False(t, w.Resize(Viewport{}))
	assert.True(t, w.Resize(Viewport{Width: 200, Height: 60}))
	assert.False(t, w.Resize(Viewport{Width: 200, Height: 60}))
}
