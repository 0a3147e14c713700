package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"seatmap-cli/checkout"
	"seatmap-cli/seatmap"
	"seatmap-cli/venue"
)

const (
	panelWidth   = 36
	panStepX     = 4
	panStepY     = 2
	dragDeadZone = 1
	cursorMargin = 2
)

// terminalConfig keeps the zoom settings and swaps the geometry for terminal
// cells: a seat is two cells wide and rows are two lines apart at the
// default threshold.
func terminalConfig(base seatmap.Config) seatmap.Config {
	base.SidePanelWidth = panelWidth
	base.RowSpacing = 2.0 / 3
	base.SeatSpacing = 1
	base.SeatHit = 0.5
	base.SectionHitX = 3
	base.SectionHitY = 1
	return base
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Toggle   key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding
	PanUp    key.Binding
	PanDown  key.Binding
	Panel    key.Binding
	Clear    key.Binding
	Checkout key.Binding
	Renderer key.Binding
	Help     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus/toggle")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle seat")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		PanLeft:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "pan left")),
		PanRight: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "pan right")),
		PanUp:    key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "pan up")),
		PanDown:  key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "pan down")),
		Panel:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "tickets")),
		Clear:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		Checkout: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "checkout")),
		Renderer: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "stage/grid")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Toggle, k.ZoomIn, k.ZoomOut, k.Panel, k.Checkout, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Toggle, k.Clear},
		{k.ZoomIn, k.ZoomOut, k.PanLeft, k.PanRight, k.PanUp, k.PanDown},
		{k.Panel, k.Checkout, k.Renderer, k.Help},
	}
}

// cursor is the keyboard position: a section index in overview, a row and
// seat index inside the focused section.
type cursor struct {
	section int
	row     int
	seat    int
}

type mouseState struct {
	pressed  bool
	dragging bool
	start    seatmap.Point
}

func (m appModel) handleSeatMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.panelFocused {
		return m.handlePanelKey(msg)
	}
	state := m.widget.State()
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Panel):
		m.panelFocused = true
	case key.Matches(msg, m.keys.Renderer):
		if m.renderer.Name() == "grid" {
			m.renderer = newRenderer("stage")
		} else {
			m.renderer = newRenderer("grid")
		}
		m.mouse = mouseState{}
	case key.Matches(msg, m.keys.Checkout):
		return m.checkout()
	case key.Matches(msg, m.keys.Clear):
		m.widget.Apply(seatmap.Cleared{})
	case key.Matches(msg, m.keys.ZoomIn):
		m.widget.Apply(seatmap.ZoomInPressed{})
	case key.Matches(msg, m.keys.ZoomOut):
		m.widget.Apply(seatmap.ZoomOutPressed{})
	case key.Matches(msg, m.keys.PanLeft):
		m.widget.Pan(seatmap.Point{X: panStepX})
	case key.Matches(msg, m.keys.PanRight):
		m.widget.Pan(seatmap.Point{X: -panStepX})
	case key.Matches(msg, m.keys.PanUp):
		m.widget.Pan(seatmap.Point{Y: panStepY})
	case key.Matches(msg, m.keys.PanDown):
		m.widget.Pan(seatmap.Point{Y: -panStepY})
	case state.Focus == "" || !m.widget.Presentation().ShowSeats:
		m.handleSectionKey(msg)
	default:
		m.handleSeatKey(msg)
	}
	m.syncSeatMap()
	return m, nil, true
}

// handleSectionKey moves between section boxes and focuses one.
func (m *appModel) handleSectionKey(msg tea.KeyMsg) {
	sections := m.widget.Layout().Sections
	if len(sections) == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Left, m.keys.Up):
		m.cursor.section = (m.cursor.section - 1 + len(sections)) % len(sections)
	case key.Matches(msg, m.keys.Right, m.keys.Down):
		m.cursor.section = (m.cursor.section + 1) % len(sections)
	case key.Matches(msg, m.keys.Select, m.keys.Toggle):
		section := sections[min(m.cursor.section, len(sections)-1)]
		m.widget.Apply(seatmap.SectionSelected{SectionID: section.ID})
	}
}

func (m *appModel) handleSeatKey(msg tea.KeyMsg) {
	section, ok := m.widget.Layout().Section(m.widget.State().Focus)
	if !ok || len(section.Rows) == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor.row--
	case key.Matches(msg, m.keys.Down):
		m.cursor.row++
	case key.Matches(msg, m.keys.Left):
		m.cursor.seat--
	case key.Matches(msg, m.keys.Right):
		m.cursor.seat++
	case key.Matches(msg, m.keys.Select, m.keys.Toggle):
		if id, ok := m.cursorSeat(); ok {
			m.widget.Apply(seatmap.SeatClicked{Seat: id})
		}
		return
	default:
		return
	}
	m.clampCursor(section)
	m.followCursor()
}

func (m appModel) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Panel):
		m.panelFocused = false
	case key.Matches(msg, m.keys.Select):
		if item, ok := m.ticketList.SelectedItem().(ticketItem); ok {
			m.widget.Apply(seatmap.TicketToggled{TicketID: item.ticket.ID})
		}
	case key.Matches(msg, m.keys.ZoomIn):
		m.quantity = min(m.quantity+1, m.cfg.MaxQuantity)
	case key.Matches(msg, m.keys.ZoomOut):
		m.quantity = max(m.quantity-1, 1)
	case key.Matches(msg, m.keys.Checkout):
		return m.checkout()
	default:
		return m, nil, false
	}
	m.syncSeatMap()
	return m, nil, true
}

func (m appModel) checkout() (tea.Model, tea.Cmd, bool) {
	record, err := checkout.NewRecord(m.widget.Layout().EventID, m.widget.CheckoutTickets(), m.quantity)
	if err != nil {
		return m, errWithStateCmd(err, stateShowSeatMap), true
	}
	m.log.WithEvent(record.EventID).Info("checkout started", "tickets", len(record.TicketIDs), "quantity", record.Quantity)
	return m, m.savePendingCmd(record), true
}

// handleMouse maps clicks, drags and the wheel onto the widget. A press only
// becomes a drag once the pointer leaves the dead zone; otherwise the release
// is a click.
func (m *appModel) handleMouse(msg tea.MouseMsg) {
	defer m.syncSeatMap()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress {
			m.widget.Apply(seatmap.ZoomInPressed{})
		}
		return
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress {
			m.widget.Apply(seatmap.ZoomOutPressed{})
		}
		return
	}
	if !m.renderer.Clickable() {
		return
	}

	p, inside := m.stagePoint(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		m.mouse = mouseState{pressed: true, start: p}
	case tea.MouseActionMotion:
		if !m.mouse.pressed {
			return
		}
		if !inside {
			if m.mouse.dragging {
				m.widget.Apply(seatmap.DragCanceled{})
			}
			m.mouse = mouseState{}
			return
		}
		if !m.mouse.dragging {
			if math.Abs(p.X-m.mouse.start.X) <= dragDeadZone && math.Abs(p.Y-m.mouse.start.Y) <= dragDeadZone {
				return
			}
			m.mouse.dragging = m.widget.Apply(seatmap.DragStarted{At: m.mouse.start})
			if !m.mouse.dragging {
				return
			}
		}
		m.widget.Apply(seatmap.DragMoved{At: p})
	case tea.MouseActionRelease:
		wasPressed, wasDragging := m.mouse.pressed, m.mouse.dragging
		m.mouse = mouseState{}
		switch {
		case wasDragging:
			m.widget.Apply(seatmap.DragEnded{})
		case wasPressed && inside:
			m.widget.Apply(seatmap.PointClicked{At: p})
		default:
			// a release always ends whatever drag the widget thinks is live
			m.widget.Apply(seatmap.DragEnded{})
		}
	}
}

// stagePoint converts a terminal cell into stage coordinates.
func (m appModel) stagePoint(x, y int) (seatmap.Point, bool) {
	top := m.stageTop()
	stage := m.widget.Mapper().Stage(m.widget.Viewport())
	p := seatmap.Point{X: float64(x), Y: float64(y - top)}
	inside := p.X >= 0 && p.Y >= 0 && p.X < stage.Width && p.Y < stage.Height
	return p, inside
}

// stageTop is the first terminal line of the stage on the seat map screen.
func (m appModel) stageTop() int {
	m.state = stateShowSeatMap
	return lipgloss.Height(m.headerView()) + 1
}

func (m *appModel) resizeSeatMap() {
	if m.width == 0 || m.height == 0 {
		return
	}
	stageHeight := max(m.height-m.stageTop()-2, 5)
	m.widget.Resize(seatmap.Viewport{Width: float64(m.width), Height: float64(stageHeight)})
	m.ticketList.SetSize(panelWidth-2, max(stageHeight-6, 4))
}

// syncSeatMap brings the cursor and the ticket panel in line with the widget
// after any input.
func (m *appModel) syncSeatMap() {
	layout := m.widget.Layout()
	focus := m.widget.State().Focus
	if focus != m.cursorFocus {
		for i, section := range layout.Sections {
			if section.ID == focus || (focus == "" && section.ID == m.cursorFocus) {
				m.cursor.section = i
			}
		}
		m.cursor.row, m.cursor.seat = 0, 0
		if section, ok := layout.Section(focus); ok {
			m.cursor.row, m.cursor.seat = firstAvailable(section)
		}
		m.cursorFocus = focus
	}
	if len(layout.Sections) > 0 {
		m.cursor.section = min(max(m.cursor.section, 0), len(layout.Sections)-1)
	}
	m.refreshTicketList()
}

func (m *appModel) clampCursor(section venue.Section) {
	m.cursor.row = min(max(m.cursor.row, 0), len(section.Rows)-1)
	seats := len(section.Rows[m.cursor.row].Seats)
	m.cursor.seat = min(max(m.cursor.seat, 0), max(seats-1, 0))
}

// followCursor pans so the cursor seat stays on the stage.
func (m *appModel) followCursor() {
	id, ok := m.cursorSeat()
	if !ok {
		return
	}
	mapper := m.widget.Mapper()
	pos, ok := mapper.SeatPosition(m.widget.Layout(), id, m.widget.State(), m.widget.Viewport())
	if !ok {
		return
	}
	stage := mapper.Stage(m.widget.Viewport())
	var delta seatmap.Point
	switch {
	case pos.X < cursorMargin:
		delta.X = cursorMargin - pos.X
	case pos.X > stage.Width-cursorMargin:
		delta.X = stage.Width - cursorMargin - pos.X
	}
	switch {
	case pos.Y < 0:
		delta.Y = -pos.Y
	case pos.Y > stage.Height-1:
		delta.Y = stage.Height - 1 - pos.Y
	}
	if delta != (seatmap.Point{}) {
		m.widget.Pan(delta)
	}
}

func (m appModel) cursorSeat() (venue.SeatID, bool) {
	section, ok := m.widget.Layout().Section(m.widget.State().Focus)
	if !ok || m.cursor.row < 0 || m.cursor.row >= len(section.Rows) {
		return venue.SeatID{}, false
	}
	row := section.Rows[m.cursor.row]
	if m.cursor.seat < 0 || m.cursor.seat >= len(row.Seats) {
		return venue.SeatID{}, false
	}
	return venue.SeatID{Section: section.ID, Row: row.Label, Seat: row.Seats[m.cursor.seat].Label}, true
}

func firstAvailable(section venue.Section) (int, int) {
	for ri, row := range section.Rows {
		for si, seat := range row.Seats {
			if seat.Available {
				return ri, si
			}
		}
	}
	return 0, 0
}

func (m *appModel) refreshTicketList() {
	selected := map[string]bool{}
	for _, id := range m.widget.Snapshot().TicketIDs {
		selected[id] = true
	}
	tickets := m.widget.AvailableTicketsForFocus()
	items := make([]list.Item, 0, len(tickets))
	for _, ticket := range tickets {
		items = append(items, ticketItem{ticket: ticket, selected: selected[ticket.ID]})
	}
	index := m.ticketList.Index()
	m.ticketList.SetItems(items)
	if index < len(items) {
		m.ticketList.Select(index)
	}
}

func (m appModel) frame() Frame {
	snapshot := m.widget.Snapshot()
	stage := m.widget.Mapper().Stage(snapshot.Viewport)
	return Frame{
		Layout:       m.widget.Layout(),
		Snapshot:     snapshot,
		Presentation: m.widget.Presentation(),
		Mapper:       m.widget.Mapper(),
		Seats:        m.widget.PlacedSeats(),
		Cursor:       m.cursor,
		Width:        int(stage.Width),
		Height:       int(stage.Height),
	}
}

func (m appModel) seatMapView() string {
	f := m.frame()
	stage := lipgloss.NewStyle().Width(f.Width).MaxHeight(f.Height).Render(m.renderer.Render(f))
	body := stage
	if int(f.Snapshot.Viewport.Width) >= f.Width+panelWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, stage, m.panelView())
	}
	return body + "\n" + m.help.View(m.keys)
}

func (m appModel) panelView() string {
	var b strings.Builder
	b.WriteString(m.ticketList.View())
	b.WriteString("\n\n")

	seats := m.widget.SelectedSeats()
	labels := make([]string, 0, len(seats))
	for _, seat := range seats {
		labels = append(labels, seat.Row+seat.Seat)
	}
	if len(labels) > 0 {
		b.WriteString(fmt.Sprintf("Seats: %s\n", strings.Join(labels, ", ")))
	}
	b.WriteString(fmt.Sprintf("Quantity: %d\n", m.quantity))
	total := 0.0
	if record, err := checkout.NewRecord(m.widget.Layout().EventID, m.widget.CheckoutTickets(), m.quantity); err == nil {
		total = record.Total()
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Total: " + formatPrice(total)))

	border := lipgloss.Color("8")
	if m.panelFocused {
		border = lipgloss.Color("63")
	}
	return lipgloss.NewStyle().
		Width(panelWidth-2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(b.String())
}

type ticketItem struct {
	ticket   venue.Ticket
	selected bool
}

func (t ticketItem) Title() string {
	mark := "[ ]"
	if t.selected {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s • %s%s", mark, t.ticket.Section, t.ticket.Row, t.ticket.Seat)
}

func (t ticketItem) Description() string {
	if !t.ticket.Available {
		return "Sold"
	}
	return formatPrice(t.ticket.Price)
}

func (t ticketItem) FilterValue() string {
	return strings.ToLower(t.ticket.ID)
}
