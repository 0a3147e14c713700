package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"seatmap-cli/catalog"
	"seatmap-cli/checkout"
	"seatmap-cli/config"
	"seatmap-cli/logger"
	"seatmap-cli/seatmap"
	"seatmap-cli/store"
	"seatmap-cli/venue"
)

type appState int

const (
	stateLoadingEvents appState = iota
	stateSelectEvent
	stateLoadingSeatMap
	stateShowSeatMap
	stateReview
	stateReceipt
	stateError
)

const fetchTimeout = 10 * time.Second

// Options configures New. Zero values fall back to defaults.
type Options struct {
	Config  *config.Config
	Logger  *logger.Logger
	EventID string
	Now     func() time.Time
}

type appModel struct {
	repo catalog.Repository
	cfg  *config.Config
	log  *logger.Logger
	now  func() time.Time

	startEventID string

	state     appState
	lastState appState
	err       error

	width  int
	height int

	event  catalog.Event
	artist catalog.Artist

	eventList  list.Model
	ticketList list.Model

	widget       *seatmap.Widget
	renderer     Renderer
	cursor       cursor
	cursorFocus  string
	panelFocused bool
	quantity     int
	mouse        mouseState

	record  checkout.Record
	receipt checkout.Receipt

	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type eventsMsg struct {
	events  []catalog.Event
	recents []store.RecentEvent
	err     error
}

type seatMapMsg struct {
	event   catalog.Event
	artist  catalog.Artist
	layout  *venue.Layout
	tickets []venue.Ticket
	err     error
}

type pendingMsg struct {
	record checkout.Record
	err    error
}

type receiptMsg struct {
	receipt checkout.Receipt
	err     error
	// saveErr is set when the purchase was confirmed but not recorded.
	saveErr error
}

func New(repo catalog.Repository, opts Options) tea.Model {
	if opts.Config == nil {
		opts.Config = config.Load()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger.WithComponent("tui")

	m := appModel{
		repo:         repo,
		cfg:          opts.Config,
		log:          log,
		now:          opts.Now,
		startEventID: strings.TrimSpace(opts.EventID),
		state:        stateLoadingEvents,
		renderer:     newRenderer(opts.Config.Renderer),
		quantity:     1,
		keys:         newKeyMap(),
		help:         help.New(),
	}

	m.eventList = newList("Select Event")
	m.ticketList = newList("Tickets")
	m.ticketList.SetFilteringEnabled(false)
	m.ticketList.SetShowFilter(false)

	m.widget = seatmap.New(terminalConfig(opts.Config.SeatMap), nil, nil,
		seatmap.WithLogger(log.Logger),
		seatmap.WithSeatPolicy(opts.Config.SeatPolicy()),
		seatmap.WithAutoSelectTicket(opts.Config.AutoSelectTicket),
		seatmap.WithViewport(seatmap.Viewport{Width: 80, Height: 20}),
	)
	m.widget.Subscribe(func(s seatmap.Snapshot) {
		log.Debug("seat map changed",
			"mode", s.Mode.String(),
			"zoom", s.View.Zoom,
			"focus", s.View.Focus,
			"seats", len(s.Seats),
			"tickets", len(s.TicketIDs),
		)
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchEventsCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		m.resizeSeatMap()
		return m, nil

	case tea.KeyMsg:
		if m.handleFilterInput(msg) {
			return m, nil
		}
		var handled bool
		m, cmd, handled := m.handleKey(msg)
		if handled {
			return m, cmd
		}
		// fallthrough to component update

	case tea.MouseMsg:
		if m.state == stateShowSeatMap {
			m.handleMouse(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.log.WithError(msg.err).Warn("showing error")
		m.state = stateError
		return m, nil

	case eventsMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.eventList.SetItems(buildEventItems(msg.events, msg.recents))
		m.state = stateSelectEvent
		if id := m.startEventID; id != "" {
			m.startEventID = ""
			return m.openEvent(id)
		}
		return m, nil

	case seatMapMsg:
		if msg.err != nil {
			return m, errWithStateCmd(msg.err, stateSelectEvent)
		}
		m.event = msg.event
		m.artist = msg.artist
		if err := store.RememberEvent(m.event.ID, m.event.Title); err != nil {
			m.log.WithEvent(m.event.ID).WithError(err).Warn("remember event")
		}
		m.widget.Load(msg.layout, msg.tickets)
		m.cursor = cursor{}
		m.cursorFocus = ""
		m.panelFocused = false
		m.quantity = 1
		m.mouse = mouseState{}
		m.state = stateShowSeatMap
		m.resizeSeatMap()
		m.syncSeatMap()
		m.log.WithEvent(m.event.ID).Info("seat map loaded", "sections", len(m.widget.Layout().Sections), "tickets", len(msg.tickets))
		return m, nil

	case pendingMsg:
		if msg.err != nil {
			return m, errWithStateCmd(msg.err, stateShowSeatMap)
		}
		m.record = msg.record
		m.state = stateReview
		return m, nil

	case receiptMsg:
		if msg.err != nil {
			return m, errWithStateCmd(msg.err, stateShowSeatMap)
		}
		m.receipt = msg.receipt
		if msg.saveErr != nil {
			m.log.WithEvent(m.receipt.EventID).WithError(msg.saveErr).Error("record purchase", "purchase_id", m.receipt.PurchaseID)
		}
		m.widget.Clear()
		m.quantity = 1
		m.syncSeatMap()
		m.log.WithEvent(m.receipt.EventID).Info("purchase confirmed",
			"purchase_id", m.receipt.PurchaseID,
			"tickets", len(m.receipt.Record.TicketIDs),
			"total", m.receipt.Total,
		)
		m.state = stateReceipt
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectEvent:
		m.eventList, cmd = m.eventList.Update(msg)
	case stateShowSeatMap:
		if m.panelFocused {
			m.ticketList, cmd = m.ticketList.Update(msg)
		}
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoadingEvents, stateLoadingSeatMap:
		return header + "\n\n" + m.loadingView()
	case stateSelectEvent:
		return header + "\n\n" + m.eventList.View()
	case stateShowSeatMap:
		return header + "\n\n" + m.seatMapView()
	case stateReview:
		return header + "\n\n" + m.reviewView()
	case stateReceipt:
		return header + "\n\n" + m.receiptView()
	case stateError:
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Seat Map")
	sub := []string{}
	if m.state != stateSelectEvent && m.event.Title != "" {
		sub = append(sub, fmt.Sprintf("Event: %s", m.event.Title))
		if m.artist.Name != "" {
			sub = append(sub, fmt.Sprintf("Artist: %s", m.artist.Name))
		}
		if m.event.Venue.Name != "" {
			sub = append(sub, fmt.Sprintf("Venue: %s", m.event.Venue.Name))
		}
		if !m.event.Date.IsZero() {
			sub = append(sub, fmt.Sprintf("Date: %s", m.event.Date.Format("2006-01-02 15:04")))
		}
	}
	if m.state == stateShowSeatMap {
		state := m.widget.State()
		if section, ok := m.widget.Layout().Section(state.Focus); ok {
			sub = append(sub, fmt.Sprintf("Section: %s", section.Name))
		}
		sub = append(sub, fmt.Sprintf("Zoom: %.1fx", state.Zoom))
		sub = append(sub, fmt.Sprintf("View: %s", m.renderer.Name()))
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}
	hints := "ctrl+c quit • esc back • type to filter • enter open seat map"
	switch m.state {
	case stateShowSeatMap:
		hints = "ctrl+c quit • esc back • ? more keys"
		if m.panelFocused {
			hints = "ctrl+c quit • esc/tab back to map • enter toggle ticket • +/- quantity • c checkout"
		}
	case stateReview:
		hints = "ctrl+c quit • esc back • enter confirm purchase"
	case stateReceipt:
		hints = "ctrl+c quit • enter back to seat map"
	case stateError:
		hints = "ctrl+c quit • esc back"
	}
	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	header := title + meta + filterLine + "\n" + hint(hints)
	if m.width > 0 {
		header = lipgloss.NewStyle().MaxWidth(m.width).Render(header)
	}
	return header
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		model, cmd := m.goBack()
		return model, cmd, true
	case "enter":
		switch m.state {
		case stateSelectEvent:
			item, ok := m.eventList.SelectedItem().(eventItem)
			if !ok {
				return m, nil, true
			}
			return m.openEvent(item.event.ID)
		case stateReview:
			return m, m.confirmCmd(), true
		case stateReceipt:
			m.state = stateShowSeatMap
			return m, nil, true
		}
	}
	if m.state == stateShowSeatMap {
		return m.handleSeatMapKey(msg)
	}
	return m, nil, false
}

func (m appModel) openEvent(id string) (tea.Model, tea.Cmd, bool) {
	m.state = stateLoadingSeatMap
	return m, tea.Batch(m.fetchSeatMapCmd(id), m.spinner.Tick), true
}

func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateShowSeatMap:
		if m.panelFocused {
			m.panelFocused = false
			return m, nil
		}
		if m.widget.State().Focus != "" {
			m.widget.Reset()
			m.syncSeatMap()
			return m, nil
		}
		m.state = stateSelectEvent
	case stateReview:
		if err := store.DiscardPending(); err != nil {
			m.log.WithError(err).Warn("discard pending purchase")
		}
		m.state = stateShowSeatMap
	case stateReceipt:
		m.state = stateShowSeatMap
	case stateError:
		m.state = m.lastState
	default:
		return m, nil
	}
	return m, nil
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectEvent:
		return &m.eventList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingEvents || m.state == stateLoadingSeatMap
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingEvents:
		title = "Loading events"
	case stateLoadingSeatMap:
		title = "Loading seat map"
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.eventList.SetSize(m.width, h)
	m.help.Width = m.width
}

func (m appModel) reviewView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Review purchase"))
	b.WriteString("\n\n")
	for _, item := range m.record.Tickets {
		b.WriteString(fmt.Sprintf("  %s • Row %s • Seat %s  %s\n", item.Section, item.Row, item.Seat, formatPrice(item.Price)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Quantity: %d\n", m.record.Quantity))
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("  Total: %s", formatPrice(m.record.Total()))))
	b.WriteString("\n\n")
	b.WriteString(hint("Press enter to confirm or esc to go back."))
	return b.String()
}

func (m appModel) receiptView() string {
	chip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("2")).
		Padding(0, 2)
	lines := []string{
		chip.Render("Purchase confirmed"),
		"",
		fmt.Sprintf("Purchase: %s", m.receipt.PurchaseID),
		fmt.Sprintf("Tickets:  %d x %d", len(m.receipt.Record.Tickets), m.receipt.Record.Quantity),
		fmt.Sprintf("Total:    %s", formatPrice(m.receipt.Total)),
		fmt.Sprintf("At:       %s", m.receipt.PurchasedAt.Format(time.DateTime)),
		"",
		hint("Press enter to return to the seat map."),
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("2")).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().Padding(0, 1).Render(panel)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithStateCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err, returnState: returnState, returnStateSet: true}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingEvents, stateLoadingSeatMap:
		return stateSelectEvent
	case stateReview, stateReceipt:
		return stateShowSeatMap
	default:
		return state
	}
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func (m appModel) fetchEventsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		events, err := m.repo.Events(ctx)
		if err != nil {
			return eventsMsg{err: err}
		}
		recents, err := store.LoadRecentEvents()
		if err != nil {
			m.log.WithError(err).Warn("load recent events")
		}
		return eventsMsg{events: events, recents: recents}
	}
}

func (m appModel) fetchSeatMapCmd(eventID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		event, err := m.repo.Event(ctx, eventID)
		if err != nil {
			return seatMapMsg{err: err}
		}
		artist, err := m.repo.Artist(ctx, event.ArtistID)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return seatMapMsg{err: err}
		}
		layout, err := m.repo.Layout(ctx, eventID)
		if err != nil {
			return seatMapMsg{err: err}
		}
		tickets, err := m.repo.Tickets(ctx, eventID)
		if err != nil {
			return seatMapMsg{err: err}
		}
		return seatMapMsg{event: event, artist: artist, layout: layout, tickets: tickets}
	}
}

func (m appModel) savePendingCmd(record checkout.Record) tea.Cmd {
	return func() tea.Msg {
		if err := store.SavePending(record); err != nil {
			return pendingMsg{err: err}
		}
		return pendingMsg{record: record}
	}
}

func (m appModel) confirmCmd() tea.Cmd {
	now := m.now()
	return func() tea.Msg {
		record, ok, err := store.LoadPending()
		if err != nil {
			return receiptMsg{err: err}
		}
		if !ok {
			return receiptMsg{err: errors.New("no pending purchase, select seats again")}
		}
		receipt, err := checkout.Confirm(record, now)
		if err != nil {
			return receiptMsg{err: err}
		}
		return receiptMsg{receipt: receipt, saveErr: store.SavePurchase(receipt)}
	}
}

type eventItem struct {
	event  catalog.Event
	recent bool
}

func (e eventItem) Title() string {
	return e.event.Title
}

func (e eventItem) Description() string {
	parts := []string{}
	if e.recent {
		parts = append(parts, "Recent")
	}
	if !e.event.Date.IsZero() {
		parts = append(parts, e.event.Date.Format(time.DateOnly))
	}
	if e.event.Venue.Name != "" {
		parts = append(parts, e.event.Venue.Name)
	}
	return strings.Join(parts, " • ")
}

func (e eventItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{e.event.Title, e.event.Venue.Name, e.event.Category}, " "))
}

// buildEventItems lists recently opened events first, then the rest in
// catalog order.
func buildEventItems(events []catalog.Event, recents []store.RecentEvent) []list.Item {
	byID := map[string]catalog.Event{}
	for _, event := range events {
		byID[event.ID] = event
	}

	var items []list.Item
	used := map[string]bool{}
	for _, recent := range recents {
		if event, ok := byID[recent.ID]; ok && !used[event.ID] {
			items = append(items, eventItem{event: event, recent: true})
			used[event.ID] = true
		}
	}
	for _, event := range events {
		if !used[event.ID] {
			items = append(items, eventItem{event: event})
		}
	}
	return items
}
