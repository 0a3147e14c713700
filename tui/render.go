package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"seatmap-cli/seatmap"
	"seatmap-cli/venue"
)

// Frame is an immutable snapshot handed to a Renderer.
type Frame struct {
	Layout       *venue.Layout
	Snapshot     seatmap.Snapshot
	Presentation seatmap.Presentation
	Mapper       seatmap.Mapper
	Seats        []seatmap.PlacedSeat
	Cursor       cursor
	Width        int
	Height       int
}

func (f Frame) selected(id venue.SeatID) bool {
	for _, s := range f.Snapshot.Seats {
		if s == id {
			return true
		}
	}
	return false
}

// Renderer draws the stage area of the seat map screen.
type Renderer interface {
	Name() string
	Render(f Frame) string
	// Clickable reports whether screen cells line up with mapper coordinates.
	Clickable() bool
}

func newRenderer(name string) Renderer {
	if name == "grid" {
		return gridRenderer{}
	}
	return stageRenderer{}
}

type paint int

const (
	paintNone paint = iota
	paintFaint
	paintAvailable
	paintLow
	paintSoldOut
	paintReserved
	paintSelected
	paintCursor
	paintFocus
	paintStage
	paintLabel
)

var palette = map[paint]lipgloss.Style{
	paintNone:      lipgloss.NewStyle(),
	paintFaint:     lipgloss.NewStyle().Faint(true),
	paintAvailable: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	paintLow:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	paintSoldOut:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	paintReserved:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	paintSelected:  lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("5")).Bold(true),
	paintCursor:    lipgloss.NewStyle().Reverse(true).Bold(true),
	paintFocus:     lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
	paintStage:     lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Bold(true),
	paintLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
}

func tonePaint(tone venue.Tone) paint {
	switch tone {
	case venue.ToneAvailable:
		return paintAvailable
	case venue.ToneLow:
		return paintLow
	default:
		return paintSoldOut
	}
}

type canvasCell struct {
	r     rune
	paint paint
}

// canvas is a fixed grid of cells; writes outside it are clipped.
type canvas struct {
	width  int
	height int
	cells  [][]canvasCell
}

func newCanvas(width, height int) *canvas {
	width = max(width, 1)
	height = max(height, 1)
	cells := make([][]canvasCell, height)
	for y := range cells {
		cells[y] = make([]canvasCell, width)
		for x := range cells[y] {
			cells[y][x] = canvasCell{r: ' '}
		}
	}
	return &canvas{width: width, height: height, cells: cells}
}

func (c *canvas) put(x, y int, text string, p paint) {
	if y < 0 || y >= c.height {
		return
	}
	for i, r := range []rune(text) {
		cx := x + i
		if cx < 0 || cx >= c.width {
			continue
		}
		c.cells[y][cx] = canvasCell{r: r, paint: p}
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].paint == row[start].paint {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, cell := range row[start:x] {
				run = append(run, cell.r)
			}
			if row[start].paint == paintNone {
				b.WriteString(string(run))
			} else {
				b.WriteString(palette[row[start].paint].Render(string(run)))
			}
			start = x
		}
		if y < len(c.cells)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// stageRenderer draws everything at mapper coordinates, one cell per unit.
type stageRenderer struct{}

func (stageRenderer) Name() string    { return "stage" }
func (stageRenderer) Clickable() bool { return true }

func (stageRenderer) Render(f Frame) string {
	c := newCanvas(f.Width, f.Height)
	if f.Layout == nil || len(f.Layout.Sections) == 0 {
		c.put(1, 0, "No sections for this event.", paintFaint)
		return c.String()
	}
	state := f.Snapshot.View
	viewport := f.Snapshot.Viewport
	pres := f.Presentation

	stage := f.Mapper.SectionPosition(venue.Section{Anchor: venue.StagePosition}, state, viewport)
	drawCentered(c, stage, " STAGE ", paintStage)

	for i, section := range f.Layout.Sections {
		focused := section.ID == state.Focus
		if pres.ShowSeats && (focused || pres.HideOthers) {
			continue
		}
		p := tonePaint(venue.Availability(section).Tone())
		switch {
		case pres.ShowSeats:
			p = paintFaint
		case focused:
			p = paintFocus
		}
		if state.Focus == "" && i == f.Cursor.section {
			p = paintCursor
		}
		pos := f.Mapper.SectionPosition(section, state, viewport)
		drawCentered(c, pos, "["+shortName(section)+"]", p)
	}

	if !pres.ShowSeats {
		return c.String()
	}

	rowStart := map[int]seatmap.PlacedSeat{}
	for _, seat := range f.Seats {
		if first, ok := rowStart[seat.RowIndex]; !ok || seat.Index < first.Index {
			rowStart[seat.RowIndex] = seat
		}
		x := int(math.Round(seat.Pos.X - 0.5))
		y := int(math.Round(seat.Pos.Y))
		token, p := seatToken(seat.Seat, f.selected(seat.ID))
		if seat.RowIndex == f.Cursor.row && seat.Index == f.Cursor.seat {
			p = paintCursor
		}
		c.put(x, y, token, p)
	}
	for _, first := range rowStart {
		x := int(math.Round(first.Pos.X-0.5)) - len(first.ID.Row) - 1
		c.put(x, int(math.Round(first.Pos.Y)), first.ID.Row, paintLabel)
	}
	return c.String()
}

func drawCentered(c *canvas, pos seatmap.Point, text string, p paint) {
	width := len([]rune(text))
	x := int(math.Round(pos.X)) - width/2
	c.put(x, int(math.Round(pos.Y)), text, p)
}

func shortName(section venue.Section) string {
	name := strings.TrimPrefix(section.Name, "Section ")
	if name == "" {
		return section.ID
	}
	return name
}

func seatToken(seat venue.Seat, selected bool) (string, paint) {
	switch {
	case selected:
		return "<>", paintSelected
	case seat.Available:
		return "[]", paintAvailable
	default:
		return "XX", paintReserved
	}
}

// gridRenderer draws the focused section as a row by seat table with the
// stage bar, legend and counts underneath. Cells do not follow mapper
// coordinates, so mouse clicks are not resolved against it.
type gridRenderer struct{}

func (gridRenderer) Name() string    { return "grid" }
func (gridRenderer) Clickable() bool { return false }

func (g gridRenderer) Render(f Frame) string {
	if f.Layout == nil || len(f.Layout.Sections) == 0 {
		return "No sections for this event."
	}
	section, ok := f.Layout.Section(f.Snapshot.View.Focus)
	if !ok || !f.Presentation.ShowSeats {
		return g.renderSections(f)
	}
	return g.renderSeats(f, section)
}

func (gridRenderer) renderSections(f Frame) string {
	var b strings.Builder
	nameWidth := 4
	for _, section := range f.Layout.Sections {
		nameWidth = max(nameWidth, len([]rune(section.Name)))
	}
	for i, section := range f.Layout.Sections {
		a := venue.Availability(section)
		marker := "  "
		if f.Snapshot.View.Focus == "" && i == f.Cursor.section {
			marker = "> "
		}
		if section.ID == f.Snapshot.View.Focus {
			marker = "* "
		}
		line := fmt.Sprintf("%s%-*s  %9s  %4d/%-4d available", marker, nameWidth, section.Name, formatPrice(section.BasePrice), a.Available, a.Total)
		p := tonePaint(a.Tone())
		if marker == "> " {
			p = paintCursor
		}
		b.WriteString(palette[p].Render(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (gridRenderer) renderSeats(f Frame, section venue.Section) string {
	if section.SeatCount() == 0 {
		return "No seats in this section."
	}

	rowWidth := 2
	cellWidth := 2
	for _, row := range section.Rows {
		rowWidth = max(rowWidth, len(row.Label))
		for _, seat := range row.Seats {
			cellWidth = max(cellWidth, len(seat.Label))
		}
	}
	columns := section.Width()

	var b strings.Builder
	available, reserved, selected := 0, 0, 0
	for ri, row := range section.Rows {
		b.WriteString(fmt.Sprintf("%*s ", rowWidth, row.Label))
		for si := 0; si < columns; si++ {
			if si >= len(row.Seats) {
				b.WriteString(padCell("", cellWidth))
			} else {
				seat := row.Seats[si]
				id := venue.SeatID{Section: section.ID, Row: row.Label, Seat: seat.Label}
				isSelected := f.selected(id)
				_, p := seatToken(seat, isSelected)
				switch {
				case isSelected:
					selected++
				case seat.Available:
					available++
				default:
					reserved++
				}
				if ri == f.Cursor.row && si == f.Cursor.seat {
					p = paintCursor
				}
				b.WriteString(palette[p].Render(padCell(seat.Label, cellWidth)))
			}
			if si < columns-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString(fmt.Sprintf(" %*s\n", rowWidth, row.Label))
	}

	gridWidth := columns*(cellWidth+1) - 1
	bar := screenBarBlock(gridWidth, "STAGE")
	indent := strings.Repeat(" ", rowWidth+1)
	border := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Background(lipgloss.Color("236"))
	b.WriteString("\n")
	b.WriteString(indent + border.Render(bar.top) + "\n")
	b.WriteString(indent + palette[paintStage].Render(bar.mid) + "\n")
	b.WriteString(indent + border.Render(bar.bot) + "\n\n")

	total := section.SeatCount()
	percent := float64(available+selected) / float64(max(1, total)) * 100
	legend := "Legend: green available • red reserved • magenta selected • numbers are seat labels"
	counts := fmt.Sprintf("Available: %d • Selected: %d • Pairs: %d • Reserved: %d • Total: %d • %.0f%% free",
		available, selected, countAdjacentPairs(section), reserved, total, percent)
	return b.String() + hint(legend) + "\n" + hint(counts)
}

// countAdjacentPairs counts disjoint pairs of neighbouring available seats.
func countAdjacentPairs(section venue.Section) int {
	cols := map[int][]int{}
	for ri, row := range section.Rows {
		for si, seat := range row.Seats {
			if seat.Available {
				cols[ri] = append(cols[ri], si)
			}
		}
	}
	count := 0
	for _, list := range cols {
		sort.Ints(list)
		for i := 0; i < len(list)-1; {
			if list[i]+1 == list[i+1] {
				count++
				i += 2
				continue
			}
			i++
		}
	}
	return count
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

type screenBlock struct {
	top string
	mid string
	bot string
}

func screenBarBlock(width int, label string) screenBlock {
	if width < len(label)+4 {
		width = len(label) + 4
	}
	if width < 10 {
		width = 10
	}

	border := "╭" + strings.Repeat("─", width-2) + "╮"
	bottom := "╰" + strings.Repeat("─", width-2) + "╯"

	labelText := " " + label + " "
	padding := width - len(labelText) - 2
	left := padding / 2
	right := padding - left
	mid := "│" + strings.Repeat(" ", left) + labelText + strings.Repeat(" ", right) + "│"
	return screenBlock{top: border, mid: mid, bot: bottom}
}

func formatPrice(price float64) string {
	if price <= 0 {
		return "-"
	}
	return fmt.Sprintf("$%.2f", price)
}
