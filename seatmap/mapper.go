package seatmap

import (
	"math"

	"seatmap-cli/venue"
)

// Mapper converts between layout coordinates and screen coordinates. It is
// stateless: every call takes the ViewState and viewport it maps under.
//
// The transform is screen = pan + origin + (p - origin) * zoom, where p is a
// point of the unzoomed stage. Forward and inverse mapping share it, so a
// rendered seat always resolves back to itself.
type Mapper struct {
	cfg Config
}

func NewMapper(cfg Config) Mapper {
	return Mapper{cfg: cfg.normalized()}
}

// PlacedSeat is a seat with its screen position.
type PlacedSeat struct {
	ID       venue.SeatID
	Seat     venue.Seat
	RowIndex int
	Index    int
	Pos      Point
}

// Stage is the viewport minus the side panel. A panel wider than the
// viewport is ignored.
func (m Mapper) Stage(viewport Viewport) Viewport {
	width := viewport.Width - m.cfg.SidePanelWidth
	if width <= 0 {
		width = viewport.Width
	}
	return Viewport{Width: width, Height: viewport.Height}
}

func (m Mapper) StageCenter(viewport Viewport) Point {
	stage := m.Stage(viewport)
	return Point{X: stage.Width / 2, Y: stage.Height / 2}
}

func (m Mapper) Origin(viewport Viewport) Point {
	stage := m.Stage(viewport)
	return Point{X: stage.Width * m.cfg.OriginX, Y: stage.Height * m.cfg.OriginY}
}

// AnchorPixels scales a percentage anchor to stage units.
func (m Mapper) AnchorPixels(anchor venue.Point, viewport Viewport) Point {
	stage := m.Stage(viewport)
	return Point{X: anchor.X / 100 * stage.Width, Y: anchor.Y / 100 * stage.Height}
}

func (m Mapper) Transform(p Point, state ViewState, viewport Viewport) Point {
	origin := m.Origin(viewport)
	return state.Pan.Add(origin).Add(p.Sub(origin).Scale(zoomOf(state)))
}

func (m Mapper) Inverse(p Point, state ViewState, viewport Viewport) Point {
	origin := m.Origin(viewport)
	return origin.Add(p.Sub(state.Pan).Sub(origin).Scale(1 / zoomOf(state)))
}

// SectionPosition is where a section's anchor lands on screen.
func (m Mapper) SectionPosition(section venue.Section, state ViewState, viewport Viewport) Point {
	anchor := m.AnchorPixels(section.Anchor, viewport)
	if state.Mode() == Overview {
		return anchor
	}
	return m.Transform(anchor, state, viewport)
}

// seatLocal places seat (row, index) on the unzoomed stage. Rows are
// stacked top to bottom and each row is centered on the section anchor.
func (m Mapper) seatLocal(section venue.Section, row int, index int, viewport Viewport) Point {
	anchor := m.AnchorPixels(section.Anchor, viewport)
	top := anchor.Y - float64(len(section.Rows)-1)*m.cfg.RowSpacing/2
	left := m.rowLeft(section, row, anchor)
	return Point{
		X: left + float64(index)*m.cfg.SeatSpacing,
		Y: top + float64(row)*m.cfg.RowSpacing,
	}
}

func (m Mapper) rowLeft(section venue.Section, row int, anchor Point) float64 {
	count := len(section.Rows[row].Seats)
	return anchor.X - float64(count-1)*m.cfg.SeatSpacing/2
}

// SeatPosition returns the screen position of any seat in the layout.
func (m Mapper) SeatPosition(layout *venue.Layout, id venue.SeatID, state ViewState, viewport Viewport) (Point, bool) {
	section, ok := layout.Section(id.Section)
	if !ok {
		return Point{}, false
	}
	row, index, ok := layout.SeatPosition(id)
	if !ok {
		return Point{}, false
	}
	return m.Transform(m.seatLocal(section, row, index, viewport), state, viewport), true
}

// Seats returns the renderable seats of the focused section. It is empty in
// overview, below the threshold and for sections without rows.
func (m Mapper) Seats(layout *venue.Layout, state ViewState, viewport Viewport) []PlacedSeat {
	section, ok := m.focusedSeatGrid(layout, state)
	if !ok {
		return nil
	}
	placed := make([]PlacedSeat, 0, section.SeatCount())
	for ri, row := range section.Rows {
		for si, seat := range row.Seats {
			placed = append(placed, PlacedSeat{
				ID:       venue.SeatID{Section: section.ID, Row: row.Label, Seat: seat.Label},
				Seat:     seat,
				RowIndex: ri,
				Index:    si,
				Pos:      m.Transform(m.seatLocal(section, ri, si, viewport), state, viewport),
			})
		}
	}
	return placed
}

// ResolveSeatAt hit-tests p against the focused section's seat grid. It
// resolves unavailable seats too; availability is the selection's concern.
func (m Mapper) ResolveSeatAt(p Point, state ViewState, layout *venue.Layout, viewport Viewport) (venue.SeatID, bool) {
	section, ok := m.focusedSeatGrid(layout, state)
	if !ok {
		return venue.SeatID{}, false
	}
	local := m.Inverse(p, state, viewport)
	anchor := m.AnchorPixels(section.Anchor, viewport)

	top := anchor.Y - float64(len(section.Rows)-1)*m.cfg.RowSpacing/2
	rowPos := (local.Y - top) / m.cfg.RowSpacing
	row := int(math.Round(rowPos))
	if row < 0 || row >= len(section.Rows) || math.Abs(rowPos-float64(row)) > m.cfg.SeatHit {
		return venue.SeatID{}, false
	}

	seats := section.Rows[row].Seats
	if len(seats) == 0 {
		return venue.SeatID{}, false
	}
	seatPos := (local.X - m.rowLeft(section, row, anchor)) / m.cfg.SeatSpacing
	index := int(math.Round(seatPos))
	if index < 0 || index >= len(seats) || math.Abs(seatPos-float64(index)) > m.cfg.SeatHit {
		return venue.SeatID{}, false
	}
	return venue.SeatID{Section: section.ID, Row: section.Rows[row].Label, Seat: seats[index].Label}, true
}

// ResolveSectionAt finds the section box under p while boxes are shown.
// Overlapping boxes resolve to the closest anchor.
func (m Mapper) ResolveSectionAt(p Point, state ViewState, layout *venue.Layout, viewport Viewport) (string, bool) {
	if layout == nil || zoomOf(state) >= m.cfg.Threshold {
		return "", false
	}
	best := ""
	bestDist := math.Inf(1)
	for _, section := range layout.Sections {
		pos := m.SectionPosition(section, state, viewport)
		dx := math.Abs(p.X - pos.X)
		dy := math.Abs(p.Y - pos.Y)
		if dx > m.cfg.SectionHitX || dy > m.cfg.SectionHitY {
			continue
		}
		if dist := math.Hypot(dx, dy); dist < bestDist {
			best, bestDist = section.ID, dist
		}
	}
	return best, best != ""
}

func (m Mapper) focusedSeatGrid(layout *venue.Layout, state ViewState) (venue.Section, bool) {
	if state.Mode() != Detail || zoomOf(state) < m.cfg.Threshold {
		return venue.Section{}, false
	}
	section, ok := layout.Section(state.Focus)
	if !ok || len(section.Rows) == 0 {
		return venue.Section{}, false
	}
	return section, true
}

func zoomOf(state ViewState) float64 {
	if state.Zoom < 1 {
		return 1
	}
	return state.Zoom
}
