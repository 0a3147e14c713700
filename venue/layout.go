// Package venue describes the static seating layout of an event: sections,
// their anchor positions on the stage and the rows and seats inside them.
//
// A Layout is built once per event and shared read-only by everything that
// renders or hit-tests it.
package venue

type Point struct {
	X float64 `json:"x" validate:"gte=0,lte=100"`
	Y float64 `json:"y" validate:"gte=0,lte=100"`
}

type Seat struct {
	Label     string  `json:"seat" validate:"required,excludes=-"`
	Available bool    `json:"available"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type Row struct {
	Label string `json:"row" validate:"required,excludes=-"`
	Seats []Seat `json:"seats" validate:"dive"`
}

// Section is a sellable block of the venue. Anchor is expressed in percent of
// the stage and is where the section is drawn as a single box in overview.
type Section struct {
	ID        string  `json:"id" validate:"required"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"price" validate:"gte=0"`
	Anchor    Point   `json:"position"`
	Rows      []Row   `json:"rows" validate:"dive"`
}

// SeatCount returns the number of seats across all rows.
func (s Section) SeatCount() int {
	total := 0
	for _, row := range s.Rows {
		total += len(row.Seats)
	}
	return total
}

// Width returns the length of the longest row.
func (s Section) Width() int {
	width := 0
	for _, row := range s.Rows {
		width = max(width, len(row.Seats))
	}
	return width
}

type seatIndex struct {
	section int
	row     int
	seat    int
}

// Layout is the ordered list of sections for one event.
type Layout struct {
	EventID  string    `json:"eventId"`
	Sections []Section `json:"sections" validate:"dive"`

	sections map[string]int
	seats    map[SeatID]seatIndex
}

// NewLayout indexes sections for lookup. Later duplicates of a section id,
// row label or seat label are not reachable through the index; Validate
// reports them.
func NewLayout(eventID string, sections []Section) *Layout {
	l := &Layout{
		EventID:  eventID,
		Sections: sections,
		sections: make(map[string]int, len(sections)),
		seats:    make(map[SeatID]seatIndex),
	}
	for si, section := range sections {
		if _, exists := l.sections[section.ID]; exists {
			continue
		}
		l.sections[section.ID] = si
		for ri, row := range section.Rows {
			for pi, seat := range row.Seats {
				id := SeatID{Section: section.ID, Row: row.Label, Seat: seat.Label}
				if _, exists := l.seats[id]; exists {
					continue
				}
				l.seats[id] = seatIndex{section: si, row: ri, seat: pi}
			}
		}
	}
	return l
}

// Section looks up a section by id.
func (l *Layout) Section(id string) (Section, bool) {
	if l == nil {
		return Section{}, false
	}
	i, ok := l.sections[id]
	if !ok {
		return Section{}, false
	}
	return l.Sections[i], true
}

// Seat looks up a seat by its composite id.
func (l *Layout) Seat(id SeatID) (Seat, bool) {
	if l == nil {
		return Seat{}, false
	}
	idx, ok := l.seats[id]
	if !ok {
		return Seat{}, false
	}
	return l.Sections[idx.section].Rows[idx.row].Seats[idx.seat], true
}

// SeatPosition returns the row and seat indexes of id inside its section.
func (l *Layout) SeatPosition(id SeatID) (row int, seat int, ok bool) {
	if l == nil {
		return 0, 0, false
	}
	idx, found := l.seats[id]
	if !found {
		return 0, 0, false
	}
	return idx.row, idx.seat, true
}

// Has reports whether the seat exists in this layout.
func (l *Layout) Has(id SeatID) bool {
	_, ok := l.Seat(id)
	return ok
}

func (l *Layout) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Sections)
}
