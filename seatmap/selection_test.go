package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatmap-cli/venue"
)

var (
	seatA1 = venue.SeatID{Section: "sec-1", Row: "A", Seat: "1"}
	seatA2 = venue.SeatID{Section: "sec-1", Row: "A", Seat: "2"}
)

func TestToggleIsIdempotentInPairs(t *testing.T) {
	layout := raggedLayout()
	for _, policy := range []Policy{Multi, Single} {
		sel := NewSeatSelection(policy, layout)
		for _, section := range layout.Sections {
			for _, row := range section.Rows {
				for _, seat := range row.Seats {
					if !seat.Available {
						continue
					}
					id := venue.SeatID{Section: section.ID, Row: row.Label, Seat: seat.Label}
					before := sel.IDs()
					require.True(t, sel.Toggle(id))
					require.True(t, sel.Toggle(id))
					assert.Equalf(t, before, sel.IDs(), "%s toggle of %s", policy, id)
				}
			}
		}
	}
}

func TestUnavailableSeatsNeverEnter(t *testing.T) {
	layout := scenarioLayout()
	sel := NewSeatSelection(Multi, layout)

	assert.False(t, sel.Toggle(seatA2))
	assert.Equal(t, 0, sel.Len())

	require.True(t, sel.Toggle(seatA1))
	assert.False(t, sel.Toggle(seatA2))
	assert.Equal(t, []venue.SeatID{seatA1}, sel.IDs())

	assert.False(t, sel.Toggle(venue.SeatID{Section: "sec-9", Row: "A", Seat: "1"}), "unknown seats are refused")
}

func TestMultiKeepsInsertionOrder(t *testing.T) {
	sel := NewSelection[string](Multi, nil)
	for _, id := range []string{"c", "a", "b"} {
		sel.Toggle(id)
	}
	sel.Toggle("a")
	sel.Toggle("a")
	assert.Equal(t, []string{"c", "b", "a"}, sel.IDs())
	assert.True(t, sel.Contains("b"))
}

func TestSingleReplacesAndClears(t *testing.T) {
	sel := NewSelection[string](Single, func(id string) bool { return id != "sold" })

	require.True(t, sel.Toggle("t1"))
	require.True(t, sel.Toggle("t2"))
	assert.Equal(t, []string{"t2"}, sel.IDs())

	assert.False(t, sel.Toggle("sold"))
	assert.Equal(t, []string{"t2"}, sel.IDs())

	require.True(t, sel.Toggle("t2"))
	assert.Equal(t, 0, sel.Len())
	assert.Equal(t, Single, sel.Policy())
}

func TestIDsIsACopy(t *testing.T) {
	sel := NewSelection[string](Multi, nil)
	sel.Toggle("x")
	ids := sel.IDs()
	ids[0] = "y"
	assert.True(t, sel.Contains("x"))
}

func TestClear(t *testing.T) {
	sel := NewSelection[string](Multi, nil)
	assert.False(t, sel.Clear())
	sel.Toggle("x")
	assert.True(t, sel.Clear())
	assert.Equal(t, 0, sel.Len())
}

func TestSetLayoutDropsStaleSeats(t *testing.T) {
	layout := raggedLayout()
	sel := NewSeatSelection(Multi, layout)

	var kept, dropped venue.SeatID
	for _, sectionID := range []string{"floor-a", "upper"} {
		section, _ := layout.Section(sectionID)
		for _, row := range section.Rows {
			for _, seat := range row.Seats {
				if !seat.Available {
					continue
				}
				id := venue.SeatID{Section: sectionID, Row: row.Label, Seat: seat.Label}
				if sectionID == "floor-a" && kept.IsZero() {
					kept = id
					sel.Toggle(id)
				}
				if sectionID == "upper" && dropped.IsZero() {
					dropped = id
					sel.Toggle(id)
				}
			}
		}
	}
	require.Equal(t, 2, sel.Len())

	floorOnly, _ := layout.Section("floor-a")
	next := venue.NewLayout(layout.EventID, []venue.Section{floorOnly})
	assert.Equal(t, 1, SetLayout(sel, next))
	assert.Equal(t, []venue.SeatID{kept}, sel.IDs())

	assert.False(t, sel.Toggle(dropped), "the new layout decides admission")
}
