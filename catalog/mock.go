package catalog

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"time"

	"seatmap-cli/venue"
)

const stadiumEventID = "event-6"

func mockData(seed uint64) ([]Event, []Artist, []*venue.Layout) {
	events := []Event{
		{
			ID:          "event-1",
			Title:       "The Eras Tour",
			ArtistID:    "artist-1",
			Date:        time.Date(2024, 6, 15, 19, 0, 0, 0, time.UTC),
			Venue:       Venue{Name: "Madison Square Garden", Address: "4 Pennsylvania Plaza, New York, NY 10001"},
			Description: "An unforgettable journey through all eras of music featuring greatest hits and fan favorites.",
			Category:    "Pop",
		},
		{
			ID:          "event-2",
			Title:       "The Eras Tour - Night 2",
			ArtistID:    "artist-1",
			Date:        time.Date(2024, 6, 16, 19, 0, 0, 0, time.UTC),
			Venue:       Venue{Name: "Madison Square Garden", Address: "4 Pennsylvania Plaza, New York, NY 10001"},
			Description: "Second night of The Eras Tour with surprise songs and special performances.",
			Category:    "Pop",
		},
		{
			ID:          "event-3",
			Title:       "Mathematics Tour",
			ArtistID:    "artist-2",
			Date:        time.Date(2024, 7, 20, 20, 0, 0, 0, time.UTC),
			Venue:       Venue{Name: "Hollywood Bowl", Address: "2301 N Highland Ave, Los Angeles, CA 90068"},
			Description: "Intimate acoustic performance featuring hits from all albums.",
			Category:    "Pop",
		},
		{
			ID:          "event-4",
			Title:       "Renaissance World Tour",
			ArtistID:    "artist-3",
			Date:        time.Date(2024, 8, 10, 19, 30, 0, 0, time.UTC),
			Venue:       Venue{Name: "SoFi Stadium", Address: "1000 S Prairie Ave, Inglewood, CA 90301"},
			Description: "The ultimate celebration of music, culture, and performance.",
			Category:    "R&B",
		},
		{
			ID:          "event-5",
			Title:       "After Hours Til Dawn Tour",
			ArtistID:    "artist-4",
			Date:        time.Date(2024, 9, 5, 20, 0, 0, 0, time.UTC),
			Venue:       Venue{Name: "MetLife Stadium", Address: "1 MetLife Stadium Dr, East Rutherford, NJ 07073"},
			Description: "Epic stadium show featuring hits from After Hours and Dawn FM.",
			Category:    "R&B",
		},
		{
			ID:          stadiumEventID,
			Title:       "After Hours Til Dawn Tour - Stadium Edition",
			ArtistID:    "artist-4",
			Date:        time.Date(2024, 9, 6, 20, 0, 0, 0, time.UTC),
			Venue:       Venue{Name: "MetLife Stadium", Address: "1 MetLife Stadium Dr, East Rutherford, NJ 07073"},
			Description: "The full stadium configuration: floor, 100 ring and 200 mezzanine.",
			Category:    "R&B",
		},
	}

	artists := []Artist{
		{ID: "artist-1", Name: "Taylor Swift", Bio: "Multi-platinum recording artist known for chart-topping hits and sold-out stadium tours.", EventIDs: []string{"event-1", "event-2"}},
		{ID: "artist-2", Name: "Ed Sheeran", Bio: "Grammy-winning singer-songwriter with global hits and acoustic performances.", EventIDs: []string{"event-3"}},
		{ID: "artist-3", Name: "Beyoncé", Bio: "Iconic performer, entrepreneur, and cultural phenomenon with legendary live shows.", EventIDs: []string{"event-4"}},
		{ID: "artist-4", Name: "The Weeknd", Bio: "Chart-topping R&B artist known for atmospheric music and electrifying performances.", EventIDs: []string{"event-5", stadiumEventID}},
	}

	layouts := []*venue.Layout{
		venue.NewLayout("event-1", []venue.Section{
			{ID: "section-1", Name: "Floor A", BasePrice: 299, Anchor: venue.Point{X: 70, Y: 50}, Rows: []venue.Row{
				row("A", 299, true, true, false, true, true),
				row("B", 299, true, false, true, true, false),
			}},
			{ID: "section-2", Name: "Lower Bowl", BasePrice: 199, Anchor: venue.Point{X: 45, Y: 30}, Rows: []venue.Row{
				row("1", 199, true, true, true, false),
				row("2", 199, true, true, true, true),
			}},
			{ID: "section-3", Name: "Upper Bowl", BasePrice: 99, Anchor: venue.Point{X: 25, Y: 65}, Rows: []venue.Row{
				row("1", 99, true, true, true, true),
			}},
		}),
		venue.NewLayout("event-2", []venue.Section{
			{ID: "section-1", Name: "Floor A", BasePrice: 299, Anchor: venue.Point{X: 70, Y: 50}, Rows: []venue.Row{
				row("A", 299, false, true, true),
			}},
			{ID: "section-2", Name: "Lower Bowl", BasePrice: 199, Anchor: venue.Point{X: 40, Y: 50}, Rows: []venue.Row{
				row("1", 199, true, true),
			}},
		}),
		venue.NewLayout("event-3", []venue.Section{
			{ID: "section-1", Name: "Floor", BasePrice: 249, Anchor: venue.Point{X: 50, Y: 50}, Rows: []venue.Row{
				row("A", 249, true, true, true),
			}},
		}),
		venue.NewLayout("event-4", []venue.Section{
			{ID: "section-1", Name: "VIP Floor", BasePrice: 599, Anchor: venue.Point{X: 70, Y: 50}, Rows: []venue.Row{
				row("A", 599, true, false),
			}},
			{ID: "section-2", Name: "Lower Level", BasePrice: 299, Anchor: venue.Point{X: 40, Y: 50}, Rows: []venue.Row{
				row("1", 299, true, true),
			}},
		}),
		venue.NewLayout("event-5", []venue.Section{
			{ID: "section-1", Name: "Floor", BasePrice: 349, Anchor: venue.Point{X: 50, Y: 50}, Rows: []venue.Row{
				row("A", 349, true, true, true),
			}},
		}),
		stadiumLayout(stadiumEventID, seed),
	}
	return events, artists, layouts
}

func row(label string, price float64, available ...bool) venue.Row {
	seats := make([]venue.Seat, 0, len(available))
	for i, ok := range available {
		seats = append(seats, venue.Seat{Label: strconv.Itoa(i + 1), Available: ok, Price: price})
	}
	return venue.Row{Label: label, Seats: seats}
}

type stadiumTier struct {
	rows        int
	seatsPerRow int
	price       float64
}

var (
	floorTier     = stadiumTier{rows: 10, seatsPerRow: 12, price: 349}
	lowerRingTier = stadiumTier{rows: 8, seatsPerRow: 10, price: 199}
	mezzanineTier = stadiumTier{rows: 6, seatsPerRow: 10, price: 99}
)

const stadiumAvailability = 0.8

// stadiumLayout generates one section per stadium position. Sold out
// sections get no available seats.
func stadiumLayout(eventID string, seed uint64) *venue.Layout {
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))

	names := make([]string, 0, len(venue.StadiumPositions))
	for name := range venue.StadiumPositions {
		names = append(names, name)
	}
	sort.Strings(names)

	sections := make([]venue.Section, 0, len(names))
	for _, name := range names {
		tier := floorTier
		switch {
		case len(name) == 3 && name[0] == '1':
			tier = lowerRingTier
		case len(name) == 3 && name[0] == '2':
			tier = mezzanineTier
		}
		ratio := stadiumAvailability
		if venue.SoldOutSections[name] {
			ratio = 0
		}
		sections = append(sections, venue.Section{
			ID:        "sec-" + name,
			Name:      "Section " + name,
			BasePrice: tier.price,
			Anchor:    venue.AnchorFor(name),
			Rows:      venue.GenerateRows(tier.rows, tier.seatsPerRow, tier.price, ratio, rng),
		})
	}
	return venue.NewLayout(eventID, sections)
}
