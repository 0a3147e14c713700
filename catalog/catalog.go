package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"seatmap-cli/venue"
)

var ErrNotFound = errors.New("not found")

type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ArtistID    string    `json:"artistId"`
	Date        time.Time `json:"date"`
	Venue       Venue     `json:"venue"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
}

type Artist struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	EventIDs []string `json:"eventIds"`
}

// Repository is where the storefront reads events, artists and seat layouts.
type Repository interface {
	Events(ctx context.Context) ([]Event, error)
	Event(ctx context.Context, id string) (Event, error)
	Artist(ctx context.Context, id string) (Artist, error)
	Artists(ctx context.Context) ([]Artist, error)
	ArtistEvents(ctx context.Context, artistID string) ([]Event, error)
	Layout(ctx context.Context, eventID string) (*venue.Layout, error)
	Tickets(ctx context.Context, eventID string) ([]venue.Ticket, error)
	Search(ctx context.Context, query string) ([]Event, error)
}

// Memory is a read-only Repository over fixed data.
type Memory struct {
	events  []Event
	artists map[string]Artist
	layouts map[string]*venue.Layout
	tickets map[string][]venue.Ticket
}

// NewMemory builds the mock catalog. The seed drives availability of the
// generated stadium, so equal seeds give equal catalogs.
func NewMemory(seed uint64) *Memory {
	events, artists, layouts := mockData(seed)
	return newMemory(events, artists, layouts)
}

func newMemory(events []Event, artists []Artist, layouts []*venue.Layout) *Memory {
	m := &Memory{
		events:  events,
		artists: make(map[string]Artist, len(artists)),
		layouts: make(map[string]*venue.Layout, len(layouts)),
		tickets: make(map[string][]venue.Ticket, len(layouts)),
	}
	for _, artist := range artists {
		m.artists[artist.ID] = artist
	}
	for _, layout := range layouts {
		m.layouts[layout.EventID] = layout
		m.tickets[layout.EventID] = venue.Tickets(layout)
	}
	sort.SliceStable(m.events, func(i, j int) bool {
		return m.events[i].Date.Before(m.events[j].Date)
	})
	return m
}

func (m *Memory) Events(ctx context.Context) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Event(nil), m.events...), nil
}

func (m *Memory) Event(ctx context.Context, id string) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	for _, event := range m.events {
		if event.ID == id {
			return event, nil
		}
	}
	return Event{}, fmt.Errorf("event %q: %w", id, ErrNotFound)
}

func (m *Memory) Artist(ctx context.Context, id string) (Artist, error) {
	if err := ctx.Err(); err != nil {
		return Artist{}, err
	}
	artist, ok := m.artists[id]
	if !ok {
		return Artist{}, fmt.Errorf("artist %q: %w", id, ErrNotFound)
	}
	return artist, nil
}

// Artists lists artists by name.
func (m *Memory) Artists(ctx context.Context) ([]Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	artists := make([]Artist, 0, len(m.artists))
	for _, artist := range m.artists {
		artists = append(artists, artist)
	}
	sort.Slice(artists, func(i, j int) bool {
		return artists[i].Name < artists[j].Name
	})
	return artists, nil
}

// ArtistEvents returns the artist's events in date order. Event ids the
// catalog does not know are skipped.
func (m *Memory) ArtistEvents(ctx context.Context, artistID string) ([]Event, error) {
	artist, err := m.Artist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(artist.EventIDs))
	for _, id := range artist.EventIDs {
		wanted[id] = true
	}
	var events []Event
	for _, event := range m.events {
		if wanted[event.ID] {
			events = append(events, event)
		}
	}
	return events, nil
}

func (m *Memory) Layout(ctx context.Context, eventID string) (*venue.Layout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layout, ok := m.layouts[eventID]
	if !ok {
		return nil, fmt.Errorf("layout for event %q: %w", eventID, ErrNotFound)
	}
	return layout, nil
}

func (m *Memory) Tickets(ctx context.Context, eventID string) ([]venue.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tickets, ok := m.tickets[eventID]
	if !ok {
		return nil, fmt.Errorf("tickets for event %q: %w", eventID, ErrNotFound)
	}
	return append([]venue.Ticket(nil), tickets...), nil
}

// Search fuzzy-matches query against title, artist, venue and category.
// An empty query returns every event.
func (m *Memory) Search(ctx context.Context, query string) ([]Event, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return m.Events(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches := fuzzy.FindFrom(query, searchSource{events: m.events, artists: m.artists})
	result := make([]Event, 0, len(matches))
	for _, match := range matches {
		result = append(result, m.events[match.Index])
	}
	return result, nil
}

type searchSource struct {
	events  []Event
	artists map[string]Artist
}

func (s searchSource) String(i int) string {
	event := s.events[i]
	return strings.Join([]string{
		event.Title,
		s.artists[event.ArtistID].Name,
		event.Venue.Name,
		event.Category,
	}, " ")
}

func (s searchSource) Len() int { return len(s.events) }
