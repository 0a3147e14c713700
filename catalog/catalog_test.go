package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatmap-cli/venue"
)

func TestMemoryEvents(t *testing.T) {
	repo := NewMemory(1)
	ctx := context.Background()

	events, err := repo.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 6)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Date.Before(events[i-1].Date), "events are sorted by date")
	}

	event, err := repo.Event(ctx, "event-3")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics Tour", event.Title)

	artist, err := repo.Artist(ctx, event.ArtistID)
	require.NoError(t, err)
	assert.Equal(t, "Ed Sheeran", artist.Name)
}

func TestMemoryNotFound(t *testing.T) {
	repo := NewMemory(1)
	ctx := context.Background()

	_, err := repo.Event(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = repo.Artist(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = repo.Layout(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = repo.Tickets(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory(1).Events(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockLayoutsAreValid(t *testing.T) {
	repo := NewMemory(42)
	ctx := context.Background()
	events, err := repo.Events(ctx)
	require.NoError(t, err)

	for _, event := range events {
		layout, err := repo.Layout(ctx, event.ID)
		require.NoError(t, err)
		require.NoErrorf(t, venue.Validate(layout), "layout of %s", event.ID)

		tickets, err := repo.Tickets(ctx, event.ID)
		require.NoError(t, err)
		assert.Len(t, tickets, countSeats(layout))
	}

	tickets, _ := repo.Tickets(ctx, "event-1")
	assert.Equal(t, "ticket-event-1-section-1-A-1", tickets[0].ID)
}

func TestStadiumLayout(t *testing.T) {
	repo := NewMemory(7)
	layout, err := repo.Layout(context.Background(), stadiumEventID)
	require.NoError(t, err)
	assert.Len(t, layout.Sections, len(venue.StadiumPositions))

	floor, ok := layout.Section("sec-A")
	require.True(t, ok)
	assert.Len(t, floor.Rows, 10)
	assert.Equal(t, venue.Point{X: 75, Y: 65}, floor.Anchor)

	soldOut, ok := layout.Section("sec-E")
	require.True(t, ok)
	assert.Equal(t, venue.ToneSoldOut, venue.Availability(soldOut).Tone())

	mezzanine, _ := layout.Section("sec-227")
	assert.Equal(t, 99.0, mezzanine.BasePrice)

	again, _ := NewMemory(7).Layout(context.Background(), stadiumEventID)
	assert.Equal(t, layout.Sections, again.Sections, "same seed, same stadium")
}

func TestSearch(t *testing.T) {
	repo := NewMemory(1)
	ctx := context.Background()

	all, err := repo.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	found, err := repo.Search(ctx, "weeknd")
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, event := range found {
		assert.Equal(t, "artist-4", event.ArtistID)
	}

	found, err = repo.Search(ctx, "hollywood")
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, "event-3", found[0].ID)

	found, err = repo.Search(ctx, "zzzzqqq")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func countSeats(layout *venue.Layout) int {
	n := 0
	for _, section := range layout.Sections {
		n += section.SeatCount()
	}
	return n
}

func TestMemoryArtists(t *testing.T) {
	repo := NewMemory(1)
	ctx := context.Background()

	artists, err := repo.Artists(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 4)
	assert.Equal(t, "Beyoncé", artists[0].Name)
	assert.Equal(t, "The Weeknd", artists[3].Name)

	events, err := repo.ArtistEvents(ctx, "artist-4")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "event-5", events[0].ID)
	assert.Equal(t, "event-6", events[1].ID)

	events, err = repo.ArtistEvents(ctx, "artist-2")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Mathematics Tour", events[0].Title)

	_, err = repo.ArtistEvents(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryArtistEventsSkipsUnknownEvents(t *testing.T) {
	repo := newMemory(
		[]Event{{ID: "e-1", Title: "Only"}},
		[]Artist{{ID: "a-1", Name: "Someone", EventIDs: []string{"e-1", "e-missing"}}},
		nil,
	)

	events, err := repo.ArtistEvents(context.Background(), "a-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e-1", events[0].ID)
}
