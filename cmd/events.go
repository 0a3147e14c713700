package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"seatmap-cli/catalog"
	"seatmap-cli/venue"
)

func newEventsCmd(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events",
		Long:  `List upcoming events with their venue and free seats. --query fuzzy matches title, artist, venue and category.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := eventRows(cmd.Context(), a.repo, query)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No events match %q\n", query)
				return nil
			}
			renderEvents(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search events")
	return cmd
}

func newSectionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sections <event-id>",
		Short: "Show the sections of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			event, err := a.repo.Event(ctx, args[0])
			if err != nil {
				return err
			}
			layout, err := a.repo.Layout(ctx, event.ID)
			if err != nil {
				return err
			}
			renderSections(cmd.OutOrStdout(), event, layout)
			return nil
		},
	}
}

type eventRow struct {
	event     catalog.Event
	artist    string
	available int
	total     int
}

func eventRows(ctx context.Context, repo catalog.Repository, query string) ([]eventRow, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	events, err := repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return rowsFor(ctx, repo, events)
}

func rowsFor(ctx context.Context, repo catalog.Repository, events []catalog.Event) ([]eventRow, error) {
	rows := make([]eventRow, 0, len(events))
	for _, event := range events {
		row := eventRow{event: event}
		artist, err := repo.Artist(ctx, event.ArtistID)
		switch {
		case err == nil:
			row.artist = artist.Name
		case !errors.Is(err, catalog.ErrNotFound):
			return nil, err
		}
		layout, err := repo.Layout(ctx, event.ID)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return nil, err
		}
		if layout != nil {
			for _, section := range layout.Sections {
				a := venue.Availability(section)
				row.available += a.Available
				row.total += a.Total
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
