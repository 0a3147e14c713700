package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"seatmap-cli/catalog"
	"seatmap-cli/checkout"
	"seatmap-cli/store"
)

func newPurchasesCmd(a *app) *cobra.Command {
	var eventID string
	cmd := &cobra.Command{
		Use:   "purchases",
		Short: "List confirmed purchases",
		Long:  `List the purchases confirmed on this machine, newest first. --event narrows the list to one event.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				purchases []checkout.Receipt
				err       error
			)
			if eventID == "" {
				purchases, err = store.LoadPurchases()
			} else {
				if _, err := a.repo.Event(ctx, eventID); err != nil {
					return err
				}
				purchases, err = store.PurchasesFor(eventID)
			}
			if err != nil {
				return err
			}
			if len(purchases) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tickets purchased yet.")
				return nil
			}

			titles := map[string]string{}
			for _, purchase := range purchases {
				if _, ok := titles[purchase.EventID]; ok {
					continue
				}
				event, err := a.repo.Event(ctx, purchase.EventID)
				switch {
				case err == nil:
					titles[purchase.EventID] = event.Title
				case errors.Is(err, catalog.ErrNotFound):
					titles[purchase.EventID] = purchase.EventID
				default:
					return err
				}
			}
			renderPurchases(cmd.OutOrStdout(), purchases, titles)
			return nil
		},
	}
	cmd.Flags().StringVarP(&eventID, "event", "e", "", "only this event")
	return cmd
}

func newArtistCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "artist [artist-id]",
		Short: "List artists, or one artist's events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				artists, err := a.repo.Artists(ctx)
				if err != nil {
					return err
				}
				renderArtists(cmd.OutOrStdout(), artists)
				return nil
			}

			artist, err := a.repo.Artist(ctx, args[0])
			if err != nil {
				return err
			}
			events, err := a.repo.ArtistEvents(ctx, artist.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n\n", artist.Name, artist.Bio)
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No upcoming events.")
				return nil
			}
			rows, err := rowsFor(ctx, a.repo, events)
			if err != nil {
				return err
			}
			renderEvents(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}
