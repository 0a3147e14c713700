package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"seatmap-cli/checkout"
	"seatmap-cli/store"
)

var errNothingPending = errors.New("no pending purchase, run pick first")

func newConfirmCmd(a *app) *cobra.Command {
	var discard bool
	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm the pending purchase",
		Long:  `Read the purchase saved by pick, confirm it and print the receipt. The pending purchase is consumed either way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if discard {
				return store.DiscardPending()
			}
			record, ok, err := store.LoadPending()
			if err != nil {
				return err
			}
			if !ok {
				return errNothingPending
			}
			receipt, err := checkout.Confirm(record, time.Now())
			if err != nil {
				return err
			}
			log := a.log.WithEvent(receipt.EventID)
			log.Info("purchase confirmed", "purchase_id", receipt.PurchaseID, "total", receipt.Total)
			renderReceipt(cmd.OutOrStdout(), receipt)
			if err := store.SavePurchase(receipt); err != nil {
				log.WithError(err).Error("record purchase", "purchase_id", receipt.PurchaseID)
				return fmt.Errorf("record purchase %s: %w", receipt.PurchaseID, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&discard, "discard", false, "drop the pending purchase without confirming")
	return cmd
}
