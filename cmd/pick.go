package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"seatmap-cli/catalog"
	"seatmap-cli/checkout"
	"seatmap-cli/config"
	"seatmap-cli/logger"
	"seatmap-cli/seatmap"
	"seatmap-cli/store"
	"seatmap-cli/venue"
)

const doneLabel = "Done"

// chooser picks one of items.
type chooser func(label string, items []string) (string, error)

// asker reads a line of free text.
type asker func(label string, validate func(string) error) (string, error)

func newPickCmd(a *app) *cobra.Command {
	var (
		eventID  string
		quantity int
	)
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick seats with prompts and save them for checkout",
		Long:  `Walk through event, section and seats with prompts. The selection is saved as the pending purchase; run confirm to finish it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := picker{
				repo:   a.repo,
				cfg:    a.cfg,
				log:    a.log,
				choose: promptChoose,
				ask:    promptAsk,
			}
			record, err := p.run(cmd.Context(), eventID, quantity)
			if err != nil {
				return err
			}
			renderRecord(cmd.OutOrStdout(), record)
			fmt.Fprintln(cmd.OutOrStdout(), "Saved. Run `"+appName+" confirm` to finish the purchase.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&eventID, "event", "e", "", "skip the event prompt")
	cmd.Flags().IntVarP(&quantity, "quantity", "n", 0, "skip the quantity prompt")
	return cmd
}

type picker struct {
	repo   catalog.Repository
	cfg    *config.Config
	log    *logger.Logger
	choose chooser
	ask    asker
}

// run drives a seat map widget from prompts and saves the result as the
// pending purchase.
func (p picker) run(ctx context.Context, eventID string, quantity int) (checkout.Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if eventID == "" {
		id, err := p.chooseEvent(ctx)
		if err != nil {
			return checkout.Record{}, err
		}
		eventID = id
	}
	layout, err := p.repo.Layout(ctx, eventID)
	if err != nil {
		return checkout.Record{}, err
	}
	tickets, err := p.repo.Tickets(ctx, eventID)
	if err != nil {
		return checkout.Record{}, err
	}

	w := seatmap.New(p.cfg.SeatMap, layout, tickets,
		seatmap.WithLogger(p.log.WithEvent(eventID).Logger),
		seatmap.WithSeatPolicy(p.cfg.SeatPolicy()),
		seatmap.WithAutoSelectTicket(p.cfg.AutoSelectTicket),
	)
	if err := p.chooseSection(w); err != nil {
		return checkout.Record{}, err
	}
	if err := p.chooseSeats(w); err != nil {
		return checkout.Record{}, err
	}

	if quantity <= 0 {
		quantity, err = p.askQuantity()
		if err != nil {
			return checkout.Record{}, err
		}
	}
	record, err := checkout.NewRecord(eventID, w.CheckoutTickets(), min(quantity, p.cfg.MaxQuantity))
	if err != nil {
		return checkout.Record{}, err
	}
	if err := store.SavePending(record); err != nil {
		return checkout.Record{}, fmt.Errorf("save pending purchase: %w", err)
	}
	p.log.WithEvent(eventID).Info("pending purchase saved", "tickets", len(record.TicketIDs), "quantity", record.Quantity)
	return record, nil
}

func (p picker) chooseEvent(ctx context.Context) (string, error) {
	events, err := p.repo.Events(ctx)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "", errors.New("no events available")
	}
	eventIDByName := make(map[string]string, len(events))
	for _, event := range events {
		eventIDByName[fmt.Sprintf("%s • %s", event.Title, event.Date.Format("2006-01-02"))] = event.ID
	}
	names := maps.Keys(eventIDByName)
	slices.Sort(names)

	name, err := p.choose("Select Event", names)
	if err != nil {
		return "", err
	}
	id, ok := eventIDByName[name]
	if !ok {
		return "", fmt.Errorf("invalid event %q", name)
	}
	return id, nil
}

func (p picker) chooseSection(w *seatmap.Widget) error {
	sectionIDByName := map[string]string{}
	for _, section := range w.Layout().Sections {
		a := venue.Availability(section)
		if a.Available == 0 {
			continue
		}
		sectionIDByName[fmt.Sprintf("%s • %s • %d free", section.Name, formatPrice(section.BasePrice), a.Available)] = section.ID
	}
	if len(sectionIDByName) == 0 {
		return errors.New("event is sold out")
	}
	names := maps.Keys(sectionIDByName)
	slices.Sort(names)

	name, err := p.choose("Select Section", names)
	if err != nil {
		return err
	}
	id, ok := sectionIDByName[name]
	if !ok || !w.Apply(seatmap.SectionSelected{SectionID: id}) {
		return fmt.Errorf("invalid section %q", name)
	}
	return nil
}

// chooseSeats toggles seats until Done. Picking a selected seat again
// releases it.
func (p picker) chooseSeats(w *seatmap.Widget) error {
	section, ok := w.Layout().Section(w.State().Focus)
	if !ok {
		return errors.New("no section selected")
	}
	for {
		selected := map[venue.SeatID]bool{}
		for _, id := range w.SelectedSeats() {
			selected[id] = true
		}
		items, seatByLabel := seatOptions(section, selected)
		label, err := p.choose(fmt.Sprintf("Select Seats (%d selected)", len(selected)), items)
		if err != nil {
			return err
		}
		if label == doneLabel {
			return nil
		}
		id, ok := seatByLabel[label]
		if !ok {
			return fmt.Errorf("invalid seat %q", label)
		}
		w.Apply(seatmap.SeatClicked{Seat: id})
	}
}

// seatOptions lists Done first, then the free and selected seats in layout
// order.
func seatOptions(section venue.Section, selected map[venue.SeatID]bool) ([]string, map[string]venue.SeatID) {
	items := []string{doneLabel}
	seatByLabel := map[string]venue.SeatID{}
	for _, row := range section.Rows {
		for _, seat := range row.Seats {
			id := venue.SeatID{Section: section.ID, Row: row.Label, Seat: seat.Label}
			if !seat.Available && !selected[id] {
				continue
			}
			mark := "  "
			if selected[id] {
				mark = "✓ "
			}
			label := fmt.Sprintf("%sRow %s Seat %s  %s", mark, row.Label, seat.Label, formatPrice(seat.Price))
			items = append(items, label)
			seatByLabel[label] = id
		}
	}
	return items, seatByLabel
}

func (p picker) askQuantity() (int, error) {
	limit := p.cfg.MaxQuantity
	validate := func(input string) error {
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return errors.New("enter a number")
		}
		if n < 1 || n > limit {
			return fmt.Errorf("quantity must be between 1 and %d", limit)
		}
		return nil
	}
	value, err := p.ask(fmt.Sprintf("Quantity (1-%d)", limit), validate)
	if err != nil {
		return 0, err
	}
	if err := validate(value); err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(strings.TrimSpace(value))
	return n, nil
}

func promptChoose(label string, items []string) (string, error) {
	searcher := func(input string, index int) bool {
		return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
	}
	selectItem := promptui.Select{
		Label:    label,
		Items:    items,
		Size:     10,
		Searcher: searcher,
	}
	_, value, err := selectItem.Run()
	return value, err
}

func promptAsk(label string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  "1",
		Validate: validate,
	}
	return prompt.Run()
}
