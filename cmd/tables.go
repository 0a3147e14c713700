package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"seatmap-cli/catalog"
	"seatmap-cli/checkout"
	"seatmap-cli/venue"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Options.SeparateRows = true
	return t
}

func renderEvents(w io.Writer, rows []eventRow) {
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Event", "Artist", "Venue", "Date", "Free"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 30},
		{Number: 3, AutoMerge: true},
		{Number: 4, AutoMerge: true, WidthMax: 24},
	})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.event.ID,
			row.event.Title,
			row.artist,
			row.event.Venue.Name,
			row.event.Date.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d/%d", row.available, row.total),
		}, rowConfigAutoMerge)
	}
	t.Render()
}

func renderSections(w io.Writer, event catalog.Event, layout *venue.Layout) {
	t := newTable(w)
	t.SetTitle(event.Title)
	t.AppendHeader(table.Row{"ID", "Section", "Price", "Free", "Status"})
	for _, section := range layout.Sections {
		a := venue.Availability(section)
		t.AppendRow(table.Row{
			section.ID,
			section.Name,
			formatPrice(section.BasePrice),
			fmt.Sprintf("%d/%d", a.Available, a.Total),
			toneLabel(a.Tone()),
		})
	}
	t.Render()
}

func renderRecord(w io.Writer, record checkout.Record) {
	t := newTable(w)
	t.SetTitle("Pending purchase " + record.EventID)
	t.AppendHeader(table.Row{"Section", "Row", "Seat", "Price"})
	for _, item := range record.Tickets {
		t.AppendRow(table.Row{item.Section, item.Row, item.Seat, formatPrice(item.Price)})
	}
	t.AppendFooter(table.Row{"", "", "Quantity", record.Quantity})
	t.AppendFooter(table.Row{"", "", "Total", formatPrice(record.Total())})
	t.Render()
}

func renderReceipt(w io.Writer, receipt checkout.Receipt) {
	t := newTable(w)
	t.SetTitle("Purchase confirmed")
	t.AppendRows([]table.Row{
		{"Purchase", receipt.PurchaseID},
		{"Event", receipt.EventID},
		{"Tickets", fmt.Sprintf("%d x %d", len(receipt.Record.Tickets), receipt.Record.Quantity)},
		{"Total", formatPrice(receipt.Total)},
		{"At", receipt.PurchasedAt.Format(time.DateTime)},
	})
	t.Render()
}

func renderPurchases(w io.Writer, purchases []checkout.Receipt, titles map[string]string) {
	t := newTable(w)
	t.SetTitle("My tickets")
	t.AppendHeader(table.Row{"Purchase", "Event", "Tickets", "Total", "Date"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 30},
	})
	var spent float64
	for _, purchase := range purchases {
		seats := make([]string, 0, len(purchase.Record.Tickets))
		for _, item := range purchase.Record.Tickets {
			seats = append(seats, fmt.Sprintf("%s - Row %s, Seat %s", item.Section, item.Row, item.Seat))
		}
		if purchase.Record.Quantity > 1 {
			seats = append(seats, fmt.Sprintf("x %d", purchase.Record.Quantity))
		}
		t.AppendRow(table.Row{
			purchase.PurchaseID,
			titles[purchase.EventID],
			strings.Join(seats, "\n"),
			formatPrice(purchase.Total),
			purchase.PurchasedAt.Format(time.DateOnly),
		})
		spent += purchase.Total
	}
	t.AppendFooter(table.Row{"", "", "Total", formatPrice(spent), ""})
	t.Render()
}

func renderArtists(w io.Writer, artists []catalog.Artist) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Artist", "Events"})
	for _, artist := range artists {
		t.AppendRow(table.Row{artist.ID, artist.Name, len(artist.EventIDs)})
	}
	t.Render()
}

func toneLabel(tone venue.Tone) string {
	switch tone {
	case venue.ToneAvailable:
		return "available"
	case venue.ToneLow:
		return "few left"
	default:
		return "sold out"
	}
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}
