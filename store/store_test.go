package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"seatmap-cli/checkout"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
}

func testRecord() checkout.Record {
	return checkout.Record{
		EventID:   "event-1",
		TicketIDs: []string{"ticket-event-1-section-1-A-1"},
		Quantity:  2,
		Tickets: []checkout.LineItem{{
			ID: "ticket-event-1-section-1-A-1", Section: "Floor A", Row: "A", Seat: "1", Price: 299,
		}},
	}
}

func TestPending_RoundTripConsumes(t *testing.T) {
	setTestDirs(t)

	if err := SavePending(testRecord()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	record, ok, err := LoadPending()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !ok {
		t.Fatal("expected a pending record")
	}
	if record.Quantity != 2 || len(record.Tickets) != 1 || record.Tickets[0].Price != 299 {
		t.Fatalf("expected the saved record, got %+v", record)
	}

	_, ok, err = LoadPending()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ok {
		t.Fatal("expected the record to be consumed")
	}
}

func TestPending_Missing(t *testing.T) {
	setTestDirs(t)

	_, ok, err := LoadPending()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ok {
		t.Fatal("expected nothing pending")
	}
	if err := DiscardPending(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestPending_Expired(t *testing.T) {
	setTestDirs(t)

	path, err := cachePath(pendingFile)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	stale := cacheEnvelope[checkout.Record]{UpdatedAt: time.Now().Add(-2 * pendingTTL), Data: testRecord()}
	payload, _ := json.Marshal(stale)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	_, ok, err := LoadPending()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ok {
		t.Fatal("expected expired record to be ignored")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected expired record to be removed, got %v", err)
	}
}

func TestSavePending_RejectsInvalid(t *testing.T) {
	setTestDirs(t)

	if err := SavePending(checkout.Record{EventID: "event-1"}); err == nil {
		t.Fatal("expected error for record without tickets")
	}
}

func TestDiscardPending(t *testing.T) {
	setTestDirs(t)

	if err := SavePending(testRecord()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := DiscardPending(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok, _ := LoadPending(); ok {
		t.Fatal("expected nothing pending after discard")
	}
}

func TestRememberEvent_MovesToFront(t *testing.T) {
	setTestDirs(t)

	for _, id := range []string{"event-1", "event-2", "event-3"} {
		if err := RememberEvent(id, "title "+id); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	if err := RememberEvent("event-1", "title event-1"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	recent, err := LoadRecentEvents()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 recent events, got %+v", recent)
	}
	if recent[0].ID != "event-1" || recent[1].ID != "event-3" || recent[2].ID != "event-2" {
		t.Fatalf("expected event-1 first, got %+v", recent)
	}
}

func TestRememberEvent_CapsHistory(t *testing.T) {
	setTestDirs(t)

	for i := 0; i < maxRecentEvents+4; i++ {
		id := "event-" + string(rune('a'+i))
		if err := RememberEvent(id, id); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	recent, _ := LoadRecentEvents()
	if len(recent) != maxRecentEvents {
		t.Fatalf("expected %d recent events, got %d", maxRecentEvents, len(recent))
	}
}

func TestRememberEvent_InvalidInput(t *testing.T) {
	setTestDirs(t)

	if err := RememberEvent("", "x"); err == nil {
		t.Fatal("expected error for empty event id")
	}
}

func writeConfigFile(t *testing.T, name string, data string) string {
	t.Helper()
	path, err := configPath(name)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestRememberEvent_KeepsCorruptHistory(t *testing.T) {
	setTestDirs(t)
	path := writeConfigFile(t, recentFile, "{not json")

	if _, err := LoadRecentEvents(); !errors.Is(err, ErrInvalidHistory) {
		t.Fatalf("expected ErrInvalidHistory, got %v", err)
	}
	if err := RememberEvent("event-1", "The Eras Tour"); !errors.Is(err, ErrInvalidHistory) {
		t.Fatalf("expected ErrInvalidHistory from RememberEvent, got %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if string(data) != "{not json" {
		t.Fatalf("expected history left untouched, got %q", data)
	}
}

func testReceipt(id string, eventID string, at time.Time) checkout.Receipt {
	record := testRecord()
	record.EventID = eventID
	return checkout.Receipt{
		PurchaseID:  id,
		EventID:     eventID,
		PurchasedAt: at,
		Total:       record.Total(),
		Record:      record,
	}
}

func TestPurchases_NewestFirst(t *testing.T) {
	setTestDirs(t)

	purchases, err := LoadPurchases()
	if err != nil || len(purchases) != 0 {
		t.Fatalf("expected no purchases, got %v (err %v)", purchases, err)
	}

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for _, receipt := range []checkout.Receipt{
		testReceipt("purchase-1", "event-1", at),
		testReceipt("purchase-2", "event-3", at.Add(time.Hour)),
		testReceipt("purchase-1", "event-1", at),
	} {
		if err := SavePurchase(receipt); err != nil {
			t.Fatalf("save %s: %v", receipt.PurchaseID, err)
		}
	}

	purchases, err = LoadPurchases()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(purchases) != 2 {
		t.Fatalf("expected a purchase id recorded once, got %d purchases", len(purchases))
	}
	if purchases[0].PurchaseID != "purchase-2" || purchases[1].PurchaseID != "purchase-1" {
		t.Fatalf("expected newest first, got %s, %s", purchases[0].PurchaseID, purchases[1].PurchaseID)
	}
	if purchases[1].Total != 598 || !purchases[1].PurchasedAt.Equal(at) {
		t.Fatalf("expected receipt kept as saved, got %+v", purchases[1])
	}

	forEvent, err := PurchasesFor("event-3")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(forEvent) != 1 || forEvent[0].PurchaseID != "purchase-2" {
		t.Fatalf("expected only purchase-2 for event-3, got %v", forEvent)
	}
}

func TestSavePurchase_RejectsInvalid(t *testing.T) {
	setTestDirs(t)

	if err := SavePurchase(testReceipt("", "event-1", time.Now())); err == nil {
		t.Fatal("expected error for a missing purchase id")
	}
	invalid := testReceipt("purchase-1", "event-1", time.Now())
	invalid.Record.TicketIDs = nil
	if err := SavePurchase(invalid); err == nil {
		t.Fatal("expected error for an empty record")
	}
}

func TestSavePurchase_KeepsCorruptHistory(t *testing.T) {
	setTestDirs(t)
	writeConfigFile(t, purchasesFile, "[")

	if err := SavePurchase(testReceipt("purchase-1", "event-1", time.Now())); !errors.Is(err, ErrInvalidHistory) {
		t.Fatalf("expected ErrInvalidHistory, got %v", err)
	}
}
