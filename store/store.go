package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"seatmap-cli/checkout"
)

const (
	appDir          = "seatmap-cli"
	pendingFile     = "pending_purchase.json"
	recentFile      = "recent_events.json"
	purchasesFile   = "purchases.json"
	pendingTTL      = 30 * time.Minute
	maxRecentEvents = 8
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

type RecentEvent struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ErrInvalidHistory is returned for a history file that cannot be decoded.
// It is left in place rather than overwritten.
var ErrInvalidHistory = errors.New("invalid history format")

type eventHistory struct {
	Events []RecentEvent `json:"events"`
}

// SavePending stores the purchase waiting for confirmation, replacing any
// previous one.
func SavePending(record checkout.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	path, err := cachePath(pendingFile)
	if err != nil {
		return err
	}
	return saveCache(path, record)
}

// LoadPending returns the pending purchase and removes it, so a record is
// confirmed at most once. ok is false when nothing is pending or the record
// is older than the TTL.
func LoadPending() (checkout.Record, bool, error) {
	path, err := cachePath(pendingFile)
	if err != nil {
		return checkout.Record{}, false, err
	}
	cache, found, err := loadCache[checkout.Record](path)
	if err != nil {
		return checkout.Record{}, false, err
	}
	if !found {
		return checkout.Record{}, false, nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return checkout.Record{}, false, err
	}
	if time.Since(cache.UpdatedAt) > pendingTTL {
		return checkout.Record{}, false, nil
	}
	if err := cache.Data.Validate(); err != nil {
		return checkout.Record{}, false, err
	}
	return cache.Data, true, nil
}

// DiscardPending drops the pending purchase without reading it.
func DiscardPending() error {
	path, err := cachePath(pendingFile)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func LoadRecentEvents() ([]RecentEvent, error) {
	path, err := configPath(recentFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history eventHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("event history: %w", ErrInvalidHistory)
	}
	return history.Events, nil
}

// RememberEvent moves the event to the front of the history.
func RememberEvent(id string, title string) error {
	if id == "" {
		return errors.New("event id is required")
	}
	history, err := LoadRecentEvents()
	if err != nil {
		return err
	}
	next := []RecentEvent{{ID: id, Title: title}}
	for _, existing := range history {
		if existing.ID == id {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentEvents {
			break
		}
	}
	return saveRecentEvents(next)
}

// SavePurchase appends a confirmed purchase to the history. A purchase id is
// recorded once.
func SavePurchase(receipt checkout.Receipt) error {
	if receipt.PurchaseID == "" {
		return errors.New("purchase id is required")
	}
	if err := receipt.Record.Validate(); err != nil {
		return err
	}
	purchases, err := LoadPurchases()
	if err != nil {
		return err
	}
	for _, existing := range purchases {
		if existing.PurchaseID == receipt.PurchaseID {
			return nil
		}
	}
	path, err := configPath(purchasesFile)
	if err != nil {
		return err
	}
	return saveCache(path, append([]checkout.Receipt{receipt}, purchases...))
}

// LoadPurchases returns every recorded purchase, newest first.
func LoadPurchases() ([]checkout.Receipt, error) {
	path, err := configPath(purchasesFile)
	if err != nil {
		return nil, err
	}
	cache, found, err := loadCache[[]checkout.Receipt](path)
	if err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return nil, fmt.Errorf("purchases: %w", ErrInvalidHistory)
		}
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return cache.Data, nil
}

// PurchasesFor filters LoadPurchases to one event.
func PurchasesFor(eventID string) ([]checkout.Receipt, error) {
	purchases, err := LoadPurchases()
	if err != nil {
		return nil, err
	}
	var matched []checkout.Receipt
	for _, purchase := range purchases {
		if purchase.EventID == eventID {
			matched = append(matched, purchase)
		}
	}
	return matched, nil
}

func loadCache[T any](path string) (cacheEnvelope[T], bool, error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, false, nil
		}
		return cache, false, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, false, err
	}
	return cache, true, nil
}

func saveCache[T any](path string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func saveRecentEvents(events []RecentEvent) error {
	path, err := configPath(recentFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(eventHistory{Events: events}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}
