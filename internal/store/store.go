// Package store persists named deals: a deal input together with its
// refinancing scenario.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/deal-analyzer/internal/analysis"
)

// ErrNotFound is returned when no deal exists for an ID.
var ErrNotFound = errors.New("deal not found")

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SavedDeal is a deal stored under a name.
type SavedDeal struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Deal      analysis.DealInput     `json:"deal"`
	Scenario  analysis.ScenarioInput `json:"scenario"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// DealStore is implemented by every storage backend.
type DealStore interface {
	// Save inserts the deal, assigning an ID when it has none, or replaces
	// the stored deal with the same ID.
	Save(ctx context.Context, deal SavedDeal) (SavedDeal, error)
	Get(ctx context.Context, id uuid.UUID) (SavedDeal, error)
	// List returns all deals, oldest first.
	List(ctx context.Context) ([]SavedDeal, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// payload is the serialized part of a saved deal.
type payload struct {
	Deal     analysis.DealInput     `json:"deal"`
	Scenario analysis.ScenarioInput `json:"scenario"`
}

func encodePayload(d SavedDeal) ([]byte, error) {
	data, err := json.Marshal(payload{Deal: d.Deal, Scenario: d.Scenario})
	if err != nil {
		return nil, fmt.Errorf("failed to encode deal %s: %w", d.ID, err)
	}
	return data, nil
}

func decodePayload(d *SavedDeal, data []byte) error {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to decode deal %s: %w", d.ID, err)
	}
	d.Deal = p.Deal
	d.Scenario = p.Scenario
	return nil
}

// prepare validates the name and stamps ID and times before a save.
func prepare(d SavedDeal, now time.Time) (SavedDeal, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return SavedDeal{}, fmt.Errorf("deal name is required")
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	d.Deal = d.Deal.Clone()
	return d, nil
}
