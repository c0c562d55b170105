// Package history records settled predictions in the local database.
package history

import (
	"database/sql"
	"math"
	"time"

	"github.com/evcraddock/price-estimator/internal/predict"
)

// Outcome is how a submission settled.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// ValidOutcome returns true if s is a known outcome.
func ValidOutcome(s string) bool {
	switch Outcome(s) {
	case OutcomeSucceeded, OutcomeFailed:
		return true
	}
	return false
}

// Record is one settled submission.
type Record struct {
	ID           int64     `json:"id"`
	PropertyType string    `json:"property_type"`
	Township     string    `json:"township"`
	Bedrooms     *float64  `json:"bedrooms"`
	PropertySize *float64  `json:"property_size"`
	Outcome      Outcome   `json:"outcome"`
	Price        *float64  `json:"price,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	Message      string    `json:"message,omitempty"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromEvent builds a record from a controller event. It returns false for
// events that are not settled outcomes.
func FromEvent(ev predict.Event, source string) (*Record, bool) {
	r := &Record{
		PropertyType: ev.Input.PropertyType,
		Township:     ev.Input.Township,
		Bedrooms:     nullable(ev.Input.Bedrooms),
		PropertySize: nullable(ev.Input.PropertySize),
		Source:       source,
	}

	switch s := ev.State.(type) {
	case predict.Succeeded:
		price := s.Result.EstimatedPrice
		r.Outcome = OutcomeSucceeded
		r.Price = &price
		r.Currency = s.Result.Currency
	case predict.Failed:
		r.Outcome = OutcomeFailed
		r.Message = s.Message
	default:
		return nil, false
	}
	return r, true
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// scanRecord scans a record from a database row.
func scanRecord(row interface{ Scan(...interface{}) error }) (*Record, error) {
	var r Record
	var bedrooms, size, price sql.NullFloat64
	var currency sql.NullString
	var outcome string

	err := row.Scan(
		&r.ID, &r.PropertyType, &r.Township, &bedrooms, &size,
		&outcome, &price, &currency, &r.Message, &r.Source, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bedrooms.Valid {
		r.Bedrooms = &bedrooms.Float64
	}
	if size.Valid {
		r.PropertySize = &size.Float64
	}
	if price.Valid {
		r.Price = &price.Float64
	}
	if currency.Valid {
		r.Currency = currency.String
	}
	r.Outcome = Outcome(outcome)

	return &r, nil
}
