// Package types defines shared data structures used across the application.
package types

import (
	"time"

	"github.com/calder-ross/almagest/pkg/horizon"
)

// EventRecord is the storable form of a horizon event. The ID is the
// event's stable UUID, so re-running a scan over the same window upserts
// rather than duplicates. IDs are shared across observers; archive rows
// are keyed by (id, observer).
type EventRecord struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	Observer    string    `gorm:"column:observer;primaryKey" json:"observer"`
	EventType   string    `gorm:"column:event_type" json:"event_type"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	EventTime   time.Time `gorm:"column:event_time" json:"event_time"`
	Planet      string    `gorm:"column:planet" json:"planet"`
	Planet2     string    `gorm:"column:planet2" json:"planet2,omitempty"`
	Magnitude   float64   `gorm:"column:magnitude" json:"magnitude,omitempty"`
}

// NewEventRecord converts a horizon event for storage, tagged with the
// observer the scan was run for.
func NewEventRecord(observer string, ev horizon.Event) EventRecord {
	rec := EventRecord{
		ID:          ev.ID,
		Observer:    observer,
		EventType:   ev.Type.String(),
		Title:       ev.Title,
		Description: ev.Description,
		EventTime:   ev.Date,
		Planet:      ev.Planet.String(),
		Magnitude:   ev.Magnitude,
	}
	if ev.Type == horizon.Conjunction || ev.Type == horizon.Opposition {
		rec.Planet2 = ev.Planet2.String()
	}
	return rec
}
