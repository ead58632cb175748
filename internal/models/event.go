package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID          int64      `bun:"id,pk,autoincrement" json:"id"`
	Type        string     `bun:"type,notnull" json:"type"`
	TotalCost   float64    `bun:"total_cost,notnull" json:"total_cost"`
	Description *string    `bun:"description" json:"description,omitempty"`
	StartTime   *time.Time `bun:"start_time" json:"start_time,omitempty"`
	EndTime     *time.Time `bun:"end_time" json:"end_time,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,notnull" json:"created_at"`
}

type CreateEventRequest struct {
	Type        string  `json:"type"`
	TotalCost   float64 `json:"total_cost"`
	Description *string `json:"description,omitempty"`
	StartTime   *string `json:"start_time,omitempty"` // "2006-01-02 15:04:05" or RFC 3339
	EndTime     *string `json:"end_time,omitempty"`
}
