package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Client struct {
	bun.BaseModel `bun:"table:clients,alias:c"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	FirstNames string    `bun:"first_names,notnull" json:"first_names"`
	LastNames  *string   `bun:"last_names" json:"last_names,omitempty"`
	Email      *string   `bun:"email" json:"email,omitempty"`
	Phone      string    `bun:"phone,notnull" json:"phone"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
}

// Buyer is the contact data captured at the ticket window.
type Buyer struct {
	FirstNames string  `json:"first_names"`
	Phone      string  `json:"phone"`
	LastNames  *string `json:"last_names,omitempty"`
	Email      *string `json:"email,omitempty"`
}
