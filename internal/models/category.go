package models

import (
	"time"
)

type Category struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	ServiceCount int       `json:"service_count"`
	CreatedAt    time.Time `json:"created_at"`
}
