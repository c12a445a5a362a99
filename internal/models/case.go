package models

import (
	"encoding/json"
	"time"
)

type Case struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	IsActive bool   `json:"is_active"`
	// RewardTable is the case's own reward configuration as stored; empty
	// means the process-wide table applies.
	RewardTable json.RawMessage `json:"reward_table,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
