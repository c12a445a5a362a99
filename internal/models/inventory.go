package models

import "time"

type Rarity string

const (
	RarityLegendary Rarity = "legendary"
	RarityEpic      Rarity = "epic"
	RarityRare      Rarity = "rare"
	RarityCommon    Rarity = "common"
)

type InventoryItem struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ItemName   string    `json:"item_name"`
	Rarity     Rarity    `json:"rarity"`
	AcquiredAt time.Time `json:"acquired_at"`
}
