package models

import "time"

type Listing struct {
	ID             string     `json:"id"`
	SellerID       string     `json:"seller_id"`
	SellerUsername string     `json:"seller_username"`
	ItemName       string     `json:"item_name"`
	Rarity         Rarity     `json:"rarity"`
	Price          int64      `json:"price"`
	Description    string     `json:"description"`
	IsSold         bool       `json:"is_sold"`
	BuyerID        *string    `json:"buyer_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	SoldAt         *time.Time `json:"sold_at,omitempty"`
}
