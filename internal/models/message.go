package models

import "time"

type ChatMessage struct {
	ID             string    `json:"id"`
	ListingID      string    `json:"listing_id"`
	SenderID       string    `json:"sender_id"`
	SenderUsername string    `json:"sender_username"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
