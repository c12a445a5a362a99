package postgres

import (
	"context"

	"github.com/baharkarakas/case-market/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type messagesRepo struct{ pool *pgxpool.Pool }

func (r *messagesRepo) Create(ctx context.Context, m models.ChatMessage) (models.ChatMessage, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`WITH ins AS (
		   INSERT INTO chat_messages (id, listing_id, sender_id, message)
		   VALUES ($1,$2,$3,$4)
		   RETURNING sender_id, created_at
		 )
		 SELECT ins.created_at, u.username
		   FROM ins JOIN users u ON u.id = ins.sender_id`,
		m.ID, m.ListingID, m.SenderID, m.Message,
	).Scan(&m.CreatedAt, &m.SenderUsername)
	if err != nil {
		return models.ChatMessage{}, mapErr(err, "message on listing "+m.ListingID)
	}
	return m, nil
}

func (r *messagesRepo) ListByListing(ctx context.Context, listingID string) ([]models.ChatMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cm.id, cm.listing_id, cm.sender_id, u.username, cm.message, cm.created_at
		   FROM chat_messages cm
		   JOIN users u ON u.id = cm.sender_id
		  WHERE cm.listing_id=$1
		  ORDER BY cm.created_at ASC`,
		listingID,
	)
	if err != nil {
		return nil, mapErr(err, "messages")
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ListingID, &m.SenderID, &m.SenderUsername, &m.Message, &m.CreatedAt); err != nil {
			return nil, mapErr(err, "messages")
		}
		out = append(out, m)
	}
	return out, mapErr(rows.Err(), "messages")
}
