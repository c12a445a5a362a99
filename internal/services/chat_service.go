package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/baharkarakas/case-market/internal/logger"
	"github.com/baharkarakas/case-market/internal/models"
	repo "github.com/baharkarakas/case-market/internal/repository"
)

const maxMessageLen = 2000

type ChatService struct {
	listings repo.Listings
	messages repo.Messages
}

func NewChatService(listings repo.Listings, messages repo.Messages) *ChatService {
	return &ChatService{listings: listings, messages: messages}
}

func (s *ChatService) SendMessage(ctx context.Context, listingID, senderID, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if listingID == "" || senderID == "" || text == "" {
		return models.ChatMessage{}, fmt.Errorf("%w: listing_id, sender_id and message are required", models.ErrInvalidArgument)
	}
	if len(text) > maxMessageLen {
		return models.ChatMessage{}, fmt.Errorf("%w: message longer than %d bytes", models.ErrInvalidArgument, maxMessageLen)
	}
	if err := s.requireListing(ctx, listingID); err != nil {
		return models.ChatMessage{}, err
	}

	msg, err := s.messages.Create(ctx, models.ChatMessage{
		ListingID: listingID,
		SenderID:  senderID,
		Message:   text,
	})
	if err != nil {
		return models.ChatMessage{}, err
	}
	logger.FromContext(ctx).Debug("chat message sent", "listing_id", listingID, "sender_id", senderID)
	return msg, nil
}

// ListMessages returns a listing's messages, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, listingID string) ([]models.ChatMessage, error) {
	if err := s.requireListing(ctx, listingID); err != nil {
		return nil, err
	}
	return s.messages.ListByListing(ctx, listingID)
}

func (s *ChatService) requireListing(ctx context.Context, listingID string) error {
	ok, err := s.listings.Exists(ctx, listingID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: listing %s", models.ErrNotFound, listingID)
	}
	return nil
}
