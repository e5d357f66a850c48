package messages

import (
	"context"

	"github.com/dmitrijs2005/flatfinder/internal/server/models"
)

// Repository persists messages. Listings are ordered by creation time with
// ties broken by insertion order, oldest first unless stated otherwise.
type Repository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetByID(ctx context.Context, id string) (*models.Message, error)
	ListByFlat(ctx context.Context, flatID string) ([]*models.Message, error)
	ListByFlatAndSender(ctx context.Context, flatID, senderID string) ([]*models.Message, error)
	// ListConversation returns the messages on flatID sent by either a or b.
	ListConversation(ctx context.Context, flatID, a, b string) ([]*models.Message, error)
	// ListBySender returns every message of senderID, newest first.
	ListBySender(ctx context.Context, senderID string) ([]*models.Message, error)
	// Senders summarizes who wrote about flatID, most recent activity first.
	Senders(ctx context.Context, flatID string) ([]models.SenderSummary, error)
	Delete(ctx context.Context, id string) error
	DeleteByFlat(ctx context.Context, flatID string) (int64, error)
	DeleteBySender(ctx context.Context, senderID string) (int64, error)
}
