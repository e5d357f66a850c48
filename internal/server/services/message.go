package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/logging"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
	"github.com/dmitrijs2005/flatfinder/internal/server/policy"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flatfinder/internal/server/validate"
	"github.com/google/uuid"
)

type MessageService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewMessageService(m repomanager.RepositoryManager, log logging.Logger) *MessageService {
	return &MessageService{repomanager: m, log: log.With("module", "messages")}
}

// Create posts a message from the caller about an existing flat.
func (s *MessageService) Create(ctx context.Context, caller *policy.Identity, flatID string, raw validate.Raw) (*models.Message, error) {
	if caller == nil {
		return nil, common.ErrorUnauthorized
	}

	content, err := validate.NewMessage(raw)
	if err != nil {
		return nil, err
	}

	repos := s.repomanager.Repos()
	if _, err := repos.Flats.GetByID(ctx, flatID); err != nil {
		return nil, s.flatError(ctx, err)
	}

	m, err := repos.Messages.Create(ctx, &models.Message{
		ID:        uuid.NewString(),
		Content:   content,
		FlatID:    flatID,
		SenderID:  caller.UserID,
		CreatedBy: caller.UserID,
	})
	if err != nil {
		return nil, s.internal(ctx, "create message", err)
	}

	s.log.Debug(ctx, "message created", "message_id", m.ID, "flat_id", flatID, "sender_id", caller.UserID)
	return m, nil
}

// ListForFlat returns every message about a flat, oldest first.
func (s *MessageService) ListForFlat(ctx context.Context, flatID string) ([]*models.Message, error) {
	res, err := s.repomanager.Repos().Messages.ListByFlat(ctx, flatID)
	if err != nil {
		return nil, s.internal(ctx, "list flat messages", err)
	}
	return res, nil
}

// ListForSender returns the messages senderID wrote about a flat, oldest first.
func (s *MessageService) ListForSender(ctx context.Context, flatID, senderID string) ([]*models.Message, error) {
	res, err := s.repomanager.Repos().Messages.ListByFlatAndSender(ctx, flatID, senderID)
	if err != nil {
		return nil, s.internal(ctx, "list sender messages", err)
	}
	return res, nil
}

// Conversation returns the messages on a flat written by its owner or by
// userID, oldest first.
func (s *MessageService) Conversation(ctx context.Context, flatID, userID string) ([]*models.Message, error) {
	repos := s.repomanager.Repos()

	f, err := repos.Flats.GetByID(ctx, flatID)
	if err != nil {
		return nil, s.flatError(ctx, err)
	}

	res, err := repos.Messages.ListConversation(ctx, flatID, f.OwnerID, userID)
	if err != nil {
		return nil, s.internal(ctx, "list conversation", err)
	}
	return res, nil
}

// ListBySender returns everything senderID wrote, newest first.
func (s *MessageService) ListBySender(ctx context.Context, senderID string) ([]*models.Message, error) {
	res, err := s.repomanager.Repos().Messages.ListBySender(ctx, senderID)
	if err != nil {
		return nil, s.internal(ctx, "list messages by sender", err)
	}
	return res, nil
}

func (s *MessageService) Senders(ctx context.Context, flatID string) ([]models.SenderSummary, error) {
	res, err := s.repomanager.Repos().Messages.Senders(ctx, flatID)
	if err != nil {
		return nil, s.internal(ctx, "list senders", err)
	}
	return res, nil
}

func (s *MessageService) Get(ctx context.Context, id string) (*models.Message, error) {
	m, err := s.repomanager.Repos().Messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errMessageNotFound
		}
		return nil, s.internal(ctx, "get message", err)
	}
	return m, nil
}

// Delete removes a single message. Moderation only.
func (s *MessageService) Delete(ctx context.Context, caller *policy.Identity, id string) error {
	if !caller.IsAdmin() {
		return common.NewError(common.ErrorForbidden, "admin access required")
	}
	if err := s.repomanager.Repos().Messages.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errMessageNotFound
		}
		return s.internal(ctx, "delete message", err)
	}
	s.log.Info(ctx, "message deleted", "message_id", id, "by", caller.UserID)
	return nil
}

func (s *MessageService) flatError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errFlatNotFound
	}
	return s.internal(ctx, "get flat", err)
}

func (s *MessageService) internal(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, op, "error", err)
	return fmt.Errorf("%s: %w", op, common.ErrorInternal)
}
