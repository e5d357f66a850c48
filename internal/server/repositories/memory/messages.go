package memory

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
	"github.com/dmitrijs2005/flatfinder/internal/server/repositories/messages"
)

var _ messages.Repository = (*MessageRepository)(nil)

// MessageRepository keeps messages in insertion order, which is also
// creation order.
type MessageRepository struct {
	s *Store
}

func (r *MessageRepository) Create(_ context.Context, msg *models.Message) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.messages {
		if m.ID == msg.ID {
			return nil, common.ErrorAlreadyExists
		}
	}

	m := copyMessage(msg)
	m.CreatedAt = r.s.now()
	m.UpdatedAt = m.CreatedAt
	r.s.messages = append(r.s.messages, m)

	return copyMessage(m), nil
}

func (r *MessageRepository) GetByID(_ context.Context, id string) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.messages {
		if m.ID == id {
			return copyMessage(m), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MessageRepository) ListByFlat(_ context.Context, flatID string) ([]*models.Message, error) {
	return r.filter(func(m *models.Message) bool { return m.FlatID == flatID }), nil
}

func (r *MessageRepository) ListByFlatAndSender(_ context.Context, flatID, senderID string) ([]*models.Message, error) {
	return r.filter(func(m *models.Message) bool {
		return m.FlatID == flatID && m.SenderID == senderID
	}), nil
}

func (r *MessageRepository) ListConversation(_ context.Context, flatID, a, b string) ([]*models.Message, error) {
	return r.filter(func(m *models.Message) bool {
		return m.FlatID == flatID && (m.SenderID == a || m.SenderID == b)
	}), nil
}

func (r *MessageRepository) ListBySender(_ context.Context, senderID string) ([]*models.Message, error) {
	res := r.filter(func(m *models.Message) bool { return m.SenderID == senderID })
	slices.Reverse(res)
	return res, nil
}

func (r *MessageRepository) Senders(_ context.Context, flatID string) ([]models.SenderSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Walking newest first yields senders ordered by latest activity.
	res := make([]models.SenderSummary, 0)
	index := make(map[string]int)
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		m := r.s.messages[i]
		if m.FlatID != flatID {
			continue
		}
		if j, ok := index[m.SenderID]; ok {
			res[j].MessageCount++
			continue
		}
		index[m.SenderID] = len(res)
		res = append(res, models.SenderSummary{SenderID: m.SenderID, MessageCount: 1, LastMessageAt: m.CreatedAt})
	}
	return res, nil
}

func (r *MessageRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := slices.IndexFunc(r.s.messages, func(m *models.Message) bool { return m.ID == id })
	if i < 0 {
		return common.ErrorNotFound
	}
	r.s.messages = slices.Delete(r.s.messages, i, i+1)
	return nil
}

func (r *MessageRepository) DeleteByFlat(_ context.Context, flatID string) (int64, error) {
	return r.deleteWhere(func(m *models.Message) bool { return m.FlatID == flatID }), nil
}

func (r *MessageRepository) DeleteBySender(_ context.Context, senderID string) (int64, error) {
	return r.deleteWhere(func(m *models.Message) bool { return m.SenderID == senderID }), nil
}

func (r *MessageRepository) filter(keep func(*models.Message) bool) []*models.Message {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res := make([]*models.Message, 0)
	for _, m := range r.s.messages {
		if keep(m) {
			res = append(res, copyMessage(m))
		}
	}
	return res
}

func (r *MessageRepository) deleteWhere(match func(*models.Message) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	before := len(r.s.messages)
	r.s.messages = slices.DeleteFunc(r.s.messages, match)
	return int64(before - len(r.s.messages))
}
