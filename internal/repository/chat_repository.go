package repository

import (
	"context"

	"github.com/carebase/admin-api/internal/domain"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// Recent returns the caller's last limit messages, oldest first
func (r *ChatRepository) Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	query := r.db.WithContext(ctx).Model(&domain.ChatMessage{})
	query = ApplyScope(ctx, query, domain.EntityChatMessages)
	if err := query.Order("chat_messages.created_at DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
