package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/mapper"
	"github.com/carebase/admin-api/internal/repository"
	"go.uber.org/zap"
)

// CannedResponse is stored as the assistant's reply to every message
const CannedResponse = "This is a simulated AI response. Integration with OpenAI would be implemented here."

const chatHistoryLimit = 50

// ChatService is the assistant stub. It stores each message with a fixed reply.
type ChatService struct {
	chatRepo *repository.ChatRepository
	logger   *zap.Logger
}

func NewChatService(chatRepo *repository.ChatRepository, logger *zap.Logger) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		logger:   logger,
	}
}

func (s *ChatService) Send(ctx context.Context, req *domain.ChatMessageRequest) (*domain.ChatMessageDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityChatMessages, domain.ActionCreate)
	if err != nil {
		return nil, err
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		UserID:     userCtx.UserID,
		Message:    req.Message,
		AIResponse: CannedResponse,
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}

	dto := mapper.ToChatMessageDTO(msg)
	return &dto, nil
}

// History returns the caller's most recent messages, oldest first
func (s *ChatService) History(ctx context.Context) ([]domain.ChatMessageDTO, error) {
	if _, err := authorize(ctx, domain.EntityChatMessages, domain.ActionRead); err != nil {
		return nil, err
	}

	msgs, err := s.chatRepo.Recent(ctx, chatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	dtos := make([]domain.ChatMessageDTO, len(msgs))
	for i := range msgs {
		dtos[i] = mapper.ToChatMessageDTO(&msgs[i])
	}
	return dtos, nil
}
