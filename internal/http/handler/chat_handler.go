package handler

import (
	"net/http"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/service"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// History godoc
// @Summary Chat history
// @Description Most recent messages of the current user, oldest first
// @Tags Chat
// @Produce json
// @Success 200 {array} domain.ChatMessageDTO
// @Security BearerAuth
// @Router /chat/messages [get]
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatService.History(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "load chat history")
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// Send godoc
// @Summary Send chat message
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body domain.ChatMessageRequest true "Message"
// @Success 201 {object} domain.ChatMessageDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /chat/messages [post]
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.chatService.Send(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "send chat message")
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}
