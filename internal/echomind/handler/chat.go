// Package handler provides the HTTP handlers for the chat service.
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/N1njakeks/echomind/internal/echomind/biz"
	"github.com/N1njakeks/echomind/internal/model"
	"github.com/N1njakeks/echomind/internal/pkg/httputils"
	chatopts "github.com/N1njakeks/echomind/pkg/options/chat"
	"github.com/N1njakeks/echomind/pkg/utils/errors"
)

// ChatHandler handles the chat endpoint.
type ChatHandler struct {
	service *biz.ChatService
	opts    *chatopts.Options
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(service *biz.ChatService, opts *chatopts.Options) *ChatHandler {
	return &ChatHandler{
		service: service,
		opts:    opts,
	}
}

// Chat handles POST /v1/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteError(c, errors.ErrQueryRequired.WithCause(err))
		return
	}

	// The deadline also cancels in-flight provider calls when the client
	// disconnects, since gin's request context is the parent.
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.QueryTimeout)
	defer cancel()

	result, err := h.service.Chat(ctx, &req)
	if err != nil {
		httputils.WriteError(c, err)
		return
	}

	httputils.WriteOK(c, result)
}
