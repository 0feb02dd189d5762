package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/middleware"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/events"
)

// Handler for WebSocket connections
type Handler struct {
	hub        *Hub
	authorizer Authorizer
	logger     zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authorizer Authorizer, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		authorizer: authorizer,
		logger:     logger.With().Str("component", "ws_handler").Logger(),
	}
}

// HandleConnection godoc
// @Summary Open the realtime event stream
// @Description Upgrades to a WebSocket. The caller is subscribed to user-{id}; further channels
// @Description (chat-{id}, private-chat-{id}, community-{id}) are joined with {"action":"subscribe","channel":"..."}.
// @Tags realtime
// @Security BearerAuth
// @Param token query string false "Access token when the Authorization header cannot be set"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} dto.ErrorResponse
// @Router /realtime/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.HandleAPIError(c, apperrors.ErrUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := newClient(h.hub, conn, user.ID, h.authorizer, h.logger)
	if !submit(h.hub, h.hub.register, client) {
		conn.Close()
		return
	}
	submit(h.hub, h.hub.subscribe, subscription{client: client, channel: events.UserChannel(user.ID)})

	go client.writePump()
	go client.readPump()
}
