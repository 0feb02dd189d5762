package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/pkg/events"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Inbound frames are small control commands
	maxMessageSize = 4 * 1024

	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Authorizer decides whether a user may subscribe to a channel.
type Authorizer interface {
	CanSubscribe(ctx context.Context, userID int64, channel string) (bool, error)
}

// command is an inbound client frame: {"action":"subscribe","channel":"chat-5"}
type command struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	userID     int64
	authorizer Authorizer
	logger     zerolog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, userID int64, authorizer Authorizer, logger zerolog.Logger) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		userID:     userID,
		authorizer: authorizer,
		logger:     logger.With().Int64("userID", userID).Logger(),
	}
}

// readPump reads subscription commands until the connection closes.
func (c *Client) readPump() {
	defer func() {
		submit(c.hub, c.hub.unregister, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn().Err(err).Msg("Unexpected WebSocket close")
			}
			return
		}

		var cmd command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.reply(control("error", "", map[string]string{"message": "malformed command"}))
			continue
		}
		c.handle(cmd)
	}
}

func (c *Client) handle(cmd command) {
	switch cmd.Action {
	case "ping":
		c.reply(control("pong", "", nil))

	case "subscribe":
		if _, _, err := events.ParseChannel(cmd.Channel); err != nil {
			c.reply(control("error", cmd.Channel, map[string]string{"message": "unknown channel"}))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		allowed, err := c.authorizer.CanSubscribe(ctx, c.userID, cmd.Channel)
		cancel()
		if err != nil {
			c.logger.Error().Err(err).Str("channel", cmd.Channel).Msg("Subscription check failed")
			c.reply(control("error", cmd.Channel, map[string]string{"message": "subscription check failed"}))
			return
		}
		if !allowed {
			c.reply(control("error", cmd.Channel, map[string]string{"message": "forbidden"}))
			return
		}
		submit(c.hub, c.hub.subscribe, subscription{client: c, channel: cmd.Channel})

	case "unsubscribe":
		submit(c.hub, c.hub.unsubscribe, subscription{client: c, channel: cmd.Channel})

	default:
		c.reply(control("error", "", map[string]string{"message": "unknown action"}))
	}
}

// reply sends a control frame to this client only.
func (c *Client) reply(frame []byte) {
	submit(c.hub, c.hub.direct, outbound{client: c, frame: frame})
}

// writePump pumps frames from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
