// Package events fans realtime notifications out to connected clients and brokers.
package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event names pushed to subscribers.
const (
	NewMessage        = "new-message"
	MessagesRead      = "messages-read"
	MessageEdited     = "message-edited"
	MessageDeleted    = "message-deleted"
	ChatUpdated       = "chat-updated"
	ChatActivity      = "chat-activity"
	MemberJoined      = "member:joined"
	MemberLeft        = "member:left"
	ApplicationStatus = "application-status"

	// SubscriptionRevoked tells the hub to drop a user's subscriptions.
	SubscriptionRevoked = "subscription-revoked"
)

// ChannelKind is the prefix of a channel name.
type ChannelKind string

const (
	KindChat        ChannelKind = "chat"
	KindPrivateChat ChannelKind = "private-chat"
	KindUser        ChannelKind = "user"
	KindCommunity   ChannelKind = "community"
)

// ErrInvalidChannel is returned for channel names outside the known kinds.
var ErrInvalidChannel = errors.New("invalid channel")

// ChatChannel names the channel of every participant of a chat.
func ChatChannel(chatID int64) string { return channel(KindChat, chatID) }

// PrivateChatChannel names the channel clients use for direct chat windows.
func PrivateChatChannel(chatID int64) string { return channel(KindPrivateChat, chatID) }

// UserChannel names a user's personal channel.
func UserChannel(userID int64) string { return channel(KindUser, userID) }

// CommunityChannel names a community's channel.
func CommunityChannel(communityID int64) string { return channel(KindCommunity, communityID) }

func channel(kind ChannelKind, id int64) string {
	return string(kind) + "-" + strconv.FormatInt(id, 10)
}

// ParseChannel splits "chat-12" into (KindChat, 12).
func ParseChannel(name string) (ChannelKind, int64, error) {
	idx := strings.LastIndex(name, "-")
	if idx <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidChannel, name)
	}
	kind := ChannelKind(name[:idx])
	switch kind {
	case KindChat, KindPrivateChat, KindUser, KindCommunity:
	default:
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidChannel, name)
	}
	id, err := strconv.ParseInt(name[idx+1:], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidChannel, name)
	}
	return kind, id, nil
}

// Event is one realtime notification.
type Event struct {
	Channel   string      `json:"channel"`
	Name      string      `json:"event"`
	Payload   interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// New stamps an event for channel.
func New(channel, name string, payload interface{}) Event {
	return Event{Channel: channel, Name: name, Payload: payload, Timestamp: time.Now().UTC()}
}

// Revocation lists the channels a user may no longer receive.
type Revocation struct {
	UserID   int64    `json:"userId"`
	Channels []string `json:"channels"`
}

// Revoke builds the event that removes userID from channels. It is sent on the
// user's own channel so the client learns why the stream stopped.
func Revoke(userID int64, channels ...string) Event {
	return New(UserChannel(userID), SubscriptionRevoked, Revocation{UserID: userID, Channels: channels})
}

// Publisher delivers events to subscribers of their channel.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
