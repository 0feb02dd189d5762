package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/hireboard/internal/pkg/events"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func fakeClient(hub *Hub, userID int64) *Client {
	return &Client{hub: hub, send: make(chan []byte, sendBufferSize), userID: userID, logger: zerolog.Nop()}
}

func nextFrame(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var frame map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &frame))
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return nil
	}
}

func TestHub_DeliversOnlyToSubscribers(t *testing.T) {
	hub := startHub(t)
	alice, bob := fakeClient(hub, 1), fakeClient(hub, 2)
	require.True(t, submit(hub, hub.register, alice))
	require.True(t, submit(hub, hub.register, bob))
	require.True(t, submit(hub, hub.subscribe, subscription{client: alice, channel: "chat-7"}))
	assert.Equal(t, "subscribed", nextFrame(t, alice)["event"])

	require.NoError(t, hub.Publish(context.Background(), events.New("chat-7", events.NewMessage, map[string]string{"content": "hi"})))

	frame := nextFrame(t, alice)
	assert.Equal(t, "new-message", frame["event"])
	assert.Equal(t, "chat-7", frame["channel"])
	assert.Equal(t, "hi", frame["data"].(map[string]interface{})["content"])

	select {
	case <-bob.send:
		t.Fatal("bob is not subscribed")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 1, hub.SubscriberCount("chat-7"))
	assert.Equal(t, 2, hub.ClientCount())
}

func TestHub_UnsubscribeAndUnregister(t *testing.T) {
	hub := startHub(t)
	alice := fakeClient(hub, 1)
	submit(hub, hub.register, alice)
	submit(hub, hub.subscribe, subscription{client: alice, channel: "community-3"})
	nextFrame(t, alice)

	submit(hub, hub.unsubscribe, subscription{client: alice, channel: "community-3"})
	assert.Equal(t, "unsubscribed", nextFrame(t, alice)["event"])
	assert.Equal(t, 0, hub.SubscriberCount("community-3"))

	submit(hub, hub.unregister, alice)
	_, ok := <-alice.send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := &Client{hub: hub, send: make(chan []byte, 1), userID: 5, logger: zerolog.Nop()}
	submit(hub, hub.register, slow)
	submit(hub, hub.subscribe, subscription{client: slow, channel: "user-5"})

	for i := 0; i < 3; i++ {
		require.NoError(t, hub.Publish(context.Background(), events.New("user-5", events.ChatActivity, i)))
	}

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_PublishAfterStop(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	<-hub.done

	// fill the buffer so the stopped hub is observed
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.broadcast <- events.Event{}
	}
	assert.ErrorIs(t, hub.Publish(context.Background(), events.New("user-1", "x", nil)), ErrHubStopped)
}

func TestHub_RevocationDropsUserSubscriptions(t *testing.T) {
	hub := startHub(t)
	alice, bob := fakeClient(hub, 1), fakeClient(hub, 2)
	for _, c := range []*Client{alice, bob} {
		require.True(t, submit(hub, hub.register, c))
		require.True(t, submit(hub, hub.subscribe, subscription{client: c, channel: "community-3"}))
		nextFrame(t, c)
	}
	require.True(t, submit(hub, hub.subscribe, subscription{client: alice, channel: "chat-9"}))
	nextFrame(t, alice)

	require.NoError(t, hub.Publish(context.Background(), events.Revoke(1, "community-3")))

	frame := nextFrame(t, alice)
	assert.Equal(t, "unsubscribed", frame["event"])
	assert.Equal(t, "community-3", frame["channel"])
	assert.Equal(t, 1, hub.SubscriberCount("community-3"))
	assert.Equal(t, 1, hub.SubscriberCount("chat-9"))

	require.NoError(t, hub.Publish(context.Background(), events.New("community-3", events.MemberLeft, nil)))
	assert.Equal(t, "member:left", nextFrame(t, bob)["event"])
	select {
	case <-alice.send:
		t.Fatal("revoked subscriber still receives community events")
	case <-time.After(50 * time.Millisecond):
	}
}
