package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/hireboard/internal/app/models"
)

type fakeBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestTelegramNotifier_CompanyRegisteredEscapesHTML(t *testing.T) {
	bot := &fakeBot{}
	n := &TelegramNotifier{bot: bot, chatID: 99}

	err := n.CompanyRegistered(context.Background(),
		&models.Company{ID: 3, Name: "<Acme & Co>"},
		&models.User{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@acme.io"})
	require.NoError(t, err)

	require.Len(t, bot.sent, 1)
	msg := bot.sent[0]
	assert.Equal(t, int64(99), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "&lt;Acme &amp; Co&gt;")
	assert.Contains(t, msg.Text, "jane@acme.io")
}

func TestTelegramNotifier_PropagatesSendError(t *testing.T) {
	n := &TelegramNotifier{bot: &fakeBot{err: errors.New("forbidden")}, chatID: 1}
	assert.Error(t, n.SendMessage(context.Background(), "hi"))
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(zerolog.Nop())
	assert.NoError(t, n.SendMessage(context.Background(), "hi"))
	assert.NoError(t, n.CompanyRegistered(context.Background(), &models.Company{}, &models.User{}))
}
