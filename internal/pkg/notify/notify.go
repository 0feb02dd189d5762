// Package notify sends operational alerts to administrators.
package notify

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
)

// Notifier delivers admin alerts
type Notifier interface {
	CompanyRegistered(ctx context.Context, company *models.Company, owner *models.User) error
	SendMessage(ctx context.Context, text string) error
}

// sender is the part of tgbotapi.BotAPI the notifier uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts alerts to a Telegram chat
type TelegramNotifier struct {
	bot    sender
	chatID int64
}

// NewTelegramNotifier connects the bot identified by token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// SendMessage posts an HTML formatted message
func (t *TelegramNotifier) SendMessage(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

// CompanyRegistered tells admins a company awaits verification
func (t *TelegramNotifier) CompanyRegistered(ctx context.Context, company *models.Company, owner *models.User) error {
	text := fmt.Sprintf(
		"🏢 <b>New company awaiting verification</b>\n"+
			"<b>%s</b> (#%d)\n"+
			"Owner: %s &lt;%s&gt;",
		html.EscapeString(company.Name), company.ID,
		html.EscapeString(owner.FullName()), html.EscapeString(owner.Email),
	)
	return t.SendMessage(ctx, text)
}

// LogNotifier writes alerts to the log when no bot is configured
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

// SendMessage logs text
func (l *LogNotifier) SendMessage(_ context.Context, text string) error {
	l.logger.Info().Str("alert", text).Msg("Admin alert")
	return nil
}

// CompanyRegistered logs the new company
func (l *LogNotifier) CompanyRegistered(_ context.Context, company *models.Company, owner *models.User) error {
	l.logger.Info().Int64("companyID", company.ID).Str("company", company.Name).Int64("ownerID", owner.ID).
		Msg("New company awaiting verification")
	return nil
}
