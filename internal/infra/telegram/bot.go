package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api *tgbotapi.BotAPI
}

type CommandUpdate struct {
	ChatID  int64
	UserID  int64
	Command string
	Args    string
}

type TextUpdate struct {
	ChatID int64
	UserID int64
	Text   string
}

type CallbackUpdate struct {
	CallbackID string
	ChatID     int64
	UserID     int64
	Data       string
}

type Handlers struct {
	OnCommand  func(context.Context, CommandUpdate) error
	OnText     func(context.Context, TextUpdate) error
	OnCallback func(context.Context, CallbackUpdate) error
}

func NewBot(token string) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}

	api, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}

	return &Bot{api: api}, nil
}

func (b *Bot) Listen(ctx context.Context, handlers Handlers) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := b.api.GetUpdatesChan(updateCfg)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			if update.Message != nil && update.Message.From != nil {
				if update.Message.IsCommand() && handlers.OnCommand != nil {
					err := handlers.OnCommand(ctx, CommandUpdate{
						ChatID:  update.Message.Chat.ID,
						UserID:  update.Message.From.ID,
						Command: update.Message.Command(),
						Args:    update.Message.CommandArguments(),
					})
					if err != nil {
						return err
					}
					continue
				}

				text := strings.TrimSpace(update.Message.Text)
				if text != "" && handlers.OnText != nil {
					err := handlers.OnText(ctx, TextUpdate{
						ChatID: update.Message.Chat.ID,
						UserID: update.Message.From.ID,
						Text:   text,
					})
					if err != nil {
						return err
					}
				}
			}

			if update.CallbackQuery != nil && update.CallbackQuery.From != nil && handlers.OnCallback != nil {
				chatID := int64(0)
				if update.CallbackQuery.Message != nil {
					chatID = update.CallbackQuery.Message.Chat.ID
				}
				err := handlers.OnCallback(ctx, CallbackUpdate{
					CallbackID: update.CallbackQuery.ID,
					ChatID:     chatID,
					UserID:     update.CallbackQuery.From.ID,
					Data:       update.CallbackQuery.Data,
				})
				if err != nil {
					return err
				}
			}
		}
	}
}

func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	return b.send(ctx, tgbotapi.NewMessage(chatID, text))
}

// SendTextRemoveKeyboard clears any previously sent reply keyboard.
func (b *Bot) SendTextRemoveKeyboard(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	return b.send(ctx, msg)
}

// SendMenu attaches a persistent reply keyboard built from row-major
// button labels.
func (b *Bot) SendMenu(ctx context.Context, chatID int64, text string, buttonRows [][]string) error {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(buttonRows))
	for _, labels := range buttonRows {
		row := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, label := range labels {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, row)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	msg.ReplyMarkup = keyboard
	return b.send(ctx, msg)
}

// SendOneTimeMenu is SendMenu with a keyboard that folds away after one
// answer, used by onboarding option prompts.
func (b *Bot) SendOneTimeMenu(ctx context.Context, chatID int64, text string, labels []string) error {
	row := make([]tgbotapi.KeyboardButton, 0, len(labels))
	for _, label := range labels {
		row = append(row, tgbotapi.NewKeyboardButton(label))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	keyboard := tgbotapi.NewReplyKeyboard(row)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	msg.ReplyMarkup = keyboard
	return b.send(ctx, msg)
}

type InlineButton struct {
	Label string
	Data  string
}

// SendInline sends text with one row of inline callback buttons, the
// shape used for profile cards (Pass / Like).
func (b *Bot) SendInline(ctx context.Context, chatID int64, text string, buttons []InlineButton) error {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, button := range buttons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Data))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(row)
	return b.send(ctx, msg)
}

func (b *Bot) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if strings.TrimSpace(callbackID) == "" {
		return nil
	}

	cfg := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(cfg); err != nil {
		return fmt.Errorf("answer callback query: %w", err)
	}

	_ = ctx
	return nil
}

func (b *Bot) send(ctx context.Context, msg tgbotapi.MessageConfig) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if msg.ChatID == 0 {
		return fmt.Errorf("chat id is required")
	}

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	_ = ctx
	return nil
}
