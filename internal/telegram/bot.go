// Package telegram connects the conversation engine to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gdg-garage/event-signup-bot/internal/conversation"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// MaxMessageLength is the Telegram limit for one text message.
const MaxMessageLength = 4096

const parseModeMarkdown = "Markdown"

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	AnswerCallbackQuery(config tgbotapi.CallbackConfig) (tgbotapi.APIResponse, error)
}

// Handler receives decoded updates. *conversation.Engine implements it.
type Handler interface {
	HandleCommand(ctx context.Context, chat conversation.Chat, command, args string)
	HandleText(ctx context.Context, chat conversation.Chat, text string)
	HandleSelection(ctx context.Context, chat conversation.Chat, sel conversation.Selection) string
}

type Bot struct {
	api    botAPI
	logger *slog.Logger
	wg     sync.WaitGroup
}

func NewBot(api botAPI, logger *slog.Logger) *Bot {
	return &Bot{api: api, logger: logger}
}

// Send implements conversation.Sender. Long texts go out as several messages
// and the keyboard is attached to the last one. Markdown entities never span
// lines, so a Markdown text that had to be cut inside a line is sent plain.
func (b *Bot) Send(ctx context.Context, msg conversation.Message) error {
	chunks, cut := splitText(msg.Text, MaxMessageLength)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := tgbotapi.NewMessage(msg.ChatID, chunk)
		if msg.Markdown && !cut {
			out.ParseMode = parseModeMarkdown
		}
		if i == len(chunks)-1 && len(msg.Keyboard) > 0 {
			out.ReplyMarkup = keyboard(msg.Keyboard)
		}
		if _, err := b.api.Send(out); err != nil {
			return err
		}
	}
	return nil
}

func keyboard(rows [][]conversation.Button) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, conversation.EncodeSelection(btn.Selection)))
		}
		out = append(out, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

// Blank lines separate entries in list views; single line breaks are the
// fallback.
var splitSeparators = []string{"\n\n", "\n"}

// splitText cuts text into chunks of at most limit runes, preferring entry
// boundaries, then line breaks. cut reports whether some line had to be split.
func splitText(text string, limit int) (chunks []string, cut bool) {
	return splitOn(text, limit, splitSeparators)
}

func splitOn(text string, limit int, seps []string) ([]string, bool) {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}, false
	}
	if len(seps) == 0 {
		var chunks []string
		runes := []rune(text)
		for len(runes) > limit {
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if len(runes) > 0 {
			chunks = append(chunks, string(runes))
		}
		return chunks, true
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	cut := false
	for _, part := range strings.SplitAfter(text, seps[0]) {
		n := utf8.RuneCountInString(part)
		if curLen+n <= limit {
			cur.WriteString(part)
			curLen += n
			continue
		}
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
		if n <= limit {
			cur.WriteString(part)
			curLen = n
			continue
		}
		sub, subCut := splitOn(part, limit, seps[1:])
		cut = cut || subCut
		chunks = append(chunks, sub[:len(sub)-1]...)
		last := sub[len(sub)-1]
		cur.WriteString(last)
		curLen = utf8.RuneCountInString(last)
	}
	if curLen > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks, cut
}

// Run dispatches updates until ctx is done or the channel closes, then waits
// for in-flight updates. Each update is handled on its own goroutine.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update, h Handler) {
	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				defer func() {
					if r := recover(); r != nil {
						b.logger.Error("panic while handling update", "update_id", update.UpdateID, "panic", r)
					}
				}()
				b.dispatch(ctx, update, h)
			}()
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update, h Handler) {
	switch {
	case update.CallbackQuery != nil:
		b.dispatchCallback(ctx, update.CallbackQuery, h)
	case update.Message != nil && update.Message.From != nil && update.Message.Chat != nil:
		msg := update.Message
		chat := conversation.Chat{ID: msg.Chat.ID, Identity: strconv.Itoa(msg.From.ID)}
		if msg.IsCommand() {
			h.HandleCommand(ctx, chat, msg.Command(), msg.CommandArguments())
			return
		}
		if msg.Text != "" {
			h.HandleText(ctx, chat, msg.Text)
		}
	}
}

func (b *Bot) dispatchCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, h Handler) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		b.answer(cq.ID, "")
		return
	}

	sel, err := conversation.DecodeSelection(cq.Data)
	if err != nil {
		if errors.Is(err, conversation.ErrUnknownSelection) {
			b.logger.Debug("dropping unknown callback", "data", cq.Data)
		}
		b.answer(cq.ID, "")
		return
	}

	chat := conversation.Chat{ID: cq.Message.Chat.ID, Identity: strconv.Itoa(cq.From.ID)}
	b.answer(cq.ID, h.HandleSelection(ctx, chat, sel))
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.AnswerCallbackQuery(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Warn("failed to answer callback", "error", err)
	}
}
