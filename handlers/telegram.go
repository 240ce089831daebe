package handlers

import (
	"context"
	"time"

	"oselya/middleware"
	"oselya/models"
	"oselya/services/booking"
	"oselya/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const updateTimeout = 30 * time.Second

const locationButtonText = "📍 Поділитися локацією"

// TelegramHandler bridges Telegram updates and the booking dialogue flow.
// It also satisfies the notification Sender contract for outbound pushes.
type TelegramHandler struct {
	Bot      *tgbotapi.BotAPI
	Flow     booking.BookingFlowService
	dispatch *chatDispatcher
}

// NewTelegramHandler returns a ready TelegramHandler.
func NewTelegramHandler(bot *tgbotapi.BotAPI, flow booking.BookingFlowService) *TelegramHandler {
	return &TelegramHandler{
		Bot:      bot,
		Flow:     flow,
		dispatch: newChatDispatcher(),
	}
}

// RunPolling consumes updates over long polling until ctx is cancelled.
// Used when no webhook URL is configured.
func (h *TelegramHandler) RunPolling(ctx context.Context) {
	logger := utils.GetLogger()

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(updateTimeout.Seconds())
	updates := h.Bot.GetUpdatesChan(cfg)

	logger.Info("telegram polling started", zap.String("botUsername", h.Bot.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			h.Bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			h.HandleUpdate(update)
		}
	}
}

// HandleUpdate routes one update onto its chat's serial queue. Overflowing
// or rate-limited chats have the update dropped with a log line.
func (h *TelegramHandler) HandleUpdate(update tgbotapi.Update) {
	logger := utils.GetLogger()

	chatID, ok := updateChatID(update)
	if !ok {
		return
	}

	if !middleware.AllowChat(chatID) {
		logger.Warn("chat message budget exceeded, update dropped", zap.Int64("chatId", chatID))
		return
	}

	queued := h.dispatch.Enqueue(chatID, func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic while processing update",
					zap.Int64("chatId", chatID), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
		defer cancel()
		h.processUpdate(ctx, update)
	})
	if !queued {
		logger.Warn("chat queue full, update dropped", zap.Int64("chatId", chatID))
	}
}

func (h *TelegramHandler) processUpdate(ctx context.Context, update tgbotapi.Update) {
	logger := utils.GetLogger()

	if cq := update.CallbackQuery; cq != nil && cq.Message != nil {
		// Acknowledge first so the client stops its spinner regardless of
		// how the action is handled.
		if _, err := h.Bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			logger.Warn("callback ack failed", zap.Error(err))
		}

		client := models.ClientInfo{
			ChatID:   cq.Message.Chat.ID,
			Username: cq.From.UserName,
		}
		reply, err := h.Flow.HandleAction(ctx, client, cq.Data)
		h.deliver(client.ChatID, reply, err)
		return
	}

	msg := update.Message
	if msg == nil {
		return
	}

	client := models.ClientInfo{ChatID: msg.Chat.ID}
	if msg.From != nil {
		client.Username = msg.From.UserName
	}

	var (
		reply models.Reply
		err   error
	)
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		reply, err = h.Flow.StartConversation(ctx, client)
	case msg.IsCommand() && msg.Command() == "bookings":
		reply, err = h.Flow.ListBookings(ctx, client)
	case msg.Location != nil:
		reply, err = h.Flow.HandleLocation(ctx, client, msg.Location.Latitude, msg.Location.Longitude)
	default:
		reply, err = h.Flow.HandleText(ctx, client, msg.Text)
	}
	h.deliver(client.ChatID, reply, err)
}

func (h *TelegramHandler) deliver(chatID int64, reply models.Reply, err error) {
	logger := utils.GetLogger()
	if err != nil {
		logger.Error("flow returned error", zap.Int64("chatId", chatID), zap.Error(err))
	}
	if reply.Empty() {
		return
	}
	if sendErr := h.send(chatID, reply); sendErr != nil {
		logger.Error("failed to send reply", zap.Int64("chatId", chatID), zap.Error(sendErr))
	}
}

// send renders a Reply into a Telegram message with the matching keyboard.
func (h *TelegramHandler) send(chatID int64, reply models.Reply) error {
	msg := tgbotapi.NewMessage(chatID, reply.Text)

	switch {
	case len(reply.Buttons) > 0:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reply.Buttons))
		for _, row := range reply.Buttons {
			btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Action))
			}
			rows = append(rows, btns)
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	case reply.RequestLocation:
		kb := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonLocation(locationButtonText)),
		)
		kb.OneTimeKeyboard = true
		kb.ResizeKeyboard = true
		msg.ReplyMarkup = kb
	case reply.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}

	_, err := h.Bot.Send(msg)
	return err
}

// SendMessage pushes a plain-text message to a chat. Satisfies the
// notification Sender contract.
func (h *TelegramHandler) SendMessage(chatID int64, text string) error {
	_, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func updateChatID(update tgbotapi.Update) (int64, bool) {
	if cq := update.CallbackQuery; cq != nil && cq.Message != nil {
		return cq.Message.Chat.ID, true
	}
	if update.Message != nil {
		return update.Message.Chat.ID, true
	}
	return 0, false
}
