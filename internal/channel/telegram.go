// ABOUTME: Telegram bot channel that feeds chat and voice messages into the dispatcher
// ABOUTME: Long-polls for updates, filters by allowed user IDs and replies only when the dispatcher speaks
package channel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/harper/mindmate/internal/models"
)

const (
	telegramMaxMsgLen = 4000
	maxVoiceBytes     = 20 << 20
)

// UtteranceHandler runs one utterance through gate, classification and dispatch
type UtteranceHandler interface {
	HandleUtterance(ctx context.Context, userID, text string) models.DispatchDecision
}

// WakeWordSetter stores a user's wake word
type WakeWordSetter interface {
	SetWakeWord(ctx context.Context, userID, word string) (string, error)
}

// WakeWordResolver names the wake word a user currently answers to
type WakeWordResolver interface {
	WakeWordFor(ctx context.Context, userID string) string
}

// Transcriber turns a voice note into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// botAPI is the subset of *tgbotapi.BotAPI the channel uses
type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Telegram delivers Telegram messages to the assistant
type Telegram struct {
	token       string
	allowFrom   map[int64]bool
	handler     UtteranceHandler
	settings    WakeWordSetter
	wakeWords   WakeWordResolver
	transcriber Transcriber
	httpClient  *http.Client
	logger      *zap.Logger

	bot botAPI
}

// TelegramConfig configures the Telegram channel. Settings, WakeWords and Transcriber are optional.
type TelegramConfig struct {
	Token       string
	AllowFrom   []int64 // empty allows everyone
	Handler     UtteranceHandler
	Settings    WakeWordSetter
	WakeWords   WakeWordResolver // nil means the built-in default is shown in /help
	Transcriber Transcriber
	Logger      *zap.Logger
}

// NewTelegram creates a Telegram channel
func NewTelegram(cfg TelegramConfig) *Telegram {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	allowed := make(map[int64]bool, len(cfg.AllowFrom))
	for _, id := range cfg.AllowFrom {
		allowed[id] = true
	}
	return &Telegram{
		token:       cfg.Token,
		allowFrom:   allowed,
		handler:     cfg.Handler,
		settings:    cfg.Settings,
		wakeWords:   cfg.WakeWords,
		transcriber: cfg.Transcriber,
		httpClient:  http.DefaultClient,
		logger:      cfg.Logger,
	}
}

// UserID maps a Telegram user to the assistant's user namespace
func UserID(telegramID int64) string {
	return "telegram:" + strconv.FormatInt(telegramID, 10)
}

// Start connects and polls for updates until ctx is cancelled
func (t *Telegram) Start(ctx context.Context) error {
	if t.bot == nil {
		bot, err := tgbotapi.NewBotAPI(t.token)
		if err != nil {
			return fmt.Errorf("telegram bot init: %w", err)
		}
		t.logger.Info("telegram bot connected",
			zap.String("username", bot.Self.UserName),
			zap.Int64("id", bot.Self.ID))
		t.bot = bot
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("telegram channel stopping")
			t.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(ctx, update)
		}
	}
}

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	chatID := msg.Chat.ID
	if !t.isAllowed(msg.From.ID) {
		t.logger.Warn("unauthorized telegram user",
			zap.Int64("user_id", msg.From.ID),
			zap.String("username", msg.From.UserName))
		t.sendMessage(chatID, "Unauthorized. Your user ID is not in the allow list.")
		return
	}

	userID := UserID(msg.From.ID)

	if msg.IsCommand() {
		t.handleCommand(ctx, chatID, userID, msg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if msg.Voice != nil {
		transcript, err := t.transcribeVoice(ctx, msg.Voice)
		if err != nil {
			t.logger.Warn("voice transcription failed", zap.String("user_id", userID), zap.Error(err))
			t.sendMessage(chatID, "Sorry, I couldn't understand that voice note.")
			return
		}
		text = transcript
	}
	if text == "" {
		return
	}

	decision := t.handler.HandleUtterance(ctx, userID, text)
	t.logger.Debug("telegram message dispatched",
		zap.String("user_id", userID),
		zap.String("action", string(decision.Action)))

	if !decision.IsSilent() {
		t.sendMessage(chatID, decision.Response())
	}
}

func (t *Telegram) handleCommand(ctx context.Context, chatID int64, userID string, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		wake := t.wakeWord(ctx, userID)
		t.sendMessage(chatID, fmt.Sprintf(
			"Hi! Start a message with '%s' to talk to me, e.g. \"%s, what's on tomorrow?\"\n"+
				"I quietly note events I overhear otherwise.\n"+
				"/wakeword <word> changes the word I answer to.",
			wake, wake))
	case "wakeword":
		if t.settings == nil {
			t.sendMessage(chatID, "Changing the wake word is not available here.")
			return
		}
		stored, err := t.settings.SetWakeWord(ctx, userID, msg.CommandArguments())
		if err != nil {
			t.sendMessage(chatID, "Usage: /wakeword <word>")
			return
		}
		t.sendMessage(chatID, fmt.Sprintf("Wake word updated to '%s'", stored))
	default:
		t.sendMessage(chatID, "Unknown command. Try /help")
	}
}

func (t *Telegram) wakeWord(ctx context.Context, userID string) string {
	if t.wakeWords == nil {
		return models.DefaultWakeWord
	}
	if w := t.wakeWords.WakeWordFor(ctx, userID); w != "" {
		return w
	}
	return models.DefaultWakeWord
}

func (t *Telegram) transcribeVoice(ctx context.Context, voice *tgbotapi.Voice) (string, error) {
	if t.transcriber == nil {
		return "", fmt.Errorf("speech-to-text is not configured")
	}

	url, err := t.bot.GetFileDirectURL(voice.FileID)
	if err != nil {
		return "", fmt.Errorf("voice file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading voice: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading voice: status %d", resp.StatusCode)
	}

	// Telegram voice notes are OGG/Opus
	return t.transcriber.Transcribe(ctx, io.LimitReader(resp.Body, maxVoiceBytes), voice.FileUniqueID+".ogg")
}

func (t *Telegram) isAllowed(userID int64) bool {
	return len(t.allowFrom) == 0 || t.allowFrom[userID]
}

// sendMessage splits long replies to fit Telegram's message limit
func (t *Telegram) sendMessage(chatID int64, text string) {
	for _, chunk := range splitMessage(text, telegramMaxMsgLen) {
		if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			t.logger.Error("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
	}
}

// splitMessage cuts text into pieces of at most maxLen runes, preferring newline boundaries
func splitMessage(text string, maxLen int) []string {
	runes := []rune(text)
	var chunks []string
	for len(runes) > maxLen {
		cut := maxLen
		for i := maxLen - 1; i > maxLen/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
