package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/wordkeeper/internal/logger"
	"github.com/example/wordkeeper/pkg/models"
)

// maxListed caps the number of words printed by /due
const maxListed = 20

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Sender is the part of the Telegram API the bot talks to
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Vocabulary is the read side of the word collection used by the bot
type Vocabulary interface {
	GetDueToday(ctx context.Context) ([]models.VocabularyRecord, error)
	Stats(ctx context.Context) (models.VocabularyStats, error)
}

// Schedule exposes the reminder time preference
type Schedule interface {
	NotificationTime(ctx context.Context) (string, error)
	UpdateNotificationTime(ctx context.Context, hhmm string) error
}

// Bot sends review reminders to a single Telegram chat and answers a few
// commands there
type Bot struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	chatID   int64
	words    Vocabulary
	schedule Schedule
	log      *logger.Logger
}

// New creates a bot connected to the Telegram API
func New(token string, chatID int64, words Vocabulary, log *logger.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is not set")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %v", err)
	}

	b := NewWithSender(api, chatID, words, log)
	b.api = api
	b.log.Info("authorized on account", "username", api.Self.UserName)
	return b, nil
}

// NewWithSender creates a bot on top of an arbitrary sender
func NewWithSender(sender Sender, chatID int64, words Vocabulary, log *logger.Logger) *Bot {
	if log == nil {
		log = logger.Nop()
	}
	return &Bot{
		sender: sender,
		chatID: chatID,
		words:  words,
		log:    log.With("service", "TelegramBot"),
	}
}

// AttachSchedule enables the /time command
func (b *Bot) AttachSchedule(s Schedule) {
	b.schedule = s
}

// Run polls Telegram for updates until ctx is done
func (b *Bot) Run(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("bot is not connected to telegram")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(_ context.Context, count int) error {
	msg := tgbotapi.NewMessage(b.chatID, ReminderText(count))
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())

	if _, err := b.sender.Send(msg); err != nil {
		b.log.Error("failed to send reminder", "chat_id", b.chatID, "error", err)
		return err
	}
	b.log.Info("sent reminder", "chat_id", b.chatID, "count", count)
	return nil
}

// ReminderText builds the reminder with the Ukrainian plural form for count
func ReminderText(count int) string {
	return fmt.Sprintf("У вас %d %s для повторення!", count, wordForm(count))
}

func wordForm(n int) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n%100 >= 11 && n%100 <= 14:
		return "слів"
	case n%10 == 1:
		return "слово"
	case n%10 >= 2 && n%10 <= 4:
		return "слова"
	default:
		return "слів"
	}
}

// MainMenuButtons returns the buttons attached to reminders
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "📋 Слова на сьогодні", CallbackData: "due"},
			{Text: "📊 Статистика", CallbackData: "stats"},
		},
	}
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if !b.allowed(update.Message.Chat) {
			return
		}
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil || !b.allowed(cb.Message.Chat) {
			return
		}
		if _, err := b.sender.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.log.Warn("failed to answer callback", "error", err)
		}
		b.handleCommand(ctx, cb.Message.Chat.ID, cb.Data, "")
	}
}

func (b *Bot) allowed(chat *tgbotapi.Chat) bool {
	if chat == nil {
		return false
	}
	return b.chatID != 0 && chat.ID == b.chatID
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if !message.IsCommand() {
		return
	}
	b.handleCommand(ctx, message.Chat.ID, message.Command(), message.CommandArguments())
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command, args string) {
	var (
		text string
		err  error
	)
	switch command {
	case "start", "help":
		text = helpText
	case "due":
		text, err = b.dueText(ctx)
	case "stats":
		text, err = b.statsText(ctx)
	case "time":
		text, err = b.timeText(ctx, strings.TrimSpace(args))
	default:
		text = "Невідома команда. Спробуйте /help"
	}
	if err != nil {
		b.log.Error("command failed", "command", command, "error", err)
		text = "Щось пішло не так, спробуйте пізніше"
	}

	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Error("failed to send reply", "command", command, "error", err)
	}
}

const helpText = `Я нагадую про слова, які пора повторити.
/due: слова на сьогодні
/stats: статистика словника
/time 09:00: змінити час нагадування`

func (b *Bot) dueText(ctx context.Context) (string, error) {
	due, err := b.words.GetDueToday(ctx)
	if err != nil {
		return "", err
	}
	if len(due) == 0 {
		return "Сьогодні немає слів для повторення 🎉", nil
	}

	var sb strings.Builder
	sb.WriteString(ReminderText(len(due)))
	for i, w := range due {
		if i == maxListed {
			fmt.Fprintf(&sb, "\n...та ще %d", len(due)-maxListed)
			break
		}
		fmt.Fprintf(&sb, "\n• %s: %s", w.Text, w.Translation)
	}
	return sb.String(), nil
}

func (b *Bot) statsText(ctx context.Context) (string, error) {
	stats, err := b.words.Stats(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Всього слів: %d\nНа сьогодні: %d\nВивчено: %d", stats.Total, stats.DueToday, stats.Mastered)

	tiers := make([]string, 0, len(stats.ByTier))
	for name := range stats.ByTier {
		tiers = append(tiers, name)
	}
	sort.Strings(tiers)
	for _, name := range tiers {
		fmt.Fprintf(&sb, "\n%s: %d", name, stats.ByTier[name])
	}
	return sb.String(), nil
}

func (b *Bot) timeText(ctx context.Context, arg string) (string, error) {
	if b.schedule == nil {
		return "Нагадування вимкнені", nil
	}
	if arg == "" {
		at, err := b.schedule.NotificationTime(ctx)
		if err != nil {
			return "", err
		}
		return "Час нагадування: " + at, nil
	}
	if err := b.schedule.UpdateNotificationTime(ctx, arg); err != nil {
		b.log.Debug("rejected notification time", "value", arg, "error", err)
		return "Вкажіть час у форматі ГГ:ХХ, наприклад /time 09:00", nil
	}
	at, err := b.schedule.NotificationTime(ctx)
	if err != nil {
		return "", err
	}
	return "Час нагадування: " + at, nil
}
