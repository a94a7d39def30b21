package services

import (
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"quizarena/internal/repositories"
)

// TelegramService — необязательный бот уведомлений. Пустой токен выключает
// бота целиком; ошибки отправки логируются и никогда не валят запрос.
type TelegramService struct {
	bot   *tgbotapi.BotAPI
	users repositories.UserRepository
	stop  chan struct{}
}

func NewTelegramService(botToken string, users repositories.UserRepository) *TelegramService {
	if botToken == "" {
		log.Printf("[tg][init] token empty, bot disabled")
		return &TelegramService{users: users}
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg][init][err] %v, bot disabled", err)
		return &TelegramService{users: users}
	}
	log.Printf("[tg][init] authorized as @%s", bot.Self.UserName)
	return &TelegramService{bot: bot, users: users, stop: make(chan struct{})}
}

func (t *TelegramService) Enabled() bool {
	return t != nil && t.bot != nil
}

// Start — long-poll цикл команд; блокирует, запускать в горутине.
func (t *TelegramService) Start() {
	if !t.Enabled() {
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			t.handleCommand(update.Message)
		case <-t.stop:
			t.bot.StopReceivingUpdates()
			return
		}
	}
}

func (t *TelegramService) Stop() {
	if t.Enabled() {
		close(t.stop)
	}
}

func (t *TelegramService) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		t.send(chatID,
			"Welcome to QuizArena!\n"+
				"Link this chat in your profile to get score notifications.\n"+
				"Your Telegram ID: "+strconv.FormatInt(msg.From.ID, 10))
	case "points":
		user, err := t.users.GetByTelegramID(strconv.FormatInt(msg.From.ID, 10))
		if err != nil {
			log.Printf("[tg][points][err] lookup: %v", err)
			t.send(chatID, "Something went wrong, try again later.")
			return
		}
		if user == nil {
			t.send(chatID, "This Telegram account is not linked yet.")
			return
		}
		t.send(chatID, fmt.Sprintf("You have %d points (%s tier).", user.Points, user.Tier))
	default:
		t.send(chatID, "Commands: /start, /points")
	}
}

// NotifyPoints реализует PointsNotifier.
func (t *TelegramService) NotifyPoints(telegramID string, points, total int, reason string) {
	if !t.Enabled() || telegramID == "" {
		return
	}
	chatID, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		log.Printf("[tg][notify][skip] bad telegram id %q", telegramID)
		return
	}
	t.send(chatID, fmt.Sprintf("+%d points (%s). Total: %d", points, reason, total))
}

func (t *TelegramService) send(chatID int64, text string) {
	if !t.Enabled() || chatID == 0 {
		return
	}
	m := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(m); err != nil {
		log.Printf("[tg][send][err] chatID=%d: %v", chatID, err)
	}
}
