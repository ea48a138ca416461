package reporter

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobclaw-scraper/internal/normalize"
)

// TelegramReporter delivers scrape results to a Telegram chat. It is one
// possible consumer of the event stream, not part of the engine.
type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendJob(job normalize.Job) error {
	salary := "Not listed"
	if job.Salary != nil {
		salary = *job.Salary
	}

	badges := ""
	if job.IsEasyApply {
		badges += " ⚡ Easy Apply"
	}
	if job.IsVerified {
		badges += " ✔️ Verified"
	}
	if job.IsPromoted {
		badges += " 📢 Promoted"
	}

	text := fmt.Sprintf(
		"🔥 <b>%s</b>\n"+
			"🏢 %s\n"+
			"📍 %s (%s)\n"+
			"💰 %s\n"+
			"%s\n"+
			"🔗 <a href=\"%s\">View Job</a>",
		job.Title,
		job.Company,
		job.Location,
		job.JobCategory,
		salary,
		badges,
		job.ActionTarget,
	)
	return t.SendMessage(text)
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>Scrape Error</b>:\n%v", errReq)
	return t.SendMessage(text)
}

func (t *TelegramReporter) SendStatus(message string) error {
	return t.SendMessage("ℹ️ " + message)
}
