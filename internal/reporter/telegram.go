package reporter

import (
	"fmt"
	"strings"

	"github.com/asaskevich/EventBus"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/careers-scraper/internal/events"
	"github.com/maxaizer/careers-scraper/internal/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const maxListedIDs = 20

// Telegram posts a short run report to a chat after each site run. It is
// strictly an observer: a failed send never affects the pipeline.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64, bus EventBus.Bus) (*Telegram, error) {

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "create telegram bot api")
	}

	t := &Telegram{bot: bot, chatID: chatID}
	if err := bus.Subscribe(events.SiteRunFinishedTopic, t.onSiteRunFinished); err != nil {
		return nil, errors.Wrap(err, "subscribe to run events")
	}
	return t, nil
}

func (t *Telegram) onSiteRunFinished(event events.SiteRunFinished) {

	msg := tgbotapi.NewMessage(t.chatID, formatReport(event))
	if _, err := t.bot.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTelegram).
			Errorf("failed to send run report: %v", err)
	}
}

func formatReport(event events.SiteRunFinished) string {

	var b strings.Builder
	fmt.Fprintf(&b, "%v run finished\n", event.Site)
	fmt.Fprintf(&b, "new jobs: %v\n", len(event.NewIDs))
	fmt.Fprintf(&b, "fetched: %v, failed: %v, pruned: %v", event.Fetched, event.Failed, event.Removed)

	if len(event.NewIDs) > 0 {
		listed := event.NewIDs
		if len(listed) > maxListedIDs {
			listed = listed[:maxListedIDs]
		}
		fmt.Fprintf(&b, "\n\n%v", strings.Join(listed, "\n"))
		if len(event.NewIDs) > maxListedIDs {
			fmt.Fprintf(&b, "\n…and %v more", len(event.NewIDs)-maxListedIDs)
		}
	}
	return b.String()
}
