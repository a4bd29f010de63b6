package services

import (
	"time"

	"droppu/internal/models"

	initdata "github.com/telegram-mini-apps/init-data-golang"
	tele "gopkg.in/telebot.v3"
)

type Bot struct {
	token       string
	initDataTTL time.Duration
	webAppURL   string
	bot         *tele.Bot
}

// NewBot builds an offline client: no getMe round trip happens at startup.
func NewBot(token string, initDataTTL time.Duration, webAppURL string) (*Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, err
	}

	return &Bot{token, initDataTTL, webAppURL, b}, nil
}

func (bot *Bot) ValidateInitData(dataStr string) (*models.UserFromAuth, error) {
	if err := initdata.Validate(dataStr, bot.token, bot.initDataTTL); err != nil {
		return nil, NewError(ErrUnauthorized, "invalid init data")
	}

	data, err := initdata.Parse(dataStr)
	if err != nil {
		return nil, NewError(ErrUnauthorized, "invalid init data")
	}

	if data.User.ID == 0 {
		return nil, NewError(ErrUnauthorized, "init data has no user")
	}

	return &models.UserFromAuth{
		TgID:         data.User.ID,
		Username:     data.User.Username,
		FirstName:    data.User.FirstName,
		LastName:     data.User.LastName,
		IsBot:        data.User.IsBot,
		IsPremium:    data.User.IsPremium,
		LanguageCode: data.User.LanguageCode,
		PhotoURL:     data.User.PhotoURL,
		StartParam:   data.StartParam,
	}, nil
}

func (bot *Bot) SendMsg(chatID int64, text string) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	if bot.webAppURL != "" {
		opts.ReplyMarkup = &tele.ReplyMarkup{
			InlineKeyboard: [][]tele.InlineButton{
				{{Text: "🎮 Play Now", WebApp: &tele.WebApp{URL: bot.webAppURL}}},
			},
		}
	}

	_, err := bot.bot.Send(&tele.User{ID: chatID}, text, opts)
	return err
}

func (bot *Bot) CreateStarsInvoice(title, description, payload string, amount int64) (string, error) {
	return bot.bot.CreateInvoiceLink(tele.Invoice{
		Title:       title,
		Description: description,
		Payload:     payload,
		Currency:    models.CurrencyStars,
		Prices: []tele.Price{
			{Label: title, Amount: int(amount)},
		},
	})
}
