package main

import (
	"fmt"
	"net/url"
	"strings"

	tele "gopkg.in/telebot.v3"

	"droppu/internal/config"
	"droppu/internal/services"
)

const (
	textStart = `🎮 Welcome to Droppu!

Play quick games, finish tasks and climb the leaderboard to earn coins and tickets.

🤝 Invite friends and get a share of everything they earn.`

	textPrivacy = `<b>PRIVACY POLICY</b>

<b>Mini app</b>: https://t.me/%s/app

We store your public Telegram profile (user ID, names, username, language) to run your game account.
Scores, rewards, inventory and Stars purchases are kept to show your progress and balances.
We never sell your data or share it with other organisations.`
)

// webAppLink forwards a /start referral payload to the mini app.
func webAppLink(base string, payload string) string {
	if base == "" {
		return ""
	}
	if _, ok := services.ParseReferralCode(payload); !ok {
		return base
	}

	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("refCode", strings.TrimSpace(payload))
	u.RawQuery = q.Encode()
	return u.String()
}

func handleStaticCommands(b *tele.Bot, cfg *config.Config) {
	b.Handle("/start", func(c tele.Context) error {
		opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
		if link := webAppLink(cfg.WebAppURL, c.Message().Payload); link != "" {
			opts.ReplyMarkup = &tele.ReplyMarkup{
				InlineKeyboard: [][]tele.InlineButton{
					{{Text: "🎮 Play Now", WebApp: &tele.WebApp{URL: link}}},
				},
			}
		}
		return c.Send(textStart, opts)
	})

	b.Handle("/me", func(c tele.Context) error {
		return c.Send(fmt.Sprintf("Hi %s. Let's play", c.Sender().Username))
	})

	b.Handle("/privacy", func(c tele.Context) error {
		return c.Send(fmt.Sprintf(textPrivacy, b.Me.Username), &tele.SendOptions{ParseMode: tele.ModeHTML})
	})
}
