package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	tele "gopkg.in/telebot.v3"

	"droppu/internal/models"
	"droppu/internal/services"
)

var errNoContainer = errors.New("container not found")

func servicePayment(c tele.Context) (*services.ServicePayment, error) {
	injector, ok := getContextContainer(c)
	if !ok {
		return nil, errNoContainer
	}
	return do.Invoke[*services.ServicePayment](injector)
}

func handleStarCommands(b *tele.Bot) {
	// Telegram expects an answer within 10 seconds
	b.Handle(tele.OnCheckout, func(c tele.Context) error {
		query := c.PreCheckoutQuery()
		service, err := servicePayment(c)
		if err != nil {
			return b.Accept(query, "Payment is unavailable, please try again later.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if query.Currency != models.CurrencyStars {
			return b.Accept(query, "Unsupported currency.")
		}
		if err := service.ValidatePreCheckout(ctx, query.Payload, int64(query.Total)); err != nil {
			log.Warn().Err(err).Str("invoice", query.Payload).Msg("pre-checkout rejected")
			return b.Accept(query, err.Error())
		}

		return b.Accept(query)
	})

	b.Handle(tele.OnPayment, func(c tele.Context) error {
		payment := c.Message().Payment
		service, err := servicePayment(c)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		completed, err := service.CompleteFromTelegram(ctx, payment.Payload, payment.TelegramChargeID, int64(payment.Total))
		if err != nil {
			log.Error().Err(err).Str("invoice", payment.Payload).Str("charge", payment.TelegramChargeID).Msg("complete payment")
			return err
		}

		user := c.Sender()
		username := fmt.Sprintf("@%s", user.Username)
		if user.Username == "" {
			username = strings.TrimSpace(fmt.Sprintf("%s %s", user.FirstName, user.LastName))
		}

		return c.Send(fmt.Sprintf("%s thank you! Your purchase of %d Stars is complete.", username, completed.Amount))
	})
}
