package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"droppu/internal/config"
	"droppu/internal/datastore"
	"droppu/internal/interfaces"
	"droppu/internal/models"
	"droppu/internal/pkg"
	"droppu/internal/pkg/metrics"
)

type ServicePayment struct {
	container    *do.Injector
	postgresDB   *bun.DB
	limiter      interfaces.Limiter
	issuer       interfaces.InvoiceIssuer
	now          pkg.Clock
	invoiceTitle string

	serviceConfig *ServiceConfig
}

func NewServicePayment(container *do.Injector) (*ServicePayment, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	limiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	issuer, err := do.Invoke[interfaces.InvoiceIssuer](container)
	if err != nil {
		return nil, err
	}

	now, err := do.Invoke[pkg.Clock](container)
	if err != nil {
		return nil, err
	}

	cfg, err := do.Invoke[*config.Config](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServicePayment{container, postgresDB, limiter, issuer, now, cfg.InvoiceTitle, serviceConfig}, nil
}

// CreateInvoice issues a Telegram Stars invoice for amount Stars and records it as pending.
// The payment's invoice id doubles as the invoice payload.
func (service *ServicePayment) CreateInvoice(ctx context.Context, userID, amount int64, description string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	err := service.limiter.Allow(ctx, LimitKeyUserInvoice(userID), redis_rate.PerMinute(INVOICE_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		return nil, err
	}

	if err := ensureUser(ctx, service.postgresDB, userID); err != nil {
		return nil, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = fmt.Sprintf("Purchase of %d Stars", amount)
	}

	invoiceID := uuid.NewString()
	link, err := service.issuer.CreateStarsInvoice(service.invoiceTitle, description, invoiceID, amount)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:      userID,
		InvoiceID:   invoiceID,
		InvoiceLink: link,
		Amount:      amount,
		Currency:    models.CurrencyStars,
		Description: description,
		Status:      models.PaymentStatusPending,
		CreatedAt:   service.now(),
	}
	if err := datastore.CreatePayment(ctx, service.postgresDB, payment); err != nil {
		return nil, err
	}

	metrics.Payments.WithLabelValues(models.PaymentStatusPending).Inc()
	return payment, nil
}

func (service *ServicePayment) findPayment(ctx context.Context, db bun.IDB, invoiceID string) (*models.Payment, error) {
	payment, err := datastore.FindPaymentByInvoiceID(ctx, db, invoiceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return payment, err
}

func (service *ServicePayment) transition(ctx context.Context, invoiceID, status, chargeID string) (*models.Payment, error) {
	payment, ok, err := datastore.TransitionPendingPayment(ctx, service.postgresDB, invoiceID, status, chargeID, service.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := service.findPayment(ctx, service.postgresDB, invoiceID); err != nil {
			return nil, err
		}
		return nil, ErrPaymentProcessed
	}

	metrics.Payments.WithLabelValues(status).Inc()
	log.Info().Str("invoice", invoiceID).Str("status", status).Msg("payment updated")
	return payment, nil
}

func (service *ServicePayment) GetStatus(ctx context.Context, actorID int64, invoiceID string) (*models.Payment, error) {
	payment, err := service.findPayment(ctx, service.postgresDB, invoiceID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != actorID {
		return nil, ErrNotOwner
	}
	return payment, nil
}

// MarkPaid lets the owner confirm a pending payment.
func (service *ServicePayment) MarkPaid(ctx context.Context, actorID int64, invoiceID string) (*models.Payment, error) {
	if _, err := service.GetStatus(ctx, actorID, invoiceID); err != nil {
		return nil, err
	}
	return service.transition(ctx, invoiceID, models.PaymentStatusPaid, "")
}

func (service *ServicePayment) MarkCancelled(ctx context.Context, invoiceID string) (*models.Payment, error) {
	return service.transition(ctx, invoiceID, models.PaymentStatusCancelled, "")
}

func (service *ServicePayment) MarkFailed(ctx context.Context, invoiceID string) (*models.Payment, error) {
	return service.transition(ctx, invoiceID, models.PaymentStatusFailed, "")
}

// ValidatePreCheckout checks that a Telegram pre-checkout query matches a pending invoice.
func (service *ServicePayment) ValidatePreCheckout(ctx context.Context, invoiceID string, totalAmount int64) error {
	payment, err := service.findPayment(ctx, service.postgresDB, invoiceID)
	if err != nil {
		return err
	}
	if payment.Status != models.PaymentStatusPending {
		return ErrPaymentProcessed
	}
	if payment.Amount != totalAmount {
		return ErrPaymentAmountMismatch
	}
	return nil
}

// CompleteFromTelegram settles the invoice named by a successful payment message.
func (service *ServicePayment) CompleteFromTelegram(ctx context.Context, invoiceID, chargeID string, totalAmount int64) (*models.Payment, error) {
	if err := service.ValidatePreCheckout(ctx, invoiceID, totalAmount); err != nil {
		return nil, err
	}
	return service.transition(ctx, invoiceID, models.PaymentStatusPaid, chargeID)
}

// ExpireStale fails pending invoices older than the configured expiry.
func (service *ServicePayment) ExpireStale(ctx context.Context) (int64, error) {
	hours, err := service.serviceConfig.GetIntConfig(ctx, CONFIG_PAYMENT_EXPIRE_HOURS, PAYMENT_DEFAULT_EXPIRE_HOURS)
	if err != nil {
		log.Warn().Err(err).Msg("read payment expiry")
	}
	if hours <= 0 {
		hours = PAYMENT_DEFAULT_EXPIRE_HOURS
	}

	now := service.now()
	expired, err := datastore.ExpirePendingPayments(ctx, service.postgresDB, now.Add(-time.Duration(hours)*time.Hour), now)
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		metrics.Payments.WithLabelValues(models.PaymentStatusFailed).Add(float64(expired))
		log.Info().Int64("expired", expired).Msg("stale payments expired")
	}
	return expired, nil
}
