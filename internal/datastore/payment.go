package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"droppu/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePayment(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Payment)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Payment)(nil)).Index("index_payment_invoice_id").Unique().IfNotExists().Column("invoice_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Payment)(nil)).Index("index_payment_status_created_at").IfNotExists().Column("status", "created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreatePayment(ctx context.Context, db bun.IDB, payment *models.Payment) error {
	_, err := db.NewInsert().Model(payment).Returning("*").Exec(ctx)
	return err
}

func FindPaymentByInvoiceID(ctx context.Context, db bun.IDB, invoiceID string) (*models.Payment, error) {
	var payment models.Payment
	err := db.NewSelect().Model(&payment).Where("invoice_id = ?", invoiceID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// TransitionPendingPayment moves a pending payment to status. ok is false when the payment
// exists but is no longer pending, or does not exist at all.
func TransitionPendingPayment(ctx context.Context, db bun.IDB, invoiceID, status, chargeID string, now time.Time) (*models.Payment, bool, error) {
	payment := new(models.Payment)
	q := db.NewUpdate().
		Model(payment).
		Set("status = ?", status).
		Set("completed_at = ?", now).
		Where("invoice_id = ?", invoiceID).
		Where("status = ?", models.PaymentStatusPending).
		Returning("*")
	if chargeID != "" {
		q = q.Set("telegram_charge_id = ?", chargeID)
	}

	res, err := q.Exec(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if affected == 0 {
		return nil, false, nil
	}

	return payment, true, nil
}

func ExpirePendingPayments(ctx context.Context, db bun.IDB, olderThan, now time.Time) (int64, error) {
	res, err := db.NewUpdate().
		Model((*models.Payment)(nil)).
		Set("status = ?", models.PaymentStatusFailed).
		Set("completed_at = ?", now).
		Where("status = ?", models.PaymentStatusPending).
		Where("created_at < ?", olderThan).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
