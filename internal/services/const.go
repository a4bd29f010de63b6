package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kinds every service error belongs to. Handlers map them to response statuses.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Is(target error) bool {
	return target == e.kind
}

func NewError(kind error, msg string) error {
	return &Error{kind, msg}
}

var (
	ErrUserNotFound          = NewError(ErrNotFound, "user not found")
	ErrTaskNotFound          = NewError(ErrNotFound, "task not found")
	ErrSessionNotFound       = NewError(ErrNotFound, "session not found")
	ErrNoPendingRewards      = NewError(ErrNotFound, "no pending rewards to claim")
	ErrItemNotFound          = NewError(ErrNotFound, "item not found")
	ErrItemNotInInventory    = NewError(ErrNotFound, "item not found in inventory")
	ErrPaymentNotFound       = NewError(ErrNotFound, "payment not found")
	ErrSessionNotActive      = NewError(ErrInvalidState, "session already ended")
	ErrPaymentProcessed      = NewError(ErrInvalidState, "payment already processed")
	ErrNotOwner              = NewError(ErrUnauthorized, "not authorized to access this resource")
	ErrInvalidPeriod         = NewError(ErrValidation, "invalid period")
	ErrInvalidQuantity       = NewError(ErrValidation, "quantity must be positive")
	ErrInvalidAmount         = NewError(ErrValidation, "amount must be positive")
	ErrInvalidScore          = NewError(ErrValidation, "score and coins must not be negative")
	ErrMissingGameType       = NewError(ErrValidation, "game_type is required")
	ErrPaymentAmountMismatch = NewError(ErrValidation, "payment amount mismatch")

	ErrUserLock    = NewError(ErrInvalidState, "user locked")
	ErrClaimLock   = NewError(ErrInvalidState, "claim in progress")
	ErrTaskLock    = NewError(ErrInvalidState, "task completion in progress")
	ErrSessionLock = NewError(ErrInvalidState, "session update in progress")
)

const (
	CONFIG_LEADERBOARD_MAX_LIMIT       = "LEADERBOARD_MAX_LIMIT"
	CONFIG_PAYMENT_EXPIRE_HOURS        = "PAYMENT_EXPIRE_HOURS"
	CONFIG_CRONJOB_TIME_PAYMENT_EXPIRY = "CRONJOB_TIME_PAYMENT_EXPIRY"
	CONFIG_CRONJOB_TIME_LEADERBOARD    = "CRONJOB_TIME_LEADERBOARD"
	CONFIG_TEXT_NEW_REFERRAL           = "TEXT_NEW_REFERRAL"

	PERIOD_ALL_TIME = "all_time"
	PERIOD_WEEKLY   = "weekly"
	PERIOD_DAILY    = "daily"

	LEADERBOARD_DEFAULT_LIMIT     = 100
	LEADERBOARD_DEFAULT_MAX_LIMIT = 500
	PAYMENT_DEFAULT_EXPIRE_HOURS  = 24

	// referral commission, in basis points of the referee's earned coins
	REFERRAL_DIRECT_BPS     = 1000
	REFERRAL_INDIRECT_BPS   = 250
	REFERRAL_SIGNUP_TICKETS = 1

	CACHE_TTL_1_MIN  = 1 * time.Minute
	CACHE_TTL_5_MINS = 5 * time.Minute
	CACHE_TTL_1_HOUR = 1 * time.Hour

	INVOICE_RATE_LIMIT_PER_MINUTE   = 10
	INIT_USER_RATE_LIMIT_PER_MINUTE = 30
)

func LockKeyInitUser(tgID int64) string {
	return fmt.Sprintf("lock:init-user:%d", tgID)
}

func LockKeyUserClaim(userID int64) string {
	return fmt.Sprintf("lock:user-claim:%d", userID)
}

func LockKeyUserTask(userID int64, taskID int64) string {
	return fmt.Sprintf("lock:user-task:%d:%d", userID, taskID)
}

func LockKeyUserGame(userID int64) string {
	return fmt.Sprintf("lock:user-game:%d", userID)
}

// db
func DBKeyUser(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyTasks() string {
	return "tasks:all"
}

func DBKeyInventoryItems() string {
	return "inventory_items:all"
}

func DBKeyLeaderboardByUser(period string, userID int64, limit int) string {
	return fmt.Sprintf("leaderboard_by_user:%s:%d:%d", strings.ToLower(period), userID, limit)
}

func DBKeyLeaderboardPattern(period string) string {
	if period == "" {
		return "leaderboard_by_user:*"
	}
	return fmt.Sprintf("leaderboard_by_user:%s:*", strings.ToLower(period))
}

func LimitKeyUserInvoice(userID int64) string {
	return fmt.Sprintf("limit:user-invoice:%d", userID)
}

func LimitKeyInitUser(tgID int64) string {
	return fmt.Sprintf("limit:init-user:%d", tgID)
}
