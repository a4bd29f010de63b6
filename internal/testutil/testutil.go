// Package testutil wires an injector with in-memory backends for service and handler tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"droppu/internal/config"
	"droppu/internal/datastore"
	"droppu/internal/interfaces"
	"droppu/internal/models"
	"droppu/internal/pkg"
	"droppu/internal/pkg/caching"
	"droppu/internal/pkg/database"
	"droppu/internal/pkg/limiter"
)

type Env struct {
	Container *do.Injector
	DB        *bun.DB
	Redis     *miniredis.Miniredis
	Clock     *Clock
	Config    *config.Config
	Notifier  *Notifier
	Issuer    *InvoiceIssuer
	Validator *Validator
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// New returns an Env backed by a fresh SQLite memory database and a miniredis server.
// Both the primary and the read-only database names resolve to the same handle.
func New(t testing.TB) *Env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(t.Name(), "_"))
	db, err := database.OpenSQLite(dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if err := datastore.CreateTables(context.Background(), db); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	env := &Env{
		Container: do.New(),
		DB:        db,
		Redis:     mr,
		Clock:     NewClock(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)),
		Config: &config.Config{
			BotToken:     "123456:test",
			JWTSecret:    "test-secret",
			DBDSN:        dsn,
			APIMode:      "test",
			APIOrigins:   []string{"*"},
			TokenTTL:     time.Hour,
			InitDataTTL:  time.Hour,
			InvoiceTitle: "Droppu Stars",
		},
		Notifier:  &Notifier{},
		Issuer:    &InvoiceIssuer{},
		Validator: &Validator{users: map[string]*models.UserFromAuth{}},
	}

	injector := env.Container
	do.ProvideValue(injector, env.Config)
	do.ProvideValue(injector, db)
	do.ProvideNamedValue(injector, "db-readonly", db)
	for _, name := range []string{"redis-cache", "redis-cache-readonly", "redis-mutex", "redis-limiter"} {
		do.ProvideNamedValue[redis.UniversalClient](injector, name, client)
	}

	cache, _ := caching.NewCacheRedis(client, false)
	do.ProvideValue[caching.Cache](injector, cache)
	do.ProvideValue[caching.ReadOnlyCache](injector, cache)
	do.ProvideValue[interfaces.Limiter](injector, limiter.Nop{})
	do.ProvideValue(injector, redsync.New(goredis.NewPool(client)))
	do.ProvideValue(injector, pkg.Clock(env.Clock.Now))
	do.ProvideValue[interfaces.Notifier](injector, env.Notifier)
	do.ProvideValue[interfaces.InvoiceIssuer](injector, env.Issuer)
	do.ProvideValue[interfaces.InitDataValidator](injector, env.Validator)

	return env
}

// CreateUser inserts an account directly, bypassing the login flow.
func (env *Env) CreateUser(t testing.TB, tgID int64, username string, parentID *int64) *models.User {
	t.Helper()
	now := env.Clock.Now()
	user := &models.User{
		TgID:             tgID,
		Username:         username,
		ParentID:         parentID,
		RegistrationDate: now,
		UpdatedAt:        now,
	}
	if _, err := datastore.CreateUser(context.Background(), env.DB, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type Message struct {
	ChatID int64
	Text   string
}

type Notifier struct {
	mu       sync.Mutex
	messages []Message
}

func (n *Notifier) SendMsg(chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, Message{chatID, text})
	return nil
}

func (n *Notifier) Messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Message(nil), n.messages...)
}

type InvoiceIssuer struct {
	Err error
}

func (i *InvoiceIssuer) CreateStarsInvoice(title, description, payload string, amount int64) (string, error) {
	if i.Err != nil {
		return "", i.Err
	}
	return "https://t.me/$" + payload, nil
}

var ErrInvalidInitData = errors.New("invalid init data")

// Validator accepts the init data strings registered with Register.
type Validator struct {
	mu    sync.Mutex
	users map[string]*models.UserFromAuth
}

func (v *Validator) Register(initData string, user *models.UserFromAuth) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.users[initData] = user
}

func (v *Validator) ValidateInitData(initData string) (*models.UserFromAuth, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	user, ok := v.users[initData]
	if !ok {
		return nil, ErrInvalidInitData
	}
	copied := *user
	return &copied, nil
}
