package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thukbot/thuk/internal/database"
	"github.com/thukbot/thuk/internal/domain/ledger"
	"github.com/thukbot/thuk/internal/domain/ledger/repository"
	"github.com/thukbot/thuk/internal/domain/nlp"
	"github.com/thukbot/thuk/internal/domain/router"
	"github.com/thukbot/thuk/internal/llm"
	"github.com/thukbot/thuk/internal/webhook"
	whatsappclient "github.com/thukbot/thuk/internal/whatsapp"
	"github.com/thukbot/thuk/pkg/config"
	"github.com/thukbot/thuk/pkg/secrets"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Pool   *pgxpool.Pool
	Logger *slog.Logger

	Store    *repository.Store
	Engine   *nlp.Engine
	Handlers map[nlp.Intent]router.Handler
	Box      *secrets.Box
	Sender   *whatsappclient.Client
	Webhook  *webhook.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initDomain(); err != nil {
		return nil, fmt.Errorf("failed to init domain: %w", err)
	}

	if err := deps.initWebhook(); err != nil {
		return nil, fmt.Errorf("failed to init webhook: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase connects the pool and runs migrations.
func (d *Dependencies) initDatabase(ctx context.Context) error {
	pool, err := database.NewPool(ctx, d.Config.Database)
	if err != nil {
		return err
	}
	d.Pool = pool

	if err := database.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initDomain builds the understanding engine, the store, and one handler
// per intent.
func (d *Dependencies) initDomain() error {
	d.Store = repository.New(d.Pool)
	d.Engine = nlp.NewEngine(nlp.DefaultTables(d.Config.Bot.HomeCurrency))

	resolver := ledger.NewCategoryResolver(d.Store)
	now := time.Now

	d.Handlers = map[nlp.Intent]router.Handler{
		nlp.IntentAddExpense:     ledger.NewAddExpenseHandler(d.Store, resolver, now),
		nlp.IntentDeleteExpense:  ledger.NewDeleteExpenseHandler(d.Store),
		nlp.IntentQueryExpenses:  ledger.NewQueryHandler(d.Store, now),
		nlp.IntentSplitPayment:   ledger.NewSplitHandler(d.Store, d.Store, resolver, now),
		nlp.IntentCheckDebts:     ledger.NewDebtsHandler(d.Store, d.Config.Bot.HomeCurrency),
		nlp.IntentSettleDebt:     ledger.NewSettleHandler(d.Store),
		nlp.IntentAddCategory:    ledger.NewAddCategoryHandler(d.Store),
		nlp.IntentListCategories: ledger.NewListCategoriesHandler(d.Store),
		nlp.IntentHelp:           ledger.NewHelpHandler(),
	}

	d.Logger.Info("domain initialized", "handlers", len(d.Handlers))
	return nil
}

// initWebhook wires the Cloud API surfaces around the domain.
func (d *Dependencies) initWebhook() error {
	box, err := secrets.NewBox(d.Config.Secrets.Key)
	if err != nil {
		return fmt.Errorf("failed to init secrets box: %w", err)
	}
	d.Box = box

	d.Sender = whatsappclient.NewClient(
		d.Config.WhatsApp.AccessToken,
		d.Config.WhatsApp.PhoneNumberID,
		d.Config.WhatsApp.BaseURL,
		d.Logger,
	)

	// The fallback delegate is bound to the sender's own API key, so a
	// fresh router is assembled per message.
	buildRouter := func(ctx context.Context, apiKey string) (webhook.Responder, error) {
		fallback, err := llm.NewGemini(ctx, apiKey, d.Config.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("build fallback: %w", err)
		}
		return router.New(d.Engine, d.Handlers, fallback, d.Logger)
	}

	d.Webhook = webhook.NewHandler(
		d.Config.WhatsApp.VerifyToken,
		d.Store,
		d.Box,
		d.Sender,
		buildRouter,
		d.Config.WhatsApp.RatePerSecond,
		d.Config.WhatsApp.RateBurst,
		d.Logger,
	).WithDefaultAPIKey(d.Config.Gemini.APIKey)

	d.Logger.Info("webhook initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Pool != nil {
		d.Pool.Close()
	}
	d.Logger.Info("cleanup completed")
}
