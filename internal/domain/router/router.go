// Package router is the one-hop dispatcher between message understanding
// and the intent handlers. Understand runs exactly once per message, the
// intent names exactly one handler, and every handler transitions straight
// to done: no retries, no loop-backs, no multi-step conversations.
package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thukbot/thuk/internal/domain/ledger"
	"github.com/thukbot/thuk/internal/domain/nlp"
)

// Handler is the capability invoked once routing selects an intent.
// Handlers own their user-facing error reporting (a missing amount is a
// reply, not an error); errors they do return are infrastructure failures
// and are propagated unchanged.
type Handler interface {
	Handle(ctx context.Context, msg nlp.ParsedMessage, user ledger.User) (string, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, msg nlp.ParsedMessage, user ledger.User) (string, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, msg nlp.ParsedMessage, user ledger.User) (string, error) {
	return f(ctx, msg, user)
}

// Fallback is the external free-form responder used when no deterministic
// rule resolves a message.
type Fallback interface {
	Respond(ctx context.Context, rawText string) (string, error)
}

// fallbackApology is the reply when the fallback delegate itself fails.
// Delegate failures are never retried.
const fallbackApology = `Sorry, I couldn't process that message. Send "help" to see what I understand.`

// Router dispatches parsed messages to handlers. It is a plain map from
// intent to handler plus one fallback branch, deliberately not a general
// state-machine engine.
type Router struct {
	engine   *nlp.Engine
	handlers map[nlp.Intent]Handler
	fallback Fallback
	logger   *slog.Logger
}

// New builds a router over the given handler set. Intents without a
// handler route to the fallback, as does the Unknown intent.
func New(engine *nlp.Engine, handlers map[nlp.Intent]Handler, fallback Fallback, logger *slog.Logger) (*Router, error) {
	if engine == nil {
		return nil, fmt.Errorf("router: nil engine")
	}
	if fallback == nil {
		return nil, fmt.Errorf("router: nil fallback")
	}
	if logger == nil {
		logger = slog.Default()
	}

	set := make(map[nlp.Intent]Handler, len(handlers))
	for intent, h := range handlers {
		set[intent] = h
	}
	return &Router{engine: engine, handlers: set, fallback: fallback, logger: logger}, nil
}

// Route processes one message start to finish: understand, dispatch,
// respond. Handler errors come back unchanged; fallback failures become a
// generic apology rather than an error.
func (r *Router) Route(ctx context.Context, text string, user ledger.User) (string, error) {
	msg := r.engine.Understand(text)

	r.logger.Debug("message understood",
		"intent", msg.Intent,
		"has_amount", msg.Amount != nil,
		"currency", msg.Currency,
	)

	handler, ok := r.handlers[msg.Intent]
	if msg.Intent == nlp.IntentUnknown || !ok {
		return r.respondFallback(ctx, msg.RawText), nil
	}

	reply, err := handler.Handle(ctx, msg, user)
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (r *Router) respondFallback(ctx context.Context, rawText string) string {
	reply, err := r.fallback.Respond(ctx, rawText)
	if err != nil {
		r.logger.Warn("fallback delegate failed", "error", err)
		return fallbackApology
	}
	return reply
}
