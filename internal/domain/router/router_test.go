package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thukbot/thuk/internal/domain/ledger"
	"github.com/thukbot/thuk/internal/domain/nlp"
)

type stubFallback struct {
	reply string
	err   error
	calls []string
}

func (s *stubFallback) Respond(_ context.Context, rawText string) (string, error) {
	s.calls = append(s.calls, rawText)
	return s.reply, s.err
}

func newTestRouter(t *testing.T, handlers map[nlp.Intent]Handler, fallback Fallback) *Router {
	t.Helper()
	r, err := New(nlp.NewEngine(nlp.DefaultTables("INR")), handlers, fallback, nil)
	require.NoError(t, err)
	return r
}

func TestNewValidation(t *testing.T) {
	engine := nlp.NewEngine(nlp.DefaultTables("INR"))

	_, err := New(nil, nil, &stubFallback{}, nil)
	assert.Error(t, err)

	_, err = New(engine, nil, nil, nil)
	assert.Error(t, err)
}

func TestRouteDispatchesByIntent(t *testing.T) {
	var gotIntent nlp.Intent
	handlers := map[nlp.Intent]Handler{
		nlp.IntentAddExpense: HandlerFunc(func(_ context.Context, msg nlp.ParsedMessage, _ ledger.User) (string, error) {
			gotIntent = msg.Intent
			return "recorded", nil
		}),
	}
	fallback := &stubFallback{reply: "llm says hi"}
	r := newTestRouter(t, handlers, fallback)

	reply, err := r.Route(context.Background(), "Spent 500 on food", ledger.User{})
	require.NoError(t, err)
	assert.Equal(t, "recorded", reply)
	assert.Equal(t, nlp.IntentAddExpense, gotIntent)
	assert.Empty(t, fallback.calls, "fallback must not run when a handler matched")
}

func TestRouteUnknownGoesToFallback(t *testing.T) {
	fallback := &stubFallback{reply: "let me help with that"}
	r := newTestRouter(t, nil, fallback)

	reply, err := r.Route(context.Background(), "good morning", ledger.User{})
	require.NoError(t, err)
	assert.Equal(t, "let me help with that", reply)
	require.Len(t, fallback.calls, 1)
	assert.Equal(t, "good morning", fallback.calls[0], "fallback receives the raw text")
}

// A recognized intent with no registered handler routes to the fallback
// rather than erroring.
func TestRouteMissingHandlerGoesToFallback(t *testing.T) {
	fallback := &stubFallback{reply: "covered"}
	r := newTestRouter(t, map[nlp.Intent]Handler{}, fallback)

	reply, err := r.Route(context.Background(), "Spent 500 on food", ledger.User{})
	require.NoError(t, err)
	assert.Equal(t, "covered", reply)
	assert.Len(t, fallback.calls, 1)
}

func TestRouteFallbackFailureBecomesApology(t *testing.T) {
	fallback := &stubFallback{err: errors.New("api quota exceeded")}
	r := newTestRouter(t, nil, fallback)

	reply, err := r.Route(context.Background(), "good morning", ledger.User{})
	require.NoError(t, err, "fallback failures are not routing errors")
	assert.Equal(t, fallbackApology, reply)
	assert.Len(t, fallback.calls, 1, "failed delegates are not retried")
}

func TestRouteHandlerErrorPropagates(t *testing.T) {
	want := errors.New("database down")
	handlers := map[nlp.Intent]Handler{
		nlp.IntentAddExpense: HandlerFunc(func(context.Context, nlp.ParsedMessage, ledger.User) (string, error) {
			return "", want
		}),
	}
	fallback := &stubFallback{}
	r := newTestRouter(t, handlers, fallback)

	_, err := r.Route(context.Background(), "Spent 500 on food", ledger.User{})
	assert.ErrorIs(t, err, want)
	assert.Empty(t, fallback.calls, "handler errors never divert to the fallback")
}
