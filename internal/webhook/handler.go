// Package webhook receives WhatsApp Cloud API callbacks: the GET
// verification handshake and POST message notifications.
package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/thukbot/thuk/internal/domain/ledger"
	"github.com/thukbot/thuk/pkg/secrets"
)

// Responder routes one inbound message to a reply. Satisfied by
// router.Router.
type Responder interface {
	Route(ctx context.Context, text string, user ledger.User) (string, error)
}

// Sender delivers replies back to the sender. Satisfied by
// whatsapp.Client.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// RouterBuilder constructs a responder bound to one user's API key. The
// fallback delegate depends on the key, so a router is built per message.
type RouterBuilder func(ctx context.Context, apiKey string) (Responder, error)

const welcomeMessage = `Welcome to Thuk, your personal expense tracker!

To get started, I need a Gemini API key to answer free-form questions. Get one at https://aistudio.google.com/apikey and paste it here.

Your key is stored encrypted and only used for your own messages.`

const keySavedMessage = `Your API key is saved. Try me out:
- "Spent 500 on food"
- "How much did I spend this week?"
- "help" for the full list`

const processingFailedMessage = `Sorry, something went wrong while processing your message. Please try again.`

// Handler serves the Cloud API webhook endpoints.
type Handler struct {
	verifyToken string
	users       ledger.UserStore
	box         *secrets.Box
	sender      Sender
	buildRouter RouterBuilder
	logger      *slog.Logger

	ratePerSecond float64
	rateBurst     int
	defaultAPIKey string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHandler wires the webhook endpoints.
func NewHandler(verifyToken string, users ledger.UserStore, box *secrets.Box, sender Sender, buildRouter RouterBuilder, ratePerSecond float64, rateBurst int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		verifyToken:   verifyToken,
		users:         users,
		box:           box,
		sender:        sender,
		buildRouter:   buildRouter,
		logger:        logger,
		ratePerSecond: ratePerSecond,
		rateBurst:     rateBurst,
		limiters:      make(map[string]*rate.Limiter),
	}
}

// WithDefaultAPIKey sets a service-level Gemini key used for senders who
// have not registered their own yet. Without one, such senders are asked
// to paste a key before anything routes.
func (h *Handler) WithDefaultAPIKey(key string) *Handler {
	h.defaultAPIKey = key
	return h
}

// ServeHTTP dispatches the verification handshake and message
// notifications.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.verify(w, r)
	case http.MethodPost:
		h.receive(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// verify answers Meta's subscription handshake: echo hub.challenge when
// the verify token matches.
func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || q.Get("hub.verify_token") != h.verifyToken {
		h.logger.Warn("webhook verification rejected", "mode", q.Get("hub.mode"))
		http.Error(w, "verification failed", http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(q.Get("hub.challenge")))
}

// notification mirrors the Cloud API webhook payload, trimmed to the
// fields the bot reads.
type notification struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// receive handles a message notification. The Cloud API expects a fast
// 200 regardless of processing outcome; failures surface to the user as
// a reply, never as an HTTP error.
func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	var n notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		h.logger.Warn("unparseable webhook payload", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	for _, entry := range n.Entry {
		for _, change := range entry.Changes {
			names := make(map[string]string, len(change.Value.Contacts))
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" {
					continue
				}
				h.process(ctx, msg.From, names[msg.From], msg.Text.Body)
			}
		}
	}
}

func (h *Handler) process(ctx context.Context, from, displayName, text string) {
	if !h.limiterFor(from).Allow() {
		h.logger.Warn("sender rate limited", "from", from)
		messagesTotal.WithLabelValues(resultRateLimited).Inc()
		return
	}

	user, err := h.users.GetOrCreateByPhone(ctx, from, displayName)
	if err != nil {
		h.logger.Error("user lookup failed", "from", from, "error", err)
		messagesTotal.WithLabelValues(resultError).Inc()
		return
	}

	reply, result := h.respond(ctx, user, text)
	messagesTotal.WithLabelValues(result).Inc()

	if err := h.sender.SendText(ctx, from, reply); err != nil {
		h.logger.Error("reply delivery failed", "from", from, "error", err)
		sendFailuresTotal.Inc()
	}
}

// respond produces the reply text for one message, handling API key
// onboarding before routing.
func (h *Handler) respond(ctx context.Context, user *ledger.User, text string) (string, string) {
	// A pasted key is accepted at any time, replacing the stored one.
	if looksLikeAPIKey(text) {
		sealed, err := h.box.Seal(strings.TrimSpace(text))
		if err != nil {
			h.logger.Error("key encryption failed", "userId", user.ID, "error", err)
			return processingFailedMessage, resultError
		}
		if err := h.users.SaveAPIKey(ctx, user.ID, sealed); err != nil {
			h.logger.Error("key save failed", "userId", user.ID, "error", err)
			return processingFailedMessage, resultError
		}
		return keySavedMessage, resultOnboarding
	}

	apiKey := h.defaultAPIKey
	if user.EncryptedAPIKey != nil {
		opened, err := h.box.Open(user.EncryptedAPIKey)
		if err != nil {
			h.logger.Error("key decryption failed", "userId", user.ID, "error", err)
			return welcomeMessage, resultError
		}
		apiKey = opened
	}
	if apiKey == "" {
		return welcomeMessage, resultOnboarding
	}

	responder, err := h.buildRouter(ctx, apiKey)
	if err != nil {
		h.logger.Error("router construction failed", "userId", user.ID, "error", err)
		return processingFailedMessage, resultError
	}

	reply, err := responder.Route(ctx, text, *user)
	if err != nil {
		h.logger.Error("message processing failed", "userId", user.ID, "error", err)
		return processingFailedMessage, resultError
	}
	return reply, resultOK
}

// maxTrackedSenders caps the limiter map; past it the map is dropped
// wholesale so a churn of unique sender IDs cannot grow it without
// bound. Known senders just restart with a fresh burst.
const maxTrackedSenders = 10000

func (h *Handler) limiterFor(sender string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	limiter, ok := h.limiters[sender]
	if !ok {
		if len(h.limiters) >= maxTrackedSenders {
			h.limiters = make(map[string]*rate.Limiter, 1)
		}
		limiter = rate.NewLimiter(rate.Limit(h.ratePerSecond), h.rateBurst)
		h.limiters[sender] = limiter
	}
	return limiter
}

// looksLikeAPIKey reports whether a message is a pasted Gemini API key:
// one whitespace-free token with the AIza prefix.
func looksLikeAPIKey(text string) bool {
	trimmed := strings.TrimSpace(text)
	if strings.ContainsAny(trimmed, " \t\n") {
		return false
	}
	return strings.HasPrefix(trimmed, "AIza") && len(trimmed) >= 30
}
