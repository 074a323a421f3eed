package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "thuk",
		Subsystem: "webhook",
		Name:      "messages_total",
		Help:      "Inbound text messages by processing result.",
	}, []string{"result"})

	sendFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "thuk",
		Subsystem: "webhook",
		Name:      "send_failures_total",
		Help:      "Outbound replies that could not be delivered.",
	})
)

const (
	resultOK          = "ok"
	resultError       = "error"
	resultRateLimited = "rate_limited"
	resultOnboarding  = "onboarding"
)
