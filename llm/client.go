package llm

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatRequestsTotal prometheus.Counter
	chatFailuresTotal prometheus.Counter
)

func init() {
	chatRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_chat_requests_total",
			Help: "Total number of chat completion requests sent to the LLM API.",
		},
	)
	chatFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_chat_failures_total",
			Help: "Total number of failed chat completion requests.",
		},
	)
	prometheus.MustRegister(chatRequestsTotal, chatFailuresTotal)
}

// Message ist ein einzelner Gesprächszug im Chat-Protokoll.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client kapselt die externe Chat-Completion-API. Ein Aufruf ist synchron
// und blockierend; es gibt bewusst keinen Retry und keinen Circuit-Breaker,
// transiente Fehler propagieren an den Aufrufer.
type Client interface {
	// Complete sendet einen System-Prompt plus Konversation und gibt den
	// rohen Antworttext des Modells zurück.
	Complete(ctx context.Context, system string, conversation []Message) (string, error)
}
