// Package notify carries budget threshold events to the outside world.
//
// Delivery is deliberately minimal: events are logged and counted. A
// real notification channel (mail, push) can implement Notifier without
// touching the budget engine.
package notify

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Level classifies a budget threshold event.
type Level string

const (
	// LevelWarning is emitted when spending crosses 90% of the allocation.
	LevelWarning Level = "warning"
	// LevelCritical is emitted when spending reaches the allocation.
	LevelCritical Level = "critical"
)

// BudgetEvent is emitted once by the write that makes spending cross a
// threshold. Reads never emit events.
type BudgetEvent struct {
	AccountID  uuid.UUID
	BudgetID   uuid.UUID
	BudgetName string
	Category   string
	Level      Level
	Spent      decimal.Decimal
	Allocated  decimal.Decimal
}

// Notifier delivers budget threshold events.
type Notifier interface {
	BudgetThreshold(event BudgetEvent)
}

var thresholdEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "centsible_budget_threshold_events_total",
	Help: "Number of budget threshold events emitted, by level.",
}, []string{"level"})

// LogNotifier writes events to the log and counts them.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) BudgetThreshold(event BudgetEvent) {
	thresholdEvents.WithLabelValues(string(event.Level)).Inc()

	n.Logger.Warn().
		Str("budget", event.BudgetID.String()).
		Str("category", event.Category).
		Str("level", string(event.Level)).
		Str("spent", event.Spent.String()).
		Str("allocated", event.Allocated.String()).
		Msg("budget threshold crossed")
}

// Discard drops all events. Used in tests that do not care about them.
type Discard struct{}

func (Discard) BudgetThreshold(BudgetEvent) {}
