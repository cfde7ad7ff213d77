// Package recurring posts copies of recurring ledger templates once a
// day.
//
// A template is an income or expense with the recurring flag set. Every
// day at midnight, templates whose day-of-month matches the current day
// spawn a plain one-off record. Months shorter than the anchor day skip
// the posting for that month, a template anchored to the 31st never
// fires in a 30-day month.
package recurring

import (
	"time"

	"github.com/centsible/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	postedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "centsible_recurring_posted_total",
		Help: "Number of recurring ledger records posted, by kind.",
	}, []string{"kind"})

	runFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "centsible_recurring_failures_total",
		Help: "Number of failed recurring posting runs, by kind.",
	}, []string{"kind"})
)

// Poster triggers the daily posting run.
type Poster struct {
	db   *gorm.DB
	done chan struct{}
}

// NewPoster returns a poster using the given database handle.
func NewPoster(db *gorm.DB) *Poster {
	return &Poster{db: db}
}

// Start launches the posting goroutine. The first run happens at the
// next local midnight, then every 24 hours.
func (p *Poster) Start() {
	p.done = make(chan struct{})

	go func() {
		timer := time.NewTimer(time.Until(nextMidnight(time.Now())))
		defer timer.Stop()

		log.Info().Msg("recurring poster started")

		for {
			select {
			case <-p.done:
				return
			case now := <-timer.C:
				p.Run(now)
				timer.Reset(24 * time.Hour)
			}
		}
	}()
}

// Stop terminates the posting goroutine. A run that is in flight
// completes.
func (p *Poster) Stop() {
	if p.done != nil {
		close(p.done)
	}
}

// Run executes one posting run for the given time. Incomes and expenses
// are posted independently, a failure on one side does not block the
// other.
func (p *Poster) Run(now time.Time) {
	posted, err := p.postIncomes(now)
	if err != nil {
		runFailures.WithLabelValues("income").Inc()
		log.Error().Msgf("recurring income posting: %v", err)
	} else {
		postedTotal.WithLabelValues("income").Add(float64(posted))
		log.Info().Int("count", posted).Msg("posted recurring incomes")
	}

	posted, err = p.postExpenses(now)
	if err != nil {
		runFailures.WithLabelValues("expense").Inc()
		log.Error().Msgf("recurring expense posting: %v", err)
	} else {
		postedTotal.WithLabelValues("expense").Add(float64(posted))
		log.Info().Int("count", posted).Msg("posted recurring expenses")
	}
}

// postIncomes spawns the due income templates. The copy carries only
// the account, the category information, the amount and the note. It
// gets a fresh date and is not itself recurring.
func (p *Poster) postIncomes(now time.Time) (int, error) {
	var templates []models.Income
	err := p.db.Where("is_recurring = ?", true).Find(&templates).Error
	if err != nil {
		return 0, err
	}

	var spawned []models.Income
	for _, template := range templates {
		if template.Date.Day() != now.Day() {
			continue
		}

		spawned = append(spawned, models.Income{
			AccountID:      template.AccountID,
			Category:       template.Category,
			CustomCategory: template.CustomCategory,
			Amount:         template.Amount,
			Note:           template.Note,
		})
	}

	if len(spawned) == 0 {
		return 0, nil
	}

	err = p.db.Create(&spawned).Error
	if err != nil {
		return 0, err
	}

	return len(spawned), nil
}

// postExpenses spawns the due expense templates, see postIncomes.
func (p *Poster) postExpenses(now time.Time) (int, error) {
	var templates []models.Expense
	err := p.db.Where("is_recurring = ?", true).Find(&templates).Error
	if err != nil {
		return 0, err
	}

	var spawned []models.Expense
	for _, template := range templates {
		if template.Date.Day() != now.Day() {
			continue
		}

		spawned = append(spawned, models.Expense{
			AccountID:      template.AccountID,
			Category:       template.Category,
			CustomCategory: template.CustomCategory,
			Amount:         template.Amount,
			Note:           template.Note,
		})
	}

	if len(spawned) == 0 {
		return 0, nil
	}

	err = p.db.Create(&spawned).Error
	if err != nil {
		return 0, err
	}

	return len(spawned), nil
}

// nextMidnight returns the first instant of the next day in the local
// timezone.
func nextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}
