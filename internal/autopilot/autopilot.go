package autopilot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sam-maryland/hoops-league-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

// Ticker advances a league by one autopilot step
type Ticker interface {
	Tick(ctx context.Context, id string) (*league.State, error)
	GetLeague(ctx context.Context, id string) (*league.State, error)
}

// Autopilot periodically simulates and advances a fixed set of leagues
type Autopilot struct {
	s        gocron.Scheduler
	ticker   Ticker
	leagues  []string
	interval time.Duration
	logger   *logrus.Logger

	mu       sync.Mutex
	finished map[string]bool
}

// New creates an autopilot for leagues, ticking every interval
func New(ticker Ticker, leagues []string, interval time.Duration, logger *logrus.Logger) (*Autopilot, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Autopilot{
		s:        s,
		ticker:   ticker,
		leagues:  leagues,
		interval: interval,
		logger:   logger,
		finished: make(map[string]bool),
	}, nil
}

// Start schedules the tick job and starts the scheduler
func (a *Autopilot) Start() error {
	_, err := a.s.NewJob(
		gocron.DurationJob(a.interval),
		gocron.NewTask(func() { a.RunOnce(context.Background()) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create autopilot job: %w", err)
	}

	a.s.Start()
	a.logger.WithFields(logrus.Fields{
		"leagues":  a.leagues,
		"interval": a.interval.String(),
	}).Info("Autopilot started")
	return nil
}

// Stop shuts the scheduler down
func (a *Autopilot) Stop() error {
	return a.s.Shutdown()
}

// RunOnce ticks every league that has not finished. It returns the number
// of leagues that advanced.
func (a *Autopilot) RunOnce(ctx context.Context) int {
	advanced := 0
	for _, id := range a.leagues {
		if a.isFinished(id) {
			continue
		}

		entry := a.logger.WithField("league_id", id)
		st, err := a.ticker.Tick(ctx, id)
		switch {
		case err == nil:
			advanced++
			current, _ := st.CurrentDate()
			entry.WithFields(logrus.Fields{
				"phase":        st.Phase,
				"current_date": current,
			}).Debug("Autopilot advanced league")
			if st.Phase == league.PhaseFinished {
				a.markFinished(id)
				entry.Info("Autopilot league finished")
			}
		case league.IsNotFound(err):
			a.markFinished(id)
			entry.WithError(err).Warn("Autopilot league not found, skipping")
		case league.IsStateError(err), league.IsConfigError(err):
			// An open draft is retried on the next tick; a finished season is dropped
			entry.WithError(err).Info("Autopilot skipped league")
			if st, loadErr := a.ticker.GetLeague(ctx, id); loadErr == nil && st.Phase == league.PhaseFinished {
				a.markFinished(id)
			}
		default:
			entry.WithError(err).Error("Autopilot failed to advance league")
		}
	}
	return advanced
}

func (a *Autopilot) isFinished(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finished[id]
}

func (a *Autopilot) markFinished(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finished[id] = true
}
