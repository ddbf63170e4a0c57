package universe

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

/*
	Entropy source, periodically proposes a random species to the engine
	it only needs the shared lock to sample the pattern collection and never touches the cells
	placement is chosen by the engine against the generation it is writing
*/

// EntropyOptions represents the EntropySource's configurable options
type EntropyOptions struct {
	Interval time.Duration
	Seed     int64
	Logger   *slog.Logger
}

type EntropySource struct {
	u       *Universe
	queue   *EventQueue
	options EntropyOptions
	logger  *slog.Logger
	rng     *rand.Rand
}

func NewEntropySource(u *Universe, q *EventQueue, o EntropyOptions) *EntropySource {
	if o.Interval < 0 {
		o.Interval = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return &EntropySource{
		u:       u,
		queue:   q,
		options: o,
		logger:  o.Logger.With("component", "entropy"),
		rng:     newRNG(o.Seed),
	}
}

// Propose picks one pattern uniformly from the collection, the origin is left to the engine
func (s *EntropySource) Propose() (EntropyEvent, error) {
	var ev EntropyEvent
	err := s.u.read(func() {
		if len(s.u.patterns) == 0 {
			return
		}
		ev.Pattern = s.u.patterns[s.rng.IntN(len(s.u.patterns))]
	})
	if err != nil {
		return EntropyEvent{}, err
	}
	if ev.Pattern == nil {
		return EntropyEvent{}, ErrNoPatterns
	}
	return ev, nil
}

// Run is the fixed-delay proposal loop, it returns only when ctx is done
// failures never stop it: the cycle is logged and skipped
func (s *EntropySource) Run(ctx context.Context) {
	h, w, y := s.u.spacetime.Dimensions()
	s.logger.Info("entropy started", "history", h, "width", w, "height", y, "interval", s.options.Interval)

	for {
		start := time.Now()
		ev, err := s.Propose()
		if err != nil {
			s.logger.Warn("proposal skipped", "error", err)
		} else if err := s.queue.Send(ev); err != nil {
			s.logger.Warn("proposal not delivered", "pattern", ev.Pattern.Name(), "error", err)
		} else {
			s.logger.Debug("proposed", "pattern", ev.Pattern.Name(), "pending", s.queue.Len(), "elapsed", time.Since(start))
		}

		select {
		case <-ctx.Done():
			s.logger.Info("entropy stopped")
			return
		case <-time.After(s.options.Interval):
		}
	}
}
