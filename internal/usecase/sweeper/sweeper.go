// Package sweeper runs the periodic maintenance pass of the engine: it
// expires overdue reservations and moves stuck or silent lockers through
// the fault path. A pass never blocks on an item another request is
// working on; that item is picked up by the next pass.
package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"book-locker/internal/pkg/clock"
	"book-locker/internal/pkg/config"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/commands"
	"book-locker/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultBatchSize = 500

// Report counts what one pass did.
type Report struct {
	Expired         int
	Skipped         int
	DoorTimeouts    int
	Escalations     int
	HeartbeatFaults int
	Failures        int
}

func (r Report) merge(o Report) Report {
	return Report{
		Expired:         r.Expired + o.Expired,
		Skipped:         r.Skipped + o.Skipped,
		DoorTimeouts:    r.DoorTimeouts + o.DoorTimeouts,
		Escalations:     r.Escalations + o.Escalations,
		HeartbeatFaults: r.HeartbeatFaults + o.HeartbeatFaults,
		Failures:        r.Failures + o.Failures,
	}
}

type Sweeper struct {
	reservations shared.ReservationStore
	lockers      shared.LockerStore
	registry     commands.ReservationCommands
	machine      commands.LockerCommands
	clock        clock.Clock
	interval     time.Duration
	batchSize    int
	logger       *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(
	reservations shared.ReservationStore,
	lockers shared.LockerStore,
	registry commands.ReservationCommands,
	machine commands.LockerCommands,
	clk clock.Clock,
	engine config.EngineConfig,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		reservations: reservations,
		lockers:      lockers,
		registry:     registry,
		machine:      machine,
		clock:        clk,
		interval:     engine.SweepInterval,
		batchSize:    batchSize(engine.SweepBatchSize),
		logger:       logger.With("component", "sweeper"),
	}
}

func batchSize(n int) int {
	if n <= 0 {
		return defaultBatchSize
	}
	return n
}

// Sweep runs one pass. The reservation and locker phases run concurrently;
// item failures are logged and counted, only listing failures are returned.
func (s *Sweeper) Sweep(ctx context.Context) (Report, error) {
	var resReport, lockerReport Report

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resReport, err = s.sweepReservations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		lockerReport, err = s.sweepLockers(gctx)
		return err
	})
	err := g.Wait()

	report := resReport.merge(lockerReport)
	if report != (Report{}) {
		s.logger.InfoContext(ctx, "sweep finished",
			"expired", report.Expired,
			"skipped", report.Skipped,
			"door_timeouts", report.DoorTimeouts,
			"escalations", report.Escalations,
			"heartbeat_faults", report.HeartbeatFaults,
			"failures", report.Failures)
	}
	return report, err
}

// sweepReservations pages through due reservations until a page comes back
// short. Items that stay due after an attempt (busy or failing) are tried
// once per pass; a page holding nothing new ends the pass.
func (s *Sweeper) sweepReservations(ctx context.Context) (Report, error) {
	var report Report
	attempted := make(map[uuid.UUID]struct{})

	for {
		due, err := s.reservations.ListDue(ctx, s.clock.Now(), s.batchSize)
		if err != nil {
			return report, errs.Wrap(err, "list due reservations")
		}

		fresh := 0
		for _, res := range due {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			if _, seen := attempted[res.ID()]; seen {
				continue
			}
			attempted[res.ID()] = struct{}{}
			fresh++

			expired, err := s.registry.Expire(ctx, res.ID())
			switch {
			case err != nil:
				report.Failures++
				s.logger.ErrorContext(ctx, "failed to expire reservation", "reservation_id", res.ID(), "error", err)
			case expired:
				report.Expired++
			default:
				report.Skipped++
			}
		}

		if len(due) < s.batchSize || fresh == 0 {
			return report, nil
		}
	}
}

func (s *Sweeper) sweepLockers(ctx context.Context) (Report, error) {
	var report Report

	lockers, err := s.lockers.List(ctx)
	if err != nil {
		return report, errs.Wrap(err, "list lockers")
	}

	for _, l := range lockers {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		id := l.ID()

		if ok, err := s.machine.SweepDoorTimeout(ctx, id); err != nil {
			report.Failures++
			s.logger.ErrorContext(ctx, "door timeout check failed", "locker_id", id, "error", err)
		} else if ok {
			report.DoorTimeouts++
		}

		if ok, err := s.machine.SweepHeartbeat(ctx, id); err != nil {
			report.Failures++
			s.logger.ErrorContext(ctx, "heartbeat check failed", "locker_id", id, "error", err)
		} else if ok {
			report.HeartbeatFaults++
		}

		if ok, err := s.machine.SweepEscalation(ctx, id); err != nil {
			report.Failures++
			s.logger.ErrorContext(ctx, "fault escalation failed", "locker_id", id, "error", err)
		} else if ok {
			report.Escalations++
		}
	}
	return report, nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.ErrorContext(ctx, "sweep failed", "error", err)
			}
		}
	}
}

// Start launches Run in the background; Stop cancels it and waits.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.Run(ctx)
	}()
}

func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
