package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"powerrelay/backend/services/relay-service/internal/models"
	"powerrelay/backend/services/relay-service/internal/telegram"
)

const publishTimeout = 5 * time.Second

// Fetcher returns the readings for a day; failures yield an empty batch.
type Fetcher interface {
	FetchReadings(ctx context.Context, day time.Time) models.ReadingBatch
}

// TelegramBuilder encodes a work power value, reporting false when there is none.
type TelegramBuilder interface {
	Build(workPower *int32) (telegram.Telegram, bool)
}

// Sender delivers a telegram.
type Sender interface {
	Send(ctx context.Context, msg telegram.Telegram) error
}

// StatusPublisher exports the latest cycle status.
type StatusPublisher interface {
	Save(ctx context.Context, status CycleStatus) error
}

// RelayService runs fetch → build → send cycles.
type RelayService struct {
	fetcher   Fetcher
	builder   TelegramBuilder
	sender    Sender
	tracker   *StatusTracker
	publisher StatusPublisher
	now       func() time.Time
	loc       *time.Location
	timeout   time.Duration
	logger    *zap.Logger
}

// Options carries the optional collaborators of RelayService.
type Options struct {
	Tracker   *StatusTracker
	Publisher StatusPublisher
	Now       func() time.Time
	Location  *time.Location
	// CycleTimeout bounds one cycle; zero means no extra bound.
	CycleTimeout time.Duration
}

// NewRelayService returns service instance.
func NewRelayService(fetcher Fetcher, builder TelegramBuilder, sender Sender, opts Options, logger *zap.Logger) *RelayService {
	if opts.Tracker == nil {
		opts.Tracker = NewStatusTracker()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &RelayService{
		fetcher:   fetcher,
		builder:   builder,
		sender:    sender,
		tracker:   opts.Tracker,
		publisher: opts.Publisher,
		now:       opts.Now,
		loc:       opts.Location,
		timeout:   opts.CycleTimeout,
		logger:    logger,
	}
}

// Tracker exposes the status tracker.
func (s *RelayService) Tracker() *StatusTracker {
	return s.tracker
}

// Run is the scheduler entry point.
func (s *RelayService) Run(ctx context.Context) {
	s.RunCycle(ctx)
}

// RunCycle performs one cycle and records its status. It never returns an error: every failure
// is logged and reflected in the outcome.
func (s *RelayService) RunCycle(ctx context.Context) CycleStatus {
	cycleCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		cycleCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	status := CycleStatus{StartedAt: s.now()}
	s.cycle(cycleCtx, &status)
	status.FinishedAt = s.now()

	s.tracker.Record(status)
	s.publish(ctx, status)

	s.logger.Info("relay cycle finished",
		zap.String("outcome", string(status.Outcome)),
		zap.Int64("reading_id", status.ReadingID),
		zap.Duration("took", status.FinishedAt.Sub(status.StartedAt)),
	)
	return status
}

func (s *RelayService) cycle(ctx context.Context, status *CycleStatus) {
	batch := s.fetcher.FetchReadings(ctx, status.StartedAt.In(s.loc))
	reading, ok := batch.First()
	if !ok {
		s.logger.Info("no readings returned")
		status.Outcome = OutcomeNoData
		return
	}

	status.ReadingID = reading.ExternalID
	status.Quarter = reading.Quarter
	s.logger.Info("latest reading",
		zap.Int64("id", reading.ExternalID),
		zap.String("quarter", reading.Quarter),
		zap.String("date", reading.Date),
		zap.Int32p("work_power", reading.WorkPower),
	)

	msg, ok := s.builder.Build(reading.WorkPower)
	if !ok {
		status.Outcome = OutcomeNoWorkPower
		return
	}
	status.Telegram = string(msg)
	s.logger.Info("telegram built", zap.String("telegram", string(msg)))

	if err := s.sender.Send(ctx, msg); err != nil {
		status.Outcome = OutcomeSendFailed
		status.Error = err.Error()
		return
	}
	status.Outcome = OutcomeSent
}

func (s *RelayService) publish(ctx context.Context, status CycleStatus) {
	if s.publisher == nil {
		return
	}
	// Detached from the cycle deadline and from shutdown.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Save(ctx, status); err != nil {
		s.logger.Warn("failed to publish cycle status", zap.Error(err))
	}
}
