package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"credit-organization-api/internal/adapters/persistence/repositories"
)

// jobTimeout bounds a single scheduled run.
const jobTimeout = time.Minute

// CronSchedules holds the cron expressions of the maintenance jobs.
type CronSchedules struct {
	OverdueLoans         string
	ExpiredRefreshTokens string
}

// CronService runs periodic maintenance: overdue loan marking and expired
// refresh token cleanup.
type CronService struct {
	uow       repositories.UnitOfWork
	schedules CronSchedules
	cron      *cron.Cron
	log       zerolog.Logger
	now       func() time.Time
}

// NewCronService creates a new cron service
func NewCronService(uow repositories.UnitOfWork, schedules CronSchedules, log zerolog.Logger) *CronService {
	log = log.With().Str("component", "cron").Logger()
	clog := cronLogger{log: log}
	return &CronService{
		uow:       uow,
		schedules: schedules,
		cron:      cron.New(cron.WithLogger(clog), cron.WithChain(cron.Recover(clog))),
		log:       log,
		now:       time.Now,
	}
}

// cronLogger routes scheduler messages and recovered job panics to zerolog.
type cronLogger struct {
	log zerolog.Logger
}

// Info logs scheduler events at debug level.
func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) (int64, error)
	}{
		{"mark_overdue_loans", s.schedules.OverdueLoans, s.MarkOverdueLoans},
		{"purge_refresh_tokens", s.schedules.ExpiredRefreshTokens, s.PurgeExpiredRefreshTokens},
	}

	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() { s.runJob(job.name, job.run) }); err != nil {
			return err
		}
		s.log.Info().Str("job", job.name).Str("spec", job.spec).Msg("job scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("cron stopped")
}

// MarkOverdueLoans flags active loans whose end date has passed
func (s *CronService) MarkOverdueLoans(ctx context.Context) (int64, error) {
	return s.uow.Loans().MarkOverdue(ctx, s.now().UTC())
}

// PurgeExpiredRefreshTokens signs out sessions whose refresh token expired
func (s *CronService) PurgeExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return s.uow.RefreshTokens().ClearExpired(ctx, s.now().UTC())
}

func (s *CronService) runJob(name string, run func(ctx context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := run(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("job", name).Msg("job failed")
		return
	}
	s.log.Info().Str("job", name).Int64("rows", n).Dur("took", time.Since(start)).Msg("job finished")
}
