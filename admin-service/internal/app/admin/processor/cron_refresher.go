package processor

import (
	"fmt"

	"catalogadmin/pkg/logger"
	"catalogadmin/pkg/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher перезагрузка текущей страницы (реализуется сессией)
type Refresher interface {
	Refresh() error
}

// CronRefresher периодически перезагружает список товаров с текущим фильтром
type CronRefresher struct {
	cron   *cron.Cron
	target Refresher
	log    zerolog.Logger
}

func NewCronRefresher(target Refresher) *CronRefresher {
	log := logger.Component("refresher")
	c := cron.New(cron.WithLogger(cronLogger{log: log}))

	return &CronRefresher{
		cron:   c,
		target: target,
		log:    log,
	}
}

// Start регистрирует задачу по расписанию cron и запускает планировщик
// Первая загрузка выполняется сессией, здесь начальный запуск не нужен
func (r *CronRefresher) Start(schedule string) error {
	r.log.Info().Str("schedule", schedule).Msg("Starting list refresher")

	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	r.cron.Start()
	return nil
}

// Stop останавливает планировщик и ждет текущий запуск
func (r *CronRefresher) Stop() {
	r.log.Info().Msg("Stopping list refresher...")
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info().Msg("List refresher stopped")
}

func (r *CronRefresher) Entries() []cron.Entry {
	return r.cron.Entries()
}

func (r *CronRefresher) run() {
	metrics.RefreshRuns.Inc()
	if err := r.target.Refresh(); err != nil {
		r.log.Error().Err(err).Msg("Scheduled refresh failed")
		return
	}
	r.log.Debug().Msg("Scheduled refresh dispatched")
}

// cronLogger пишет события cron в zerolog
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
