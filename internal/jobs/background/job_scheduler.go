package background

import (
	"context"
	"time"

	"servicehub/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const (
	overdueSweepInterval = 24 * time.Hour
	statsRefreshInterval = 10 * time.Minute
)

// JobScheduler runs the recurring maintenance jobs: the overdue invoice
// sweep and the stats cache refresh.
type JobScheduler struct {
	scheduler      gocron.Scheduler
	invoiceService services.InvoiceService
	statsService   services.StatsService
}

func NewJobScheduler(invoiceService services.InvoiceService, statsService services.StatsService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:      scheduler,
		invoiceService: invoiceService,
		statsService:   statsService,
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) registerJobs() error {
	// Daily sweep flipping payable invoices past their due date to
	// overdue. Paid, cancelled and draft invoices are never touched.
	if _, err := js.scheduler.NewJob(
		gocron.DurationJob(overdueSweepInterval),
		gocron.NewTask(js.sweepOverdueInvoices),
		gocron.WithName("overdue-invoice-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return err
	}

	if _, err := js.scheduler.NewJob(
		gocron.DurationJob(statsRefreshInterval),
		gocron.NewTask(js.refreshStats),
		gocron.WithName("stats-cache-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return err
	}
	return nil
}

func (js *JobScheduler) sweepOverdueInvoices() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := js.invoiceService.MarkOverdue(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("overdue invoice sweep failed")
		return
	}
	log.Info().Int64("count", count).Msg("overdue invoice sweep completed")
}

func (js *JobScheduler) refreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := js.statsService.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("stats cache refresh failed")
	}
}

// Start begins running the registered jobs.
func (js *JobScheduler) Start() {
	log.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for running jobs.
func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}
