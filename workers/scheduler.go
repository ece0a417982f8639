package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/mlm_backoffice/metrics"
	"github.com/HSouheill/mlm_backoffice/models"
	"github.com/HSouheill/mlm_backoffice/services"
)

const housekeepingInterval = time.Hour

// LowStockSource lists inventory rows at or below their reorder level.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]*models.InventoryWithProduct, error)
}

// Cleaner is anything holding expiring state, such as the rate limiter.
type Cleaner interface {
	Cleanup() int
}

// Scheduler runs the periodic background jobs.
type Scheduler struct {
	sched     gocron.Scheduler
	inventory LowStockSource
	tokens    services.TokenStore
	limiter   Cleaner
	publisher services.Publisher
	log       logrus.FieldLogger
}

func NewScheduler(inventory LowStockSource, tokens services.TokenStore, limiter Cleaner, publisher services.Publisher, log logrus.FieldLogger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{
		sched:     sched,
		inventory: inventory,
		tokens:    tokens,
		limiter:   limiter,
		publisher: publisher,
		log:       log,
	}, nil
}

// Start registers the jobs and starts the scheduler. The low-stock scan runs
// once immediately so the gauge is populated at boot.
func (s *Scheduler) Start(ctx context.Context, lowStockEvery time.Duration) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(lowStockEvery),
		gocron.NewTask(func() {
			if _, err := s.ScanLowStock(ctx); err != nil {
				s.log.WithError(err).Error("low stock scan failed")
			}
		}),
		gocron.WithName("low-stock-scan"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule low stock scan: %w", err)
	}

	_, err = s.sched.NewJob(
		gocron.DurationJob(housekeepingInterval),
		gocron.NewTask(func() {
			s.Housekeeping(ctx)
		}),
		gocron.WithName("housekeeping"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule housekeeping: %w", err)
	}

	s.sched.Start()
	s.log.WithField("lowStockEvery", lowStockEvery.String()).Info("background jobs started")
	return nil
}

// ScanLowStock refreshes the low-stock gauge and pushes one event listing the
// rows that need restocking. It returns how many rows are low.
func (s *Scheduler) ScanLowStock(ctx context.Context) (int, error) {
	rows, err := s.inventory.LowStock(ctx)
	if err != nil {
		return 0, err
	}
	metrics.SetLowStockProducts(len(rows))
	if len(rows) == 0 {
		return 0, nil
	}

	event := models.NewEvent(models.EventInventoryLowStock, rows)
	event.Message = fmt.Sprintf("%d products at or below reorder level", len(rows))
	s.publisher.Publish(event)
	s.log.WithField("count", len(rows)).Info("low stock detected")
	return len(rows), nil
}

// Housekeeping drops expired token revocations and lifted rate limit blocks.
func (s *Scheduler) Housekeeping(ctx context.Context) {
	purged, err := s.tokens.Purge(ctx)
	if err != nil {
		s.log.WithError(err).Error("token purge failed")
	}
	unblocked := 0
	if s.limiter != nil {
		unblocked = s.limiter.Cleanup()
	}
	s.log.WithFields(logrus.Fields{
		"revocationsPurged": purged,
		"ipsUnblocked":      unblocked,
	}).Debug("housekeeping done")
}

// Shutdown stops the scheduler and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
