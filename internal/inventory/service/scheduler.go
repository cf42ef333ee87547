package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/config"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/sse"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 2 * time.Minute

// Scheduler runs the low-stock digest and the stale shift sweep.
type Scheduler struct {
	cron       *cron.Cron
	materials  *repository.MaterialRepository
	attendance *AttendanceService
	hub        *sse.Hub
	cfg        config.AlertConfig
	logger     *zap.Logger
}

func NewScheduler(materials *repository.MaterialRepository, attendance *AttendanceService, hub *sse.Hub, cfg config.AlertConfig, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		materials:  materials,
		attendance: attendance,
		hub:        hub,
		cfg:        cfg,
		logger:     logger.Named("scheduler"),
	}
}

// Start registers the jobs with non-empty specs and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.cfg.LowStockSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.LowStockSpec, s.job("low_stock_digest", s.lowStockJob)); err != nil {
			return fmt.Errorf("schedule low stock digest: %w", err)
		}
	}
	if s.cfg.AttendanceSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.AttendanceSpec, s.job("attendance_sweep", s.attendanceJob)); err != nil {
			return fmt.Errorf("schedule attendance sweep: %w", err)
		}
	}
	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("low_stock_spec", s.cfg.LowStockSpec),
		zap.String("attendance_spec", s.cfg.AttendanceSpec),
	)
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) job(name string, run func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := run(ctx); err != nil {
			s.logger.Error("job failed", zap.String("job", name), zap.Error(err))
		}
	}
}

func (s *Scheduler) lowStockJob(ctx context.Context) error {
	_, err := s.RunLowStockDigest(ctx)
	return err
}

func (s *Scheduler) attendanceJob(ctx context.Context) error {
	closed, err := s.attendance.CloseStale(ctx)
	if closed > 0 {
		s.logger.Info("closed stale shifts", zap.Int("count", closed))
	}
	return err
}

// RunLowStockDigest logs every material at or below its minimum and pushes the count to dashboards.
func (s *Scheduler) RunLowStockDigest(ctx context.Context) (int, error) {
	low, err := s.materials.ListBelowMinimum(ctx)
	if err != nil {
		return 0, fmt.Errorf("list low stock: %w", err)
	}
	for _, m := range low {
		s.logger.Warn("low stock",
			zap.String("material_id", m.ID),
			zap.String("name", m.Name),
			zap.Int("current_stock", m.CurrentStock),
			zap.Int("min_stock", m.MinStock),
			zap.String("status", m.Status),
		)
	}
	if len(low) > 0 && s.hub != nil {
		s.hub.PublishLowStockDigest(len(low))
	}
	return len(low), nil
}
