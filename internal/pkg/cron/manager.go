package cron

import (
	"Booklet/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine         *cron.Cron
	viewTotalsJob  *job.ViewTotalsJob
	viewTotalsSpec string
}

// NewCronManager spec 为空时不注册对应任务
func NewCronManager(viewTotalsJob *job.ViewTotalsJob, viewTotalsSpec string) *Manager {
	return &Manager{
		engine:         cron.New(cron.WithSeconds()),
		viewTotalsJob:  viewTotalsJob,
		viewTotalsSpec: viewTotalsSpec,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if s.viewTotalsJob != nil && s.viewTotalsSpec != "" {
		if _, err := s.engine.AddJob(s.viewTotalsSpec, s.viewTotalsJob); err != nil {
			return err
		}
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron engine started")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron engine stopping")
	<-s.engine.Stop().Done()
}
