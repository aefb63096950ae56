package cron

import (
	"Resonance/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine        *cron.Cron
	spoolJob      *job.SpoolJob
	spoolSchedule string
}

func NewCronManager(spoolJob *job.SpoolJob, spoolSchedule string) *Manager {
	if spoolSchedule == "" {
		spoolSchedule = "@hourly"
	}
	return &Manager{
		engine:        cron.New(cron.WithSeconds()),
		spoolJob:      spoolJob,
		spoolSchedule: spoolSchedule,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if s.spoolJob != nil {
		if _, err := s.engine.AddJob(s.spoolSchedule, s.spoolJob); err != nil {
			return err
		}
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
