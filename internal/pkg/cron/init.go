package cron

import log "log/slog"

// InitCron 注册并启动定时任务，未注册任何任务时不启动引擎
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	entries := mgr.engine.Entries()
	if len(entries) == 0 {
		log.Info("No cron jobs configured, cron engine not started")
		return nil
	}

	mgr.Start()
	for _, e := range mgr.engine.Entries() {
		log.Info("Cron job scheduled", "entry_id", e.ID, "next", e.Next)
	}
	return nil
}
