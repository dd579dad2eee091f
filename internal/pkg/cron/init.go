package cron

import (
	"fmt"
	log "log/slog"
)

// InitCron 注册任务并启动引擎，仅在 worker 进程调用
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	mgr.Start()
	log.Info("cron jobs registered", "count", len(mgr.engine.Entries()))
	return nil
}
