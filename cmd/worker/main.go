package main

import (
	"Dreamscape/internal/api/config"
	"Dreamscape/internal/pkg/cron"
	"Dreamscape/internal/pkg/logger"
	"Dreamscape/internal/wire"
	"context"
	"errors"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 加载配置
	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	// 初始化日志
	logger.InitLogger()

	infra, err := wire.InitInfra(cfg, false)
	if err != nil {
		log.Error("Fatal error: failed to initialize infrastructure", "err", err)
		panic(err)
	}

	worker, err := wire.BuildWorker(infra.DB, infra.Mongo, cfg)
	if err != nil {
		log.Error("Fatal error: failed to create worker", "err", err)
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// 定时任务
	if err = cron.InitCron(worker.CronMgr); err != nil {
		log.Error("Fatal error: failed to start cron jobs", "err", err)
		panic(err)
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		worker.CronMgr.Stop()
		return nil
	})

	// Kafka 消费者
	if worker.KafkaManager != nil {
		g.Go(func() error {
			log.Info("Kafka Consumers starting...")
			return worker.KafkaManager.Start(ctx)
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Worker exited with error", "err", err)
	}
	log.Info("Worker exited successfully.")
}
