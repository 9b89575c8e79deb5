package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/policydesk/polgw/internal/config"
	"github.com/policydesk/polgw/internal/db"
	httpSrv "github.com/policydesk/polgw/internal/http"
	"github.com/policydesk/polgw/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger.Init(cfg.Log.Level)

		sqlDB, err := db.NewSQLiteConnection(cfg.SQLite.Path, db.SQLiteOpts{
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("sqlite open: %w", err)
		}
		defer sqlDB.Close()

		// redis is optional: without it the rate limiter is a no-op
		var redisClient *redis.Client
		if cfg.Redis.Addr != "" {
			redisClient, err = db.NewRedisClient(db.RedisOpts{
				Addr:        cfg.Redis.Addr,
				Password:    cfg.Redis.Password,
				DB:          cfg.Redis.DB,
				DialTimeout: cfg.Redis.DialTimeout,
			})
			if err != nil {
				return fmt.Errorf("redis connect: %w", err)
			}
			defer func() { _ = redisClient.Close() }()
		}

		server := httpSrv.NewServer(cfg, sqlDB, redisClient)

		errCh := make(chan error, 1)
		go func() {
			log.Printf("starting http on %s", cfg.HTTP.Addr)
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Printf("signal received: %s, shutting down...", sig)
		case err := <-errCh:
			if err != nil {
				log.Printf("http server exited: %v", err)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
