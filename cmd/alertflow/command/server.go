package command

import (
	"context"
	"fmt"

	alerthttp "alertflow/alerting/http"
	"alertflow/alerting/manager"
	"alertflow/alerting/notifier"
	"alertflow/alerting/router"
	"alertflow/alerting/silence"
	"alertflow/alerting/store"
	"alertflow/internal/config"
	"alertflow/pkg/log"
	"alertflow/pkg/redis"

	"github.com/spf13/cobra"
)

type serverOptions struct {
	ConfigPath string
	Listen     string
	LogLevel   string
}

func ServerCmd() *cobra.Command {
	var opts serverOptions
	var cmd = &cobra.Command{
		Use:          "server",
		SilenceUsage: true,
		Short:        "server starts the alert management service",
		Long:         `server starts the webhook ingestion, lifecycle engine, notification dispatch, and query API.`,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "path to the yaml config file")
	fs.StringVarP(&opts.Listen, "listen", "l", "", "api listen address, overrides config")
	fs.StringVarP(&opts.LogLevel, "log-level", "", "info", "log level (silent, info, error, warning, verbose)")
	return cmd
}

func runServer(opts serverOptions) error {
	log.Loglevel = log.SetLogLevel(opts.LogLevel)
	logger := log.NewLogger(log.Loglevel, "alertflow")

	cfg, err := config.InitConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Listen != "" {
		cfg.App.Listen = opts.Listen
	}

	rdb, err := redis.NewClient(&redis.ClientConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	db := store.GetDB(&cfg.Database)

	channels := []notifier.Channel{
		notifier.NewEmailChannel(cfg.SMTP),
		notifier.NewSMSChannel(cfg.SMS),
	}
	live, err := notifier.NewLiveUpdateChannel(cfg.Nats.URL, cfg.Nats.SubjectPrefix)
	if err != nil {
		// Live updates degrade the dashboards, not alert delivery.
		logger.Errorf("live-update channel unavailable: %v", err)
	} else {
		defer live.Close()
		channels = append(channels, live)
	}

	silences := silence.NewManager(rdb, store.NewSilenceRepository(db), nil)
	mgr := manager.NewManager(manager.Options{
		Snapshots: store.NewRedisSnapshotStore(rdb),
		History:   store.NewHistoryRepository(db),
		Silences:  silences,
		Router:    router.NewRouter(channels...),
		Window:    cfg.Alerting.DedupWindow(),
		TTL:       cfg.Alerting.SnapshotTTL(),
	})
	mgr.Load(context.Background())

	server := alerthttp.NewServer(&alerthttp.ServerConfig{
		Listen:    cfg.App.Listen,
		Manager:   mgr,
		JWT:       cfg.JWT,
		Operators: cfg.App.Operators,
	})
	return server.Start()
}
