package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AIter-Team/Flo"
	"github.com/AIter-Team/Flo/assistant"
	"github.com/AIter-Team/Flo/core"
	"github.com/AIter-Team/Flo/finance"
	"github.com/AIter-Team/Flo/logging"
	"github.com/AIter-Team/Flo/model"
	"github.com/AIter-Team/Flo/model/anthropic"
	"github.com/AIter-Team/Flo/model/openai"
	"github.com/AIter-Team/Flo/router"
	"github.com/AIter-Team/Flo/session"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "flo",
	Short:   "Multi-agent personal finance assistant",
	Long:    "Flo routes conversations between a coordinator and finance specialists backed by language models.",
	Version: flo.Version,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/flo/config.yaml)")
	rootCmd.PersistentFlags().String("model-provider", "", "model provider (openai|anthropic)")
	rootCmd.PersistentFlags().String("model-name", "", "model identifier")
	rootCmd.PersistentFlags().String("db", "", "path to the finance database")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")

	_ = viper.BindPFlag("model.provider", rootCmd.PersistentFlags().Lookup("model-provider"))
	_ = viper.BindPFlag("model.name", rootCmd.PersistentFlags().Lookup("model-name"))
	_ = viper.BindPFlag("finance.db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	viper.SetDefault("model.provider", "openai")
	viper.SetDefault("model.name", "")
	viper.SetDefault("session.backend", "memory")
	viper.SetDefault("session.redis.addr", "localhost:6379")
	viper.SetDefault("session.redis.db", 0)
	viper.SetDefault("session.redis.ttl", "720h")
	viper.SetDefault("finance.db", defaultDBPath())
	viper.SetDefault("instructions.dir", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("metrics.addr", "")
	viper.SetDefault("router.max_steps", router.DefaultMaxStepsPerTurn)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(filepath.Join(home, ".config", "flo"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FLO")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "flo.db"
	}
	return filepath.Join(home, ".local", "share", "flo", "flo.db")
}

func newLogger() logging.Logger {
	return logging.New(logging.Config{
		Level:  parseLogLevel(viper.GetString("log.level")),
		Format: viper.GetString("log.format"),
		Output: os.Stderr,
	})
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newModel() (model.Model, error) {
	provider := viper.GetString("model.provider")
	name := viper.GetString("model.name")

	switch provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if name != "" {
				o.Model = name
			}
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if name != "" {
				o.Model = anthropic.ModelName(name)
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", provider)
	}
}

func newSessionStore() (core.Store, error) {
	switch backend := viper.GetString("session.backend"); backend {
	case "memory":
		return session.NewInMemoryStore(), nil
	case "redis":
		ttl, err := time.ParseDuration(viper.GetString("session.redis.ttl"))
		if err != nil {
			return nil, fmt.Errorf("invalid session.redis.ttl: %w", err)
		}
		return session.NewRedisStore(session.RedisConfig{
			Addr:       viper.GetString("session.redis.addr"),
			Password:   viper.GetString("session.redis.password"),
			DB:         viper.GetInt("session.redis.db"),
			SessionTTL: ttl,
		})
	default:
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}
}

func openFinanceStore() (*finance.Store, error) {
	path := viper.GetString("finance.db")
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return finance.Open(path)
}

// buildTeam assembles the router from config. Metrics are served when
// metrics.addr is set.
func buildTeam(logger logging.Logger) (*routerHandle, error) {
	llm, err := newModel()
	if err != nil {
		return nil, err
	}
	store, err := newSessionStore()
	if err != nil {
		return nil, err
	}
	fin, err := openFinanceStore()
	if err != nil {
		return nil, err
	}

	var metrics *router.Metrics
	if addr := viper.GetString("metrics.addr"); addr != "" {
		registry := prometheus.NewRegistry()
		metrics = router.NewMetrics(registry)
		go serveMetrics(addr, registry, logger)
	}

	var library *assistant.InstructionLibrary
	if dir := viper.GetString("instructions.dir"); dir != "" {
		library = assistant.NewInstructionLibrary(dir)
	}

	r := assistant.NewTeam(llm, store, fin, func(o *assistant.TeamOptions) {
		o.Logger = logger
		o.Metrics = metrics
		o.Library = library
		o.MaxStepsPerTurn = viper.GetInt("router.max_steps")
	})

	return &routerHandle{Router: r, Finance: fin}, nil
}

// routerHandle bundles the router with resources to close on exit.
type routerHandle struct {
	Router  *router.Router
	Finance *finance.Store
}

func (h *routerHandle) Close() error {
	return h.Finance.Close()
}

func serveMetrics(addr string, registry *prometheus.Registry, logger logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	logger.Info("metrics.listen", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics.serve_failed", "error", err.Error())
	}
}
