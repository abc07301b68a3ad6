package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/simpleg-eu/cp-config/internal/appstate"
	"github.com/simpleg-eu/cp-config/internal/authz"
	"github.com/simpleg-eu/cp-config/internal/builder"
	"github.com/simpleg-eu/cp-config/internal/cleaner"
	"github.com/simpleg-eu/cp-config/internal/config"
	"github.com/simpleg-eu/cp-config/internal/configwatch"
	"github.com/simpleg-eu/cp-config/internal/downloader"
	"github.com/simpleg-eu/cp-config/internal/eventlog"
	"github.com/simpleg-eu/cp-config/internal/httpserver"
	"github.com/simpleg-eu/cp-config/internal/logfields"
	"github.com/simpleg-eu/cp-config/internal/metrics"
	"github.com/simpleg-eu/cp-config/internal/notify"
	"github.com/simpleg-eu/cp-config/internal/packager"
	"github.com/simpleg-eu/cp-config/internal/secrets"
	"github.com/simpleg-eu/cp-config/internal/supply"
	"github.com/simpleg-eu/cp-config/internal/warmer"
)

// Set at build time with: -ldflags "-X main.version=1.0.0-rc1"
var version = "dev"

type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve          ServeCmd          `cmd:"" help:"Run the configuration-delivery HTTP service"`
	ValidateConfig ValidateConfigCmd `cmd:"" name:"validate-config" help:"Parse and validate a configuration file, then exit"`
}

type Global struct {
	Logger *slog.Logger
}

func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// ValidateConfigCmd loads the configuration document and reports any
// parsing error, without starting the service.
type ValidateConfigCmd struct{}

func (ValidateConfigCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	slog.Info("configuration is valid",
		logfields.Count(len(cfg.Environments)),
		logfields.Name(cfg.Git.Repository))
	return nil
}

// ServeCmd starts the HTTP service and runs until a shutdown signal
// arrives.
type ServeCmd struct {
	WorkDir string `short:"w" help:"Base working directory for supplier working trees" default:"./work"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	secretMgr := secrets.NewEnv()
	auth, err := resolveGitAuth(secretMgr, cfg.Git)
	if err != nil {
		return fmt.Errorf("resolve git credentials: %w", err)
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	var notifier *notify.Client
	if cfg.Notify.URL != "" {
		notifier = notify.New(cfg.Notify.URL, cfg.Notify.Subject)
		defer notifier.Close()
	}

	init := &supply.ConfigSupplierInit{
		Environments: cfg.Environments,
		Downloader:   downloader.NewGit(cfg.Git.Repository, auth),
		Builder:      builder.NewMicroconfig(),
		Packager:     packager.NewZip(),
		Cleaner:      cleaner.New(),
		Recorder:     recorder,
	}
	if notifier != nil {
		init.Notifier = notifier
	}

	chain, err := supply.NewConfigSupplyChain(sigCtx, int(cfg.ConfigSuppliersCount), cfg.StaticStages, init, s.WorkDir)
	if err != nil {
		return fmt.Errorf("start supply chain: %w", err)
	}
	defer chain.Shutdown()

	var servedChain appstate.SupplyChain = chain
	if cfg.EventLog.Path != "" {
		log, logErr := eventlog.Open(cfg.EventLog.Path)
		if logErr != nil {
			return fmt.Errorf("open event log: %w", logErr)
		}
		defer log.Close()
		servedChain = &auditedSupplyChain{chain: chain, log: log}
	}

	if cfg.Warmer.Enabled && len(cfg.StaticStages) > 0 {
		interval, parseErr := time.ParseDuration(cfg.Warmer.Interval)
		if parseErr != nil {
			return fmt.Errorf("invalid warmer interval %q: %w", cfg.Warmer.Interval, parseErr)
		}
		w, warmerErr := warmer.New(servedChain, cfg.StaticStages, cfg.HealthProbe.Environment, cfg.HealthProbe.Component, interval)
		if warmerErr != nil {
			return fmt.Errorf("start warmer: %w", warmerErr)
		}
		w.Start()
		defer w.Shutdown()
	}

	watcher, err := configwatch.New(root.Config, chain)
	if err != nil {
		return fmt.Errorf("start config watcher: %w", err)
	}
	if err := watcher.Start(sigCtx); err != nil {
		return fmt.Errorf("start config watcher: %w", err)
	}
	defer watcher.Stop()

	var metricsHandler = metrics.HTTPHandler(registry)
	if !cfg.Metrics.Enabled {
		metricsHandler = nil
	}

	state := appstate.New(servedChain, cfg.Timeouts, cfg.HealthProbe, authz.AllowAll{})
	server := httpserver.New(cfg.TcpListener.Address, cfg.TcpListener.Port, state, metricsHandler)
	if err := server.Start(sigCtx); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	slog.Info("cp-config started", logfields.Count(int(cfg.ConfigSuppliersCount)))
	<-sigCtx.Done()
	slog.Info("shutdown signal received, stopping")

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Stop(stopCtx); err != nil {
		slog.Error("http server shutdown error", logfields.Error(err))
	}

	return nil
}

func resolveGitAuth(mgr secrets.Manager, gitCfg config.GitConfig) (downloader.Auth, error) {
	if gitCfg.UsernameSecret == "" && gitCfg.PasswordSecret == "" {
		return downloader.Auth{Type: downloader.AuthNone}, nil
	}

	username, err := mgr.GetSecret(gitCfg.UsernameSecret)
	if err != nil {
		return downloader.Auth{}, err
	}
	password, err := mgr.GetSecret(gitCfg.PasswordSecret)
	if err != nil {
		return downloader.Auth{}, err
	}
	return downloader.Auth{Type: downloader.AuthBasic, Username: username, Password: password}, nil
}

func main() {
	cli := &CLI{}
	parser := kong.Parse(cli,
		kong.Description("cp-config: stage-affine configuration delivery service."),
		kong.Vars{"version": version},
	)

	globals := &Global{Logger: slog.Default()}

	if err := parser.Run(globals, cli); err != nil {
		slog.Error("command failed", logfields.Error(err))
		os.Exit(1)
	}
}
