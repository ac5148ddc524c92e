// File: cmd/s3sh/app.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"s3sh/internal/buckets"
	"s3sh/internal/config"
	"s3sh/internal/history"
	"s3sh/internal/listing"
	"s3sh/internal/logger"
	"s3sh/internal/persist"
	"s3sh/internal/provider/factory"
	"s3sh/internal/service"
	"s3sh/internal/session"
	"s3sh/internal/transfer"
	"s3sh/internal/ui/prompt"
	"s3sh/pkg/formatter"
)

// Base names of the persisted collections inside home_dir
const (
	bucketsStoreName = "buckets"
	historyStoreName = "commands"
)

// appContainer holds all the shared dependencies for the application
// This includes configuration, the bucket registry, the live session, formatters, and the logger
type appContainer struct {
	Config          *config.Config
	ConfigManager   *config.ConfigManager
	Registry        *buckets.Registry
	History         *history.Log
	Session         *session.Session
	ProviderFactory *factory.Factory
	ObjectService   *service.ObjectService
	Formatter       *formatter.ShellFormatter
	Prompter        prompt.Prompter
	Logger          *slog.Logger

	// Shared by the shell loop and the prompter
	In     *bufio.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type appOptions struct {
	ConfigPath string
	Debug      bool

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// Overrides the provider factory, used by tests
	Clients session.ClientFactory
}

// Creates and initializes a new application container
func newApp(ctx context.Context, opts appOptions) (*appContainer, error) {
	cfgManager, err := openConfigManager(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg, err := cfgManager.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.Debug {
		level = "debug"
	}
	log := logger.NewLogger(level, opts.ErrOut)

	profileStore, err := persist.Open[buckets.Profile](persist.Backend(cfg.Store.Backend), cfg.HomeDir, bucketsStoreName)
	if err != nil {
		return nil, err
	}
	registry, err := buckets.NewRegistry(ctx, profileStore, log)
	if err != nil {
		return nil, err
	}

	historyStore, err := persist.Open[string](persist.Backend(cfg.Store.Backend), cfg.HomeDir, historyStoreName)
	if err != nil {
		return nil, err
	}
	commandLog, err := history.NewLog(ctx, historyStore, log)
	if err != nil {
		return nil, err
	}

	providerFactory := factory.NewFactory(cfg, log)
	var clients session.ClientFactory = providerFactory
	if opts.Clients != nil {
		clients = opts.Clients
	}
	sess := session.New(registry, clients, log)

	lister := listing.NewEngine(cfg.Listing.PageSize, log)
	transfers := transfer.NewEngine(lister, cfg.Transfer.Segments, cfg.Transfer.BufferSize, log)

	in := bufio.NewReader(opts.In)

	app := &appContainer{
		Config:          cfg,
		ConfigManager:   cfgManager,
		Registry:        registry,
		History:         commandLog,
		Session:         sess,
		ProviderFactory: providerFactory,
		ObjectService:   service.NewObjectService(sess, lister, transfers, log),
		Formatter:       formatter.NewShellFormatter(),
		Prompter:        prompt.NewStandardPrompter(in, opts.Out),
		Logger:          log,
		In:              in,
		Out:             opts.Out,
		ErrOut:          opts.ErrOut,
	}
	commandLog.SetDispatcher(history.DispatcherFunc(app.Dispatch))

	provider := providerFactory.ActiveProvider()
	log.Debug("Application initialized", "config", cfgManager.Path(), "home", cfg.HomeDir, "provider", provider, "store", cfg.Store.Backend)
	if opts.Clients == nil && !providerFactory.IsConfigured(provider) {
		log.Warn("Storage provider is not configured; selecting a bucket will fail", "provider", provider)
	}
	return app, nil
}

func openConfigManager(path string) (*config.ConfigManager, error) {
	if path == "" {
		return config.NewConfigManager()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting user home directory: %w", err)
	}
	expanded, err := config.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return config.NewConfigManagerAt(filepath.Clean(expanded), home)
}

// Dispatch runs one command line through a freshly built command tree, so flag
// values never leak from one line into the next
func (a *appContainer) Dispatch(ctx context.Context, line string) error {
	args, err := splitCommandLine(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	return a.execute(ctx, args)
}

func (a *appContainer) execute(ctx context.Context, args []string) error {
	cmd := newShellCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(a.In)
	cmd.SetOut(a.Out)
	cmd.SetErr(a.ErrOut)
	return cmd.ExecuteContext(ctx)
}

func (a *appContainer) Close() error {
	return a.Session.Close()
}
