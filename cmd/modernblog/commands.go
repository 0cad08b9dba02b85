package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/eringen/modernblog"
	"github.com/eringen/modernblog/views"
)

// env is what every command needs: the loaded config, a logger and the store.
type env struct {
	cfg    modernblog.Config
	log    *zap.Logger
	store  *modernblog.Store
	closed bool
}

func (e *env) Close() {
	if e.closed {
		return
	}
	e.closed = true
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn("close store", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

func open(configPath string) (*env, error) {
	cfg, err := modernblog.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	log, err := modernblog.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	store, err := modernblog.NewStore(cfg.Database.Path)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	store.SetPageSize(cfg.Content.PageSize)
	return &env{cfg: cfg, log: log, store: store}, nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "config file")
	_ = fs.Parse(args)

	e, err := open(*configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	app := modernblog.New(e.cfg, views.New(),
		modernblog.WithLogger(e.log),
		modernblog.WithStore(e.store),
	)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start(ctx) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	e.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

func runSetup(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	configPath := fs.String("config", "", "config file")
	sample := fs.Bool("sample", false, "also create a welcome post")
	_ = fs.Parse(args)

	e, err := open(*configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	created, err := e.store.EnsureAdmin(ctx, e.cfg.Admin)
	if err != nil {
		return err
	}
	if created {
		e.log.Info("created admin user", zap.String("username", e.cfg.Admin.Username))
	}
	report, err := e.store.Seed(ctx, modernblog.SeedOptions{
		Sample:          *sample,
		ContactPageSlug: e.cfg.Content.ContactPageSlug,
	})
	if err != nil {
		return err
	}
	e.log.Info("setup complete",
		zap.String("database", e.cfg.Database.Path),
		zap.Int("categories", report.Categories),
		zap.Int("tags", report.Tags),
		zap.Int("pages", report.Pages),
		zap.Int("menu_items", report.MenuItems),
		zap.Int("posts", report.Posts))
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "config file")
	publish := fs.Bool("publish", false, "publish posts whose front matter does not say otherwise")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return errors.New("usage: modernblog import [-publish] FILE...")
	}

	e, err := open(*configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	var failed int
	for _, path := range fs.Args() {
		post, err := importFile(ctx, e.store, path, *publish)
		if err != nil {
			failed++
			e.log.Error("import failed", zap.String("file", path), zap.Error(err))
			continue
		}
		e.log.Info("imported",
			zap.String("file", path),
			zap.String("slug", post.Slug),
			zap.Bool("published", post.Published))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, fs.NArg())
	}
	return nil
}

func importFile(ctx context.Context, store *modernblog.Store, path string, publish bool) (modernblog.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return modernblog.Post{}, err
	}
	defer f.Close()
	return store.ImportMarkdown(ctx, f, filepath.Base(path), publish)
}
