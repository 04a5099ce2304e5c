package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/olxmark/internal/config"
	"github.com/at-ishikawa/olxmark/internal/markdown"
	"github.com/at-ishikawa/olxmark/internal/olx"
	"github.com/at-ishikawa/olxmark/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	handler, err := newHandler(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("newHandler() > %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr, "flavor", cfg.Server.Flavor)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("srv.ListenAndServe() > %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown() > %w", err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	configFile := os.Getenv("OLXMARK_CONFIG")
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func newHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	olxConverter, err := olx.NewConverter(
		olx.WithLocale(cfg.OLX.Locale),
		olx.WithMetadata(cfg.OLX.Metadata),
	)
	if err != nil {
		return nil, fmt.Errorf("olx.NewConverter() > %w", err)
	}

	factory := markdownConverterFactory{
		settings: markdown.Settings{
			Flavor:           cfg.Server.Flavor,
			FlavorFile:       cfg.Markdown.FlavorFile,
			Options:          markdown.NormalizeOptions(cfg.Markdown.Options),
			Extensions:       cfg.Markdown.Extensions,
			DocumentTemplate: cfg.Markdown.DocumentTemplate,
		},
	}
	// Fail at startup on a broken flavor; extensions are checked per request.
	if _, err := (markdown.Settings{Flavor: cfg.Server.Flavor, FlavorFile: cfg.Markdown.FlavorFile}).Build(); err != nil {
		return nil, fmt.Errorf("markdown.Settings.Build() > %w", err)
	}

	mux := http.NewServeMux()
	server.NewConversionHandler(olxConverter, factory).Register(mux,
		connect.WithInterceptors(server.NewLoggingInterceptor(
			logger,
			time.Duration(cfg.Server.RequestTimeoutSeconds)*time.Second,
		)),
	)
	return server.CORSMiddleware(cfg.Server.CORS.AllowedOrigins, h2c.NewHandler(mux, &http2.Server{})), nil
}

type markdownConverterFactory struct {
	settings markdown.Settings
}

func (f markdownConverterFactory) NewMarkdownConverter() (server.MarkdownConverter, error) {
	converter, err := f.settings.Build()
	if err != nil {
		return nil, err
	}
	return converter, nil
}
