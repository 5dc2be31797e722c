package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/edh5623/Songtiment-Analysis/internal/adapters/rest"
	"github.com/edh5623/Songtiment-Analysis/internal/config"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(b buildFunc) *ffcli.Command {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	_ = fs.String("config", "", "config file (optional)")

	var addr string
	fs.StringVar(&addr, "addr", ":8080", "listen address")

	cfg := &config.Config{}
	cfg.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "songtiment serve [flags]",
		ShortHelp:  "serve analyses over HTTP",
		FlagSet:    fs,
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
			ff.WithEnvVarPrefix("SONGTIMENT"),
		},
		Exec: func(ctx context.Context, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.DB == "" {
				return errors.New("cli: serve requires -db")
			}

			p, err := b(ctx, cfg, io.Discard)
			if err != nil {
				return err
			}
			defer p.release()

			srv := &http.Server{
				Addr:              addr,
				Handler:           rest.NewHandler(p.analyzer, p.store),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return listen(ctx, srv)
		},
	}
}

// listen runs srv until ctx is cancelled, then shuts it down gracefully.
func listen(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		log.Printf("songtiment API listening on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("cli: server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("cli: shutdown failed: %w", err)
	}
	return nil
}
