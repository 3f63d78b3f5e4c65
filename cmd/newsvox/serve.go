package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nadzzz/newsvox/internal/config"
	"github.com/nadzzz/newsvox/internal/console"
	"github.com/nadzzz/newsvox/internal/dispatch"
	"github.com/nadzzz/newsvox/internal/health"
	"github.com/nadzzz/newsvox/internal/message"
	"github.com/nadzzz/newsvox/internal/transport"
	grpctransport "github.com/nadzzz/newsvox/internal/transport/grpc"
	httptransport "github.com/nadzzz/newsvox/internal/transport/http"
	"github.com/nadzzz/newsvox/internal/voice"
)

func newServeCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon with the configured transports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, f)
		},
	}
	cmd.Flags().BoolVar(&f.stdin, "stdin", false, "read transcripts from standard input, one per line")
	return cmd
}

func serve(cmd *cobra.Command, f *flags) error {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	config.SetupLogging(cfg.Logging)
	slog.Info("newsvox starting", "version", version)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	a, err := build(ctx, cfg, dispatch.WithObserver(func(res dispatch.Result) {
		fmt.Fprintln(out, res.Response)
	}), dispatch.WithHelp(func(entries []message.HelpEntry) {
		for _, e := range entries {
			fmt.Fprintf(out, "  %-34s %s\n", e.Example, e.Description)
		}
	}))
	if err != nil {
		slog.Error("failed to build components", "error", err)
		return err
	}
	defer a.Close()
	d := a.dispatcher

	var transports []transport.Transport
	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port))
	}
	if cfg.Transports.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.Transports.HTTP.Port, httptransport.Views{
			State:    d.State,
			LastClip: a.lastClip(),
		}))
	}
	if len(transports) == 0 && !f.stdin {
		err := errors.New("no transports enabled, enable at least one in config or pass --stdin")
		slog.Error("nothing to serve", "error", err)
		return err
	}

	healthServer := health.New(cfg.Server.HealthPort, health.Readiness{
		Busy:    d.Busy,
		Breaker: a.breakerState(),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return healthServer.ListenAndServe(gctx)
	})

	for _, t := range transports {
		g.Go(func() error {
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(gctx, d.Handle); err != nil {
				return fmt.Errorf("transport %s: %w", t.Name(), err)
			}
			return nil
		})
	}

	var transcripts <-chan voice.Event
	if f.stdin {
		transcripts = voice.Lines(gctx, "stdin", cmd.InOrStdin())
	}
	g.Go(func() error {
		err := d.Run(gctx, transcripts, a.statusEvents())
		if len(transports) == 0 {
			// Standard input was the only source and it is exhausted.
			cancel()
		}
		return ignoreCanceled(err)
	})

	if cfg.State.LoadOnStart {
		g.Go(func() error {
			if err := d.Load(gctx); err != nil {
				slog.Warn("initial news load failed", "error", err)
			}
			return nil
		})
	}

	healthServer.SetReady(true)
	slog.Info("newsvox ready",
		"transports", len(transports),
		"stdin", f.stdin,
		"health_port", cfg.Server.HealthPort)

	err = g.Wait()
	healthServer.SetReady(false)
	if err != nil {
		slog.Error("newsvox stopped with error", "error", err)
		return err
	}
	slog.Info("newsvox stopped")
	return nil
}

func newConsoleCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Type commands in an interactive console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The console owns the terminal, so logs go to a file or nowhere.
			var logOut io.Writer = io.Discard
			if f.logFile != "" {
				file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer file.Close()
				logOut = file
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(logOut, nil)))

			cfg, err := config.Load(f.configFile)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			a, err := build(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			d := a.dispatcher

			if events := a.statusEvents(); events != nil {
				go func() {
					for {
						select {
						case <-ctx.Done():
							return
						case ev := <-events:
							d.Observe(ev)
						}
					}
				}()
			}

			if cfg.State.LoadOnStart {
				if err := d.Load(ctx); err != nil {
					slog.Warn("initial news load failed", "error", err)
				}
			}
			return ignoreCanceled(console.Run(ctx, d.Dispatch, d.State))
		},
	}
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "write logs to this file while the console is open")
	return cmd
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
