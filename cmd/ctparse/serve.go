package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/hrygo/ctparse/internal/profile"
	"github.com/hrygo/ctparse/server"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadScorer()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			svc, err := a.newService(s, reg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			srv, err := server.NewServer(ctx, a.profile, svc, svc.Languages(), reg, reg)
			if err != nil {
				return err
			}
			if err := srv.Start(ctx); err != nil {
				return err
			}
			slog.Info("parser ready",
				slog.String("lang", a.profile.Lang),
				slog.Bool("model", a.profile.Model != ""),
				slog.Int("beam_size", a.profile.BeamSize),
			)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			select {
			case <-sig:
			case <-ctx.Done():
			}
			srv.Shutdown(context.Background())
			return nil
		},
	}

	cmd.Flags().String("addr", "", "address of server")
	cmd.Flags().Int("port", 8081, "port of server")
	cmd.Flags().Float64("rate-limit", 10, "requests per second per client")
	cmd.Flags().Int("rate-burst", 20, "burst per client")
	cmd.Flags().Int("rate-keys", 10000, "clients tracked by the rate limiter")
	cmd.Flags().Duration("rate-ttl", 5*time.Minute, "idle time before a client's budget is reset")
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		for key, flag := range map[string]string{
			profile.KeyAddr:      "addr",
			profile.KeyPort:      "port",
			profile.KeyRateLimit: "rate-limit",
			profile.KeyRateBurst: "rate-burst",
			profile.KeyRateKeys:  "rate-keys",
			profile.KeyRateTTL:   "rate-ttl",
		} {
			if err := a.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return err
			}
		}
		a.profile = profile.FromViper(a.v)
		return a.profile.Validate()
	}
	return cmd
}
