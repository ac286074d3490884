// Copyright 2026 The anonbot Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anonbot/relay/bot"
	"github.com/anonbot/relay/bot/eventlog"
	"github.com/anonbot/relay/pkg/config"
	"github.com/anonbot/relay/pkg/logutil"
	"github.com/anonbot/relay/pkg/wordlist"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string
	cfg := config.GetDefaultConfig()

	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "relay is the anonymous messaging bot core",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				fileCfg, err := config.Load(configFile)
				if err != nil {
					return err
				}
				*cfg = *fileCfg
				// Flags win over the config file.
				if err := overrideFromFlags(cmd, cfg); err != nil {
					return err
				}
			}
			if err := cfg.ValidateAndAdjust(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file path")
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "status and metrics listen address")
	cmd.Flags().StringVar(&cfg.EventLogFile, "event-log", cfg.EventLogFile, "append-only event log path")
	cmd.Flags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "process log path, empty for stderr")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "process log level")
	cmd.Flags().StringVar(&cfg.OperatorLogin, "operator", cfg.OperatorLogin, "login allowed to /broadcast")
	return cmd
}

func overrideFromFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := map[string]*string{
		"addr":      &cfg.Addr,
		"event-log": &cfg.EventLogFile,
		"log-file":  &cfg.LogFile,
		"log-level": &cfg.LogLevel,
		"operator":  &cfg.OperatorLogin,
	}
	for name, target := range flags {
		if cmd.Flags().Changed(name) {
			value, err := cmd.Flags().GetString(name)
			if err != nil {
				return err
			}
			*target = value
		}
	}
	return nil
}

func run(cfg *config.Config) error {
	err := logutil.InitLogger(&logutil.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	log.Info("starting relay", zap.String("eventLog", cfg.EventLogFile),
		zap.String("addr", cfg.Addr))

	logFile, err := eventlog.OpenLogFile(cfg.EventLogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	service, events := eventlog.NewService(logFile)

	transport := newConsoleTransport(os.Stdout)
	builder := bot.NewBuilder(transport, events,
		wordlist.NewGenerator(time.Now().UnixNano()), cfg.OperatorLogin)
	if err := replay(cfg.EventLogFile, builder); err != nil {
		// Startup-time log corruption aborts the process before any actor
		// is spawned.
		return err
	}
	dispatcher := builder.Build()

	registry := prometheus.NewRegistry()
	bot.InitMetrics(registry)
	eventlog.InitMetrics(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		service.Run()
		return nil
	})
	g.Go(func() error {
		err := server.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer func() {
			// Drain the actor population, then release the event service
			// and the status server.
			dispatcher.Close()
			events.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		return serveConsole(ctx, transport, dispatcher)
	})
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case <-ctx.Done():
		case s := <-sig:
			log.Info("got signal, exiting", zap.Stringer("signal", s))
			cancel()
		}
		return nil
	})
	return g.Wait()
}

func replay(path string, builder *bot.Builder) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("no event log yet, starting fresh", zap.String("path", path))
			return nil
		}
		return err
	}
	defer f.Close()
	return builder.FromLog(f)
}
