package main

import (
	"context"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-ecsdemo/internal/config"
	"github.com/go-while/go-ecsdemo/internal/logging"
	"github.com/go-while/go-ecsdemo/internal/web"
)

var profiler *prof.Profiler

// run serves until ctx is cancelled. Bind failures are returned to the caller.
func run(ctx context.Context, cfg *config.MainConfig) error {
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	log := logging.GetLogger("main")
	log.Infof("Starting go-ecsdemo: Web Server (version: %s)", cfg.AppVersion)
	log.Debugf("[WEB]: Using WEB configuration: %#v", cfg.Web)

	startProfiler(cfg.Profiler.Addr)

	server, err := web.NewServer(&cfg.Web)
	if err != nil {
		return err
	}

	ln, err := server.Listen()
	if err != nil {
		return err
	}

	protocol := "http"
	if cfg.Web.SSL {
		protocol = "https"
	}
	log.Infof("[WEB]: Server listening on %s://%s (configured port %d). Press Ctrl+C to gracefully shutdown...", protocol, ln.Addr(), server.GetPort())

	if err := server.Serve(ctx, ln); err != nil {
		return err
	}
	log.Infof("[WEB]: Graceful shutdown completed")
	return nil
}

// startProfiler serves the profiler web ui on addr; empty addr disables it
func startProfiler(addr string) {
	if addr == "" {
		return
	}
	logging.GetLogger("main").Infof("[WEB]: Starting profiler on %s", addr)
	profiler = prof.NewProf()
	go profiler.PprofWeb(addr)
	profiler.StartMemProfile(5*time.Minute, 30*time.Second)
}
