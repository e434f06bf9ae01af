package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"goserve/browser"
	"goserve/config"
	"goserve/logger"
	"goserve/server"
)

func main() {
	log := logger.GetLogger()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load config; nothing is bound yet if this fails
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		// -h already printed usage through the flag set; not a failure
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal("Invalid configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Bind the socket and start serving
	srv := server.New(cfg)
	if err := srv.Start(ctx); err != nil {
		log.Fatal("Failed to start server", map[string]interface{}{
			"error": err.Error(),
			"port":  cfg.Port,
		})
	}

	srv.PrintBanner(os.Stdout)

	// Open the browser after the configured delay
	if cfg.OpenBrowser {
		browser.NewOpener(cfg.LaunchDelay).Schedule(ctx, srv.URL())
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for interrupt signal
	sig := <-sigChan
	log.Info("Received shutdown signal", map[string]interface{}{
		"signal": sig.String(),
	})

	// Cancel context to initiate shutdown
	cancel()

	if err := srv.Shutdown(); err != nil {
		log.Error("Shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	fmt.Println("\n🛑 Server stopped")
}
