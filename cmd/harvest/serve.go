package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	harvestgin "github.com/fwojciec/harvest/gin"
)

// shutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
const shutdownTimeout = 10 * time.Second

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	persister := newPersister(deps)
	defer persister.Close()

	server := harvestgin.NewServer(c.Addr, deps.Scraper, deps.Contacts,
		harvestgin.WithSink(persister),
		harvestgin.WithLogger(deps.Logger),
	)

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
