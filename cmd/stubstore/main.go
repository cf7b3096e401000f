package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/internal/stubstore"
)

func main() {
	addr := flag.String("a", ":8080", "address to listen on")
	flag.Parse()
	if env := os.Getenv("ADDRESS"); env != "" {
		*addr = env
	}

	log := logger.NewLogger("vencsync-stubstore")

	handler := stubstore.NewHandler(stubstore.NewStore(), log)
	srv := &http.Server{Addr: *addr, Handler: handler.Init()}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("stub store shutdown error")
		}
	}()

	log.Info().Str("address", *addr).Msg("stub store listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("stub store server error")
	}
}
