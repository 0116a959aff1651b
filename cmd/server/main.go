package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/justchen1369/acolyte-fight-sub000/internal/app"
	"github.com/justchen1369/acolyte-fight-sub000/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := app.ConfigFromEnv(os.LookupEnv, telemetry.WrapLogger(log.Default()))
	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
