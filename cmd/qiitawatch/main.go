package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"qiitawatch/internal/di"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (QIITAWATCH_CONFIG overrides it)")
	flag.Parse()

	application, cleanup, err := di.InitializeApp(*configPath)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = application.Run(ctx)
	stop()
	cleanup()
	if err != nil {
		log.Fatalf("application runtime error: %v", err)
	}
}
