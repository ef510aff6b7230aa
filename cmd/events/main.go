// Command events prints scheduler change events from Redis as JSON lines.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"driver-scheduler/internal/config"
	"driver-scheduler/internal/events"
)

func main() {
	_ = godotenv.Load()
	url, channel := config.Events()
	if url == "" {
		log.Fatal("REDIS_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := events.DialRedis(ctx, url, channel)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer r.Close()
	log.Printf("listening on %s", channel)

	enc := json.NewEncoder(os.Stdout)
	err = r.Subscribe(ctx, func(e events.Event) {
		if err := enc.Encode(e); err != nil {
			log.Printf("write: %v", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("subscribe: %v", err)
	}
}
