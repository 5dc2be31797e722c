package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/edh5623/Songtiment-Analysis/internal/cli"
)

func main() {
	// .env is optional; flags and SONGTIMENT_* variables cover everything it can hold
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARN main: failed to load .env: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := cli.Run(ctx, os.Args[1:], os.Stdout); err != nil {
		cancel()
		log.Fatal(err)
	}
}
