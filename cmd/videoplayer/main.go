// Command videoplayer plays the first video stream of a file or device
// against a wall clock. Pictures are kept in memory, optionally saved as a
// PNG at exit, or encoded and sent to a WebRTC peer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML player configuration")
		input      = flag.String("input", "", "file, URL or device to play (overrides config)")
		snapshot   = flag.String("snapshot", "", "write the last picture to this PNG file")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
	)
	flag.Parse()

	config, err := loadPlayerConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *input != "" {
		config.Input = *input
	}
	if *snapshot != "" {
		config.Snapshot = *snapshot
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}

	if err := config.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, log); err != nil {
		log.Error("player stopped", "error", err)
		os.Exit(1)
	}
}
