//go:build !cgo_enabled

package main

import (
	"context"
	"errors"
	"log/slog"
)

func run(_ context.Context, _ *PlayerConfig, _ *slog.Logger) error {
	return errors.New("videoplayer was built without FFmpeg support, rebuild with -tags cgo_enabled")
}
