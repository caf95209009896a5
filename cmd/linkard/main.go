// cmd/linkard/main.go
//
// Linkard entry point. All application wiring lives in
// internal/app/bootstrap; this file only hands the lifecycle
// hooks to WAFFLE, which handles config loading, DB connection,
// HTTP serving, and graceful shutdown.
package main

import (
	"context"

	"github.com/dalemusser/linkard/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	app.Run(context.Background(), bootstrap.Hooks)
}
