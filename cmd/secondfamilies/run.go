package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"
)

// stopGrace bounds how long queued mail and in-flight requests may drain.
const stopGrace = 30 * time.Second

func run(ctx context.Context, app *fx.App) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "secondfamilies: start: %v\n", err)
		return 1
	}

	select {
	case <-ctx.Done():
	case sig := <-app.Done():
		fmt.Fprintf(os.Stderr, "secondfamilies: received %v\n", sig)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), stopGrace)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "secondfamilies: stop: %v\n", err)
		return 1
	}
	return 0
}
