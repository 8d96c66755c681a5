package main

import (
	"context"
	"gioui.org/app"
	"github.com/celskeggs/epochplot/chart/live"
	"os"
	"os/signal"
)

func main() {
	go func() {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		code := run(ctx, newCommand(live.Display), os.Args, os.Stderr)
		stop()
		os.Exit(code)
	}()

	// app.Main never returns; the goroutine above ends the process.
	app.Main()
}
