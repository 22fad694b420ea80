package main

import (
	"log/slog"
	"os"
)

func main() {
	app := newApp(os.Stdout)

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running tilebg", "error", err)
		os.Exit(1)
	}
}
