package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/bfi/api"
	"github.com/sarchlab/bfi/core"
	"github.com/tebeka/atexit"
)

//go:embed hello.b
var helloProgram string

func hello(driver api.Driver) {
	if err := driver.MapProgram(helloProgram); err != nil {
		fmt.Println(err)
		atexit.Exit(2)
	}

	core.PrintProgram(os.Stdout, driver.Program())

	driver.Collect(os.Stdout)

	if err := driver.Run(); err != nil {
		fmt.Println(err)
		atexit.Exit(3)
	}

	core.PrintState(os.Stdout, driver.State(), 4)
}

func main() {
	// Run traces are logged above slog.LevelInfo; keep stderr quiet.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	driver := api.NewDriverBuilder().Build("Driver")

	hello(driver)

	atexit.Exit(0)
}
