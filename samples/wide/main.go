package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/bfi/api"
	"github.com/sarchlab/bfi/config"
	"github.com/sarchlab/bfi/core"
	"github.com/tebeka/atexit"
)

// 4*8*8*8 does not fit a byte, and the copy at the end spreads it over two
// cells.
const multiply = "++++[>++++++++<-]>[>++++++++<-]>[>++++++++<-]>[->+>+<<]"

func main() {
	// Run traces are logged above slog.LevelInfo; keep stderr quiet.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	cfg, err := config.LookupProfile("wide")
	if err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	driver := api.NewDriverBuilder().
		WithConfig(cfg).
		Build("Driver")

	if err := driver.MapProgram(multiply); err != nil {
		fmt.Println(err)
		atexit.Exit(2)
	}

	core.PrintProgram(os.Stdout, driver.Program())

	if err := driver.Run(); err != nil {
		fmt.Println(err)
		atexit.Exit(3)
	}

	core.PrintState(os.Stdout, driver.State(), 3)

	atexit.Exit(0)
}
