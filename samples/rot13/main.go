package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sarchlab/bfi/api"
	"github.com/sarchlab/bfi/config"
	"github.com/tebeka/atexit"
)

//go:embed rot13.b
var rot13Program string

func rot13(driver api.Driver, lines []string) {
	if err := driver.MapProgram(rot13Program); err != nil {
		fmt.Println(err)
		atexit.Exit(2)
	}

	for _, line := range lines {
		driver.FeedIn(strings.NewReader(line))
	}

	var dst strings.Builder
	driver.Collect(&dst)

	if err := driver.Run(); err != nil {
		fmt.Println(err)
		atexit.Exit(3)
	}

	fmt.Println(strings.Join(lines, ""))
	fmt.Println(dst.String())
}

func main() {
	// Run traces are logged above slog.LevelInfo; keep stderr quiet.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	cfg, err := config.LookupProfile("classic")
	if err != nil {
		fmt.Println(err)
		atexit.Exit(1)
	}

	driver := api.NewDriverBuilder().
		WithConfig(cfg).
		Build("Driver")

	lines := []string{"Hello, World!", " ", "Why did the chicken cross the road?"}
	if len(os.Args) > 1 {
		lines = os.Args[1:]
	}

	rot13(driver, lines)

	atexit.Exit(0)
}
