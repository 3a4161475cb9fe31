// Command verify-program checks that a program parses to a well formed
// instruction graph and that the optimized interpreter agrees with the
// functional simulator on it.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tebeka/atexit"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/sarchlab/bfi/api"
	"github.com/sarchlab/bfi/config"
	"github.com/sarchlab/bfi/verify"
)

var (
	app = kingpin.New("verify-program", "Verify a program against the functional simulator.")

	argFile      = app.Arg("file", "Program source file.").Required().ExistingFile()
	flagProfile  = app.Flag("profile", "Named configuration.").Default("classic").Enum(config.ProfileNames()...)
	flagConfig   = app.Flag("config", "YAML config file, applied on top of the profile.").Short('c').ExistingFile()
	flagInput    = app.Flag("input", "Input given to both runs.").Short('i').String()
	flagInFile   = app.Flag("input-file", "File whose content is given to both runs.").ExistingFile()
	flagMaxSteps = app.Flag("max-steps", "Step limit of the functional simulator.").Default("10000000").Uint64()
	flagReport   = app.Flag("report", "Also save the report to this file.").String()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.LookupProfile(*flagProfile)
	if err != nil {
		log.Fatalf("Failed to load profile: %v", err)
	}

	if *flagConfig != "" {
		cfg, err = config.LoadOnto(cfg, *flagConfig)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	ops, err := api.OperatorsFromConfig(cfg)
	if err != nil {
		log.Fatalf("Invalid operators: %v", err)
	}

	source, err := os.ReadFile(*argFile)
	if err != nil {
		log.Fatalf("Failed to read program: %v", err)
	}

	input := []byte(*flagInput)
	if *flagInFile != "" {
		input, err = os.ReadFile(*flagInFile)
		if err != nil {
			log.Fatalf("Failed to read input: %v", err)
		}
	}

	report := verify.GenerateReport(string(source), cfg, ops, input, *flagMaxSteps)
	report.WriteReport(os.Stdout)

	if *flagReport != "" {
		if err := report.SaveReportToFile(*flagReport); err != nil {
			log.Fatalf("Failed to save report: %v", err)
		}
		fmt.Printf("Report saved to %s\n", *flagReport)
	}

	if !report.Passed() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
