package api

import (
	"io"

	"github.com/sarchlab/bfi/config"
	"github.com/sarchlab/bfi/core"
	"github.com/sarchlab/bfi/instr"
	"github.com/sarchlab/bfi/program"
)

// Parse turns program text written with the classic operators into an
// instruction graph.
func Parse(text string) (*instr.Program, error) {
	return program.ParseDefault(text)
}

// Interpret runs a parsed program once with the given configuration.
func Interpret(
	prog *instr.Program,
	cfg config.Config,
	in io.Reader,
	out io.Writer,
) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return core.NewBuilder().WithConfig(cfg).Build("Interpret").Run(prog, in, out)
}
