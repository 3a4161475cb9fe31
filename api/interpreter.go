package api

import (
	"io"

	"github.com/sarchlab/bfi/core"
	"github.com/sarchlab/bfi/instr"
)

// interpreter executes a parsed program. *core.Core implements it.
type interpreter interface {
	Name() string
	Execute(prog *instr.Program, in io.Reader, out io.Writer) (*core.State, error)
}
