package api

import (
	"github.com/sarchlab/bfi/config"
	"github.com/sarchlab/bfi/core"
	"github.com/sarchlab/bfi/program"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	cfg       config.Config
	operators program.OperatorSet
}

// NewDriverBuilder returns a builder with the default configuration and the
// classic operators.
func NewDriverBuilder() DriverBuilder {
	return DriverBuilder{
		cfg:       config.Default(),
		operators: program.DefaultOperators(),
	}
}

// WithConfig sets the tape size, the cell size, and the EOF policy of the
// interpreter. The operators of the config are not used; see
// OperatorsFromConfig.
func (b DriverBuilder) WithConfig(cfg config.Config) DriverBuilder {
	b.cfg = cfg
	return b
}

// WithOperators sets the characters that the program is written with.
func (b DriverBuilder) WithOperators(ops program.OperatorSet) DriverBuilder {
	b.operators = ops
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build(name string) Driver {
	if err := b.operators.Validate(); err != nil {
		panic(err)
	}

	return &driverImpl{
		name:      name,
		operators: b.operators,
		core: core.NewBuilder().
			WithConfig(b.cfg).
			Build(name + ".Core"),
	}
}

// OperatorsFromConfig returns the operator set named by the config, or the
// classic operators if it names none.
func OperatorsFromConfig(cfg config.Config) (program.OperatorSet, error) {
	if cfg.Operators == "" {
		return program.DefaultOperators(), nil
	}

	return program.ParseOperators(cfg.Operators)
}
