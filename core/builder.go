package core

import (
	"fmt"

	"github.com/sarchlab/bfi/config"
)

// Builder can create new cores.
type Builder struct {
	tapeSize config.Size
	cellSize config.Size
	eof      config.EOFPolicy
}

// NewBuilder returns a builder that starts from the default configuration.
func NewBuilder() Builder {
	return Builder{}.WithConfig(config.Default())
}

// WithConfig copies the tape size, the cell size, and the EOF policy from a
// configuration.
func (b Builder) WithConfig(cfg config.Config) Builder {
	return b.
		WithTapeSize(cfg.TapeSize).
		WithCellSize(cfg.CellSize).
		WithEOFPolicy(cfg.EOF)
}

// WithTapeSize sets the number of tape cells to size+1.
func (b Builder) WithTapeSize(size config.Size) Builder {
	if !size.Valid() {
		panic(fmt.Sprintf("invalid tape size %s", size))
	}

	b.tapeSize = size
	return b
}

// WithCellSize sets the largest value a cell can hold.
func (b Builder) WithCellSize(size config.Size) Builder {
	if !size.Valid() {
		panic(fmt.Sprintf("invalid cell size %s", size))
	}

	b.cellSize = size
	return b
}

// WithEOFPolicy sets what input instructions do at the end of the input.
func (b Builder) WithEOFPolicy(eof config.EOFPolicy) Builder {
	b.eof = eof
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.tapeSize == 0 || b.cellSize == 0 {
		panic("tape size and cell size must be set")
	}

	return &Core{
		name:     name,
		tapeSize: b.tapeSize,
		cellSize: b.cellSize,
		eof:      b.eof,
	}
}
