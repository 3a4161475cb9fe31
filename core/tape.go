package core

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"
)

// maxDenseBits is the largest tape, in address bits, that is backed by a
// plain slice. Larger tapes only allocate the pages that are touched.
const maxDenseBits = 20

const cellBytes = 8

// Tape is the memory of the interpreter. Addresses must be below Len.
type Tape interface {
	Get(addr uint64) uint64
	Set(addr uint64, value uint64)
	Len() uint64
}

// NewTape allocates a zeroed tape with the given number of cells.
func NewTape(cells uint64) Tape {
	if cells <= 1<<maxDenseBits {
		return make(denseTape, cells)
	}

	return newSparseTape(cells)
}

type denseTape []uint64

func (t denseTape) Get(addr uint64) uint64 {
	return t[addr]
}

func (t denseTape) Set(addr uint64, value uint64) {
	t[addr] = value
}

func (t denseTape) Len() uint64 {
	return uint64(len(t))
}

// sparseTape keeps the cells in an akita storage, which allocates its units
// on first access.
type sparseTape struct {
	storage *mem.Storage
	cells   uint64
	buf     [cellBytes]byte
}

func newSparseTape(cells uint64) *sparseTape {
	return &sparseTape{
		storage: mem.NewStorage(cells * cellBytes),
		cells:   cells,
	}
}

func (t *sparseTape) Get(addr uint64) uint64 {
	data, err := t.storage.Read(addr*cellBytes, cellBytes)
	if err != nil {
		panic(fmt.Sprintf("failed to read cell %d: %v", addr, err))
	}

	return binary.LittleEndian.Uint64(data)
}

func (t *sparseTape) Set(addr uint64, value uint64) {
	binary.LittleEndian.PutUint64(t.buf[:], value)

	err := t.storage.Write(addr*cellBytes, t.buf[:])
	if err != nil {
		panic(fmt.Sprintf("failed to write cell %d: %v", addr, err))
	}
}

func (t *sparseTape) Len() uint64 {
	return t.cells
}
