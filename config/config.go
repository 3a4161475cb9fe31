// Package config provides the tape, cell, and input settings of an
// interpreter, and loads them from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Size is a power-of-two-minus-one mask that bounds tape pointers or cell
// values. Only the constants below are valid sizes.
type Size uint64

const (
	Bit4  Size = 1<<4 - 1
	Bit8  Size = 1<<8 - 1
	Bit12 Size = 1<<12 - 1
	Bit16 Size = 1<<16 - 1
	Bit20 Size = 1<<20 - 1
	Bit24 Size = 1<<24 - 1
	Bit28 Size = 1<<28 - 1
	Bit32 Size = 1<<32 - 1
	Bit36 Size = 1<<36 - 1
	Bit40 Size = 1<<40 - 1
	Bit44 Size = 1<<44 - 1
	Bit48 Size = 1<<48 - 1
	Bit52 Size = 1<<52 - 1
	Bit56 Size = 1<<56 - 1
	Bit60 Size = 1<<60 - 1
)

// ErrInvalidSize is returned when a size is not one of the supported masks.
var ErrInvalidSize = errors.New("invalid size")

// ErrInvalidEOFPolicy is returned for unknown end-of-input policies.
var ErrInvalidEOFPolicy = errors.New("invalid EOF policy")

// Sizes lists every supported size from the smallest to the largest.
func Sizes() []Size {
	return []Size{
		Bit4, Bit8, Bit12, Bit16, Bit20, Bit24, Bit28, Bit32,
		Bit36, Bit40, Bit44, Bit48, Bit52, Bit56, Bit60,
	}
}

// Bits returns the number of bits covered by the mask.
func (s Size) Bits() int {
	return bits.OnesCount64(uint64(s))
}

// Mask returns the size as a bit mask.
func (s Size) Mask() uint64 {
	return uint64(s)
}

// Max returns the largest value that fits the size. It equals the mask.
func (s Size) Max() uint64 {
	return uint64(s)
}

// Valid tells if the size is one of the supported masks.
func (s Size) Valid() bool {
	b := s.Bits()
	return b >= 4 && b <= 60 && b%4 == 0 && uint64(s) == 1<<b-1
}

func (s Size) String() string {
	if !s.Valid() {
		return fmt.Sprintf("size(%#x)", uint64(s))
	}

	return fmt.Sprintf("bit%d", s.Bits())
}

// ParseSize accepts a bit count written as "8", "bit8", or "Bit8".
func ParseSize(str string) (Size, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(str)), "bit")

	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 4 || n > 60 || n%4 != 0 {
		return 0, fmt.Errorf("%w: %q, expected a multiple of 4 between 4 and 60",
			ErrInvalidSize, str)
	}

	return Size(1<<n - 1), nil
}

// MarshalYAML writes the size as its name.
func (s Size) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML reads a size written as a bit count or a name.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseSize(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*s = parsed

	return nil
}

// EOFPolicy decides what an input instruction stores when the input has
// ended.
type EOFPolicy int

const (
	// EOFSet0 stores 0.
	EOFSet0 EOFPolicy = iota
	// EOFSet1 stores 1.
	EOFSet1
	// EOFIgnore leaves the cell unchanged.
	EOFIgnore
)

// Value returns the value stored by the policy. It is meaningless for
// EOFIgnore.
func (p EOFPolicy) Value() uint64 {
	if p == EOFSet1 {
		return 1
	}

	return 0
}

func (p EOFPolicy) String() string {
	switch p {
	case EOFSet0:
		return "set0"
	case EOFSet1:
		return "set1"
	case EOFIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("eof(%d)", int(p))
	}
}

// ParseEOFPolicy accepts "0", "set0", "1", "set1", and "ignore".
func ParseEOFPolicy(str string) (EOFPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "0", "set0":
		return EOFSet0, nil
	case "1", "set1":
		return EOFSet1, nil
	case "ignore":
		return EOFIgnore, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidEOFPolicy, str)
	}
}

// MarshalYAML writes the policy as its name.
func (p EOFPolicy) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML reads a policy name.
func (p *EOFPolicy) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseEOFPolicy(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*p = parsed

	return nil
}

// Config holds everything an interpreter run needs besides the program and
// its streams.
type Config struct {
	TapeSize  Size      `yaml:"tape_size"`
	CellSize  Size      `yaml:"cell_size"`
	EOF       EOFPolicy `yaml:"eof"`
	Operators string    `yaml:"operators,omitempty"`
}

// Default returns a 16-bit tape of 8-bit cells that ignores end of input.
func Default() Config {
	return Config{
		TapeSize: Bit16,
		CellSize: Bit8,
		EOF:      EOFIgnore,
	}
}

// Validate checks that both sizes are supported masks and the policy is known.
func (c Config) Validate() error {
	if !c.TapeSize.Valid() {
		return fmt.Errorf("tape size: %w: %s", ErrInvalidSize, c.TapeSize)
	}

	if !c.CellSize.Valid() {
		return fmt.Errorf("cell size: %w: %s", ErrInvalidSize, c.CellSize)
	}

	if c.EOF < EOFSet0 || c.EOF > EOFIgnore {
		return fmt.Errorf("%w: %s", ErrInvalidEOFPolicy, c.EOF)
	}

	return nil
}

type fileConfig struct {
	Profile   string     `yaml:"profile"`
	TapeSize  *Size      `yaml:"tape_size"`
	CellSize  *Size      `yaml:"cell_size"`
	EOF       *EOFPolicy `yaml:"eof"`
	Operators *string    `yaml:"operators"`
}

// Parse reads a YAML document. A document may name a profile and override
// any of its settings; missing settings keep their default values.
func Parse(data []byte) (Config, error) {
	return ParseOnto(Default(), data)
}

// ParseOnto reads a YAML document whose missing settings are taken from base.
// A profile named by the document replaces base.
func ParseOnto(base Config, data []byte) (Config, error) {
	var fc fileConfig

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := base
	if fc.Profile != "" {
		p, err := LookupProfile(fc.Profile)
		if err != nil {
			return Config{}, err
		}
		cfg = p
	}

	if fc.TapeSize != nil {
		cfg.TapeSize = *fc.TapeSize
	}
	if fc.CellSize != nil {
		cfg.CellSize = *fc.CellSize
	}
	if fc.EOF != nil {
		cfg.EOF = *fc.EOF
	}
	if fc.Operators != nil {
		cfg.Operators = *fc.Operators
	}

	return cfg, cfg.Validate()
}

// Load reads a YAML config file.
func Load(path string) (Config, error) {
	return LoadOnto(Default(), path)
}

// LoadOnto reads a YAML config file whose missing settings are taken from
// base.
func LoadOnto(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseOnto(base, data)
}

// Marshal writes the config as a YAML document that Parse accepts.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
