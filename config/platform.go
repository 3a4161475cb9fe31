package config

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownProfile is returned when a profile name is not registered.
var ErrUnknownProfile = errors.New("unknown profile")

// A Profile is a named, ready-made configuration.
type Profile struct {
	Name        string
	Description string
	Config      Config
}

var profiles = map[string]Profile{
	"classic": {
		Name:        "classic",
		Description: "65536 cells of 8 bits, input at EOF leaves the cell unchanged",
		Config:      Default(),
	},
	"wide": {
		Name:        "wide",
		Description: "16M cells of 32 bits, input at EOF stores 0",
		Config: Config{
			TapeSize: Bit24,
			CellSize: Bit32,
			EOF:      EOFSet0,
		},
	},
	"huge": {
		Name:        "huge",
		Description: "4G cells of 16 bits on a sparse tape, input at EOF stores 0",
		Config: Config{
			TapeSize: Bit32,
			CellSize: Bit16,
			EOF:      EOFSet0,
		},
	},
}

// LookupProfile returns the configuration of the named profile.
func LookupProfile(name string) (Config, error) {
	p, ok := profiles[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}

	return p.Config, nil
}

// Profiles lists the registered profiles sorted by name.
func Profiles() []Profile {
	list := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		list = append(list, p)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return list
}

// ProfileNames lists the names of the registered profiles sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for _, p := range Profiles() {
		names = append(names, p.Name)
	}

	return names
}
