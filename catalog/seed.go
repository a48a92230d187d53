package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stepherg/rigtune"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the initial content of a Store. Entries keep the order given here.
type Seed struct {
	System   rigtune.SystemInfo            `yaml:"system"`
	Programs []rigtune.StartupProgram      `yaml:"programs"`
	Settings []rigtune.OptimizationSetting `yaml:"settings"`
}

// DefaultSeed returns the embedded reference catalog.
func DefaultSeed() Seed {
	s, err := LoadSeed(bytes.NewReader(defaultSeed))
	if err != nil {
		// embedded file is fixed at build time
		panic(fmt.Sprintf("catalog: embedded seed: %v", err))
	}
	return s
}

// LoadSeed decodes a YAML catalog. Unknown keys and enum values are rejected.
func LoadSeed(r io.Reader) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Seed{}, fmt.Errorf("%w: empty document", rigtune.ErrInvalidSeed)
		}
		return Seed{}, fmt.Errorf("%w: %v", rigtune.ErrInvalidSeed, err)
	}
	if err := s.Validate(); err != nil {
		return Seed{}, err
	}
	return s, nil
}

func LoadSeedFile(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, err
	}
	defer f.Close()
	s, err := LoadSeed(f)
	if err != nil {
		return Seed{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks id uniqueness within each collection and enum membership.
func (s Seed) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(s.Programs))
	for i, p := range s.Programs {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("program %d: empty id", i))
		} else if _, dup := seen[p.ID]; dup {
			errs = append(errs, fmt.Errorf("program %d: duplicate id %q", i, p.ID))
		}
		seen[p.ID] = struct{}{}
		if !p.Impact.Valid() {
			errs = append(errs, fmt.Errorf("program %q: unknown impact %q", p.ID, p.Impact))
		}
		if !p.Category.Valid() {
			errs = append(errs, fmt.Errorf("program %q: unknown category %q", p.ID, p.Category))
		}
	}
	seen = make(map[string]struct{}, len(s.Settings))
	for i, st := range s.Settings {
		if st.ID == "" {
			errs = append(errs, fmt.Errorf("setting %d: empty id", i))
		} else if _, dup := seen[st.ID]; dup {
			errs = append(errs, fmt.Errorf("setting %d: duplicate id %q", i, st.ID))
		}
		seen[st.ID] = struct{}{}
		if !st.Category.Valid() {
			errs = append(errs, fmt.Errorf("setting %q: unknown category %q", st.ID, st.Category))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", rigtune.ErrInvalidSeed, errors.Join(errs...))
	}
	return nil
}
