package catalog

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadFile reads a YAML seed of the form:
//
//	activities:
//	  - name: Chess Club
//	    description: ...
//	    schedule: ...
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
//
// The result is validated before it is returned.
func LoadFile(_ context.Context, path string) (Seed, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Seed{}, fmt.Errorf("%w: %w", ErrLoadSeed, err)
	}

	var s Seed
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Seed{}, fmt.Errorf("%w: %w", ErrLoadSeed, err)
	}
	for i := range s.Activities {
		if s.Activities[i].Participants == nil {
			s.Activities[i].Participants = []string{}
		}
	}

	if err := Validate(s); err != nil {
		return Seed{}, err
	}
	return s, nil
}

// Load returns the seed from path, or Default when path is empty.
func Load(ctx context.Context, path string) (Seed, error) {
	if path == "" {
		s := Default()
		if err := Validate(s); err != nil {
			return Seed{}, err
		}
		return s, nil
	}
	return LoadFile(ctx, path)
}
