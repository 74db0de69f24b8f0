// Package profile persists chapter leader profiles in a YAML file.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// ErrNotFound is returned for an unknown profile id.
var ErrNotFound = errors.New("profile not found")

// ErrInvalid is returned when a profile has no id or no leader.
var ErrInvalid = errors.New("invalid profile")

type document struct {
	Profiles []models.Profile `yaml:"profiles"`
}

// Store holds the profiles of one file. It is not safe for concurrent use.
type Store struct {
	path     string
	profiles map[string]models.Profile
}

// Load reads the profiles at path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := &Store{path: path, profiles: make(map[string]models.Profile)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	for _, p := range doc.Profiles {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		s.profiles[p.ID] = p
	}
	return s, nil
}

// Save writes the store back to its file.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create profiles directory: %w", err)
	}
	data, err := yaml.Marshal(document{Profiles: s.List()})
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}
	if err := renameio.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	return nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Get returns the profile with the given id.
func (s *Store) Get(id string) (models.Profile, error) {
	p, ok := s.profiles[strings.TrimSpace(id)]
	if !ok {
		return models.Profile{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// Put adds or replaces a profile.
func (s *Store) Put(p models.Profile) error {
	p.ID = strings.TrimSpace(p.ID)
	p.Leader = strings.TrimSpace(p.Leader)
	if err := validate(p); err != nil {
		return err
	}
	s.profiles[p.ID] = p
	return nil
}

// Delete removes a profile.
func (s *Store) Delete(id string) error {
	id = strings.TrimSpace(id)
	if _, ok := s.profiles[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	delete(s.profiles, id)
	return nil
}

// List returns the profiles sorted by id.
func (s *Store) List() []models.Profile {
	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func validate(p models.Profile) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalid)
	case p.Leader == "":
		return fmt.Errorf("%w: %s has no leader", ErrInvalid, p.ID)
	}
	return nil
}
