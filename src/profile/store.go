// Package profile persists named rule sets under the configuration
// directory, one JSON file per profile.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pybackup/src/rules"
)

// ErrNotFound is returned when a named profile does not exist.
var ErrNotFound = errors.New("profile not found")

// DefaultName is the profile created by --create-default-profile.
const DefaultName = "default"

// markerFile records which profile is the default one.
const markerFile = "default_profile"

// Store reads and writes profiles in a single directory.
type Store struct {
	Dir string
}

// DefaultDir returns the configuration directory, honoring the
// PYBACKUP_CONFIG_DIR override.
func DefaultDir() string {
	if dir := os.Getenv("PYBACKUP_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pycharm_backup"
	}
	return filepath.Join(home, ".pycharm_backup")
}

// NewStore returns a store rooted at dir, or at DefaultDir when dir is
// empty. The directory is created lazily on the first save.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Store{Dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

// Save writes the rule set as <name>.json. The write goes through a
// temporary file and a rename so readers never observe a partial profile.
func (s *Store) Save(name string, rs rules.RuleSet) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, name+".json.tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(name))
}

// Load reads a profile by name. Returns ErrNotFound when absent.
func (s *Store) Load(name string) (rules.RuleSet, error) {
	var rs rules.RuleSet
	if err := validName(name); err != nil {
		return rs, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return rs, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return rs, err
	}
	if err := json.Unmarshal(data, &rs); err != nil {
		return rs, fmt.Errorf("parse profile %s: %w", name, err)
	}
	return rs, nil
}

// Delete removes a profile. Returns ErrNotFound when absent.
func (s *Store) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return err
	}
	if def, _ := s.DefaultProfile(); def == name {
		_ = os.Remove(filepath.Join(s.Dir, markerFile))
	}
	return nil
}

// List returns the stored profile names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// SetDefaultProfile records name in the marker file.
func (s *Store) SetDefaultProfile(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, markerFile), []byte(name+"\n"), 0o644)
}

// DefaultProfile returns the marked default profile name, or "" when no
// marker exists.
func (s *Store) DefaultProfile() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, markerFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func validName(name string) error {
	if name == "" {
		return errors.New("profile name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid profile name: %q", name)
	}
	return nil
}
