package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Profile is one station the CLI can talk to.
type Profile struct {
	APIURL      string `yaml:"api_url"`
	Token       string `yaml:"token,omitempty"`
	DatabaseURL string `yaml:"database_url,omitempty"`
	JWTSecret   string `yaml:"jwt_secret,omitempty"`
	JWTIssuer   string `yaml:"jwt_issuer,omitempty"`
}

// ProfileFile is the YAML file holding named profiles.
type ProfileFile struct {
	Default  string             `yaml:"default"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// DefaultProfilePath is ~/.stationctl.yaml.
func DefaultProfilePath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".stationctl.yaml"
	}
	return filepath.Join(dir, ".stationctl.yaml")
}

// LoadProfiles reads path. A missing file yields an empty set.
func LoadProfiles(path string) (ProfileFile, error) {
	var pf ProfileFile
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return pf, nil
	}
	if err != nil {
		return pf, fmt.Errorf("read profiles %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return pf, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	return pf, nil
}

// Select returns the named profile, or the default one when name is empty.
// With no profiles at all it returns a zero Profile.
func (pf ProfileFile) Select(name string) (Profile, error) {
	if name == "" {
		name = pf.Default
	}
	if name == "" {
		if len(pf.Profiles) == 1 {
			for _, p := range pf.Profiles {
				return p, nil
			}
		}
		return Profile{}, nil
	}
	p, ok := pf.Profiles[name]
	if !ok {
		names := make([]string, 0, len(pf.Profiles))
		for n := range pf.Profiles {
			names = append(names, n)
		}
		sort.Strings(names)
		return Profile{}, fmt.Errorf("unknown profile %q (have %v)", name, names)
	}
	return p, nil
}

// withEnv fills empty fields from the environment the server uses.
func (p Profile) withEnv() Profile {
	if p.APIURL == "" {
		p.APIURL = os.Getenv("STATIONDESK_API_URL")
	}
	if p.Token == "" {
		p.Token = os.Getenv("STATIONDESK_TOKEN")
	}
	if p.DatabaseURL == "" {
		p.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if p.JWTSecret == "" {
		p.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if p.JWTIssuer == "" {
		p.JWTIssuer = os.Getenv("JWT_ISSUER")
	}
	if p.APIURL == "" {
		p.APIURL = "http://localhost:8080/api/v1"
	}
	if p.JWTIssuer == "" {
		p.JWTIssuer = "stationdesk"
	}
	return p
}
