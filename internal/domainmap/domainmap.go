// Package domainmap loads the domain→teams mapping that defines the
// mid-level aggregation scope between the org and individual teams.
package domainmap

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping holds the configured domains and their member team keys.
type Mapping struct {
	domains map[string][]string
}

type mappingFile struct {
	Domains map[string][]string `yaml:"domains"`
}

// Load reads a domain mapping from a YAML file of the form:
//
//	domains:
//	  infrastructure: [PLAT, OPS]
//	  commerce: [PAY]
//
// A missing file yields an empty mapping, not an error: domains are an
// optional aggregation layer.
func Load(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Mapping{domains: map[string][]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read domain mapping %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a domain mapping document.
func Parse(data []byte) (*Mapping, error) {
	var f mappingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse domain mapping: %w", err)
	}

	domains := make(map[string][]string, len(f.Domains))
	for name, teams := range f.Domains {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var keys []string
		for _, t := range teams {
			if t = strings.TrimSpace(t); t != "" {
				keys = append(keys, t)
			}
		}
		domains[name] = keys
	}
	return &Mapping{domains: domains}, nil
}

// Domains returns the configured domain names, sorted.
func (m *Mapping) Domains() []string {
	out := make([]string, 0, len(m.domains))
	for d := range m.domains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// TeamsForDomain returns the member team keys of a domain, matching the
// domain name case-insensitively.
func (m *Mapping) TeamsForDomain(domain string) []string {
	if teams, ok := m.domains[domain]; ok {
		return teams
	}
	for name, teams := range m.domains {
		if strings.EqualFold(name, domain) {
			return teams
		}
	}
	return nil
}
