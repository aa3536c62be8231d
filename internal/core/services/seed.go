// internal/core/services/seed.go
package services

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed seed/*.json
var seedFS embed.FS

// SeedFunc returns the fallback payload for a domain, if one exists.
type SeedFunc func(domainName string) ([]byte, bool)

// EmbeddedSeed serves the small fixed datasets compiled into the binary.
func EmbeddedSeed(domainName string) ([]byte, bool) {
	b, err := seedFS.ReadFile(path.Join("seed", domainName+".json"))
	if err != nil {
		return nil, false
	}
	return b, true
}

// SeedNames lists the domains that have an embedded seed.
func SeedNames() []string {
	entries, err := fs.ReadDir(seedFS, "seed")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	return names
}
