package note

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Resolver turns the video locator from a note into something a player can
// open. It is passed to whoever renders the video instead of being looked up
// from a global host handle.
type Resolver interface {
	Resolve(n *Note) (string, error)
}

// VaultResolver resolves relative locators against the vault root, then
// against the note's own directory. URLs and absolute paths pass through.
type VaultResolver struct {
	Root string
}

func (r VaultResolver) Resolve(n *Note) (string, error) {
	loc := strings.TrimSpace(n.FrontMatter.Video)
	if loc == "" {
		return "", fmt.Errorf("%s: no video locator", n.Name)
	}

	if isURL(loc) || filepath.IsAbs(loc) {
		return loc, nil
	}

	var candidates []string
	if r.Root != "" {
		candidates = append(candidates, filepath.Join(r.Root, loc))
	}
	candidates = append(candidates, filepath.Join(n.Dir(), loc))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("video not found: %s (looked in %s)", loc, strings.Join(candidates, ", "))
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	// a single letter scheme is a windows drive, not a URL
	return len(u.Scheme) > 1 && (u.Host != "" || u.Opaque != "")
}
