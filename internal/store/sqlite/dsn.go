package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	scheme     = "sqlite://"
	memoryPath = ":memory:"
)

// parseDSN turns a sqlite:// URL into the path form the driver expects.
// Relative paths are anchored to the working directory.
func parseDSN(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, scheme)
	if !ok {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected %s", scheme)
	}
	if rest == memoryPath {
		return rest, nil
	}
	if strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "./") {
		return rest, nil
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	path, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}
