package util

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"paygate-console/pkg/apierror"
)

// AssetRoot maps request paths onto files under the console bundle directory.
type AssetRoot struct {
	rootAbs string
}

func NewAssetRoot(root string) (*AssetRoot, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("asset root cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve asset root: %w", err)
	}

	return &AssetRoot{rootAbs: rootAbs}, nil
}

func (a *AssetRoot) Dir() string {
	return a.rootAbs
}

// Resolve returns the absolute file path for a request path. The bundle root
// itself resolves to Dir().
func (a *AssetRoot) Resolve(requestPath string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(requestPath), `\`, "/")
	if normalized == "" || normalized == "/" {
		return a.rootAbs, nil
	}

	if hasControlCharacters(normalized) {
		return "", apierror.New("INVALID_PATH", "path contains invalid characters", nil, http.StatusBadRequest)
	}

	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", apierror.New("NOT_FOUND", "Not found", nil, http.StatusNotFound)
		}
	}

	cleanRel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(normalized, "/")))
	if cleanRel == "." {
		return a.rootAbs, nil
	}

	resolved := filepath.Join(a.rootAbs, cleanRel)
	if !isWithinRoot(a.rootAbs, resolved) {
		return "", apierror.New("NOT_FOUND", "Not found", nil, http.StatusNotFound)
	}

	return resolved, nil
}

func hasControlCharacters(value string) bool {
	for _, char := range value {
		if unicode.IsControl(char) {
			return true
		}
	}

	return false
}

func isWithinRoot(rootAbs string, candidateAbs string) bool {
	if candidateAbs == rootAbs {
		return true
	}

	return strings.HasPrefix(candidateAbs, rootAbs+string(filepath.Separator))
}
