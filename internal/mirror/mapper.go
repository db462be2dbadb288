package mirror

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nao1215/sitemirror/internal/model"
)

// DirPerm is the permission used for created output directories.
const DirPerm = 0o750

// indexName is the file stem used for URLs that end in a directory.
const indexName = "index"

// queryDigestLen is the number of hex characters of the query digest.
const queryDigestLen = 8

// Mapper computes the output path for a URL.
// The mapping depends only on the URL and the variant, so repeated runs
// produce the same tree.
type Mapper struct {
	root    string
	variant model.Variant
}

// NewMapper creates a Mapper writing below baseDir/<variant root>.
func NewMapper(baseDir string, variant model.Variant) *Mapper {
	return &Mapper{
		root:    filepath.Join(baseDir, variant.RootDir()),
		variant: variant,
	}
}

// Root returns the variant's output root directory.
func (m *Mapper) Root() string {
	return m.root
}

// Map returns the output path for rawURL. Scheme, host and fragment are
// ignored. Errors wrap model.ErrPath.
func (m *Mapper) Map(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL %q: %w", model.ErrPath, rawURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: URL is not absolute: %q", model.ErrPath, rawURL)
	}

	urlPath, err := decodePath(u.EscapedPath())
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL path %q: %w", model.ErrPath, rawURL, err)
	}
	if strings.ContainsRune(urlPath, 0) {
		return "", fmt.Errorf("%w: URL path contains NUL: %q", model.ErrPath, rawURL)
	}

	dirOnly := urlPath == "" || strings.HasSuffix(urlPath, "/")

	// Clean against the root so ".." can never climb out of the output tree.
	cleaned := strings.TrimPrefix(path.Clean("/"+urlPath), "/")

	var segments []string
	if cleaned != "" {
		segments = strings.Split(cleaned, "/")
	}

	dirs := segments
	name := ""
	if !dirOnly && len(segments) > 0 {
		dirs = segments[:len(segments)-1]
		name = segments[len(segments)-1]
	}

	parts := make([]string, 0, len(dirs)+2)
	parts = append(parts, m.root)
	parts = append(parts, dirs...)
	parts = append(parts, m.fileName(name, u.RawQuery))

	return filepath.Join(parts...), nil
}

// decodePath unescapes each segment of an escaped URL path. An encoded
// slash stays "%2F" so /a%2Fb and /a/b name different files.
func decodePath(escaped string) (string, error) {
	segments := strings.Split(escaped, "/")
	for i, seg := range segments {
		s, err := url.PathUnescape(seg)
		if err != nil {
			return "", err
		}
		segments[i] = strings.ReplaceAll(s, "/", "%2F")
	}
	return strings.Join(segments, "/"), nil
}

// fileName builds the file name for the last URL path segment.
func (m *Mapper) fileName(segment, rawQuery string) string {
	stem, ext := m.split(segment)

	if rawQuery != "" {
		stem += ".q" + queryDigest(rawQuery)
	}

	return stem + ext
}

// split divides a segment into the stem and the extension to write.
func (m *Mapper) split(segment string) (string, string) {
	variantExt := m.variant.Extension()

	switch {
	case segment == "":
		return indexName, variantExt
	case strings.HasSuffix(strings.ToLower(segment), ".html"):
		return segment[:len(segment)-len(".html")], variantExt
	case m.variant == model.VariantRawHTML && path.Ext(segment) != "":
		ext := path.Ext(segment)
		return strings.TrimSuffix(segment, ext), ext
	default:
		return segment, variantExt
	}
}

// queryDigest returns the first hex characters of SHA-256(rawQuery).
func queryDigest(rawQuery string) string {
	sum := sha256.Sum256([]byte(rawQuery))
	return hex.EncodeToString(sum[:])[:queryDigestLen]
}

// Ensure creates every missing directory on the way to p.
// Errors wrap model.ErrPath.
func (m *Mapper) Ensure(p string) error {
	if err := os.MkdirAll(filepath.Dir(p), DirPerm); err != nil {
		return fmt.Errorf("%w: failed to create directory for %s: %w", model.ErrPath, p, err)
	}
	return nil
}
