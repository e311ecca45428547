package viewer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Fetcher downloads a URL's body.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Acquire reads the bytes behind a file, drop or URL source.
func Acquire(ctx context.Context, src Source, f Fetcher) ([]byte, error) {
	switch src.Kind {
	case KindURL:
		if f == nil {
			return nil, errors.New("no fetcher configured")
		}
		return f.Get(ctx, src.Location)
	case KindFile, KindDrop:
		return ReadFile(src.Location)
	}
	return nil, fmt.Errorf("cannot acquire %s source", src.Kind)
}

// ReadFile returns a whole local file.
func ReadFile(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return os.ReadFile(path)
}

// DroppedPath turns what a terminal pastes when a file is dropped on it into
// a path. Terminals quote or backslash-escape the path, some send a file://
// URI, several files come one per line; only the first one is used. ok is
// false when the paste does not name an existing regular file.
func DroppedPath(pasted string) (string, bool) {
	s := strings.TrimSpace(pasted)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	} else if strings.Contains(s, `\`) && !strings.Contains(s, `:\`) {
		s = unescapeShell(s)
	}
	if strings.HasPrefix(s, "file://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", false
		}
		s = u.Path
	}
	if s == "" {
		return "", false
	}
	fi, err := os.Stat(s)
	if err != nil || !fi.Mode().IsRegular() {
		return "", false
	}
	return s, true
}

func unescapeShell(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
