package locales

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ReadStore reads the store at path. A missing or malformed file yields an
// empty map; the failure is only logged.
func ReadStore(path string) *Map {
	m, err := LoadStore(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("path", path).Msg("locale store not found, starting empty")
		} else {
			log.Warn().Err(err).Str("path", path).Msg("locale store unreadable, treating as empty")
		}
		return NewMap()
	}
	return m
}

// LoadStore reads and flattens the store at path.
func LoadStore(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return NewMap(), nil
	}
	m, err := Flatten(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// WriteStore serializes m and writes it to path, creating parent
// directories as needed.
func WriteStore(path string, m *Map) error {
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// normalizeValue takes an encoded JSON string and lets backslash escapes
// written in source text act as JSON escapes: an escaped backslash followed by
// a valid escape character collapses into that escape. Anything that would
// produce invalid JSON keeps its escaped backslash.
func normalizeValue(enc string) string {
	if !strings.Contains(enc, `\\`) {
		return enc
	}
	var b strings.Builder
	b.Grow(len(enc))
	last := len(enc) - 1 // closing quote
	for i := 0; i < len(enc); i++ {
		c := enc[i]
		if c != '\\' || i+1 > last {
			b.WriteByte(c)
			continue
		}
		if enc[i+1] == 'u' {
			b.WriteString(enc[i : i+6])
			i += 5
			continue
		}
		if enc[i+1] != '\\' {
			b.WriteString(enc[i : i+2])
			i++
			continue
		}

		// enc[i:i+2] is an escaped backslash; j starts the next token.
		j := i + 2
		if j < last {
			switch n := enc[j]; {
			case strings.IndexByte("ntrbf/", n) >= 0:
				b.WriteByte('\\')
				b.WriteByte(n)
				i = j
				continue
			case n == 'u' && j+5 <= last && isHex(enc[j+1:j+5]):
				b.WriteString(`\u`)
				b.WriteString(enc[j+1 : j+5])
				i = j + 4
				continue
			case n == '\\' && j+1 < last && (enc[j+1] == '"' || enc[j+1] == '\\'):
				b.WriteByte('\\')
				b.WriteByte(enc[j+1])
				i = j + 1
				continue
			}
		}
		b.WriteString(`\\`)
		i++
	}
	return b.String()
}

// normalizeKey collapses runs of three or more backslashes in an encoded key
// to an escaped single backslash, keeping a trailing escape prefix when the
// run length is odd.
func normalizeKey(enc string) string {
	if !strings.Contains(enc, `\\\`) {
		return enc
	}
	var b strings.Builder
	b.Grow(len(enc))
	for i := 0; i < len(enc); {
		if enc[i] != '\\' {
			b.WriteByte(enc[i])
			i++
			continue
		}
		j := i
		for j < len(enc) && enc[j] == '\\' {
			j++
		}
		switch n := j - i; {
		case n < 3:
			b.WriteString(enc[i:j])
		case n%2 == 0:
			b.WriteString(`\\`)
		default:
			b.WriteString(`\\\`)
		}
		i = j
	}
	return b.String()
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return len(s) > 0
}
