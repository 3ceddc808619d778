package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"depmap/internal/apperr"
)

// Alias is one entry of the tsconfig "paths" mapping. A pattern may end in
// "/*"; the wildcard captures the rest of the specifier and substitutes into
// each target's "*".
type Alias struct {
	Pattern string
	Targets []string
}

// AliasManifest holds the alias patterns in declaration order. Declaration
// order breaks ties between patterns with equally long literal prefixes.
type AliasManifest struct {
	Aliases []Alias
}

var manifestNames = []string{"tsconfig.base.json", "tsconfig.json"}

// LoadAliases reads compilerOptions.paths from the workspace tsconfig.
// A workspace without one gets an empty manifest; a manifest that exists but
// cannot be parsed is a workspace error.
func LoadAliases(root string) (*AliasManifest, error) {
	for _, name := range manifestNames {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("%w: reading %s: %v", apperr.ErrWorkspace, name, err)
		}

		aliases, err := parsePaths(data)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", apperr.ErrWorkspace, name, err)
		}
		return &AliasManifest{Aliases: aliases}, nil
	}

	return &AliasManifest{}, nil
}

// parsePaths extracts compilerOptions.paths preserving key order, which a
// plain map unmarshal would lose. tsconfig files are JSONC in the wild, so
// comments and trailing commas are stripped first.
func parsePaths(data []byte) ([]Alias, error) {
	dec := json.NewDecoder(bytes.NewReader(stripJSONC(data)))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		if key != "compilerOptions" {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}

		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		for dec.More() {
			key, err := stringToken(dec)
			if err != nil {
				return nil, err
			}
			if key != "paths" {
				if err := skipValue(dec); err != nil {
					return nil, err
				}
				continue
			}
			return decodePaths(dec)
		}
		return nil, nil
	}

	return nil, nil
}

func decodePaths(dec *json.Decoder) ([]Alias, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var aliases []Alias
	for dec.More() {
		pattern, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		var targets []string
		if err := dec.Decode(&targets); err != nil {
			return nil, fmt.Errorf("targets of %q: %v", pattern, err)
		}
		aliases = append(aliases, Alias{Pattern: pattern, Targets: targets})
	}

	return aliases, nil
}

func expectDelim(dec *json.Decoder, want rune) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || rune(d) != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string key, got %v", tok)
	}
	return s, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
		depth := 1
		for depth > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := tok.(json.Delim); ok {
				switch d {
				case '{', '[':
					depth++
				case '}', ']':
					depth--
				}
			}
		}
	}
	return nil
}

// stripJSONC removes // and /* */ comments and trailing commas while leaving
// string contents untouched.
func stripJSONC(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))

	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]

		if inString {
			out.WriteByte(c)
			if c == '\\' && i+1 < len(data) {
				out.WriteByte(data[i+1])
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			out.WriteByte(c)
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
			if i < len(data) {
				out.WriteByte('\n')
			}
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
				i++
			}
			i++
		case c == ',':
			// Drop the comma if the next significant byte (skipping
			// whitespace and comments) closes a scope.
			j := i + 1
		scan:
			for j < len(data) {
				switch {
				case data[j] == ' ' || data[j] == '\t' || data[j] == '\n' || data[j] == '\r':
					j++
				case data[j] == '/' && j+1 < len(data) && data[j+1] == '/':
					for j < len(data) && data[j] != '\n' {
						j++
					}
				case data[j] == '/' && j+1 < len(data) && data[j+1] == '*':
					j += 2
					for j+1 < len(data) && !(data[j] == '*' && data[j+1] == '/') {
						j++
					}
					j += 2
				default:
					break scan
				}
			}
			if j < len(data) && (data[j] == '}' || data[j] == ']') {
				continue
			}
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}

	return out.Bytes()
}

// Candidates expands spec through the manifest into workspace-relative
// target paths. The pattern with the longest literal prefix wins; ties go to
// the earliest declaration. Nil means no alias matched.
func (m *AliasManifest) Candidates(spec string) []string {
	best := -1
	bestLen := -1

	for i, alias := range m.Aliases {
		literal, wildcard := splitPattern(alias.Pattern)
		switch {
		case wildcard && strings.HasPrefix(spec, literal) && len(literal) > bestLen:
			best, bestLen = i, len(literal)
		case !wildcard && spec == alias.Pattern && len(alias.Pattern) > bestLen:
			best, bestLen = i, len(alias.Pattern)
		}
	}

	if best < 0 {
		return nil
	}

	alias := m.Aliases[best]
	literal, wildcard := splitPattern(alias.Pattern)
	var candidates []string
	for _, target := range alias.Targets {
		if wildcard && strings.Contains(target, "*") {
			candidates = append(candidates, strings.Replace(target, "*", spec[len(literal):], 1))
		} else {
			candidates = append(candidates, target)
		}
	}
	return candidates
}

func splitPattern(pattern string) (literal string, wildcard bool) {
	if idx := strings.IndexByte(pattern, '*'); idx >= 0 {
		return pattern[:idx], true
	}
	return pattern, false
}
