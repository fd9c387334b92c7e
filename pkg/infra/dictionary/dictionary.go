package dictionary

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strings"
)

const (
	SourceFile  = "file"
	SourceRedis = "redis"
)

// Dictionary holds the custom toxic words and their replacements. It is
// loaded once and never mutated afterwards.
type Dictionary struct {
	Words        []string
	Replacements map[string]string
}

func Empty() *Dictionary {
	return &Dictionary{Words: []string{}, Replacements: map[string]string{}}
}

//go:generate mockery --name=Loader --dir=. --output=./mocks --filename=loader_mock.go --case=underscore --with-expecter
type Loader interface {
	Load(ctx context.Context) (*Dictionary, error)
}

// ParseWords reads one word per line. Words are trimmed and lowercased;
// blank lines and duplicates are dropped. The result is sorted.
func ParseWords(r io.Reader) ([]string, error) {
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" {
			continue
		}
		seen[w] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sortedKeys(seen), nil
}

// ParseReplacements reads "word,replacement" lines, splitting on the first
// comma only. Lines without a comma are skipped.
func ParseReplacements(r io.Reader) (map[string]string, error) {
	out := map[string]string{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		word, replacement, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		out[word] = strings.TrimSpace(replacement)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge adds every replacement key to the word list.
func (d *Dictionary) Merge() *Dictionary {
	seen := make(map[string]struct{}, len(d.Words)+len(d.Replacements))
	for _, w := range d.Words {
		seen[w] = struct{}{}
	}
	for w := range d.Replacements {
		seen[w] = struct{}{}
	}
	return &Dictionary{Words: sortedKeys(seen), Replacements: d.Replacements}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
