package console

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	// ErrUnknownCommand is returned when no command is close enough.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrAmbiguousCommand is returned when two commands are equally close.
	ErrAmbiguousCommand = errors.New("ambiguous command")
)

// Matcher resolves typed words to command names, tolerating typos.
type Matcher struct {
	names []string
}

// NewMatcher builds a matcher over names.
func NewMatcher(names ...string) *Matcher {
	ns := append([]string(nil), names...)
	sort.Strings(ns)
	return &Matcher{names: ns}
}

// Resolve returns the command name word refers to.
func (m *Matcher) Resolve(word string) (string, error) {
	w := strings.ToLower(strings.TrimSpace(word))
	best, bestDist := "", -1
	var tied []string
	for _, n := range m.names {
		if n == w {
			return n, nil
		}
		d := levenshtein.ComputeDistance(w, n)
		if d > typoLimit(len(n)) {
			continue
		}
		switch {
		case bestDist < 0 || d < bestDist:
			best, bestDist, tied = n, d, nil
		case d == bestDist:
			tied = append(tied, n)
		}
	}
	if bestDist < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, word)
	}
	if len(tied) > 0 {
		return "", fmt.Errorf("%w: %q could be %s", ErrAmbiguousCommand, word, strings.Join(append([]string{best}, tied...), " or "))
	}
	return best, nil
}

func typoLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
