package domain

import (
	"path"
	"regexp"
	"strings"

	apperrors "phorg/internal/errors"
)

// Criteria narrows which files an enumeration yields. Endings compare
// case-insensitively against the file name suffix; Exclude is either a shell
// glob matched against the whole basename or, with ExcludeRegex, a regular
// expression searched anywhere in the basename.
type Criteria struct {
	Recursive    bool
	Endings      []string
	Exclude      string
	ExcludeRegex bool
}

// Matcher is the compiled, validated form of Criteria. Compile once per run;
// Match is safe for concurrent use.
type Matcher struct {
	endings []string
	glob    string
	expr    *regexp.Regexp
}

// Compile normalizes the endings list and validates the exclusion pattern.
// A malformed pattern is reported up front so a run never aborts mid-walk.
func (c Criteria) Compile() (*Matcher, error) {
	m := &Matcher{endings: NormalizeEndings(c.Endings)}
	if c.Exclude == "" {
		return m, nil
	}
	if c.ExcludeRegex {
		expr, err := regexp.Compile(c.Exclude)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.InvalidPattern, "compile criteria", c.Exclude, err)
		}
		m.expr = expr
		return m, nil
	}
	if _, err := path.Match(c.Exclude, ""); err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidPattern, "compile criteria", c.Exclude, err)
	}
	m.glob = c.Exclude
	return m, nil
}

// Match reports whether a file with the given basename passes every filter.
func (m *Matcher) Match(name string) bool {
	return m.matchesEnding(name) && !m.excluded(name)
}

func (m *Matcher) matchesEnding(name string) bool {
	if len(m.endings) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ending := range m.endings {
		if strings.HasSuffix(lower, ending) {
			return true
		}
	}
	return false
}

func (m *Matcher) excluded(name string) bool {
	if m.expr != nil {
		return m.expr.MatchString(name)
	}
	if m.glob != "" {
		ok, err := path.Match(m.glob, name)
		return err == nil && ok
	}
	return false
}

// NormalizeEndings lowercases every ending and guarantees a leading dot, so
// "JPG" and ".jpg" select the same files.
func NormalizeEndings(endings []string) []string {
	if len(endings) == 0 {
		return nil
	}
	out := make([]string, 0, len(endings))
	for _, ending := range endings {
		ending = strings.ToLower(strings.TrimSpace(ending))
		if ending == "" {
			continue
		}
		if !strings.HasPrefix(ending, ".") {
			ending = "." + ending
		}
		out = append(out, ending)
	}
	return out
}
