package runtimes

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ErrUnknownLanguage is returned when a language name cannot be parsed.
var ErrUnknownLanguage = errors.New("unknown language")

// Language is the closed set of runtimes pcreator can scaffold for.
type Language int

const (
	Python Language = iota + 1
	JavaScript
	PHP
)

var languageKeys = map[Language]string{
	Python:     "python",
	JavaScript: "javascript",
	PHP:        "php",
}

var languageDisplayNames = map[Language]string{
	Python:     "Python",
	JavaScript: "JavaScript",
	PHP:        "PHP",
}

var languageAliases = map[string]Language{
	"python":     Python,
	"py":         Python,
	"python3":    Python,
	"javascript": JavaScript,
	"js":         JavaScript,
	"node":       JavaScript,
	"nodejs":     JavaScript,
	"php":        PHP,
}

var fold = cases.Fold()

// Languages returns every supported language in display order.
func Languages() []Language {
	return []Language{Python, JavaScript, PHP}
}

// ParseLanguage maps a name or alias, in any case, to a Language.
func ParseLanguage(name string) (Language, error) {
	key := fold.String(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, ".", "")
	if lang, ok := languageAliases[key]; ok {
		return lang, nil
	}
	return 0, fmt.Errorf("%w: %q (expected python, javascript or php)", ErrUnknownLanguage, name)
}

// String returns the lower-case key used in config files and flags.
func (l Language) String() string {
	if key, ok := languageKeys[l]; ok {
		return key
	}
	return fmt.Sprintf("language(%d)", int(l))
}

// DisplayName returns the human-facing name.
func (l Language) DisplayName() string {
	if name, ok := languageDisplayNames[l]; ok {
		return name
	}
	return l.String()
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	_, ok := languageKeys[l]
	return ok
}

func (l Language) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLanguage, int(l))
	}
	return []byte(l.String()), nil
}

func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
