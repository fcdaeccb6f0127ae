package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/sjson"

	"pcreator/internal/runtimes"
)

var nonPackageChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// packageName lower-cases name and replaces runs of unsupported characters
// with "-", the form accepted by PyPI, npm and Packagist alike.
func packageName(name string) string {
	out := nonPackageChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	out = strings.Trim(out, "-.")
	if out == "" {
		return "project"
	}
	return out
}

type pyproject struct {
	Project     pyprojectProject `toml:"project"`
	BuildSystem buildSystem      `toml:"build-system"`
}

type pyprojectProject struct {
	Name           string   `toml:"name"`
	Version        string   `toml:"version"`
	Description    string   `toml:"description"`
	Readme         string   `toml:"readme"`
	RequiresPython string   `toml:"requires-python,omitempty"`
	Dependencies   []string `toml:"dependencies"`
}

type buildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
}

func pyprojectTOML(name, version string) ([]byte, error) {
	doc := pyproject{
		Project: pyprojectProject{
			Name:         packageName(name),
			Version:      "0.1.0",
			Description:  fmt.Sprintf("%s Python project", name),
			Readme:       "README.md",
			Dependencies: []string{},
		},
		BuildSystem: buildSystem{
			Requires:     []string{"setuptools>=68", "wheel"},
			BuildBackend: "setuptools.build_meta",
		},
	}
	if canonical, ok := runtimes.CanonicalMinor(version); ok {
		doc.Project.RequiresPython = ">=" + canonical
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal pyproject.toml: %w", err)
	}
	return data, nil
}

type field struct {
	path  string
	value any
}

// buildJSON sets fields in order on an empty object and indents the result.
func buildJSON(fields []field) ([]byte, error) {
	doc := []byte(`{}`)
	for _, f := range fields {
		var err error
		doc, err = sjson.SetBytes(doc, f.path, f.value)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", f.path, err)
		}
	}
	var out bytes.Buffer
	if err := json.Indent(&out, doc, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func packageJSON(name, version string) ([]byte, error) {
	fields := []field{
		{"name", packageName(name)},
		{"version", "1.0.0"},
		{"description", fmt.Sprintf("%s JavaScript project", name)},
		{"main", "src/index.js"},
		{"scripts.start", "node src/index.js"},
		{"scripts.dev", "node --watch src/index.js"},
	}
	if major, ok := runtimes.CanonicalMajor(version); ok {
		fields = append(fields, field{"engines.node", ">=" + major + ".0.0"})
	}
	data, err := buildJSON(fields)
	if err != nil {
		return nil, fmt.Errorf("build package.json: %w", err)
	}
	return data, nil
}

func composerJSON(name, version string) ([]byte, error) {
	fields := []field{
		{"name", "vendor/" + packageName(name)},
		{"description", fmt.Sprintf("%s PHP project", name)},
		{"type", "project"},
	}
	if canonical, ok := runtimes.CanonicalMinor(version); ok {
		fields = append(fields, field{"require.php", ">=" + canonical})
	} else {
		fields = append(fields, field{"require", map[string]string{}})
	}
	fields = append(fields, field{"autoload", map[string]any{
		"psr-4": map[string]string{`App\`: "src/"},
	}})
	data, err := buildJSON(fields)
	if err != nil {
		return nil, fmt.Errorf("build composer.json: %w", err)
	}
	return data, nil
}
