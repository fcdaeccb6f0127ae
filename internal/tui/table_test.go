package tui

import (
	"strings"
	"testing"

	"pcreator/internal/runtimes"
)

func TestCatalogTable(t *testing.T) {
	catalog := runtimes.Catalog{
		runtimes.PHP:    {{Version: "8.3", Installed: false}},
		runtimes.Python: {{Version: "3.12", Installed: true}, {Version: "3.11"}},
	}

	out := CatalogTable(catalog, false)

	for _, want := range []string{"LANGUAGE", "VERSION", "STATUS", "Python", "3.12", "installed", "3.11", "available", "PHP", "8.3"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Python") > strings.Index(out, "PHP") {
		t.Errorf("expected Python before PHP:\n%s", out)
	}
	if strings.Contains(out, "JavaScript") {
		t.Errorf("languages absent from the catalog must not be listed:\n%s", out)
	}
}
