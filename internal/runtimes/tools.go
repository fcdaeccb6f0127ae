package runtimes

import (
	"context"
	"path/filepath"
	"regexp"
)

// ToolStatus reports one version manager, package manager or runtime binary.
type ToolStatus struct {
	Tool    string `json:"tool"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

var toolVersion = regexp.MustCompile(`\d+(?:\.\d+)+`)

const nvmVersionScript = `source "$1" >/dev/null 2>&1 && nvm --version`

// DetectTools reports pyenv, brew, nvm, node, php and python3 in that order.
// Missing tools are reported, never treated as failures.
func (s *Service) DetectTools(ctx context.Context) []ToolStatus {
	e := s.tools
	statuses := []ToolStatus{
		e.binaryStatus(ctx, "pyenv", joinIf(e.loc.PyenvRoot, "bin", "pyenv")),
		e.binaryStatus(ctx, "brew", joinIf(e.loc.BrewPrefix, "bin", "brew")),
		e.nvmStatus(ctx),
		e.binaryStatus(ctx, "node"),
		e.binaryStatus(ctx, "php"),
		e.binaryStatus(ctx, "python3"),
	}
	return statuses
}

func (e *env) binaryStatus(ctx context.Context, name string, fallbacks ...string) ToolStatus {
	st := ToolStatus{Tool: name}
	path := e.lookup(name, fallbacks...)
	if path == "" {
		return st
	}
	st.Found = true
	st.Path = path
	res := e.version(ctx, name, path)
	if !res.OK() {
		st.Error = "version check " + res.Outcome.String()
		return st
	}
	st.Version = toolVersion.FindString(res.Output())
	return st
}

func (e *env) nvmStatus(ctx context.Context) ToolStatus {
	st := ToolStatus{Tool: "nvm"}
	if e.loc.NvmDir == "" {
		return st
	}
	script := filepath.Join(e.loc.NvmDir, "nvm.sh")
	if !e.host.FileExists(script) {
		return st
	}
	st.Found = true
	st.Path = script
	res := e.probe(ctx, "nvm", "bash", "-c", nvmVersionScript, "nvm", script)
	if !res.OK() {
		st.Error = "version check " + res.Outcome.String()
		return st
	}
	st.Version = toolVersion.FindString(res.Output())
	return st
}

func joinIf(root string, elem ...string) string {
	if root == "" {
		return ""
	}
	return filepath.Join(append([]string{root}, elem...)...)
}
