package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"pcreator/internal/runtimes"
)

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVar(&configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/pcreator/config.yaml)")
	fs.BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Record probe-level detail in the log file")
	fs.BoolVar(&noProgress, "no-progress", false, "Disable interactive progress output")
}

func addLanguageFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "language", "l", "", "Project language: python, javascript or php")
}

func addVersionFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVar(target, "version", "", "Runtime version (e.g. 3.12, 20, 8.3)")
}

// parseLanguages maps a positional argument to languages. No argument or
// "all" selects every language.
func parseLanguages(args []string) ([]runtimes.Language, error) {
	if len(args) == 0 || strings.EqualFold(strings.TrimSpace(args[0]), "all") {
		return runtimes.Languages(), nil
	}
	lang, err := runtimes.ParseLanguage(args[0])
	if err != nil {
		return nil, err
	}
	return []runtimes.Language{lang}, nil
}

// parseTarget validates the "<language> <version>" argument pair.
func parseTarget(args []string) (runtimes.Language, string, error) {
	lang, err := runtimes.ParseLanguage(args[0])
	if err != nil {
		return 0, "", err
	}
	version := strings.TrimSpace(args[1])
	if version == "" {
		return 0, "", runtimes.ErrEmptyVersion
	}
	return lang, version, nil
}
