package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pcreator/internal/paths"
	"pcreator/internal/runtimes"
)

// EnvPrefix prefixes environment overrides, e.g. PCREATOR_PROBE_TIMEOUT.
const EnvPrefix = "PCREATOR"

// Config captures probing limits, well-known runtime locations and project
// defaults.
type Config struct {
	Version        int                 `yaml:"version" mapstructure:"version" jsonschema:"description=Configuration format version"`
	ProbeTimeout   time.Duration       `yaml:"probe_timeout" mapstructure:"probe_timeout" jsonschema:"type=string,description=Timeout for version manager listings (e.g. 10s)"`
	VersionTimeout time.Duration       `yaml:"version_timeout" mapstructure:"version_timeout" jsonschema:"type=string,description=Timeout for direct --version probes"`
	InstallTimeout time.Duration       `yaml:"install_timeout" mapstructure:"install_timeout" jsonschema:"type=string,description=Upper bound for one runtime install"`
	CacheTTL       time.Duration       `yaml:"cache_ttl" mapstructure:"cache_ttl" jsonschema:"type=string,description=How long a discovered catalog is reused; 0 disables caching"`
	ProjectsDir    string              `yaml:"projects_dir" mapstructure:"projects_dir" jsonschema:"description=Parent directory for new projects"`
	Locations      LocationsConfig     `yaml:"locations" mapstructure:"locations"`
	CommonVersions map[string][]string `yaml:"common_versions,omitempty" mapstructure:"common_versions" jsonschema:"description=Fallback versions offered per language (python javascript php)"`
	CursorRulesDir string              `yaml:"cursor_rules_dir,omitempty" mapstructure:"cursor_rules_dir" jsonschema:"description=Directory of Cursor rule files copied into new Python projects"`
}

// LocationsConfig overrides the directories probed during resolution. Empty
// values fall back to the environment and platform defaults.
type LocationsConfig struct {
	BrewPrefix      string `yaml:"brew_prefix,omitempty" mapstructure:"brew_prefix"`
	SecondaryPrefix string `yaml:"secondary_prefix,omitempty" mapstructure:"secondary_prefix"`
	PyenvRoot       string `yaml:"pyenv_root,omitempty" mapstructure:"pyenv_root"`
	NvmDir          string `yaml:"nvm_dir,omitempty" mapstructure:"nvm_dir"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version:        1,
		ProbeTimeout:   10 * time.Second,
		VersionTimeout: 5 * time.Second,
		InstallTimeout: 30 * time.Minute,
		CacheTTL:       0,
		ProjectsDir:    "~/Developer/projects",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pcreator/config.yaml.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(paths.AppName + "/config.yaml")
}

// Load reads the YAML configuration at path through viper so every key can be
// overridden with a PCREATOR_ environment variable. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("probe_timeout", d.ProbeTimeout)
	v.SetDefault("version_timeout", d.VersionTimeout)
	v.SetDefault("install_timeout", d.InstallTimeout)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("projects_dir", d.ProjectsDir)
	v.SetDefault("locations.brew_prefix", "")
	v.SetDefault("locations.secondary_prefix", "")
	v.SetDefault("locations.pyenv_root", "")
	v.SetDefault("locations.nvm_dir", "")
	v.SetDefault("cursor_rules_dir", "")
}

// ApplyDefaults fills zero values the YAML omitted.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = defaults.ProbeTimeout
	}
	if c.VersionTimeout == 0 {
		c.VersionTimeout = defaults.VersionTimeout
	}
	if c.InstallTimeout == 0 {
		c.InstallTimeout = defaults.InstallTimeout
	}
	if strings.TrimSpace(c.ProjectsDir) == "" {
		c.ProjectsDir = defaults.ProjectsDir
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

// Write stores the configuration at path, creating parent directories.
func (c Config) Write(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Locations converts the overrides, expanding "~".
func (c Config) Locations() runtimes.Locations {
	expand := func(p string) string {
		if out, err := paths.ExpandHome(p); err == nil {
			return out
		}
		return p
	}
	return runtimes.Locations{
		BrewPrefix:      expand(c.Locations.BrewPrefix),
		SecondaryPrefix: expand(c.Locations.SecondaryPrefix),
		PyenvRoot:       expand(c.Locations.PyenvRoot),
		NvmDir:          expand(c.Locations.NvmDir),
	}
}

// CommonVersionsByLanguage keys the overrides by language. Unknown language
// names are skipped; Validate reports them.
func (c Config) CommonVersionsByLanguage() map[runtimes.Language][]string {
	out := make(map[runtimes.Language][]string, len(c.CommonVersions))
	for name, versions := range c.CommonVersions {
		lang, err := runtimes.ParseLanguage(name)
		if err != nil || len(versions) == 0 {
			continue
		}
		out[lang] = append([]string(nil), versions...)
	}
	return out
}

// ResolvedProjectsDir returns ProjectsDir with "~" expanded.
func (c Config) ResolvedProjectsDir() (string, error) {
	return paths.ExpandHome(c.ProjectsDir)
}
