package cli

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pcreator/internal/config"
	"pcreator/internal/logx"
	"pcreator/internal/paths"
	"pcreator/internal/proc"
	"pcreator/internal/project"
	"pcreator/internal/runtimes"
	"pcreator/internal/tui"
)

// environment is everything a command needs, built from the loaded config.
type environment struct {
	cfg          config.Config
	log          *logrus.Logger
	service      *runtimes.Service
	catalog      *runtimes.CachedCatalog
	installer    *runtimes.Installer
	materializer *project.Materializer
	prompter     tui.Prompter
	closer       io.Closer
}

// newEnvironment is swapped out by tests.
var newEnvironment = loadEnvironment

func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logsDir, err := paths.LogsDir()
	if err != nil {
		return nil, err
	}
	logger, closer, err := logx.New(logsDir, verbose)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"command": cmd.CommandPath(),
		"config":  configPath,
	}).Info("pcreator started")

	locksDir, err := paths.LocksDir()
	if err != nil {
		closer.Close()
		return nil, err
	}

	env := assemble(cfg, logger, proc.CmdRunner{}, runtimes.OSHost{}, locksDir)
	env.closer = closer
	return env, nil
}

func assemble(cfg config.Config, logger *logrus.Logger, runner proc.Runner, host runtimes.Host, locksDir string) *environment {
	service := runtimes.NewService(runtimes.Options{
		Runner:         runner,
		Host:           host,
		Locations:      cfg.Locations(),
		ProbeTimeout:   cfg.ProbeTimeout,
		VersionTimeout: cfg.VersionTimeout,
		CommonVersions: cfg.CommonVersionsByLanguage(),
		Logger:         logger,
	})
	return &environment{
		cfg:          cfg,
		log:          logger,
		service:      service,
		catalog:      runtimes.NewCachedCatalog(service, cfg.CacheTTL),
		installer:    runtimes.NewInstaller(service, locksDir),
		materializer: project.NewMaterializer(runner, logger),
		prompter:     tui.HuhPrompter{},
	}
}

// Close flushes the run log.
func (e *environment) Close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return paths.ExpandHome(configPath)
	}
	return config.DefaultPath()
}

func loadConfig() (config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path)
}
