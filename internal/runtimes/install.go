package runtimes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"pcreator/internal/proc"
	"pcreator/internal/task"
)

// ErrInstallUnverified means every install step succeeded but the runtime
// still does not answer with the requested version.
var ErrInstallUnverified = errors.New("installed runtime did not verify")

const lockRetryDelay = 100 * time.Millisecond

// Installer runs install plans as tasks. Installs of the same language are
// serialized across processes with a lock file in LocksDir.
type Installer struct {
	service  *Service
	runner   proc.Runner
	locksDir string
	log      *logrus.Logger
}

// NewInstaller returns an installer sharing service's runner and logger.
// An empty locksDir disables locking.
func NewInstaller(service *Service, locksDir string) *Installer {
	return &Installer{
		service:  service,
		runner:   service.runner,
		locksDir: locksDir,
		log:      service.log,
	}
}

// Install starts a task that installs version of lang. A version that is
// already installed completes immediately with a log line. Prerequisite
// failures end the task with an error that carries install hints.
func (i *Installer) Install(ctx context.Context, lang Language, version string) *task.Task {
	name := fmt.Sprintf("install %s %s", lang, version)
	strategy, err := i.service.Strategy(lang)
	if err != nil {
		return task.Failed(name, err)
	}
	version = strings.TrimSpace(version)
	if version == "" {
		return task.Failed(name, fmt.Errorf("%s install: empty version", lang))
	}

	return task.Start(ctx, name, func(ctx context.Context, logf task.Logf) error {
		entry := i.log.WithFields(logrus.Fields{"language": lang.String(), "version": version})

		if strategy.IsInstalled(ctx, version) {
			logf("%s %s is already installed", lang.DisplayName(), version)
			entry.Info("install skipped, already present")
			return nil
		}

		steps, err := strategy.InstallPlan(version)
		if err != nil {
			entry.WithError(err).Warn("no install plan")
			return withHints(lang, err)
		}

		unlock, err := i.lock(ctx, lang)
		if err != nil {
			return err
		}
		defer unlock()

		start := time.Now()
		if err := task.RunSteps(ctx, i.runner, steps, logf); err != nil {
			entry.WithError(err).Error("install failed")
			return fmt.Errorf("%s: %w", name, err)
		}

		if !strategy.IsInstalled(ctx, version) {
			entry.Warn("install finished but version did not verify")
			return fmt.Errorf("%s %s: %w", lang.DisplayName(), version, ErrInstallUnverified)
		}
		entry.WithField("elapsed", time.Since(start).Round(time.Second).String()).Info("install finished")
		logf("%s %s installed", lang.DisplayName(), version)
		return nil
	})
}

func (i *Installer) lock(ctx context.Context, lang Language) (func(), error) {
	if i.locksDir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(i.locksDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare locks dir: %w", err)
	}
	fl := flock.New(filepath.Join(i.locksDir, lang.String()+".lock"))
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire install lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire install lock: %s is locked", fl.Path())
	}
	return func() { _ = fl.Unlock() }, nil
}

// HintedError is an install failure annotated with manual install advice.
type HintedError struct {
	Err   error
	Hints []string
}

func (e *HintedError) Error() string {
	if len(e.Hints) == 0 {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n  " + strings.Join(e.Hints, "\n  ")
}

func (e *HintedError) Unwrap() error { return e.Err }

func withHints(lang Language, err error) error {
	hints := Hints(lang)
	if len(hints) == 0 {
		return err
	}
	return &HintedError{Err: err, Hints: hints}
}
