package supply

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
	"github.com/simpleg-eu/cp-config/internal/logfields"
)

// ConfigSupplier is a single-request-at-a-time worker actor. It owns one
// working directory exclusively: no other worker reads or writes it. State
// is mutated only from the goroutine running Run.
type ConfigSupplier struct {
	id          string
	init        *ConfigSupplierInit
	workingRoot string

	lastStage string
}

// newConfigSupplier allocates a worker. The working directory name is
// chosen now but not created until the first request performs setup.
func newConfigSupplier(init *ConfigSupplierInit, baseDir string) *ConfigSupplier {
	id := uuid.NewString()
	return &ConfigSupplier{
		id:          id,
		init:        init,
		workingRoot: filepath.Join(baseDir, id),
	}
}

func (s *ConfigSupplier) downloadPath() string {
	return filepath.Join(s.workingRoot, "download")
}

func (s *ConfigSupplier) environmentPath(env string) string {
	return filepath.Join(s.workingRoot, env)
}

// Run is the worker's actor loop: wait on either ctx cancellation (signal
// shutdown) or a request, serve the request, reply, repeat. It returns
// (dropping the working directory) when ctx is cancelled or requests is
// closed.
func (s *ConfigSupplier) Run(ctx context.Context, requests <-chan *GetConfigRequest) {
	defer s.cleanup()

	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			s.handle(ctx, req)
		}
	}
}

func (s *ConfigSupplier) cleanup() {
	if s.init.Cleaner == nil {
		return
	}
	if err := s.init.Cleaner.Clean(s.workingRoot); err != nil {
		slog.Warn("failed to remove worker working directory on shutdown",
			logfields.Worker(s.id), logfields.WorkingPath(s.workingRoot), logfields.Error(err))
	}
}

func (s *ConfigSupplier) handle(ctx context.Context, req *GetConfigRequest) {
	data, err := s.serveRequest(req.Stage, req.Environment, req.Component)

	reqCtx := req.Ctx
	if reqCtx == nil {
		reqCtx = ctx
	}
	if reqCtx.Err() != nil {
		slog.Warn("reply abandoned by caller before worker finished",
			logfields.Worker(s.id), logfields.Stage(req.Stage), logfields.Error(reqCtx.Err()))
		return
	}

	req.Reply <- &GetConfigResponse{Data: data, Err: err}
}

func (s *ConfigSupplier) serveRequest(stage, environment, component string) ([]byte, error) {
	data, err := s.doServeRequest(stage, environment, component)

	kind := ""
	if err != nil {
		kind = string(cperr.KindOf(err))
	}
	s.init.recorder().IncRequestResult(stage, kind)

	return data, err
}

func (s *ConfigSupplier) doServeRequest(stage, environment, component string) ([]byte, error) {
	if err := validateToken("stage", stage); err != nil {
		return nil, err
	}
	if err := validateToken("environment", environment); err != nil {
		return nil, err
	}
	if err := validateToken("component", component); err != nil {
		return nil, err
	}

	if err := s.ensureStage(stage); err != nil {
		return nil, err
	}

	return s.serve(environment, component)
}

// ensureStage runs a full setup when the worker has never seen stage (or
// last saw a different one), otherwise an incremental refresh.
func (s *ConfigSupplier) ensureStage(stage string) error {
	if s.lastStage == "" || s.lastStage != stage {
		return s.setup(stage)
	}
	return s.refresh(stage)
}

// setup is step 1 of the worker loop: wipe the working directory, download
// the stage fresh, build every environment. last_stage is only updated on
// complete success, so a failed setup is retried from scratch next time.
func (s *ConfigSupplier) setup(stage string) error {
	start := time.Now()

	if err := s.init.Cleaner.Clean(s.workingRoot); err != nil {
		return err
	}
	if err := os.MkdirAll(s.workingRoot, 0o755); err != nil {
		return cperr.Wrap(errorkind.FailedToRead, "failed to create working directory", err)
	}

	ctx := context.Background()
	if err := s.init.Downloader.Download(ctx, s.downloadPath(), stage); err != nil {
		return err
	}

	for _, env := range s.init.Environments {
		if err := s.init.Builder.Build(ctx, env, s.downloadPath(), s.environmentPath(env)); err != nil {
			return err
		}
	}

	s.lastStage = stage
	s.init.recorder().ObserveSetupDuration(stage, time.Since(start))
	s.init.notifier().NotifyStageSetup(stage)
	return nil
}

// refresh is step 2: check for upstream movement and, if found, re-download
// and re-build incrementally. A failed update check, download or rebuild
// fails the current request; whatever is already on disk is left as it is,
// with no cleanup or rollback.
func (s *ConfigSupplier) refresh(stage string) error {
	start := time.Now()
	ctx := context.Background()

	available, err := s.init.Downloader.IsNewVersionAvailable(ctx, s.downloadPath(), stage)
	if err != nil {
		return err
	}
	if !available {
		return nil
	}

	if err := s.init.Downloader.Download(ctx, s.downloadPath(), stage); err != nil {
		return err
	}
	for _, env := range s.init.Environments {
		if err := s.init.Builder.Build(ctx, env, s.downloadPath(), s.environmentPath(env)); err != nil {
			return err
		}
	}

	s.init.recorder().ObserveRefreshDuration(stage, time.Since(start))
	s.init.notifier().NotifyStageRefreshed(stage)
	return nil
}

// serve is step 3: package the requested component and read it back into
// memory, deleting the transient archive before returning.
func (s *ConfigSupplier) serve(environment, component string) ([]byte, error) {
	start := time.Now()

	envPath := s.environmentPath(environment)
	if _, err := os.Stat(envPath); err != nil {
		return nil, cperr.New(errorkind.NotFound, "environment \""+environment+"\" not found")
	}

	componentPath := filepath.Join(envPath, component)
	if _, err := os.Stat(componentPath); err != nil {
		return nil, cperr.New(errorkind.NotFound, "component \""+component+"\" not found")
	}

	archiveName := uuid.NewString() + "." + s.init.Packager.Extension()
	archivePath := filepath.Join(envPath, archiveName)

	if err := s.init.Packager.Package(componentPath, archivePath); err != nil {
		_ = os.Remove(archivePath)
		return nil, err
	}

	data, err := os.ReadFile(archivePath)
	_ = os.Remove(archivePath)
	if err != nil {
		return nil, cperr.Wrap(errorkind.FailedToRead, "failed to read archive", err)
	}

	s.init.recorder().ObservePackageDuration(environment, time.Since(start))
	return data, nil
}
