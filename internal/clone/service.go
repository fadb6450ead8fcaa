// Package clone orchestrates the site-mirroring pipeline: render the page,
// rewrite asset references to local paths, fetch the assets concurrently,
// persist the document, and package everything into an archive.
package clone

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/goclone/internal/config"
	"github.com/jonesrussell/goclone/internal/logger"
	"github.com/jonesrussell/goclone/internal/renderer"
	"github.com/jonesrussell/goclone/internal/rewriter"
)

// Renderer obtains the page's HTML via the cheapest sufficient method.
type Renderer interface {
	Render(ctx context.Context, url string) (*renderer.Document, error)
}

// AssetFetcher retrieves a single remote asset.
type AssetFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// AssetSaver persists asset bytes, creating parent directories as needed.
type AssetSaver func(dest string, data []byte) error

// Archiver materializes the clone folder and packages it.
type Archiver interface {
	FolderRoot(folderName string) string
	Materialize(folderRoot, documentHTML string) error
	Build(folderRoot, folderName string) (archivePath, publicPath string, err error)
}

// Service runs clone requests. All collaborators are injected at
// construction time; the service holds no global state.
type Service struct {
	cfg      config.CloneConfig
	renderer Renderer
	fetcher  AssetFetcher
	save     AssetSaver
	archiver Archiver
	log      logger.Interface

	// targets serializes clone runs per sanitized folder name so that two
	// concurrent requests for the same URL cannot corrupt each other's
	// folder. Different targets proceed fully in parallel.
	targetsMu sync.Mutex
	targets   map[string]*sync.Mutex
}

// NewService creates a clone service.
func NewService(
	cfg config.CloneConfig,
	rend Renderer,
	fetch AssetFetcher,
	save AssetSaver,
	arch Archiver,
	log logger.Interface,
) *Service {
	return &Service{
		cfg:      cfg,
		renderer: rend,
		fetcher:  fetch,
		save:     save,
		archiver: arch,
		log:      log,
		targets:  make(map[string]*sync.Mutex),
	}
}

// CloneWebsite mirrors the page at rawURL into a local folder, archives it,
// and returns the archive locations. Individual asset failures degrade the
// clone (reported via Result.FailedAssets) but never fail it; validation,
// render, and filesystem failures are fatal.
func (s *Service) CloneWebsite(ctx context.Context, rawURL string) (*Result, error) {
	if err := ValidateTarget(rawURL); err != nil {
		return nil, err
	}

	folderName := FolderName(rawURL)
	unlock := s.lockTarget(folderName)
	defer unlock()

	log := s.log.With("url", rawURL, "folder", folderName)

	doc, err := s.renderer.Render(ctx, rawURL)
	if err != nil {
		return nil, &RenderError{URL: rawURL, Err: err}
	}
	log.Info("page rendered", "mode", doc.Mode, "bytes", len(doc.HTML))

	// Rewriting decides every local path up front; the persisted document
	// already references its final layout before any asset is fetched.
	rewritten, refs, err := rewriter.Extract(doc.HTML, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite document: %w", err)
	}
	log.Info("references extracted", "count", len(refs))

	folderRoot := s.archiver.FolderRoot(folderName)

	failed, err := s.fetchAssets(ctx, folderRoot, refs, log)
	if err != nil {
		return nil, err
	}

	if err = s.archiver.Materialize(folderRoot, rewritten); err != nil {
		return nil, &PersistenceError{Path: folderRoot, Err: err}
	}

	archivePath, publicPath, err := s.archiver.Build(folderRoot, folderName)
	if err != nil {
		return nil, &PersistenceError{Path: folderName + ".zip", Err: err}
	}

	log.Info("clone complete",
		"archive", archivePath,
		"assets", len(refs)-len(failed),
		"failed_assets", len(failed))

	return &Result{
		Mode:              doc.Mode,
		ArchivePath:       archivePath,
		PublicArchivePath: publicPath,
		ArchiveFileName:   folderName + ".zip",
		FailedAssets:      failed,
	}, nil
}

// fetchAssets retrieves every reference concurrently with a bounded fan-out
// and waits for all of them. Fetch failures are collected, not propagated;
// filesystem failures abort the run.
func (s *Service) fetchAssets(
	ctx context.Context,
	folderRoot string,
	refs []rewriter.Asset,
	log logger.Interface,
) ([]string, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.AssetConcurrency)

	var mu sync.Mutex
	var failed []string

	for _, ref := range refs {
		group.Go(func() error {
			data, fetchErr := s.fetcher.Fetch(groupCtx, ref.RemoteURL)
			if fetchErr != nil {
				assetErr := &AssetFetchError{URL: ref.RemoteURL, Err: fetchErr}
				log.Warn("asset fetch failed, skipping", "error", assetErr)
				mu.Lock()
				failed = append(failed, ref.RemoteURL)
				mu.Unlock()
				return nil
			}

			dest := filepath.Join(folderRoot, filepath.FromSlash(ref.LocalPath))
			if saveErr := s.save(dest, data); saveErr != nil {
				return &PersistenceError{Path: dest, Err: saveErr}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(failed)
	return failed, nil
}

// lockTarget acquires the per-target mutex for folderName and returns the
// release function.
func (s *Service) lockTarget(folderName string) func() {
	s.targetsMu.Lock()
	lock, ok := s.targets[folderName]
	if !ok {
		lock = &sync.Mutex{}
		s.targets[folderName] = lock
	}
	s.targetsMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
