// Package postsync keeps a persisted Postman collection in step with the
// Fastify routes declared in a TypeScript codebase. It scans the route
// files, merges the extracted descriptors into the collection document
// while preserving hand-written edits, and optionally pushes the result
// to the Postman API and stages it in git.
//
// Postsync wraps the scan and merge machinery with additional features:
// - Non-destructive description updates guarded by sync markers
// - Deprecation and retention-based expiry for routes that vanish
// - Event hooks for route changes (added, updated, deprecated, removed)
// - Remote push and git staging after each successful write
// - Flexible configuration through functional options
//
// Example usage:
//
//	// Create a syncer from environment configuration
//	s, err := postsync.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Register event hooks
//	s, err = postsync.New(postsync.WithHooks(postsync.Hooks{
//	    OnAdded: func(rt routes.Route) {
//	        log.Printf("New route: %s", rt.UniqueID())
//	    },
//	}))
//
//	// Run the full pipeline
//	cs, err := s.Sync(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cs.Summary())
//
//	// Preview without touching the file
//	cs, err = s.Sync(ctx, postsync.WithDryRun())
//
//	// Configure explicitly instead of from the environment
//	s, err = postsync.New(
//	    postsync.WithRoutesDir("./src/routes"),
//	    postsync.WithCollectionFile("./postman/api.postman_collection.json"),
//	    postsync.WithRetentionDays(14),
//	)
package postsync

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/synclab/postsync/internal/config"
	"github.com/synclab/postsync/internal/extract"
	"github.com/synclab/postsync/internal/gitstage"
	"github.com/synclab/postsync/internal/postman"
	"github.com/synclab/postsync/pkg/collection"
	"github.com/synclab/postsync/pkg/errors"
	"github.com/synclab/postsync/pkg/reconcile"
	"github.com/synclab/postsync/pkg/routes"
)

// Compile-time interface check to ensure proper implementation.
var _ Syncer = (*syncer)(nil)

// Syncer keeps a collection document in step with extracted routes.
type Syncer interface {

	// Sync runs the pipeline once and reports what changed
	Sync(ctx context.Context, opts ...SyncOption) (*reconcile.Changeset, error)

	// Routes scans the routes directory without touching the document
	Routes(ctx context.Context) ([]routes.Route, error)

	// Validate checks configuration, document and working tree,
	// reporting every failed check at once
	Validate(ctx context.Context) error

	// Document returns a copy of the last loaded document, or nil
	// before the first Sync
	Document() *collection.Document
}

// RemoteClient is the surface of the Postman API the syncer needs: fetch
// a collection document and replace it wholesale.
type RemoteClient interface {
	FetchCollection(ctx context.Context, id string) (*collection.Document, error)
	UpdateCollection(ctx context.Context, id string, doc *collection.Document) error
}

// Stager adds written files to the revision control index.
type Stager interface {
	Stage(paths ...string) error
}

// Scanner extracts route descriptors from a directory of source files.
type Scanner interface {
	ScanDir(dir string) ([]routes.Route, error)
}

// syncer is the internal implementation of the Syncer interface.
type syncer struct {

	// resolved configuration
	cfg            *config.Config
	routesDir      string
	collectionFile string
	retention      time.Duration

	// collaborators
	client  RemoteClient
	stager  Stager
	scanner Scanner
	clock   func() utc.Time
	hooks   *hooks
	log     *zerolog.Logger

	// last loaded document
	mu  sync.RWMutex
	doc *collection.Document
}

// New creates a new Syncer with the given options. Settings not covered
// by an option fall back to the loaded configuration, which in turn
// falls back to the environment and its defaults.
func New(opts ...Option) (Syncer, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	cfg := o.cfg
	if cfg == nil {
		if cfg, err = config.Load(""); err != nil {
			return nil, err
		}
	}

	s := &syncer{
		cfg:            cfg,
		routesDir:      cfg.RoutesDir,
		collectionFile: cfg.CollectionFile,
		retention:      cfg.Retention(),
		client:         o.client,
		stager:         o.stager,
		scanner:        o.scanner,
		clock:          o.clock,
		hooks:          newHooks(o.hooks...),
		log:            o.log,
	}

	// specific options win over the config
	if o.routesDir != "" {
		s.routesDir = o.routesDir
	}
	if o.collectionFile != "" {
		s.collectionFile = o.collectionFile
	}
	if o.retention > 0 {
		s.retention = o.retention
	}

	if s.scanner == nil {
		s.scanner = extract.New(extract.WithLogger(s.log))
	}
	if s.client == nil && cfg.APIKey != "" {
		s.client = postman.New(cfg.APIKey, postman.WithLogger(s.log))
	}

	return s, nil
}

// Routes scans the routes directory and returns the extracted
// descriptors. The document is not loaded or modified.
func (s *syncer) Routes(ctx context.Context) ([]routes.Route, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scanner.ScanDir(s.routesDir)
}

// Document returns a copy of the last loaded collection document. The
// copy is safe to inspect and mutate without affecting the syncer. It
// returns nil before the first Sync.
func (s *syncer) Document() *collection.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil
	}
	data, err := s.doc.Encode()
	if err != nil {
		return nil
	}
	doc, err := collection.Decode(data)
	if err != nil {
		return nil
	}
	return doc
}

// setDocument records the working document after a merge.
func (s *syncer) setDocument(doc *collection.Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}

// Validate checks that a Sync run could succeed: configuration rules
// hold, the routes directory exists, the collection file parses and is
// well formed, and staging has a repository to work with. Every failed
// check is reported, joined into one error.
func (s *syncer) Validate(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var errs []error

	// validate the effective paths, not the config's originals
	cfg := *s.cfg
	cfg.RoutesDir = s.routesDir
	cfg.CollectionFile = s.collectionFile
	if err := cfg.Validate(s.requireRemote()); err != nil {
		errs = append(errs, err)
	}

	doc, err := collection.Read(s.collectionFile)
	if err != nil {
		errs = append(errs, err)
	} else if err := doc.Validate(); err != nil {
		errs = append(errs, err)
	}

	if s.cfg.AutoStage && s.stager == nil {
		if dir := filepath.Dir(s.collectionFile); !gitstage.IsRepo(dir) {
			errs = append(errs, errors.Errorf("%w: %s", errors.ErrNotRepository, dir))
		}
	}

	return errors.Join(errs...)
}

// requireRemote reports whether the remote settings must validate: push
// is enabled and at least one remote credential is present. A purely
// local setup with push on but nothing configured is left alone, since
// Sync will quietly skip the push.
func (s *syncer) requireRemote() bool {
	return s.cfg.AutoPush && (s.cfg.APIKey != "" || s.cfg.CollectionID != "")
}
