package postsync

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/synclab/postsync/internal/gitstage"
	"github.com/synclab/postsync/pkg/collection"
	"github.com/synclab/postsync/pkg/errors"
	"github.com/synclab/postsync/pkg/reconcile"
)

// SyncOptions configures a single Sync run.
type SyncOptions struct {
	DryRun  bool // Merge and report without writing, pushing or staging
	NoPush  bool // Skip the remote push even when configured
	NoStage bool // Skip git staging even when enabled
}

// SyncOption is a function that configures sync options.
type SyncOption func(*SyncOptions)

// NewSyncOptions creates SyncOptions with defaults.
func NewSyncOptions(opts ...SyncOption) *SyncOptions {
	options := &SyncOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithDryRun merges and reports without writing, pushing or staging.
func WithDryRun() SyncOption {
	return func(opts *SyncOptions) { opts.DryRun = true }
}

// WithNoPush skips the remote push for this run.
func WithNoPush() SyncOption {
	return func(opts *SyncOptions) { opts.NoPush = true }
}

// WithNoStage skips git staging for this run.
func WithNoStage() SyncOption {
	return func(opts *SyncOptions) { opts.NoStage = true }
}

// Sync runs the full pipeline: load the document, scan the route files,
// merge, persist, then hand the file to the remote and the git index as
// configured. The returned changeset reports what changed even when the
// run ends in an error after the merge.
func (s *syncer) Sync(ctx context.Context, opts ...SyncOption) (*reconcile.Changeset, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Parse options
	options := NewSyncOptions(opts...)

	// Step 2: Load the persisted document
	doc, err := collection.Read(s.collectionFile)
	if err != nil {
		return nil, errors.NewSyncError("load", err)
	}

	// Step 3: Scan the route files
	rts, err := s.scanner.ScanDir(s.routesDir)
	if err != nil {
		return nil, errors.NewSyncError("scan", err)
	}
	s.log.Info().Int("routes", len(rts)).Str("dir", s.routesDir).Msg("Routes extracted")

	// Step 4: Merge the routes into the document. A merge error leaves
	// the file untouched.
	merger := reconcile.New(
		reconcile.WithRetention(s.retention),
		reconcile.WithClock(s.clock),
		reconcile.WithLogger(s.log),
	)
	cs, err := merger.Merge(doc, rts)
	if err != nil {
		return nil, errors.NewSyncError("merge", err)
	}
	s.setDocument(doc)

	// Step 5: Fire event hooks from the changeset
	s.hooks.fire(cs)

	// Step 6: Dry run stops before any write
	if options.DryRun {
		s.log.Info().Bool("dry_run", true).Msg("Dry run completed - no changes applied")
		return cs, s.escalate(cs)
	}

	// Step 7: Nothing material changed, leave the file alone
	if !cs.HasChanges() {
		s.log.Info().Msg("No changes detected")
		return cs, s.escalate(cs)
	}

	// Step 8: Write the document atomically
	if err := doc.Write(s.collectionFile); err != nil {
		return cs, errors.NewSyncError("write", err)
	}
	s.log.Info().Str("file", s.collectionFile).Msg("Collection written")

	// Step 9: Push to the remote when configured
	if s.shouldPush(options) {
		if err := s.push(ctx, doc); err != nil {
			return cs, errors.NewSyncError("push", err)
		}
	}

	// Step 10: Stage the file when enabled
	if s.shouldStage(options) {
		if err := s.stage(); err != nil {
			return cs, errors.NewSyncError("stage", err)
		}
	}

	s.log.Info().
		Int("added", len(cs.Added)).
		Int("updated", len(cs.Updated)).
		Int("deprecated", len(cs.Deprecated)).
		Int("removed", len(cs.Removed)).
		Msg("Sync completed")

	return cs, s.escalate(cs)
}

// escalate converts recoverable merge errors into a failure when the
// configuration demands it. The document has already been written by
// the time this runs, so the merge itself is never lost.
func (s *syncer) escalate(cs *reconcile.Changeset) error {
	if !s.cfg.FailOnError || !cs.HasErrors() {
		return nil
	}
	return errors.NewSyncError("merge", errors.Errorf(
		"%d recoverable errors: %s", len(cs.Errors), strings.Join(cs.Errors, "; ")))
}

// shouldPush reports whether this run pushes the document to the remote.
func (s *syncer) shouldPush(options *SyncOptions) bool {
	return !options.NoPush && s.cfg.AutoPush && s.client != nil && s.cfg.CollectionID != ""
}

// push replaces the remote collection with the freshly written document.
func (s *syncer) push(ctx context.Context, doc *collection.Document) error {
	if err := s.client.UpdateCollection(ctx, s.cfg.CollectionID, doc); err != nil {
		return err
	}
	s.log.Info().Str("collection_id", s.cfg.CollectionID).Msg("Collection pushed")
	return nil
}

// shouldStage reports whether this run stages the file in git.
func (s *syncer) shouldStage(options *SyncOptions) bool {
	return !options.NoStage && s.cfg.AutoStage
}

// stage adds the written file to the git index. Running outside a
// repository is a skip, not a failure.
func (s *syncer) stage() error {
	stager := s.stager
	if stager == nil {
		opened, err := gitstage.Open(filepath.Dir(s.collectionFile), gitstage.WithLogger(s.log))
		if err != nil {
			if errors.Is(err, errors.ErrNotRepository) {
				s.log.Debug().Str("file", s.collectionFile).Msg("Not a git repository, skipping stage")
				return nil
			}
			return err
		}
		stager = opened
	}
	if err := stager.Stage(s.collectionFile); err != nil {
		return err
	}
	s.log.Info().Str("file", s.collectionFile).Msg("Collection staged")
	return nil
}
