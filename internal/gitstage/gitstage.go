package gitstage

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"

	"github.com/synclab/postsync/pkg/errors"
	"github.com/synclab/postsync/pkg/logging"
)

// Defaults for the paths baked into the generated pre-commit hook.
const (
	DefaultRoutesDir      = "src/routes"
	DefaultCollectionFile = "postman/api.postman_collection.json"
)

// Stager wraps a git worktree for the two repository operations the sync
// pipeline needs: staging the collection file after a write, and managing
// the pre-commit hook.
type Stager struct {
	repo *git.Repository
	wt   *git.Worktree
	root string

	routesDir      string
	collectionFile string
	log            *zerolog.Logger
}

// Option configures a Stager.
type Option func(*Stager)

// WithRoutesDir sets the route directory referenced by the generated
// pre-commit hook.
func WithRoutesDir(dir string) Option {
	return func(s *Stager) {
		if dir != "" {
			s.routesDir = filepath.ToSlash(filepath.Clean(dir))
		}
	}
}

// WithCollectionFile sets the collection file re-staged by the generated
// pre-commit hook.
func WithCollectionFile(path string) Option {
	return func(s *Stager) {
		if path != "" {
			s.collectionFile = filepath.ToSlash(filepath.Clean(path))
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(s *Stager) {
		if log != nil {
			s.log = log
		}
	}
}

// Open locates the git repository containing dir, walking up parent
// directories the way git itself does.
func Open(dir string, opts ...Option) (*Stager, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Errorf("%w: %s", errors.ErrNotRepository, dir)
		}
		return nil, errors.NewProcessError("open repository", dir, "", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.NewProcessError("open worktree", dir, "", err)
	}

	s := &Stager{
		repo:           repo,
		wt:             wt,
		root:           wt.Filesystem.Root(),
		routesDir:      DefaultRoutesDir,
		collectionFile: DefaultCollectionFile,
		log:            logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// IsRepo reports whether dir is inside a git repository.
func IsRepo(dir string) bool {
	_, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}

// Root returns the worktree root directory.
func (s *Stager) Root() string {
	return s.root
}

// Stage adds the given files to the index. Absolute paths must lie inside
// the worktree; relative paths are taken as worktree-relative.
func (s *Stager) Stage(paths ...string) error {
	if len(paths) == 0 {
		s.log.Debug().Msg("No files to stage")
		return nil
	}

	for _, path := range paths {
		rel, err := s.relPath(path)
		if err != nil {
			return err
		}
		if _, err := s.wt.Add(rel); err != nil {
			return errors.NewProcessError("stage", rel, "", err)
		}
		s.log.Debug().Str("file", rel).Msg("Staged file")
	}

	s.log.Info().Int("files", len(paths)).Msg("Staged files")
	return nil
}

// FileStatus reports how one file stands against the index.
type FileStatus struct {
	Staged    bool // index differs from HEAD
	Modified  bool // worktree differs from index
	Untracked bool
}

// Status reports the staging state of a single file. A clean tracked file
// reports the zero value.
func (s *Stager) Status(path string) (FileStatus, error) {
	rel, err := s.relPath(path)
	if err != nil {
		return FileStatus{}, err
	}

	st, err := s.wt.Status()
	if err != nil {
		return FileStatus{}, errors.NewProcessError("status", s.root, "", err)
	}

	fs, ok := st[rel]
	if !ok {
		return FileStatus{}, nil
	}
	return FileStatus{
		Staged:    fs.Staging != git.Unmodified && fs.Staging != git.Untracked,
		Modified:  fs.Worktree != git.Unmodified && fs.Worktree != git.Untracked,
		Untracked: fs.Worktree == git.Untracked,
	}, nil
}

// relPath converts path into the slash-separated worktree-relative form
// the go-git index operations expect.
func (s *Stager) relPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path)), nil
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.NewProcessError("stage", path, "",
			errors.New("path is outside the repository"))
	}
	return filepath.ToSlash(rel), nil
}
