package postsync

import (
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/synclab/postsync/internal/config"
	"github.com/synclab/postsync/pkg/errors"
	"github.com/synclab/postsync/pkg/logging"
)

// options holds the resolved construction settings for a syncer.
type options struct {
	cfg            *config.Config
	routesDir      string
	collectionFile string
	retention      time.Duration
	client         RemoteClient
	stager         Stager
	scanner        Scanner
	clock          func() utc.Time
	log            *zerolog.Logger
	hooks          []Hooks
}

func defaultOptions() *options {
	return &options{
		clock: utc.Now,
		log:   logging.Default(),
	}
}

// Option is a function that configures a Syncer.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns syncer options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithConfig sets the loaded configuration. Paths and retention taken
// from the config can still be overridden by the more specific options.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return &errors.ValidationError{
				Field:   "config",
				Message: "cannot be nil",
			}
		}
		o.cfg = cfg
		return nil
	}
}

// WithRoutesDir sets the directory scanned for route files.
func WithRoutesDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return &errors.ValidationError{
				Field:   "routes_dir",
				Message: "cannot be empty",
			}
		}
		o.routesDir = dir
		return nil
	}
}

// WithCollectionFile sets the path of the persisted collection document.
func WithCollectionFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return &errors.ValidationError{
				Field:   "collection_file",
				Message: "cannot be empty",
			}
		}
		o.collectionFile = path
		return nil
	}
}

// WithRetentionDays sets how long deprecated entries are kept before
// expiry removes them.
func WithRetentionDays(days int) Option {
	return func(o *options) error {
		if days < 1 {
			return &errors.ValidationError{
				Field:   "retention_days",
				Value:   days,
				Message: "must be at least 1",
			}
		}
		o.retention = time.Duration(days) * 24 * time.Hour
		return nil
	}
}

// WithClient sets the remote API client used for pushes.
func WithClient(c RemoteClient) Option {
	return func(o *options) error {
		if c == nil {
			return &errors.ValidationError{
				Field:   "client",
				Message: "cannot be nil",
			}
		}
		o.client = c
		return nil
	}
}

// WithStager sets the stager that adds the written collection file to
// the git index.
func WithStager(s Stager) Option {
	return func(o *options) error {
		if s == nil {
			return &errors.ValidationError{
				Field:   "stager",
				Message: "cannot be nil",
			}
		}
		o.stager = s
		return nil
	}
}

// WithScanner sets the route scanner.
func WithScanner(s Scanner) Option {
	return func(o *options) error {
		if s == nil {
			return &errors.ValidationError{
				Field:   "scanner",
				Message: "cannot be nil",
			}
		}
		o.scanner = s
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(o *options) error {
		if log != nil {
			o.log = log
		}
		return nil
	}
}

// WithClock sets the time source, letting tests pin the sync instant.
func WithClock(now func() utc.Time) Option {
	return func(o *options) error {
		if now != nil {
			o.clock = now
		}
		return nil
	}
}

// WithHooks registers event callbacks fired after each merge. The
// option can be given multiple times; all registered sets fire.
func WithHooks(h Hooks) Option {
	return func(o *options) error {
		o.hooks = append(o.hooks, h)
		return nil
	}
}
