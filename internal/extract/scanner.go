package extract

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/synclab/postsync/pkg/errors"
	"github.com/synclab/postsync/pkg/logging"
	"github.com/synclab/postsync/pkg/routes"
)

// DefaultPathPrefix is prepended to extracted paths to form the full
// path, matching how the route plugins are registered on the server.
const DefaultPathPrefix = "/api"

// defaultReceiver is the server instance route plugins register on.
const defaultReceiver = "fastify"

// Scanner finds Fastify route registrations in TypeScript source. It is
// a deliberately simple text scanner, not a parser: route sites are
// located by regex and the call is probed within its balanced-paren
// span, so multiline registrations work but exotic metaprogramming will
// not be seen.
type Scanner struct {
	receivers []string
	prefix    string
	log       *zerolog.Logger
	siteRe    *regexp.Regexp
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithReceivers overrides the identifiers route calls are expected on.
func WithReceivers(names ...string) Option {
	return func(s *Scanner) {
		if len(names) > 0 {
			s.receivers = names
		}
	}
}

// WithPathPrefix sets the prefix prepended to every extracted path.
func WithPathPrefix(prefix string) Option {
	return func(s *Scanner) { s.prefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(s *Scanner) {
		if log != nil {
			s.log = log
		}
	}
}

// New returns a Scanner ready to scan route files.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		receivers: []string{defaultReceiver},
		prefix:    DefaultPathPrefix,
		log:       logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	alts := make([]string, len(s.receivers))
	for i, r := range s.receivers {
		alts[i] = regexp.QuoteMeta(r)
	}
	s.siteRe = regexp.MustCompile(
		`\b(?:` + strings.Join(alts, "|") + `)\.(get|post|put|patch|delete|options|head)\s*\(`)
	return s
}

// ScanDir extracts routes from every .ts file directly in dir, skipping
// declaration files. Files that fail to scan are logged and skipped so
// one bad file does not hide the rest of the directory.
func (s *Scanner) ScanDir(dir string) ([]routes.Route, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".ts") || strings.HasSuffix(name, ".d.ts") {
			continue
		}
		files = append(files, name)
	}
	if len(files) == 0 {
		s.log.Warn().Str("dir", dir).Msg("No TypeScript files found")
		return []routes.Route{}, nil
	}

	s.log.Info().Str("dir", dir).Int("files", len(files)).Msg("Scanning route files")

	var all []routes.Route
	for _, name := range files {
		rts, err := s.ScanFile(filepath.Join(dir, name))
		if err != nil {
			s.log.Error().Err(err).Str("file", name).Msg("Failed to scan route file")
			continue
		}
		all = append(all, rts...)
	}

	s.log.Info().Int("routes", len(all)).Msg("Route extraction complete")
	return all, nil
}

// ScanFile extracts routes from one TypeScript file.
func (s *Scanner) ScanFile(path string) ([]routes.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	src := string(data)
	lines := strings.Split(src, "\n")
	name := filepath.Base(path)

	var rts []routes.Route
	for _, m := range s.siteRe.FindAllStringSubmatchIndex(src, -1) {
		if m[0] > 0 && src[m[0]-1] == '.' {
			// a chained x.fastify.get(...) is not a registration on
			// the receiver itself
			continue
		}
		line := lineOf(src, m[0])
		method, err := routes.ParseMethod(src[m[2]:m[3]])
		if err != nil {
			continue
		}
		args, _, ok := parenSpan(src, m[1]-1)
		if !ok {
			s.log.Warn().Str("file", name).Int("line", line).Msg("Unterminated route call")
			continue
		}
		rt, ok := s.routeFromSite(method, args, lines, line, path, name)
		if !ok {
			continue
		}
		rts = append(rts, rt)
		s.log.Debug().Str("unique_id", rt.UniqueID()).Msg("Extracted route")
	}

	s.log.Info().Str("file", name).Int("routes", len(rts)).Msg("Scanned route file")
	return rts, nil
}

// routeFromSite builds a route descriptor from the argument span of one
// call site.
func (s *Scanner) routeFromSite(method routes.Method, args string, lines []string, line int, filePath, fileName string) (routes.Route, bool) {
	parts := splitArgs(args)
	if len(parts) < 2 {
		s.log.Debug().Str("file", fileName).Int("line", line).Msg("Route call with too few arguments")
		return routes.Route{}, false
	}

	path, ok := stringLiteral(parts[0])
	if !ok {
		s.log.Warn().Str("file", fileName).Int("line", line).Msg("Route path is not a string literal")
		return routes.Route{}, false
	}

	var schema *routes.Schema
	var limit *routes.RateLimit
	protected := false
	if len(parts) >= 3 {
		if opts, ok := objectInner(parts[1]); ok {
			schema = parseSchema(opts)
			limit = parseRateLimit(opts)
			protected = hasAuthHook(opts)
		}
	}

	return routes.Route{
		Method:      method,
		Path:        path,
		FullPath:    s.prefix + path,
		HandlerName: handlerName(parts[len(parts)-1]),
		Description: jsdocAbove(lines, line-1),
		Schema:      schema,
		Metadata: &routes.Metadata{
			SourceFile:  filePath,
			SourceName:  fileName,
			SourceLine:  line,
			IsProtected: protected,
			RateLimit:   limit,
		},
	}, true
}
