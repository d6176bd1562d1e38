package postsync

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/synclab/postsync/internal/config"
	"github.com/synclab/postsync/pkg/collection"
	"github.com/synclab/postsync/pkg/errors"
)

var syncInstant = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testClock() utc.Time {
	return utc.New(syncInstant)
}

// usersTS is a route file in the shape the extractor expects: one
// documented public route and one protected route.
const usersTS = `/**
 * List all users.
 */
fastify.get('/users', listUsers);

fastify.post('/users', { preHandler: [authVerifyHook] }, createUser);
`

// newWorkspace lays out a routes directory and an empty collection file
// the way a project using the tool would, and returns a config pointing
// at them. Staging and pushing start disabled so tests opt in.
func newWorkspace(t *testing.T) (cfg *config.Config, routesDir, collectionFile string) {
	t.Helper()
	dir := t.TempDir()

	routesDir = filepath.Join(dir, "src", "routes")
	if err := os.MkdirAll(routesDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", routesDir, err)
	}

	collectionFile = filepath.Join(dir, "postman", "api.postman_collection.json")
	if err := os.MkdirAll(filepath.Dir(collectionFile), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(collectionFile), err)
	}
	if err := collection.New("Test API", "").Write(collectionFile); err != nil {
		t.Fatalf("write collection: %v", err)
	}

	cfg = &config.Config{
		RoutesDir:       routesDir,
		CollectionFile:  collectionFile,
		DeprecationDays: 30,
		FailOnError:     true,
		LogLevel:        "info",
	}
	return cfg, routesDir, collectionFile
}

func writeRoutes(t *testing.T, routesDir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(routesDir, name), []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// newTestSyncer builds a syncer with a pinned clock and a silent logger.
func newTestSyncer(t *testing.T, cfg *config.Config, opts ...Option) Syncer {
	t.Helper()
	nop := zerolog.Nop()
	opts = append([]Option{WithConfig(cfg), WithClock(testClock), WithLogger(&nop)}, opts...)
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewDefaultsFromConfig(t *testing.T) {
	cfg, routesDir, collectionFile := newWorkspace(t)
	s := newTestSyncer(t, cfg)

	sc := s.(*syncer)
	if sc.routesDir != routesDir {
		t.Errorf("routesDir = %q, want %q", sc.routesDir, routesDir)
	}
	if sc.collectionFile != collectionFile {
		t.Errorf("collectionFile = %q, want %q", sc.collectionFile, collectionFile)
	}
	if want := 30 * 24 * time.Hour; sc.retention != want {
		t.Errorf("retention = %v, want %v", sc.retention, want)
	}
	if sc.scanner == nil {
		t.Error("expected a default scanner")
	}
	if sc.client != nil {
		t.Error("expected no client without an API key")
	}
}

func TestNewBuildsClientFromAPIKey(t *testing.T) {
	cfg, _, _ := newWorkspace(t)
	cfg.APIKey = "PMAK-0123456789abcdef"
	s := newTestSyncer(t, cfg)

	if s.(*syncer).client == nil {
		t.Error("expected a client when the API key is set")
	}
}

func TestNewOptionOverrides(t *testing.T) {
	cfg, _, _ := newWorkspace(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "other.json")

	s := newTestSyncer(t, cfg,
		WithRoutesDir(dir),
		WithCollectionFile(file),
		WithRetentionDays(7),
	)

	sc := s.(*syncer)
	if sc.routesDir != dir {
		t.Errorf("routesDir = %q, want %q", sc.routesDir, dir)
	}
	if sc.collectionFile != file {
		t.Errorf("collectionFile = %q, want %q", sc.collectionFile, file)
	}
	if want := 7 * 24 * time.Hour; sc.retention != want {
		t.Errorf("retention = %v, want %v", sc.retention, want)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"nil config", WithConfig(nil)},
		{"empty routes dir", WithRoutesDir("")},
		{"empty collection file", WithCollectionFile("")},
		{"zero retention", WithRetentionDays(0)},
		{"negative retention", WithRetentionDays(-3)},
		{"nil client", WithClient(nil)},
		{"nil stager", WithStager(nil)},
		{"nil scanner", WithScanner(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.IsValidationError(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestRoutesScansWithoutDocument(t *testing.T) {
	cfg, routesDir, collectionFile := newWorkspace(t)
	writeRoutes(t, routesDir, "users.ts", usersTS)
	if err := os.Remove(collectionFile); err != nil {
		t.Fatal(err)
	}
	s := newTestSyncer(t, cfg)

	rts, err := s.Routes(context.Background())
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if len(rts) != 2 {
		t.Fatalf("routes = %d, want 2", len(rts))
	}
	if rts[0].UniqueID() != "GET:/api/users" {
		t.Errorf("first route = %q, want GET:/api/users", rts[0].UniqueID())
	}
	if rts[0].Description != "List all users." {
		t.Errorf("description = %q", rts[0].Description)
	}
	if !rts[1].IsProtected() {
		t.Error("second route should be protected")
	}

	if s.Document() != nil {
		t.Error("Document should be nil before the first sync")
	}
}

func TestDocumentReturnsDeepCopy(t *testing.T) {
	cfg, routesDir, _ := newWorkspace(t)
	writeRoutes(t, routesDir, "users.ts", usersTS)
	s := newTestSyncer(t, cfg)

	if _, err := s.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	d1 := s.Document()
	if d1 == nil {
		t.Fatal("Document is nil after sync")
	}
	d1.Info.Name = "Mutated"

	d2 := s.Document()
	if d2.Info.Name != "Test API" {
		t.Errorf("mutating a copy leaked into the syncer: name = %q", d2.Info.Name)
	}
}

func TestValidatePasses(t *testing.T) {
	cfg, _, _ := newWorkspace(t)
	s := newTestSyncer(t, cfg)

	if err := s.Validate(context.Background()); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateMissingCollectionFile(t *testing.T) {
	cfg, _, collectionFile := newWorkspace(t)
	if err := os.Remove(collectionFile); err != nil {
		t.Fatal(err)
	}
	s := newTestSyncer(t, cfg)

	err := s.Validate(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), collectionFile) {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestValidateMalformedDocument(t *testing.T) {
	cfg, _, collectionFile := newWorkspace(t)
	if err := os.WriteFile(collectionFile, []byte(`{"item": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestSyncer(t, cfg)

	err := s.Validate(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "info") {
		t.Errorf("error should report the missing info block: %v", err)
	}
}

func TestValidateRemoteSettings(t *testing.T) {
	cfg, _, _ := newWorkspace(t)
	cfg.AutoPush = true
	cfg.APIKey = "WRONG-0123456789abcdef"
	s := newTestSyncer(t, cfg)

	err := s.Validate(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "PMAK-") {
		t.Errorf("error should report the key prefix rule: %v", err)
	}
	if !strings.Contains(err.Error(), "POSTMAN_COLLECTION_ID") {
		t.Errorf("error should report the missing collection id: %v", err)
	}
}

func TestValidateSkipsRemoteWhenUnconfigured(t *testing.T) {
	cfg, _, _ := newWorkspace(t)
	cfg.AutoPush = true // nothing else remote is set
	s := newTestSyncer(t, cfg)

	if err := s.Validate(context.Background()); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRequiresRepoWhenStaging(t *testing.T) {
	cfg, _, _ := newWorkspace(t)
	cfg.AutoStage = true
	s := newTestSyncer(t, cfg)

	err := s.Validate(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, errors.ErrNotRepository) {
		t.Errorf("expected ErrNotRepository, got %v", err)
	}
}

func TestValidateInjectedStagerSkipsRepoCheck(t *testing.T) {
	cfg, _, _ := newWorkspace(t)
	cfg.AutoStage = true
	s := newTestSyncer(t, cfg, WithStager(&fakeStager{}))

	if err := s.Validate(context.Background()); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateCancelledContext(t *testing.T) {
	cfg, _, _ := newWorkspace(t)
	s := newTestSyncer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Validate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
