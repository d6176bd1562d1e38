package gitstage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/synclab/postsync/pkg/errors"
)

// hookMarker identifies hooks generated by this tool. Install and
// uninstall refuse to touch a pre-commit hook that does not carry it.
const hookMarker = "# postsync pre-commit hook"

// hookScript is the generated pre-commit hook. The marker sits right
// under the shebang. Substitutions: marker, routes dir, collection file.
const hookScript = `#!/bin/bash
%s

# Check if route files are staged
ROUTE_FILES=$(git diff --cached --name-only | grep '%s/.*\.ts$' || true)

if [ -z "$ROUTE_FILES" ]; then
    # No route files changed, skip sync
    exit 0
fi

echo "🔄 Postman collection sync: Route files changed, syncing..."

if ! postsync sync; then
    echo ""
    echo "❌ ERROR: Postman sync failed. Commit aborted."
    echo "Fix errors and try again, or run with --no-verify to skip."
    exit 1
fi

# Pick up the refreshed collection file
git add '%s'

echo "✅ Postman collection synced successfully"
exit 0
`

// InstallHook writes the pre-commit hook. An existing hook that was not
// generated by postsync is only overwritten when force is set.
func (s *Stager) InstallHook(force bool) error {
	dir, err := s.hooksDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	path := filepath.Join(dir, "pre-commit")
	if data, err := os.ReadFile(path); err == nil {
		if !strings.Contains(string(data), hookMarker) && !force {
			return errors.NewProcessError("install hook", path, "",
				errors.New("existing pre-commit hook was not generated by postsync (use force to overwrite)"))
		}
	} else if !os.IsNotExist(err) {
		return errors.WrapIO("read", path, err)
	}

	script := fmt.Sprintf(hookScript, hookMarker, s.routesDir, s.collectionFile)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return errors.WrapIO("write", path, err)
	}
	// WriteFile only applies the mode on create; an overwritten hook must
	// still end up executable.
	if err := os.Chmod(path, 0o755); err != nil {
		return errors.WrapIO("chmod", path, err)
	}

	s.log.Info().Str("path", path).Msg("Installed pre-commit hook")
	return nil
}

// UninstallHook removes the generated pre-commit hook. A missing hook is
// not an error; a foreign hook is left alone.
func (s *Stager) UninstallHook() error {
	dir, err := s.hooksDir()
	if err != nil {
		return err
	}

	path := filepath.Join(dir, "pre-commit")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.log.Warn().Str("path", path).Msg("Hook not found")
		return nil
	}
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	if !strings.Contains(string(data), hookMarker) {
		return errors.NewProcessError("uninstall hook", path, "",
			errors.New("pre-commit hook was not generated by postsync"))
	}

	if err := os.Remove(path); err != nil {
		return errors.WrapIO("delete", path, err)
	}

	s.log.Info().Str("path", path).Msg("Removed pre-commit hook")
	return nil
}

// HookInstalled reports whether the generated pre-commit hook is in place.
func (s *Stager) HookInstalled() bool {
	dir, err := s.hooksDir()
	if err != nil {
		return false
	}
	data, err := os.ReadFile(filepath.Join(dir, "pre-commit"))
	return err == nil && strings.Contains(string(data), hookMarker)
}

// hooksDir resolves the hooks directory, following the gitdir pointer
// file that linked worktrees and submodules use in place of a .git
// directory.
func (s *Stager) hooksDir() (string, error) {
	gitPath := filepath.Join(s.root, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return "", errors.WrapIO("stat", gitPath, err)
	}
	if info.IsDir() {
		return filepath.Join(gitPath, "hooks"), nil
	}

	data, err := os.ReadFile(gitPath)
	if err != nil {
		return "", errors.WrapIO("read", gitPath, err)
	}
	gitDir := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(data)), "gitdir:"))
	if gitDir == "" {
		return "", errors.NewProcessError("resolve hooks", gitPath, "",
			errors.New("missing gitdir pointer"))
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(s.root, gitDir)
	}
	return filepath.Join(gitDir, "hooks"), nil
}
