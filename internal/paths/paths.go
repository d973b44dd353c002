// Package paths resolves where the backend's interpreter, entry script, static
// assets and writable data live for the current run mode.
//
// Two strategies implement Resolver:
//
//   - DevResolver walks up from the executable looking for the project root
//     (a directory holding both package.json and public/index.html).
//   - PackagedResolver looks the files up in the bundled resources directory
//     next to the executable.
//
// Neither strategy fails: anything that cannot be found falls back to a fixed
// relative path, and a missing file is only discovered when the spawn fails.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"deskhost/internal/config"
)

const (
	// maxRootHops bounds the upward search: the start directory plus five parents.
	maxRootHops = 6

	projectMarker = "package.json"
	backendDir    = "Backend"
	serverScript  = "server.js"
	publicDir     = "public"
	indexFile     = "index.html"
	resourcesDir  = "resources"

	// DefaultInterpreter is the bare command name looked up on PATH.
	DefaultInterpreter = "node"
)

// RunModeContext is the immutable set of locations the launcher works with.
type RunModeContext struct {
	InterpreterPath      string `json:"interpreter_path"`
	ServerEntryPath      string `json:"server_entry_path"`
	WorkingDirectory     string `json:"working_directory"`
	StaticAssetDirectory string `json:"static_asset_directory"`
	UserDataDirectory    string `json:"user_data_directory"`
}

// Resolver produces a RunModeContext. The only side effect allowed is creating
// the user data directory.
type Resolver interface {
	Resolve() RunModeContext
}

var (
	executablePath = os.Executable
	workingDir     = os.Getwd
	userConfigDir  = os.UserConfigDir
	mkdirAll       = os.MkdirAll
)

// ForMode picks the strategy for a config.RunMode* value. Unknown modes resolve
// as packaged.
func ForMode(mode, appID, resources string) Resolver {
	if mode == config.RunModeDevelopment {
		return DevResolver{AppID: appID}
	}
	return PackagedResolver{AppID: appID, ResourcesDir: resources}
}

// FromConfig is ForMode driven by a loaded config.
func FromConfig(cfg config.Config) Resolver {
	return ForMode(cfg.RunMode, cfg.AppID, cfg.ResourcesDir)
}

// DevResolver resolves paths relative to the discovered project root.
type DevResolver struct {
	AppID string
	// StartDir overrides the executable's directory as the search start.
	StartDir string
}

// Resolve implements Resolver.
func (r DevResolver) Resolve() RunModeContext {
	start := r.StartDir
	if start == "" {
		start = executableDir()
	}

	root, ok := "", false
	if start != "" {
		root, ok = FindProjectRoot(start)
	}
	if !ok {
		root = currentDir()
	}

	interpreter := DefaultInterpreter
	if local := filepath.Join(root, interpreterFileName()); fileExists(local) {
		interpreter = local
	}

	return RunModeContext{
		InterpreterPath:      interpreter,
		ServerEntryPath:      filepath.Join(root, backendDir, serverScript),
		WorkingDirectory:     root,
		StaticAssetDirectory: filepath.Join(root, publicDir),
		UserDataDirectory:    UserDataDir(r.AppID, root),
	}
}

// PackagedResolver resolves paths from the bundled resources directory.
type PackagedResolver struct {
	AppID string
	// ResourcesDir overrides <executable dir>/resources.
	ResourcesDir string
}

// Resolve implements Resolver.
func (r PackagedResolver) Resolve() RunModeContext {
	res := r.ResourcesDir
	if res == "" {
		if dir := executableDir(); dir != "" {
			res = filepath.Join(dir, resourcesDir)
		}
	}

	interpreter, ok := resource(res, interpreterFileName())
	if !ok {
		interpreter = interpreterFileName()
	}
	entry, ok := resource(res, filepath.Join(backendDir, serverScript))
	if !ok {
		// Kept relative on purpose. The child runs with Dir = "Backend", so the
		// interpreter looks for Backend/Backend/server.js and the spawn or the
		// backend fails later, where the error is reported.
		entry = filepath.Join(backendDir, serverScript)
	}

	work := filepath.Dir(entry)
	if work == "" {
		work = "."
	}

	assets, ok := resource(res, publicDir)
	if !ok {
		assets = filepath.Join(work, publicDir)
	}

	return RunModeContext{
		InterpreterPath:      interpreter,
		ServerEntryPath:      entry,
		WorkingDirectory:     work,
		StaticAssetDirectory: assets,
		UserDataDirectory:    UserDataDir(r.AppID, work),
	}
}

// FindProjectRoot walks from start towards the filesystem root and returns the
// first directory holding both package.json and public/index.html. The walk is
// bounded to maxRootHops directories.
func FindProjectRoot(start string) (string, bool) {
	cur := start
	for i := 0; i < maxRootHops; i++ {
		if isProjectRoot(cur) {
			return cur, true
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return "", false
}

func isProjectRoot(dir string) bool {
	return fileExists(filepath.Join(dir, projectMarker)) &&
		fileExists(filepath.Join(dir, publicDir, indexFile))
}

// UserDataDir returns <user config dir>/<appID>, creating it. When the platform
// location is unknown or cannot be created, fallback is used instead.
func UserDataDir(appID, fallback string) string {
	base, err := userConfigDir()
	if err != nil || base == "" || appID == "" {
		ensureDir(fallback)
		return fallback
	}
	dir := filepath.Join(base, appID)
	if err := mkdirAll(dir, 0o755); err != nil {
		ensureDir(fallback)
		return fallback
	}
	return dir
}

func ensureDir(dir string) {
	_ = mkdirAll(dir, 0o755)
}

func resource(base, name string) (string, bool) {
	if base == "" {
		return "", false
	}
	p := filepath.Join(base, name)
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

func executableDir() string {
	exe, err := executablePath()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func currentDir() string {
	if wd, err := workingDir(); err == nil && wd != "" {
		return wd
	}
	return "."
}

func interpreterFileName() string {
	if runtime.GOOS == "windows" {
		return DefaultInterpreter + ".exe"
	}
	return DefaultInterpreter
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
