package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

const appDirName = "wordtrie"

// PathResolver finds config and seed files relative to the platform config
// dir, the working dir and the executable.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a resolver anchored at the running executable
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := newPathResolver(filepath.Dir(execPath), homeDir, runtime.GOOS, os.Getenv)
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

func newPathResolver(execDir, homeDir, goos string, getenv func(string) string) *PathResolver {
	return &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     configDirFor(homeDir, goos, getenv),
	}
}

// configDirFor returns the appropriate config directory for the platform
func configDirFor(homeDir, goos string, getenv func(string) string) string {
	switch goos {
	case "darwin":
		return filepath.Join(homeDir, ".config", appDirName)
	case "linux":
		if configHome := getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appDirName)
		}
		return filepath.Join(homeDir, ".config", appDirName)
	case "windows":
		if appData := getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appDirName)
	default:
		return filepath.Join(homeDir, "."+appDirName)
	}
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// GetConfigPath returns the full path for a config file.
// It falls back to other writable locations if the config dir is read-only.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	if ensureWritableDir(pr.configDir) {
		return filepath.Join(pr.configDir, filename), nil
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+appDirName),
		filepath.Join(os.TempDir(), appDirName),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if ensureWritableDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}
	return "", fmt.Errorf("no writable location for %s", filename)
}

// ResolveFile locates a user supplied file. Absolute paths are returned as
// is; relative ones are tried against the working dir, the executable dir
// and the config dir, in that order.
func (pr *PathResolver) ResolveFile(name string) (string, error) {
	if filepath.IsAbs(name) {
		if FileExists(name) {
			return name, nil
		}
		return "", fmt.Errorf("resolving %s: %w", name, os.ErrNotExist)
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, name))
	}
	candidates = append(candidates,
		filepath.Join(pr.executableDir, name),
		filepath.Join(pr.configDir, name),
	)

	for _, path := range candidates {
		if FileExists(path) {
			log.Debugf("Resolved %s to %s", name, path)
			return path, nil
		}
		log.Debugf("Candidate not found: %s", path)
	}
	return "", fmt.Errorf("resolving %s: %w", name, os.ErrNotExist)
}

// ensureWritableDir creates the directory if needed and tests writability
func ensureWritableDir(dir string) bool {
	if err := EnsureDir(dir); err != nil {
		log.Debugf("Cannot create directory %s: %v", dir, err)
		return false
	}
	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		log.Debugf("Directory %s is not writable: %v", dir, err)
		return false
	}
	os.Remove(testFile)
	return true
}
