package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "jotter"

// GetDefaultDataDir returns the system-appropriate directory for jotter's data.
func GetDefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(homeDir, "AppData", "Roaming", appName)
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", appName)
	default: // Primarily Linux, but also other UNIX-like systems.
		return filepath.Join(homeDir, ".local", "share", appName)
	}
}

// GetDefaultDBPathOnly returns the default SQLite database path.
func GetDefaultDBPathOnly() string {
	return filepath.Join(GetDefaultDataDir(), appName+".db")
}

// GetDefaultStateDir returns the default directory for the file driver.
func GetDefaultStateDir() string {
	return filepath.Join(GetDefaultDataDir(), "state")
}

// GetDefaultConfigPath returns the default config file location.
func GetDefaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName, "config.yaml")
	}
	return filepath.Join(GetDefaultDataDir(), "config.yaml")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory to expand path '%s': %w", path, err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}

// ResolveAndEnsureDBPath makes providedPath absolute (falling back to the
// default database path) and creates its parent directory.
func ResolveAndEnsureDBPath(providedPath string) (string, error) {
	targetPath := providedPath
	if targetPath == "" {
		targetPath = GetDefaultDBPathOnly()
	}

	targetPath, err := ExpandHome(targetPath)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", targetPath, err)
	}
	targetPath = absPath

	dbDir := filepath.Dir(targetPath)
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory '%s' for database: %w", dbDir, err)
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat directory '%s' for database: %w", dbDir, err)
	}

	return targetPath, nil
}

// ResolveStateDir makes providedDir absolute, falling back to the default
// state directory. The directory itself is created by the file store.
func ResolveStateDir(providedDir string) (string, error) {
	targetDir := providedDir
	if targetDir == "" {
		targetDir = GetDefaultStateDir()
	}

	targetDir, err := ExpandHome(targetDir)
	if err != nil {
		return "", err
	}

	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", targetDir, err)
	}
	return absDir, nil
}
