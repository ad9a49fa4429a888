package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	OriginalDir   string
	ProcessedDir  string
	LogsDir       string

	// Input files
	FlowsCSV          string
	ClassificationCSV string

	// Well-known output files
	DBReadyCSV string
}

// GetPaths returns the application paths relative to the executable location
// All paths are ALWAYS relative to the executable directory, never the current working directory
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return PathsFromBase(filepath.Dir(exe)), nil
}

// PathsFromBase builds the path set rooted at the given base directory.
// Directory structure:
//
//	base/
//	  ├── data/
//	  │   ├── m49.csv             (regional classification table)
//	  │   ├── original/           (raw migration flow CSV)
//	  │   └── processed/          (generated JSON/CSV artifacts)
//	  └── logs/                   (application logs)
func PathsFromBase(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	originalDir := filepath.Join(dataDir, "original")
	processedDir := filepath.Join(dataDir, "processed")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		OriginalDir:   originalDir,
		ProcessedDir:  processedDir,
		LogsDir:       filepath.Join(baseDir, "logs"),

		FlowsCSV:          filepath.Join(originalDir, "international_migration_flow.csv"),
		ClassificationCSV: filepath.Join(dataDir, "m49.csv"),

		DBReadyCSV: filepath.Join(processedDir, "international_migration_flow_db_ready.csv"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.OriginalDir,
		p.ProcessedDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// GetLogPath returns the path for a log file in the logs directory
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// ArtifactPath returns the path for a generated artifact in the processed directory
func (p *Paths) ArtifactPath(name string) string {
	return filepath.Join(p.ProcessedDir, name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
