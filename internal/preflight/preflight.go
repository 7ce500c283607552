package preflight

import (
	"cddarip/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckParentAccess("Library catalog", cfg.Paths.LibraryDB),
	}

	// The drive is optional; image extraction works without one.
	if cfg.Drive.Device != "" {
		results = append(results, CheckDevice("Optical drive", cfg.Drive.Device))
	}
	return results
}
