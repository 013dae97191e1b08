package config

import (
	"path/filepath"

	"github.com/tliron/commonlog"
)

// Config holds the server-wide options that shape analysis: the
// workspace root, the Composer autoload map used to resolve an
// unopened class's declaring file, and the PHP binary used to
// evaluate autoload files that are themselves PHP (spec §6
// "Configuration").
type Config struct {
	WorkspaceRoot string
	VendorDir     string
	PhpPath       string
	Autoload      AutoloadMap

	MaxCachedDocuments int
	DebounceMillis     int
}

// NewConfig returns the default configuration: no autoload map loaded
// yet, a bounded in-memory cache, and a short debounce for workspace
// file-watch events.
func NewConfig() *Config {
	return &Config{
		PhpPath:            "php",
		Autoload:           NewAutoloadMap(),
		MaxCachedDocuments: 512,
		DebounceMillis:     250,
	}
}

// LoadAutoloadMap evaluates the workspace's vendor/composer autoload
// files via PhpPath and records the resulting PSR-4/classmap tables.
// A failure is logged and leaves the previous (possibly empty) map in
// place — autoload resolution is a best-effort convenience, not a
// precondition for analysis.
func (c *Config) LoadAutoloadMap() {
	logger := commonlog.GetLoggerf("phpls.config")
	if c.VendorDir == "" {
		return
	}

	psr4File := filepath.Join(c.VendorDir, "composer", "autoload_psr4.php")
	classmapFile := filepath.Join(c.VendorDir, "composer", "autoload_classmap.php")

	if !filepath.IsAbs(psr4File) {
		psr4File = filepath.Join(c.WorkspaceRoot, psr4File)
	}
	if !filepath.IsAbs(classmapFile) {
		classmapFile = filepath.Join(c.WorkspaceRoot, classmapFile)
	}

	autoloadMap, err := GetAutoloadMap(psr4File, classmapFile, c.PhpPath)
	if err != nil {
		logger.Warningf("could not load autoload map: %v", err)
		return
	}

	c.Autoload = autoloadMap
	logger.Infof(
		"loaded %d psr-4 mappings and %d classmap entries",
		len(c.Autoload.PSR4),
		len(c.Autoload.Classmap),
	)
}

// ResolveClassFile finds the file implementing className via the
// loaded autoload map, for reference resolution that needs to open a
// class the workspace scanner hasn't indexed yet.
func (c *Config) ResolveClassFile(className string) (string, bool) {
	return AutoloadResolve(className, c.Autoload, c.WorkspaceRoot)
}
