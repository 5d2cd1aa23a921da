// Package logsource reads log files from the deployment-coordinate directory
// tree (zone/client/app/version/sub-version) and hands the analysis engine a
// bundle of raw text plus parsed records.
package logsource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hyperjump/logsentry/internal/logparse"
	"github.com/hyperjump/logsentry/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrPathNotFound reports a missing log location. Callers present this as
	// an empty/informative state, never a crash.
	ErrPathNotFound = errors.New("log path does not exist")
	// ErrNoLogFiles reports a location with no recognized log files.
	ErrNoLogFiles = errors.New("no log files found")
)

// logSuffixes are the recognized log file extensions.
var logSuffixes = []string{".log", ".error", ".info", ".debug", ".txt"}

// Reader scans the log root for available deployments and reads log bundles.
type Reader struct {
	root   string
	logger *zap.Logger

	mu        sync.Mutex
	structure map[string]map[string]map[string][]string
}

// NewReader creates a reader over the given log root.
func NewReader(root string, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{root: root, logger: logger}
}

// Path returns the directory for the given coordinates.
func (r *Reader) Path(coords models.Coordinates) string {
	return filepath.Join(r.root, coords.Zone, coords.Client, coords.App, coords.Version, coords.SubVersion)
}

// Read collects every recognized log file under the coordinate directory,
// concatenates the raw contents with per-file headers, and parses structured
// records. Unreadable files are noted inline in the raw text rather than
// aborting the bundle.
func (r *Reader) Read(coords models.Coordinates) (*models.LogBundle, error) {
	base := r.Path(coords)
	if _, err := os.Stat(base); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, base)
	}

	var files []string
	err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && IsLogFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", base, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLogFiles, base)
	}

	origin := coords.Origin()
	var rawParts []string
	var records []*models.LogRecord
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			r.logger.Warn("skipping unreadable log file", zap.String("file", file), zap.Error(err))
			rawParts = append(rawParts, fmt.Sprintf("Error reading %s: %v", file, err))
			continue
		}
		rawParts = append(rawParts, fmt.Sprintf("=== File: %s ===\n%s", filepath.Base(file), string(content)))
		for _, line := range strings.Split(string(content), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if record := logparse.ParseLine(line, origin); record != nil {
				records = append(records, record)
			}
		}
	}

	r.logger.Debug("log bundle read",
		zap.String("path", base),
		zap.Int("files", len(files)),
		zap.Int("records", len(records)),
	)
	return &models.LogBundle{
		Raw:       strings.Join(rawParts, "\n"),
		Records:   records,
		FileCount: len(files),
		Origin:    origin,
	}, nil
}

// Structure maps the available log tree: zone -> client -> app -> versions.
// The result is cached until Invalidate is called (the watcher does this on
// file-system changes).
func (r *Reader) Structure() map[string]map[string]map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.structure != nil {
		return r.structure
	}

	structure := make(map[string]map[string]map[string][]string)
	for _, zone := range subdirs(r.root) {
		structure[zone] = make(map[string]map[string][]string)
		for _, client := range subdirs(filepath.Join(r.root, zone)) {
			structure[zone][client] = make(map[string][]string)
			for _, app := range subdirs(filepath.Join(r.root, zone, client)) {
				versions := subdirs(filepath.Join(r.root, zone, client, app))
				structure[zone][client][app] = versions
			}
		}
	}
	r.structure = structure
	return structure
}

// Invalidate drops the cached structure so the next Structure call rescans.
func (r *Reader) Invalidate() {
	r.mu.Lock()
	r.structure = nil
	r.mu.Unlock()
}

// Root returns the configured log root.
func (r *Reader) Root() string {
	return r.root
}

func subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			out = append(out, entry.Name())
		}
	}
	return out
}

// IsLogFile reports whether path has a recognized log file extension.
func IsLogFile(path string) bool {
	for _, suffix := range logSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
