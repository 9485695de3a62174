package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/flowfield/config"
)

// csvLog appends records of one type to a CSV file, writing the header once.
type csvLog struct {
	f             *os.File
	headerWritten bool
}

func openCSVLog(dir, name string) (*csvLog, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog{f: f}, nil
}

func (l *csvLog) write(records any) error {
	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.f); err != nil {
			return err
		}
		l.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, l.f)
}

// OutputManager writes run logs as CSV: perf.csv, agents.csv, resets.csv and
// bookmarks.csv.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir    string
	perf   *csvLog
	agents *csvLog
	resets *csvLog
	marks  *csvLog
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.perf, err = openCSVLog(dir, "perf.csv"); err != nil {
		return nil, err
	}
	if om.agents, err = openCSVLog(dir, "agents.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.resets, err = openCSVLog(dir, "resets.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.marks, err = openCSVLog(dir, "bookmarks.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteAgents writes a window stats record to agents.csv.
func (om *OutputManager) WriteAgents(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.agents.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing agents: %w", err)
	}
	return nil
}

// WriteReset writes a reset record to resets.csv.
func (om *OutputManager) WriteReset(e ResetEvent) error {
	if om == nil {
		return nil
	}
	if err := om.resets.write([]ResetEvent{e}); err != nil {
		return fmt.Errorf("writing reset: %w", err)
	}
	return nil
}

// WriteBookmarks appends bookmarks to bookmarks.csv.
func (om *OutputManager) WriteBookmarks(marks []Bookmark) error {
	if om == nil || len(marks) == 0 {
		return nil
	}
	if err := om.marks.write(marks); err != nil {
		return fmt.Errorf("writing bookmarks: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files and returns the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, l := range []*csvLog{om.perf, om.agents, om.resets, om.marks} {
		if l == nil {
			continue
		}
		if err := l.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
