package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/ecosim/config"
)

// OutputManager handles structured run output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir         string
	historyFile *os.File
	perfFile    *os.File

	// Track if headers have been written
	historyHeaderWritten bool
	perfHeaderWritten    bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "history.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating history.csv: %w", err)
	}
	om.historyFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.historyFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteSnapshot appends a snapshot record to history.csv.
func (om *OutputManager) WriteSnapshot(s Snapshot) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.historyFile, []Snapshot{s}, &om.historyHeaderWritten); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// WritePerf appends a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, tick int64) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.perfFile, []PerfRecord{stats.Record(tick)}, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// writeRecords marshals records, emitting the header only on the first call.
func writeRecords[T any](f *os.File, records []T, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.historyFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
