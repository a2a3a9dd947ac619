package tuningdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LogEntry is the JSON-serializable form of an Entry.
type LogEntry struct {
	Timestamp   time.Time      `json:"timestamp"`
	Delta       string         `json:"delta"`
	Evaluated   int64          `json:"evaluated"`
	Valid       int64          `json:"valid"`
	Config      Configuration  `json:"configuration"`
	IsValid     bool           `json:"is_valid"`
	Cost        *float64       `json:"cost,omitempty"`
	Meta        MetaData       `json:"meta,omitempty"`
	Coordinates []float64      `json:"coordinates,omitempty"`
	Index       *int64         `json:"index,omitempty"`
}

func toLogEntry(e Entry) LogEntry {
	return LogEntry{
		Timestamp:   e.Timestamp,
		Delta:       formatDuration(e.Delta),
		Evaluated:   e.Evaluated,
		Valid:       e.ValidCount,
		Config:      e.Config,
		IsValid:     e.IsValid,
		Cost:        e.Cost,
		Meta:        e.Meta,
		Coordinates: e.Coordinates,
		Index:       e.Index,
	}
}

// formatDuration renders a duration as H:MM:SS.ffffff, matching the
// original implementation's log format.
func formatDuration(d time.Duration) string {
	total := d.Seconds()
	hours := int64(total / 3600)
	rem := total - float64(hours)*3600
	minutes := int64(rem / 60)
	seconds := rem - float64(minutes)*60
	return fmt.Sprintf("%d:%02d:%09.6f", hours, minutes, seconds)
}

// Log is the top-level JSON document written for one tuning run.
type Log struct {
	Parameters        []any      `json:"parameters"`
	ConstrainedSize   int64      `json:"constrained_size"`
	UnconstrainedSize int64      `json:"unconstrained_size"`
	Technique         string     `json:"search_technique"`
	AbortCondition    string     `json:"abort_condition"`
	StartTime         time.Time  `json:"start_time"`
	Duration          string     `json:"duration"`
	TerminatedEarly   bool       `json:"terminated_early"`
	BestCost          *float64   `json:"best_cost,omitempty"`
	History           []LogEntry `json:"history"`
	ImprovementHist   []LogEntry `json:"improvement_history"`
}

// BuildLog assembles the JSON log document for the current state of td.
func BuildLog(td *TuningData, params []any, constrainedSize, unconstrainedSize int64, technique, abortCondition string) Log {
	hist := make([]LogEntry, len(td.history))
	for i, e := range td.history {
		hist[i] = toLogEntry(e)
	}
	improvement := make([]LogEntry, len(td.improvementHistory))
	for i, e := range td.improvementHistory {
		improvement[i] = toLogEntry(e)
	}

	return Log{
		Parameters:        params,
		ConstrainedSize:   constrainedSize,
		UnconstrainedSize: unconstrainedSize,
		Technique:         technique,
		AbortCondition:    abortCondition,
		StartTime:         td.start,
		Duration:          formatDuration(td.Elapsed()),
		TerminatedEarly:   td.terminatedEarly,
		BestCost:          td.bestCost,
		History:           hist,
		ImprovementHist:   improvement,
	}
}

// WriteLog atomically (re)writes the log file at path: marshal to a
// temp file in the same directory, then rename over the destination, so
// a reader never observes a partially written log.
func WriteLog(path string, log Log) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("tuningdata: marshaling log: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".atf-log-*.tmp")
	if err != nil {
		return fmt.Errorf("tuningdata: creating temp log file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tuningdata: writing temp log file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tuningdata: closing temp log file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("tuningdata: rewriting log file %s: %w", path, err)
	}
	return nil
}
