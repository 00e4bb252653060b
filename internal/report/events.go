package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	EventScan          EventType = "scan"
	EventLookup        EventType = "lookup"
	EventScore         EventType = "score"
	EventVeto          EventType = "veto"
	EventAssign        EventType = "assign"
	EventLowConfidence EventType = "low_confidence"
	EventUnmatched     EventType = "unmatched"
	EventWrite         EventType = "write"
	EventError         EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single event in the tagging pipeline
type Event struct {
	Timestamp  time.Time         `json:"ts"`
	Level      EventLevel        `json:"level"`
	Event      EventType         `json:"event"`
	FilePath   string            `json:"file_path,omitempty"`
	TrackTitle string            `json:"track_title,omitempty"`
	Position   int               `json:"position,omitempty"`
	Disc       int               `json:"disc,omitempty"`
	Score      int               `json:"score,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Error      string            `json:"error,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level
// minLevel determines which events are written (e.g., LevelInfo skips LevelDebug)
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("events-%s.jsonl", timestamp)
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	// Filter by minimum level
	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogScan logs a discovered audio file
func (l *EventLogger) LogScan(path string, sizeBytes int64) error {
	return l.Log(&Event{
		Level:    LevelInfo,
		Event:    EventScan,
		FilePath: path,
		Extra: map[string]string{
			"size_bytes": fmt.Sprintf("%d", sizeBytes),
		},
	})
}

// LogLookup logs a catalog release lookup
func (l *EventLogger) LogLookup(releaseID, title, artist string, trackCount int, cached bool) error {
	return l.Log(&Event{
		Level: LevelInfo,
		Event: EventLookup,
		Extra: map[string]string{
			"release_id":  releaseID,
			"title":       title,
			"artist":      artist,
			"track_count": fmt.Sprintf("%d", trackCount),
			"cached":      fmt.Sprintf("%t", cached),
		},
	})
}

// LogScore logs a scored file/track candidate pair
func (l *EventLogger) LogScore(filePath, trackTitle string, position int, score int, confidence float64) error {
	return l.Log(&Event{
		Level:      LevelDebug,
		Event:      EventScore,
		FilePath:   filePath,
		TrackTitle: trackTitle,
		Position:   position,
		Score:      score,
		Confidence: confidence,
	})
}

// LogVeto logs a pair rejected on qualifier grounds
func (l *EventLogger) LogVeto(filePath, trackTitle string, position int, reason string) error {
	return l.Log(&Event{
		Level:      LevelInfo,
		Event:      EventVeto,
		FilePath:   filePath,
		TrackTitle: trackTitle,
		Position:   position,
		Reason:     reason,
	})
}

// LogAssign logs a final file/track assignment
func (l *EventLogger) LogAssign(filePath, trackTitle string, position, disc, score int, confidence float64) error {
	return l.Log(&Event{
		Level:      LevelInfo,
		Event:      EventAssign,
		FilePath:   filePath,
		TrackTitle: trackTitle,
		Position:   position,
		Disc:       disc,
		Score:      score,
		Confidence: confidence,
	})
}

// LogLowConfidence logs an assignment dropped by the confidence filter
func (l *EventLogger) LogLowConfidence(filePath, trackTitle string, position int, confidence float64) error {
	return l.Log(&Event{
		Level:      LevelWarning,
		Event:      EventLowConfidence,
		FilePath:   filePath,
		TrackTitle: trackTitle,
		Position:   position,
		Confidence: confidence,
		Reason:     "confidence below threshold",
	})
}

// LogUnmatched logs a file or track left without a partner.
// Exactly one of filePath and trackTitle is set.
func (l *EventLogger) LogUnmatched(filePath, trackTitle string, position int) error {
	return l.Log(&Event{
		Level:      LevelWarning,
		Event:      EventUnmatched,
		FilePath:   filePath,
		TrackTitle: trackTitle,
		Position:   position,
	})
}

// LogWrite logs a tag write to an audio file
func (l *EventLogger) LogWrite(filePath, trackTitle string, position, disc int, duration time.Duration, err error) error {
	level := LevelInfo
	errMsg := ""
	if err != nil {
		level = LevelError
		errMsg = err.Error()
	}

	return l.Log(&Event{
		Level:      level,
		Event:      EventWrite,
		FilePath:   filePath,
		TrackTitle: trackTitle,
		Position:   position,
		Disc:       disc,
		Error:      errMsg,
		Extra: map[string]string{
			"duration_ms": fmt.Sprintf("%d", duration.Milliseconds()),
		},
	})
}

// LogError logs an error event
func (l *EventLogger) LogError(event EventType, filePath string, err error) error {
	return l.Log(&Event{
		Level:    LevelError,
		Event:    event,
		FilePath: filePath,
		Error:    err.Error(),
	})
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// NullLogger returns a no-op event logger
func NullLogger() *EventLogger {
	return nil
}
