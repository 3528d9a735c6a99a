// runlog.go: config.log-style run trace for autoconf-ini
//
// Every check a Runner dispatches can be recorded to a run log, the moral
// equivalent of autoconf's config.log: which operation ran, for which
// section and key, what it returned, and which variable was bound. The
// logger buffers events and flushes them to a pluggable storage backend
// (JSONL or SQLite) in the background.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package autoconfini

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/agilira/go-timecache"
)

// CheckLevel classifies run log events.
type CheckLevel int

const (
	CheckInfo CheckLevel = iota
	CheckWarn
)

func (l CheckLevel) String() string {
	switch l {
	case CheckInfo:
		return "INFO"
	case CheckWarn:
		return "WARN"
	default:
		return "UNKNOWN"
	}
}

// CheckEvent is a single recorded run log event: one dispatched check, one
// skipped-entry warning, or a run boundary marker.
type CheckEvent struct {
	Timestamp   time.Time   `json:"timestamp"`
	Level       CheckLevel  `json:"level"`
	Event       string      `json:"event"`
	Section     string      `json:"section,omitempty"`
	Key         string      `json:"key,omitempty"`
	Operation   string      `json:"operation,omitempty"`
	Value       string      `json:"value,omitempty"`
	Result      interface{} `json:"result,omitempty"`
	Defined     string      `json:"defined,omitempty"`
	Detail      string      `json:"detail,omitempty"`
	ProcessID   int         `json:"process_id"`
	ProcessName string      `json:"process_name"`
}

// RunLogConfig configures the run log.
type RunLogConfig struct {
	Enabled bool `json:"enabled"`

	// OutputFile selects the backend by extension: ".db" uses SQLite,
	// anything else (conventionally ".jsonl") uses line-delimited JSON.
	OutputFile string `json:"output_file"`

	BufferSize    int           `json:"buffer_size"`
	FlushInterval time.Duration `json:"flush_interval"`
}

// DefaultRunLogConfig returns a run log configuration suitable for a
// configure-style tool: JSONL output next to the working directory with
// modest buffering.
func DefaultRunLogConfig(outputFile string) RunLogConfig {
	return RunLogConfig{
		Enabled:       true,
		OutputFile:    outputFile,
		BufferSize:    256,
		FlushInterval: time.Second,
	}
}

// RunLogger records run events with buffered, background-flushed writes.
// All logging methods are safe on a nil receiver, so an unconfigured run
// log costs a single comparison per check.
type RunLogger struct {
	config      RunLogConfig
	backend     runLogBackend
	buffer      []CheckEvent
	bufferMu    sync.Mutex
	flushTicker *time.Ticker
	stopCh      chan struct{}
	processID   int
	processName string
}

// NewRunLogger creates a run logger with the backend selected from the
// configured output file extension.
func NewRunLogger(config RunLogConfig) (*RunLogger, error) {
	if config.BufferSize <= 0 {
		config.BufferSize = 256
	}

	backend, err := createRunLogBackend(config)
	if err != nil {
		return nil, err
	}

	logger := &RunLogger{
		config:      config,
		backend:     backend,
		buffer:      make([]CheckEvent, 0, config.BufferSize),
		stopCh:      make(chan struct{}),
		processID:   os.Getpid(),
		processName: processName(),
	}

	if config.FlushInterval > 0 {
		logger.flushTicker = time.NewTicker(config.FlushInterval)
		go logger.flushLoop()
	}

	return logger, nil
}

// LogCheck records one dispatched check.
func (rl *RunLogger) LogCheck(section, key string, op Op, value string, result interface{}, defined string) {
	rl.log(CheckEvent{
		Level:     CheckInfo,
		Event:     "check",
		Section:   section,
		Key:       key,
		Operation: op.String(),
		Value:     value,
		Result:    result,
		Defined:   defined,
	})
}

// LogWarn records a skipped entry.
func (rl *RunLogger) LogWarn(section, key string, op Op, detail string) {
	rl.log(CheckEvent{
		Level:     CheckWarn,
		Event:     "entry_skipped",
		Section:   section,
		Key:       key,
		Operation: op.String(),
		Detail:    detail,
	})
}

// LogRun records a run boundary event (run_start, run_end,
// document_missing) for the given document path.
func (rl *RunLogger) LogRun(event, path string) {
	rl.log(CheckEvent{
		Level:  CheckInfo,
		Event:  event,
		Detail: path,
	})
}

func (rl *RunLogger) log(event CheckEvent) {
	if rl == nil || rl.backend == nil || !rl.config.Enabled {
		return
	}

	// Cached timestamp: run logs are written per check, and checks can be
	// compiler invocations, so sub-millisecond precision is plenty.
	event.Timestamp = timecache.CachedTime()
	event.ProcessID = rl.processID
	event.ProcessName = rl.processName

	rl.bufferMu.Lock()
	rl.buffer = append(rl.buffer, event)
	if len(rl.buffer) >= rl.config.BufferSize {
		_ = rl.flushLocked()
	}
	rl.bufferMu.Unlock()
}

// Flush immediately writes all buffered events to the backend.
func (rl *RunLogger) Flush() error {
	if rl == nil || rl.backend == nil {
		return nil
	}
	rl.bufferMu.Lock()
	defer rl.bufferMu.Unlock()
	return rl.flushLocked()
}

// Close flushes remaining events and releases the backend.
func (rl *RunLogger) Close() error {
	if rl == nil || rl.backend == nil {
		return nil
	}

	close(rl.stopCh)
	if rl.flushTicker != nil {
		rl.flushTicker.Stop()
	}

	if err := rl.Flush(); err != nil {
		return fmt.Errorf("failed to flush run log during close: %w", err)
	}
	return rl.backend.Close()
}

func (rl *RunLogger) flushLoop() {
	for {
		select {
		case <-rl.flushTicker.C:
			_ = rl.Flush()
		case <-rl.stopCh:
			return
		}
	}
}

// flushLocked writes the buffer to the backend. Caller holds bufferMu.
func (rl *RunLogger) flushLocked() error {
	if len(rl.buffer) == 0 {
		return nil
	}
	if err := rl.backend.Write(rl.buffer); err != nil {
		return err
	}
	rl.buffer = rl.buffer[:0]
	return rl.backend.Flush()
}

func processName() string {
	if len(os.Args) > 0 {
		return os.Args[0]
	}
	return "unknown"
}
