package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"a11ycheck/internal/wire"
)

// FileSink writes records to a file as a JSON array or NDJSON lines.
type FileSink struct {
	file    *os.File
	format  string
	mu      sync.Mutex
	records []Record
}

// NewFileSink creates the file eagerly so path problems fail the run before
// any evaluation happens. An empty format is inferred from the extension.
func NewFileSink(path, format string) (*FileSink, error) {
	if format == "" {
		if strings.EqualFold(filepath.Ext(path), ".ndjson") {
			format = "ndjson"
		} else {
			format = "json"
		}
	}
	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported file format: %s", format)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &FileSink{file: f, format: format}, nil
}

func (s *FileSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "json":
		if r, ok := v.(Record); ok {
			s.records = append(s.records, r)
		}
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.file)
		switch t := v.(type) {
		case Event:
			return encoder.Encode(t)
		case Record:
			return encoder.Encode(eventFromRecord(t))
		}
		return nil
	default:
		return fmt.Errorf("unsupported file format: %s", s.format)
	}
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.records); err != nil {
			s.file.Close()
			return err
		}
	}
	return s.file.Close()
}

// BinarySink writes each result as a length-delimited binary wire message.
// The file can be decoded later, in another process, with the report
// command.
type BinarySink struct {
	file *os.File
	mu   sync.Mutex
}

func NewBinarySink(path string) (*BinarySink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create binary output file: %w", err)
	}
	return &BinarySink{file: f}, nil
}

func (s *BinarySink) Write(v any) error {
	r, ok := v.(Record)
	if !ok {
		// Lifecycle events are not part of the wire stream.
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return wire.WriteDelimited(s.file, wire.MarshalResult(r.Result()))
}

func (s *BinarySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
