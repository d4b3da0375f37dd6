package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var classificationColors = map[string]*color.Color{
	"ERROR":      color.New(color.FgRed, color.Bold),
	"WARNING":    color.New(color.FgYellow),
	"INFO":       color.New(color.FgCyan),
	"NOT_RUN":    color.New(color.Faint),
	"SUPPRESSED": color.New(color.Faint),
}

type ConsoleSink struct {
	writer  io.Writer
	format  string // "text", "json", "ndjson"
	mu      sync.Mutex
	records []Record // for JSON array output
	allowed map[string]bool
}

func NewConsoleSink(w io.Writer, format string, filter []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}
	if len(filter) > 0 {
		s.allowed = make(map[string]bool)
		for _, c := range filter {
			s.allowed[strings.ToUpper(c)] = true
		}
	}
	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.allowed) > 0 {
		if r, ok := v.(Record); ok && !s.allowed[r.Classification] {
			return nil
		}
	}

	switch s.format {
	case "json":
		r, ok := v.(Record)
		if !ok {
			// Ignore events in JSON console mode.
			return nil
		}
		s.records = append(s.records, r)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			return encoder.Encode(t)
		case Record:
			return encoder.Encode(eventFromRecord(t))
		default:
			return nil
		}
	case "text":
		r, ok := v.(Record)
		if !ok {
			// Ignore events in text mode.
			return nil
		}
		return s.writeText(r)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeText(r Record) error {
	label := fmt.Sprintf("[%s]", r.Classification)
	if c, ok := classificationColors[r.Classification]; ok {
		label = c.Sprintf("[%s]", r.Classification)
	}
	if _, err := fmt.Fprintf(s.writer, "%s %s id=%d element=%d", label, r.CheckKind, r.ResultID, r.ElementID); err != nil {
		return err
	}
	if r.Message != "" {
		if _, err := fmt.Fprintf(s.writer, " - %s", r.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(s.writer)
	return err
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s.records)
	}
	return nil
}
