package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/kinds"
)

var testKind = kinds.New("class-name", kinds.ClassCheck)

func testRecord(t *testing.T, c checkresult.Classification, msg string) Record {
	t.Helper()
	md := checkresult.NewMetadata()
	if err := md.PutString("class_name", "com.example.Foo"); err != nil {
		t.Fatalf("PutString failed: %v", err)
	}
	return NewRecord(checkresult.New(testKind, c, 3, 5, md), msg)
}

func TestConsoleSinkText(t *testing.T) {
	// Color codes would make the assertions depend on the test terminal.
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	s := NewConsoleSink(&buf, "text", nil)
	rec := testRecord(t, checkresult.ClassificationWarning, "Unsupported class name")
	if err := s.Write(rec); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got := buf.String()
	want := "[WARNING] class-name id=5 element=3 - Unsupported class name\n"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestConsoleSinkTextFilter(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	s := NewConsoleSink(&buf, "text", []string{"ERROR"})

	_ = s.Write(testRecord(t, checkresult.ClassificationWarning, "muted"))
	_ = s.Write(testRecord(t, checkresult.ClassificationError, "shown"))
	_ = s.Close()

	got := buf.String()
	if strings.Contains(got, "muted") {
		t.Errorf("Filtered record leaked: %q", got)
	}
	if !strings.Contains(got, "shown") {
		t.Errorf("Allowed record missing: %q", got)
	}
}

func TestConsoleSinkJSONAggregates(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, "json", nil)

	_ = s.Write(Event{Type: "run.started"})
	_ = s.Write(testRecord(t, checkresult.ClassificationWarning, "w"))
	_ = s.Write(testRecord(t, checkresult.ClassificationError, "e"))
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	var records []Record
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("Output is not a JSON array: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Metadata["class_name"] != "com.example.Foo" {
		t.Errorf("Metadata not serialized: %v", records[0].Metadata)
	}
}

func TestConsoleSinkNDJSONStreams(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, "ndjson", nil)

	_ = s.Write(Event{Type: "run.started", RunID: "r1"})
	_ = s.Write(testRecord(t, checkresult.ClassificationWarning, "w"))
	_ = s.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 NDJSON lines, got %d: %q", len(lines), buf.String())
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("Line 1 is not JSON: %v", err)
	}
	if first["type"] != "run.started" || first["run_id"] != "r1" {
		t.Errorf("Unexpected first event: %v", first)
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("Line 2 is not JSON: %v", err)
	}
	if second["type"] != "check.result" || second["classification"] != "WARNING" {
		t.Errorf("Unexpected second event: %v", second)
	}
}

type failingSink struct{ err error }

func (s failingSink) Write(any) error { return s.err }
func (s failingSink) Close() error    { return nil }

func TestManagerPropagatesSinkErrors(t *testing.T) {
	m := NewManager()
	if err := m.AddSink(failingSink{err: errors.New("disk full")}); err != nil {
		t.Fatalf("AddSink failed: %v", err)
	}

	err := m.Write(Event{Type: "run.started"})
	if err == nil {
		t.Fatal("Expected write error to propagate")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected sink error in chain, got %v", err)
	}
}

func TestManagerStampsRunID(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager()
	if err := m.AddSink(NewConsoleSink(&buf, "ndjson", nil)); err != nil {
		t.Fatalf("AddSink failed: %v", err)
	}

	if err := m.Write(Event{Type: "run.started"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	var e map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &e); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if e["run_id"] != m.RunID() {
		t.Errorf("Expected run id %q stamped, got %v", m.RunID(), e["run_id"])
	}
}
