package output

import (
	"a11ycheck/internal/checkresult"
)

// Record is one rendered finding as the sinks see it: the structural result
// plus the localized message resolved by the caller. Sinks that re-encode
// the result structurally (the binary sink) reach the underlying value via
// Result().
type Record struct {
	CheckKind      string         `json:"check"`
	Classification string         `json:"classification"`
	ElementID      int64          `json:"element_id"`
	ResultID       int32          `json:"result_id"`
	Message        string         `json:"message,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`

	result checkresult.Result
}

// NewRecord builds a Record from a result and its rendered message.
func NewRecord(r checkresult.Result, message string) Record {
	return Record{
		CheckKind:      r.CheckKind().Name(),
		Classification: r.Classification().String(),
		ElementID:      r.ElementID(),
		ResultID:       r.ResultID(),
		Message:        message,
		Metadata:       metadataMap(r.Metadata()),
		result:         r,
	}
}

func (r Record) Result() checkresult.Result { return r.result }

// metadataMap flattens metadata for JSON output. Absent metadata stays nil
// so it is omitted rather than rendered as an empty object.
func metadataMap(md *checkresult.Metadata) map[string]any {
	if md == nil {
		return nil
	}
	out := make(map[string]any, md.Len())
	for _, key := range md.Keys() {
		typ, _ := md.TypeOf(key)
		switch typ {
		case checkresult.TypeString:
			v, _, _ := md.GetString(key)
			out[key] = v
		case checkresult.TypeInt:
			v, _, _ := md.GetInt(key)
			out[key] = v
		case checkresult.TypeBool:
			v, _, _ := md.GetBool(key)
			out[key] = v
		case checkresult.TypeStringList:
			v, _, _ := md.GetStringList(key)
			out[key] = v
		}
	}
	return out
}

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line):
// - run.started
// - check.result
// - run.finished
// JSON mode remains an aggregate of Records.
type Event struct {
	Type  string `json:"type"`
	RunID string `json:"run_id,omitempty"`
	*Record
	Checks     int `json:"checks,omitempty"`
	Elements   int `json:"elements,omitempty"`
	Errors     int `json:"errors,omitempty"`
	Warnings   int `json:"warnings,omitempty"`
	Suppressed int `json:"suppressed,omitempty"`
	ExitCode   int `json:"exit_code,omitempty"`
}

func eventFromRecord(r Record) Event {
	return Event{Type: "check.result", Record: &r}
}
