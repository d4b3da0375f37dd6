package wire

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/hierarchy"
	"a11ycheck/internal/kinds"
	"a11ycheck/internal/question"
)

var (
	checkKind    = kinds.New("class-name", kinds.ClassCheck)
	questionKind = kinds.New("is-decorative", kinds.ClassQuestion)
	answerKind   = kinds.New("yes-no", kinds.ClassAnswer)
	handlerKind  = kinds.New("labeling-handler", kinds.ClassHandler)
)

func testRegistry() *kinds.Registry {
	reg := kinds.NewRegistry()
	reg.Register(checkKind)
	reg.Register(questionKind)
	reg.Register(answerKind)
	reg.Register(handlerKind)
	return reg
}

func fullMetadata(t *testing.T) *checkresult.Metadata {
	t.Helper()
	md := checkresult.NewMetadata()
	require.NoError(t, md.PutString("class_name", "com.example.Foo"))
	require.NoError(t, md.PutInt("depth", -12))
	require.NoError(t, md.PutBool("clickable", true))
	require.NoError(t, md.PutStringList("hints", []string{"first", "second"}))
	return md
}

func TestResultRoundTrip(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name   string
		result checkresult.Result
	}{
		{
			name:   "with metadata",
			result: checkresult.New(checkKind, checkresult.ClassificationWarning, 7, 5, fullMetadata(t)),
		},
		{
			name:   "without metadata",
			result: checkresult.New(checkKind, checkresult.ClassificationNotRun, 0, 2, nil),
		},
		{
			name:   "hierarchy-level result",
			result: checkresult.New(checkKind, checkresult.ClassificationInfo, hierarchy.NoElement, 1, nil),
		},
		{
			name:   "empty metadata stays present",
			result: checkresult.New(checkKind, checkresult.ClassificationError, 3, 9, checkresult.NewMetadata()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalResult(MarshalResult(tt.result), reg)
			require.NoError(t, err)
			assert.True(t, tt.result.Equal(decoded), "decoded %v, want %v", decoded, tt.result)
			assert.Equal(t, tt.result.Hash(), decoded.Hash())
		})
	}
}

func TestMetadataAbsenceSurvivesRoundTrip(t *testing.T) {
	reg := testRegistry()

	absent := checkresult.New(checkKind, checkresult.ClassificationNotRun, 1, 2, nil)
	decoded, err := UnmarshalResult(MarshalResult(absent), reg)
	require.NoError(t, err)
	assert.Nil(t, decoded.Metadata(), "absent metadata must decode to nil, not an empty instance")

	present := checkresult.New(checkKind, checkresult.ClassificationNotRun, 1, 2, checkresult.NewMetadata())
	decoded, err = UnmarshalResult(MarshalResult(present), reg)
	require.NoError(t, err)
	require.NotNil(t, decoded.Metadata(), "empty-but-present metadata must decode as present")
	assert.Equal(t, 0, decoded.Metadata().Len())

	// The two forms are distinct values and never conflated.
	assert.False(t, absent.Equal(present))
}

func TestQuestionRoundTrip(t *testing.T) {
	reg := testRegistry()

	original := checkresult.New(checkKind, checkresult.ClassificationWarning, 4, 5, fullMetadata(t))
	qmd := checkresult.NewMetadata()
	require.NoError(t, qmd.PutBool("needs_screenshot", true))

	tests := []struct {
		name string
		q    question.Question
	}{
		{
			name: "with metadata",
			q:    question.NewForHandlerKind(7, questionKind, answerKind, handlerKind, original, qmd),
		},
		{
			name: "without metadata",
			q:    question.NewForHandlerKind(3, questionKind, answerKind, handlerKind, original, nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalQuestion(MarshalQuestion(tt.q), reg)
			require.NoError(t, err)
			assert.True(t, tt.q.Equal(decoded), "decoded %v, want %v", decoded, tt.q)
			assert.Equal(t, tt.q.Hash(), decoded.Hash())
		})
	}
}

func TestEncodingIsDeterministic(t *testing.T) {
	r := checkresult.New(checkKind, checkresult.ClassificationWarning, 7, 5, fullMetadata(t))
	assert.Equal(t, MarshalResult(r), MarshalResult(r))

	// Same pairs inserted in a different order encode identically.
	a := checkresult.NewMetadata()
	require.NoError(t, a.PutString("x", "1"))
	require.NoError(t, a.PutInt("y", 2))
	b := checkresult.NewMetadata()
	require.NoError(t, b.PutInt("y", 2))
	require.NoError(t, b.PutString("x", "1"))
	ra := checkresult.New(checkKind, checkresult.ClassificationInfo, 1, 1, a)
	rb := checkresult.New(checkKind, checkresult.ClassificationInfo, 1, 1, b)
	assert.Equal(t, MarshalResult(ra), MarshalResult(rb))
}

func TestUnknownKindOnDecode(t *testing.T) {
	reg := testRegistry()

	ghost := checkresult.New(kinds.New("does.not.Exist", kinds.ClassCheck), checkresult.ClassificationError, 1, 1, nil)
	_, err := UnmarshalResult(MarshalResult(ghost), reg)

	var unknown *kinds.UnknownKindError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "does.not.Exist", unknown.KindName)
}

func TestKindClassMismatchOnDecode(t *testing.T) {
	reg := testRegistry()

	// A question kind name in the check-kind slot must not resolve.
	impostor := checkresult.New(kinds.New("is-decorative", kinds.ClassCheck), checkresult.ClassificationError, 1, 1, nil)
	_, err := UnmarshalResult(MarshalResult(impostor), reg)
	require.Error(t, err)
	assert.NotErrorAs(t, err, new(*kinds.UnknownKindError))
}

func TestUnknownKindInsideQuestion(t *testing.T) {
	reg := testRegistry()
	original := checkresult.New(checkKind, checkresult.ClassificationWarning, 4, 5, nil)
	q := question.NewForHandlerKind(1, kinds.New("ghost-question", kinds.ClassQuestion), answerKind, handlerKind, original, nil)

	_, err := UnmarshalQuestion(MarshalQuestion(q), reg)
	var unknown *kinds.UnknownKindError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ghost-question", unknown.KindName)
}

func TestMalformedInput(t *testing.T) {
	reg := testRegistry()

	truncated := MarshalResult(checkresult.New(checkKind, checkresult.ClassificationError, 1, 1, fullMetadata(t)))
	truncated = truncated[:len(truncated)-3]
	_, err := UnmarshalResult(truncated, reg)
	assert.Error(t, err)

	garbage := []byte{0xff, 0xff, 0xff}
	_, err = UnmarshalResult(garbage, reg)
	assert.Error(t, err)

	_, err = UnmarshalQuestion(garbage, reg)
	assert.Error(t, err)
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	reg := testRegistry()
	r := checkresult.New(checkKind, checkresult.ClassificationWarning, 2, 5, nil)

	// Append a field number this build does not know about; a newer writer
	// may add fields and older readers must still decode theirs.
	b := MarshalResult(r)
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "from the future")

	decoded, err := UnmarshalResult(b, reg)
	require.NoError(t, err)
	assert.True(t, r.Equal(decoded))
}

func TestInvalidClassificationRejected(t *testing.T) {
	reg := testRegistry()

	// A writer disagreeing about the enum must not smuggle an undefined
	// classification through decode.
	var b []byte
	b = protowire.AppendTag(b, resultFieldCheckKind, protowire.BytesType)
	b = protowire.AppendString(b, checkKind.Name())
	b = protowire.AppendTag(b, resultFieldClassification, protowire.VarintType)
	b = protowire.AppendVarint(b, 99)

	_, err := UnmarshalResult(b, reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "classification")
}

func TestDelimitedStream(t *testing.T) {
	reg := testRegistry()
	var buf bytes.Buffer

	results := []checkresult.Result{
		checkresult.New(checkKind, checkresult.ClassificationWarning, 1, 5, fullMetadata(t)),
		checkresult.New(checkKind, checkresult.ClassificationNotRun, 2, 2, nil),
	}
	for _, r := range results {
		require.NoError(t, WriteDelimited(&buf, MarshalResult(r)))
	}

	br := bufio.NewReader(&buf)
	for i := range results {
		msg, err := ReadDelimited(br)
		require.NoError(t, err)
		decoded, err := UnmarshalResult(msg, reg)
		require.NoError(t, err)
		assert.True(t, results[i].Equal(decoded))
	}
	_, err := ReadDelimited(br)
	assert.True(t, errors.Is(err, io.EOF))
}
