package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/kinds"
)

var (
	checkKind    = kinds.New("class-name", kinds.ClassCheck)
	questionKind = kinds.New("is-decorative", kinds.ClassQuestion)
	answerKind   = kinds.New("yes-no", kinds.ClassAnswer)
	handlerKind  = kinds.New("labeling-handler", kinds.ClassHandler)
)

type stubHandler struct{}

func (stubHandler) Kind() kinds.Kind { return handlerKind }

func warningResult(t *testing.T) checkresult.Result {
	t.Helper()
	md := checkresult.NewMetadata()
	require.NoError(t, md.PutString("class_name", "com.example.Foo"))
	return checkresult.New(checkKind, checkresult.ClassificationWarning, 4, 5, md)
}

func TestConstructorsProduceEqualQuestions(t *testing.T) {
	res := warningResult(t)
	md := checkresult.NewMetadata()
	require.NoError(t, md.PutBool("needs_screenshot", true))

	fromHandler := New(7, questionKind, answerKind, stubHandler{}, res, md)
	fromKind := NewForHandlerKind(7, questionKind, answerKind, handlerKind, res, md)

	assert.True(t, fromHandler.Equal(fromKind))
	assert.Equal(t, fromHandler.Hash(), fromKind.Hash())
}

func TestQuestionAccessors(t *testing.T) {
	res := warningResult(t)
	q := New(7, questionKind, answerKind, stubHandler{}, res, nil)

	assert.Equal(t, int32(7), q.QuestionID())
	assert.Equal(t, questionKind, q.QuestionKind())
	assert.Equal(t, answerKind, q.AnswerKind())
	assert.Equal(t, handlerKind, q.HandlerKind())
	assert.True(t, q.OriginalResult().Equal(res))
	assert.Nil(t, q.Metadata())
}

func TestQuestionOwnsResultCopy(t *testing.T) {
	sourceMd := checkresult.NewMetadata()
	require.NoError(t, sourceMd.PutString("class_name", "com.example.Foo"))
	res := checkresult.New(checkKind, checkresult.ClassificationWarning, 4, 5, sourceMd)

	q := New(1, questionKind, answerKind, stubHandler{}, res, nil)

	// Mutating the source result's metadata after construction must not be
	// visible through the question.
	require.NoError(t, res.Metadata().PutString("late", "x"))
	assert.False(t, q.OriginalResult().Metadata().Has("late"))
}

func TestQuestionInequality(t *testing.T) {
	res := warningResult(t)
	base := NewForHandlerKind(7, questionKind, answerKind, handlerKind, res, nil)

	otherRes := checkresult.New(checkKind, checkresult.ClassificationError, 4, 5, nil)
	tests := []struct {
		name  string
		other Question
	}{
		{"different id", NewForHandlerKind(8, questionKind, answerKind, handlerKind, res, nil)},
		{"different question kind", NewForHandlerKind(7, kinds.New("other", kinds.ClassQuestion), answerKind, handlerKind, res, nil)},
		{"different answer kind", NewForHandlerKind(7, questionKind, kinds.New("other", kinds.ClassAnswer), handlerKind, res, nil)},
		{"different handler kind", NewForHandlerKind(7, questionKind, answerKind, kinds.New("other", kinds.ClassHandler), res, nil)},
		{"different result", NewForHandlerKind(7, questionKind, answerKind, handlerKind, otherRes, nil)},
		{"with metadata", NewForHandlerKind(7, questionKind, answerKind, handlerKind, res, checkresult.NewMetadata())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, base.Equal(tt.other))
		})
	}
}
