// Package question lets a check result be escalated into an open
// clarification that is answered later, possibly in another process.
package question

import (
	"fmt"

	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/kinds"
)

// Handler raises questions about results it wants clarified and interprets
// the answers. Its kind scopes the question IDs it assigns.
type Handler interface {
	Kind() kinds.Kind
}

// Question pairs a result with the kind of information needed to refine it.
// Question IDs are unique only within the raising handler's kind, mirroring
// the result-ID scoping rule. A Question owns a copy of the result and
// metadata it was built from; later mutation of the sources cannot reach it.
type Question struct {
	questionID   int32
	questionKind kinds.Kind
	answerKind   kinds.Kind
	handlerKind  kinds.Kind
	original     checkresult.Result
	metadata     *checkresult.Metadata
}

// New builds a Question from a live handler; the handler kind is derived
// from the instance.
func New(questionID int32, questionKind, answerKind kinds.Kind, handler Handler, original checkresult.Result, md *checkresult.Metadata) Question {
	return NewForHandlerKind(questionID, questionKind, answerKind, handler.Kind(), original, md)
}

// NewForHandlerKind builds a Question from an explicit handler kind, for
// reconstruction when no live handler exists. Given equivalent inputs it
// produces a Question equal to one built with New.
func NewForHandlerKind(questionID int32, questionKind, answerKind, handlerKind kinds.Kind, original checkresult.Result, md *checkresult.Metadata) Question {
	return Question{
		questionID:   questionID,
		questionKind: questionKind,
		answerKind:   answerKind,
		handlerKind:  handlerKind,
		original:     original.Clone(),
		metadata:     md.Clone(),
	}
}

// QuestionID is the handler-scoped identifier differentiating the kinds of
// question one handler can raise.
func (q Question) QuestionID() int32 { return q.questionID }

// QuestionKind identifies the type of information needed to answer.
func (q Question) QuestionKind() kinds.Kind { return q.questionKind }

// AnswerKind identifies the answer type expected back.
func (q Question) AnswerKind() kinds.Kind { return q.answerKind }

// HandlerKind identifies the handler that raised this question.
func (q Question) HandlerKind() kinds.Kind { return q.handlerKind }

// OriginalResult returns the result this question is about.
func (q Question) OriginalResult() checkresult.Result { return q.original }

// Metadata returns extra data needed to ask the question, or nil when the
// question ID alone is sufficient. It is a pure accessor.
func (q Question) Metadata() *checkresult.Metadata { return q.metadata }

func (q Question) Equal(o Question) bool {
	return q.questionID == o.questionID &&
		q.questionKind == o.questionKind &&
		q.answerKind == o.answerKind &&
		q.handlerKind == o.handlerKind &&
		q.original.Equal(o.original) &&
		q.metadata.Equal(o.metadata)
}

// Hash is consistent with Equal and stable across processes.
func (q Question) Hash() uint64 {
	acc := q.original.Hash() ^ q.metadata.Hash()
	for i, k := range []kinds.Kind{q.questionKind, q.answerKind, q.handlerKind} {
		acc = acc*31 + uint64(len(k.Name())) + uint64(i)
		for _, b := range []byte(k.Name()) {
			acc = acc*131 + uint64(b)
		}
	}
	return acc*31 + uint64(uint32(q.questionID))
}

func (q Question) String() string {
	return fmt.Sprintf("question %d %s -> %s by %s about %s %s",
		q.questionID, q.questionKind.Name(), q.answerKind.Name(), q.handlerKind.Name(), q.original, q.metadata)
}

// Answer carries the externally supplied response to a Question.
type Answer struct {
	answerKind kinds.Kind
	metadata   *checkresult.Metadata
}

// NewAnswer builds an Answer of the given kind. The metadata is cloned.
func NewAnswer(answerKind kinds.Kind, md *checkresult.Metadata) Answer {
	return Answer{answerKind: answerKind, metadata: md.Clone()}
}

func (a Answer) AnswerKind() kinds.Kind { return a.answerKind }

func (a Answer) Metadata() *checkresult.Metadata { return a.metadata }
