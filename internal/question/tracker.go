package question

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/looplab/fsm"

	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/kinds"
)

// Lifecycle states and events for a tracked question.
const (
	StateOpen      = "open"
	StateAnswered  = "answered"
	StateResolved  = "resolved"
	StateDiscarded = "discarded"

	eventAnswer  = "answer"
	eventResolve = "resolve"
	eventDiscard = "discard"
)

// Resolver turns a question plus its answer into a refined result, e.g.
// downgrading a WARNING confirmed to be a false positive.
type Resolver interface {
	Resolve(q Question, a Answer) (checkresult.Result, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(q Question, a Answer) (checkresult.Result, error)

func (f ResolverFunc) Resolve(q Question, a Answer) (checkresult.Result, error) {
	return f(q, a)
}

type questionKey struct {
	handler string
	id      int32
}

type tracked struct {
	question Question
	machine  *fsm.FSM
	answer   Answer
}

// Tracker follows questions from asked to resolved. Answers typically arrive
// from another process after the original evaluation finished, so the
// tracker addresses questions by (handler kind, question ID) rather than by
// holding live handler instances.
type Tracker struct {
	mu        sync.Mutex
	questions map[questionKey]*tracked
}

func NewTracker() *Tracker {
	return &Tracker{questions: make(map[questionKey]*tracked)}
}

func newLifecycle() *fsm.FSM {
	return fsm.NewFSM(
		StateOpen,
		fsm.Events{
			{Name: eventAnswer, Src: []string{StateOpen}, Dst: StateAnswered},
			{Name: eventResolve, Src: []string{StateAnswered}, Dst: StateResolved},
			{Name: eventDiscard, Src: []string{StateOpen, StateAnswered}, Dst: StateDiscarded},
		},
		fsm.Callbacks{},
	)
}

func keyFor(handlerKind kinds.Kind, questionID int32) questionKey {
	return questionKey{handler: handlerKind.Name(), id: questionID}
}

// Ask registers a question as open. A handler must not reuse a question ID
// it already has in flight.
func (t *Tracker) Ask(q Question) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := keyFor(q.HandlerKind(), q.QuestionID())
	if _, exists := t.questions[k]; exists {
		return fmt.Errorf("question %d already tracked for handler %q", q.QuestionID(), q.HandlerKind().Name())
	}
	t.questions[k] = &tracked{question: q, machine: newLifecycle()}
	return nil
}

func (t *Tracker) find(handlerKind kinds.Kind, questionID int32) (*tracked, error) {
	tr, ok := t.questions[keyFor(handlerKind, questionID)]
	if !ok {
		return nil, fmt.Errorf("no tracked question %d for handler %q", questionID, handlerKind.Name())
	}
	return tr, nil
}

// Answer records the external response to an open question. The answer kind
// must match what the question declared it expects.
func (t *Tracker) Answer(ctx context.Context, handlerKind kinds.Kind, questionID int32, a Answer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr, err := t.find(handlerKind, questionID)
	if err != nil {
		return err
	}
	if a.AnswerKind() != tr.question.AnswerKind() {
		return fmt.Errorf("answer kind %q does not match expected %q",
			a.AnswerKind().Name(), tr.question.AnswerKind().Name())
	}
	if err := tr.machine.Event(ctx, eventAnswer); err != nil {
		return fmt.Errorf("answer question %d: %w", questionID, err)
	}
	tr.answer = a
	return nil
}

// Resolve applies the resolver to an answered question and returns the
// refined result. The question leaves the answered state only if the
// resolver succeeds.
func (t *Tracker) Resolve(ctx context.Context, handlerKind kinds.Kind, questionID int32, r Resolver) (checkresult.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr, err := t.find(handlerKind, questionID)
	if err != nil {
		return checkresult.Result{}, err
	}
	if !tr.machine.Is(StateAnswered) {
		return checkresult.Result{}, fmt.Errorf("question %d is %s, not %s", questionID, tr.machine.Current(), StateAnswered)
	}
	refined, err := r.Resolve(tr.question, tr.answer)
	if err != nil {
		return checkresult.Result{}, fmt.Errorf("resolve question %d: %w", questionID, err)
	}
	if err := tr.machine.Event(ctx, eventResolve); err != nil {
		return checkresult.Result{}, fmt.Errorf("resolve question %d: %w", questionID, err)
	}
	return refined, nil
}

// Discard abandons an open or answered question, e.g. when the caller no
// longer cares about the verdict.
func (t *Tracker) Discard(ctx context.Context, handlerKind kinds.Kind, questionID int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr, err := t.find(handlerKind, questionID)
	if err != nil {
		return err
	}
	if err := tr.machine.Event(ctx, eventDiscard); err != nil {
		return fmt.Errorf("discard question %d: %w", questionID, err)
	}
	return nil
}

// State reports the lifecycle state of a tracked question.
func (t *Tracker) State(handlerKind kinds.Kind, questionID int32) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr, err := t.find(handlerKind, questionID)
	if err != nil {
		return "", false
	}
	return tr.machine.Current(), true
}

// Open returns the questions still awaiting an answer, ordered by handler
// kind then question ID.
func (t *Tracker) Open() []Question {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Question
	for _, tr := range t.questions {
		if tr.machine.Is(StateOpen) {
			out = append(out, tr.question)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HandlerKind().Name() != out[j].HandlerKind().Name() {
			return out[i].HandlerKind().Name() < out[j].HandlerKind().Name()
		}
		return out[i].QuestionID() < out[j].QuestionID()
	})
	return out
}
