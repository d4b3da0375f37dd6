package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/hierarchy"
	"a11ycheck/internal/kinds"
	"a11ycheck/internal/question"
)

func malformed(what string) error {
	return fmt.Errorf("malformed %s message", what)
}

// resolveKind resolves a serialized kind name and verifies it resolves to
// the expected class. An unregistered name surfaces the registry's
// *kinds.UnknownKindError unwrapped so callers can inspect the name.
func resolveKind(reg *kinds.Registry, name string, want kinds.Class) (kinds.Kind, error) {
	k, err := reg.Resolve(name)
	if err != nil {
		return kinds.Kind{}, err
	}
	if k.Class() != want {
		return kinds.Kind{}, fmt.Errorf("kind %q is registered as %s, want %s", name, k.Class(), want)
	}
	return k, nil
}

func consumeString(b []byte) (string, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return "", n, protowire.ParseError(n)
	}
	return string(v), n, nil
}

func unmarshalMetadata(b []byte) (*checkresult.Metadata, error) {
	md := checkresult.NewMetadata()
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, malformed("metadata")
		}
		b = b[n:]
		if num != mdFieldEntry || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, malformed("metadata")
			}
			b = b[n:]
			continue
		}
		entry, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, malformed("metadata")
		}
		b = b[n:]
		if err := unmarshalMetadataEntry(md, entry); err != nil {
			return nil, err
		}
	}
	return md, nil
}

func unmarshalMetadataEntry(md *checkresult.Metadata, b []byte) error {
	var key string
	var haveKey bool
	var put func() error

	var list []string

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return malformed("metadata entry")
		}
		b = b[n:]

		switch num {
		case mdEntryFieldKey:
			v, n, err := consumeString(b)
			if err != nil {
				return malformed("metadata entry")
			}
			b = b[n:]
			key, haveKey = v, true
		case mdEntryFieldString:
			v, n, err := consumeString(b)
			if err != nil {
				return malformed("metadata entry")
			}
			b = b[n:]
			put = func() error { return md.PutString(key, v) }
		case mdEntryFieldInt:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return malformed("metadata entry")
			}
			b = b[n:]
			i := protowire.DecodeZigZag(v)
			put = func() error { return md.PutInt(key, i) }
		case mdEntryFieldBool:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return malformed("metadata entry")
			}
			b = b[n:]
			flag := v != 0
			put = func() error { return md.PutBool(key, flag) }
		case mdEntryFieldStringList:
			v, n, err := consumeString(b)
			if err != nil {
				return malformed("metadata entry")
			}
			b = b[n:]
			list = append(list, v)
			put = func() error { return md.PutStringList(key, list) }
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return malformed("metadata entry")
			}
			b = b[n:]
		}
	}

	if !haveKey || put == nil {
		return malformed("metadata entry")
	}
	return put()
}

// UnmarshalResult decodes one Result, resolving its check kind through reg.
func UnmarshalResult(b []byte, reg *kinds.Registry) (checkresult.Result, error) {
	var (
		checkKindName  string
		classification checkresult.Classification
		elementID      = hierarchy.NoElement
		resultID       int32
		md             *checkresult.Metadata
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return checkresult.Result{}, malformed("result")
		}
		b = b[n:]

		switch num {
		case resultFieldCheckKind:
			v, n, err := consumeString(b)
			if err != nil {
				return checkresult.Result{}, malformed("result")
			}
			b = b[n:]
			checkKindName = v
		case resultFieldClassification:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return checkresult.Result{}, malformed("result")
			}
			b = b[n:]
			classification = checkresult.Classification(v)
			if !classification.Valid() {
				return checkresult.Result{}, fmt.Errorf("unknown classification %d", v)
			}
		case resultFieldElementID:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return checkresult.Result{}, malformed("result")
			}
			b = b[n:]
			elementID = protowire.DecodeZigZag(v)
		case resultFieldResultID:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return checkresult.Result{}, malformed("result")
			}
			b = b[n:]
			resultID = int32(v)
		case resultFieldMetadata:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return checkresult.Result{}, malformed("result")
			}
			b = b[n:]
			parsed, err := unmarshalMetadata(v)
			if err != nil {
				return checkresult.Result{}, err
			}
			md = parsed
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return checkresult.Result{}, malformed("result")
			}
			b = b[n:]
		}
	}

	checkKind, err := resolveKind(reg, checkKindName, kinds.ClassCheck)
	if err != nil {
		return checkresult.Result{}, err
	}
	return checkresult.New(checkKind, classification, elementID, resultID, md), nil
}

// UnmarshalQuestion decodes one Question, resolving all of its kinds
// through reg.
func UnmarshalQuestion(b []byte, reg *kinds.Registry) (question.Question, error) {
	var (
		questionID                                     int32
		questionKindName, answerKindName, handlerKName string
		resultBytes                                    []byte
		haveResult                                     bool
		md                                             *checkresult.Metadata
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return question.Question{}, malformed("question")
		}
		b = b[n:]

		switch num {
		case questionFieldID:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return question.Question{}, malformed("question")
			}
			b = b[n:]
			questionID = int32(v)
		case questionFieldQuestionKind:
			v, n, err := consumeString(b)
			if err != nil {
				return question.Question{}, malformed("question")
			}
			b = b[n:]
			questionKindName = v
		case questionFieldAnswerKind:
			v, n, err := consumeString(b)
			if err != nil {
				return question.Question{}, malformed("question")
			}
			b = b[n:]
			answerKindName = v
		case questionFieldHandlerKind:
			v, n, err := consumeString(b)
			if err != nil {
				return question.Question{}, malformed("question")
			}
			b = b[n:]
			handlerKName = v
		case questionFieldResult:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return question.Question{}, malformed("question")
			}
			b = b[n:]
			resultBytes, haveResult = v, true
		case questionFieldMetadata:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return question.Question{}, malformed("question")
			}
			b = b[n:]
			parsed, err := unmarshalMetadata(v)
			if err != nil {
				return question.Question{}, err
			}
			md = parsed
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return question.Question{}, malformed("question")
			}
			b = b[n:]
		}
	}

	questionKind, err := resolveKind(reg, questionKindName, kinds.ClassQuestion)
	if err != nil {
		return question.Question{}, err
	}
	answerKind, err := resolveKind(reg, answerKindName, kinds.ClassAnswer)
	if err != nil {
		return question.Question{}, err
	}
	handlerKind, err := resolveKind(reg, handlerKName, kinds.ClassHandler)
	if err != nil {
		return question.Question{}, err
	}
	if !haveResult {
		return question.Question{}, malformed("question")
	}
	original, err := UnmarshalResult(resultBytes, reg)
	if err != nil {
		return question.Question{}, err
	}

	return question.NewForHandlerKind(questionID, questionKind, answerKind, handlerKind, original, md), nil
}
