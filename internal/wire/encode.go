// Package wire converts results, metadata, and questions to and from a
// compact binary message format so they can cross a process or storage
// boundary and be reconstructed losslessly. Extensible kinds are recorded by
// name and resolved back through a kind registry on decode.
package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"a11ycheck/internal/checkresult"
	"a11ycheck/internal/question"
)

// Field numbers. These are the wire contract; never renumber.
const (
	mdEntryFieldKey        = 1
	mdEntryFieldString     = 2
	mdEntryFieldInt        = 3
	mdEntryFieldBool       = 4
	mdEntryFieldStringList = 5

	mdFieldEntry = 1

	resultFieldCheckKind      = 1
	resultFieldClassification = 2
	resultFieldElementID      = 3
	resultFieldResultID       = 4
	resultFieldMetadata       = 5

	questionFieldID           = 1
	questionFieldQuestionKind = 2
	questionFieldAnswerKind   = 3
	questionFieldHandlerKind  = 4
	questionFieldResult       = 5
	questionFieldMetadata     = 6
)

func appendMetadata(b []byte, md *checkresult.Metadata) []byte {
	// Keys are walked in sorted order so equal metadata always encodes to
	// identical bytes.
	for _, key := range md.Keys() {
		entry := protowire.AppendTag(nil, mdEntryFieldKey, protowire.BytesType)
		entry = protowire.AppendString(entry, key)

		typ, _ := md.TypeOf(key)
		switch typ {
		case checkresult.TypeString:
			v, _, _ := md.GetString(key)
			entry = protowire.AppendTag(entry, mdEntryFieldString, protowire.BytesType)
			entry = protowire.AppendString(entry, v)
		case checkresult.TypeInt:
			v, _, _ := md.GetInt(key)
			entry = protowire.AppendTag(entry, mdEntryFieldInt, protowire.VarintType)
			entry = protowire.AppendVarint(entry, protowire.EncodeZigZag(v))
		case checkresult.TypeBool:
			v, _, _ := md.GetBool(key)
			entry = protowire.AppendTag(entry, mdEntryFieldBool, protowire.VarintType)
			if v {
				entry = protowire.AppendVarint(entry, 1)
			} else {
				entry = protowire.AppendVarint(entry, 0)
			}
		case checkresult.TypeStringList:
			v, _, _ := md.GetStringList(key)
			for _, s := range v {
				entry = protowire.AppendTag(entry, mdEntryFieldStringList, protowire.BytesType)
				entry = protowire.AppendString(entry, s)
			}
		}

		b = protowire.AppendTag(b, mdFieldEntry, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}

// AppendResult encodes r and appends it to b.
func AppendResult(b []byte, r checkresult.Result) []byte {
	b = protowire.AppendTag(b, resultFieldCheckKind, protowire.BytesType)
	b = protowire.AppendString(b, r.CheckKind().Name())

	b = protowire.AppendTag(b, resultFieldClassification, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.Classification()))

	b = protowire.AppendTag(b, resultFieldElementID, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(r.ElementID()))

	b = protowire.AppendTag(b, resultFieldResultID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(uint32(r.ResultID())))

	// The metadata field is written only when metadata is present, so
	// absence survives the round trip; an empty-but-present instance is an
	// empty (but written) submessage.
	if md := r.Metadata(); md != nil {
		b = protowire.AppendTag(b, resultFieldMetadata, protowire.BytesType)
		b = protowire.AppendBytes(b, appendMetadata(nil, md))
	}
	return b
}

// MarshalResult encodes r as one binary message.
func MarshalResult(r checkresult.Result) []byte {
	return AppendResult(nil, r)
}

// AppendQuestion encodes q and appends it to b.
func AppendQuestion(b []byte, q question.Question) []byte {
	b = protowire.AppendTag(b, questionFieldID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(uint32(q.QuestionID())))

	b = protowire.AppendTag(b, questionFieldQuestionKind, protowire.BytesType)
	b = protowire.AppendString(b, q.QuestionKind().Name())

	b = protowire.AppendTag(b, questionFieldAnswerKind, protowire.BytesType)
	b = protowire.AppendString(b, q.AnswerKind().Name())

	b = protowire.AppendTag(b, questionFieldHandlerKind, protowire.BytesType)
	b = protowire.AppendString(b, q.HandlerKind().Name())

	b = protowire.AppendTag(b, questionFieldResult, protowire.BytesType)
	b = protowire.AppendBytes(b, MarshalResult(q.OriginalResult()))

	if md := q.Metadata(); md != nil {
		b = protowire.AppendTag(b, questionFieldMetadata, protowire.BytesType)
		b = protowire.AppendBytes(b, appendMetadata(nil, md))
	}
	return b
}

// MarshalQuestion encodes q as one binary message.
func MarshalQuestion(q question.Question) []byte {
	return AppendQuestion(nil, q)
}
