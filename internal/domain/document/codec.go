package document

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

var ErrMalformed = errors.New("malformed tournament document")

// JSON is the codec used for the document and for records decoded from it.
// Whole numbers decode as int64 so ids survive a read-modify-write cycle.
var JSON = sonic.Config{
	SortMapKeys:      true,
	EscapeHTML:       false,
	UseInt64:         true,
	CompactMarshaler: true,
}.Froze()

// Parse decodes a tournament document. The root must be a JSON object; missing
// collections are filled in with empty ones.
func Parse(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Document{}, fmt.Errorf("%w: root is not an object", ErrMalformed)
	}

	var doc Document
	if err := JSON.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc.Normalize()
	return doc, nil
}

// Encode returns the compact JSON form of doc.
func Encode(doc Document) ([]byte, error) {
	doc.Normalize()
	return JSON.Marshal(doc)
}

// EncodeIndent returns doc pretty-printed with two-space indentation, the
// form written to the content repository.
func EncodeIndent(doc Document) ([]byte, error) {
	doc.Normalize()
	return JSON.MarshalIndent(doc, "", "  ")
}

// Clone returns a deep copy of doc by round-tripping it through the codec.
func Clone(doc Document) (Document, error) {
	raw, err := Encode(doc)
	if err != nil {
		return Document{}, fmt.Errorf("encode document: %w", err)
	}
	return Parse(raw)
}

// DecodeRecord converts an arbitrary JSON-shaped value, for example a decoded
// request body, into a Record.
func DecodeRecord(value any) (Record, error) {
	switch v := value.(type) {
	case nil:
		return Record{}, nil
	case Record:
		return v.Clone(), nil
	case map[string]any:
		return Record(v).Clone(), nil
	}

	raw, err := JSON.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var out Record
	if err := JSON.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: record is not an object", ErrMalformed)
	}
	if out == nil {
		out = Record{}
	}
	return out, nil
}
