package ghclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spiffcs/pulse/internal/log"
)

// ErrEmptyResponse is returned when a fetch produced no output at all.
var ErrEmptyResponse = errors.New("empty response")

// DecodeDocuments parses paginated output made of one or more concatenated
// JSON documents. Array documents are flattened and object documents are
// appended, preserving order. A malformed document ends decoding: the records
// decoded so far are kept and a warning is logged. If no record was decoded
// before the malformed document an error is returned.
func DecodeDocuments(raw []byte) ([]json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyResponse
	}

	records := []json.RawMessage{}
	decoded := 0

	dec := json.NewDecoder(bytes.NewReader(raw))
	for {
		var doc json.RawMessage
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err == nil {
			decoded++
			records, err = appendDocument(records, doc)
		}
		if err != nil {
			if len(records) == 0 {
				return nil, fmt.Errorf("decoding response: %w", err)
			}
			log.Warn("response partially decoded", "documents", decoded, "records", len(records), "error", err)
			break
		}
	}

	return records, nil
}

// appendDocument flattens an array document into records or appends any
// other document as a single record.
func appendDocument(records []json.RawMessage, doc json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 {
		return records, nil
	}
	if trimmed[0] != '[' {
		return append(records, doc), nil
	}

	var page []json.RawMessage
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return records, fmt.Errorf("decoding array document: %w", err)
	}
	return append(records, page...), nil
}
