package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a server-assigned record identifier. Clients never mint one.
type ID string

// UnmarshalJSON accepts both string ids ("7") and numeric ids (7), since
// collection backends disagree on which they emit.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Record is anything stored in a remote collection.
type Record interface {
	RecordID() ID
}
