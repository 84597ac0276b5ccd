package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an entity identity on the wire. Locally created entities carry
// string ids; once the backend confirms an entity its id becomes numeric.
// ID accepts both JSON strings and JSON numbers and marshals integer ids
// back as numbers.
type ID string

// Numeric reports whether the id is a backend-assigned integer id.
func (id ID) Numeric() (int64, bool) {
	if id == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 || strconv.FormatInt(n, 10) != string(id) {
		return 0, false
	}
	return n, true
}

// IDFromInt returns the wire id of a backend identity.
func IDFromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Numeric(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = IDFromInt(i)
		return nil
	}
	*id = ID(n.String())
	return nil
}
