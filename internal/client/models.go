package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque note identifier assigned by the notes service. Services
// that use numeric keys are accepted too; the number is kept as its decimal
// text.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("note id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Note is also the body of a full update, so every field is always sent.
type Note struct {
	ID       ID     `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPinned bool   `json:"is_pinned"`
}

type createRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Patch is a partial update. Nil fields are left out of the request body.
type Patch struct {
	ID       ID      `json:"id"`
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	IsPinned *bool   `json:"is_pinned,omitempty"`
}

// PinPatch builds the body sent when pinning or unpinning a note.
func PinPatch(id ID, pinned bool) Patch {
	return Patch{ID: id, IsPinned: &pinned}
}
