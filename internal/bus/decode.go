package bus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/notification"
	"github.com/cristianoliveira/practice-alerts/internal/store"
)

var (
	// ErrUnknownAction is returned for an action type outside the known set.
	ErrUnknownAction = errors.New("unknown action type")

	// ErrInvalidPayload is returned when an action's JSON or payload cannot be decoded.
	ErrInvalidPayload = errors.New("invalid action payload")
)

type wireAction struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wireUpdate struct {
	ID      string               `json:"id"`
	Updates notification.Updates `json:"updates"`
}

// DecodeAction parses a JSON action such as
//
//	{"type":"MARK_AS_READ","payload":"n-1"}
//
// into a store action. now stamps added notifications that carry no timestamp.
func DecodeAction(data []byte, now time.Time) (store.Action, error) {
	var w wireAction
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch w.Type {
	case store.NameAdd:
		var n notification.Notification
		if err := decodePayload(w, &n); err != nil {
			return nil, err
		}
		dn, err := notification.ToDomain(n, now)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, w.Type, err)
		}
		return store.Add{Notification: dn}, nil

	case store.NameMarkRead:
		var id string
		if err := decodePayload(w, &id); err != nil {
			return nil, err
		}
		return store.MarkRead{ID: id}, nil

	case store.NameUpdate:
		var u wireUpdate
		if err := decodePayload(w, &u); err != nil {
			return nil, err
		}
		patch, err := notification.ToPatch(u.Updates)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, w.Type, err)
		}
		return store.Update{ID: u.ID, Patch: patch}, nil

	case store.NameMarkAllRead:
		return store.MarkAllRead{}, nil

	case store.NameRemove:
		var id string
		if err := decodePayload(w, &id); err != nil {
			return nil, err
		}
		return store.Remove{ID: id}, nil

	case store.NameClearAll:
		return store.ClearAll{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, w.Type)
	}
}

func decodePayload(w wireAction, v any) error {
	if len(w.Payload) == 0 || bytes.Equal(w.Payload, []byte("null")) {
		return fmt.Errorf("%w: %s: missing payload", ErrInvalidPayload, w.Type)
	}
	if err := json.Unmarshal(w.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, w.Type, err)
	}
	return nil
}

// EncodeAction renders action in the same JSON shape DecodeAction accepts.
func EncodeAction(action store.Action) ([]byte, error) {
	w := wireAction{}
	var payload any
	switch a := action.(type) {
	case store.Add:
		w.Type = store.NameAdd
		payload = notification.FromDomain(a.Notification)
	case store.MarkRead:
		w.Type = store.NameMarkRead
		payload = a.ID
	case store.Update:
		w.Type = store.NameUpdate
		payload = wireUpdate{ID: a.ID, Updates: notification.FromPatch(a.Patch)}
	case store.MarkAllRead:
		w.Type = store.NameMarkAllRead
	case store.Remove:
		w.Type = store.NameRemove
		payload = a.ID
	case store.ClearAll:
		w.Type = store.NameClearAll
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		w.Payload = raw
	}
	return json.Marshal(w)
}
