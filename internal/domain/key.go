package domain

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Entity kinds used in keys.
const (
	KindProfile    = "Profile"
	KindConference = "Conference"
	KindSession    = "Session"
	KindSpeaker    = "Speaker"
)

// Key is a hierarchical entity key. A conference is keyed under its
// organizer's profile and a session under its conference.
type Key struct {
	Kind   string
	ID     string
	Parent *Key
}

// NewKey returns a key of the given kind and id scoped under parent (nil for root keys).
func NewKey(kind, id string, parent *Key) *Key {
	return &Key{Kind: kind, ID: id, Parent: parent}
}

// AllocateKey returns a new key with a random id under parent.
func AllocateKey(kind string, parent *Key) *Key {
	return NewKey(kind, uuid.NewString(), parent)
}

// ProfileKey returns the root key of a user's profile.
func ProfileKey(userID string) *Key {
	return NewKey(KindProfile, userID, nil)
}

// Path renders the key as "Kind:ID/Kind:ID", root first.
func (k *Key) Path() string {
	var parts []string
	for cur := k; cur != nil; cur = cur.Parent {
		parts = append(parts, url.PathEscape(cur.Kind)+":"+url.PathEscape(cur.ID))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Encode returns the websafe form of the key.
func (k *Key) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(k.Path()))
}

func (k *Key) String() string {
	return k.Path()
}

// IsAncestorOf reports whether k is a strict ancestor of other.
func (k *Key) IsAncestorOf(other *Key) bool {
	path := k.Path()
	for cur := other.Parent; cur != nil; cur = cur.Parent {
		if cur.Path() == path {
			return true
		}
	}
	return false
}

// DecodeKey parses a websafe key. Malformed input yields ErrInvalidInput.
func DecodeKey(websafe string) (*Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(websafe))
	if err != nil || len(raw) == 0 {
		return nil, fmt.Errorf("%w: malformed key %q", ErrInvalidInput, websafe)
	}
	var key *Key
	for _, part := range strings.Split(string(raw), "/") {
		kind, id, ok := strings.Cut(part, ":")
		if !ok || kind == "" || id == "" {
			return nil, fmt.Errorf("%w: malformed key %q", ErrInvalidInput, websafe)
		}
		kind, err1 := url.PathUnescape(kind)
		id, err2 := url.PathUnescape(id)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: malformed key %q", ErrInvalidInput, websafe)
		}
		key = NewKey(kind, id, key)
	}
	return key, nil
}

// DecodeKeyOfKind parses a websafe key and checks its kind.
func DecodeKeyOfKind(websafe, kind string) (*Key, error) {
	key, err := DecodeKey(websafe)
	if err != nil {
		return nil, err
	}
	if key.Kind != kind {
		return nil, fmt.Errorf("%w: key %q is a %s key, want %s", ErrInvalidInput, websafe, key.Kind, kind)
	}
	return key, nil
}
