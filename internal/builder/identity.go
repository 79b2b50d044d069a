package builder

import "github.com/google/uuid"

// IDSource hands out node ids.
type IDSource interface {
	NewID() string
}

// Identity issues UUIDs and remembers every id it has issued or observed, so
// an id is never handed out twice within one editing session, even after the
// node that carried it was deleted.
type Identity struct {
	source IDSource
	seen   map[string]struct{}
}

type uuidSource struct{}

func (uuidSource) NewID() string { return uuid.NewString() }

// NewIdentity returns an identity layer backed by random v4 UUIDs.
func NewIdentity() *Identity {
	return NewIdentityWithSource(uuidSource{})
}

// NewIdentityWithSource is used by tests that need predictable ids.
func NewIdentityWithSource(src IDSource) *Identity {
	return &Identity{source: src, seen: make(map[string]struct{})}
}

// Next returns a fresh id.
func (i *Identity) Next() string {
	for {
		id := i.source.NewID()
		if _, dup := i.seen[id]; !dup {
			i.seen[id] = struct{}{}
			return id
		}
	}
}

// Observe records an id that entered the tree from outside (hydration).
func (i *Identity) Observe(id string) {
	if id != "" {
		i.seen[id] = struct{}{}
	}
}

// Issued reports whether id was ever issued or observed.
func (i *Identity) Issued(id string) bool {
	_, ok := i.seen[id]
	return ok
}
