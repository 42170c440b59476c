package store

// Scope carries the owner every scoped query filters on. It is always
// derived from the authenticated caller, never from request input.
type Scope struct {
	OwnerID uint
}

func OwnedBy(ownerID uint) Scope {
	return Scope{OwnerID: ownerID}
}

func (s Scope) Valid() bool {
	return s.OwnerID != 0
}

// Patch maps column names to new values. Only present columns are written.
type Patch map[string]any

// Set adds column when v is non-nil.
func Set[V any](p Patch, column string, v *V) {
	if v != nil {
		p[column] = *v
	}
}

func (p Patch) without(columns ...string) Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, c := range columns {
		delete(out, c)
	}
	return out
}
