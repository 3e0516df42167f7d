package domain

import (
	"strconv"
)

// Identity is a stable, platform-supplied token for a filesystem object that
// survives a rename. On Unix systems it is the inode number.
type Identity uint64

// String returns the decimal form of the identity.
func (i Identity) String() string {
	return strconv.FormatUint(uint64(i), 10)
}

// OptionalIdentity is an Identity that may be absent.
type OptionalIdentity struct {
	Value Identity
	Valid bool
}

// NoIdentity is the absent identity.
var NoIdentity = OptionalIdentity{}

// SomeIdentity wraps a known identity.
func SomeIdentity(id Identity) OptionalIdentity {
	return OptionalIdentity{Value: id, Valid: true}
}

// OptionalOf builds an OptionalIdentity from a comma-ok lookup.
func OptionalOf(id Identity, ok bool) OptionalIdentity {
	if !ok {
		return NoIdentity
	}
	return SomeIdentity(id)
}

// Get returns the identity and whether it is present.
func (o OptionalIdentity) Get() (Identity, bool) {
	return o.Value, o.Valid
}

// String returns the identity in decimal, or "-" when absent.
func (o OptionalIdentity) String() string {
	if !o.Valid {
		return "-"
	}
	return o.Value.String()
}

// MarshalJSON encodes an absent identity as null.
func (o OptionalIdentity) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendUint(nil, uint64(o.Value), 10), nil
}

// UnmarshalJSON decodes null as an absent identity.
func (o *OptionalIdentity) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = NoIdentity
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*o = SomeIdentity(Identity(v))
	return nil
}
