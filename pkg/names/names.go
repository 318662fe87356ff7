// Package names materializes the symbolic names of shared-memory objects.
//
// Both the primary (at creation time) and every secondary (at lookup time)
// run the same materialization, so two processes that agree on a role and a
// base name agree on the object.
package names

import "strings"

// Role identifies which side of the dataplane a process plays. The primary
// roles create pools and rings; the plain roles only look them up.
type Role int

const (
	PrimaryUE Role = iota
	PrimaryGNB
	UE
	GNB
)

var roleStrings = map[Role]string{
	PrimaryUE:  "primary-ue",
	PrimaryGNB: "primary-gnb",
	UE:         "ue",
	GNB:        "gnb",
}

// String returns the configuration spelling of the role.
func (r Role) String() string {
	if s, ok := roleStrings[r]; ok {
		return s
	}
	return "unknown"
}

// ParseRole converts a configuration string into a Role.
func ParseRole(s string) (Role, bool) {
	for r, str := range roleStrings {
		if str == s {
			return r, true
		}
	}
	return 0, false
}

// IsPrimary reports whether the role may create shared-memory objects.
func (r Role) IsPrimary() bool {
	return r == PrimaryUE || r == PrimaryGNB
}

// Prefix returns the short role tag used when prefixing object names.
// Primary roles share the tag of their secondary counterpart so that both
// sides of a pair resolve the same materialized name.
func (r Role) Prefix() string {
	switch r {
	case PrimaryUE, UE:
		return "ue"
	case PrimaryGNB, GNB:
		return "gnb"
	}
	return ""
}

// Policy controls how base names from the configuration become the names
// registered in shared memory.
type Policy struct {
	PrefixWithRole bool
	Separator      string
}

// Materialize produces the shared-memory object name for a base name under
// the given role. The output is deterministic: the same (role, base) pair
// yields byte-identical names in every process.
func (p Policy) Materialize(role Role, base string) string {
	if !p.PrefixWithRole {
		return base
	}
	sep := p.Separator
	if sep == "" {
		sep = "_"
	}
	var b strings.Builder
	b.Grow(len(role.Prefix()) + len(sep) + len(base))
	b.WriteString(role.Prefix())
	b.WriteString(sep)
	b.WriteString(base)
	return b.String()
}
