package analyze

import "caster-planner/internal/common"

// CollectionKind is the shape of a sequence or map type.
type CollectionKind int

const (
	CollectionNone CollectionKind = iota
	CollectionSlice
	CollectionArray
	CollectionList          // growable list with an add operation
	CollectionSet           // set with an add operation
	CollectionImmutableList // built in one expression
	CollectionImmutableSet  // built in one expression
	CollectionSequence      // read-only enumerable
	CollectionMap
	CollectionImmutableMap
	CollectionReadOnlyMap
)

// String returns a human-readable representation of the CollectionKind.
func (k CollectionKind) String() string {
	switch k {
	case CollectionNone:
		return "none"
	case CollectionSlice:
		return "slice"
	case CollectionArray:
		return "array"
	case CollectionList:
		return "list"
	case CollectionSet:
		return "set"
	case CollectionImmutableList:
		return "immutable_list"
	case CollectionImmutableSet:
		return "immutable_set"
	case CollectionSequence:
		return "sequence"
	case CollectionMap:
		return "map"
	case CollectionImmutableMap:
		return "immutable_map"
	case CollectionReadOnlyMap:
		return "read_only_map"
	default:
		return common.UnknownStr
	}
}

// IsMap reports whether the kind is keyed.
func (k CollectionKind) IsMap() bool {
	return k == CollectionMap || k == CollectionImmutableMap || k == CollectionReadOnlyMap
}

// IsImmutable reports whether instances cannot be modified after construction.
func (k CollectionKind) IsImmutable() bool {
	return k == CollectionImmutableList || k == CollectionImmutableSet || k == CollectionImmutableMap
}

// CanAdd reports whether elements can be added to an existing instance.
func (k CollectionKind) CanAdd() bool {
	switch k {
	case CollectionSlice, CollectionList, CollectionSet, CollectionMap:
		return true
	default:
		return false
	}
}

// CollectionInfo describes how a collection type is counted, grown and filled.
// Empty operation names fall back to the defaults of the kind.
type CollectionInfo struct {
	Kind CollectionKind
	// AddMethod appends one element (or sets one entry for maps).
	AddMethod string
	// CountMember yields the element count without enumerating.
	CountMember string
	// CapacityMethod reserves room for a number of elements.
	CapacityMethod string
	// FromSequence builds an instance from a sequence in one call.
	FromSequence string
	// NonEnumeratedCount is true when the count can be obtained cheaply
	// even though the static type does not expose one.
	NonEnumeratedCount bool
}

// Add returns the add operation name.
func (c *CollectionInfo) Add() string {
	if c.AddMethod != "" {
		return c.AddMethod
	}

	switch c.Kind {
	case CollectionSlice:
		return "append"
	case CollectionMap:
		return "[]="
	case CollectionList, CollectionSet:
		return "Add"
	default:
		return ""
	}
}

// Count returns the count member, or "" when the count is not known statically.
func (c *CollectionInfo) Count() string {
	if c.CountMember != "" {
		return c.CountMember
	}

	switch c.Kind {
	case CollectionSlice, CollectionArray, CollectionMap, CollectionReadOnlyMap:
		return "len"
	case CollectionList, CollectionSet, CollectionImmutableList, CollectionImmutableSet, CollectionImmutableMap:
		return "Count"
	default:
		return ""
	}
}

// Capacity returns the capacity reservation operation, or "".
func (c *CollectionInfo) Capacity() string {
	if c.CapacityMethod != "" {
		return c.CapacityMethod
	}

	switch c.Kind {
	case CollectionSlice:
		return "slices.Grow"
	case CollectionMap:
		return "make"
	default:
		return ""
	}
}

// BulkConstructor returns the one-call constructor from a sequence, or "".
func (c *CollectionInfo) BulkConstructor() string {
	if c.FromSequence != "" {
		return c.FromSequence
	}

	switch c.Kind {
	case CollectionSlice:
		return "slices.Clone"
	case CollectionMap:
		return "maps.Clone"
	default:
		return ""
	}
}
