package plan

import (
	"caster-planner/internal/analyze"
	"caster-planner/internal/common"
	"caster-planner/internal/mapping"
	"caster-planner/internal/match"
)

// Kind identifies the strategy of a Plan.
type Kind int

const (
	KindUnknown Kind = iota
	KindDirectAssignment
	KindCast
	KindParse
	KindToString
	KindEnum
	KindCollection
	KindDictionary
	KindObject
	KindUserDefined
	KindDerivedDispatch
	KindNullWrapped
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindDirectAssignment:
		return "direct"
	case KindCast:
		return "cast"
	case KindParse:
		return "parse"
	case KindToString:
		return "to_string"
	case KindEnum:
		return "enum"
	case KindCollection:
		return "collection"
	case KindDictionary:
		return "dictionary"
	case KindObject:
		return "object"
	case KindUserDefined:
		return "user_defined"
	case KindDerivedDispatch:
		return "derived_dispatch"
	case KindNullWrapped:
		return "null_wrapped"
	default:
		return common.UnknownStr
	}
}

// Plan describes how one source type is converted to one target type.
// Every plan is self-sufficient to render; nested conversions are referenced
// through cells so that cyclic graphs stay finite.
type Plan interface {
	Kind() Kind
	Source() *analyze.TypeInfo
	Target() *analyze.TypeInfo
	isPlan()
}

// Types holds the source and target type of a plan.
type Types struct {
	From *analyze.TypeInfo
	To   *analyze.TypeInfo
}

// Source returns the source type.
func (t Types) Source() *analyze.TypeInfo { return t.From }

// Target returns the target type.
func (t Types) Target() *analyze.TypeInfo { return t.To }

func (Types) isPlan() {}

// DirectAssignment passes the source value through unchanged.
type DirectAssignment struct {
	Types
}

// Kind implements Plan.
func (*DirectAssignment) Kind() Kind { return KindDirectAssignment }

// Cast converts the source value with a language conversion or a user
// defined conversion operator.
type Cast struct {
	Types
	Conversion analyze.ConversionKind
	// Operator is set for user defined conversions.
	Operator *analyze.ConversionOp
}

// Kind implements Plan.
func (*Cast) Kind() Kind { return KindCast }

// ParseMapping parses a string into the target type.
type ParseMapping struct {
	Types
	// Func is the parse function of the target; empty for basic targets,
	// which are parsed by their kind.
	Func           string
	Basic          analyze.BasicKind
	Format         string
	FormatProvider string
}

// Kind implements Plan.
func (*ParseMapping) Kind() Kind { return KindParse }

// ToStringMapping formats the source value as a string.
type ToStringMapping struct {
	Types
	Format         string
	FormatProvider string
}

// Kind implements Plan.
func (*ToStringMapping) Kind() Kind { return KindToString }

// EnumDirection tells which sides of an enum mapping are enums.
type EnumDirection int

const (
	EnumToEnum EnumDirection = iota
	EnumToString
	StringToEnum
)

// String returns a human-readable representation of the EnumDirection.
func (d EnumDirection) String() string {
	switch d {
	case EnumToEnum:
		return "enum_to_enum"
	case EnumToString:
		return "enum_to_string"
	case StringToEnum:
		return "string_to_enum"
	default:
		return common.UnknownStr
	}
}

// EnumCase maps one source value to one target value. For string sources
// Source is the accepted string, for string targets Target is the produced one.
type EnumCase struct {
	Source string
	Target string
}

// EnumMapping converts between enums, or between an enum and its names.
type EnumMapping struct {
	Types
	Direction EnumDirection
	Strategy  mapping.EnumStrategy
	// Cases are tried in order. A by-value mapping only lists explicit overrides.
	Cases []EnumCase
	// Defined lists the target values accepted by a checked by-value mapping.
	Defined    []string
	IgnoreCase bool
	// Fallback is the target value of unmatched source values; unmatched
	// values raise a runtime error when empty.
	Fallback string
}

// Kind implements Plan.
func (*EnumMapping) Kind() Kind { return KindEnum }

// CollectionStrategy selects how a collection is built.
type CollectionStrategy int

const (
	// CollectionBulk builds the target from the source sequence in one call.
	CollectionBulk CollectionStrategy = iota
	// CollectionProjection maps every element in a single expression.
	CollectionProjection
	// CollectionForEachAdd creates the target and adds every mapped element.
	CollectionForEachAdd
	// CollectionArrayLoop fills an array by index.
	CollectionArrayLoop
	// CollectionExistingAdd adds every mapped element to an existing target.
	CollectionExistingAdd
)

// String returns a human-readable representation of the CollectionStrategy.
func (s CollectionStrategy) String() string {
	switch s {
	case CollectionBulk:
		return "bulk"
	case CollectionProjection:
		return "projection"
	case CollectionForEachAdd:
		return "foreach_add"
	case CollectionArrayLoop:
		return "array_loop"
	case CollectionExistingAdd:
		return "existing_add"
	default:
		return common.UnknownStr
	}
}

// EnsureCapacityHint pre-sizes a target before elements are added.
type EnsureCapacityHint struct {
	// TargetMethod reserves room on the target, e.g. "slices.Grow".
	TargetMethod string
	// SourceCount yields the number of source elements.
	SourceCount string
	// NonEnumerated is set when the count is only obtained at runtime
	// without enumerating the source.
	NonEnumerated bool
}

// CollectionLoop maps a sequence element by element.
type CollectionLoop struct {
	Types
	Strategy CollectionStrategy
	Element  *Cell
	// Operation is the bulk constructor or the add operation, depending on Strategy.
	Operation string
	Capacity  *EnsureCapacityHint
}

// Kind implements Plan.
func (*CollectionLoop) Kind() Kind { return KindCollection }

// DictionaryLoop maps a keyed map entry by entry.
type DictionaryLoop struct {
	Types
	Strategy  CollectionStrategy
	Key       *Cell
	Value     *Cell
	Operation string
	Capacity  *EnsureCapacityHint
}

// Kind implements Plan.
func (*DictionaryLoop) Kind() Kind { return KindDictionary }

// ConstructorArg passes a value to one constructor parameter.
type ConstructorArg struct {
	Param analyze.Param
	Value MemberAssignment
	// Named is set when an optional parameter before this one was skipped.
	Named bool
}

// MemberAssignment moves one value into a target member path.
type MemberAssignment struct {
	Target match.MemberPath
	Source match.MemberPath
	// Supplied names the extra mapping argument providing the value when
	// it is not read from the source.
	Supplied string
	Mapping  *Cell
	// Null adapts Mapping to nullable segments of Source; nil when no
	// segment before the final member is nullable.
	Null *NullWrapped
	// InPlace updates the value already present in the target member
	// with an existing-target mapping instead of assigning a new one.
	InPlace bool
}

// ObjectConstruction creates a target instance, or updates an existing
// one, and assigns its members.
type ObjectConstruction struct {
	Types
	// Constructor is nil when an existing target is updated.
	Constructor *analyze.Constructor
	CtorArgs    []ConstructorArg
	// Init lists members assigned while constructing.
	Init []MemberAssignment
	// Members lists members assigned after construction.
	Members           []MemberAssignment
	Existing          bool
	ReferenceHandling bool
}

// Kind implements Plan.
func (*ObjectConstruction) Kind() Kind { return KindObject }

// UserDefined calls a hand-written mapping function.
type UserDefined struct {
	Types
	Name           string
	ExistingTarget bool
}

// Kind implements Plan.
func (*UserDefined) Kind() Kind { return KindUserDefined }

// DefaultCase is the behaviour of a derived type dispatch for a runtime
// type without a case.
type DefaultCase int

const (
	ThrowUnknownDerivedType DefaultCase = iota
)

// String returns a human-readable representation of the DefaultCase.
func (d DefaultCase) String() string {
	switch d {
	case ThrowUnknownDerivedType:
		return "throw_unknown_derived_type"
	default:
		return common.UnknownStr
	}
}

// DerivedCase dispatches one runtime source type.
type DerivedCase struct {
	Source  *analyze.TypeInfo
	Target  *analyze.TypeInfo
	Mapping *Cell
	// AssignableCheck verifies at runtime that Target is assignable to an
	// open type parameter target.
	AssignableCheck bool
}

// DerivedTypeDispatch switches on the runtime type of the source.
type DerivedTypeDispatch struct {
	Types
	Cases         []DerivedCase
	DefaultCase   DefaultCase
	GenericTarget bool
}

// Kind implements Plan.
func (*DerivedTypeDispatch) Kind() Kind { return KindDerivedDispatch }

// NullMode is the shape of a null-safe read.
type NullMode int

const (
	// NullPassThrough lifts the delegate result into a nullable target
	// without a null check.
	NullPassThrough NullMode = iota
	// NullConditionalDelegate reads the path null-conditionally and hands
	// the result to a delegate accepting null.
	NullConditionalDelegate
	// NullCoalesce reads the path null-conditionally and coalesces to the fallback.
	NullCoalesce
	// NullGuarded checks every nullable segment before applying the delegate.
	NullGuarded
)

// String returns a human-readable representation of the NullMode.
func (m NullMode) String() string {
	switch m {
	case NullPassThrough:
		return "pass_through"
	case NullConditionalDelegate:
		return "conditional_delegate"
	case NullCoalesce:
		return "coalesce"
	case NullGuarded:
		return "guarded"
	default:
		return common.UnknownStr
	}
}

// Fallback is the value used when a nullable source is null.
type Fallback int

const (
	FallbackDefault Fallback = iota
	FallbackEmptyString
	FallbackCreateInstance
	FallbackThrow
)

// String returns a human-readable representation of the Fallback.
func (f Fallback) String() string {
	switch f {
	case FallbackDefault:
		return "default"
	case FallbackEmptyString:
		return "empty_string"
	case FallbackCreateInstance:
		return "create_instance"
	case FallbackThrow:
		return "throw"
	default:
		return common.UnknownStr
	}
}

// NullWrapped adapts a delegate valid for non-null input to nullable input.
type NullWrapped struct {
	Types
	Delegate *Cell
	Mode     NullMode
	Fallback Fallback
	// Checks are the nullable prefixes of the source path, in access order.
	Checks []string
}

// Kind implements Plan.
func (*NullWrapped) Kind() Kind { return KindNullWrapped }

// Reuse tells emission whether a plan is rendered as a shared function or
// inlined at every use.
type Reuse int

const (
	ReuseShared Reuse = iota
	ReuseInline
)

// String returns a human-readable representation of the Reuse.
func (r Reuse) String() string {
	switch r {
	case ReuseShared:
		return "shared"
	case ReuseInline:
		return "inline"
	default:
		return common.UnknownStr
	}
}

// MappingKey identifies a mapping request. Equal keys yield the same cell.
type MappingKey struct {
	Source string
	Target string
	Config uint64
}

type cellState int

const (
	cellPending cellState = iota
	cellBuilt
	cellFailed
)

// Cell holds the plan of one mapping key. It is created before its plan is
// built, so recursive requests for the same key receive the pending cell.
type Cell struct {
	// ID is the creation order within a run.
	ID    int
	Key   MappingKey
	Plan  Plan
	Reuse Reuse
	// Existing is set for cells mapping into an existing target.
	Existing bool

	state cellState
}

// Pending reports whether the plan is still being built.
func (c *Cell) Pending() bool {
	return c.state == cellPending
}

// Failed reports whether no strategy applied.
func (c *Cell) Failed() bool {
	return c.state == cellFailed
}

// Inline reports whether the plan is rendered at every use.
func (c *Cell) Inline() bool {
	return c.Reuse == ReuseInline
}

// reuseOf returns how a freshly built plan is reused.
func reuseOf(p Plan) Reuse {
	switch v := p.(type) {
	case *DirectAssignment, *Cast, *ParseMapping, *ToStringMapping:
		return ReuseInline
	case *EnumMapping:
		if v.Direction == EnumToEnum && v.Strategy == mapping.EnumByValue && len(v.Cases) == 0 {
			return ReuseInline
		}

		return ReuseShared
	case *NullWrapped:
		if v.Delegate != nil && !v.Delegate.Pending() && v.Delegate.Inline() {
			return ReuseInline
		}

		return ReuseShared
	default:
		return ReuseShared
	}
}
