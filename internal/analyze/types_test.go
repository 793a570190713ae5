package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(pkg, name string, kind TypeKind) *TypeInfo {
	return &TypeInfo{ID: TypeID{PkgPath: pkg, Name: name}, Kind: kind}
}

func TestTypeGraph_CanonicalComposites(t *testing.T) {
	g := NewTypeGraph()
	order := g.Add(named("shop", "Order", TypeKindStruct))

	assert.Same(t, g.PointerTo(order), g.PointerTo(order))
	assert.Same(t, g.SliceOf(order), g.SliceOf(order))
	assert.Same(t, g.MapOf(Basic(BasicString), order), g.MapOf(Basic(BasicString), order))
	assert.Same(t, g.PointerTo(order), g.PointerTo(g.PointerTo(order)), "pointers are not nested")

	assert.Equal(t, "*shop.Order", g.PointerTo(order).Key())
	assert.Equal(t, "[3]shop.Order", g.ArrayOf(order, 3).Key())
	assert.Equal(t, "map[string][]shop.Order", g.MapOf(Basic(BasicString), g.SliceOf(order)).Key())
}

func TestTypeInfo_Predicates(t *testing.T) {
	g := NewTypeGraph()
	class := named("shop", "Customer", TypeKindStruct)
	value := named("shop", "Money", TypeKindStruct)
	value.ValueType = true

	assert.True(t, class.IsReferenceType())
	assert.False(t, value.IsReferenceType())
	assert.True(t, g.SliceOf(value).IsReferenceType())
	assert.False(t, Basic(BasicInt).IsReferenceType())

	assert.True(t, g.PointerTo(value).IsNullable())
	assert.Same(t, value, g.PointerTo(value).NonNullable())
	assert.Same(t, value, value.NonNullable())

	assert.True(t, Basic(BasicInt).CanParse())
	assert.True(t, Basic(BasicInt).CanFormat())
	assert.False(t, Basic(BasicString).CanParse())

	assert.True(t, g.SliceOf(value).IsCollection())
	assert.False(t, g.SliceOf(value).IsDictionary())
	assert.True(t, g.MapOf(Basic(BasicString), value).IsDictionary())

	assert.True(t, Object.IsObject())
	assert.True(t, Basic(BasicString).IsImmutable())
	assert.False(t, class.IsImmutable())
}

func TestClassifyConversion(t *testing.T) {
	base := named("shop", "Animal", TypeKindStruct)
	dog := named("shop", "Dog", TypeKindStruct)
	dog.Base = base

	celsius := named("units", "Celsius", TypeKindStruct)
	kelvin := named("units", "Kelvin", TypeKindStruct)
	celsius.Conversions = []ConversionOp{{Name: "ToKelvin", From: celsius, To: kelvin, Explicit: true}}

	level := named("shop", "Level", TypeKindEnum)
	level.Enum = &EnumInfo{Underlying: Basic(BasicInt)}

	tests := []struct {
		name string
		src  *TypeInfo
		dst  *TypeInfo
		want ConversionKind
	}{
		{"identity", dog, dog, ConversionIdentity},
		{"numeric", Basic(BasicInt64), Basic(BasicInt32), ConversionNumeric},
		{"int to string is not a value conversion", Basic(BasicInt), Basic(BasicString), ConversionNone},
		{"enum to int", level, Basic(BasicInt), ConversionEnumeration},
		{"int to enum", Basic(BasicInt16), level, ConversionEnumeration},
		{"upcast", dog, base, ConversionImplicitReference},
		{"downcast", base, dog, ConversionExplicitReference},
		{"user defined", celsius, kelvin, ConversionUserDefined},
		{"unrelated", dog, kelvin, ConversionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyConversion(tt.src, tt.dst)
			assert.Equal(t, tt.want, got.Kind, "got %s", got.Kind)
		})
	}

	op := ClassifyConversion(celsius, kelvin).Operator
	require.NotNil(t, op)
	assert.Equal(t, "ToKelvin", op.Name)
}

func TestAssignableTo(t *testing.T) {
	g := NewTypeGraph()
	shape := named("geo", "Shape", TypeKindInterface)
	circle := named("geo", "Circle", TypeKindStruct)
	circle.Interfaces = []*TypeInfo{shape}

	assert.True(t, AssignableTo(circle, shape))
	assert.False(t, AssignableTo(shape, circle))
	assert.True(t, AssignableTo(circle, Object))
	assert.True(t, AssignableTo(g.PointerTo(circle), g.PointerTo(shape)))

	param := &TypeInfo{ID: TypeID{Name: "T"}, Kind: TypeKindTypeParam, Underlying: shape}
	assert.True(t, AssignableTo(circle, param))
	assert.False(t, AssignableTo(Basic(BasicInt), param))
}

func TestCollectionInfo_Defaults(t *testing.T) {
	slice := &CollectionInfo{Kind: CollectionSlice}
	assert.Equal(t, "append", slice.Add())
	assert.Equal(t, "len", slice.Count())
	assert.Equal(t, "slices.Grow", slice.Capacity())
	assert.Equal(t, "slices.Clone", slice.BulkConstructor())

	list := &CollectionInfo{Kind: CollectionList, CapacityMethod: "EnsureCapacity"}
	assert.Equal(t, "Add", list.Add())
	assert.Equal(t, "EnsureCapacity", list.Capacity())

	seq := &CollectionInfo{Kind: CollectionSequence}
	assert.Empty(t, seq.Count())
	assert.False(t, seq.Kind.CanAdd())
	assert.True(t, CollectionImmutableMap.IsMap())
	assert.True(t, CollectionImmutableMap.IsImmutable())
}
