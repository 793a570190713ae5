package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"caster-planner/internal/analyze"
)

func TestTypeCompatibility_String(t *testing.T) {
	tests := []struct {
		compat   TypeCompatibility
		expected string
	}{
		{TypeIdentical, "identical"},
		{TypeAssignable, "assignable"},
		{TypeConvertible, "convertible"},
		{TypeNeedsMapping, "needs_mapping"},
		{TypeIncompatible, "incompatible"},
		{TypeCompatibility(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.compat.String())
		})
	}
}

func TestScoreTypeCompatibility(t *testing.T) {
	g := analyze.NewTypeGraph()

	str := analyze.Basic(analyze.BasicString)
	i32 := analyze.Basic(analyze.BasicInt32)
	i64 := analyze.Basic(analyze.BasicInt64)
	b := analyze.Basic(analyze.BasicBool)

	a := g.Add(&analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: "x/a", Name: "A"},
		Kind: analyze.TypeKindStruct,
	})
	bb := g.Add(&analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: "x/b", Name: "B"},
		Kind: analyze.TypeKindStruct,
	})

	tests := []struct {
		name     string
		source   *analyze.TypeInfo
		target   *analyze.TypeInfo
		expected TypeCompatibility
	}{
		{"identical", i64, i64, TypeIdentical},
		{"to any", a, analyze.Object, TypeAssignable},
		{"numeric", i32, i64, TypeConvertible},
		{"nullable source", g.PointerTo(i64), i64, TypeConvertible},
		{"both nullable", g.PointerTo(i32), g.PointerTo(i64), TypeConvertible},
		{"parse", str, i64, TypeNeedsMapping},
		{"format", i64, str, TypeNeedsMapping},
		{"structs", a, bb, TypeNeedsMapping},
		{"slices", g.SliceOf(a), g.SliceOf(bb), TypeNeedsMapping},
		{"bool to struct", b, a, TypeIncompatible},
		{"nil", nil, a, TypeIncompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreTypeCompatibility(tt.source, tt.target))
		})
	}
}

func TestSuggest(t *testing.T) {
	i64 := analyze.Basic(analyze.BasicInt64)
	str := analyze.Basic(analyze.BasicString)

	members := []*analyze.FieldInfo{
		ptrField("CustomerID", i64),
		ptrField("CustomerName", str),
		ptrField("Email", str),
		ptrField("TotalCents", i64),
	}

	got := Suggest("CustomerId", i64, members)
	assert.Equal(t, "CustomerID", got[0])
	assert.NotContains(t, got, "Email")
	assert.LessOrEqual(t, len(got), DefaultSuggestions)

	// The name itself is never suggested.
	assert.NotContains(t, Suggest("Email", str, members), "Email")
}

func TestRankCandidates_Deterministic(t *testing.T) {
	str := analyze.Basic(analyze.BasicString)

	members := []*analyze.FieldInfo{ptrField("B", str), ptrField("A", str)}

	list := RankCandidates("C", nil, members)
	assert.Equal(t, []string{"A", "B"}, list.Names())
}

func ptrField(name string, typ *analyze.TypeInfo) *analyze.FieldInfo {
	f := analyze.NewField(name, typ)
	return &f
}
