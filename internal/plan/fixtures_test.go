package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
	"caster-planner/internal/mapping"
)

const (
	shopPkg = "shop/model"
	dtoPkg  = "shop/dto"
)

var (
	str = analyze.Basic(analyze.BasicString)
	i32 = analyze.Basic(analyze.BasicInt32)
	i64 = analyze.Basic(analyze.BasicInt64)
	num = analyze.Basic(analyze.BasicInt)
)

func ptr[T any](v T) *T {
	return &v
}

// fixture builds hand-made type graphs and plans mappings between them.
type fixture struct {
	t     *testing.T
	graph *analyze.TypeGraph
	cfg   *mapping.Config
}

func newFixture(t *testing.T, opts mapping.MapperOptions) *fixture {
	t.Helper()

	return &fixture{
		t:     t,
		graph: analyze.NewTypeGraph(),
		cfg:   mapping.NewConfig(opts),
	}
}

// class registers a struct with reference semantics.
func (f *fixture) class(pkg, name string, fields ...analyze.FieldInfo) *analyze.TypeInfo {
	return f.graph.Add(&analyze.TypeInfo{
		ID:     analyze.TypeID{PkgPath: pkg, Name: name},
		Kind:   analyze.TypeKindStruct,
		Fields: fields,
	})
}

// value registers a struct with copy semantics.
func (f *fixture) value(pkg, name string, fields ...analyze.FieldInfo) *analyze.TypeInfo {
	t := f.class(pkg, name, fields...)
	t.ValueType = true

	return t
}

// enum registers an int backed enum whose values are numbered in order.
func (f *fixture) enum(pkg, name string, values ...string) *analyze.TypeInfo {
	info := &analyze.EnumInfo{Underlying: num}
	for i, v := range values {
		info.Values = append(info.Values, analyze.EnumValue{Name: v, Value: int64(i)})
	}

	return f.graph.Add(&analyze.TypeInfo{
		ID:        analyze.TypeID{PkgPath: pkg, Name: name},
		Kind:      analyze.TypeKindEnum,
		Basic:     analyze.BasicInt,
		Enum:      info,
		ValueType: true,
	})
}

func (f *fixture) iface(pkg, name string) *analyze.TypeInfo {
	return f.graph.Add(&analyze.TypeInfo{
		ID:       analyze.TypeID{PkgPath: pkg, Name: name},
		Kind:     analyze.TypeKindInterface,
		Abstract: true,
	})
}

func (f *fixture) nullable(t *analyze.TypeInfo) *analyze.TypeInfo {
	return f.graph.PointerTo(t)
}

func (f *fixture) slice(t *analyze.TypeInfo) *analyze.TypeInfo {
	return f.graph.SliceOf(t)
}

func (f *fixture) run(pairs ...Pair) *Result {
	f.t.Helper()

	res, err := NewPlanner(f.cfg).Run(pairs...)
	require.NoError(f.t, err)

	return res
}

// plan maps src to dst and returns the top-level cell, which must exist.
func (f *fixture) plan(src, dst *analyze.TypeInfo) (*Cell, *Result) {
	f.t.Helper()

	res := f.run(Pair{Source: src, Target: dst})
	require.Len(f.t, res.Mappings, 1)
	require.NotNil(f.t, res.Mappings[0].Cell, "%s -> %s: %v", src, dst, res.Diagnostics.All())

	return res.Mappings[0].Cell, res
}

func (f *fixture) configure(src, dst *analyze.TypeInfo, tm mapping.TypeMapping, derived ...mapping.ResolvedDerived) {
	f.t.Helper()

	require.NoError(f.t, f.cfg.AddTypeMapping(src, dst, tm, derived...))
}

func field(name string, typ *analyze.TypeInfo, mods ...func(*analyze.FieldInfo)) analyze.FieldInfo {
	fi := analyze.NewField(name, typ)
	for _, m := range mods {
		m(&fi)
	}

	return fi
}

func required(f *analyze.FieldInfo) { f.Required = true }
func readOnly(f *analyze.FieldInfo) { f.ReadOnly = true }
func initOnly(f *analyze.FieldInfo) { f.InitOnly = true }

func codes(d *diagnostic.Diagnostics) []string {
	var out []string
	for _, diag := range d.All() {
		out = append(out, diag.Code)
	}

	return out
}

func object(t *testing.T, c *Cell) *ObjectConstruction {
	t.Helper()

	obj, ok := c.Plan.(*ObjectConstruction)
	require.True(t, ok, "expected object plan, got %T", c.Plan)

	return obj
}

// member returns the assignment of the target member path name.
func member(t *testing.T, obj *ObjectConstruction, name string) MemberAssignment {
	t.Helper()

	for _, a := range obj.Members {
		if a.Target.FullName() == name {
			return a
		}
	}

	require.Failf(t, "member not assigned", "%s is not assigned in %s -> %s", name, obj.From, obj.To)

	return MemberAssignment{}
}
