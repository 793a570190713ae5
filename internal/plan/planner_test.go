package plan

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caster-planner/internal/analyze"
	"caster-planner/internal/mapping"
)

func orderTypes(f *fixture) (order, orderDto *analyze.TypeInfo) {
	customer := f.class(shopPkg, "Customer", field("Name", str), field("Age", i32))
	customerDto := f.class(dtoPkg, "CustomerDto", field("Name", str), field("Age", i64))
	order = f.class(shopPkg, "Order",
		field("ID", i64),
		field("Buyer", f.nullable(customer)),
		field("Tags", f.slice(str)),
	)
	orderDto = f.class(dtoPkg, "OrderDto",
		field("ID", str),
		field("Buyer", f.nullable(customerDto)),
		field("Tags", f.slice(str)),
	)

	return order, orderDto
}

func TestPlanner_Deterministic(t *testing.T) {
	f := newFixture(t, mapping.MapperOptions{})
	order, orderDto := orderTypes(f)

	first := f.run(Pair{Source: order, Target: orderDto})
	second := f.run(Pair{Source: order, Target: orderDto})

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, Dump(first), Dump(second))
	assert.Equal(t, first.Diagnostics.All(), second.Diagnostics.All(),
		"diagnostics differ:\n%s\n%s", spew.Sdump(first.Diagnostics.All()), spew.Sdump(second.Diagnostics.All()))
}

func TestPlanner_DefaultsToConfiguredPairs(t *testing.T) {
	f := newFixture(t, mapping.MapperOptions{})
	order, orderDto := orderTypes(f)
	f.configure(order, orderDto, mapping.TypeMapping{})
	f.configure(str, i64, mapping.TypeMapping{})

	res := f.run()
	require.Len(t, res.Mappings, 2)
	assert.Same(t, order, res.Mappings[0].Source)
	assert.Same(t, str, res.Mappings[1].Source)
	assert.NotNil(t, res.Mappings[0].Cell)
	assert.Equal(t, KindParse, res.Mappings[1].Cell.Plan.Kind())
}

func TestPlanner_UnmappablePair(t *testing.T) {
	f := newFixture(t, mapping.MapperOptions{})
	order, _ := orderTypes(f)

	res := f.run(Pair{Source: order, Target: num})
	assert.Nil(t, res.Mappings[0].Cell)
	assert.Equal(t, []string{"could_not_create_mapping"}, codes(res.Diagnostics))
	assert.Contains(t, Dump(res), "= <none>")
}

func TestPlanner_RunAll(t *testing.T) {
	f := newFixture(t, mapping.MapperOptions{})
	order, orderDto := orderTypes(f)

	batches := [][]Pair{
		{{Source: order, Target: orderDto}},
		{{Source: str, Target: i64}},
		{{Source: i32, Target: i64}, {Source: order, Target: num}},
	}

	results, err := NewPlanner(f.cfg).RunAll(context.Background(), batches...)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, KindObject, results[0].Mappings[0].Cell.Plan.Kind())
	assert.Equal(t, KindParse, results[1].Mappings[0].Cell.Plan.Kind())
	assert.Equal(t, KindCast, results[2].Mappings[0].Cell.Plan.Kind())
	assert.Equal(t, 1, results[2].Diagnostics.Len(), "batches do not share diagnostics")
	assert.Zero(t, results[1].Diagnostics.Len())
}

func TestPlanner_RunAllCanceled(t *testing.T) {
	f := newFixture(t, mapping.MapperOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPlanner(f.cfg).RunAll(ctx, []Pair{{Source: str, Target: i64}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPlanner_InternalError(t *testing.T) {
	f := newFixture(t, mapping.MapperOptions{})
	boom := func(*Request) Plan {
		panic("boom")
	}

	var logs bytes.Buffer

	p := NewPlanner(f.cfg, WithBuilders(boom), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	res, err := p.Run(Pair{Source: str, Target: i64})
	require.ErrorIs(t, err, ErrInternal)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, logs.String(), "planning failed")

	_, err = p.RunAll(context.Background(), []Pair{{Source: i32, Target: i64}})
	require.ErrorIs(t, err, ErrInternal)
	assert.Contains(t, err.Error(), "batch 0")
}

func TestDump(t *testing.T) {
	f := newFixture(t, mapping.MapperOptions{})
	order, orderDto := orderTypes(f)

	res := f.run(Pair{Source: order, Target: orderDto})
	out := Dump(res)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	assert.True(t, strings.HasPrefix(lines[0], "map "), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "= #1"), lines[0])
	assert.Contains(t, lines[1], "#1 ")
	assert.Contains(t, lines[1], "object shared")
	assert.Contains(t, out, "to_string inline")
	assert.Contains(t, out, "null_wrapped")
	assert.Contains(t, out, "direct inline")
	assert.Equal(t, DumpCells(res.Cells), strings.Join(lines[1:], "\n")+"\n")
}
