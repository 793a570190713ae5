package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	storePkg     = "caster-planner/store"
	warehousePkg = "caster-planner/warehouse"
)

func loadFixtures(t *testing.T) *TypeGraph {
	t.Helper()

	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages(storePkg, warehousePkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func findField(t *testing.T, typ *TypeInfo, name string) *FieldInfo {
	t.Helper()

	f := typ.Field(name)
	require.NotNil(t, f, "%s should have field %s", typ, name)

	return f
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadFixtures(t)

	// Check that packages were loaded
	assert.Contains(t, graph.Packages, storePkg)
	assert.Contains(t, graph.Packages, warehousePkg)

	// Check that types were extracted
	assert.Contains(t, graph.Types, TypeID{PkgPath: storePkg, Name: "Order"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: warehousePkg, Name: "Order"})
}

func TestAnalyzer_StoreOrderFields(t *testing.T) {
	graph := loadFixtures(t)

	order := graph.GetType(TypeID{PkgPath: storePkg, Name: "Order"})
	require.NotNil(t, order)
	assert.Equal(t, TypeKindStruct, order.Kind)
	assert.True(t, order.ValueType)

	for _, name := range []string{"ID", "CustomerID", "Status", "TotalCents", "Items", "OrderedAt"} {
		assert.NotNil(t, order.Field(name), "Order should have %s field", name)
	}

	// Composite literal is always available.
	assert.True(t, order.HasParameterlessConstructor())
}

func TestAnalyzer_FieldTags(t *testing.T) {
	graph := loadFixtures(t)

	product := graph.GetType(TypeID{PkgPath: storePkg, Name: "Product"})
	require.NotNil(t, product)

	skuField := findField(t, product, "SKU")
	assert.Equal(t, "sku", skuField.JSONName())
	assert.True(t, skuField.HasTag("json"))

	customer := graph.GetType(TypeID{PkgPath: warehousePkg, Name: "Customer"})
	require.NotNil(t, customer)

	assert.True(t, findField(t, customer, "Email").Required)
	assert.True(t, findField(t, customer, "PasswordHash").Ignored)
	assert.True(t, findField(t, customer, "CreatedAt").InitOnly)
	assert.False(t, findField(t, customer, "CreatedAt").CanSet())
	assert.True(t, findField(t, customer, "CreatedAt").CanInit())
}

func TestAnalyzer_SliceAndPointerFields(t *testing.T) {
	graph := loadFixtures(t)

	order := graph.GetType(TypeID{PkgPath: storePkg, Name: "Order"})
	require.NotNil(t, order)

	items := findField(t, order, "Items")
	assert.Equal(t, TypeKindSlice, items.Type.Kind)
	assert.True(t, items.Type.IsCollection())
	require.NotNil(t, items.Type.ElemType)
	assert.Equal(t, TypeKindStruct, items.Type.ElemType.Kind)

	customer := findField(t, order, "Customer")
	assert.True(t, customer.Type.IsNullable())
	assert.Equal(t, "store.Customer", customer.Type.ElemType.String())
	assert.Equal(t, "*store.Customer", customer.Type.String())
}

func TestAnalyzer_RecursiveTypesShareDescriptors(t *testing.T) {
	graph := loadFixtures(t)

	order := graph.GetType(TypeID{PkgPath: storePkg, Name: "Order"})
	customer := graph.GetType(TypeID{PkgPath: storePkg, Name: "Customer"})
	require.NotNil(t, order)
	require.NotNil(t, customer)

	// Order.Customer -> *Customer -> Customer.Orders -> []Order -> Order
	assert.Same(t, customer, findField(t, order, "Customer").Type.ElemType)
	assert.Same(t, order, findField(t, customer, "Orders").Type.ElemType)
}

func TestAnalyzer_Enums(t *testing.T) {
	graph := loadFixtures(t)

	status := graph.GetType(TypeID{PkgPath: storePkg, Name: "OrderStatus"})
	require.NotNil(t, status)
	require.True(t, status.IsEnum())
	assert.True(t, status.Stringer)
	assert.Equal(t, "ParseOrderStatus", status.ParseFunc)
	assert.False(t, status.Enum.Flags)
	require.Len(t, status.Enum.Values, 4)

	paid, ok := status.Enum.Value("StatusPaid")
	require.True(t, ok)
	assert.Equal(t, int64(1), paid.Value)

	perm := graph.GetType(TypeID{PkgPath: storePkg, Name: "Permission"})
	require.NotNil(t, perm)
	require.True(t, perm.IsEnum())
	assert.True(t, perm.Enum.Flags)
	assert.Equal(t, uint64(7), perm.Enum.Bits())
	assert.Equal(t, BasicUint8, perm.Enum.Underlying.Basic)
}

func TestAnalyzer_Constructors(t *testing.T) {
	graph := loadFixtures(t)

	customer := graph.GetType(TypeID{PkgPath: storePkg, Name: "Customer"})
	require.NotNil(t, customer)
	require.Len(t, customer.Constructors, 2)

	var ctor *Constructor
	for i := range customer.Constructors {
		if customer.Constructors[i].Name == "NewCustomer" {
			ctor = &customer.Constructors[i]
		}
	}

	require.NotNil(t, ctor)
	assert.True(t, ctor.Preferred)
	require.Len(t, ctor.Params, 2)
	assert.Equal(t, "email", ctor.Params[1].Name)
	assert.Equal(t, 2, ctor.RequiredParams())

	assert.True(t, findField(t, customer, "Login").Obsolete)
}

func TestAnalyzer_ExternalTypes(t *testing.T) {
	graph := loadFixtures(t)

	product := graph.GetType(TypeID{PkgPath: storePkg, Name: "Product"})
	require.NotNil(t, product)

	createdAt := findField(t, product, "CreatedAt")
	assert.Equal(t, TypeKindExternal, createdAt.Type.Kind)
	assert.True(t, createdAt.Type.IsImmutable())
	assert.Equal(t, "time.Time", createdAt.Type.Key())
}

func TestAnalyzer_GetStruct(t *testing.T) {
	analyzer := NewAnalyzer()
	_, err := analyzer.LoadPackages(storePkg)
	require.NoError(t, err)

	order, err := analyzer.GetStruct(storePkg, "Order")
	require.NoError(t, err)
	assert.Equal(t, "Order", order.ID.Name)

	_, err = analyzer.GetStruct(storePkg, "Missing")
	require.ErrorIs(t, err, ErrTypeNotFound)

	_, err = analyzer.GetStruct(storePkg, "OrderStatus")
	require.Error(t, err)
}

func TestTypeGraph_Lookup(t *testing.T) {
	graph := loadFixtures(t)

	tests := []struct {
		name string
		want string
	}{
		{"caster-planner/store.Order", "caster-planner/store.Order"},
		{"store.Order", "caster-planner/store.Order"},
		{"*store.Customer", "*caster-planner/store.Customer"},
		{"[]warehouse.OrderItem", "[]caster-planner/warehouse.OrderItem"},
		{"map[string]int", "map[string]int"},
		{"int64", "int64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := graph.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Key())
		})
	}

	_, err := graph.Lookup("store.Nope")
	require.ErrorIs(t, err, ErrTypeNotFound)

	_, err = graph.Lookup("Order")
	require.Error(t, err, "unqualified names shared by two packages are ambiguous")
}

func TestTypeID_String(t *testing.T) {
	id := TypeID{PkgPath: storePkg, Name: "Order"}
	assert.Equal(t, "caster-planner/store.Order", id.String())
	assert.Equal(t, "store.Order", id.Short())

	// Empty package path
	idNoPkg := TypeID{Name: "int"}
	assert.Equal(t, "int", idNoPkg.String())
	assert.Equal(t, "int", idNoPkg.Short())
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "basic", TypeKindBasic.String())
	assert.Equal(t, "struct", TypeKindStruct.String())
	assert.Equal(t, "pointer", TypeKindPointer.String())
	assert.Equal(t, "slice", TypeKindSlice.String())
	assert.Equal(t, "enum", TypeKindEnum.String())
	assert.Equal(t, "external", TypeKindExternal.String())
	assert.Equal(t, "unknown", TypeKindUnknown.String())
}

func TestFieldInfo_JSONName(t *testing.T) {
	// Test with simple tag
	f1 := FieldInfo{Name: "MyField", Tag: `json:"my_field"`}
	assert.Equal(t, "my_field", f1.JSONName())

	// Test with options
	f2 := FieldInfo{Name: "MyField", Tag: `json:"my_field,omitempty"`}
	assert.Equal(t, "my_field", f2.JSONName())

	// Test with no tag
	f3 := FieldInfo{Name: "MyField", Tag: ""}
	assert.Equal(t, "MyField", f3.JSONName())

	// Test with "-" (ignored in JSON)
	f4 := FieldInfo{Name: "MyField", Tag: `json:"-"`}
	assert.Equal(t, "MyField", f4.JSONName())
}
