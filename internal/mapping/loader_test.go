package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFull(t *testing.T) {
	yaml := `
version: "1"
options:
  name_matching: case_insensitive
  throw_on_null_mismatch: false
  max_depth: 16
  conversions: [explicit_cast, object]
mappings:
  - source: store.Order
    target: warehouse.Order
    options:
      enum_strategy: by_name
    members:
      - source: TotalCents
        target: TotalAmount
      - source: OrderedAt
        target: PlacedAt
        format: "2006-01-02"
      - target: Status
    ignore_sources: Login
    ignore_targets: [Notes, Internal]
    nested: Customer
    derived:
      - source: store.Card
        target: warehouse.Card
  - source: store.OrderStatus
    target: warehouse.OrderStatus
    enum:
      strategy: explicit
      fallback: Pending
      values:
        - StatusPaid: Paid
        - source: StatusShipped
          target: Shipped
user_mappings:
  - source: int64
    target: warehouse.Money
  - name: FormatMoney
    source: warehouse.Money
    target: string
    default: true
`

	mf, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "1", mf.Version)
	require.NotNil(t, mf.Options.NameMatching)
	assert.Equal(t, NameMatchingCaseInsensitive, *mf.Options.NameMatching)
	require.NotNil(t, mf.Options.ThrowOnNullMismatch)
	assert.False(t, *mf.Options.ThrowOnNullMismatch)
	require.NotNil(t, mf.Options.MaxDepth)
	assert.Equal(t, 16, *mf.Options.MaxDepth)
	assert.Equal(t, []ConversionType{ConversionExplicitCast, ConversionObject}, mf.Options.Conversions)

	require.Len(t, mf.TypeMappings, 2)

	tm := mf.TypeMappings[0]
	assert.Equal(t, "store.Order", tm.Source)
	assert.Equal(t, "warehouse.Order", tm.Target)
	require.NotNil(t, tm.Options.EnumStrategy)
	assert.Equal(t, EnumByName, *tm.Options.EnumStrategy)

	require.Len(t, tm.Members, 3)
	assert.Equal(t, "TotalCents", tm.Members[0].Source)
	assert.Equal(t, "TotalAmount", tm.Members[0].Target)
	assert.Equal(t, MemberHints{Format: "2006-01-02"}, tm.Members[1].Hints())
	// A member naming only one side maps the equally named member.
	assert.Equal(t, "Status", tm.Members[2].Source)

	assert.Equal(t, StringOrArray{"Login"}, tm.IgnoreSources)
	assert.Equal(t, StringOrArray{"Notes", "Internal"}, tm.IgnoreTargets)
	assert.True(t, tm.Nested.Contains("Customer"))
	require.Len(t, tm.Derived, 1)
	assert.Equal(t, DerivedType{Source: "store.Card", Target: "warehouse.Card"}, tm.Derived[0])

	em := mf.TypeMappings[1].Enum
	require.NotNil(t, em)
	require.NotNil(t, em.Strategy)
	assert.Equal(t, EnumExplicit, *em.Strategy)
	assert.Equal(t, "Pending", em.Fallback)
	assert.Equal(t, []EnumValuePair{
		{Source: "StatusPaid", Target: "Paid"},
		{Source: "StatusShipped", Target: "Shipped"},
	}, em.Values)

	require.Len(t, mf.UserMappings, 2)
	assert.Equal(t, "MapInt64ToMoney", mf.UserMappings[0].Name)
	assert.Equal(t, "FormatMoney", mf.UserMappings[1].Name)
	assert.True(t, mf.UserMappings[1].Default)
}

func TestParseMinimal(t *testing.T) {
	yaml := `
mappings:
  - source: A
    target: B
`

	mf, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "1", mf.Version) // Default version
	require.Len(t, mf.TypeMappings, 1)
	assert.Equal(t, "A", mf.TypeMappings[0].Source)
	assert.Equal(t, "B", mf.TypeMappings[0].Target)
	assert.Nil(t, mf.TypeMappings[0].Enum)
}

func TestParseEmpty(t *testing.T) {
	mf, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "1", mf.Version)
	assert.Empty(t, mf.TypeMappings)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown field",
			yaml: `
mappings:
  - source: A
    target: B
    fields: []
`,
		},
		{
			name: "invalid yaml",
			yaml: "mappings: [",
		},
		{
			name: "ignore list of maps",
			yaml: `
mappings:
  - source: A
    target: B
    ignore_targets:
      a: b
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
		wantErr  bool
	}{
		{input: "Name", expected: []string{"Name"}},
		{input: "Address.Street", expected: []string{"Address", "Street"}},
		{input: "Customer.Address.City", expected: []string{"Customer", "Address", "City"}},
		{input: "_private", expected: []string{"_private"}},
		{input: "", wantErr: true},
		{input: "Address..Street", wantErr: true},
		{input: ".Street", wantErr: true},
		{input: "Items[]", wantErr: true},
		{input: "1Name", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			fp, err := ParsePath(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPath)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, fp.Segments)
			assert.Equal(t, tt.input, fp.String())
			assert.Equal(t, tt.expected[0], fp.Root())
			assert.Equal(t, len(tt.expected) == 1, fp.IsSimple())
		})
	}
}

func TestMustParsePath_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParsePath("a..b") })
	assert.True(t, FieldPath{}.IsEmpty())
}

func TestWriteAndLoadFile(t *testing.T) {
	strategy := EnumByName
	mf := &MappingFile{
		Version: "1",
		Options: MapperOptions{EnumStrategy: &strategy},
		TypeMappings: []TypeMapping{
			{
				Source:        "store.Customer",
				Target:        "warehouse.Customer",
				IgnoreTargets: StringOrArray{"PasswordHash"},
				Members:       []MemberMapping{{Source: "Address.City", Target: "AddressCity"}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, WriteFile(mf, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Single element lists are written as scalars.
	assert.Contains(t, string(data), "ignore_targets: PasswordHash")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, mf, loaded)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnumsIsValid(t *testing.T) {
	assert.True(t, NameMatchingCaseInsensitive.IsValid())
	assert.False(t, NameMatching("fuzzy").IsValid())
	assert.True(t, EnumByValueCheckDefined.IsValid())
	assert.False(t, EnumStrategy("by_magic").IsValid())
	assert.True(t, NullFallbackCreateInstance.IsValid())
	assert.False(t, NullFallback("zero").IsValid())
	assert.True(t, ConversionTuple.IsValid())
	assert.False(t, ConversionType("anything").IsValid())

	assert.True(t, SidesBoth.Source())
	assert.True(t, SidesBoth.Target())
	assert.True(t, SidesSource.Source())
	assert.False(t, SidesSource.Target())
	assert.False(t, SidesNone.Source())
	assert.False(t, Sides("left").IsValid())
}
