package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCandidates(t *testing.T) {
	tests := []struct {
		name     string
		expected [][]string
	}{
		{
			name:     "Name",
			expected: [][]string{{"Name"}},
		},
		{
			name:     "AddressCity",
			expected: [][]string{{"AddressCity"}, {"Address", "City"}},
		},
		{
			name: "CustomerAddressCity",
			expected: [][]string{
				{"CustomerAddressCity"},
				{"CustomerAddress", "City"},
				{"Customer", "AddressCity"},
				{"Customer", "Address", "City"},
			},
		},
		{
			name:     "OrderID",
			expected: [][]string{{"OrderID"}, {"Order", "ID"}},
		},
		{
			// Separators cannot be reassembled into member names.
			name:     "order_id",
			expected: [][]string{{"order_id"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildCandidates(tt.name))
		})
	}
}

func TestBuildCandidates_TooManyTokens(t *testing.T) {
	got := BuildCandidates("ABcDeFgHiJkLmNoPq")
	assert.Equal(t, [][]string{{"ABcDeFgHiJkLmNoPq"}}, got)
}
