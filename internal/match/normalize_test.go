package match

import (
	"slices"
	"testing"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Basic cases
		{"OrderID", "orderid"},
		{"order_id", "orderid"},
		{"order-id", "orderid"},
		{"orderId", "orderid"},
		{"ORDERID", "orderid"},

		// CamelCase variations
		{"customerName", "customername"},
		{"XMLParser", "xmlparser"},
		{"getHTTPResponse", "gethttpresponse"},
		{"TotalCents", "totalcents"},

		// With underscores
		{"price_cents", "pricecents"},
		{"PRICE_CENTS", "pricecents"},

		// Edge cases
		{"", ""},
		{"A", "a"},
		{"ID", "id"},

		// Mixed separators
		{"order_item-ID", "orderitemid"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeIdent(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeIdent(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTrimCommonSuffix(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"OrderID", "order"},
		{"customerIds", "customer"},
		{"CreatedAt", "created"},
		{"CreatedUTC", "created"},
		{"timestampUTC", "timestamp"},
		{"CreatedTimestamp", "created"},

		// Should not strip if result would be empty
		{"ID", "id"},
		{"At", "at"},

		// No suffix to strip
		{"CustomerName", "customername"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := TrimCommonSuffix(NormalizeIdent(tt.input))
			if result != tt.expected {
				t.Errorf("TrimCommonSuffix(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSplitIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"OrderID", []string{"Order", "ID"}},
		{"AddressCity", []string{"Address", "City"}},
		{"customerName", []string{"customer", "Name"}},
		{"XMLParser", []string{"XML", "Parser"}},
		{"getHTTPResponse", []string{"get", "HTTP", "Response"}},
		{"order_id", []string{"order", "id"}},
		{"ALLCAPS", []string{"ALLCAPS"}},
		{"lowercase", []string{"lowercase"}},
		{"", nil},
		{"a", []string{"a"}},
		{"AbC", []string{"Ab", "C"}},
		{"ABcD", []string{"A", "Bc", "D"}},
		{"parseURL", []string{"parse", "URL"}},
		{"Line2Street", []string{"Line2", "Street"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := SplitIdent(tt.input)
			if !slices.Equal(result, tt.expected) {
				t.Errorf("SplitIdent(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
