// Package mapping provides the YAML configuration model of the planner:
// schema definitions, parsing, validation, option merging and the JSON
// schema export.
//
// # Schema Overview
//
// The mapping file has the following structure:
//
//	version: "1"
//	options:
//	  name_matching: case_insensitive
//	  enum_strategy: by_name
//	mappings:
//	  - source: store.Order
//	    target: warehouse.Order
//	    options:
//	      throw_on_null_mismatch: false
//	    members:
//	      - source: TotalCents
//	        target: TotalAmount
//	      - source: OrderedAt
//	        target: PlacedAt
//	        format: "2006-01-02"
//	    ignore_targets: [Notes]
//	    nested: Customer
//	  - source: store.OrderStatus
//	    target: warehouse.OrderStatus
//	    enum:
//	      strategy: by_name
//	      fallback: Pending
//	      values:
//	        - StatusCancelled: Cancelled
//	user_mappings:
//	  - name: CentsToMoney
//	    source: int64
//	    target: warehouse.Money
//
// # Option Merging
//
// Options set on a type mapping override the mapper-wide options field by
// field. An option set explicitly to false still overrides a true default.
// Config.For returns the merged TypeMappingConfig of a pair; pairs that are
// not configured get the mapper-wide options.
//
// # Path Syntax
//
// Member paths are dot separated identifiers:
//   - Simple members: "Name"
//   - Nested members: "Address.Street"
package mapping
