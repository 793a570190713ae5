// Package plan resolves mapping requests into mapping plans consumed by
// code emission.
//
// Resolution pipeline:
//  1. Analyze packages → type graph
//  2. Load YAML (optional) → validate → mapping.Config
//  3. For each requested type pair, the Context looks up the cell of the
//     (source, target, configuration) key and builds it on first use:
//     - The builders run in priority order, the first plan wins
//     - Nested requests go through the same Context, so shared pairs are
//       built once and recursive pairs receive the pending cell
//  4. Emit diagnostics (unmapped members, invalid configuration, null
//     fallbacks) into the run's diagnostic.Diagnostics
package plan
