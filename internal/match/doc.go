// Package match resolves member names to member paths and ranks likely
// counterparts for diagnostics.
//
// Key functions:
//   - BuildCandidates: the exact name followed by its flattened decompositions
//   - TryResolve: finds the first candidate denoting a member path on a type
//   - TryResolvePath: resolves an explicitly configured path
//   - ScoreTypeCompatibility: estimates how one type maps to another
//   - Suggest: ranks members by name similarity and type compatibility
package match
