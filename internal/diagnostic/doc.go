// Package diagnostic provides structured errors, warnings and infos for
// the mapping planner.
//
// Key capabilities:
//   - A catalog of descriptors with stable codes and message templates
//   - Report order is preserved across severities
//   - Suggestions for misspelled member names
package diagnostic
