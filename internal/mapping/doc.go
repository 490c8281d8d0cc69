// Package mapping holds the canonical answer fields and the per-survey
// registry that maps them to the question codes of each survey's CSV export.
//
// Survey exports name the same question differently every year (age is
// y22_q2 in the 2022 survey). A Registry is read from YAML:
//
//	surveys:
//	  - number: 1523
//	    year: 2022
//	    columns:
//	      age: y22_q2
//	      gender: y22_q1
//
// and is validated against Fields when it is built. The built-in registry
// from Default covers the surveys shipped with the tool.
package mapping
