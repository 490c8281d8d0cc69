// Package csvsource streams the rows of a survey CSV export.
//
// A Source is single-pass: rows are decoded lazily as Next is called and the
// file is read only once. Every file must carry a header row with the key
// (answer identifier) and pkey (user identifier) columns; the remaining
// columns are survey-specific question codes resolved through a mapping.
package csvsource
