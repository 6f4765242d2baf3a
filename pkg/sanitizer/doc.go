// Package sanitizer normalizes free-text input before validation and storage.
//
// All functions are idempotent and never fail: invalid input collapses to an
// empty string or an empty slice.
//
// Normalization includes:
//   - Display text: trim, collapse inner whitespace to a single space
//   - Keys: display normalization followed by lower-casing
//   - Slugs: lower-case letters and digits joined by single underscores, used
//     to derive stable document identifiers
//   - Slices: remove duplicates and empty values after normalization
package sanitizer
