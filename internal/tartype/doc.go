// Package tartype holds the types and sentinel errors shared by the archive
// engine's internal packages and re-exported by the root package.
package tartype
