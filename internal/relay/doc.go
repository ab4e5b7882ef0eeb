// Package relay implements the request lifecycle of the script relay:
// allowlist validation, cache key derivation, origin fetching, and the
// orchestration that ties them to the two-tier cache and the transform
// stage. A request resolves as validate → derive key → cache lookup, and on
// a miss runs fetch → transform → store with concurrent misses for the same
// key collapsed into a single upstream call. Fetch and transform failures
// never write to the cache; a disk write failure fails the request and
// leaves the memory tier untouched.
package relay
