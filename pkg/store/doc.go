// Package store keeps generated registry bundles for a bounded time so an
// external installer can fetch them by id.
//
// A Store applies the TTL and expiry rules over a pluggable Backend. Entries
// are retrievable while now < expiresAt; an expired entry found on read is
// deleted and reported once as ErrExpired, after which it is simply missing.
// A periodic Sweep reclaims expired entries that are never read. Backends
// only need whole-record writes per key: concurrent puts for one id resolve
// as last write wins.
package store
