// Package cache implements the two-tier store behind the relay: a bounded,
// expiring in-memory tier and a persistent disk tier holding one file per
// cache key under StoragePath. The Manager owns both tiers and defines the
// coordination policy — lookups go memory first, then disk with write-through
// promotion; stores hit disk first and only populate memory once the disk
// write succeeded, so memory never holds a value the disk does not. Disk
// writes use the temp file + rename pattern so readers never observe a
// partial payload. The disk tier has no eviction; the memory tier evicts by
// LRU capacity and by a TTL anchored at insertion time.
package cache
