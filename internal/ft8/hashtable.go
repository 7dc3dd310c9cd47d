package ft8

import (
	lru "github.com/hashicorp/golang-lru"
)

// HashType selects which truncation of a callsign's hash a message field
// carries: 22 bits (type-1/2 callsigns routed through the hash table), 12
// bits (type-4 third callsign) or 10 bits (DXpedition mode's "DE" callsign).
type HashType int

const (
	Hash22Bits HashType = iota
	Hash12Bits
	Hash10Bits
)

// CallsignHashTable resolves the hashed-callsign fields spec §4.6 and
// §9 ("hashed-callsign resolution kept in full") require: messages with a
// nonstandard or nonstd-adjacent callsign carry only a hash of it, which can
// only be resolved back to text if the full callsign was seen earlier in the
// same run and saved here.
//
// The teacher's hashtable.go kept one map keyed by the 22-bit hash behind a
// mutex, with a background Cleanup() sweeping entries older than a fixed
// TTL. This version keeps the same "record on save, resolve the 12/10-bit
// derivations by storing all three views" design but swaps the hand-rolled
// map+TTL for three capacity-bounded github.com/hashicorp/golang-lru caches,
// one per hash width: recently-seen callsigns naturally survive, and the
// structure can never grow without bound even without a cleanup goroutine.
type CallsignHashTable struct {
	by22 *lru.Cache
	by12 *lru.Cache
	by10 *lru.Cache
}

// NewCallsignHashTable builds a hash table holding up to capacity recently
// saved callsigns per hash width.
func NewCallsignHashTable(capacity int) *CallsignHashTable {
	if capacity <= 0 {
		capacity = 1024
	}
	c22, _ := lru.New(capacity)
	c12, _ := lru.New(capacity)
	c10, _ := lru.New(capacity)
	return &CallsignHashTable{by22: c22, by12: c12, by10: c10}
}

// SaveCallsign records a decoded callsign under its 22/12/10-bit hashes so a
// later message's hashed reference to it can be resolved.
func (ht *CallsignHashTable) SaveCallsign(callsign string) (n22 uint32, n12 uint16, n10 uint16, ok bool) {
	n58 := uint64(0)
	i := 0
	for i < len(callsign) && i < 11 {
		j := Nchar(callsign[i], CharTableAlphanumSpaceSlash)
		if j < 0 {
			return 0, 0, 0, false
		}
		n58 = 38*n58 + uint64(j)
		i++
	}
	for ; i < 11; i++ {
		n58 *= 38
	}

	n22 = uint32((47055833459 * n58) >> (64 - 22) & 0x3FFFFF)
	n12 = uint16(n22 >> 10)
	n10 = uint16(n22 >> 12)

	ht.by22.Add(n22, callsign)
	ht.by12.Add(uint32(n12), callsign)
	ht.by10.Add(uint32(n10), callsign)
	return n22, n12, n10, true
}

// LookupHash resolves a hash back to the callsign that produced it, if one
// was saved recently enough to still be cached.
func (ht *CallsignHashTable) LookupHash(hashType HashType, hash uint32) (string, bool) {
	var cache *lru.Cache
	switch hashType {
	case Hash22Bits:
		cache = ht.by22
	case Hash12Bits:
		cache = ht.by12
	case Hash10Bits:
		cache = ht.by10
	default:
		return "", false
	}
	v, ok := cache.Get(hash)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Len reports how many distinct callsigns are currently resolvable by their
// 22-bit hash.
func (ht *CallsignHashTable) Len() int {
	return ht.by22.Len()
}
