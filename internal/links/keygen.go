package links

import (
	"encoding/base64"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// minAliasLen is the shortest derived alias. The candidate prefix grows from
// here up to the full hash length on collision.
const minAliasLen = 4

// HashAlias returns the full 11-character URL-safe encoding of link's 64-bit
// hash. xxhash is unseeded and fixed, so the same link always yields the same
// encoding across restarts; alias stability and duplicate-add collapsing
// depend on this.
func HashAlias(link string) string {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], xxhash.Sum64String(link))
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// deriveAlias picks the shortest free prefix of link's hash encoding. If a
// prefix is already mapped to the same link, that existing pair is returned
// instead of a new alias (duplicate add). Caller must hold at least a read
// lock.
func (s *Store) deriveAlias(link string) (string, *Entry, error) {
	hash := HashAlias(link)
	for i := minAliasLen; i <= len(hash); i++ {
		alias := hash[:i]
		other, ok := s.forward[alias]
		if !ok {
			return alias, nil, nil
		}
		if other.Link == link {
			return alias, &other, nil
		}
	}
	return "", nil, ErrKeyspaceExhausted
}
