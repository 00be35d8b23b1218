package links

import "fmt"

// CheckInvariants verifies the joint consistency of the forward and reverse
// indices: every alias appears exactly once in its link's reverse bucket, no
// bucket is empty, and every bucketed alias maps back to its bucket's link. A
// non-nil result means the store's internal state is corrupt; it is meant for
// tests and defensive checks, never for user-facing error handling.
func (s *Store) CheckInvariants() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for alias, e := range s.forward {
		n := 0
		for _, a := range s.reverse[e.Link] {
			if a == alias {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("alias %q appears %d times in reverse bucket for %q", alias, n, e.Link)
		}
	}

	for link, bucket := range s.reverse {
		if len(bucket) == 0 {
			return fmt.Errorf("empty reverse bucket for %q", link)
		}
		for _, alias := range bucket {
			e, ok := s.forward[alias]
			if !ok {
				return fmt.Errorf("reverse bucket for %q holds unknown alias %q", link, alias)
			}
			if e.Link != link {
				return fmt.Errorf("alias %q bucketed under %q but maps to %q", alias, link, e.Link)
			}
		}
	}
	return nil
}
