package links_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/peppidesu/landmower/internal/links"
	"github.com/peppidesu/landmower/internal/queue"
)

// Hammers the store from reader, writer, and merger goroutines at once. Run
// with -race; correctness is checked via the index invariants afterwards.
func TestStore_ConcurrentMutation(t *testing.T) {
	s := links.New()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				link := fmt.Sprintf("https://example.com/%d/%d", w, i)
				alias, _, _, err := s.Add(link)
				if err != nil {
					continue
				}
				if i%3 == 0 {
					s.Remove(alias)
				}
			}
		}(w)
	}

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.Get("abcd")
				s.FindByLink("https://example.com/0/0")
				s.Snapshot()
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			s.ApplyAccessBatch([]queue.Event{
				{Alias: "abcd", Timestamp: time.Now()},
			})
		}
	}()

	wg.Wait()
	assert.NoError(t, s.CheckInvariants())
}
