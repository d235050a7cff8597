package auth

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeyCache_MissOnEmpty(t *testing.T) {
	c := NewKeyCache(time.Minute)

	res := c.Get("tvk_abcd1234")
	if res.Hit {
		t.Fatal("expected miss on empty cache")
	}
}

func TestKeyCache_FreshHit(t *testing.T) {
	c := NewKeyCache(time.Minute)
	project := &ProjectContext{ProjectID: "proj-1", Mode: "enforce"}
	c.Set("tvk_abcd1234", project)

	res := c.Get("tvk_abcd1234")
	if !res.Hit {
		t.Fatal("expected hit")
	}
	if res.NeedsRefresh {
		t.Fatal("fresh entry must not signal refresh")
	}
	if res.Project != project {
		t.Fatal("expected stored project")
	}
}

func TestKeyCache_StaleSignalsRefreshOnce(t *testing.T) {
	c := NewKeyCache(-time.Second) // entries are stale immediately
	c.Set("tvk_abcd1234", &ProjectContext{ProjectID: "proj-1"})

	first := c.Get("tvk_abcd1234")
	if !first.Hit || !first.NeedsRefresh {
		t.Fatal("first stale read must hit and signal refresh")
	}

	second := c.Get("tvk_abcd1234")
	if !second.Hit {
		t.Fatal("stale reads still serve the cached project")
	}
	if second.NeedsRefresh {
		t.Fatal("refresh must be signaled exactly once per expiry")
	}
}

func TestKeyCache_SetResetsRefreshSignal(t *testing.T) {
	c := NewKeyCache(-time.Second)
	c.Set("tvk_abcd1234", &ProjectContext{ProjectID: "proj-1"})

	if res := c.Get("tvk_abcd1234"); !res.NeedsRefresh {
		t.Fatal("expected refresh signal")
	}

	// A refreshed entry arms the signal again.
	c.Set("tvk_abcd1234", &ProjectContext{ProjectID: "proj-1"})
	if res := c.Get("tvk_abcd1234"); !res.NeedsRefresh {
		t.Fatal("expected refresh signal after re-set of a stale entry")
	}
}

func TestKeyCache_Delete(t *testing.T) {
	c := NewKeyCache(time.Minute)
	c.Set("tvk_abcd1234", &ProjectContext{ProjectID: "proj-1"})
	c.Delete("tvk_abcd1234")

	if res := c.Get("tvk_abcd1234"); res.Hit {
		t.Fatal("expected miss after delete")
	}
}

func TestKeyCache_ConcurrentStaleReads(t *testing.T) {
	c := NewKeyCache(-time.Second)
	c.Set("tvk_abcd1234", &ProjectContext{ProjectID: "proj-1"})

	var refreshSignals atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := c.Get("tvk_abcd1234")
			if !res.Hit {
				t.Error("expected hit")
				return
			}
			if res.NeedsRefresh {
				refreshSignals.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := refreshSignals.Load(); got != 1 {
		t.Fatalf("expected exactly 1 refresh signal, got %d", got)
	}
}
