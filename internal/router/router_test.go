package router

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigateRunsCallbacksInOrder(t *testing.T) {
	r := New()
	var calls []string
	r.OnAfterRouteChanged(func(p *Page) { calls = append(calls, "first:"+p.Path) })
	r.OnAfterRouteChanged(func(p *Page) { calls = append(calls, "second:"+p.Path) })
	r.OnAfterRouteChanged(nil)

	r.Navigate(&Page{Path: "/python/"})
	r.Navigate(&Page{Path: "/container/docker.md"})

	assert.Equal(t, []string{
		"first:/python/", "second:/python/",
		"first:/container/docker.md", "second:/container/docker.md",
	}, calls)
	assert.Equal(t, "/container/docker.md", r.Current())
	assert.Equal(t, uint64(2), r.Navigations())
	assert.Equal(t, 2, r.Hooks())
}

func TestZeroValueRouter(t *testing.T) {
	var r Router
	r.Navigate(&Page{Path: "/"})
	assert.Equal(t, "/", r.Current())
}

func TestConcurrentNavigate(t *testing.T) {
	r := New()
	var mu sync.Mutex
	seen := 0
	r.OnAfterRouteChanged(func(*Page) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Navigate(&Page{Path: "/"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, seen)
	assert.Equal(t, uint64(20), r.Navigations())
}
