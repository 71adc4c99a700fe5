// Package router models client-side navigation events. Callbacks registered
// with OnAfterRouteChanged run synchronously, in registration order, after
// every Navigate.
package router

import (
	"sync"

	"golang.org/x/net/html"
)

// Page is the document shown after a navigation.
type Page struct {
	Path string
	Doc  *html.Node
}

// AfterRouteChanged is invoked after each navigation. Its result, if any, is
// not consumed.
type AfterRouteChanged func(*Page)

// Router dispatches navigation events. The zero value is ready to use.
type Router struct {
	mu      sync.RWMutex
	after   []AfterRouteChanged
	current string
	count   uint64
}

// New returns an empty Router.
func New() *Router { return &Router{} }

// OnAfterRouteChanged registers fn for every subsequent navigation.
func (r *Router) OnAfterRouteChanged(fn AfterRouteChanged) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.after = append(r.after, fn)
	r.mu.Unlock()
}

// Navigate records page as the current route and runs the after-route
// callbacks against it. A nil page is ignored.
func (r *Router) Navigate(page *Page) {
	if page == nil {
		return
	}
	r.mu.Lock()
	r.current = page.Path
	r.count++
	callbacks := make([]AfterRouteChanged, len(r.after))
	copy(callbacks, r.after)
	r.mu.Unlock()

	for _, fn := range callbacks {
		fn(page)
	}
}

// Current returns the path of the last navigation.
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Navigations returns how many navigations have happened.
func (r *Router) Navigations() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Hooks returns the number of registered callbacks.
func (r *Router) Hooks() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.after)
}
