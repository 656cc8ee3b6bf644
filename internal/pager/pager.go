// Package pager keeps the page/hasMore state of one "load more" list and
// discards responses that arrive after a newer request was issued.
package pager

import "github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"

// Status is the list state machine: Idle → Loading → Loaded | Errored,
// and back to Loading on load-more or a new search.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Errored
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "errored"
	}
}

// Request is one fetch the owner must perform and hand back with Resolve.
type Request struct {
	Token uint64
	Page  int
	Query string
}

// Pager is not safe for concurrent use; the owning screen drives it from a
// single update loop.
type Pager[T any, K comparable] struct {
	key     func(T) K
	items   []T
	seen    map[K]struct{}
	next    int
	hasMore bool
	status  Status
	err     error
	query   string
	latest  uint64
	pending bool
}

// New returns an idle pager. key identifies items so a page that overlaps
// the previous one does not duplicate rows.
func New[T any, K comparable](key func(T) K) *Pager[T, K] {
	return &Pager[T, K]{key: key, seen: map[K]struct{}{}}
}

// Reset starts over from page 0 for query, dropping the current rows.
// Any in-flight request becomes stale.
func (p *Pager[T, K]) Reset(query string) Request {
	p.items = nil
	p.seen = map[K]struct{}{}
	p.next = 0
	p.hasMore = false
	p.err = nil
	p.query = query
	return p.issue()
}

// Reload is Reset with the current query.
func (p *Pager[T, K]) Reload() Request {
	return p.Reset(p.query)
}

// Next issues a request for the following page. It reports false when
// there is nothing more to load or a request is already in flight.
func (p *Pager[T, K]) Next() (Request, bool) {
	if p.pending || !p.hasMore {
		return Request{}, false
	}
	return p.issue(), true
}

func (p *Pager[T, K]) issue() Request {
	p.latest++
	p.pending = true
	p.status = Loading
	return Request{Token: p.latest, Page: p.next, Query: p.query}
}

// Resolve applies the response to req. Responses to anything but the latest
// request are dropped and Resolve reports false.
func (p *Pager[T, K]) Resolve(req Request, page models.Page[T], err error) bool {
	if req.Token != p.latest {
		return false
	}
	p.pending = false
	p.hasMore = !page.Last
	if err != nil {
		p.status = Errored
		p.err = err
		return true
	}
	p.err = nil
	p.status = Loaded
	p.next = req.Page + 1
	for _, item := range page.Content {
		k := p.key(item)
		if _, dup := p.seen[k]; dup {
			continue
		}
		p.seen[k] = struct{}{}
		p.items = append(p.items, item)
	}
	return true
}

// Remove drops the row with key k, e.g. after a confirmed delete.
func (p *Pager[T, K]) Remove(k K) bool {
	for i, item := range p.items {
		if p.key(item) == k {
			p.items = append(p.items[:i], p.items[i+1:]...)
			delete(p.seen, k)
			return true
		}
	}
	return false
}

// Replace swaps in an updated row with the same key.
func (p *Pager[T, K]) Replace(updated T) bool {
	k := p.key(updated)
	for i, item := range p.items {
		if p.key(item) == k {
			p.items[i] = updated
			return true
		}
	}
	return false
}

// Items returns the rows loaded so far. The slice must not be modified.
func (p *Pager[T, K]) Items() []T { return p.items }

func (p *Pager[T, K]) Len() int { return len(p.items) }

func (p *Pager[T, K]) HasMore() bool { return p.hasMore }

func (p *Pager[T, K]) Status() Status { return p.status }

// Err is the error of the last resolved request, if it failed.
func (p *Pager[T, K]) Err() error { return p.err }

func (p *Pager[T, K]) Query() string { return p.query }

// NextPage is the page index Next would request.
func (p *Pager[T, K]) NextPage() int { return p.next }
