// Package loader implements the single-writer signal cache worker described
// in spec.md §4.8: one goroutine per loaded file drains a mailbox of load
// and reload requests, while HTTP handlers await completion via a
// broadcast notifier. Grounded on the teacher's Server.runPoller/forcePoll
// goroutine-plus-ticker pattern (pkg/server/server.go), generalized from
// "poll tc" to "drain a mailbox channel of load requests".
package loader

import (
	"context"
	"sort"
	"sync"

	"github.com/ripopov/surfer-sub001/pkg/waveform"
)

// Source loads signal bodies on demand for one file and re-opens that file
// on reload. It is a narrower, file-scoped interface than
// pkg/waveform.SignalSource: LoadSignals reports an error and takes no
// multi-threading flag.
type Source interface {
	LoadSignals(ids []uint64) (map[uint64]waveform.Signal, error)
	Reopen() error
}

// request is one mailbox message.
type request struct {
	ids    []uint64 // SignalRequest when non-nil
	reload bool     // Reload when true
}

// Loader owns one file's signal cache and serializes all mutation through
// a single goroutine reading from mailbox.
type Loader struct {
	source  Source
	mailbox chan request

	mu       sync.RWMutex
	cache    map[uint64]waveform.Signal
	notifyMu sync.Mutex
	notifyCh chan struct{} // closed and replaced on every cache mutation

	// Status mirrors spec.md's SurverStatus fields relevant to reload.
	statusMu     sync.RWMutex
	reloading    bool
	lastReloadOk bool
}

// New starts a Loader's drain goroutine and returns it. Callers must call
// Close (or cancel ctx) to stop the goroutine.
func New(ctx context.Context, source Source) *Loader {
	l := &Loader{
		source:       source,
		mailbox:      make(chan request, 32),
		cache:        make(map[uint64]waveform.Signal),
		notifyCh:     make(chan struct{}),
		lastReloadOk: true,
	}
	go l.run(ctx)
	return l
}

// RequestSignals enqueues a SignalRequest for the given ids. It blocks only
// while the mailbox (capacity 32) is full; use AwaitIDs to wait for the
// result to land in the cache.
func (l *Loader) RequestSignals(ids []uint64) {
	l.mailbox <- request{ids: dedupSorted(ids)}
}

// RequestReload marks the loader as reloading synchronously, then enqueues
// a Reload message for the drain goroutine to actually perform. Marking
// happens here, under statusMu, rather than inside handleReload, so that a
// status snapshot taken immediately after RequestReload returns already
// reflects reloading=true/last_reload_ok=false -- matching spec.md §4.7's
// "mark reloading, send Reload to the loader thread, return 202 Accepted
// with current status" ordering.
func (l *Loader) RequestReload() {
	l.MarkReloading()
	l.mailbox <- request{reload: true}
}

// MarkReloading synchronously flips the reload status to
// reloading=true/last_reload_ok=false. Exported so callers that need the
// status to be visible before the mailbox message is even enqueued (e.g.
// to build a response body) can call it directly.
func (l *Loader) MarkReloading() {
	l.statusMu.Lock()
	l.reloading = true
	l.lastReloadOk = false
	l.statusMu.Unlock()
}

func dedupSorted(ids []uint64) []uint64 {
	out := append([]uint64(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	deduped := out[:0]
	var prev uint64
	havePrev := false
	for _, id := range out {
		if havePrev && id == prev {
			continue
		}
		deduped = append(deduped, id)
		prev, havePrev = id, true
	}
	return deduped
}

func (l *Loader) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-l.mailbox:
			if req.reload {
				l.handleReload()
				continue
			}
			l.handleSignalRequest(req.ids)
		}
	}
}

func (l *Loader) handleSignalRequest(ids []uint64) {
	missing := make([]uint64, 0, len(ids))
	l.mu.RLock()
	for _, id := range ids {
		if _, ok := l.cache[id]; !ok {
			missing = append(missing, id)
		}
	}
	l.mu.RUnlock()

	if len(missing) == 0 {
		return
	}

	loaded, err := l.source.LoadSignals(missing)
	if err != nil {
		return
	}

	l.mu.Lock()
	for id, sig := range loaded {
		l.cache[id] = sig
	}
	l.mu.Unlock()

	l.broadcast()
}

func (l *Loader) handleReload() {
	// reloading/last_reload_ok were already flipped synchronously by
	// MarkReloading when this message was enqueued (RequestReload).
	l.mu.Lock()
	l.cache = make(map[uint64]waveform.Signal)
	l.mu.Unlock()

	err := l.source.Reopen()

	l.statusMu.Lock()
	l.reloading = false
	l.lastReloadOk = err == nil
	l.statusMu.Unlock()

	l.broadcast()
}

// broadcast closes the current notify channel (waking every AwaitIDs
// caller) and installs a fresh one.
func (l *Loader) broadcast() {
	l.notifyMu.Lock()
	close(l.notifyCh)
	l.notifyCh = make(chan struct{})
	l.notifyMu.Unlock()
}

func (l *Loader) notifyChan() chan struct{} {
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	return l.notifyCh
}

// AwaitIDs enqueues a request for ids and blocks until every id is present
// in the cache, or ctx is cancelled. Per spec.md §4.8, the loader never
// blocks on response writing -- only the caller awaits.
func (l *Loader) AwaitIDs(ctx context.Context, ids []uint64) error {
	l.RequestSignals(ids)
	for {
		if l.allPresent(ids) {
			return nil
		}
		ch := l.notifyChan()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

func (l *Loader) allPresent(ids []uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, id := range ids {
		if _, ok := l.cache[id]; !ok {
			return false
		}
	}
	return true
}

// Get returns a cached signal, if present.
func (l *Loader) Get(id uint64) (waveform.Signal, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sig, ok := l.cache[id]
	return sig, ok
}

// IsLoaded reports whether id is currently cached.
func (l *Loader) IsLoaded(id uint64) bool {
	_, ok := l.Get(id)
	return ok
}

// Status is the reload-relevant subset of SurverStatus for this file.
type Status struct {
	Reloading    bool
	LastReloadOk bool
}

// StatusSnapshot returns the current reload status.
func (l *Loader) StatusSnapshot() Status {
	l.statusMu.RLock()
	defer l.statusMu.RUnlock()
	return Status{Reloading: l.reloading, LastReloadOk: l.lastReloadOk}
}
