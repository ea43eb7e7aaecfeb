// Package worker runs a search index inside an isolated goroutine and
// exposes it through an asynchronous request/response channel.
//
// Every request carries a correlation ID and its own reply channel. The
// worker applies requests one at a time in receipt order, so the index
// needs no locking. Documents and hits are copied across the boundary;
// neither side ever holds a reference to the other's mutable state.
package worker

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
	"github.com/custodia-labs/notevault/internal/logger"
	"github.com/custodia-labs/notevault/internal/metrics"
	"github.com/custodia-labs/notevault/internal/snippet"
)

// Ensure Worker implements the interface.
var _ driven.SearchWorker = (*Worker)(nil)

const (
	queueSize = 64

	// maxTombstones bounds the versions remembered for removed paths.
	maxTombstones = 4096
)

type op string

const (
	opUpsert op = "upsert"
	opRemove op = "remove"
	opSearch op = "search"
)

type request struct {
	id      string
	op      op
	doc     domain.Document
	path    string
	version uint64
	query   string
	reply   chan response
}

type response struct {
	id   string
	hits []domain.SearchHit
	err  error
}

// Config configures a worker.
type Config struct {
	// Index is the engine the worker takes ownership of. Required.
	Index driven.SearchIndex

	// Snippets builds the excerpt shown with each hit.
	Snippets snippet.Extractor

	// Limit caps the hits per search. Zero means domain.DefaultSearchLimit.
	Limit int

	// CacheSize is the number of query results kept. Zero disables caching.
	CacheSize int

	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Worker owns a search index on a dedicated goroutine.
type Worker struct {
	requests chan request
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once

	// Owned by the run goroutine.
	index    driven.SearchIndex
	snippets snippet.Extractor
	limit    int
	cache    *lru.Cache[string, []domain.SearchHit]

	// versions holds the last applied version of every indexed path;
	// tombstones holds it for recently removed paths.
	versions   map[string]uint64
	tombstones *lru.Cache[string, uint64]
	metrics  *metrics.Metrics
	log      logger.Component
}

// Start launches a worker around cfg.Index.
func Start(cfg Config) (*Worker, error) {
	if cfg.Index == nil {
		return nil, fmt.Errorf("start worker: nil index: %w", domain.ErrInvalidInput)
	}

	w := &Worker{
		requests: make(chan request, queueSize),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
		index:    cfg.Index,
		snippets: cfg.Snippets,
		limit:    cfg.Limit,
		versions: make(map[string]uint64),
		metrics:  cfg.Metrics,
		log:      logger.For("worker"),
	}
	if w.limit <= 0 {
		w.limit = domain.DefaultSearchLimit
	}
	tombstones, err := lru.New[string, uint64](maxTombstones)
	if err != nil {
		return nil, fmt.Errorf("start worker: tombstones: %w", err)
	}
	w.tombstones = tombstones
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, []domain.SearchHit](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("start worker: result cache: %w", err)
		}
		w.cache = cache
	}

	w.metrics.WorkerStarted()
	go w.run()
	w.log.Debug("started (limit=%d, cache=%d)", w.limit, cfg.CacheSize)

	return w, nil
}

// Upsert indexes doc inside the worker.
func (w *Worker) Upsert(ctx context.Context, doc domain.Document) error {
	_, err := w.call(ctx, request{op: opUpsert, doc: doc})
	return err
}

// Remove drops path from the index.
func (w *Worker) Remove(ctx context.Context, path string, version uint64) error {
	_, err := w.call(ctx, request{op: opRemove, path: path, version: version})
	return err
}

// Search runs query against the index and returns hits with snippets.
func (w *Worker) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	resp, err := w.call(ctx, request{op: opSearch, query: query})
	if err != nil {
		return nil, err
	}
	return resp.hits, nil
}

// Terminate stops the worker goroutine and closes its index. Calls still
// waiting for a reply fail with domain.ErrWorkerTerminated.
func (w *Worker) Terminate() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
	<-w.exited
}

// call sends req across the boundary and waits for the matching reply.
// Cancelling ctx abandons the wait; a request already queued still runs.
func (w *Worker) call(ctx context.Context, req request) (response, error) {
	req.id = uuid.NewString()
	req.reply = make(chan response, 1)

	select {
	case <-w.done:
		return response{}, domain.ErrWorkerTerminated
	case <-ctx.Done():
		return response{}, ctx.Err()
	case w.requests <- req:
	}

	select {
	case resp := <-req.reply:
		return checkReply(req, resp)
	case <-ctx.Done():
		return response{}, ctx.Err()
	case <-w.exited:
		select {
		case resp := <-req.reply:
			return checkReply(req, resp)
		default:
			return response{}, domain.ErrWorkerTerminated
		}
	}
}

func checkReply(req request, resp response) (response, error) {
	if resp.id != req.id {
		return response{}, fmt.Errorf("%s %s: got reply %s: %w", req.op, req.id, resp.id, domain.ErrCorrelation)
	}
	return resp, resp.err
}

func (w *Worker) run() {
	defer close(w.exited)
	defer w.metrics.WorkerStopped()
	defer func() {
		if err := w.index.Close(); err != nil {
			w.log.Warn("closing index: %v", err)
		}
	}()

	for {
		select {
		case <-w.done:
			w.log.Debug("terminated")
			return
		case req := <-w.requests:
			req.reply <- w.handle(req)
		}
	}
}

// handle applies one request. A panic is reported as a failure of that
// request only; the worker keeps serving.
func (w *Worker) handle(req request) (resp response) {
	start := time.Now()
	status := metrics.StatusOK

	defer func() {
		if r := recover(); r != nil {
			w.log.Error("%s panicked: %v", req.op, r)
			resp = response{err: fmt.Errorf("search worker %s: panic: %v", req.op, r)}
		}
		resp.id = req.id
		if resp.err != nil {
			status = metrics.StatusError
		}
		w.metrics.ObserveRequest(string(req.op), status, time.Since(start))
	}()

	switch req.op {
	case opUpsert:
		applied, err := w.upsert(req.doc)
		if !applied && err == nil {
			status = metrics.StatusIgnored
		}
		return response{err: err}
	case opRemove:
		applied, err := w.remove(req.path, req.version)
		if !applied && err == nil {
			status = metrics.StatusIgnored
		}
		return response{err: err}
	case opSearch:
		hits, err := w.search(req.query)
		return response{hits: hits, err: err}
	default:
		return response{err: fmt.Errorf("unknown op %q: %w", req.op, domain.ErrInvalidInput)}
	}
}

// stale reports whether a write with version v for path is older than the
// newest write already applied. Version 0 is never stale.
func (w *Worker) stale(path string, v uint64) bool {
	if v == 0 {
		return false
	}
	last, ok := w.versions[path]
	if !ok {
		last, ok = w.tombstones.Peek(path)
	}
	return ok && v < last
}

// lastVersion returns the newest version recorded for path, live or removed.
func (w *Worker) lastVersion(path string) uint64 {
	if v, ok := w.versions[path]; ok {
		return v
	}
	v, _ := w.tombstones.Peek(path)
	return v
}

func (w *Worker) recordUpsert(path string, v uint64) {
	v = max(v, w.lastVersion(path))
	w.tombstones.Remove(path)
	if v != 0 {
		w.versions[path] = v
	}
}

func (w *Worker) recordRemove(path string, v uint64) {
	v = max(v, w.lastVersion(path))
	delete(w.versions, path)
	if v != 0 {
		w.tombstones.Add(path, v)
	}
}

// Tombstones returns the number of removed paths whose version is still
// remembered.
func (w *Worker) Tombstones() int {
	return w.tombstones.Len()
}

func (w *Worker) upsert(doc domain.Document) (bool, error) {
	if w.stale(doc.Path, doc.Version) {
		w.log.Debug("ignoring stale upsert %s v%d", doc.Path, doc.Version)
		return false, nil
	}
	if err := w.index.Upsert(doc); err != nil {
		return false, err
	}
	w.recordUpsert(doc.Path, doc.Version)
	w.mutated()
	return true, nil
}

func (w *Worker) remove(path string, version uint64) (bool, error) {
	if w.stale(path, version) {
		w.log.Debug("ignoring stale remove %s v%d", path, version)
		return false, nil
	}
	if err := w.index.Remove(path); err != nil {
		return false, err
	}
	// The version stays behind as a tombstone so an older upsert that
	// arrives late cannot resurrect the path.
	w.recordRemove(path, version)
	w.mutated()
	return true, nil
}

func (w *Worker) mutated() {
	if w.cache != nil {
		w.cache.Purge()
	}
	w.metrics.SetDocuments(w.index.Len())
}

func (w *Worker) search(query string) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchHit{}, nil
	}

	if w.cache != nil {
		if hits, ok := w.cache.Get(query); ok {
			w.metrics.CacheHit()
			return slices.Clone(hits), nil
		}
		w.metrics.CacheMiss()
	}

	matches, err := w.index.Search(query, w.limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	hits := make([]domain.SearchHit, 0, len(matches))
	for _, m := range matches {
		doc, ok := w.index.Get(m.Path)
		if !ok {
			continue
		}
		hits = append(hits, domain.SearchHit{
			Path:    doc.Path,
			Title:   doc.Title,
			Snippet: w.snippets.Make(doc.Text, query),
		})
	}

	if w.cache != nil {
		w.cache.Add(query, hits)
	}
	return slices.Clone(hits), nil
}
