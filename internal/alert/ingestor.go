package alert

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/shelter-nav/internal/domain"
	"github.com/couchcryptid/shelter-nav/internal/observability"
)

// State is a source's position in the ingestion cycle.
type State string

const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateNormalizing State = "normalizing"
	StatePublishing  State = "publishing"
	StateFailed      State = "failed"
)

// DefaultInterval is the polling interval when none is configured.
const DefaultInterval = 5 * time.Minute

// SourceStatus reports the last known state of one source.
type SourceStatus struct {
	Name        string    `json:"name"`
	State       State     `json:"state"`
	LastRun     time.Time `json:"last_run,omitzero"`
	LastSuccess time.Time `json:"last_success,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
	Published   int       `json:"published"`
}

// Options tunes an Ingestor. Zero values select the defaults.
type Options struct {
	Interval     time.Duration
	FetchTimeout time.Duration
	BufferSize   int
	DedupTTL     time.Duration
	// Publisher, when set, receives every record added to the buffer.
	Publisher Publisher
	Clock     clockwork.Clock
}

// Ingestor polls its sources on a timer and publishes normalized, classified
// records into a per-category Buffer. Manual injection shares the same
// publish path.
type Ingestor struct {
	sources      []Source
	classifier   *domain.Classifier
	buffer       *Buffer
	dedup        *Deduplicator
	publisher    Publisher
	clock        clockwork.Clock
	interval     time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
	metrics      *observability.Metrics

	statusMu sync.RWMutex
	status   map[string]*SourceStatus

	// publishMu serializes the timer and injection producers.
	publishMu sync.Mutex
	displaced map[domain.Category][]domain.AlertRecord
	ready     atomic.Bool
}

// New creates an Ingestor over the given sources.
func New(sources []Source, classifier *domain.Classifier, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Ingestor {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}

	status := make(map[string]*SourceStatus, len(sources))
	for _, s := range sources {
		status[s.Name()] = &SourceStatus{Name: s.Name(), State: StateIdle}
	}

	return &Ingestor{
		sources:      sources,
		classifier:   classifier,
		buffer:       NewBuffer(opts.BufferSize),
		dedup:        NewDeduplicator(opts.DedupTTL, opts.Clock),
		publisher:    opts.Publisher,
		clock:        opts.Clock,
		interval:     opts.Interval,
		fetchTimeout: opts.FetchTimeout,
		logger:       logger,
		metrics:      metrics,
		status:       status,
		displaced:    make(map[domain.Category][]domain.AlertRecord),
	}
}

// CheckReadiness returns nil once the first ingestion cycle has completed,
// whether or not its sources succeeded.
func (in *Ingestor) CheckReadiness(_ context.Context) error {
	if !in.ready.Load() {
		return errors.New("alert ingestor has not completed a cycle yet")
	}
	return nil
}

// Buffer exposes the per-category records for display.
func (in *Ingestor) Buffer() *Buffer { return in.buffer }

// Run executes one cycle immediately and then one per interval until the
// context is cancelled.
func (in *Ingestor) Run(ctx context.Context) error {
	in.logger.Info("alert ingestor started", "sources", len(in.sources), "interval", in.interval)
	in.metrics.IngestorRunning.Set(1)
	defer in.metrics.IngestorRunning.Set(0)

	ticker := in.clock.NewTicker(in.interval)
	defer ticker.Stop()

	in.Cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			in.logger.Info("alert ingestor stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			in.Cycle(ctx)
		}
	}
}

// Cycle polls every source once. A failing source never stops the others.
func (in *Ingestor) Cycle(ctx context.Context) {
	if n := in.dedup.Prune(); n > 0 {
		in.logger.Debug("pruned expired alert ids", "expired", n, "remaining", in.dedup.Len())
	}
	for _, s := range in.sources {
		if ctx.Err() != nil {
			return
		}
		in.runSource(ctx, s)
	}
	in.ready.Store(true)
}

func (in *Ingestor) runSource(ctx context.Context, s Source) {
	in.setState(s.Name(), StateFetching)

	fetchCtx, cancel := context.WithTimeout(ctx, in.fetchTimeout)
	payload, err := s.Fetch(fetchCtx)
	cancel()
	if err != nil {
		in.fail(ctx, s, "fetch", err)
		return
	}

	in.setState(s.Name(), StateNormalizing)
	records, err := s.Normalize(payload)
	if err != nil {
		in.fail(ctx, s, "normalize", err)
		return
	}

	in.setState(s.Name(), StatePublishing)
	for i := range records {
		records[i].Urgent = in.classifier.Urgent(records[i].Message)
	}
	in.clearFallbacks(s.Categories())
	added := in.publish(ctx, records, true)

	in.metrics.AlertCycles.WithLabelValues(s.Name(), "success").Inc()
	in.updateStatus(s.Name(), func(st *SourceStatus) {
		st.State = StateIdle
		st.LastSuccess = st.LastRun
		st.LastError = ""
		st.Published += added
	})
	in.logger.Debug("alert source polled", "source", s.Name(), "records", len(records), "added", added)
}

// fail marks the source Failed and publishes one placeholder per category
// it covers so those categories are never left empty.
func (in *Ingestor) fail(ctx context.Context, s Source, stage string, err error) {
	in.logger.Warn("alert source failed, publishing fallback",
		"source", s.Name(),
		"stage", stage,
		"error", err,
	)
	in.metrics.AlertCycles.WithLabelValues(s.Name(), "error").Inc()

	now := in.clock.Now()
	fallbacks := make([]domain.AlertRecord, 0, len(s.Categories()))
	for _, c := range s.Categories() {
		fallbacks = append(fallbacks, domain.FallbackAlert(c, now))
	}
	in.publish(ctx, fallbacks, false)

	in.updateStatus(s.Name(), func(st *SourceStatus) {
		st.State = StateFailed
		st.LastError = err.Error()
	})
}

// Inject publishes a canned alert with an explicit urgency, bypassing
// classification and deduplication.
func (in *Ingestor) Inject(ctx context.Context, category domain.Category, urgent bool) domain.AlertRecord {
	rec := domain.CannedAlert(category, urgent, in.clock.Now())
	in.publish(ctx, []domain.AlertRecord{rec}, false)
	in.metrics.AlertsInjected.WithLabelValues(string(category)).Inc()
	in.logger.Info("alert injected", "category", category, "urgent", urgent, "id", rec.ID)
	return rec
}

// InjectAll injects every category/urgency combination, non-urgent first so
// the urgent alert of each category ends up newest.
func (in *Ingestor) InjectAll(ctx context.Context) []domain.AlertRecord {
	out := make([]domain.AlertRecord, 0, 2*len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, in.Inject(ctx, c, false), in.Inject(ctx, c, true))
	}
	return out
}

// publish adds records to the buffer, oldest first so the newest ends up at
// the front, and forwards the added ones to the publisher. With dedup set,
// records seen within the TTL are dropped. Returns the number added.
func (in *Ingestor) publish(ctx context.Context, records []domain.AlertRecord, dedup bool) int {
	in.publishMu.Lock()
	defer in.publishMu.Unlock()

	added := make([]domain.AlertRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if dedup && in.dedup.CheckAndMark(rec.ID) {
			in.metrics.AlertsDeduplicated.Inc()
			continue
		}
		in.track(rec, in.buffer.Add(rec))
		in.metrics.AlertsPublished.WithLabelValues(string(rec.Category), strconv.FormatBool(rec.Urgent)).Inc()
		added = append(added, rec)
	}

	if in.publisher != nil && len(added) > 0 {
		if err := in.publisher.Publish(ctx, added); err != nil {
			in.logger.Warn("forward alerts failed", "error", err, "count", len(added))
		}
	}
	return len(added)
}

// track remembers real records pushed out by a placeholder so they can be
// restored on recovery. Any other eviction means those records have aged out.
// Callers hold publishMu.
func (in *Ingestor) track(rec domain.AlertRecord, evicted []domain.AlertRecord) {
	if len(evicted) == 0 {
		return
	}
	if rec.ID != domain.FallbackID(rec.Category) {
		delete(in.displaced, rec.Category)
		return
	}
	for _, e := range evicted {
		if e.ID != domain.FallbackID(e.Category) {
			in.displaced[rec.Category] = append(in.displaced[rec.Category], e)
		}
	}
}

// clearFallbacks drops the placeholders of a healthy source and puts back
// the records they displaced.
func (in *Ingestor) clearFallbacks(categories []domain.Category) {
	in.publishMu.Lock()
	defer in.publishMu.Unlock()

	for _, c := range categories {
		if in.buffer.Remove(c, domain.FallbackID(c)) {
			for _, rec := range in.displaced[c] {
				in.buffer.Restore(rec)
			}
		}
		delete(in.displaced, c)
	}
}

// Status returns a snapshot of every source's state in source order.
func (in *Ingestor) Status() []SourceStatus {
	in.statusMu.RLock()
	defer in.statusMu.RUnlock()

	out := make([]SourceStatus, 0, len(in.sources))
	for _, s := range in.sources {
		out = append(out, *in.status[s.Name()])
	}
	return out
}

func (in *Ingestor) setState(name string, state State) {
	in.updateStatus(name, func(st *SourceStatus) {
		st.State = state
		if state == StateFetching {
			st.LastRun = in.clock.Now()
		}
	})
}

func (in *Ingestor) updateStatus(name string, fn func(*SourceStatus)) {
	in.statusMu.Lock()
	defer in.statusMu.Unlock()
	if st, ok := in.status[name]; ok {
		fn(st)
	}
}
