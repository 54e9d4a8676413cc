// Package settlement orchestrates the daily cash settlement ("corte de caja")
// of delivery workers: day preview, one-per-day creation, enriched listing,
// review and statement export.
package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/cortecaja/backend/internal/domain/settlement"
	"github.com/cortecaja/backend/internal/domain/shared"
	"github.com/cortecaja/backend/internal/infrastructure/export"
	"github.com/cortecaja/backend/internal/infrastructure/logger"
	"github.com/cortecaja/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultGuardTTL bounds how long a submission holds its slot lock
const DefaultGuardTTL = 30 * time.Second

// Conflict stages reported to metrics
const (
	stageGuard    = "guard"
	stagePrecheck = "precheck"
	stageInsert   = "insert"
)

// DayAggregator computes the live breakdown of a worker's day
type DayAggregator interface {
	Aggregate(ctx context.Context, workerID uuid.UUID, day settlement.CivilDate) (*settlement.Aggregate, error)
}

// MetricsRecorder receives the service's business counters
type MetricsRecorder interface {
	RecordCreated(settlementType string)
	RecordConflict(settlementType, stage string)
	RecordBreakdownTier(tier string)
	RecordSkippedBreakdowns(n int)
	RecordExport(format string, err error)
}

// StatementRenderer renders a statement document
type StatementRenderer interface {
	Render(st *export.Statement, format export.Format) (*export.Document, error)
}

// StatementArchive stores rendered statements
type StatementArchive interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

type noopMetrics struct{}

func (noopMetrics) RecordCreated(string) {}
func (noopMetrics) RecordConflict(string, string) {}
func (noopMetrics) RecordBreakdownTier(string) {}
func (noopMetrics) RecordSkippedBreakdowns(int) {}
func (noopMetrics) RecordExport(string, error) {}

// Service handles settlement business operations
type Service struct {
	repo       settlement.SettlementRepository
	aggregator DayAggregator
	guard      settlement.SubmissionGuard
	guardTTL   time.Duration
	metrics    MetricsRecorder
	renderer   StatementRenderer
	archive    StatementArchive
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithSubmissionGuard serializes concurrent creates for the same slot
func WithSubmissionGuard(guard settlement.SubmissionGuard, ttl time.Duration) Option {
	return func(s *Service) {
		s.guard = guard
		if ttl > 0 {
			s.guardTTL = ttl
		}
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRenderer replaces the statement renderer
func WithRenderer(r StatementRenderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithArchive stores every exported statement
func WithArchive(a StatementArchive) Option {
	return func(s *Service) {
		s.archive = a
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock used to determine today's civil date
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new settlement service
func NewService(repo settlement.SettlementRepository, aggregator DayAggregator, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		aggregator: aggregator,
		guardTTL:   DefaultGuardTTL,
		metrics:    noopMetrics{},
		renderer:   export.NewRenderer(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() settlement.CivilDate {
	return settlement.Today(s.now())
}

// GetDaySummary previews today's delivered orders, credit payments and their
// category breakdown. Nothing is persisted.
func (s *Service) GetDaySummary(ctx context.Context, workerID uuid.UUID) (*DaySummaryResponse, error) {
	if workerID == uuid.Nil {
		return nil, shared.NewValidationError("worker is required")
	}

	ctx = logger.WithWorkerID(ctx, workerID.String())
	day := s.today()
	agg, err := s.aggregator.Aggregate(ctx, workerID, day)
	if err != nil {
		return nil, fmt.Errorf("aggregate day %s: %w", day, err)
	}
	s.logSkipped(ctx, agg)

	resp := ToDaySummaryResponse(agg)
	return &resp, nil
}

func (s *Service) logSkipped(ctx context.Context, agg *settlement.Aggregate) {
	if len(agg.Skipped) == 0 {
		return
	}
	log := logger.For(ctx, s.logger)
	s.metrics.RecordSkippedBreakdowns(len(agg.Skipped))
	for _, skipped := range agg.Skipped {
		log.Warn("Skipped unparsable payment breakdown",
			zap.String("day", agg.Day.String()),
			zap.String("record_kind", skipped.RecordKind),
			zap.String("record_id", skipped.RecordID),
			zap.Error(skipped.Err),
		)
	}
	log.Warn("Day totals under-count declared sales",
		zap.String("day", agg.Day.String()),
		zap.String("unclassified_sales", agg.UnclassifiedSales().String()),
	)
}

// CheckExisting returns today's settlement of the given type for the worker
func (s *Service) CheckExisting(ctx context.Context, workerID uuid.UUID, settlementType string) (*ExistingResponse, error) {
	t, err := parseType(settlementType)
	if err != nil {
		return nil, err
	}
	if workerID == uuid.Nil {
		return nil, shared.NewValidationError("worker is required")
	}

	existing, err := s.repo.FindByWorkerTypeDay(ctx, workerID, t, s.today())
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return &ExistingResponse{Exists: false}, nil
	}

	resp := ToSettlementResponse(existing, settlement.ResolveBreakdown(existing, settlement.CategoryTotals{}))
	return &ExistingResponse{Exists: true, Settlement: &resp}, nil
}

// Create closes today's settlement of the requested type for the worker. A
// second settlement for the same worker, type and day fails with a conflict
// and writes nothing.
func (s *Service) Create(ctx context.Context, req CreateSettlementRequest) (*SettlementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "create",
		telemetry.WithAttribute(telemetry.SpanAttrWorkerID, req.WorkerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrType, req.Type),
	)
	defer span.End()

	resp, err := s.create(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSettlementID, resp.ID.String(),
		telemetry.SpanAttrDay, resp.Day,
	)
	return resp, nil
}

func (s *Service) create(ctx context.Context, req CreateSettlementRequest) (*SettlementResponse, error) {
	t, err := parseType(req.Type)
	if err != nil {
		return nil, err
	}
	if err := requireDeclaredTotal(t, req); err != nil {
		return nil, err
	}
	day := s.today()

	params := settlement.NewSettlementParams{
		WorkerID: req.WorkerID,
		Type:     t,
		Day:      day,
		Totals: settlement.DeclaredTotals{
			Sales:       amountOrZero(req.TotalSales),
			Collections: amountOrZero(req.TotalCollections),
			Cash:        req.TotalCash,
			Other:       req.TotalOther,
		},
		CategorySnapshot: rawOrNil(req.CategorySnapshot),
		SalesSnapshot:    rawOrNil(req.SalesSnapshot),
		Notes:            req.Notes,
		LineItems:        make([]settlement.LineItem, len(req.LineItems)),
		Deposits:         make([]settlement.Deposit, len(req.Deposits)),
	}
	if req.Stats != nil {
		params.Totals.Volume = req.Stats.Volume
		params.Totals.Units = req.Stats.Units
	}
	for i, item := range req.LineItems {
		params.LineItems[i] = settlement.LineItem{
			ReferenceID:   item.ReferenceID,
			ReferenceKind: settlement.ReferenceKind(item.ReferenceKind),
			Amount:        item.Amount,
			Method:        item.Method,
		}
	}
	for i, d := range req.Deposits {
		params.Deposits[i] = settlement.Deposit{
			Amount:        d.Amount,
			Folio:         d.Folio,
			RejectedBills: d.RejectedBills,
			Coins:         d.Coins,
			Total:         d.Total,
		}
	}

	entity, err := settlement.NewSettlement(params, s.now())
	if err != nil {
		return nil, err
	}

	ctx = logger.WithWorkerID(ctx, entity.WorkerID.String())
	log := logger.For(ctx, s.logger)

	key := entity.DayKey()
	if s.guard != nil {
		token, acquired, err := s.guard.Acquire(ctx, key, s.guardTTL)
		switch {
		case err != nil:
			// the unique index still rejects duplicates
			log.Warn("Submission guard unavailable", zap.String("key", key), zap.Error(err))
		case !acquired:
			s.metrics.RecordConflict(string(t), stageGuard)
			return nil, settlement.ConflictError(t, day)
		default:
			defer func() {
				if err := s.guard.Release(context.WithoutCancel(ctx), key, token); err != nil {
					log.Warn("Failed to release submission guard", zap.String("key", key), zap.Error(err))
				}
			}()
		}
	}

	existing, err := s.repo.FindByWorkerTypeDay(ctx, entity.WorkerID, t, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.metrics.RecordConflict(string(t), stagePrecheck)
		return nil, settlement.ConflictError(t, day)
	}

	if err := s.repo.CreateIfAbsent(ctx, entity); err != nil {
		if shared.IsConflict(err) {
			s.metrics.RecordConflict(string(t), stageInsert)
		}
		return nil, err
	}
	s.metrics.RecordCreated(string(t))

	// the id is final only once the insert went through
	logger.For(logger.WithSettlementID(ctx, entity.ID.String()), s.logger).Info("Settlement created",
		zap.String("type", string(t)),
		zap.String("day", day.String()),
		zap.String("total_sales", entity.Totals.Sales.String()),
		zap.String("total_collections", entity.Totals.Collections.String()),
		zap.Int("line_items", len(entity.LineItems)),
		zap.Int("deposits", len(entity.Deposits)),
	)

	resp := ToSettlementResponse(entity, settlement.ResolveBreakdown(entity, settlement.CategoryTotals{}))
	return &resp, nil
}

// ListAll lists settlements with worker, line items and deposits, each
// carrying a recomputed category breakdown.
func (s *Service) ListAll(ctx context.Context, filter ListFilter) ([]SettlementResponse, error) {
	f, err := toDomainFilter(filter)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}

	live := newLiveCache(s.aggregator)
	result := make([]SettlementResponse, len(items))
	for i := range items {
		result[i] = s.enrich(ctx, &items[i], live)
	}
	return result, nil
}

// GetByID returns one enriched settlement. A non-nil workerID scopes the
// lookup to that worker's settlements.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, workerID *uuid.UUID) (*SettlementResponse, error) {
	ctx = logger.WithSettlementID(ctx, id.String())
	entity, err := s.find(ctx, id, workerID)
	if err != nil {
		return nil, err
	}
	resp := s.enrich(ctx, entity, newLiveCache(s.aggregator))
	return &resp, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID, workerID *uuid.UUID) (*settlement.Settlement, error) {
	if workerID != nil {
		return s.repo.FindByIDForWorker(ctx, id, *workerID)
	}
	return s.repo.FindByID(ctx, id)
}

// Validate applies a review: state (default validated) and notes. Nothing
// else on the settlement changes.
func (s *Service) Validate(ctx context.Context, id uuid.UUID, req ValidateSettlementRequest) (*SettlementResponse, error) {
	state := settlement.State(req.State)
	if state != "" && !state.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("invalid settlement state %q", req.State))
	}

	ctx = logger.WithSettlementID(ctx, id.String())
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := entity.State
	if err := entity.Review(state, req.Notes, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateReview(ctx, id, entity.State, entity.Notes); err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("Settlement reviewed",
		zap.String("from_state", string(previous)),
		zap.String("to_state", string(entity.State)),
		zap.Any("checklist", req.Checklist),
	)

	resp := s.enrich(ctx, entity, newLiveCache(s.aggregator))
	return &resp, nil
}

// ServiceCategorySummary rolls up a day's settlements of a service category.
// An empty or malformed day means today.
func (s *Service) ServiceCategorySummary(ctx context.Context, category string, siteID *uuid.UUID, day string) (*ServiceCategorySummaryResponse, error) {
	if category == "" {
		return nil, shared.NewValidationError("category is required")
	}
	d := settlement.CivilDateOrToday(day, s.now())

	summary, err := s.repo.GetServiceCategorySummary(ctx, category, siteID, d)
	if err != nil {
		return nil, err
	}
	resp := ToServiceCategorySummaryResponse(summary)
	return &resp, nil
}

// Export renders the enriched settlement as a statement document and
// archives it when an archive is configured. Archive failures are logged;
// the document is still returned.
func (s *Service) Export(ctx context.Context, id uuid.UUID, workerID *uuid.UUID, format string) (*export.Document, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "settlement", "export",
		telemetry.WithAttribute(telemetry.SpanAttrSettlementID, id.String()),
		telemetry.WithAttribute(telemetry.SpanAttrFormat, format),
	)
	defer span.End()

	doc, err := s.export(ctx, id, workerID, format)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return doc, nil
}

func (s *Service) export(ctx context.Context, id uuid.UUID, workerID *uuid.UUID, format string) (*export.Document, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, shared.NewValidationError(err.Error())
	}
	ctx = logger.WithSettlementID(ctx, id.String())

	entity, err := s.find(ctx, id, workerID)
	if err != nil {
		return nil, err
	}
	resp := s.enrich(ctx, entity, newLiveCache(s.aggregator))

	doc, err := s.renderer.Render(ToStatement(&resp, s.now()), f)
	s.metrics.RecordExport(string(f), err)
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		key := ArchiveKey(entity, f)
		if err := s.archive.Upload(ctx, key, doc.Body, doc.ContentType); err != nil {
			telemetry.AddEvent(trace.SpanFromContext(ctx), "archive_failed", "key", key)
			logger.For(ctx, s.logger).Warn("Failed to archive statement",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	return doc, nil
}

// ArchiveKey is the object key of an exported statement
func ArchiveKey(s *settlement.Settlement, f export.Format) string {
	return fmt.Sprintf("statements/%s/%s/%s.%s", s.Day, s.Type, s.ID, f)
}

// enrich attaches the breakdown chosen by the tier fallback
func (s *Service) enrich(ctx context.Context, entity *settlement.Settlement, live *liveCache) SettlementResponse {
	log := logger.For(logger.WithSettlementID(ctx, entity.ID.String()), s.logger)

	totals, err := live.totalsFor(ctx, entity)
	if err != nil {
		log.Warn("Live recomputation failed, falling back to stored data", zap.Error(err))
	}

	res := settlement.ResolveBreakdown(entity, totals)
	s.metrics.RecordBreakdownTier(string(res.Tier))

	fields := []zap.Field{
		zap.String("type", string(entity.Type)),
		zap.String("day", entity.Day.String()),
		zap.String("tier", string(res.Tier)),
	}
	switch {
	case res.SnapshotErr != nil:
		log.Warn("Unparsable category snapshot", append(fields, zap.Error(res.SnapshotErr))...)
	case res.Tier.IsLowTrust():
		log.Warn("Breakdown taken from legacy snapshot; it may mix both settlement types", fields...)
	default:
		log.Debug("Breakdown resolved", fields...)
	}

	return ToSettlementResponse(entity, res)
}

// liveCache memoizes day aggregates so that the daily-sales and
// credit-collection settlements of one worker-day share one recomputation.
type liveCache struct {
	aggregator DayAggregator
	entries    map[string]liveEntry
}

type liveEntry struct {
	agg *settlement.Aggregate
	err error
}

func newLiveCache(aggregator DayAggregator) *liveCache {
	return &liveCache{aggregator: aggregator, entries: make(map[string]liveEntry)}
}

func (c *liveCache) totalsFor(ctx context.Context, entity *settlement.Settlement) (settlement.CategoryTotals, error) {
	if c.aggregator == nil {
		return settlement.CategoryTotals{}, nil
	}
	key := entity.WorkerID.String() + ":" + entity.Day.String()
	entry, ok := c.entries[key]
	if !ok {
		agg, err := c.aggregator.Aggregate(ctx, entity.WorkerID, entity.Day)
		entry = liveEntry{agg: agg, err: err}
		c.entries[key] = entry
	}
	if entry.err != nil {
		return settlement.CategoryTotals{}, entry.err
	}
	return entry.agg.TotalsFor(entity.Type), nil
}

// requireDeclaredTotal checks that the total the settlement type closes on
// was declared. Zero is a valid declaration; absence is not.
func requireDeclaredTotal(t settlement.Type, req CreateSettlementRequest) error {
	switch {
	case t == settlement.TypeDailySales && req.TotalSales == nil:
		return shared.NewValidationError("total_sales is required for a daily-sales settlement")
	case t == settlement.TypeCreditCollection && req.TotalCollections == nil:
		return shared.NewValidationError("total_collections is required for a credit-collection settlement")
	}
	return nil
}

func amountOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func parseType(value string) (settlement.Type, error) {
	t := settlement.Type(value)
	if !t.IsValid() {
		return "", shared.NewValidationError(fmt.Sprintf("invalid settlement type %q", value))
	}
	return t, nil
}

func toDomainFilter(f ListFilter) (settlement.Filter, error) {
	out := settlement.Filter{WorkerID: f.WorkerID}
	if f.Type != "" {
		t, err := parseType(f.Type)
		if err != nil {
			return out, err
		}
		out.Type = &t
	}
	if f.State != "" {
		state := settlement.State(f.State)
		if !state.IsValid() {
			return out, shared.NewValidationError(fmt.Sprintf("invalid settlement state %q", f.State))
		}
		out.State = &state
	}
	for _, bound := range []struct {
		raw  string
		dest **settlement.CivilDate
	}{{f.From, &out.From}, {f.To, &out.To}} {
		if bound.raw == "" {
			continue
		}
		d, err := settlement.ParseCivilDate(bound.raw)
		if err != nil {
			return out, shared.NewValidationError(err.Error())
		}
		*bound.dest = &d
	}
	return out, nil
}

func rawOrNil(raw []byte) []byte {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
