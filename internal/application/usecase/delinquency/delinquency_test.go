package delinquency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/application/adapter/adaptertest"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

var now = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

type fixture struct {
	store   *adaptertest.Store
	cache   *adaptertest.Cache
	metrics *adaptertest.Metrics
	list    *ListDelinquentsUseCase
}

func newFixture() *fixture {
	store := adaptertest.NewStore()
	store.AddCommunity(entity.Community{ID: "com-1", Name: "Los Pinos"})
	store.AddResident(entity.Resident{ID: "r1", CommunityID: "com-1", Name: "Ana", Unit: "A-101", Email: "ana@example.com", Active: true})
	store.AddResident(entity.Resident{ID: "r2", CommunityID: "com-1", Name: "Luis", Unit: "A-102", Active: true})
	store.AddResident(entity.Resident{ID: "r3", CommunityID: "com-1", Name: "Eva", Unit: "A-103", Email: "eva@example.com", Active: true})

	// r1 owes three months, r2 owes two, r3 is up to date.
	for i, id := range []string{"r1", "r2", "r3"} {
		months := 3 - i
		for m := 1; m <= months; m++ {
			store.AddCharge(entity.Charge{
				ID:          id + "-c" + string(rune('0'+m)),
				ResidentID:  id,
				CommunityID: "com-1",
				Date:        time.Date(2025, time.Month(9+m), 1, 0, 0, 0, 0, time.UTC),
				Amount:      decimal.NewFromInt(800),
			})
		}
	}
	store.AddPayment(entity.Payment{
		ID: "p3", ResidentID: "r3", CommunityID: "com-1",
		PaymentDate: time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(800), Status: entity.PaymentStatusApplied,
	})

	cache := adaptertest.NewCache()
	metrics := adaptertest.NewMetrics()
	list := NewListDelinquentsUseCase(
		store.CommunityRepository(),
		store.ResidentRepository(),
		store.ChargeRepository(),
		store.PaymentRepository(),
		store.ConfigRepository(),
		cache,
		adaptertest.FixedClock{T: now},
		metrics,
		time.UTC,
	)
	return &fixture{store: store, cache: cache, metrics: metrics, list: list}
}

func TestListDelinquents_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("flags residents at or above the threshold", func(t *testing.T) {
		f := newFixture()

		out, err := f.list.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Report.Results) != 2 {
			t.Fatalf("expected 2 delinquents, got %d", len(out.Report.Results))
		}
		if out.Report.Results[0].ResidentID != "r1" || out.Report.Results[1].ResidentID != "r2" {
			t.Errorf("expected r1 then r2, got %s then %s", out.Report.Results[0].ResidentID, out.Report.Results[1].ResidentID)
		}
		if !out.Report.Threshold.Equal(decimal.NewFromInt(1600)) {
			t.Errorf("expected threshold 1600, got %s", out.Report.Threshold)
		}
		if out.Cached {
			t.Error("expected first run not to be cached")
		}
	})

	t.Run("second run is served from the cache", func(t *testing.T) {
		f := newFixture()

		if _, err := f.list.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := f.list.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Cached {
			t.Error("expected cached report")
		}
		if len(out.Residents) != 3 {
			t.Errorf("expected resident directory alongside cached report, got %d", len(out.Residents))
		}
		if f.metrics.CacheHits != 1 {
			t.Errorf("expected 1 cache hit, got %d", f.metrics.CacheHits)
		}
	})

	t.Run("configured maintenance amount changes the threshold", func(t *testing.T) {
		f := newFixture()
		f.store.SetConfig("com-1", "MONTO_MANT", "1200,00")

		out, err := f.list.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Report.Results) != 1 || out.Report.Results[0].ResidentID != "r1" {
			t.Errorf("expected only r1 above 2400, got %+v", out.Report.Results)
		}
	})

	t.Run("failed provider degrades to an empty collection", func(t *testing.T) {
		f := newFixture()
		f.store.ChargeErr = errors.New("timeout")

		out, err := f.list.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Report.Results) != 0 {
			t.Errorf("expected no delinquents without charges, got %d", len(out.Report.Results))
		}
		if f.metrics.ProviderFailure["charges"] != 1 {
			t.Errorf("expected charges failure recorded, got %v", f.metrics.ProviderFailure)
		}
		if f.cache.Len() != 0 {
			t.Error("expected degraded report not to be cached")
		}
	})

	t.Run("report is not cached when the community changes mid-run", func(t *testing.T) {
		f := newFixture()
		f.cache.BeforeSet = func() {
			f.store.AddCharge(entity.Charge{
				ID: "r3-late", ResidentID: "r3", CommunityID: "com-1",
				Date:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				Amount: decimal.NewFromInt(1600),
			})
			_ = f.cache.Invalidate(ctx, "com-1")
		}

		if _, err := f.list.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.cache.Len() != 0 {
			t.Fatalf("expected stale report to be discarded, got %d cached", f.cache.Len())
		}

		f.cache.BeforeSet = nil
		out, err := f.list.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Cached {
			t.Error("expected a fresh classification")
		}
		if len(out.Report.Results) != 3 {
			t.Errorf("expected the late charge to make r3 delinquent, got %d results", len(out.Report.Results))
		}
		if f.cache.Len() != 1 {
			t.Errorf("expected the fresh report to be cached, got %d", f.cache.Len())
		}
	})

	t.Run("cache failures are ignored", func(t *testing.T) {
		f := newFixture()
		f.cache.Err = errors.New("redis down")

		out, err := f.list.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Report.Results) != 2 {
			t.Errorf("expected 2 delinquents, got %d", len(out.Report.Results))
		}
	})

	t.Run("unknown community", func(t *testing.T) {
		f := newFixture()

		_, err := f.list.Execute(ctx, ListDelinquentsInput{CommunityID: "nope"})
		var ledgerErr *domainerror.LedgerError
		if !errors.As(err, &ledgerErr) || ledgerErr.Code != domainerror.ErrCodeCommunityNotFound {
			t.Errorf("expected community not found error, got %v", err)
		}
	})

	t.Run("community outside the caller's scope", func(t *testing.T) {
		f := newFixture()

		_, err := f.list.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1", Scope: adapter.CommunityScope{"com-9"}})
		if !errors.Is(err, domainerror.ErrMissingCommunityScope) {
			t.Errorf("expected scope error, got %v", err)
		}
	})
}

func TestNotifyDelinquents_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("queues notices for residents with an email", func(t *testing.T) {
		f := newFixture()
		notices := &adaptertest.NoticeService{}
		uc := NewNotifyDelinquentsUseCase(f.list, notices)

		out, err := uc.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Delinquents != 2 || out.Queued != 1 {
			t.Errorf("expected 2 delinquents and 1 queued, got %d and %d", out.Delinquents, out.Queued)
		}
		if len(out.Skipped) != 1 || out.Skipped[0] != "r2" {
			t.Errorf("expected r2 skipped, got %v", out.Skipped)
		}
		if len(notices.Notices) != 1 || notices.Notices[0].Balance != "2400.00" {
			t.Errorf("unexpected notices %+v", notices.Notices)
		}
	})

	t.Run("fails when no notice can be queued", func(t *testing.T) {
		f := newFixture()
		notices := &adaptertest.NoticeService{Err: errors.New("db down")}
		uc := NewNotifyDelinquentsUseCase(f.list, notices)

		_, err := uc.Execute(ctx, ListDelinquentsInput{CommunityID: "com-1"})
		if !errors.Is(err, domainerror.ErrNoticeQueueFailed) {
			t.Errorf("expected ErrNoticeQueueFailed, got %v", err)
		}
	})
}

func TestExportDelinquents_Execute(t *testing.T) {
	f := newFixture()
	exporter := &adaptertest.Exporter{}
	uc := NewExportDelinquentsUseCase(f.list, exporter)

	out, err := uc.Execute(context.Background(), ExportDelinquentsInput{ListDelinquentsInput: ListDelinquentsInput{CommunityID: "com-1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FileName != "morosos-com-1-2026-03-10.xlsx" {
		t.Errorf("unexpected file name %s", out.FileName)
	}
	if exporter.LastReport == nil || len(exporter.LastReport.Results) != 2 {
		t.Error("expected the classified report to be exported")
	}
}
