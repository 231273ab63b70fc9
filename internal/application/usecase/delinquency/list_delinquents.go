// Package delinquency contains delinquency classification use cases.
package delinquency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
	"github.com/condo-portal/ledger/internal/domain/service"
	"github.com/condo-portal/ledger/internal/domain/valueobject"
)

// ListDelinquentsInput represents the input for classifying a community.
type ListDelinquentsInput struct {
	CommunityID string
	AsOf        *time.Time // Overrides today's date in the community time zone
	Scope       adapter.CommunityScope
	SkipCache   bool
}

// ListDelinquentsOutput represents the delinquency report of a community.
type ListDelinquentsOutput struct {
	Community *entity.Community
	Report    *entity.DelinquencyReport
	Residents map[string]entity.Resident
	Cached    bool
}

// ListDelinquentsUseCase classifies the residents of a community.
type ListDelinquentsUseCase struct {
	communityRepo   adapter.CommunityRepository
	residentRepo    adapter.ResidentRepository
	chargeRepo      adapter.ChargeRepository
	paymentRepo     adapter.PaymentRepository
	configRepo      adapter.CommunityConfigRepository
	cache           adapter.DelinquencyCache
	clock           adapter.Clock
	metrics         adapter.LedgerMetrics
	defaultLocation *time.Location
}

// NewListDelinquentsUseCase creates a new ListDelinquentsUseCase instance.
// cache and metrics may be nil.
func NewListDelinquentsUseCase(
	communityRepo adapter.CommunityRepository,
	residentRepo adapter.ResidentRepository,
	chargeRepo adapter.ChargeRepository,
	paymentRepo adapter.PaymentRepository,
	configRepo adapter.CommunityConfigRepository,
	cache adapter.DelinquencyCache,
	clock adapter.Clock,
	metrics adapter.LedgerMetrics,
	defaultLocation *time.Location,
) *ListDelinquentsUseCase {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &ListDelinquentsUseCase{
		communityRepo:   communityRepo,
		residentRepo:    residentRepo,
		chargeRepo:      chargeRepo,
		paymentRepo:     paymentRepo,
		configRepo:      configRepo,
		cache:           cache,
		clock:           clock,
		metrics:         metrics,
		defaultLocation: defaultLocation,
	}
}

// Execute classifies the community's residents as of the requested date.
func (uc *ListDelinquentsUseCase) Execute(ctx context.Context, input ListDelinquentsInput) (*ListDelinquentsOutput, error) {
	if !input.Scope.Allows(input.CommunityID) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeCommunityForbidden,
			"not authorized to access this community",
			domainerror.ErrMissingCommunityScope,
		)
	}

	community, err := uc.communityRepo.FindByID(ctx, input.CommunityID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCommunityNotFound) {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeCommunityNotFound,
				"community not found",
				domainerror.ErrCommunityNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	asOf := uc.resolveAsOf(community, input.AsOf)

	if !input.SkipCache {
		if report := uc.cachedReport(ctx, community.ID, asOf); report != nil {
			residents := uc.fetchResidents(ctx, community.ID)
			uc.recordClassification(len(residents), report, true)
			return &ListDelinquentsOutput{
				Community: community,
				Report:    report,
				Residents: indexResidents(residents),
				Cached:    true,
			}, nil
		}
	}

	generation, cacheable := uc.cacheGeneration(ctx, community.ID)
	snap := uc.fetchSnapshot(ctx, community.ID)

	report := service.ClassifyDelinquents(snap.residents, snap.charges, snap.payments, snap.config, asOf)
	for _, w := range report.Warnings {
		slog.Warn("Excluded malformed record from delinquency report",
			"communityID", community.ID,
			"kind", w.Kind,
			"sourceID", w.SourceID,
			"residentID", w.ResidentID,
			"reason", w.Reason,
		)
	}
	uc.recordClassification(len(snap.residents), &report, false)

	if cacheable && !snap.degraded {
		stored, err := uc.cache.Set(ctx, community.ID, generation, &report)
		switch {
		case err != nil:
			slog.Warn("Failed to cache delinquency report", "communityID", community.ID, "error", err)
		case !stored:
			slog.Debug("Community changed while classifying, report not cached", "communityID", community.ID)
		}
	}

	return &ListDelinquentsOutput{
		Community: community,
		Report:    &report,
		Residents: indexResidents(snap.residents),
	}, nil
}

// cacheGeneration reads the invalidation counter the report will be stored under.
func (uc *ListDelinquentsUseCase) cacheGeneration(ctx context.Context, communityID string) (int64, bool) {
	if uc.cache == nil {
		return 0, false
	}
	generation, err := uc.cache.Generation(ctx, communityID)
	if err != nil {
		slog.Warn("Failed to read delinquency cache generation", "communityID", communityID, "error", err)
		return 0, false
	}
	return generation, true
}

// snapshot is everything the classifier needs for one community.
type snapshot struct {
	residents []entity.Resident
	charges   []entity.Charge
	payments  []entity.Payment
	config    []entity.ConfigEntry
	degraded  bool
}

// fetchSnapshot loads the four collections in parallel and waits for all of them.
// A failed provider contributes an empty collection.
func (uc *ListDelinquentsUseCase) fetchSnapshot(ctx context.Context, communityID string) snapshot {
	var (
		wg   sync.WaitGroup
		snap snapshot
		errs [4]error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		snap.residents, errs[0] = uc.residentRepo.FindByCommunity(ctx, communityID)
	}()
	go func() {
		defer wg.Done()
		snap.charges, errs[1] = uc.chargeRepo.FindByCommunity(ctx, communityID)
	}()
	go func() {
		defer wg.Done()
		snap.payments, errs[2] = uc.paymentRepo.FindByCommunity(ctx, communityID)
	}()
	go func() {
		defer wg.Done()
		snap.config, errs[3] = uc.configRepo.FindByCommunity(ctx, communityID)
	}()
	wg.Wait()

	providers := [4]string{"residents", "charges", "payments", "config"}
	for i, err := range errs {
		if err == nil {
			continue
		}
		snap.degraded = true
		slog.Warn("Data provider failed, classifying with empty collection",
			"communityID", communityID,
			"provider", providers[i],
			"error", err,
		)
		if uc.metrics != nil {
			uc.metrics.ProviderFailed(providers[i])
		}
		switch i {
		case 0:
			snap.residents = nil
		case 1:
			snap.charges = nil
		case 2:
			snap.payments = nil
		case 3:
			snap.config = nil
		}
	}
	return snap
}

func (uc *ListDelinquentsUseCase) fetchResidents(ctx context.Context, communityID string) []entity.Resident {
	residents, err := uc.residentRepo.FindByCommunity(ctx, communityID)
	if err != nil {
		slog.Warn("Failed to load residents for cached report", "communityID", communityID, "error", err)
		return nil
	}
	return residents
}

func (uc *ListDelinquentsUseCase) cachedReport(ctx context.Context, communityID string, asOf time.Time) *entity.DelinquencyReport {
	if uc.cache == nil {
		return nil
	}
	report, err := uc.cache.Get(ctx, communityID, asOf)
	if err != nil {
		slog.Warn("Failed to read delinquency cache", "communityID", communityID, "error", err)
		return nil
	}
	return report
}

func (uc *ListDelinquentsUseCase) resolveAsOf(community *entity.Community, override *time.Time) time.Time {
	if override != nil {
		return valueobject.DateOnly(*override)
	}
	loc := valueobject.LocationOrDefault(community.Timezone, uc.defaultLocation)
	return valueobject.TodayIn(uc.clock.Now(), loc)
}

func (uc *ListDelinquentsUseCase) recordClassification(residents int, report *entity.DelinquencyReport, cached bool) {
	if uc.metrics != nil {
		uc.metrics.DelinquencyClassified(residents, len(report.Results), len(report.Warnings), cached)
	}
}

func indexResidents(residents []entity.Resident) map[string]entity.Resident {
	index := make(map[string]entity.Resident, len(residents))
	for _, r := range residents {
		index[r.ID] = r
	}
	return index
}
