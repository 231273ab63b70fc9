// Package adaptertest provides in-memory implementations of the application
// adapters for use case tests.
package adaptertest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/condo-portal/ledger/internal/application/adapter"
	"github.com/condo-portal/ledger/internal/domain/entity"
	domainerror "github.com/condo-portal/ledger/internal/domain/error"
)

// Store holds every record the fake repositories serve.
// Setting an Err field makes the matching repository fail.
type Store struct {
	mu sync.Mutex

	Communities map[string]entity.Community
	Residents   map[string]entity.Resident
	Charges     map[string]entity.Charge
	Payments    map[string]entity.Payment
	Config      map[string]map[string]string

	ChargeErr   error
	PaymentErr  error
	ResidentErr error
	ConfigErr   error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		Communities: map[string]entity.Community{},
		Residents:   map[string]entity.Resident{},
		Charges:     map[string]entity.Charge{},
		Payments:    map[string]entity.Payment{},
		Config:      map[string]map[string]string{},
	}
}

// AddCommunity registers a community.
func (s *Store) AddCommunity(c entity.Community) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Communities[c.ID] = c
}

// AddResident registers a resident.
func (s *Store) AddResident(r entity.Resident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Residents[r.ID] = r
}

// AddCharge stores a charge as-is.
func (s *Store) AddCharge(c entity.Charge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Charges[c.ID] = c
}

// AddPayment stores a payment as-is.
func (s *Store) AddPayment(p entity.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Payments[p.ID] = p
}

// SetConfig stores a configuration value.
func (s *Store) SetConfig(communityID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Config[communityID] == nil {
		s.Config[communityID] = map[string]string{}
	}
	s.Config[communityID][key] = value
}

// ChargeRepository returns the store's charge repository.
func (s *Store) ChargeRepository() adapter.ChargeRepository { return chargeRepo{s} }

// PaymentRepository returns the store's payment repository.
func (s *Store) PaymentRepository() adapter.PaymentRepository { return paymentRepo{s} }

// ResidentRepository returns the store's resident repository.
func (s *Store) ResidentRepository() adapter.ResidentRepository { return residentRepo{s} }

// CommunityRepository returns the store's community repository.
func (s *Store) CommunityRepository() adapter.CommunityRepository { return communityRepo{s} }

// ConfigRepository returns the store's community configuration repository.
func (s *Store) ConfigRepository() adapter.CommunityConfigRepository { return configRepo{s} }

type chargeRepo struct{ s *Store }

func (r chargeRepo) Create(ctx context.Context, charge *entity.Charge) error {
	r.s.AddCharge(*charge)
	return nil
}

func (r chargeRepo) CreateIfAbsent(ctx context.Context, charge *entity.Charge) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Charges[charge.ID]; ok {
		return false, nil
	}
	r.s.Charges[charge.ID] = *charge
	return true, nil
}

func (r chargeRepo) FindByResident(ctx context.Context, residentID string) ([]entity.Charge, error) {
	return r.filter(func(c entity.Charge) bool { return c.ResidentID == residentID })
}

func (r chargeRepo) FindByCommunity(ctx context.Context, communityID string) ([]entity.Charge, error) {
	return r.filter(func(c entity.Charge) bool { return c.CommunityID == communityID })
}

func (r chargeRepo) filter(keep func(entity.Charge) bool) ([]entity.Charge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ChargeErr != nil {
		return nil, r.s.ChargeErr
	}
	var out []entity.Charge
	for _, c := range r.s.Charges {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.s.AddPayment(*payment)
	return nil
}

func (r paymentRepo) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Payments[id]
	if !ok {
		return nil, domainerror.ErrPaymentNotFound
	}
	return &p, nil
}

func (r paymentRepo) UpdateStatus(ctx context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Payments[payment.ID]; !ok {
		return domainerror.ErrPaymentNotFound
	}
	r.s.Payments[payment.ID] = *payment
	return nil
}

func (r paymentRepo) FindByResident(ctx context.Context, residentID string) ([]entity.Payment, error) {
	return r.filter(func(p entity.Payment) bool { return p.ResidentID == residentID })
}

func (r paymentRepo) FindByCommunity(ctx context.Context, communityID string) ([]entity.Payment, error) {
	return r.filter(func(p entity.Payment) bool { return p.CommunityID == communityID })
}

func (r paymentRepo) filter(keep func(entity.Payment) bool) ([]entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.PaymentErr != nil {
		return nil, r.s.PaymentErr
	}
	var out []entity.Payment
	for _, p := range r.s.Payments {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

type residentRepo struct{ s *Store }

func (r residentRepo) FindByID(ctx context.Context, id string) (*entity.Resident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ResidentErr != nil {
		return nil, r.s.ResidentErr
	}
	res, ok := r.s.Residents[id]
	if !ok {
		return nil, domainerror.ErrResidentNotFound
	}
	return &res, nil
}

func (r residentRepo) FindByCommunity(ctx context.Context, communityID string) ([]entity.Resident, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ResidentErr != nil {
		return nil, r.s.ResidentErr
	}
	var out []entity.Resident
	for _, res := range r.s.Residents {
		if res.CommunityID == communityID {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Unit < out[j].Unit })
	return out, nil
}

type communityRepo struct{ s *Store }

func (r communityRepo) FindByID(ctx context.Context, id string) (*entity.Community, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.Communities[id]
	if !ok {
		return nil, domainerror.ErrCommunityNotFound
	}
	return &c, nil
}

type configRepo struct{ s *Store }

func (r configRepo) FindByCommunity(ctx context.Context, communityID string) ([]entity.ConfigEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ConfigErr != nil {
		return nil, r.s.ConfigErr
	}
	var out []entity.ConfigEntry
	for key, value := range r.s.Config[communityID] {
		out = append(out, entity.ConfigEntry{CommunityID: communityID, Key: key, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r configRepo) Upsert(ctx context.Context, entry entity.ConfigEntry) error {
	r.s.SetConfig(entry.CommunityID, entry.Key, entry.Value)
	return nil
}

// FixedClock is a Clock that always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }

// Cache is an in-memory DelinquencyCache.
type Cache struct {
	mu            sync.Mutex
	reports       map[string]entity.DelinquencyReport
	generations   map[string]int64
	Invalidations int
	Err           error
	// BeforeSet runs at the start of Set, outside the lock.
	BeforeSet func()
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		reports:     map[string]entity.DelinquencyReport{},
		generations: map[string]int64{},
	}
}

func cacheKey(communityID string, asOf time.Time) string {
	return communityID + "|" + asOf.Format("2006-01-02")
}

// Get returns the cached report for the community and date.
func (c *Cache) Get(ctx context.Context, communityID string, asOf time.Time) (*entity.DelinquencyReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	report, ok := c.reports[cacheKey(communityID, asOf)]
	if !ok {
		return nil, nil
	}
	return &report, nil
}

// Generation returns the community's invalidation count.
func (c *Cache) Generation(ctx context.Context, communityID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	return c.generations[communityID], nil
}

// Set stores a report unless the community was invalidated since generation.
func (c *Cache) Set(ctx context.Context, communityID string, generation int64, report *entity.DelinquencyReport) (bool, error) {
	if c.BeforeSet != nil {
		c.BeforeSet()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	if c.generations[communityID] != generation {
		return false, nil
	}
	c.reports[cacheKey(communityID, report.AsOf)] = *report
	return true, nil
}

// Invalidate drops the community's reports.
func (c *Cache) Invalidate(ctx context.Context, communityID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Invalidations++
	c.generations[communityID]++
	for key := range c.reports {
		if strings.HasPrefix(key, communityID+"|") {
			delete(c.reports, key)
		}
	}
	return c.Err
}

// Len returns the number of cached reports.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reports)
}

// Metrics records the calls made to a LedgerMetrics.
type Metrics struct {
	mu              sync.Mutex
	LedgersBuilt    int
	Classifications int
	CacheHits       int
	ProviderFailure map[string]int
}

// NewMetrics creates an empty Metrics recorder.
func NewMetrics() *Metrics {
	return &Metrics{ProviderFailure: map[string]int{}}
}

// LedgerBuilt records a ledger computation.
func (m *Metrics) LedgerBuilt(rows, warnings int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LedgersBuilt++
}

// DelinquencyClassified records a classification.
func (m *Metrics) DelinquencyClassified(residents, delinquents, warnings int, cached bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Classifications++
	if cached {
		m.CacheHits++
	}
}

// ProviderFailed records a provider failure.
func (m *Metrics) ProviderFailed(provider string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProviderFailure[provider]++
}

// NoticeService collects queued notices.
type NoticeService struct {
	mu      sync.Mutex
	Notices []adapter.DelinquencyNoticeInput
	Err     error
}

// QueueDelinquencyNotice records the notice.
func (n *NoticeService) QueueDelinquencyNotice(ctx context.Context, input adapter.DelinquencyNoticeInput) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Notices = append(n.Notices, input)
	return nil
}

// Exporter renders reports as short text markers.
type Exporter struct {
	Kind       adapter.ReportFormat // Defaults to xlsx
	LastLedger entity.LedgerResult
	LastReport *entity.DelinquencyReport
}

// Format returns Kind.
func (e *Exporter) Format() adapter.ReportFormat {
	if e.Kind == "" {
		return adapter.ReportFormatXLSX
	}
	return e.Kind
}

// ContentType returns a plain text type.
func (e *Exporter) ContentType() string {
	return "text/plain"
}

// ResidentStatement records the ledger.
func (e *Exporter) ResidentStatement(resident *entity.Resident, ledger entity.LedgerResult, asOf time.Time) ([]byte, error) {
	e.LastLedger = ledger
	return []byte("statement:" + resident.ID), nil
}

// DelinquencyReport records the report.
func (e *Exporter) DelinquencyReport(communityID string, report *entity.DelinquencyReport, residents map[string]entity.Resident) ([]byte, error) {
	e.LastReport = report
	return []byte("delinquents:" + communityID), nil
}
