package item

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recur/internal/billing"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
	"github.com/MrJamesThe3rd/recur/internal/schedule"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=item
type Repository interface {
	CreateItem(ctx context.Context, it *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	UpdateItem(ctx context.Context, it *Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, filter ListFilter) ([]*Item, error)
	UpdateBillingDates(ctx context.Context, id uuid.UUID, next, lastUsed time.Time) error

	CreatePlanned(ctx context.Context, p *Planned) error
	ListPlanned(ctx context.Context) ([]*Planned, error)
	DeletePlanned(ctx context.Context, id uuid.UUID) error

	BeginConfirm(ctx context.Context) (ConfirmTx, error)
}

// ConfirmTx serialises confirmations so concurrent saves of the same review
// list cannot both pass the duplicate check.
type ConfirmTx interface {
	ListItems(ctx context.Context) ([]*Item, error)
	CreateItems(ctx context.Context, items []*Item) error
	Commit() error
	Rollback() error
}

// AliasSource returns alternative names per canonical item name. Keys are
// lowercase.
type AliasSource interface {
	Aliases(ctx context.Context) (map[string][]string, error)
}

type Service struct {
	repo    Repository
	aliases AliasSource
	now     func() time.Time
}

type Option func(*Service)

func WithAliases(a AliasSource) Option {
	return func(s *Service) { s.aliases = a }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Name            string
	Category        string
	Amount          decimal.Decimal
	Frequency       recurring.Frequency
	BillingDay      *int
	NextBillingDate *time.Time
	LastUsedDate    *time.Time
	SignUpDate      *time.Time
	ShiftWeekends   bool
	Confidence      *int
}

type ListFilter struct {
	Category  *string
	Frequency *recurring.Frequency
}

// ParamsFromResult turns a reviewed result into create parameters. Dates
// that do not parse are left unset.
func ParamsFromResult(r recurring.ParsedResult) CreateParams {
	return CreateParams{
		Name:            r.Name,
		Category:        r.Category,
		Amount:          r.Cost,
		Frequency:       r.Frequency,
		NextBillingDate: parseDate(r.NextBilling),
		LastUsedDate:    parseDate(r.LastUsed),
		Confidence:      r.Confidence,
	}
}

func (p CreateParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: %w: %s must be positive", ErrInvalid, recurring.ErrInvalidAmount, p.Amount)
	}

	if _, err := recurring.ParseFrequency(string(p.Frequency)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if p.BillingDay != nil && (*p.BillingDay < 1 || *p.BillingDay > 31) {
		return fmt.Errorf("%w: billing day %d out of range", ErrInvalid, *p.BillingDay)
	}

	return nil
}

func (p CreateParams) toItem() *Item {
	category := p.Category
	if category == "" {
		category = recurring.CategoryOther
	}

	frequency := p.Frequency
	if frequency == "" {
		frequency = recurring.FrequencyUnknown
	}

	return &Item{
		Name:            strings.TrimSpace(p.Name),
		Category:        category,
		RawAmount:       p.Amount.Round(2),
		Frequency:       frequency,
		BillingDay:      p.BillingDay,
		NextBillingDate: p.NextBillingDate,
		LastUsedDate:    p.LastUsedDate,
		SignUpDate:      p.SignUpDate,
		ShiftWeekends:   p.ShiftWeekends,
		Confidence:      p.Confidence,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	it := params.toItem()
	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, err
	}

	return it, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	return s.repo.ListItems(ctx, filter)
}

func (s *Service) Update(ctx context.Context, it *Item) error {
	if !it.RawAmount.IsPositive() {
		return fmt.Errorf("%w: %w: %s must be positive", ErrInvalid, recurring.ErrInvalidAmount, it.RawAmount)
	}

	return s.repo.UpdateItem(ctx, it)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, id)
}

// Pause suppresses the item in the month containing until. A nil until
// clears the pause.
func (s *Service) Pause(ctx context.Context, id uuid.UUID, until *time.Time) error {
	it, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return err
	}

	it.PausedUntil = until

	return s.repo.UpdateItem(ctx, it)
}

// ConfirmResult reports what a confirmation saved and what it skipped as a
// near-duplicate of an existing item.
type ConfirmResult struct {
	Created []*Item
	Skipped []Skipped
}

type Skipped struct {
	Incoming CreateParams
	Existing *Item
}

// Confirm saves reviewed entries. An entry that shares a name (aliases
// included) with an existing or earlier entry and is within 10% of its
// amount is skipped rather than merged.
func (s *Service) Confirm(ctx context.Context, params []CreateParams) (*ConfirmResult, error) {
	if len(params) == 0 {
		return &ConfirmResult{}, nil
	}

	for _, p := range params {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("invalid entry %q: %w", p.Name, err)
		}
	}

	aliases, err := s.aliasMap(ctx)
	if err != nil {
		return nil, err
	}

	itx, err := s.repo.BeginConfirm(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin confirm: %w", err)
	}
	defer itx.Rollback()

	existing, err := itx.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	res := &ConfirmResult{}

	pool := append([]*Item(nil), existing...)

	for _, p := range params {
		it := p.toItem()

		if dup := findDuplicate(pool, it, aliases); dup != nil {
			res.Skipped = append(res.Skipped, Skipped{Incoming: p, Existing: dup})
			continue
		}

		res.Created = append(res.Created, it)
		pool = append(pool, it)
	}

	if len(res.Created) == 0 {
		return res, nil
	}

	if err := itx.CreateItems(ctx, res.Created); err != nil {
		return nil, fmt.Errorf("create items: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit confirm: %w", err)
	}

	return res, nil
}

func findDuplicate(pool []*Item, incoming *Item, aliases map[string][]string) *Item {
	in := recurring.Charge{Names: namesOf(incoming.Name, aliases), Amount: incoming.RawAmount}

	for _, it := range pool {
		existing := recurring.Charge{Names: namesOf(it.Name, aliases), Amount: it.RawAmount}
		if recurring.FuzzyDuplicate(existing, in) {
			return it
		}
	}

	return nil
}

func namesOf(name string, aliases map[string][]string) []string {
	return append([]string{name}, aliases[recurring.NormalizeName(name)]...)
}

func (s *Service) aliasMap(ctx context.Context) (map[string][]string, error) {
	if s.aliases == nil {
		return nil, nil
	}

	m, err := s.aliases.Aliases(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aliases: %w", err)
	}

	return m, nil
}

// KnownSet returns the names of all tracked items and their aliases, for
// suppressing re-detections during a scan.
func (s *Service) KnownSet(ctx context.Context) (*recurring.KnownSet, error) {
	items, err := s.repo.ListItems(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}

	aliases, err := s.aliasMap(ctx)
	if err != nil {
		return nil, err
	}

	known := recurring.NewKnownSet()
	for _, it := range items {
		known.Add(namesOf(it.Name, aliases)...)
	}

	return known, nil
}

// Refresh updates the billing dates of tracked items from fresh statement
// detections. A detection applies to the item whose name (or alias) it
// matches and must carry a last-used date. It returns the number of items
// updated.
func (s *Service) Refresh(ctx context.Context, detections []recurring.ParsedResult) (int, error) {
	if len(detections) == 0 {
		return 0, nil
	}

	items, err := s.repo.ListItems(ctx, ListFilter{})
	if err != nil {
		return 0, err
	}

	aliases, err := s.aliasMap(ctx)
	if err != nil {
		return 0, err
	}

	resolver := schedule.NewResolver(s.now())
	updated := 0

	for _, it := range items {
		lastUsed := latestUse(it, detections, aliases)
		if lastUsed == nil {
			continue
		}

		next := resolver.NextBilling(it.Plan(), *lastUsed)
		if it.NextBillingDate != nil && it.NextBillingDate.Equal(next) &&
			it.LastUsedDate != nil && it.LastUsedDate.Equal(*lastUsed) {
			continue
		}

		if err := s.repo.UpdateBillingDates(ctx, it.ID, next, *lastUsed); err != nil {
			return updated, fmt.Errorf("refreshing %q: %w", it.Name, err)
		}

		updated++
	}

	return updated, nil
}

func latestUse(it *Item, detections []recurring.ParsedResult, aliases map[string][]string) *time.Time {
	known := recurring.NewKnownSet(namesOf(it.Name, aliases)...)

	var latest *time.Time

	for _, d := range detections {
		used := parseDate(d.LastUsed)
		if used == nil || !known.Contains(d.Name) {
			continue
		}

		if latest == nil || used.After(*latest) {
			latest = used
		}
	}

	return latest
}

func (s *Service) CreatePlanned(ctx context.Context, p *Planned) error {
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: %w: %s must be positive", ErrInvalid, recurring.ErrInvalidAmount, p.Amount)
	}

	if p.Recurrence == "" && p.Date == nil {
		return fmt.Errorf("%w: a one-off planned expense needs a date", ErrInvalid)
	}

	return s.repo.CreatePlanned(ctx, p)
}

func (s *Service) ListPlanned(ctx context.Context) ([]*Planned, error) {
	return s.repo.ListPlanned(ctx)
}

func (s *Service) DeletePlanned(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePlanned(ctx, id)
}

type CalendarParams struct {
	From        billing.Month
	Months      int
	ForwardOnly bool
}

// Calendar renders consecutive months of tracked and planned charges.
func (s *Service) Calendar(ctx context.Context, params CalendarParams) ([]schedule.MonthView, error) {
	items, err := s.repo.ListItems(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}

	planned, err := s.repo.ListPlanned(ctx)
	if err != nil {
		return nil, err
	}

	charges := make([]schedule.Charge, len(items))
	for i, it := range items {
		charges[i] = it.Charge()
	}

	plannedCharges := make([]schedule.PlannedCharge, len(planned))
	for i, p := range planned {
		plannedCharges[i] = p.Charge()
	}

	var opts []schedule.CalendarOption
	if params.ForwardOnly {
		opts = append(opts, schedule.ForwardOnly())
	}

	months := params.Months
	if months <= 0 {
		months = 1
	}

	cal := schedule.NewCalendar(s.now(), opts...)

	return cal.Range(charges, plannedCharges, params.From, months), nil
}

// Totals sums the monthly-normalised cost of items.
func Totals(items []*Item) (monthly, annual decimal.Decimal) {
	monthly = decimal.Zero
	for _, it := range items {
		monthly = monthly.Add(it.MonthlyCost())
	}

	return monthly, monthly.Mul(decimal.NewFromInt(12))
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}

	return &t
}
