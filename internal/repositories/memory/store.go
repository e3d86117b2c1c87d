// Package memory is an in-process implementation of the repository ports.
//
// A single mutex serializes units of work, which gives the same isolation as
// the row locks taken by the pgsql repositories. A failed unit restores the
// snapshot taken when it began.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/SscSPs/treasury_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type stockKey struct {
	productID   string
	warehouseID string
}

type state struct {
	users        map[string]domain.User
	treasuries   map[string]domain.Treasury
	ledger       []domain.TreasuryTransaction
	partners     map[string]domain.Partner
	products     map[string]domain.Product
	stock        map[stockKey]decimal.Decimal
	documents    map[string]domain.Document
	payments     []domain.InvoicePayment
	expenses     map[string]domain.Expense
	revenues     map[string]domain.Revenue
	installments map[string]domain.Installment
	periods      map[string]domain.EquityPeriod
}

func newState() *state {
	return &state{
		users:        make(map[string]domain.User),
		treasuries:   make(map[string]domain.Treasury),
		partners:     make(map[string]domain.Partner),
		products:     make(map[string]domain.Product),
		stock:        make(map[stockKey]decimal.Decimal),
		documents:    make(map[string]domain.Document),
		expenses:     make(map[string]domain.Expense),
		revenues:     make(map[string]domain.Revenue),
		installments: make(map[string]domain.Installment),
		periods:      make(map[string]domain.EquityPeriod),
	}
}

// clone copies everything a unit of work can mutate.
func (s *state) clone() *state {
	c := &state{
		users:        maps.Clone(s.users),
		treasuries:   maps.Clone(s.treasuries),
		ledger:       slices.Clone(s.ledger),
		partners:     maps.Clone(s.partners),
		products:     maps.Clone(s.products),
		stock:        maps.Clone(s.stock),
		documents:    make(map[string]domain.Document, len(s.documents)),
		payments:     slices.Clone(s.payments),
		expenses:     maps.Clone(s.expenses),
		revenues:     maps.Clone(s.revenues),
		installments: maps.Clone(s.installments),
		periods:      make(map[string]domain.EquityPeriod, len(s.periods)),
	}
	for id, d := range s.documents {
		c.documents[id] = copyDocument(d)
	}
	for id, p := range s.periods {
		c.periods[id] = copyPeriod(p)
	}
	return c
}

func copyDocument(d domain.Document) domain.Document {
	d.Lines = slices.Clone(d.Lines)
	if d.InstallmentPlan != nil {
		plan := *d.InstallmentPlan
		d.InstallmentPlan = &plan
	}
	return d
}

func copyPeriod(p domain.EquityPeriod) domain.EquityPeriod {
	p.Partners = slices.Clone(p.Partners)
	return p
}

// txCtxKey marks a context that already holds the store lock.
type txCtxKey struct{}

// Store implements every repository port on top of in-memory maps.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// lock acquires the store for a single call unless ctx is inside a unit of work.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txCtxKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTransaction implements repositories.TransactionManager. Nested calls join the outer unit.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txCtxKey{}) == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if r := recover(); r != nil {
			s.st = snapshot
			panic(r)
		}
		if err != nil {
			s.st = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txCtxKey{}, s))
}

// NewRepositoryProvider wires one Store behind every port.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return NewRepositoryProviderFor(NewStore())
}

// NewRepositoryProviderFor wires an existing store, so tests can inspect it.
func NewRepositoryProviderFor(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       s,
		TreasuryRepo:    s,
		LedgerRepo:      s,
		PartnerRepo:     s,
		DocumentRepo:    s,
		PaymentRepo:     s,
		InventoryRepo:   s,
		ExpenseRepo:     s,
		RevenueRepo:     s,
		InstallmentRepo: s,
		EquityRepo:      s,
		UserRepo:        s,
	}
}

var (
	_ portsrepo.TransactionManager             = (*Store)(nil)
	_ portsrepo.TreasuryRepositoryFacade       = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade         = (*Store)(nil)
	_ portsrepo.PartnerRepositoryFacade        = (*Store)(nil)
	_ portsrepo.DocumentRepositoryFacade       = (*Store)(nil)
	_ portsrepo.InvoicePaymentRepositoryFacade = (*Store)(nil)
	_ portsrepo.InventoryRepositoryFacade      = (*Store)(nil)
	_ portsrepo.ExpenseRepositoryFacade        = (*Store)(nil)
	_ portsrepo.RevenueRepositoryFacade        = (*Store)(nil)
	_ portsrepo.InstallmentRepositoryFacade    = (*Store)(nil)
	_ portsrepo.EquityRepositoryFacade         = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade           = (*Store)(nil)
)
