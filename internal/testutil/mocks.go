// Package testutil provides map-backed fakes for the repository and
// messaging interfaces used across service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spenny/spenny-backend/internal/domain"
	"github.com/spenny/spenny-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID       map[uuid.UUID]*domain.User
	ByTelegram map[int64]*domain.User
	CreateErr  error
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:       make(map[uuid.UUID]*domain.User),
		ByTelegram: make(map[int64]*domain.User),
	}
}

// Seed stores a user in both indexes
func (m *MockUserRepository) Seed(user *domain.User) *domain.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.ByID[user.ID] = user
	m.ByTelegram[user.TelegramID] = user
	return user
}

// GetByID retrieves a user by internal ID
func (m *MockUserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByTelegramID retrieves a user by Telegram account ID
func (m *MockUserRepository) GetByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	if user, ok := m.ByTelegram[telegramID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Create creates a new user
func (m *MockUserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	now := time.Now()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.ByID[user.ID] = user
	m.ByTelegram[user.TelegramID] = user
	return user, nil
}

// UpdateSettings applies a partial settings update
func (m *MockUserRepository) UpdateSettings(_ context.Context, id uuid.UUID, settings domain.UserSettings) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if settings.DefaultCurrency != nil {
		user.DefaultCurrency = *settings.DefaultCurrency
	}
	if settings.AIFeaturesEnabled != nil {
		user.AIFeaturesEnabled = *settings.AIFeaturesEnabled
	}
	if settings.LanguageCode != nil {
		user.LanguageCode = settings.LanguageCode
	}
	user.UpdatedAt = time.Now()
	return user, nil
}

// MockSpendingRepository is a mock implementation of domain.SpendingRepository
type MockSpendingRepository struct {
	Spendings map[uuid.UUID]*domain.Spending
	CreateErr error
}

// NewMockSpendingRepository creates a new MockSpendingRepository
func NewMockSpendingRepository() *MockSpendingRepository {
	return &MockSpendingRepository{Spendings: make(map[uuid.UUID]*domain.Spending)}
}

// Create creates a new spending
func (m *MockSpendingRepository) Create(_ context.Context, spending *domain.Spending) (*domain.Spending, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	now := time.Now()
	s := *spending
	s.ID = uuid.New()
	s.CreatedAt = now
	s.UpdatedAt = now
	m.Spendings[s.ID] = &s
	return &s, nil
}

// GetByID retrieves a spending scoped to its owner
func (m *MockSpendingRepository) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Spending, error) {
	if s, ok := m.Spendings[id]; ok && s.UserID == userID {
		return s, nil
	}
	return nil, domain.ErrSpendingNotFound
}

// ListByUser retrieves spendings for a user, newest first
func (m *MockSpendingRepository) ListByUser(_ context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Spending, error) {
	from, to := filterWindow(filters)
	result := make([]*domain.Spending, 0)
	for _, s := range m.Spendings {
		if s.UserID != userID {
			continue
		}
		if !inWindow(s.CreatedAt, from, to) {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Update replaces the editable fields of a spending
func (m *MockSpendingRepository) Update(_ context.Context, userID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Spending, error) {
	s, ok := m.Spendings[id]
	if !ok || s.UserID != userID {
		return nil, domain.ErrSpendingNotFound
	}
	s.Name = data.Name
	s.Amount = data.Amount
	s.CurrencyCode = data.CurrencyCode
	s.ExchangeRate = data.ExchangeRate
	s.AmountInBaseCurrency = data.AmountInBaseCurrency
	s.CategoryID = data.CategoryID
	s.UpdatedAt = time.Now()
	return s, nil
}

// UpdateCategory re-assigns a spending to a category
func (m *MockSpendingRepository) UpdateCategory(_ context.Context, userID, id uuid.UUID, categoryID *uuid.UUID) (*domain.Spending, error) {
	s, ok := m.Spendings[id]
	if !ok || s.UserID != userID {
		return nil, domain.ErrSpendingNotFound
	}
	s.CategoryID = categoryID
	s.UpdatedAt = time.Now()
	return s, nil
}

// Delete removes a spending scoped to its owner
func (m *MockSpendingRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	s, ok := m.Spendings[id]
	if !ok || s.UserID != userID {
		return domain.ErrSpendingNotFound
	}
	delete(m.Spendings, id)
	return nil
}

// CategoryTotals aggregates base-currency spending per category
func (m *MockSpendingRepository) CategoryTotals(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.CategoryTotal, error) {
	return categoryTotals(userID, from, to, m.Spendings, func(s *domain.Spending) (uuid.UUID, *uuid.UUID, time.Time, decimal.Decimal) {
		return s.UserID, s.CategoryID, s.CreatedAt, s.AmountInBaseCurrency
	})
}

// MockEarningRepository is a mock implementation of domain.EarningRepository
type MockEarningRepository struct {
	Earnings  map[uuid.UUID]*domain.Earning
	CreateErr error
}

// NewMockEarningRepository creates a new MockEarningRepository
func NewMockEarningRepository() *MockEarningRepository {
	return &MockEarningRepository{Earnings: make(map[uuid.UUID]*domain.Earning)}
}

// Create creates a new earning
func (m *MockEarningRepository) Create(_ context.Context, earning *domain.Earning) (*domain.Earning, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	now := time.Now()
	e := *earning
	e.ID = uuid.New()
	e.CreatedAt = now
	e.UpdatedAt = now
	m.Earnings[e.ID] = &e
	return &e, nil
}

// GetByID retrieves an earning scoped to its owner
func (m *MockEarningRepository) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Earning, error) {
	if e, ok := m.Earnings[id]; ok && e.UserID == userID {
		return e, nil
	}
	return nil, domain.ErrEarningNotFound
}

// ListByUser retrieves earnings for a user, newest first
func (m *MockEarningRepository) ListByUser(_ context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Earning, error) {
	from, to := filterWindow(filters)
	result := make([]*domain.Earning, 0)
	for _, e := range m.Earnings {
		if e.UserID != userID {
			continue
		}
		if !inWindow(e.CreatedAt, from, to) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Update replaces the editable fields of an earning
func (m *MockEarningRepository) Update(_ context.Context, userID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Earning, error) {
	e, ok := m.Earnings[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrEarningNotFound
	}
	e.Name = data.Name
	e.Amount = data.Amount
	e.CurrencyCode = data.CurrencyCode
	e.ExchangeRate = data.ExchangeRate
	e.AmountInBaseCurrency = data.AmountInBaseCurrency
	e.CategoryID = data.CategoryID
	e.UpdatedAt = time.Now()
	return e, nil
}

// UpdateCategory re-assigns an earning to a category
func (m *MockEarningRepository) UpdateCategory(_ context.Context, userID, id uuid.UUID, categoryID *uuid.UUID) (*domain.Earning, error) {
	e, ok := m.Earnings[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrEarningNotFound
	}
	e.CategoryID = categoryID
	e.UpdatedAt = time.Now()
	return e, nil
}

// Delete removes an earning scoped to its owner
func (m *MockEarningRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	e, ok := m.Earnings[id]
	if !ok || e.UserID != userID {
		return domain.ErrEarningNotFound
	}
	delete(m.Earnings, id)
	return nil
}

// CategoryTotals aggregates base-currency earnings per category
func (m *MockEarningRepository) CategoryTotals(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.CategoryTotal, error) {
	return categoryTotals(userID, from, to, m.Earnings, func(e *domain.Earning) (uuid.UUID, *uuid.UUID, time.Time, decimal.Decimal) {
		return e.UserID, e.CategoryID, e.CreatedAt, e.AmountInBaseCurrency
	})
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories []*domain.Category
	ListErr    error
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make([]*domain.Category, 0)}
}

// Seed adds a category with the given name and returns it
func (m *MockCategoryRepository) Seed(name, emoji string) *domain.Category {
	cat := &domain.Category{
		ID:           uuid.New(),
		Name:         name,
		Emoji:        emoji,
		Color:        "#E0E0E0",
		TextColor:    "#000000",
		DisplayOrder: int32(len(m.Categories)),
	}
	m.Categories = append(m.Categories, cat)
	return cat
}

// List retrieves all categories
func (m *MockCategoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Categories, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	for _, cat := range m.Categories {
		if cat.ID == id {
			return cat, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByName retrieves a category by exact name
func (m *MockCategoryRepository) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for _, cat := range m.Categories {
		if cat.Name == name {
			return cat, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// MockEarningsCategoryRepository is a mock implementation of
// domain.EarningsCategoryRepository
type MockEarningsCategoryRepository struct {
	Categories []*domain.EarningsCategory
}

// NewMockEarningsCategoryRepository creates a new MockEarningsCategoryRepository
func NewMockEarningsCategoryRepository() *MockEarningsCategoryRepository {
	return &MockEarningsCategoryRepository{Categories: make([]*domain.EarningsCategory, 0)}
}

// Seed adds an income category with the given name and returns it
func (m *MockEarningsCategoryRepository) Seed(name, emoji string) *domain.EarningsCategory {
	cat := &domain.EarningsCategory{
		ID:           uuid.New(),
		Name:         name,
		Emoji:        emoji,
		Color:        "#E0E0E0",
		TextColor:    "#000000",
		DisplayOrder: int32(len(m.Categories)),
	}
	m.Categories = append(m.Categories, cat)
	return cat
}

// List retrieves all income categories
func (m *MockEarningsCategoryRepository) List(_ context.Context) ([]*domain.EarningsCategory, error) {
	return m.Categories, nil
}

// GetByID retrieves an income category by ID
func (m *MockEarningsCategoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.EarningsCategory, error) {
	for _, cat := range m.Categories {
		if cat.ID == id {
			return cat, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByName retrieves an income category by exact name
func (m *MockEarningsCategoryRepository) GetByName(_ context.Context, name string) (*domain.EarningsCategory, error) {
	for _, cat := range m.Categories {
		if cat.Name == name {
			return cat, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// MockCurrencyRepository is a mock implementation of domain.CurrencyRepository
type MockCurrencyRepository struct {
	Currencies map[string]*domain.Currency
}

// NewMockCurrencyRepository creates a new MockCurrencyRepository
func NewMockCurrencyRepository() *MockCurrencyRepository {
	return &MockCurrencyRepository{Currencies: make(map[string]*domain.Currency)}
}

// Seed adds a currency; rate "" means no exchange rate stored
func (m *MockCurrencyRepository) Seed(code, symbol, rate string) *domain.Currency {
	currency := &domain.Currency{
		Code:         code,
		Name:         code,
		Symbol:       symbol,
		DisplayOrder: int32(len(m.Currencies)),
	}
	if rate != "" {
		d := decimal.RequireFromString(rate)
		currency.ExchangeRateToUSD = &d
	}
	m.Currencies[code] = currency
	return currency
}

// List retrieves all currencies
func (m *MockCurrencyRepository) List(_ context.Context) ([]*domain.Currency, error) {
	result := make([]*domain.Currency, 0, len(m.Currencies))
	for _, c := range m.Currencies {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// GetByCode retrieves a currency by code
func (m *MockCurrencyRepository) GetByCode(_ context.Context, code string) (*domain.Currency, error) {
	if c, ok := m.Currencies[code]; ok {
		return c, nil
	}
	return nil, domain.ErrCurrencyNotFound
}

// SentMessage is one recorded delivery attempt
type SentMessage struct {
	ChatID    int64
	Text      string
	ParseMode string
}

// MockSender records outbound Telegram messages
type MockSender struct {
	mu       sync.Mutex
	Messages []SentMessage
	SendErr  error
}

// NewMockSender creates a new MockSender
func NewMockSender() *MockSender {
	return &MockSender{Messages: make([]SentMessage, 0)}
}

// Send records the message
func (m *MockSender) Send(chatID int64, text, parseMode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Messages = append(m.Messages, SentMessage{ChatID: chatID, Text: text, ParseMode: parseMode})
	return nil
}

// Sent returns a copy of the recorded messages
func (m *MockSender) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.Messages))
	copy(out, m.Messages)
	return out
}

// MockOracle is a canned-response implementation of the LLM client interface
type MockOracle struct {
	EnabledFlag     bool
	ExtractResponse string
	ExtractErr      error
	AnalyzeResponse string
	AnalyzeErr      error
	ExtractCalls    []string
	AnalyzeCalls    []string
}

// Enabled reports the configured flag
func (m *MockOracle) Enabled() bool {
	return m.EnabledFlag
}

// ExtractTransaction returns the canned extraction
func (m *MockOracle) ExtractTransaction(_ context.Context, message string) (string, error) {
	m.ExtractCalls = append(m.ExtractCalls, message)
	if m.ExtractErr != nil {
		return "", m.ExtractErr
	}
	return m.ExtractResponse, nil
}

// Analyze returns the canned analysis
func (m *MockOracle) Analyze(_ context.Context, prompt string) (string, error) {
	m.AnalyzeCalls = append(m.AnalyzeCalls, prompt)
	if m.AnalyzeErr != nil {
		return "", m.AnalyzeErr
	}
	return m.AnalyzeResponse, nil
}

// PublishedEvent is one event recorded by RecordingPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// RecordingPublisher records published events instead of delivering them
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewRecordingPublisher creates a new RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{Events: make([]PublishedEvent, 0)}
}

// Publish records the event
func (p *RecordingPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{UserID: userID, Event: event})
}

// Published returns a copy of the recorded events
func (p *RecordingPublisher) Published() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.Events))
	copy(out, p.Events)
	return out
}

func filterWindow(filters *domain.TransactionFilters) (*time.Time, *time.Time) {
	if filters == nil {
		return nil, nil
	}
	if filters.From != nil || filters.To != nil {
		return filters.From, filters.To
	}
	if filters.Period != nil && filters.Period.Valid() {
		from, to := filters.Period.Range(time.Now().UTC())
		return &from, &to
	}
	return nil, nil
}

func inWindow(ts time.Time, from, to *time.Time) bool {
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && !ts.Before(*to) {
		return false
	}
	return true
}

func categoryTotals[T any](userID uuid.UUID, from, to time.Time, rows map[uuid.UUID]T, fields func(T) (uuid.UUID, *uuid.UUID, time.Time, decimal.Decimal)) ([]*domain.CategoryTotal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal)
	var nilSum decimal.Decimal
	var hasNil bool

	for _, row := range rows {
		owner, categoryID, createdAt, amount := fields(row)
		if owner != userID {
			continue
		}
		if createdAt.Before(from) || !createdAt.Before(to) {
			continue
		}
		if categoryID == nil {
			nilSum = nilSum.Add(amount)
			hasNil = true
			continue
		}
		sums[*categoryID] = sums[*categoryID].Add(amount)
	}

	totals := make([]*domain.CategoryTotal, 0, len(sums)+1)
	for id, total := range sums {
		cid := id
		totals = append(totals, &domain.CategoryTotal{CategoryID: &cid, Total: total})
	}
	if hasNil {
		totals = append(totals, &domain.CategoryTotal{Total: nilSum})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	return totals, nil
}
