// internal/storage/memory.go
package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/models"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

type licenseKey struct {
	assetID  uint64
	licensee uuid.UUID
}

type balanceKey struct {
	principal uuid.UUID
	token     string
}

type memoryData struct {
	assets       map[uint64]models.IPAsset
	licenses     map[licenseKey]models.License
	balances     map[balanceKey]int64
	principals   map[uuid.UUID]models.Principal
	transactions []models.Transaction
}

func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		assets:       make(map[uint64]models.IPAsset, len(d.assets)),
		licenses:     make(map[licenseKey]models.License, len(d.licenses)),
		balances:     make(map[balanceKey]int64, len(d.balances)),
		principals:   make(map[uuid.UUID]models.Principal, len(d.principals)),
		transactions: make([]models.Transaction, len(d.transactions)),
	}
	for k, v := range d.assets {
		c.assets[k] = v
	}
	for k, v := range d.licenses {
		c.licenses[k] = v
	}
	for k, v := range d.balances {
		c.balances[k] = v
	}
	for k, v := range d.principals {
		c.principals[k] = v
	}
	copy(c.transactions, d.transactions)
	return c
}

// MemoryStore is an in-memory Store used by tests and local development.
// Atomically mutates a deep copy and swaps it in on success, so a failed
// callback leaves the visible state untouched.
type MemoryStore struct {
	mu   sync.Mutex
	data *memoryData
	inTx bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: &memoryData{
			assets:     make(map[uint64]models.IPAsset),
			licenses:   make(map[licenseKey]models.License),
			balances:   make(map[balanceKey]int64),
			principals: make(map[uuid.UUID]models.Principal),
		},
	}
}

func (s *MemoryStore) Assets() AssetStore             { return memAssets{s} }
func (s *MemoryStore) Licenses() LicenseStore         { return memLicenses{s} }
func (s *MemoryStore) Balances() BalanceStore         { return memBalances{s} }
func (s *MemoryStore) Transactions() TransactionStore { return memTransactions{s} }
func (s *MemoryStore) Principals() PrincipalStore     { return memPrincipals{s} }

func (s *MemoryStore) Atomically(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := &MemoryStore{data: s.data.clone(), inTx: true}
	if err := fn(scratch); err != nil {
		return err
	}
	s.data = scratch.data
	return nil
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type memAssets struct{ s *MemoryStore }

func (m memAssets) Has(ctx context.Context, assetID uint64) (bool, error) {
	defer m.s.lock()()
	_, ok := m.s.data.assets[assetID]
	return ok, nil
}

func (m memAssets) Get(ctx context.Context, assetID uint64) (*models.IPAsset, bool, error) {
	defer m.s.lock()()
	asset, ok := m.s.data.assets[assetID]
	if !ok {
		return nil, false, nil
	}
	return &asset, true, nil
}

func (m memAssets) Put(ctx context.Context, asset *models.IPAsset) error {
	defer m.s.lock()()
	stored := *asset
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = time.Now()
	m.s.data.assets[asset.AssetID] = stored
	return nil
}

func (m memAssets) List(ctx context.Context, params utils.PaginationParams) ([]models.IPAsset, int64, error) {
	defer m.s.lock()()
	assets := make([]models.IPAsset, 0, len(m.s.data.assets))
	for _, asset := range m.s.data.assets {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].AssetID < assets[j].AssetID })
	total := int64(len(assets))
	return paginate(assets, params), total, nil
}

type memLicenses struct{ s *MemoryStore }

func (m memLicenses) Get(ctx context.Context, assetID uint64, licensee uuid.UUID) (*models.License, bool, error) {
	defer m.s.lock()()
	license, ok := m.s.data.licenses[licenseKey{assetID, licensee}]
	if !ok {
		return nil, false, nil
	}
	return &license, true, nil
}

func (m memLicenses) Put(ctx context.Context, license *models.License) error {
	defer m.s.lock()()
	stored := *license
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = time.Now()
	m.s.data.licenses[licenseKey{license.AssetID, license.Licensee}] = stored
	return nil
}

func (m memLicenses) ListByAsset(ctx context.Context, assetID uint64) ([]models.License, error) {
	defer m.s.lock()()
	var licenses []models.License
	for key, license := range m.s.data.licenses {
		if key.assetID == assetID {
			licenses = append(licenses, license)
		}
	}
	sort.Slice(licenses, func(i, j int) bool {
		return licenses[i].Licensee.String() < licenses[j].Licensee.String()
	})
	return licenses, nil
}

type memBalances struct{ s *MemoryStore }

func (m memBalances) Get(ctx context.Context, principal uuid.UUID, token string) (int64, error) {
	defer m.s.lock()()
	return m.s.data.balances[balanceKey{principal, token}], nil
}

func (m memBalances) Set(ctx context.Context, principal uuid.UUID, token string, amount int64) error {
	defer m.s.lock()()
	m.s.data.balances[balanceKey{principal, token}] = amount
	return nil
}

func (m memBalances) ListByPrincipal(ctx context.Context, principal uuid.UUID) ([]models.TokenBalance, error) {
	defer m.s.lock()()
	var balances []models.TokenBalance
	for key, amount := range m.s.data.balances {
		if key.principal == principal {
			balances = append(balances, models.TokenBalance{
				PrincipalID: principal,
				Token:       key.token,
				Amount:      amount,
			})
		}
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Token < balances[j].Token })
	return balances, nil
}

type memTransactions struct{ s *MemoryStore }

func (m memTransactions) Append(ctx context.Context, txn *models.Transaction) error {
	defer m.s.lock()()
	stored := *txn
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.s.data.transactions = append(m.s.data.transactions, stored)
	*txn = stored
	return nil
}

func (m memTransactions) HasReference(ctx context.Context, reference string) (bool, error) {
	defer m.s.lock()()
	for _, txn := range m.s.data.transactions {
		if txn.PaymentReference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (m memTransactions) ListByPrincipal(ctx context.Context, principal uuid.UUID, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	defer m.s.lock()()
	var transactions []models.Transaction
	for _, txn := range m.s.data.transactions {
		if txn.ToID == principal || (txn.FromID != nil && *txn.FromID == principal) {
			transactions = append(transactions, txn)
		}
	}
	total := int64(len(transactions))
	return paginate(transactions, params), total, nil
}

type memPrincipals struct{ s *MemoryStore }

func (m memPrincipals) GetByID(ctx context.Context, id uuid.UUID) (*models.Principal, bool, error) {
	defer m.s.lock()()
	principal, ok := m.s.data.principals[id]
	if !ok {
		return nil, false, nil
	}
	return &principal, true, nil
}

func (m memPrincipals) GetByEmail(ctx context.Context, email string) (*models.Principal, bool, error) {
	defer m.s.lock()()
	for _, principal := range m.s.data.principals {
		if principal.Email == email {
			p := principal
			return &p, true, nil
		}
	}
	return nil, false, nil
}

func (m memPrincipals) GetByUsername(ctx context.Context, username string) (*models.Principal, bool, error) {
	defer m.s.lock()()
	for _, principal := range m.s.data.principals {
		if principal.Username == username {
			p := principal
			return &p, true, nil
		}
	}
	return nil, false, nil
}

func (m memPrincipals) Put(ctx context.Context, principal *models.Principal) error {
	defer m.s.lock()()
	if principal.ID == uuid.Nil {
		principal.ID = uuid.New()
	}
	if principal.CreatedAt.IsZero() {
		principal.CreatedAt = time.Now()
	}
	principal.UpdatedAt = time.Now()
	m.s.data.principals[principal.ID] = *principal
	return nil
}

func paginate[T any](items []T, params utils.PaginationParams) []T {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
