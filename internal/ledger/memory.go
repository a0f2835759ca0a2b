package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/sentinel"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/domain"
)

// InMemory is a ledger substrate for tests and the demo environment. A
// single mutex serializes operations; RunInTx snapshots state so a failed
// operation rolls every balance back.
type InMemory struct {
	// txMu serializes whole transactions; mu guards the maps for the
	// individual calls made inside one.
	txMu     sync.Mutex
	mu       sync.RWMutex
	assets   map[domain.AssetID]*Asset
	accounts map[domain.AccountID]*TokenAccount
}

func NewInMemory() *InMemory {
	return &InMemory{
		assets:   make(map[domain.AssetID]*Asset),
		accounts: make(map[domain.AccountID]*TokenAccount),
	}
}

// RunInTx executes fn atomically. Transactions are serialized; on error the
// asset and account state is restored to the pre-transaction snapshot.
// Transactions must not nest.
func (l *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.txMu.Lock()
	defer l.txMu.Unlock()

	l.mu.Lock()
	assets, accounts := l.snapshotLocked()
	l.mu.Unlock()

	err := fn(ctx)
	if err != nil {
		l.mu.Lock()
		l.assets = assets
		l.accounts = accounts
		l.mu.Unlock()
	}
	return err
}

func (l *InMemory) snapshotLocked() (map[domain.AssetID]*Asset, map[domain.AccountID]*TokenAccount) {
	assets := make(map[domain.AssetID]*Asset, len(l.assets))
	for id, a := range l.assets {
		cp := *a
		assets[id] = &cp
	}
	accounts := make(map[domain.AccountID]*TokenAccount, len(l.accounts))
	for id, a := range l.accounts {
		cp := *a
		accounts[id] = &cp
	}
	return assets, accounts
}

// CreateAsset registers an asset type. Setup surface, not part of the core
// Ledger contract.
func (l *InMemory) CreateAsset(a Asset) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.assets[a.ID]; exists {
		return fmt.Errorf("asset %s: %w", a.ID, sentinel.ErrAlreadyExists)
	}
	cp := a
	l.assets[a.ID] = &cp
	return nil
}

// CreateAccount registers a holding account. Setup surface.
func (l *InMemory) CreateAccount(a TokenAccount) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.accounts[a.ID]; exists {
		return fmt.Errorf("account %s: %w", a.ID, sentinel.ErrAlreadyExists)
	}
	if _, ok := l.assets[a.Asset]; !ok {
		return fmt.Errorf("asset %s: %w", a.Asset, sentinel.ErrNotFound)
	}
	cp := a
	l.accounts[a.ID] = &cp
	return nil
}

func (l *InMemory) Asset(_ context.Context, id domain.AssetID) (Asset, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.assets[id]
	if !ok {
		return Asset{}, fmt.Errorf("asset %s: %w", id, sentinel.ErrNotFound)
	}
	return *a, nil
}

func (l *InMemory) Account(_ context.Context, id domain.AccountID) (TokenAccount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.accounts[id]
	if !ok {
		return TokenAccount{}, fmt.Errorf("account %s: %w", id, sentinel.ErrNotFound)
	}
	return *a, nil
}

func (l *InMemory) Transfer(_ context.Context, from, to domain.AccountID, amount uint64, auth Authorization) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	src, err := l.accountLocked(from)
	if err != nil {
		return err
	}
	dst, err := l.accountLocked(to)
	if err != nil {
		return err
	}
	if src.Asset != dst.Asset {
		return fmt.Errorf("transfer across asset types: %w", sentinel.ErrInvalidState)
	}
	if src.Frozen || dst.Frozen {
		return fmt.Errorf("transfer %s -> %s: %w", from, to, sentinel.ErrFrozen)
	}
	if err := l.spendAuthorityLocked(src, amount, auth); err != nil {
		return err
	}
	if src.Balance < amount {
		return fmt.Errorf("balance %d < %d: %w", src.Balance, amount, sentinel.ErrInsufficientFunds)
	}
	src.Balance -= amount
	dst.Balance += amount
	return nil
}

func (l *InMemory) MintTo(_ context.Context, asset domain.AssetID, to domain.AccountID, amount uint64, auth Authorization) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[asset]
	if !ok {
		return fmt.Errorf("asset %s: %w", asset, sentinel.ErrNotFound)
	}
	dst, err := l.accountLocked(to)
	if err != nil {
		return err
	}
	if dst.Asset != asset {
		return fmt.Errorf("mint destination holds a different asset: %w", sentinel.ErrInvalidState)
	}
	if dst.Frozen {
		return fmt.Errorf("mint to %s: %w", to, sentinel.ErrFrozen)
	}
	if !authorized(auth, a.MintAuthority) {
		return fmt.Errorf("mint authority mismatch: %w", sentinel.ErrUnauthorized)
	}
	a.Supply += amount
	dst.Balance += amount
	return nil
}

func (l *InMemory) Burn(_ context.Context, asset domain.AssetID, from domain.AccountID, amount uint64, auth Authorization) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[asset]
	if !ok {
		return fmt.Errorf("asset %s: %w", asset, sentinel.ErrNotFound)
	}
	src, err := l.accountLocked(from)
	if err != nil {
		return err
	}
	if src.Asset != asset {
		return fmt.Errorf("burn source holds a different asset: %w", sentinel.ErrInvalidState)
	}
	if src.Frozen {
		return fmt.Errorf("burn from %s: %w", from, sentinel.ErrFrozen)
	}
	if err := l.spendAuthorityLocked(src, amount, auth); err != nil {
		return err
	}
	if src.Balance < amount {
		return fmt.Errorf("balance %d < %d: %w", src.Balance, amount, sentinel.ErrInsufficientFunds)
	}
	src.Balance -= amount
	a.Supply -= amount
	return nil
}

func (l *InMemory) Approve(_ context.Context, account domain.AccountID, delegate domain.Principal, amount uint64, auth Authorization) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := l.accountLocked(account)
	if err != nil {
		return err
	}
	if acc.Frozen {
		return fmt.Errorf("approve on %s: %w", account, sentinel.ErrFrozen)
	}
	if !authorized(auth, acc.Owner) {
		return fmt.Errorf("approve requires the account owner: %w", sentinel.ErrUnauthorized)
	}
	acc.Delegate = delegate
	acc.DelegatedAmount = amount
	return nil
}

func (l *InMemory) SetAccountOwner(_ context.Context, account domain.AccountID, newOwner domain.Principal, auth Authorization) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := l.accountLocked(account)
	if err != nil {
		return err
	}
	if !authorized(auth, acc.Owner) {
		return fmt.Errorf("owner change requires the current owner: %w", sentinel.ErrUnauthorized)
	}
	acc.Owner = newOwner
	return nil
}

func (l *InMemory) FreezeAccount(ctx context.Context, account domain.AccountID, asset domain.AssetID, auth Authorization) error {
	return l.setFrozen(account, asset, auth, true)
}

func (l *InMemory) ThawAccount(ctx context.Context, account domain.AccountID, asset domain.AssetID, auth Authorization) error {
	return l.setFrozen(account, asset, auth, false)
}

// setFrozen is idempotent: freezing a frozen account is a no-op, matching
// SPL token semantics left to the substrate by the core.
func (l *InMemory) setFrozen(account domain.AccountID, asset domain.AssetID, auth Authorization, frozen bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[asset]
	if !ok {
		return fmt.Errorf("asset %s: %w", asset, sentinel.ErrNotFound)
	}
	acc, err := l.accountLocked(account)
	if err != nil {
		return err
	}
	if acc.Asset != asset {
		return fmt.Errorf("account holds a different asset: %w", sentinel.ErrInvalidState)
	}
	if !authorized(auth, a.FreezeAuthority) {
		return fmt.Errorf("freeze authority mismatch: %w", sentinel.ErrUnauthorized)
	}
	acc.Frozen = frozen
	return nil
}

func (l *InMemory) accountLocked(id domain.AccountID) (*TokenAccount, error) {
	acc, ok := l.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, sentinel.ErrNotFound)
	}
	return acc, nil
}

// spendAuthorityLocked accepts the account owner, or an active delegate up to
// the remaining delegated amount (which it consumes).
func (l *InMemory) spendAuthorityLocked(acc *TokenAccount, amount uint64, auth Authorization) error {
	p := principalOf(auth)
	if p.IsZero() {
		return fmt.Errorf("unsigned spend: %w", sentinel.ErrUnauthorized)
	}
	if p == acc.Owner {
		return nil
	}
	if p == acc.Delegate {
		if acc.DelegatedAmount < amount {
			return fmt.Errorf("delegated amount %d < %d: %w", acc.DelegatedAmount, amount, sentinel.ErrUnauthorized)
		}
		acc.DelegatedAmount -= amount
		return nil
	}
	return fmt.Errorf("spend authority mismatch: %w", sentinel.ErrUnauthorized)
}

func authorized(auth Authorization, required domain.Principal) bool {
	p := principalOf(auth)
	return !p.IsZero() && p == required
}

func principalOf(auth Authorization) domain.Principal {
	if auth == nil {
		return domain.Principal{}
	}
	return auth.Principal()
}
