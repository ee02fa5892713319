package vault

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/clearnetwork/clearnet/core"
)

// custodyAuthoritySeed derives the vault's own custody identity. Outbound
// transfers must be authorized by this identity, never by a user key; it has
// no corresponding private key, so no user signature can ever produce it.
const custodyAuthoritySeed = "clearnet_vault_custody_authority"

// Ledger is the pooled per-asset custody balance, one slot per asset under
// "vault_<asset>". Deposits are purely additive; the only way out is
// TransferOut authorized by the custody authority.
type Ledger struct {
	sync.Mutex
	db        *leveldb.DB
	authority string
}

func NewLedger(db *leveldb.DB) *Ledger {
	seed := sha256.Sum256([]byte(custodyAuthoritySeed))
	return &Ledger{
		db:        db,
		authority: hex.EncodeToString(seed[:]),
	}
}

// Authority returns the derived custody identity.
func (l *Ledger) Authority() string {
	return l.authority
}

func (l *Ledger) Deposit(user, asset string, amount uint64) error {
	if asset == "" {
		return errors.New("asset cannot be empty")
	}

	l.Lock()
	defer l.Unlock()

	balance, err := l.balance(asset)
	if err != nil {
		return err
	}

	if balance+amount < balance {
		return fmt.Errorf("deposit overflows vault balance for asset %s", asset)
	}

	return l.putBalance(asset, balance+amount)
}

// TransferOut moves amount of asset out of the pool. Callable only with the
// ledger's own custody authority; the destination is reported by the caller
// through the notification stream.
func (l *Ledger) TransferOut(caller, asset string, amount uint64, to string) error {
	if caller != l.authority {
		return core.ErrNotCustodyAuthority
	}

	if to == "" {
		return errors.New("transfer destination cannot be empty")
	}

	l.Lock()
	defer l.Unlock()

	balance, err := l.balance(asset)
	if err != nil {
		return err
	}

	if amount > balance {
		return fmt.Errorf("%w: asset %s holds %d, want %d",
			core.ErrInsufficientVaultBalance, asset, balance, amount)
	}

	return l.putBalance(asset, balance-amount)
}

func (l *Ledger) Balance(asset string) (uint64, error) {
	l.Lock()
	defer l.Unlock()
	return l.balance(asset)
}

func (l *Ledger) balance(asset string) (uint64, error) {
	bz, err := l.db.Get(vaultKey(asset), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read vault balance for asset %s: %w", asset, err)
	}

	return binary.LittleEndian.Uint64(bz), nil
}

func (l *Ledger) putBalance(asset string, balance uint64) error {
	bz := make([]byte, 8)
	binary.LittleEndian.PutUint64(bz, balance)

	if err := l.db.Put(vaultKey(asset), bz, nil); err != nil {
		return fmt.Errorf("failed to save vault balance for asset %s: %w", asset, err)
	}

	return nil
}
