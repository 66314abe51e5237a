package vault

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/dmitrijs2005/lockbox/internal/format"
)

type derived struct {
	key []byte
	err error
}

// Unlocker runs the key derivation for a store on a background goroutine so
// a caller can keep its UI responsive. At most one derivation runs at a
// time. The key is applied to the store only from Wait or Poll, on the
// caller's goroutine, so the store itself is never shared.
type Unlocker struct {
	fc format.FileContent

	mu      sync.Mutex
	running bool
	result  chan derived // nil when there is nothing to collect
}

func NewUnlocker(fc format.FileContent) *Unlocker {
	return &Unlocker{fc: fc}
}

// Start begins deriving a key from password. It fails with
// common.ErrUnlockInProgress while an earlier derivation is still running,
// even an abandoned one.
func (u *Unlocker) Start(password string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.running {
		return common.ErrUnlockInProgress
	}

	u.running = true
	ch := make(chan derived, 1)
	u.result = ch

	go func() {
		key, err := u.fc.DeriveKey(password)

		u.mu.Lock()
		u.running = false
		u.mu.Unlock()

		ch <- derived{key: key, err: err}
	}()
	return nil
}

// Wait blocks until the pending derivation finishes and applies its key.
// If ctx ends first the derivation stays pending and Wait may be called
// again.
func (u *Unlocker) Wait(ctx context.Context) error {
	ch, err := u.pending()
	if err != nil {
		return err
	}

	select {
	case r := <-ch:
		return u.apply(ch, r)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poll applies the pending derivation's key if it has finished. done is
// false while it is still running.
func (u *Unlocker) Poll() (done bool, err error) {
	ch, err := u.pending()
	if err != nil {
		return false, err
	}

	select {
	case r := <-ch:
		return true, u.apply(ch, r)
	default:
		return false, nil
	}
}

// Abandon drops the pending result. The derivation itself runs to
// completion and still blocks Start until it does.
func (u *Unlocker) Abandon() {
	u.mu.Lock()
	u.result = nil
	u.mu.Unlock()
}

func (u *Unlocker) pending() (chan derived, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.result == nil {
		return nil, common.ErrNoUnlockPending
	}
	return u.result, nil
}

func (u *Unlocker) apply(ch chan derived, r derived) error {
	u.mu.Lock()
	if u.result == ch {
		u.result = nil
	}
	u.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	return u.fc.Unlock(r.key)
}
