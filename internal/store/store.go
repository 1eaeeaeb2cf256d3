// Package store owns the application state: the transaction list, the active
// profile and the theme flag, persisted through the KV boundary. Every
// mutating operation rewrites the full transaction list; with lists in the
// hundreds to low thousands that trade-off keeps the persistence contract
// trivial.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"nova/internal/core"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// PersistenceError reports a stored payload that was present but failed to
// parse. It is recoverable: the store falls back to the default value for
// that key and keeps running.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisted payload for %q is malformed: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is the explicit state container for the application. It is created
// once at startup, loaded from the KV boundary, and handed to the HTTP layer.
// The mutex serializes mutating operations; each one reads the current list,
// produces the next and writes it back in full.
type Store struct {
	mu      sync.Mutex
	kv      KV
	profile core.UserType
	theme   string
	txs     []core.Transaction
}

func New(kv KV) *Store {
	return &Store{
		kv:      kv,
		profile: core.UserUnset,
		theme:   ThemeLight,
	}
}

// Load reads profile, transaction list and theme from the KV boundary.
// Missing keys yield defaults (UNSET, empty list, light theme). A malformed
// transaction payload does not stop the load: that key falls back to empty
// and the failure is logged and returned as a *PersistenceError so the
// caller can surface it.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var loadErr error

	if v, ok, err := s.kv.Get(ctx, KeyUserType); err != nil {
		return fmt.Errorf("read %s: %w", KeyUserType, err)
	} else if ok {
		s.profile = core.ParseUserType(v)
	}

	if v, ok, err := s.kv.Get(ctx, KeyTheme); err != nil {
		return fmt.Errorf("read %s: %w", KeyTheme, err)
	} else if ok && v == ThemeDark {
		s.theme = ThemeDark
	}

	if v, ok, err := s.kv.Get(ctx, KeyTransactions); err != nil {
		return fmt.Errorf("read %s: %w", KeyTransactions, err)
	} else if ok {
		var txs []core.Transaction
		if err := json.Unmarshal([]byte(v), &txs); err != nil {
			// No partial recovery for this key: the whole list is dropped.
			loadErr = &PersistenceError{Key: KeyTransactions, Err: err}
			slog.ErrorContext(ctx, "Stored transaction list is malformed, starting empty",
				"key", KeyTransactions, "error", err)
			s.txs = nil
		} else {
			s.txs = txs
		}
	}

	slog.InfoContext(ctx, "State loaded",
		"profile", string(s.profile),
		"transactions", len(s.txs),
		"theme", s.theme)
	return loadErr
}

// Profile returns the active profile.
func (s *Store) Profile() core.UserType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Theme returns the persisted theme token.
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Transactions returns a copy of the list, most-recent-first. Callers derive
// display order themselves and must not rely on this one beyond recency.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...)
}

// SetProfile activates a profile and persists it immediately.
func (s *Store) SetProfile(ctx context.Context, profile core.UserType) error {
	if profile != core.UserPrivate && profile != core.UserBusiness {
		return core.ErrInvalidProfile
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, KeyUserType, string(profile)); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	s.profile = profile
	slog.InfoContext(ctx, "Profile selected", "profile", string(profile))
	return nil
}

// ResetProfile clears the persisted profile key and returns to UNSET. The
// transaction list is deliberately left intact.
func (s *Store) ResetProfile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, KeyUserType); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}
	s.profile = core.UserUnset
	slog.InfoContext(ctx, "Profile reset", "transactions_kept", len(s.txs))
	return nil
}

// SetTheme persists the theme token; anything but "dark" is stored as light.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, KeyTheme, theme); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	s.theme = theme
	return nil
}

// ToggleTheme flips between light and dark and persists the result.
func (s *Store) ToggleTheme(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := ThemeDark
	if s.theme == ThemeDark {
		next = ThemeLight
	}
	if err := s.kv.Set(ctx, KeyTheme, next); err != nil {
		return s.theme, fmt.Errorf("persist theme: %w", err)
	}
	s.theme = next
	return next, nil
}

// AddTransaction prepends a transaction and persists the full list.
func (s *Store) AddTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]core.Transaction{tx}, s.txs...)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.txs = next
	slog.InfoContext(ctx, "Transaction added",
		"transaction_id", tx.ID,
		"type", string(tx.Type),
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)
	return nil
}

// ImportTransactions prepends a batch as a block, preserving the given order
// ahead of the existing list, and persists the result. Imported rows are
// admitted as-is, zero amounts included.
func (s *Store) ImportTransactions(ctx context.Context, txs []core.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]core.Transaction, 0, len(txs)+len(s.txs))
	next = append(next, txs...)
	next = append(next, s.txs...)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.txs = next
	slog.InfoContext(ctx, "Transactions imported", "imported", len(txs), "total", len(next))
	return nil
}

func (s *Store) persist(ctx context.Context, txs []core.Transaction) error {
	raw, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.kv.Set(ctx, KeyTransactions, string(raw)); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}
