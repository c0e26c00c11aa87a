// Package domain provides definitions of all entities.
package domain

import "errors"

// ErrAccountNotInitialized indicates that no account has been created yet.
var ErrAccountNotInitialized = errors.New("account not initialized")

// Account holds card state, available limit and the transaction history.
//
// Transactions only grow: rejected transactions are recorded as well so that
// the frequency rules can see them.
type Account struct {
	ActiveCard     bool
	AvailableLimit int64
	Transactions   []Transaction
}

// AccountSnapshot is the serialisable view of an account.
type AccountSnapshot struct {
	ActiveCard     bool  `json:"activeCard"`
	AvailableLimit int64 `json:"availableLimit"`
}

// NewAccount returns an account with an empty history.
func NewAccount(activeCard bool, availableLimit int64) *Account {
	return &Account{
		ActiveCard:     activeCard,
		AvailableLimit: availableLimit,
		Transactions:   []Transaction{},
	}
}

// ApplyTransaction records t and debits its amount when it has no violations.
func (a *Account) ApplyTransaction(t Transaction, violations []string) {
	a.Transactions = append(a.Transactions, t)

	if len(violations) == 0 {
		a.AvailableLimit -= t.Amount
	}
}

// Recent returns up to n most recent transactions, oldest first.
func (a *Account) Recent(n int) []Transaction {
	if n <= 0 {
		return nil
	}

	if n > len(a.Transactions) {
		n = len(a.Transactions)
	}

	return a.Transactions[len(a.Transactions)-n:]
}

// Snapshot returns the current card state and limit.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ActiveCard:     a.ActiveCard,
		AvailableLimit: a.AvailableLimit,
	}
}
