package authorizer

import (
	"time"

	"github.com/go-petr/authorizer/internal/domain"
	"github.com/go-petr/authorizer/internal/rule"
)

// window is the interval the frequency rules look back over.
const window = 2 * time.Minute

func registerAccountCreationRules(c *rule.Chain[*AccountCreation]) {
	c.Add(domain.ViolationAccountAlreadyInitialized, rule.None, accountAlreadyInitialized)
}

func registerTransactionRules(c *rule.Chain[*Transaction]) {
	c.Add(domain.ViolationAccountNotInitialized, rule.None, accountNotInitialized)
	c.Add(domain.ViolationInsufficientLimit, rule.Account, insufficientLimit)
	c.Add(domain.ViolationCardNotActive, rule.Account, cardNotActive)
	c.Add(domain.ViolationHighFrequencySmallInterval, rule.Account, highFrequencySmallInterval)
	c.Add(domain.ViolationDoubledTransaction, rule.Account, doubledTransaction)
}

// Once created, the account is never updated or recreated.
func accountAlreadyInitialized(op *AccountCreation) string {
	if op.account != nil {
		return domain.ViolationAccountAlreadyInitialized
	}

	return ""
}

func accountNotInitialized(op *Transaction) string {
	if op.account == nil {
		return domain.ViolationAccountNotInitialized
	}

	return ""
}

func insufficientLimit(op *Transaction) string {
	if op.Amount > op.account.AvailableLimit {
		return domain.ViolationInsufficientLimit
	}

	return ""
}

func cardNotActive(op *Transaction) string {
	if !op.account.ActiveCard {
		return domain.ViolationCardNotActive
	}

	return ""
}

// No more than 3 transactions in the window. Only the last two recorded
// transactions are inspected.
func highFrequencySmallInterval(op *Transaction) string {
	n := 0

	for _, prev := range op.account.Recent(2) {
		if inWindow(prev, op.Time) {
			n++
		}
	}

	if n >= 2 {
		return domain.ViolationHighFrequencySmallInterval
	}

	return ""
}

// No more than 2 similar transactions (same merchant and amount) in the
// window. Only the last recorded transaction is inspected.
func doubledTransaction(op *Transaction) string {
	for _, prev := range op.account.Recent(1) {
		if inWindow(prev, op.Time) && prev.Amount == op.Amount && prev.Merchant == op.Merchant {
			return domain.ViolationDoubledTransaction
		}
	}

	return ""
}

func inWindow(prev domain.Transaction, now time.Time) bool {
	return !prev.Time.Before(now.Add(-window))
}
