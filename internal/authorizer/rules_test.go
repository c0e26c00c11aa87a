package authorizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-petr/authorizer/internal/domain"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2020, 1, 1, hour, min, sec, 0, time.UTC)
}

func testTransaction(account *domain.Account, merchant string, amount int64, tm time.Time) *Transaction {
	return &Transaction{
		Transaction: domain.Transaction{Merchant: merchant, Amount: amount, Time: tm},
		account:     account,
	}
}

func TestAccountAlreadyInitialized(t *testing.T) {
	op := &AccountCreation{ActiveCard: true, AvailableLimit: 100}
	require.Empty(t, accountAlreadyInitialized(op))

	op.account = domain.NewAccount(true, 100)
	require.Equal(t, domain.ViolationAccountAlreadyInitialized, accountAlreadyInitialized(op))
}

func TestAccountNotInitialized(t *testing.T) {
	op := testTransaction(domain.NewAccount(true, 100), "lorem", 40, at(10, 0, 0))
	require.Empty(t, accountNotInitialized(op))

	op.account = nil
	require.Equal(t, domain.ViolationAccountNotInitialized, accountNotInitialized(op))
}

func TestInsufficientLimit(t *testing.T) {
	account := domain.NewAccount(true, 100)
	op := testTransaction(account, "lorem", 40, at(10, 0, 0))
	require.Empty(t, insufficientLimit(op))

	account.AvailableLimit = 40
	require.Empty(t, insufficientLimit(op))

	account.AvailableLimit = 20
	require.Equal(t, domain.ViolationInsufficientLimit, insufficientLimit(op))
}

func TestCardNotActive(t *testing.T) {
	account := domain.NewAccount(true, 100)
	op := testTransaction(account, "lorem", 40, at(10, 0, 0))
	require.Empty(t, cardNotActive(op))

	account.ActiveCard = false
	require.Equal(t, domain.ViolationCardNotActive, cardNotActive(op))
}

func TestHighFrequencySmallInterval(t *testing.T) {
	account := domain.NewAccount(true, 100)
	op := testTransaction(account, "lorem", 40, at(10, 30, 0))

	steps := []struct {
		name string
		prev time.Time
		want string
	}{
		{name: "OnlyOne", prev: at(10, 0, 0)},
		{name: "TwoOld", prev: at(10, 20, 0)},
		{name: "OnlyOneInWindow", prev: at(10, 29, 0)},
		{name: "TwoInWindow", prev: at(10, 29, 30), want: domain.ViolationHighFrequencySmallInterval},
	}

	require.Empty(t, highFrequencySmallInterval(op), "no previous transactions")

	for _, s := range steps {
		account.Transactions = append(account.Transactions, domain.Transaction{Time: s.prev})
		require.Equal(t, s.want, highFrequencySmallInterval(op), s.name)
	}
}

func TestHighFrequencySmallIntervalBoundary(t *testing.T) {
	account := domain.NewAccount(true, 100)
	account.Transactions = []domain.Transaction{
		{Time: at(10, 0, 0)},
		{Time: at(10, 1, 0)},
	}

	op := testTransaction(account, "lorem", 40, at(10, 2, 0))
	require.Equal(t, domain.ViolationHighFrequencySmallInterval, highFrequencySmallInterval(op))

	op.Time = at(10, 2, 1)
	require.Empty(t, highFrequencySmallInterval(op))
}

func TestHighFrequencySmallIntervalLooksAtLastTwo(t *testing.T) {
	account := domain.NewAccount(true, 100)
	account.Transactions = []domain.Transaction{
		{Time: at(10, 29, 0)},
		{Time: at(10, 29, 10)},
		{Time: at(10, 0, 0)},
	}

	op := testTransaction(account, "lorem", 40, at(10, 30, 0))
	require.Empty(t, highFrequencySmallInterval(op))
}

func TestDoubledTransaction(t *testing.T) {
	const (
		lorem = "Lorem Ipsum"
		dolor = "dolor sit amet"
	)

	account := domain.NewAccount(true, 100)
	op := testTransaction(account, lorem, 40, at(10, 30, 0))

	steps := []struct {
		name string
		prev domain.Transaction
		want string
	}{
		{name: "Different", prev: domain.Transaction{Merchant: dolor, Amount: 70, Time: at(10, 20, 0)}},
		{name: "SameMerchant", prev: domain.Transaction{Merchant: lorem, Amount: 70, Time: at(10, 21, 0)}},
		{name: "SameAmount", prev: domain.Transaction{Merchant: dolor, Amount: 40, Time: at(10, 22, 0)}},
		{name: "SameButOld", prev: domain.Transaction{Merchant: lorem, Amount: 40, Time: at(10, 23, 0)}},
		{
			name: "SameInWindow",
			prev: domain.Transaction{Merchant: lorem, Amount: 40, Time: at(10, 29, 0)},
			want: domain.ViolationDoubledTransaction,
		},
		{name: "OnlyLastCounts", prev: domain.Transaction{Merchant: dolor, Amount: 70, Time: at(10, 29, 30)}},
	}

	require.Empty(t, doubledTransaction(op), "no previous transactions")

	for _, s := range steps {
		account.Transactions = append(account.Transactions, s.prev)
		require.Equal(t, s.want, doubledTransaction(op), s.name)
	}
}

func TestGuardedRulesWithoutAccount(t *testing.T) {
	a := New()
	op := testTransaction(nil, "lorem", 40, at(10, 0, 0))

	require.Equal(t, []string{domain.ViolationAccountNotInitialized}, a.transactionRules.Execute(op))
}

func TestRuleRegistrationOrder(t *testing.T) {
	a := New()

	want := map[string][]string{
		KeyAccount: {
			domain.ViolationAccountAlreadyInitialized,
		},
		KeyTransaction: {
			domain.ViolationAccountNotInitialized,
			domain.ViolationInsufficientLimit,
			domain.ViolationCardNotActive,
			domain.ViolationHighFrequencySmallInterval,
			domain.ViolationDoubledTransaction,
		},
	}

	require.Equal(t, want, a.Rules())
}
