package authorizer

import (
	"encoding/json"
	"fmt"

	"github.com/go-petr/authorizer/internal/domain"
	"github.com/go-petr/authorizer/internal/rule"
	"github.com/pkg/errors"
)

// Discriminant keys of the supported operations.
const (
	KeyAccount     = "account"
	KeyTransaction = "transaction"
)

// State is the mutable context shared by all operations of one authorizer.
type State struct {
	Account *domain.Account
}

// Operation is one unit of work decoded from an input object.
// It is implemented only by *AccountCreation and *Transaction.
type Operation interface {
	// Key returns the discriminant key the operation was dispatched by.
	Key() string
	// Run evaluates the rules and applies the operation to the state.
	// It must be called once.
	Run()
	// Result returns the bound account and the violations found by Run.
	Result() Result

	operation()
}

// Result is the outcome of one operation.
type Result struct {
	Account    *domain.AccountSnapshot
	Violations []string
}

// MarshalJSON encodes a missing account as an empty object.
func (r Result) MarshalJSON() ([]byte, error) {
	var account any = struct{}{}
	if r.Account != nil {
		account = r.Account
	}

	violations := r.Violations
	if violations == nil {
		violations = []string{}
	}

	return json.Marshal(struct {
		Account    any      `json:"account"`
		Violations []string `json:"violations"`
	}{
		Account:    account,
		Violations: violations,
	})
}

func newResult(account *domain.Account, violations []string) Result {
	res := Result{Violations: append([]string{}, violations...)}

	if account != nil {
		snapshot := account.Snapshot()
		res.Account = &snapshot
	}

	return res
}

// AccountCreation creates the account unless one already exists.
type AccountCreation struct {
	ActiveCard     bool
	AvailableLimit int64

	state      *State
	rules      *rule.Chain[*AccountCreation]
	account    *domain.Account
	violations []string
}

type accountCreationFields struct {
	ActiveCard     bool
	AvailableLimit int64
}

func (f *accountCreationFields) targets() map[string]any {
	return map[string]any{
		"activeCard":     &f.ActiveCard,
		"availableLimit": &f.AvailableLimit,
	}
}

func newAccountCreation(rules *rule.Chain[*AccountCreation]) Constructor {
	return func(fields json.RawMessage, s *State) (Operation, error) {
		var f accountCreationFields
		if err := decodeFields(fields, f.targets()); err != nil {
			return nil, errors.Wrap(err, KeyAccount)
		}

		return &AccountCreation{
			ActiveCard:     f.ActiveCard,
			AvailableLimit: f.AvailableLimit,
			state:          s,
			rules:          rules,
			account:        s.Account,
		}, nil
	}
}

// Key implements Operation.
func (op *AccountCreation) Key() string { return KeyAccount }

// BoundAccount returns the account that existed before the creation ran,
// or the created one afterwards.
func (op *AccountCreation) BoundAccount() *domain.Account { return op.account }

// Run implements Operation.
func (op *AccountCreation) Run() {
	op.violations = op.rules.Execute(op)

	if op.state.Account == nil {
		op.state.Account = domain.NewAccount(op.ActiveCard, op.AvailableLimit)
	}

	op.account = op.state.Account
}

// Result implements Operation.
func (op *AccountCreation) Result() Result {
	return newResult(op.account, op.violations)
}

func (op *AccountCreation) operation() {}

// Transaction authorizes a purchase against the account.
type Transaction struct {
	domain.Transaction

	rules      *rule.Chain[*Transaction]
	account    *domain.Account
	violations []string
}

type transactionFields struct {
	Merchant string
	Amount   int64
	Time     string
}

func (f *transactionFields) targets() map[string]any {
	return map[string]any{
		"merchant": &f.Merchant,
		"amount":   &f.Amount,
		"time":     &f.Time,
	}
}

func newTransaction(rules *rule.Chain[*Transaction]) Constructor {
	return func(fields json.RawMessage, s *State) (Operation, error) {
		var f transactionFields
		if err := decodeFields(fields, f.targets()); err != nil {
			return nil, errors.Wrap(err, KeyTransaction)
		}

		t, err := domain.ParseTime(f.Time)
		if err != nil {
			return nil, errors.Wrapf(err, "%s time %q", KeyTransaction, f.Time)
		}

		return &Transaction{
			Transaction: domain.Transaction{
				Merchant: f.Merchant,
				Amount:   f.Amount,
				Time:     t,
			},
			rules:   rules,
			account: s.Account,
		}, nil
	}
}

// Key implements Operation.
func (op *Transaction) Key() string { return KeyTransaction }

// BoundAccount returns the account the transaction is authorized against.
func (op *Transaction) BoundAccount() *domain.Account { return op.account }

// Run implements Operation.
func (op *Transaction) Run() {
	op.violations = op.rules.Execute(op)

	if op.account != nil {
		op.account.ApplyTransaction(op.Transaction, op.violations)
	}
}

// Result implements Operation.
func (op *Transaction) Result() Result {
	return newResult(op.account, op.violations)
}

func (op *Transaction) operation() {}

// decodeFields decodes the members of the fields object into targets by
// exact key. Unknown members are ignored, missing ones keep their zero value.
func decodeFields(fields json.RawMessage, targets map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(fields, &obj); err != nil {
		return errors.WithStack(wrapMalformed(err))
	}

	for key, target := range targets {
		raw, ok := obj[key]
		if !ok {
			continue
		}

		if err := json.Unmarshal(raw, target); err != nil {
			return errors.WithStack(wrapMalformed(fmt.Errorf("%s: %w", key, err)))
		}
	}

	return nil
}
