// Package authorizer evaluates account and transaction operations against
// the business rules of a single account.
package authorizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/go-petr/authorizer/internal/domain"
	"github.com/go-petr/authorizer/internal/rule"
)

// Authorizer owns the account state, the operation registry and the rule
// chains. It is safe for concurrent use; operations are applied one at a time.
type Authorizer struct {
	mu    sync.Mutex
	state State

	dispatcher       *Dispatcher
	creationRules    *rule.Chain[*AccountCreation]
	transactionRules *rule.Chain[*Transaction]
}

// New returns an authorizer with no account and all operations and rules
// registered.
func New() *Authorizer {
	a := &Authorizer{
		dispatcher:       NewDispatcher(),
		creationRules:    rule.NewChain[*AccountCreation](),
		transactionRules: rule.NewChain[*Transaction](),
	}

	registerAccountCreationRules(a.creationRules)
	registerTransactionRules(a.transactionRules)

	a.dispatcher.Register(KeyAccount, newAccountCreation(a.creationRules))
	a.dispatcher.Register(KeyTransaction, newTransaction(a.transactionRules))

	return a
}

// Operations returns the supported discriminant keys in dispatch order.
func (a *Authorizer) Operations() []string {
	return a.dispatcher.Keys()
}

// Rules returns the rule names registered for each operation key.
func (a *Authorizer) Rules() map[string][]string {
	return map[string][]string{
		KeyAccount:     a.creationRules.Names(),
		KeyTransaction: a.transactionRules.Names(),
	}
}

// Process evaluates one input line and returns its JSON result.
//
// Blank lines and objects that match no operation yield a nil result and a
// nil error. Lines that are not JSON objects yield domain.ErrMalformedInput;
// transactions with a missing or invalid time yield domain.ErrMissingTime or
// domain.ErrInvalidTime. Failed lines leave the state untouched.
func (a *Authorizer) Process(ctx context.Context, line []byte) ([]byte, error) {
	l := zerolog.Ctx(ctx)

	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(line, &obj); err != nil {
		return nil, errors.WithStack(wrapMalformed(err))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	op, err := a.dispatcher.Dispatch(obj, &a.state)
	if err != nil {
		return nil, err
	}

	if op == nil {
		l.Debug().Msg("no operation matches input")
		return nil, nil
	}

	op.Run()
	res := op.Result()

	l.Debug().
		Str("operation", op.Key()).
		Strs("violations", res.Violations).
		Msg("operation processed")

	out, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(err, "cannot encode result")
	}

	return out, nil
}

// Account returns the current account state.
func (a *Authorizer) Account(ctx context.Context) (domain.AccountSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Account == nil {
		return domain.AccountSnapshot{}, domain.ErrAccountNotInitialized
	}

	return a.state.Account.Snapshot(), nil
}

func wrapMalformed(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
}
