// Package rule provides ordered chains of named business rules.
package rule

import "github.com/go-petr/authorizer/internal/domain"

// Requirement is a precondition a rule declares on the operation it checks.
type Requirement int

const (
	// None rules are always evaluated.
	None Requirement = iota
	// Account rules are evaluated only when the operation has a bound account.
	Account
)

// Operation is anything a chain can evaluate.
type Operation interface {
	BoundAccount() *domain.Account
}

// Check returns a violation code, or "" when the rule holds.
type Check[T Operation] func(op T) string

type entry[T Operation] struct {
	name     string
	requires Requirement
	check    Check[T]
}

// Chain is an ordered list of rules for one kind of operation.
type Chain[T Operation] struct {
	rules []entry[T]
}

// NewChain returns an empty chain.
func NewChain[T Operation]() *Chain[T] {
	return &Chain[T]{}
}

// Add appends a rule to the end of the chain.
func (c *Chain[T]) Add(name string, requires Requirement, check Check[T]) {
	c.rules = append(c.rules, entry[T]{
		name:     name,
		requires: requires,
		check:    check,
	})
}

// Names returns rule names in evaluation order.
func (c *Chain[T]) Names() []string {
	names := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		names = append(names, r.name)
	}

	return names
}

// Execute evaluates every rule in order and returns the collected violations.
// The result is never nil.
func (c *Chain[T]) Execute(op T) []string {
	violations := []string{}

	for _, r := range c.rules {
		if !satisfied(r.requires, op) {
			continue
		}

		if code := r.check(op); code != "" {
			violations = append(violations, code)
		}
	}

	return violations
}

func satisfied[T Operation](req Requirement, op T) bool {
	switch req {
	case Account:
		return op.BoundAccount() != nil
	default:
		return true
	}
}
