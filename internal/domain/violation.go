package domain

// Violation codes reported by the business rules.
const (
	ViolationAccountAlreadyInitialized  = "account-already-initialized"
	ViolationAccountNotInitialized      = "account-does-not-exists"
	ViolationInsufficientLimit          = "insufficient-limit"
	ViolationCardNotActive              = "card-not-active"
	ViolationHighFrequencySmallInterval = "high-frequency-small-interval"
	ViolationDoubledTransaction         = "doubled-transaction"
)
