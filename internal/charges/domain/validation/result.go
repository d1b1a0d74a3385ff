package validation

// RuleViolation pairs a failed rule with its error.
type RuleViolation struct {
	Rule  RuleIdentifier
	Error ValidationError
}

// ValidationResult is the immutable outcome of evaluating a rule set:
// success, or failure with one violation per failed rule in evaluation order.
type ValidationResult struct {
	violations []RuleViolation
}

// Success returns a passing result.
func Success() ValidationResult {
	return ValidationResult{}
}

// Failure returns a failing result carrying the violations in order.
func Failure(violations ...RuleViolation) ValidationResult {
	copied := make([]RuleViolation, len(violations))
	copy(copied, violations)
	return ValidationResult{violations: copied}
}

// IsFailed reports whether any rule failed.
func (r ValidationResult) IsFailed() bool {
	return len(r.violations) > 0
}

// Violations returns the ordered violations.
func (r ValidationResult) Violations() []RuleViolation {
	out := make([]RuleViolation, len(r.violations))
	copy(out, r.violations)
	return out
}
