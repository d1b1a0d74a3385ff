package validation

// Rule is a single evaluated predicate over one operation or document. The
// verdict is computed when the rule is built by a factory, so a Rule value is
// a pure function of the data it was given: no I/O, no mutation afterwards.
type Rule struct {
	identifier RuleIdentifier
	valid      bool
	err        *ValidationError
}

// NewRule builds a rule with a default error carrying no parameters.
func NewRule(identifier RuleIdentifier, valid bool) Rule {
	return Rule{identifier: identifier, valid: valid}
}

// NewRuleWithError builds a rule carrying typed error parameters.
func NewRuleWithError(identifier RuleIdentifier, valid bool, params ...ErrorParameter) Rule {
	err := NewValidationError(identifier, params...)
	return Rule{identifier: identifier, valid: valid, err: &err}
}

// Identifier returns the rule's identifier.
func (r Rule) Identifier() RuleIdentifier {
	return r.identifier
}

// IsValid reports the rule's verdict.
func (r Rule) IsValid() bool {
	return r.valid
}

// Error returns the structured error for this rule.
func (r Rule) Error() ValidationError {
	if r.err != nil {
		return *r.err
	}
	return NewValidationError(r.identifier)
}

// RuleSet is an ordered collection of rules reduced to one result. The rule
// order determines the order rejection reasons reach the sender, which is a
// contract property, not an accident.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a rule set preserving the given order.
func NewRuleSet(rules ...Rule) RuleSet {
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return RuleSet{rules: copied}
}

// Rules returns the rules in evaluation order.
func (s RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Validate evaluates every rule. All rules are checked even after the first
// failure so the sender receives the complete set of reject reasons at once.
func (s RuleSet) Validate() ValidationResult {
	var violations []RuleViolation
	for _, rule := range s.rules {
		if rule.IsValid() {
			continue
		}
		violations = append(violations, RuleViolation{
			Rule:  rule.Identifier(),
			Error: rule.Error(),
		})
	}
	if len(violations) == 0 {
		return Success()
	}
	return Failure(violations...)
}
