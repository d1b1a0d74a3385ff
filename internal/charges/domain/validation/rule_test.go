package validation

import "testing"

func TestRuleSetValidateAllPass(t *testing.T) {
	set := NewRuleSet(
		NewRule(RuleChargeIDRequired, true),
		NewRule(RuleChargeOwnerLength, true),
	)
	result := set.Validate()
	if result.IsFailed() {
		t.Fatalf("expected success, got %d violations", len(result.Violations()))
	}
}

func TestRuleSetValidateCollectsAllFailuresInOrder(t *testing.T) {
	set := NewRuleSet(
		NewRule(RuleChargeIDRequired, true),
		NewRule(RuleChargeOwnerLength, false),
		NewRule(RuleChargeTypeIsKnown, true),
		NewRule(RuleVatClassificationValidation, false),
		NewRule(RuleMaximumPrice, false),
	)
	result := set.Validate()
	if !result.IsFailed() {
		t.Fatal("expected failure")
	}

	violations := result.Violations()
	want := []RuleIdentifier{
		RuleChargeOwnerLength,
		RuleVatClassificationValidation,
		RuleMaximumPrice,
	}
	if len(violations) != len(want) {
		t.Fatalf("got %d violations, want %d", len(violations), len(want))
	}
	for i, id := range want {
		if violations[i].Rule != id {
			t.Fatalf("violation %d: got %s, want %s", i, violations[i].Rule, id)
		}
	}
}

func TestRuleSetValidateEmptySetSucceeds(t *testing.T) {
	if NewRuleSet().Validate().IsFailed() {
		t.Fatal("empty rule set must succeed")
	}
}

func TestRuleErrorCarriesParameters(t *testing.T) {
	rule := NewRuleWithError(RuleVatClassificationValidation, false,
		Param(ParamVatClassification, "Unknown"),
		Param(ParamChargeID, "tariff-1"),
	)
	err := rule.Error()
	if err.Rule != RuleVatClassificationValidation {
		t.Fatalf("error rule = %s", err.Rule)
	}
	if len(err.Parameters) != 2 {
		t.Fatalf("got %d parameters, want 2", len(err.Parameters))
	}
	text := err.Text()
	if text == "" {
		t.Fatal("rendered text must not be empty")
	}
}
