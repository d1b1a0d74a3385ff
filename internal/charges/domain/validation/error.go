package validation

import (
	"fmt"
	"strings"
)

// ParameterType names a typed value carried by a validation error. The types
// are used when rendering human-readable rejection text.
type ParameterType string

const (
	ParamChargeID          ParameterType = "ChargeId"
	ParamChargeOwner       ParameterType = "ChargeOwner"
	ParamChargeType        ParameterType = "ChargeType"
	ParamChargeResolution  ParameterType = "ChargeResolution"
	ParamVatClassification ParameterType = "ChargeVatClass"
	ParamChargeStartDate   ParameterType = "ChargeStartDate"
	ParamDocumentID        ParameterType = "DocumentId"
	ParamDocumentSenderID  ParameterType = "DocumentSenderId"
	ParamPointPosition     ParameterType = "ChargePointPosition"
	ParamPointPrice        ParameterType = "ChargePointPrice"
	ParamPointCount        ParameterType = "ChargePointCount"
	ParamExpectedCount     ParameterType = "ChargePointExpectedCount"
)

// ErrorParameter is one typed value attached to a validation error.
type ErrorParameter struct {
	Type  ParameterType
	Value string
}

// Param builds an error parameter.
func Param(t ParameterType, value string) ErrorParameter {
	return ErrorParameter{Type: t, Value: value}
}

// ValidationError is a rule identifier plus the typed parameters needed to
// render the user-facing rejection text.
type ValidationError struct {
	Rule       RuleIdentifier
	Parameters []ErrorParameter
}

// NewValidationError builds an error for a rule.
func NewValidationError(rule RuleIdentifier, params ...ErrorParameter) ValidationError {
	return ValidationError{Rule: rule, Parameters: params}
}

// Text renders the rejection reason for receipts.
func (e ValidationError) Text() string {
	if len(e.Parameters) == 0 {
		return fmt.Sprintf("rule %s failed", e.Rule)
	}
	parts := make([]string, 0, len(e.Parameters))
	for _, p := range e.Parameters {
		parts = append(parts, fmt.Sprintf("%s=%s", p.Type, p.Value))
	}
	return fmt.Sprintf("rule %s failed: %s", e.Rule, strings.Join(parts, ", "))
}
