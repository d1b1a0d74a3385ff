package application

import (
	"context"
	"errors"

	charges "charges-hub/internal/charges/domain"
	"charges-hub/internal/charges/domain/validation"
)

// DocumentValidator runs the document-level input rules.
type DocumentValidator struct {
	factory *validation.InputRulesFactory
}

// NewDocumentValidator constructs the validator.
func NewDocumentValidator(factory *validation.InputRulesFactory) (*DocumentValidator, error) {
	if factory == nil {
		return nil, errors.New("document validator: nil factory")
	}
	return &DocumentValidator{factory: factory}, nil
}

// Validate builds the document rules and reduces them to one result.
func (v *DocumentValidator) Validate(doc *charges.Document) (validation.ValidationResult, error) {
	set, err := v.factory.CreateDocumentRules(doc)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	return set.Validate(), nil
}

// OperationValidator runs the full input phase for one operation: the
// syntactic operation rules followed by the price-series rules.
type OperationValidator struct {
	factory *validation.InputRulesFactory
}

// NewOperationValidator constructs the validator.
func NewOperationValidator(factory *validation.InputRulesFactory) (*OperationValidator, error) {
	if factory == nil {
		return nil, errors.New("operation validator: nil factory")
	}
	return &OperationValidator{factory: factory}, nil
}

// Validate evaluates the operation's input rules in order.
func (v *OperationValidator) Validate(op *charges.ChargeOperation) (validation.ValidationResult, error) {
	operationRules, err := v.factory.CreateOperationRules(op)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	priceRules, err := v.factory.CreatePriceRules(op)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	combined := append(operationRules.Rules(), priceRules.Rules()...)
	return validation.NewRuleSet(combined...).Validate(), nil
}

// PriceOperationValidator runs only the price-series rules, used for
// price-update documents where the master data rules do not apply.
type PriceOperationValidator struct {
	factory *validation.InputRulesFactory
}

// NewPriceOperationValidator constructs the validator.
func NewPriceOperationValidator(factory *validation.InputRulesFactory) (*PriceOperationValidator, error) {
	if factory == nil {
		return nil, errors.New("price operation validator: nil factory")
	}
	return &PriceOperationValidator{factory: factory}, nil
}

// Validate evaluates the price rules for one operation.
func (v *PriceOperationValidator) Validate(op *charges.ChargeOperation) (validation.ValidationResult, error) {
	set, err := v.factory.CreatePriceRules(op)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	return set.Validate(), nil
}

// BusinessValidator runs the semantic phase against persisted state.
type BusinessValidator struct {
	factory *validation.BusinessRulesFactory
}

// NewBusinessValidator constructs the validator.
func NewBusinessValidator(factory *validation.BusinessRulesFactory) (*BusinessValidator, error) {
	if factory == nil {
		return nil, errors.New("business validator: nil factory")
	}
	return &BusinessValidator{factory: factory}, nil
}

// Validate builds the applicable business rules and reduces them.
func (v *BusinessValidator) Validate(ctx context.Context, op *charges.ChargeOperation) (validation.ValidationResult, error) {
	set, err := v.factory.CreateRules(ctx, op)
	if err != nil {
		return validation.ValidationResult{}, err
	}
	return set.Validate(), nil
}
