package validation

import (
	"strconv"

	charges "charges-hub/internal/charges/domain"
	marketparticipants "charges-hub/internal/marketparticipants/domain"
)

const (
	chargeIDMaxLength          = 10
	chargeNameMaxLength        = 132
	chargeDescriptionMaxLength = 2048
	chargeOwnerMinLength       = 13
	chargeOwnerMaxLength       = 16
)

// InputRulesFactory builds the syntactic rule lists evaluated without
// persisted state. It performs no I/O.
type InputRulesFactory struct{}

// NewInputRulesFactory constructs the factory.
func NewInputRulesFactory() *InputRulesFactory {
	return &InputRulesFactory{}
}

// CreateDocumentRules builds the document-level rules.
func (f *InputRulesFactory) CreateDocumentRules(doc *charges.Document) (RuleSet, error) {
	if doc == nil {
		return RuleSet{}, charges.ErrNilCommand
	}
	return NewRuleSet(
		NewRuleWithError(RuleSenderIsMandatoryType,
			marketparticipants.IsValidActorID(doc.Sender.ID),
			Param(ParamDocumentSenderID, doc.Sender.ID),
			Param(ParamDocumentID, doc.ID),
		),
	), nil
}

// CreateOperationRules builds the fixed rule list for one operation. The
// list order is the order reject reasons are reported.
func (f *InputRulesFactory) CreateOperationRules(op *charges.ChargeOperation) (RuleSet, error) {
	if op == nil {
		return RuleSet{}, charges.ErrNilOperation
	}
	return NewRuleSet(
		NewRule(RuleChargeIDRequired, op.SenderProvidedChargeID != ""),
		NewRule(RuleChargeIDLength, len(op.SenderProvidedChargeID) <= chargeIDMaxLength),
		NewRule(RuleChargeNameLength, len(op.Name) <= chargeNameMaxLength),
		NewRule(RuleChargeDescriptionLength, len(op.Description) <= chargeDescriptionMaxLength),
		NewRuleWithError(RuleChargeOwnerLength,
			chargeOwnerLengthValid(op.OwnerID),
			Param(ParamChargeOwner, op.OwnerID),
			Param(ParamChargeID, op.SenderProvidedChargeID),
		),
		NewRuleWithError(RuleChargeTypeIsKnown,
			op.Type.IsKnown(),
			Param(ParamChargeType, string(op.Type)),
			Param(ParamChargeID, op.SenderProvidedChargeID),
		),
		NewRuleWithError(RuleResolutionIsKnown,
			op.Resolution.IsKnown(),
			Param(ParamChargeResolution, string(op.Resolution)),
			Param(ParamChargeID, op.SenderProvidedChargeID),
		),
		resolutionForTypeRule(RuleResolutionTariffValidation, op, charges.ChargeTypeTariff, tariffResolutions),
		NewRuleWithError(RuleVatClassificationValidation,
			vatClassificationValid(op.VatClassification),
			Param(ParamVatClassification, string(op.VatClassification)),
			Param(ParamChargeID, op.SenderProvidedChargeID),
		),
		singlePriceRule(RuleFeeMustHaveSinglePrice, op, charges.ChargeTypeFee),
		singlePriceRule(RuleSubscriptionMustHaveSinglePrice, op, charges.ChargeTypeSubscription),
	), nil
}

// CreatePriceRules builds the numeric rules over the operation's price
// series. Count rules are only constructed once the resolution rules can no
// longer reject the input; an unmapped resolution reaching the count helpers
// is a programming defect and surfaces as a hard error.
func (f *InputRulesFactory) CreatePriceRules(op *charges.ChargeOperation) (RuleSet, error) {
	if op == nil {
		return RuleSet{}, charges.ErrNilOperation
	}

	rules := []Rule{
		priceDigitsRule(op),
		maximumPriceRule(op),
	}

	if op.Resolution.IsKnown() {
		expected, err := ExpectedPointCount(op.StartDateTime, op.EndDateTime, op.Resolution)
		if err != nil {
			return RuleSet{}, err
		}
		rules = append(rules, NewRuleWithError(RulePointCountMatchesInterval,
			op.PointCount() == expected,
			Param(ParamChargeResolution, string(op.Resolution)),
			Param(ParamPointCount, strconv.Itoa(op.PointCount())),
			Param(ParamExpectedCount, strconv.Itoa(expected)),
		))
	}

	if op.Type == charges.ChargeTypeTariff && resolutionIn(op.Resolution, tariffResolutions) {
		required, err := TariffPointCount(op.Resolution)
		if err != nil {
			return RuleSet{}, err
		}
		rules = append(rules, NewRuleWithError(RuleTariffPriceCount,
			op.PointCount() == required,
			Param(ParamChargeResolution, string(op.Resolution)),
			Param(ParamPointCount, strconv.Itoa(op.PointCount())),
			Param(ParamExpectedCount, strconv.Itoa(required)),
		))
	}

	return NewRuleSet(rules...), nil
}

func chargeOwnerLengthValid(owner string) bool {
	return len(owner) >= chargeOwnerMinLength && len(owner) <= chargeOwnerMaxLength
}

func vatClassificationValid(vat charges.VatClassification) bool {
	return vat == charges.VatClassificationNoVat || vat == charges.VatClassificationVat25
}

// resolutionForTypeRule is the generic resolution rule: valid when the
// operation is not of the target type, or its resolution is in the allowed
// list. The error deliberately carries (resolution, charge type) once each.
func resolutionForTypeRule(id RuleIdentifier, op *charges.ChargeOperation, target charges.ChargeType, allowed []charges.Resolution) Rule {
	valid := op.Type != target || resolutionIn(op.Resolution, allowed)
	return NewRuleWithError(id, valid,
		Param(ParamChargeResolution, string(op.Resolution)),
		Param(ParamChargeType, string(op.Type)),
	)
}

// singlePriceRule is type-gated: vacuously valid for other charge types.
func singlePriceRule(id RuleIdentifier, op *charges.ChargeOperation, target charges.ChargeType) Rule {
	valid := op.Type != target || op.PointCount() == 1
	return NewRuleWithError(id, valid,
		Param(ParamChargeType, string(op.Type)),
		Param(ParamPointCount, strconv.Itoa(op.PointCount())),
	)
}

// priceDigitsRule is invalid when any point exceeds the digit bounds; the
// error carries the first offending point.
func priceDigitsRule(op *charges.ChargeOperation) Rule {
	for _, p := range op.Points {
		if !priceWithinDigitBounds(p.Price) {
			return NewRuleWithError(RulePriceDigitsAndDecimals, false,
				Param(ParamPointPosition, strconv.Itoa(p.Position)),
				Param(ParamPointPrice, p.Price.String()),
			)
		}
	}
	return NewRule(RulePriceDigitsAndDecimals, true)
}

func maximumPriceRule(op *charges.ChargeOperation) Rule {
	for _, p := range op.Points {
		if !priceBelowMaximum(p.Price) {
			return NewRuleWithError(RuleMaximumPrice, false,
				Param(ParamPointPosition, strconv.Itoa(p.Position)),
				Param(ParamPointPrice, p.Price.String()),
			)
		}
	}
	return NewRule(RuleMaximumPrice, true)
}
