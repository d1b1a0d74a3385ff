package validation

// RuleIdentifier names every validation rule. The identifiers are part of the
// receipt contract with senders and must stay stable.
type RuleIdentifier string

const (
	RuleChargeIDRequired                RuleIdentifier = "ChargeIdRequired"
	RuleChargeIDLength                  RuleIdentifier = "ChargeIdLength"
	RuleChargeNameLength                RuleIdentifier = "ChargeNameHasMaximumLength"
	RuleChargeDescriptionLength         RuleIdentifier = "ChargeDescriptionHasMaximumLength"
	RuleChargeOwnerLength               RuleIdentifier = "ChargeOwnerLength"
	RuleChargeTypeIsKnown               RuleIdentifier = "ChargeTypeIsKnown"
	RuleResolutionIsKnown               RuleIdentifier = "ResolutionIsKnown"
	RuleResolutionTariffValidation      RuleIdentifier = "ResolutionTariffValidation"
	RuleVatClassificationValidation     RuleIdentifier = "VatClassificationValidation"
	RuleStartDateValidation             RuleIdentifier = "StartDateValidation"
	RuleSenderIsMandatoryType           RuleIdentifier = "SenderIsMandatoryType"
	RulePriceDigitsAndDecimals          RuleIdentifier = "ChargePriceMaximumDigitsAndDecimals"
	RuleMaximumPrice                    RuleIdentifier = "MaximumPrice"
	RulePointCountMatchesInterval       RuleIdentifier = "NumberOfPointsMatchTimeIntervalAndResolution"
	RuleTariffPriceCount                RuleIdentifier = "ChargeTypeTariffPriceCount"
	RuleFeeMustHaveSinglePrice          RuleIdentifier = "FeeMustHaveSinglePrice"
	RuleSubscriptionMustHaveSinglePrice RuleIdentifier = "SubscriptionMustHaveSinglePrice"

	RuleEffectiveDateBeforeExistingStop RuleIdentifier = "UpdateChargeMustHaveEffectiveDate"
	RuleResolutionCannotBeUpdated       RuleIdentifier = "ChargeResolutionCannotBeUpdated"
	RuleTariffTaxValueCannotBeUpdated   RuleIdentifier = "ChangingTariffTaxValueNotAllowed"
)
