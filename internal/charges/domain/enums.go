package charges

// ChargeType classifies what kind of charge a document line refers to.
type ChargeType string

const (
	ChargeTypeUnknown      ChargeType = "Unknown"
	ChargeTypeSubscription ChargeType = "Subscription"
	ChargeTypeFee          ChargeType = "Fee"
	ChargeTypeTariff       ChargeType = "Tariff"
)

// IsKnown reports whether the type is one of the billable charge kinds.
func (t ChargeType) IsKnown() bool {
	switch t {
	case ChargeTypeSubscription, ChargeTypeFee, ChargeTypeTariff:
		return true
	default:
		return false
	}
}

// Resolution is the time granularity of a charge's price points.
type Resolution string

const (
	ResolutionUnknown Resolution = "Unknown"
	ResolutionPT15M   Resolution = "PT15M"
	ResolutionPT1H    Resolution = "PT1H"
	ResolutionP1D     Resolution = "P1D"
	ResolutionP1M     Resolution = "P1M"
)

// IsKnown reports whether the resolution maps to a concrete duration.
func (r Resolution) IsKnown() bool {
	switch r {
	case ResolutionPT15M, ResolutionPT1H, ResolutionP1D, ResolutionP1M:
		return true
	default:
		return false
	}
}

// VatClassification is the VAT treatment of a charge.
type VatClassification string

const (
	VatClassificationUnknown VatClassification = "Unknown"
	VatClassificationNoVat   VatClassification = "NoVat"
	VatClassificationVat25   VatClassification = "Vat25"
)

// TaxIndicator marks whether a charge is a tax.
type TaxIndicator string

const (
	TaxIndicatorUnknown TaxIndicator = "Unknown"
	TaxIndicatorNoTax   TaxIndicator = "NoTax"
	TaxIndicatorTax     TaxIndicator = "Tax"
)

// TransparentInvoicing marks whether the charge must be shown on invoices.
type TransparentInvoicing string

const (
	TransparentInvoicingUnknown        TransparentInvoicing = "Unknown"
	TransparentInvoicingNonTransparent TransparentInvoicing = "NonTransparent"
	TransparentInvoicingTransparent    TransparentInvoicing = "Transparent"
)

// BusinessReasonCode is the enumerated purpose of a submitted document.
type BusinessReasonCode string

const (
	BusinessReasonUnknown                    BusinessReasonCode = "Unknown"
	BusinessReasonUpdateChargeInformation    BusinessReasonCode = "UpdateChargeInformation"
	BusinessReasonUpdateChargePrices         BusinessReasonCode = "UpdateChargePrices"
	BusinessReasonUpdateMasterDataSettlement BusinessReasonCode = "UpdateMasterDataSettlement"
)

// MarketParticipantRole identifies the role a market actor acts in.
type MarketParticipantRole string

const (
	RoleUnknown            MarketParticipantRole = "Unknown"
	RoleGridAccessProvider MarketParticipantRole = "GridAccessProvider"
	RoleSystemOperator     MarketParticipantRole = "SystemOperator"
	RoleEnergySupplier     MarketParticipantRole = "EnergySupplier"
)
