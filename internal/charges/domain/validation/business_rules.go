package validation

import (
	"context"
	"errors"
	"time"

	charges "charges-hub/internal/charges/domain"
)

// BusinessRulesFactory builds the semantic rule set for an operation against
// persisted state. Rule applicability is a function of (is-new, charge type),
// not a flat list: creations get the mandatory start-date rule only; updates
// add the update rules, and tariff updates the tax rule on top.
type BusinessRulesFactory struct {
	repo  charges.Repository
	cfg   RulesConfiguration
	clock Clock
	loc   *time.Location
}

// NewBusinessRulesFactory constructs the factory.
func NewBusinessRulesFactory(repo charges.Repository, cfg RulesConfiguration, clock Clock) (*BusinessRulesFactory, error) {
	if repo == nil {
		return nil, errors.New("business rules factory: nil repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, err
	}
	return &BusinessRulesFactory{repo: repo, cfg: cfg, clock: clock, loc: loc}, nil
}

// CreateRules resolves the persisted charge for the operation's identity and
// composes the applicable rules. The repository call is a read-only lookup.
func (f *BusinessRulesFactory) CreateRules(ctx context.Context, op *charges.ChargeOperation) (RuleSet, error) {
	if op == nil {
		return RuleSet{}, charges.ErrNilOperation
	}

	existing, err := f.repo.GetByIdentity(ctx, op.Identity())
	if err != nil && !errors.Is(err, charges.ErrChargeNotFound) {
		return RuleSet{}, err
	}

	rules := []Rule{f.startDateRule(op)}
	if existing == nil {
		return NewRuleSet(rules...), nil
	}

	rules = append(rules,
		effectiveDateRule(op, existing),
		resolutionUnchangedRule(op, existing),
	)
	if op.Type == charges.ChargeTypeTariff {
		rules = append(rules, taxValueUnchangedRule(op, existing))
	}
	return NewRuleSet(rules...), nil
}

// startDateRule checks the validity start against the configured window
// around today, resolved at local midnight in the configured zone.
func (f *BusinessRulesFactory) startDateRule(op *charges.ChargeOperation) Rule {
	lower, upper := startDateWindow(f.clock.Now(), f.loc,
		f.cfg.StartDateLowerOffsetDays, f.cfg.StartDateUpperOffsetDays)
	valid := !op.StartDateTime.Before(lower) && op.StartDateTime.Before(upper)
	return NewRuleWithError(RuleStartDateValidation, valid,
		Param(ParamChargeStartDate, op.StartDateTime.UTC().Format(time.RFC3339)),
		Param(ParamChargeID, op.SenderProvidedChargeID),
	)
}

// effectiveDateRule: an update must take effect on or before the existing
// charge's stop date, otherwise it would leave a gap.
func effectiveDateRule(op *charges.ChargeOperation, existing *charges.Charge) Rule {
	valid := !op.StartDateTime.After(existing.EndDateTime)
	return NewRuleWithError(RuleEffectiveDateBeforeExistingStop, valid,
		Param(ParamChargeStartDate, op.StartDateTime.UTC().Format(time.RFC3339)),
		Param(ParamChargeID, op.SenderProvidedChargeID),
	)
}

func resolutionUnchangedRule(op *charges.ChargeOperation, existing *charges.Charge) Rule {
	return NewRuleWithError(RuleResolutionCannotBeUpdated,
		op.Resolution == existing.Resolution,
		Param(ParamChargeResolution, string(op.Resolution)),
		Param(ParamChargeID, op.SenderProvidedChargeID),
	)
}

func taxValueUnchangedRule(op *charges.ChargeOperation, existing *charges.Charge) Rule {
	return NewRuleWithError(RuleTariffTaxValueCannotBeUpdated,
		op.TaxIndicator == existing.TaxIndicator,
		Param(ParamChargeType, string(op.Type)),
		Param(ParamChargeID, op.SenderProvidedChargeID),
	)
}
