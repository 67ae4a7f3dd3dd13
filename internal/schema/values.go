package schema

import (
	"net/mail"

	"github.com/shopspring/decimal"

	"fjacquet/pain001/internal/models"
	"fjacquet/pain001/internal/painerror"
	"fjacquet/pain001/internal/validation"
)

// Party validates a PartyIdentification135 found at path.
func (v *Validator) Party(path string, p models.PartyIdentification) error {
	c := v.newCollector()
	c.party(path, p)
	return c.result(path)
}

// Account validates a CashAccount38 found at path.
func (v *Validator) Account(path string, a models.CashAccount) error {
	c := v.newCollector()
	c.account(path, a)
	return c.result(path)
}

// Agent validates a BranchAndFinancialInstitutionIdentification6 found at path.
func (v *Validator) Agent(path string, a models.Agent) error {
	c := v.newCollector()
	c.agent(path, a)
	return c.result(path)
}

// Counterparty validates the flat name/IBAN/BIC input describing a debtor or
// creditor. requireBIC is set for the debtor, whose bank must be explicit.
func (v *Validator) Counterparty(subject string, p models.Party, requireBIC bool) error {
	c := v.newCollector()
	c.required(join(subject, "name"), p.Name, models.MaxText140)
	c.iban(join(subject, "iban"), p.IBAN)
	if requireBIC && p.BIC == "" {
		c.fieldf(join(subject, "bic"), "", "is required")
	}
	c.bic(join(subject, "bic"), p.BIC)
	return c.result(subject)
}

func (c *collector) party(path string, p models.PartyIdentification) {
	c.required(join(path, "Nm"), p.Nm, models.MaxText140)
	if p.PstlAdr != nil {
		c.postalAddress(join(path, "PstlAdr"), *p.PstlAdr)
	}
	c.country(join(path, "CtryOfRes"), p.CtryOfRes)
	if p.CtctDtls != nil {
		c.contact(join(path, "CtctDtls"), *p.CtctDtls)
	}
}

func (c *collector) postalAddress(path string, a models.PostalAddress) {
	if a.AdrTp != nil {
		p := join(path, "AdrTp")
		if c.codeOrProprietary(p, *a.AdrTp, 0, models.MaxText35) {
			c.oneOf(join(p, "Cd"), a.AdrTp.Cd, models.AddressTypes)
		}
	}
	c.optional(join(path, "Dept"), a.Dept, models.MaxText70)
	c.optional(join(path, "SubDept"), a.SubDept, models.MaxText70)
	c.optional(join(path, "StrtNm"), a.StrtNm, models.MaxText70)
	c.optional(join(path, "BldgNb"), a.BldgNb, models.MaxText16)
	c.optional(join(path, "BldgNm"), a.BldgNm, models.MaxText35)
	c.optional(join(path, "Flr"), a.Flr, models.MaxText70)
	c.optional(join(path, "PstBx"), a.PstBx, models.MaxText16)
	c.optional(join(path, "Room"), a.Room, models.MaxText70)
	c.optional(join(path, "PstCd"), a.PstCd, models.MaxText16)
	c.optional(join(path, "TwnNm"), a.TwnNm, models.MaxText35)
	c.optional(join(path, "TwnLctnNm"), a.TwnLctnNm, models.MaxText35)
	c.optional(join(path, "DstrctNm"), a.DstrctNm, models.MaxText35)
	c.optional(join(path, "CtrySubDvsn"), a.CtrySubDvsn, models.MaxText35)
	c.country(join(path, "Ctry"), a.Ctry)

	if len(a.AdrLine) > models.MaxAddressLines {
		c.fieldf(join(path, "AdrLine"), "", "must have at most %d lines, got %d", models.MaxAddressLines, len(a.AdrLine))
	}
	for i, line := range a.AdrLine {
		c.required(index(join(path, "AdrLine"), i), line, models.MaxText70)
	}
}

func (c *collector) contact(path string, ct models.Contact) {
	c.oneOf(join(path, "NmPrfx"), ct.NmPrfx, models.NamePrefixes)
	c.optional(join(path, "Nm"), ct.Nm, models.MaxText40)
	c.optional(join(path, "PhneNb"), ct.PhneNb, models.MaxText50)
	c.optional(join(path, "MobNb"), ct.MobNb, models.MaxText50)
	c.optional(join(path, "FaxNb"), ct.FaxNb, models.MaxText50)
	if ct.EmailAdr != "" {
		c.maxLength(join(path, "EmailAdr"), ct.EmailAdr, models.MaxText2048)
		if _, err := mail.ParseAddress(ct.EmailAdr); err != nil {
			c.fieldf(join(path, "EmailAdr"), ct.EmailAdr, "is not a valid email address")
		}
	}
	c.optional(join(path, "EmailPurp"), ct.EmailPurp, models.MaxText35)
	c.optional(join(path, "JobTitl"), ct.JobTitl, models.MaxText35)
	c.optional(join(path, "Rspnsblty"), ct.Rspnsblty, models.MaxText35)
	c.optional(join(path, "Dept"), ct.Dept, models.MaxText70)
	for i, o := range ct.Othr {
		p := index(join(path, "Othr"), i)
		c.required(join(p, "ChanlTp"), o.ChanlTp, models.MaxText4)
		c.optional(join(p, "Id"), o.ID, models.MaxText128)
	}
	c.oneOf(join(path, "PrefrdMtd"), ct.PrefrdMtd, models.PreferredMethods)
}

func (c *collector) account(path string, a models.CashAccount) {
	c.iban(join(path, "Id.IBAN"), a.ID.IBAN)
	if a.Ccy != "" {
		c.currency(join(path, "Ccy"), a.Ccy)
	}
	c.optional(join(path, "Nm"), a.Nm, models.MaxText70)
}

func (c *collector) agent(path string, a models.Agent) {
	f := a.FinInstnID
	p := join(path, "FinInstnId")
	c.bic(join(p, "BICFI"), f.BICFI)
	if f.ClrSysMmbID != nil {
		mp := join(p, "ClrSysMmbId")
		if f.ClrSysMmbID.ClrSysID != nil {
			c.codeOrProprietary(join(mp, "ClrSysId"), *f.ClrSysMmbID.ClrSysID, 5, models.MaxText35)
		}
		c.required(join(mp, "MmbId"), f.ClrSysMmbID.MmbID, models.MaxText35)
	}
	if f.LEI != "" && !validation.IsLEI(f.LEI) {
		c.fieldf(join(p, "LEI"), f.LEI, "is not a valid LEI")
	}
	c.optional(join(p, "Nm"), f.Nm, models.MaxText140)
	if f.PstlAdr != nil {
		c.postalAddress(join(p, "PstlAdr"), *f.PstlAdr)
	}
}

// codeOrProprietary checks the choice and the length of whichever side is set.
// A codeMax of 0 means the code length is checked by the caller. It reports
// whether the choice is populated.
func (c *collector) codeOrProprietary(path string, cp models.CodeOrProprietary, codeMax, prtryMax int) bool {
	if cp.IsEmpty() {
		c.rule(painerror.RuleChoiceRequired, "one of Cd or Prtry must be present",
			join(path, "Cd"), join(path, "Prtry"))
		return false
	}
	if codeMax > 0 {
		c.optional(join(path, "Cd"), cp.Cd, codeMax)
	}
	c.optional(join(path, "Prtry"), cp.Prtry, prtryMax)
	return true
}

func (c *collector) amount(path string, a models.Amount) {
	c.currency(join(path, "@Ccy"), a.Ccy)
	c.decimalRange(path, a.Value, models.MaxAmount)
}

func (c *collector) decimalRange(path string, d decimal.Decimal, upper decimal.Decimal) {
	switch {
	case d.IsNegative():
		c.fieldf(path, d.String(), "must not be negative")
	case d.GreaterThan(upper):
		c.fieldf(path, d.String(), "must not exceed %s", upper.String())
	}
	if digits := models.FractionDigits(d); digits > models.MaxFractionDigits {
		c.fieldf(path, d.String(), "must have at most %d fraction digits", models.MaxFractionDigits)
	}
}

func (c *collector) amountChoice(path string, choice models.AmountChoice) {
	switch a := choice.(type) {
	case models.InstructedAmount:
		c.amount(join(path, "InstdAmt"), a.InstdAmt)
	case *models.InstructedAmount:
		if a == nil {
			c.missingAmount(path)
			return
		}
		c.amountChoice(path, *a)
	case models.EquivalentAmount:
		c.equivalentAmount(join(path, "EqvtAmt"), a)
	case *models.EquivalentAmount:
		if a == nil {
			c.missingAmount(path)
			return
		}
		c.amountChoice(path, *a)
	default:
		c.missingAmount(path)
	}
}

func (c *collector) missingAmount(path string) {
	c.rule(painerror.RuleChoiceRequired, "one of InstdAmt or EqvtAmt must be present",
		join(path, "InstdAmt"), join(path, "EqvtAmt"))
}

func (c *collector) equivalentAmount(path string, a models.EquivalentAmount) {
	c.amount(join(path, "Amt"), a.Amt)
	c.currency(join(path, "CcyOfTrf"), a.CcyOfTrf)
	if a.CcyOfTrf != "" && a.CcyOfTrf == a.Amt.Ccy {
		c.rule(painerror.RuleDistinctTransferCurrency,
			"currency of transfer must differ from the amount currency",
			join(path, "Amt.@Ccy"), join(path, "CcyOfTrf"))
	}
}

func (c *collector) dateChoice(path string, choice models.DateChoice) {
	switch d := choice.(type) {
	case models.ExecutionDate:
		if d.Dt == "" {
			c.fieldf(join(path, "Dt"), "", "is required")
			return
		}
		c.date(join(path, "Dt"), d.Dt)
	case *models.ExecutionDate:
		if d == nil {
			c.missingDate(path)
			return
		}
		c.dateChoice(path, *d)
	case models.ExecutionDateTime:
		c.dateTime(join(path, "DtTm"), d.DtTm)
	case *models.ExecutionDateTime:
		if d == nil {
			c.missingDate(path)
			return
		}
		c.dateChoice(path, *d)
	default:
		c.missingDate(path)
	}
}

func (c *collector) missingDate(path string) {
	c.rule(painerror.RuleChoiceRequired, "one of Dt or DtTm must be present",
		join(path, "Dt"), join(path, "DtTm"))
}
