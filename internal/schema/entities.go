package schema

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"fjacquet/pain001/internal/models"
	"fjacquet/pain001/internal/painerror"
	"fjacquet/pain001/internal/validation"
)

// Paths of the document root.
const (
	DocumentPath = "Document.CstmrCdtTrfInitn"
	GrpHdrPath   = DocumentPath + ".GrpHdr"
	PmtInfPath   = DocumentPath + ".PmtInf"
)

// DecimalNumber allows 17 fraction digits.
const maxControlSumFractionDigits = 17

// GroupHeader validates GroupHeader85 on its own. The derived totals are
// checked against the transactions only by Document.
func (v *Validator) GroupHeader(h models.GroupHeader) error {
	c := v.newCollector()
	c.groupHeader(GrpHdrPath, h)
	return c.result("group header")
}

// PaymentInstruction validates a PaymentInstruction30 and every transaction it
// holds, including the instruction-level rules.
func (v *Validator) PaymentInstruction(path string, p models.PaymentInstruction) error {
	c := v.newCollector()
	c.paymentInstruction(path, p)
	return c.result(path)
}

// Transaction validates a CreditTransferTransaction34 with its own
// cross-field rules (intermediary agents, equivalent amount).
func (v *Validator) Transaction(path string, t models.CreditTransferTransaction) error {
	c := v.newCollector()
	c.transaction(path, t)
	c.transactionRules(path, t)
	return c.result(path)
}

// TransactionFields validates only the field-level constraints of a transaction.
func (v *Validator) TransactionFields(path string, t models.CreditTransferTransaction) error {
	c := v.newCollector()
	c.transaction(path, t)
	return c.result(path)
}

// Document validates the fully assembled message, every cross-entity rule
// included.
func (v *Validator) Document(d models.Document) error {
	c := v.newCollector()
	initn := d.CstmrCdtTrfInitn

	c.groupHeader(GrpHdrPath, initn.GrpHdr)

	if len(initn.PmtInf) == 0 {
		c.rule(painerror.RuleNonEmpty, "at least one payment instruction is required", PmtInfPath)
	}

	seen := make(map[string]string, len(initn.PmtInf))
	for i, p := range initn.PmtInf {
		path := index(PmtInfPath, i)
		c.paymentInstruction(path, p)

		if p.PmtInfID == "" {
			continue
		}
		if first, ok := seen[p.PmtInfID]; ok {
			c.rule(painerror.RuleUniqueID,
				fmt.Sprintf("PmtInfId %q is used more than once", p.PmtInfID),
				join(first, "PmtInfId"), join(path, "PmtInfId"))
			continue
		}
		seen[p.PmtInfID] = path
	}

	count, sum := totals(d.Transactions())
	if initn.GrpHdr.NbOfTxs != count {
		c.rule(painerror.RuleControlTotals,
			fmt.Sprintf("NbOfTxs is %d but the message holds %d transactions", initn.GrpHdr.NbOfTxs, count),
			join(GrpHdrPath, "NbOfTxs"))
	}
	if !initn.GrpHdr.CtrlSum.Equal(sum) {
		c.rule(painerror.RuleControlTotals,
			fmt.Sprintf("CtrlSum is %s but the transactions sum to %s",
				models.FormatDecimal(initn.GrpHdr.CtrlSum), models.FormatDecimal(sum)),
			join(GrpHdrPath, "CtrlSum"))
	}

	return c.result("document")
}

func (c *collector) groupHeader(path string, h models.GroupHeader) {
	c.required(join(path, "MsgId"), h.MsgID, models.MaxText35)
	c.dateTime(join(path, "CreDtTm"), h.CreDtTm)
	c.numberOfTransactions(join(path, "NbOfTxs"), h.NbOfTxs)
	c.controlSum(join(path, "CtrlSum"), h.CtrlSum)
	c.party(join(path, "InitgPty"), h.InitgPty)
	if h.FwdgAgt != nil {
		c.agent(join(path, "FwdgAgt"), *h.FwdgAgt)
	}
}

func (c *collector) numberOfTransactions(path string, n int64) {
	if n < 1 || n > models.MaxNumberOfTransactions {
		c.fieldf(path, strconv.FormatInt(n, 10), "must be between 1 and %d", models.MaxNumberOfTransactions)
	}
}

func (c *collector) controlSum(path string, d decimal.Decimal) {
	if d.IsNegative() {
		c.fieldf(path, d.String(), "must not be negative")
	}
	if models.FractionDigits(d) > maxControlSumFractionDigits {
		c.fieldf(path, d.String(), "must have at most %d fraction digits", maxControlSumFractionDigits)
	}
}

func (c *collector) paymentInstruction(path string, p models.PaymentInstruction) {
	c.required(join(path, "PmtInfId"), p.PmtInfID, models.MaxText35)
	if !p.PmtMtd.IsValid() {
		c.fieldf(join(path, "PmtMtd"), string(p.PmtMtd), "must be one of CHK, TRF, TRA")
	}
	if p.NbOfTxs != nil {
		c.numberOfTransactions(join(path, "NbOfTxs"), *p.NbOfTxs)
	}
	if p.CtrlSum != nil {
		c.controlSum(join(path, "CtrlSum"), *p.CtrlSum)
	}
	c.dateChoice(join(path, "ReqdExctnDt"), p.ReqdExctnDt)
	c.date(join(path, "PoolgAdjstmntDt"), p.PoolgAdjstmntDt)
	c.party(join(path, "Dbtr"), p.Dbtr)
	c.account(join(path, "DbtrAcct"), p.DbtrAcct)
	c.agent(join(path, "DbtrAgt"), p.DbtrAgt)
	if p.DbtrAgtAcct != nil {
		c.account(join(path, "DbtrAgtAcct"), *p.DbtrAgtAcct)
	}
	c.optional(join(path, "InstrForDbtrAgt"), p.InstrForDbtrAgt, models.MaxText140)
	if p.UltmtDbtr != nil {
		c.party(join(path, "UltmtDbtr"), *p.UltmtDbtr)
	}
	if p.ChrgBr != models.ChargeBearerNone && !p.ChrgBr.IsValid() {
		c.fieldf(join(path, "ChrgBr"), string(p.ChrgBr), "must be one of DEBT, CRED, SHAR, SLEV")
	}
	if p.ChrgsAcct != nil {
		c.account(join(path, "ChrgsAcct"), *p.ChrgsAcct)
	}
	if p.ChrgsAcctAgt != nil {
		c.agent(join(path, "ChrgsAcctAgt"), *p.ChrgsAcctAgt)
	}

	txPath := join(path, "CdtTrfTxInf")
	if len(p.CdtTrfTxInf) == 0 {
		c.rule(painerror.RuleNonEmpty, "at least one credit transfer transaction is required", txPath)
	}
	// A payment instruction that carries transactions leaves ChrgBr to them.
	if p.ChrgBr != models.ChargeBearerNone && len(p.CdtTrfTxInf) > 0 {
		c.rule(painerror.RuleChargeBearerExclusive,
			"ChrgBr must be set on the credit transfer transactions, not on a payment instruction that carries them",
			join(path, "ChrgBr"), txPath)
	}
	seen := make(map[string]string, len(p.CdtTrfTxInf))
	for i, t := range p.CdtTrfTxInf {
		tp := index(txPath, i)
		c.transaction(tp, t)
		c.transactionRules(tp, t)

		id := t.PmtID.InstrID
		if id == "" {
			continue
		}
		if first, ok := seen[id]; ok {
			c.rule(painerror.RuleUniqueID,
				fmt.Sprintf("InstrId %q is used more than once in the payment instruction", id),
				join(first, "PmtId.InstrId"), join(tp, "PmtId.InstrId"))
			continue
		}
		seen[id] = tp
	}

	c.paymentInstructionRules(path, p)
}

func (c *collector) paymentInstructionRules(path string, p models.PaymentInstruction) {
	if p.ChrgsAcctAgt != nil && p.ChrgsAcct == nil {
		c.rule(painerror.RuleChargesAccountAgent,
			"ChrgsAcct must be present if ChrgsAcctAgt is present",
			join(path, "ChrgsAcct"), join(path, "ChrgsAcctAgt"))
	}

	fin := p.DbtrAgt.FinInstnID
	if fin.BICFI == "" && fin.ClrSysMmbID == nil {
		c.rule(painerror.RuleDebtorAgentIdentity,
			"DbtrAgt must be identified by BICFI or ClrSysMmbId",
			join(path, "DbtrAgt.FinInstnId.BICFI"), join(path, "DbtrAgt.FinInstnId.ClrSysMmbId"))
	}

	if p.NbOfTxs == nil && p.CtrlSum == nil {
		return
	}
	count, sum := totals(p.CdtTrfTxInf)
	if p.NbOfTxs != nil && *p.NbOfTxs != count {
		c.rule(painerror.RuleInstructionTotals,
			fmt.Sprintf("NbOfTxs is %d but the instruction holds %d transactions", *p.NbOfTxs, count),
			join(path, "NbOfTxs"))
	}
	if p.CtrlSum != nil && !p.CtrlSum.Equal(sum) {
		c.rule(painerror.RuleInstructionTotals,
			fmt.Sprintf("CtrlSum is %s but the transactions sum to %s",
				models.FormatDecimal(*p.CtrlSum), models.FormatDecimal(sum)),
			join(path, "CtrlSum"))
	}
}

func (c *collector) transaction(path string, t models.CreditTransferTransaction) {
	idPath := join(path, "PmtId")
	c.optional(join(idPath, "InstrId"), t.PmtID.InstrID, models.MaxText35)
	c.required(join(idPath, "EndToEndId"), t.PmtID.EndToEndID, models.MaxText35)
	if t.PmtID.UETR != "" && !validation.IsUUIDv4(t.PmtID.UETR) {
		c.fieldf(join(idPath, "UETR"), t.PmtID.UETR, "is not a lower-case UUIDv4")
	}

	if t.PmtTpInf != nil {
		p := join(path, "PmtTpInf")
		c.oneOf(join(p, "InstrPrty"), t.PmtTpInf.InstrPrty, models.Priorities)
		c.oneOf(join(p, "SeqTp"), t.PmtTpInf.SeqTp, models.SequenceTypes)
	}

	c.amountChoice(join(path, "Amt"), t.Amt)

	if x := t.XchgRateInf; x != nil {
		p := join(path, "XchgRateInf")
		if x.UnitCcy != "" {
			c.currency(join(p, "UnitCcy"), x.UnitCcy)
		}
		if x.XchgRate != nil && !x.XchgRate.IsPositive() {
			c.fieldf(join(p, "XchgRate"), x.XchgRate.String(), "must be positive")
		}
		c.oneOf(join(p, "RateTp"), x.RateTp, models.ExchangeRateTypes)
		c.optional(join(p, "CtrctId"), x.CtrctID, models.MaxText35)
	}

	if t.ChrgBr != models.ChargeBearerNone && !t.ChrgBr.IsValid() {
		c.fieldf(join(path, "ChrgBr"), string(t.ChrgBr), "must be one of DEBT, CRED, SHAR, SLEV")
	}
	if t.UltmtDbtr != nil {
		c.party(join(path, "UltmtDbtr"), *t.UltmtDbtr)
	}

	for n, ia := range intermediaries(t) {
		name := fmt.Sprintf("IntrmyAgt%d", n+1)
		if ia.agent != nil {
			c.agent(join(path, name), *ia.agent)
		}
		if ia.account != nil {
			c.account(join(path, name+"Acct"), *ia.account)
		}
	}

	if t.CdtrAgt == nil {
		c.fieldf(join(path, "CdtrAgt"), "", "is required")
	} else {
		c.agent(join(path, "CdtrAgt"), *t.CdtrAgt)
	}
	if t.CdtrAgtAcct != nil {
		c.account(join(path, "CdtrAgtAcct"), *t.CdtrAgtAcct)
	}
	if t.Cdtr != nil {
		c.party(join(path, "Cdtr"), *t.Cdtr)
	}
	if t.CdtrAcct != nil {
		c.account(join(path, "CdtrAcct"), *t.CdtrAcct)
	}
	if t.UltmtCdtr != nil {
		c.party(join(path, "UltmtCdtr"), *t.UltmtCdtr)
	}

	for i, in := range t.InstrForCdtrAgt {
		p := index(join(path, "InstrForCdtrAgt"), i)
		c.oneOf(join(p, "Cd"), in.Cd, models.CreditorAgentInstrCodes)
		c.optional(join(p, "InstrInf"), in.InstrInf, models.MaxText140)
	}
	c.optional(join(path, "InstrForDbtrAgt"), t.InstrForDbtrAgt, models.MaxText140)

	if t.Purp != nil {
		c.codeOrProprietary(join(path, "Purp"), *t.Purp, models.MaxText4, models.MaxText35)
	}
	if t.RmtInf != nil {
		for i, line := range t.RmtInf.Ustrd {
			c.required(index(join(path, "RmtInf.Ustrd"), i), line, models.MaxText140)
		}
	}
}

func (c *collector) transactionRules(path string, t models.CreditTransferTransaction) {
	ias := intermediaries(t)
	for n, ia := range ias {
		name := fmt.Sprintf("IntrmyAgt%d", n+1)
		if ia.agent == nil {
			continue
		}
		if ia.account == nil {
			c.rule(painerror.RuleIntermediaryAccount,
				fmt.Sprintf("%sAcct must be present if %s is present", name, name),
				join(path, name+"Acct"), join(path, name))
		}
		if n > 0 && ias[n-1].agent == nil {
			prev := fmt.Sprintf("IntrmyAgt%d", n)
			c.rule(painerror.RuleIntermediaryChain,
				fmt.Sprintf("%s must be present if %s is present", prev, name),
				join(path, prev), join(path, name))
		}
	}
}

type intermediary struct {
	agent   *models.Agent
	account *models.CashAccount
}

func intermediaries(t models.CreditTransferTransaction) [3]intermediary {
	return [3]intermediary{
		{t.IntrmyAgt1, t.IntrmyAgt1Acct},
		{t.IntrmyAgt2, t.IntrmyAgt2Acct},
		{t.IntrmyAgt3, t.IntrmyAgt3Acct},
	}
}

func totals(txs []models.CreditTransferTransaction) (int64, decimal.Decimal) {
	sum := decimal.Zero
	for _, t := range txs {
		sum = sum.Add(models.ControlValue(t.Amt))
	}
	return int64(len(txs)), sum
}
