package initiation

import (
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/pain001/internal/models"
)

// Creditor is the payee of a transaction. Name takes precedence over
// FirstName/LastName. An empty BIC is resolved from the IBAN.
type Creditor struct {
	FirstName string `yaml:"first_name" csv:"creditor_first_name"`
	LastName  string `yaml:"last_name" csv:"creditor_last_name"`
	Name      string `yaml:"name" csv:"creditor_name"`
	IBAN      string `yaml:"iban" csv:"creditor_iban"`
	BIC       string `yaml:"bic" csv:"creditor_bic"`
}

// FullName returns Name, or "FirstName LastName".
func (c Creditor) FullName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Party returns the creditor as a flat name/IBAN/BIC party.
func (c Creditor) Party() models.Party {
	return models.NewParty(c.FullName(), c.IBAN, c.BIC)
}

// Transaction is the request accepted by AddTransaction.
type Transaction struct {
	Amount   decimal.Decimal
	Currency string
	// TransferCurrency, when set, turns the amount into an EqvtAmt converted
	// to this currency.
	TransferCurrency string
	Creditor         Creditor
	// Purpose is free remittance text, sent as RmtInf/Ustrd.
	Purpose string
	// PurposeCode is an ISO external purpose code, sent as Purp/Cd.
	PurposeCode  string
	Priority     string
	ChargeBearer models.ChargeBearer
	GenerateUETR bool
}

func (t Transaction) amountChoice() models.AmountChoice {
	amount := models.NewAmount(t.Amount, t.Currency)
	if t.TransferCurrency != "" {
		return models.EquivalentAmount{
			Amt:      amount,
			CcyOfTrf: strings.ToUpper(strings.TrimSpace(t.TransferCurrency)),
		}
	}
	return models.InstructedAmount{InstdAmt: amount}
}

// build expands the request into a CdtTrfTxInf identified by id. The creditor
// agent carries bic, which may still be empty.
func (t Transaction) build(id, uetr, bic string) models.CreditTransferTransaction {
	creditor := t.Creditor.Party()

	tx := models.CreditTransferTransaction{
		PmtID: models.PaymentIdentification{
			InstrID:    id,
			EndToEndID: id,
			UETR:       uetr,
		},
		Amt:      t.amountChoice(),
		ChrgBr:   t.ChargeBearer,
		CdtrAgt:  models.NewAgentWithBIC(bic),
		Cdtr:     &models.PartyIdentification{Nm: creditor.Name},
		CdtrAcct: models.NewIBANAccount(creditor.IBAN),
	}
	if t.Priority != "" {
		tx.PmtTpInf = &models.PaymentTypeInformation{InstrPrty: strings.ToUpper(t.Priority)}
	}
	if t.PurposeCode != "" {
		tx.Purp = &models.CodeOrProprietary{Cd: strings.ToUpper(strings.TrimSpace(t.PurposeCode))}
	}
	if t.Purpose != "" {
		tx.RmtInf = &models.RemittanceInformation{Ustrd: []string{t.Purpose}}
	}
	return tx
}
