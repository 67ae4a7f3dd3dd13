// Package models provides the pain.001.001.09 document model.
//
// Field names follow the ISO 20022 XML tags (GrpHdr, PmtInf, CdtTrfTxInf, ...)
// so the mapping to the wire format stays obvious. Optional aggregates are
// pointers, optional text fields are empty strings.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Namespace and schema location carried by every Document.
const (
	Namespace      = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.09"
	XSINamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.09 pain.001.001.09.xsd"
)

// Document is the root of a pain.001.001.09 message.
type Document struct {
	CstmrCdtTrfInitn CustomerCreditTransferInitiation
}

// CustomerCreditTransferInitiation wraps the group header and the payment instructions.
type CustomerCreditTransferInitiation struct {
	GrpHdr GroupHeader
	PmtInf []PaymentInstruction
}

// GroupHeader is GroupHeader85.
type GroupHeader struct {
	MsgID    string
	CreDtTm  string
	NbOfTxs  int64
	CtrlSum  decimal.Decimal
	InitgPty PartyIdentification
	FwdgAgt  *Agent
}

// PaymentInstruction is PaymentInstruction30: one debtor-side batch.
type PaymentInstruction struct {
	PmtInfID        string
	PmtMtd          PaymentMethod
	BtchBookg       *bool
	NbOfTxs         *int64
	CtrlSum         *decimal.Decimal
	ReqdExctnDt     DateChoice
	PoolgAdjstmntDt string
	Dbtr            PartyIdentification
	DbtrAcct        CashAccount
	DbtrAgt         Agent
	DbtrAgtAcct     *CashAccount
	InstrForDbtrAgt string
	UltmtDbtr       *PartyIdentification
	ChrgBr          ChargeBearer
	ChrgsAcct       *CashAccount
	ChrgsAcctAgt    *Agent
	CdtTrfTxInf     []CreditTransferTransaction
}

// CreditTransferTransaction is CreditTransferTransaction34: one payee-side leg.
type CreditTransferTransaction struct {
	PmtID           PaymentIdentification
	PmtTpInf        *PaymentTypeInformation
	Amt             AmountChoice
	XchgRateInf     *ExchangeRateInformation
	ChrgBr          ChargeBearer
	UltmtDbtr       *PartyIdentification
	IntrmyAgt1      *Agent
	IntrmyAgt1Acct  *CashAccount
	IntrmyAgt2      *Agent
	IntrmyAgt2Acct  *CashAccount
	IntrmyAgt3      *Agent
	IntrmyAgt3Acct  *CashAccount
	CdtrAgt         *Agent
	CdtrAgtAcct     *CashAccount
	Cdtr            *PartyIdentification
	CdtrAcct        *CashAccount
	UltmtCdtr       *PartyIdentification
	InstrForCdtrAgt []InstructionForCreditorAgent
	InstrForDbtrAgt string
	Purp            *CodeOrProprietary
	RmtInf          *RemittanceInformation
}

// PaymentIdentification is PaymentIdentification6.
type PaymentIdentification struct {
	InstrID    string
	EndToEndID string
	UETR       string
}

// PaymentTypeInformation carries the transaction-level priority and sequence type.
type PaymentTypeInformation struct {
	InstrPrty string
	SeqTp     string
}

// ExchangeRateInformation is ExchangeRate1.
type ExchangeRateInformation struct {
	UnitCcy  string
	XchgRate *decimal.Decimal
	RateTp   string
	CtrctID  string
}

// InstructionForCreditorAgent is InstructionForCreditorAgent1.
type InstructionForCreditorAgent struct {
	Cd       string
	InstrInf string
}

// RemittanceInformation holds unstructured remittance lines.
type RemittanceInformation struct {
	Ustrd []string
}

// PartyIdentification is PartyIdentification135.
type PartyIdentification struct {
	Nm        string
	PstlAdr   *PostalAddress
	CtryOfRes string
	CtctDtls  *Contact
}

// PostalAddress is PostalAddress24.
type PostalAddress struct {
	AdrTp       *CodeOrProprietary
	Dept        string
	SubDept     string
	StrtNm      string
	BldgNb      string
	BldgNm      string
	Flr         string
	PstBx       string
	Room        string
	PstCd       string
	TwnNm       string
	TwnLctnNm   string
	DstrctNm    string
	CtrySubDvsn string
	Ctry        string
	AdrLine     []string
}

// Contact is Contact4.
type Contact struct {
	NmPrfx    string
	Nm        string
	PhneNb    string
	MobNb     string
	FaxNb     string
	EmailAdr  string
	EmailPurp string
	JobTitl   string
	Rspnsblty string
	Dept      string
	Othr      []OtherContact
	PrefrdMtd string
}

// OtherContact is OtherContact1.
type OtherContact struct {
	ChanlTp string
	ID      string
}

// CashAccount is CashAccount38, identified by IBAN.
type CashAccount struct {
	ID  AccountIdentification
	Ccy string
	Nm  string
}

// AccountIdentification holds the IBAN of an account.
type AccountIdentification struct {
	IBAN string
}

// Agent is BranchAndFinancialInstitutionIdentification6.
type Agent struct {
	FinInstnID FinancialInstitutionIdentification
}

// FinancialInstitutionIdentification is FinancialInstitutionIdentification18.
type FinancialInstitutionIdentification struct {
	BICFI       string
	ClrSysMmbID *ClearingSystemMemberIdentification
	LEI         string
	Nm          string
	PstlAdr     *PostalAddress
}

// ClearingSystemMemberIdentification is ClearingSystemMemberIdentification2.
type ClearingSystemMemberIdentification struct {
	ClrSysID *CodeOrProprietary
	MmbID    string
}

// NewAgentWithBIC returns an agent identified by its BIC only.
func NewAgentWithBIC(bic string) *Agent {
	return &Agent{FinInstnID: FinancialInstitutionIdentification{BICFI: bic}}
}

// NewIBANAccount returns an account identified by its IBAN only. The IBAN is
// stored in electronic format, without the spaces of the print format.
func NewIBANAccount(iban string) *CashAccount {
	return &CashAccount{ID: AccountIdentification{IBAN: strings.ReplaceAll(strings.TrimSpace(iban), " ", "")}}
}

// Transactions returns every transaction of every payment instruction, in order.
func (d Document) Transactions() []CreditTransferTransaction {
	var txs []CreditTransferTransaction
	for _, pmtInf := range d.CstmrCdtTrfInitn.PmtInf {
		txs = append(txs, pmtInf.CdtTrfTxInf...)
	}
	return txs
}
