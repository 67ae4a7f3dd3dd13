package xmlutils

// Pain001 holds the XPath expressions used to read back a pain.001.001.09
// message. xmlpath matches local names, so the default namespace of the
// document does not need a prefix.
type Pain001 struct {
	Header struct {
		MessageID       string
		CreationTime    string
		NumberOfTxs     string
		ControlSum      string
		InitiatingParty string
	}

	Instruction struct {
		ID            string
		PaymentMethod string
		ExecutionDate string
		DebtorName    string
		DebtorIBAN    string
		DebtorBIC     string
	}

	Transaction struct {
		Node             string
		EndToEndID       string
		InstructedAmount string
		EquivalentAmount string
		InstructedCcy    string
		EquivalentCcy    string
		CreditorName     string
		CreditorIBAN     string
		CreditorBIC      string
		Remittance       string
	}
}

// DefaultPain001XPaths returns the expressions for the elements the encoder emits.
func DefaultPain001XPaths() Pain001 {
	p := Pain001{}

	p.Header.MessageID = "/Document/CstmrCdtTrfInitn/GrpHdr/MsgId"
	p.Header.CreationTime = "/Document/CstmrCdtTrfInitn/GrpHdr/CreDtTm"
	p.Header.NumberOfTxs = "/Document/CstmrCdtTrfInitn/GrpHdr/NbOfTxs"
	p.Header.ControlSum = "/Document/CstmrCdtTrfInitn/GrpHdr/CtrlSum"
	p.Header.InitiatingParty = "/Document/CstmrCdtTrfInitn/GrpHdr/InitgPty/Nm"

	p.Instruction.ID = "//PmtInf/PmtInfId"
	p.Instruction.PaymentMethod = "//PmtInf/PmtMtd"
	p.Instruction.ExecutionDate = "//PmtInf/ReqdExctnDt/*"
	p.Instruction.DebtorName = "//PmtInf/Dbtr/Nm"
	p.Instruction.DebtorIBAN = "//PmtInf/DbtrAcct/Id/IBAN"
	p.Instruction.DebtorBIC = "//PmtInf/DbtrAgt/FinInstnId/BICFI"

	p.Transaction.Node = "//PmtInf/CdtTrfTxInf"
	p.Transaction.EndToEndID = "//CdtTrfTxInf/PmtId/EndToEndId"
	p.Transaction.InstructedAmount = "//CdtTrfTxInf/Amt/InstdAmt"
	p.Transaction.EquivalentAmount = "//CdtTrfTxInf/Amt/EqvtAmt/Amt"
	p.Transaction.InstructedCcy = "//CdtTrfTxInf/Amt/InstdAmt/@Ccy"
	p.Transaction.EquivalentCcy = "//CdtTrfTxInf/Amt/EqvtAmt/Amt/@Ccy"
	p.Transaction.CreditorName = "//CdtTrfTxInf/Cdtr/Nm"
	p.Transaction.CreditorIBAN = "//CdtTrfTxInf/CdtrAcct/Id/IBAN"
	p.Transaction.CreditorBIC = "//CdtTrfTxInf/CdtrAgt/FinInstnId/BICFI"
	p.Transaction.Remittance = "//CdtTrfTxInf/RmtInf/Ustrd"

	return p
}
