package models

import (
	"strconv"

	"fjacquet/pain001/internal/xmlenc"
)

const (
	attrCcy = xmlenc.AttrPrefix + "Ccy"
)

// Tree returns the document as an ordered tree in XSD element order, ready
// for xmlenc. Optional fields that are unset produce no element.
func (d Document) Tree() xmlenc.Map {
	initn := d.CstmrCdtTrfInitn

	pmtInfs := make([]xmlenc.Map, 0, len(initn.PmtInf))
	for _, p := range initn.PmtInf {
		pmtInfs = append(pmtInfs, p.tree())
	}

	body := xmlenc.Map{}.
		Add("GrpHdr", initn.GrpHdr.tree()).
		Add("PmtInf", pmtInfs)

	doc := xmlenc.Map{}.
		Add(xmlenc.AttrPrefix+"xmlns", Namespace).
		Add(xmlenc.AttrPrefix+"xmlns:xsi", XSINamespace).
		Add(xmlenc.AttrPrefix+"xsi:schemaLocation", SchemaLocation).
		Add("CstmrCdtTrfInitn", body)

	return xmlenc.Map{}.Add("Document", doc)
}

func (h GroupHeader) tree() xmlenc.Map {
	m := xmlenc.Map{}.
		Add("MsgId", h.MsgID).
		Add("CreDtTm", h.CreDtTm).
		Add("NbOfTxs", strconv.FormatInt(h.NbOfTxs, 10)).
		Add("CtrlSum", FormatDecimal(h.CtrlSum)).
		Add("InitgPty", h.InitgPty.tree())
	if h.FwdgAgt != nil {
		m = m.Add("FwdgAgt", h.FwdgAgt.tree())
	}
	return m
}

func (p PaymentInstruction) tree() xmlenc.Map {
	m := xmlenc.Map{}.
		Add("PmtInfId", p.PmtInfID).
		Add("PmtMtd", string(p.PmtMtd))
	if p.BtchBookg != nil {
		m = m.Add("BtchBookg", *p.BtchBookg)
	}
	if p.NbOfTxs != nil {
		m = m.Add("NbOfTxs", strconv.FormatInt(*p.NbOfTxs, 10))
	}
	if p.CtrlSum != nil {
		m = m.Add("CtrlSum", FormatDecimal(*p.CtrlSum))
	}
	m = m.AddMap("ReqdExctnDt", dateTree(p.ReqdExctnDt)).
		AddString("PoolgAdjstmntDt", p.PoolgAdjstmntDt).
		Add("Dbtr", p.Dbtr.tree()).
		Add("DbtrAcct", p.DbtrAcct.tree()).
		Add("DbtrAgt", p.DbtrAgt.tree())
	if p.DbtrAgtAcct != nil {
		m = m.Add("DbtrAgtAcct", p.DbtrAgtAcct.tree())
	}
	m = m.AddString("InstrForDbtrAgt", p.InstrForDbtrAgt)
	if p.UltmtDbtr != nil {
		m = m.Add("UltmtDbtr", p.UltmtDbtr.tree())
	}
	m = m.AddString("ChrgBr", string(p.ChrgBr))
	if p.ChrgsAcct != nil {
		m = m.Add("ChrgsAcct", p.ChrgsAcct.tree())
	}
	if p.ChrgsAcctAgt != nil {
		m = m.Add("ChrgsAcctAgt", p.ChrgsAcctAgt.tree())
	}

	txs := make([]xmlenc.Map, 0, len(p.CdtTrfTxInf))
	for _, tx := range p.CdtTrfTxInf {
		txs = append(txs, tx.tree())
	}
	return m.Add("CdtTrfTxInf", txs)
}

func (t CreditTransferTransaction) tree() xmlenc.Map {
	pmtID := xmlenc.Map{}.
		AddString("InstrId", t.PmtID.InstrID).
		Add("EndToEndId", t.PmtID.EndToEndID).
		AddString("UETR", t.PmtID.UETR)

	m := xmlenc.Map{}.Add("PmtId", pmtID)
	if t.PmtTpInf != nil {
		m = m.AddMap("PmtTpInf", xmlenc.Map{}.
			AddString("InstrPrty", t.PmtTpInf.InstrPrty).
			AddString("SeqTp", t.PmtTpInf.SeqTp))
	}
	m = m.AddMap("Amt", amountTree(t.Amt))
	if t.XchgRateInf != nil {
		x := xmlenc.Map{}.AddString("UnitCcy", t.XchgRateInf.UnitCcy)
		if t.XchgRateInf.XchgRate != nil {
			x = x.Add("XchgRate", t.XchgRateInf.XchgRate.String())
		}
		m = m.AddMap("XchgRateInf", x.
			AddString("RateTp", t.XchgRateInf.RateTp).
			AddString("CtrctId", t.XchgRateInf.CtrctID))
	}
	m = m.AddString("ChrgBr", string(t.ChrgBr))
	m = addParty(m, "UltmtDbtr", t.UltmtDbtr)
	m = addAgent(m, "IntrmyAgt1", t.IntrmyAgt1)
	m = addAccount(m, "IntrmyAgt1Acct", t.IntrmyAgt1Acct)
	m = addAgent(m, "IntrmyAgt2", t.IntrmyAgt2)
	m = addAccount(m, "IntrmyAgt2Acct", t.IntrmyAgt2Acct)
	m = addAgent(m, "IntrmyAgt3", t.IntrmyAgt3)
	m = addAccount(m, "IntrmyAgt3Acct", t.IntrmyAgt3Acct)
	m = addAgent(m, "CdtrAgt", t.CdtrAgt)
	m = addAccount(m, "CdtrAgtAcct", t.CdtrAgtAcct)
	m = addParty(m, "Cdtr", t.Cdtr)
	m = addAccount(m, "CdtrAcct", t.CdtrAcct)
	m = addParty(m, "UltmtCdtr", t.UltmtCdtr)

	if len(t.InstrForCdtrAgt) > 0 {
		instrs := make([]xmlenc.Map, 0, len(t.InstrForCdtrAgt))
		for _, in := range t.InstrForCdtrAgt {
			instrs = append(instrs, xmlenc.Map{}.
				AddString("Cd", in.Cd).
				AddString("InstrInf", in.InstrInf))
		}
		m = m.Add("InstrForCdtrAgt", instrs)
	}
	m = m.AddString("InstrForDbtrAgt", t.InstrForDbtrAgt)
	if t.Purp != nil {
		m = m.AddMap("Purp", t.Purp.tree())
	}
	if t.RmtInf != nil && len(t.RmtInf.Ustrd) > 0 {
		m = m.Add("RmtInf", xmlenc.Map{}.Add("Ustrd", t.RmtInf.Ustrd))
	}
	return m
}

func (p PartyIdentification) tree() xmlenc.Map {
	m := xmlenc.Map{}.AddString("Nm", p.Nm)
	if p.PstlAdr != nil {
		m = m.AddMap("PstlAdr", p.PstlAdr.tree())
	}
	m = m.AddString("CtryOfRes", p.CtryOfRes)
	if p.CtctDtls != nil {
		m = m.AddMap("CtctDtls", p.CtctDtls.tree())
	}
	return m
}

func (a PostalAddress) tree() xmlenc.Map {
	m := xmlenc.Map{}
	if a.AdrTp != nil {
		m = m.AddMap("AdrTp", a.AdrTp.tree())
	}
	m = m.AddString("Dept", a.Dept).
		AddString("SubDept", a.SubDept).
		AddString("StrtNm", a.StrtNm).
		AddString("BldgNb", a.BldgNb).
		AddString("BldgNm", a.BldgNm).
		AddString("Flr", a.Flr).
		AddString("PstBx", a.PstBx).
		AddString("Room", a.Room).
		AddString("PstCd", a.PstCd).
		AddString("TwnNm", a.TwnNm).
		AddString("TwnLctnNm", a.TwnLctnNm).
		AddString("DstrctNm", a.DstrctNm).
		AddString("CtrySubDvsn", a.CtrySubDvsn).
		AddString("Ctry", a.Ctry)
	if len(a.AdrLine) > 0 {
		m = m.Add("AdrLine", a.AdrLine)
	}
	return m
}

func (c Contact) tree() xmlenc.Map {
	m := xmlenc.Map{}.
		AddString("NmPrfx", c.NmPrfx).
		AddString("Nm", c.Nm).
		AddString("PhneNb", c.PhneNb).
		AddString("MobNb", c.MobNb).
		AddString("FaxNb", c.FaxNb).
		AddString("EmailAdr", c.EmailAdr).
		AddString("EmailPurp", c.EmailPurp).
		AddString("JobTitl", c.JobTitl).
		AddString("Rspnsblty", c.Rspnsblty).
		AddString("Dept", c.Dept)
	if len(c.Othr) > 0 {
		others := make([]xmlenc.Map, 0, len(c.Othr))
		for _, o := range c.Othr {
			others = append(others, xmlenc.Map{}.
				AddString("ChanlTp", o.ChanlTp).
				AddString("Id", o.ID))
		}
		m = m.Add("Othr", others)
	}
	return m.AddString("PrefrdMtd", c.PrefrdMtd)
}

func (a CashAccount) tree() xmlenc.Map {
	return xmlenc.Map{}.
		Add("Id", xmlenc.Map{}.Add("IBAN", a.ID.IBAN)).
		AddString("Ccy", a.Ccy).
		AddString("Nm", a.Nm)
}

func (a Agent) tree() xmlenc.Map {
	f := a.FinInstnID
	fin := xmlenc.Map{}.AddString("BICFI", f.BICFI)
	if f.ClrSysMmbID != nil {
		mmb := xmlenc.Map{}
		if f.ClrSysMmbID.ClrSysID != nil {
			mmb = mmb.AddMap("ClrSysId", f.ClrSysMmbID.ClrSysID.tree())
		}
		fin = fin.Add("ClrSysMmbId", mmb.Add("MmbId", f.ClrSysMmbID.MmbID))
	}
	fin = fin.AddString("LEI", f.LEI).AddString("Nm", f.Nm)
	if f.PstlAdr != nil {
		fin = fin.AddMap("PstlAdr", f.PstlAdr.tree())
	}
	return xmlenc.Map{}.Add("FinInstnId", fin)
}

func (c CodeOrProprietary) tree() xmlenc.Map {
	key, value := c.Chosen()
	if key == "" {
		return nil
	}
	return xmlenc.Map{}.Add(key, value)
}

func amountTree(choice AmountChoice) xmlenc.Map {
	switch a := choice.(type) {
	case InstructedAmount:
		return xmlenc.Map{}.Add("InstdAmt", amountValueTree(a.InstdAmt))
	case *InstructedAmount:
		if a != nil {
			return amountTree(*a)
		}
	case EquivalentAmount:
		return xmlenc.Map{}.Add("EqvtAmt", xmlenc.Map{}.
			Add("Amt", amountValueTree(a.Amt)).
			Add("CcyOfTrf", a.CcyOfTrf))
	case *EquivalentAmount:
		if a != nil {
			return amountTree(*a)
		}
	}
	return nil
}

func amountValueTree(a Amount) xmlenc.Map {
	return xmlenc.Map{}.
		Add(attrCcy, a.Ccy).
		Add(xmlenc.TextKey, a.Text())
}

func dateTree(choice DateChoice) xmlenc.Map {
	switch d := choice.(type) {
	case ExecutionDate:
		return xmlenc.Map{}.Add("Dt", d.Dt)
	case *ExecutionDate:
		if d != nil {
			return dateTree(*d)
		}
	case ExecutionDateTime:
		return xmlenc.Map{}.Add("DtTm", d.DtTm)
	case *ExecutionDateTime:
		if d != nil {
			return dateTree(*d)
		}
	}
	return nil
}

func addParty(m xmlenc.Map, key string, p *PartyIdentification) xmlenc.Map {
	if p == nil {
		return m
	}
	return m.Add(key, p.tree())
}

func addAgent(m xmlenc.Map, key string, a *Agent) xmlenc.Map {
	if a == nil {
		return m
	}
	return m.Add(key, a.tree())
}

func addAccount(m xmlenc.Map, key string, a *CashAccount) xmlenc.Map {
	if a == nil {
		return m
	}
	return m.Add(key, a.tree())
}
