// Package initiation builds pain.001.001.09 credit transfer initiations: a
// group header owned by a payment instruction that accumulates transactions
// and serializes to validated XML.
package initiation

import (
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/pain001/internal/dateutils"
	"fjacquet/pain001/internal/idgen"
	"fjacquet/pain001/internal/models"
)

// Controls are the derived totals of a message.
type Controls struct {
	TotalSum          decimal.Decimal
	TotalTransactions int64
}

// ComputeControls folds txs into their count and currency-agnostic sum. The
// instructed amount counts when present, the equivalent amount otherwise.
func ComputeControls(txs []models.CreditTransferTransaction) Controls {
	c := Controls{TotalSum: decimal.Zero}
	for _, tx := range txs {
		c.TotalSum = c.TotalSum.Add(models.ControlValue(tx.Amt))
		c.TotalTransactions++
	}
	return c
}

// GroupHeader owns the GrpHdr of one message.
type GroupHeader struct {
	header models.GroupHeader
}

// NewGroupHeader creates a header with a fresh message ID, the creation time
// set to now and zero totals.
func NewGroupHeader(initiatingPartyName string, ids idgen.Generator, now time.Time) *GroupHeader {
	if ids == nil {
		ids = idgen.Default()
	}
	return &GroupHeader{header: models.GroupHeader{
		MsgID:    ids.NewID(),
		CreDtTm:  dateutils.ToISODateTime(now),
		NbOfTxs:  0,
		CtrlSum:  decimal.Zero,
		InitgPty: models.PartyIdentification{Nm: initiatingPartyName},
	}}
}

// UpdateControls overwrites the derived totals. Nothing is validated here.
func (h *GroupHeader) UpdateControls(c Controls) {
	h.header.NbOfTxs = c.TotalTransactions
	h.header.CtrlSum = c.TotalSum
}

// SetForwardingAgent sets the optional FwdgAgt.
func (h *GroupHeader) SetForwardingAgent(agent *models.Agent) {
	h.header.FwdgAgt = agent
}

// Header returns a copy of the current header.
func (h *GroupHeader) Header() models.GroupHeader {
	return h.header
}

// MessageID returns MsgId.
func (h *GroupHeader) MessageID() string {
	return h.header.MsgID
}
