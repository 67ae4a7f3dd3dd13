package initiation

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"fjacquet/pain001/internal/bic"
	"fjacquet/pain001/internal/dateutils"
	"fjacquet/pain001/internal/idgen"
	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/models"
	"fjacquet/pain001/internal/painerror"
	"fjacquet/pain001/internal/validation"
	"fjacquet/pain001/internal/xmlenc"
)

// pendingID stands in for the transaction ID while the request is checked. It
// is as long as the longest ID a generator may return.
var pendingID = strings.Repeat("0", models.MaxText35)

// PaymentInstruction accumulates the credit transfers of one debtor and owns
// the group header of the message. It is not safe for concurrent use: callers
// serialize AddTransaction and RemoveTransaction on one instruction.
type PaymentInstruction struct {
	opts     options
	resolver bic.Resolver
	header   *GroupHeader
	debtor   models.Party

	id  string
	txs []models.CreditTransferTransaction
}

// NewPaymentInstruction validates debtor and opens an instruction for it.
// resolver may be nil, in which case every creditor must carry its BIC.
func NewPaymentInstruction(debtor models.Party, resolver bic.Resolver, opts ...Option) (*PaymentInstruction, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	debtor = models.NewParty(debtor.Name, debtor.IBAN, debtor.BIC)
	if err := o.validator.Counterparty("debtor", debtor, true); err != nil {
		return nil, err
	}
	if resolver == nil {
		resolver = bic.Unavailable
	}

	now := o.clock()
	if o.executionDate == nil {
		o.executionDate = models.ExecutionDate{Dt: dateutils.ToISODate(now)}
	}
	initiatingParty := o.initiatingParty
	if initiatingParty == "" {
		initiatingParty = debtor.Name
	}

	header := NewGroupHeader(initiatingParty, o.ids, now)
	header.SetForwardingAgent(o.forwardingAgent)

	p := &PaymentInstruction{
		opts:     o,
		resolver: resolver,
		header:   header,
		debtor:   debtor,
		id:       o.ids.NewID(),
	}

	o.logger.Debug("Payment instruction created",
		logging.Field{Key: logging.FieldMessageID, Value: header.MessageID()},
		logging.Field{Key: logging.FieldInstructionID, Value: p.id},
		logging.Field{Key: logging.FieldIBAN, Value: debtor.IBAN})

	return p, nil
}

// ID returns PmtInfId.
func (p *PaymentInstruction) ID() string {
	return p.id
}

// MessageID returns the MsgId of the owned group header.
func (p *PaymentInstruction) MessageID() string {
	return p.header.MessageID()
}

// Debtor returns the debtor the instruction was opened for.
func (p *PaymentInstruction) Debtor() models.Party {
	return p.debtor
}

// Len returns the number of transactions.
func (p *PaymentInstruction) Len() int {
	return len(p.txs)
}

// Transactions returns a copy of the transactions in append order.
func (p *PaymentInstruction) Transactions() []models.CreditTransferTransaction {
	return slices.Clone(p.txs)
}

// AddTransaction validates tx, resolves the creditor BIC when it is missing
// and appends the transaction. It returns the generated transaction ID, used
// as both InstrId and EndToEndId. On any error nothing is appended.
func (p *PaymentInstruction) AddTransaction(ctx context.Context, tx Transaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if tx.ChargeBearer == models.ChargeBearerNone {
		tx.ChargeBearer = p.opts.chargeBearer
	}
	uetr := ""
	if tx.GenerateUETR {
		uetr = idgen.NewUETR()
	}
	bicfi := tx.Creditor.BIC
	// The ID is drawn only once the transaction is accepted, so rejected
	// requests leave no gaps in the sequence.
	built := tx.build(pendingID, uetr, bicfi)

	path := fmt.Sprintf("CdtTrfTxInf[%d]", len(p.txs))
	if err := p.opts.validator.TransactionFields(path, built); err != nil {
		return "", err
	}

	if bicfi == "" {
		resolved, err := p.resolveBIC(ctx, built.CdtrAcct.ID.IBAN)
		if err != nil {
			return "", err
		}
		built.CdtrAgt = models.NewAgentWithBIC(resolved)
		bicfi = resolved
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := p.opts.ids.NewID()
	built.PmtID.InstrID = id
	built.PmtID.EndToEndID = id
	p.txs = append(p.txs, built)

	p.opts.logger.Debug("Transaction added",
		logging.Field{Key: logging.FieldInstructionID, Value: p.id},
		logging.Field{Key: logging.FieldTransactionID, Value: id},
		logging.Field{Key: logging.FieldBIC, Value: bicfi},
		logging.Field{Key: logging.FieldCount, Value: len(p.txs)})

	return id, nil
}

func (p *PaymentInstruction) resolveBIC(ctx context.Context, iban string) (string, error) {
	resolved, err := p.resolver.ResolveBIC(ctx, iban)
	if err == nil && !validation.IsBIC(resolved) {
		err = fmt.Errorf("%w: resolver returned malformed BIC %q", bic.ErrBICNotFound, resolved)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		p.opts.logger.WithError(err).Warn("Cannot resolve creditor BIC",
			logging.Field{Key: logging.FieldInstructionID, Value: p.id},
			logging.Field{Key: logging.FieldIBAN, Value: iban})
		return "", &painerror.ResolutionError{IBAN: iban, Err: err}
	}
	return resolved, nil
}

// RemoveTransaction removes the transaction whose InstrId is id. An unknown
// id is a no-op. It reports whether a transaction was removed.
func (p *PaymentInstruction) RemoveTransaction(id string) bool {
	before := len(p.txs)
	p.txs = slices.DeleteFunc(p.txs, func(tx models.CreditTransferTransaction) bool {
		return tx.PmtID.InstrID == id
	})
	removed := len(p.txs) != before

	p.opts.logger.Debug("Transaction removal",
		logging.Field{Key: logging.FieldInstructionID, Value: p.id},
		logging.Field{Key: logging.FieldTransactionID, Value: id},
		logging.Field{Key: logging.FieldStatus, Value: removed})

	return removed
}

// Document recomputes the group header totals, assembles the message and
// validates it as a whole. Every violation is reported in one
// *painerror.ValidationError.
func (p *PaymentInstruction) Document() (models.Document, error) {
	controls := ComputeControls(p.txs)
	p.header.UpdateControls(controls)

	doc := models.Document{CstmrCdtTrfInitn: models.CustomerCreditTransferInitiation{
		GrpHdr: p.header.Header(),
		PmtInf: []models.PaymentInstruction{p.instruction(controls)},
	}}

	if err := p.opts.validator.Document(doc); err != nil {
		p.opts.logger.Debug("Document validation failed",
			logging.Field{Key: logging.FieldMessageID, Value: p.header.MessageID()},
			logging.Field{Key: logging.FieldError, Value: err.Error()})
		return models.Document{}, err
	}
	return doc, nil
}

// ToXML serializes the validated document, XML declaration included.
func (p *PaymentInstruction) ToXML() (string, error) {
	doc, err := p.Document()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := xmlenc.NewEncoder(&buf, p.opts.xmlOptions...).Encode(doc.Tree()); err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	p.opts.logger.Debug("Document serialized",
		logging.Field{Key: logging.FieldMessageID, Value: p.header.MessageID()},
		logging.Field{Key: logging.FieldCount, Value: doc.CstmrCdtTrfInitn.GrpHdr.NbOfTxs},
		logging.Field{Key: logging.FieldControlSum, Value: models.FormatDecimal(doc.CstmrCdtTrfInitn.GrpHdr.CtrlSum)})

	return buf.String(), nil
}

func (p *PaymentInstruction) instruction(controls Controls) models.PaymentInstruction {
	batch := p.opts.batchBooking
	pmtInf := models.PaymentInstruction{
		PmtInfID:    p.id,
		PmtMtd:      p.opts.paymentMethod,
		BtchBookg:   &batch,
		ReqdExctnDt: p.opts.executionDate,
		Dbtr:        p.debtor.Identification(),
		DbtrAcct:    *p.debtor.Account(),
		DbtrAgt:     *p.debtor.Agent(),
		CdtTrfTxInf: slices.Clone(p.txs),
	}
	if p.opts.instructionTotals {
		count := controls.TotalTransactions
		sum := controls.TotalSum
		pmtInf.NbOfTxs = &count
		pmtInf.CtrlSum = &sum
	}
	return pmtInf
}
