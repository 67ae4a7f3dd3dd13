// Package pain001 is the public entry point for building ISO 20022
// pain.001.001.09 Customer Credit Transfer Initiation messages.
//
// A message holds one payment instruction for one debtor. Transactions are
// validated as they are added; the group header totals and the cross-field
// rules are checked when the document is produced:
//
//	pi, err := pain001.New(pain001.NewParty("John Doe", "CH0209000000100013997", "POFICHBE"), resolver)
//	_, err = pi.AddTransaction(ctx, pain001.Transaction{...})
//	doc, err := pi.ToXML()
package pain001

import (
	"context"
	"time"

	"fjacquet/pain001/internal/bic"
	"fjacquet/pain001/internal/idgen"
	"fjacquet/pain001/internal/initiation"
	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/models"
	"fjacquet/pain001/internal/painerror"
	"fjacquet/pain001/internal/schema"
	"fjacquet/pain001/internal/xmlenc"
)

type (
	// PaymentInstruction builds one pain.001 message.
	PaymentInstruction = initiation.PaymentInstruction
	// Transaction is a credit transfer request.
	Transaction = initiation.Transaction
	// Creditor is the payee of a Transaction.
	Creditor = initiation.Creditor
	// Option configures a PaymentInstruction.
	Option = initiation.Option
	// Party is a name/IBAN/BIC triple.
	Party = models.Party
	// Document is the validated message model.
	Document = models.Document
	// PaymentMethod is PaymentMethod3Code.
	PaymentMethod = models.PaymentMethod
	// ChargeBearer is ChargeBearerType1Code.
	ChargeBearer = models.ChargeBearer
	// Resolver looks up the BIC servicing an IBAN.
	Resolver = bic.Resolver
	// ResolverFunc adapts a function to Resolver.
	ResolverFunc = bic.ResolverFunc
	// IDGenerator produces message, instruction and transaction identifiers.
	IDGenerator = idgen.Generator
	// Logger is the structured logger used by the builder.
	Logger = logging.Logger

	// ValidationError aggregates every field and rule violation of one check.
	ValidationError = painerror.ValidationError
	// FieldError is a single field violation.
	FieldError = painerror.FieldError
	// RuleError is a cross-field rule violation.
	RuleError = painerror.RuleError
	// ResolutionError reports a failed BIC lookup.
	ResolutionError = painerror.ResolutionError
)

// Payment methods and charge bearers.
const (
	PaymentMethodCheque         = models.PaymentMethodCheque
	PaymentMethodCreditTransfer = models.PaymentMethodCreditTransfer
	PaymentMethodTransferAdvice = models.PaymentMethodTransferAdvice

	ChargeBearerDebtor       = models.ChargeBearerDebtor
	ChargeBearerCreditor     = models.ChargeBearerCreditor
	ChargeBearerShared       = models.ChargeBearerShared
	ChargeBearerServiceLevel = models.ChargeBearerServiceLevel
)

// Resolution failures, matched with errors.Is.
var (
	ErrInvalidIBAN           = bic.ErrInvalidIBAN
	ErrBICNotFound           = bic.ErrBICNotFound
	ErrResolutionUnavailable = bic.ErrResolutionUnavailable
)

// New creates a payment instruction for debtor. resolver may be nil when
// every creditor BIC is supplied.
func New(debtor Party, resolver Resolver, opts ...Option) (*PaymentInstruction, error) {
	return initiation.NewPaymentInstruction(debtor, resolver, opts...)
}

// NewParty creates a Party with trimmed values.
func NewParty(name, iban, bic string) Party {
	return models.NewParty(name, iban, bic)
}

// Build adds every transaction to a new instruction and returns the XML.
// It stops at the first failing transaction.
func Build(ctx context.Context, debtor Party, resolver Resolver, txs []Transaction, opts ...Option) (string, error) {
	pi, err := New(debtor, resolver, opts...)
	if err != nil {
		return "", err
	}
	for _, tx := range txs {
		if _, err := pi.AddTransaction(ctx, tx); err != nil {
			return "", err
		}
	}
	return pi.ToXML()
}

// NewDirectoryResolver loads a YAML BIC directory file.
func NewDirectoryResolver(path string) (Resolver, error) {
	dir, err := bic.LoadDirectory(path)
	if err != nil {
		return nil, err
	}
	return dir, nil
}

// NewOpenIBANResolver returns a cached openiban.com client. An empty baseURL
// uses the public service.
func NewOpenIBANResolver(baseURL string, timeout time.Duration, requestsPerMinute int) Resolver {
	return bic.NewCache(bic.NewOpenIBAN(baseURL,
		bic.WithTimeout(timeout),
		bic.WithRequestsPerMinute(requestsPerMinute)))
}

// ChainResolvers tries each resolver in turn.
func ChainResolvers(resolvers ...Resolver) Resolver {
	return bic.Chain(resolvers)
}

// Builder options.
var (
	WithBatchBooking      = initiation.WithBatchBooking
	WithPaymentMethod     = initiation.WithPaymentMethod
	WithExecutionDate     = initiation.WithExecutionDate
	WithExecutionDateTime = initiation.WithExecutionDateTime
	WithInitiatingParty   = initiation.WithInitiatingParty
	WithChargeBearer      = initiation.WithChargeBearer
	WithInstructionTotals = initiation.WithInstructionTotals
	WithForwardingAgent   = initiation.WithForwardingAgent
	WithIDGenerator       = initiation.WithIDGenerator
	WithClock             = initiation.WithClock
	WithLogger            = initiation.WithLogger
)

// WithIBANChecksum also requires valid mod-97 check digits on every IBAN.
func WithIBANChecksum() Option {
	return initiation.WithValidator(schema.New(schema.WithIBANChecksum()))
}

// WithIndent sets the XML indentation; an empty string gives compact output.
func WithIndent(indent string) Option {
	return initiation.WithXMLOptions(xmlenc.WithIndent(indent))
}

// NewSequence returns an IDGenerator yielding prefix0001, prefix0002, ...
func NewSequence(prefix string) IDGenerator {
	return idgen.NewSequence(prefix)
}
