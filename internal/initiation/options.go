package initiation

import (
	"time"

	"fjacquet/pain001/internal/dateutils"
	"fjacquet/pain001/internal/idgen"
	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/models"
	"fjacquet/pain001/internal/schema"
	"fjacquet/pain001/internal/xmlenc"
)

type options struct {
	batchBooking      bool
	paymentMethod     models.PaymentMethod
	executionDate     models.DateChoice
	initiatingParty   string
	chargeBearer      models.ChargeBearer
	instructionTotals bool
	forwardingAgent   *models.Agent
	ids               idgen.Generator
	clock             func() time.Time
	validator         *schema.Validator
	logger            logging.Logger
	xmlOptions        []xmlenc.Option
}

func defaultOptions() options {
	return options{
		batchBooking:  false,
		paymentMethod: models.PaymentMethodCreditTransfer,
		ids:           idgen.Default(),
		clock:         time.Now,
		validator:     schema.New(),
		logger:        logging.NewNopLogger(),
	}
}

// Option configures a PaymentInstruction.
type Option func(*options)

// WithBatchBooking sets BtchBookg.
func WithBatchBooking(batch bool) Option {
	return func(o *options) { o.batchBooking = batch }
}

// WithPaymentMethod sets PmtMtd. The default is TRF.
func WithPaymentMethod(method models.PaymentMethod) Option {
	return func(o *options) { o.paymentMethod = method }
}

// WithExecutionDate requests execution on the calendar date of t.
func WithExecutionDate(t time.Time) Option {
	return func(o *options) {
		o.executionDate = models.ExecutionDate{Dt: dateutils.ToISODate(t)}
	}
}

// WithExecutionDateTime requests execution at t.
func WithExecutionDateTime(t time.Time) Option {
	return func(o *options) {
		o.executionDate = models.ExecutionDateTime{DtTm: dateutils.ToISODateTime(t)}
	}
}

// WithInitiatingParty overrides the initiating party name, which defaults to
// the debtor name.
func WithInitiatingParty(name string) Option {
	return func(o *options) { o.initiatingParty = name }
}

// WithChargeBearer sets the ChrgBr of every transaction that does not carry
// its own. The payment instruction itself never carries ChrgBr.
func WithChargeBearer(bearer models.ChargeBearer) Option {
	return func(o *options) { o.chargeBearer = bearer }
}

// WithInstructionTotals also emits NbOfTxs and CtrlSum on the payment instruction.
func WithInstructionTotals() Option {
	return func(o *options) { o.instructionTotals = true }
}

// WithForwardingAgent sets the FwdgAgt of the group header.
func WithForwardingAgent(bic string) Option {
	return func(o *options) {
		if bic != "" {
			o.forwardingAgent = models.NewAgentWithBIC(bic)
		}
	}
}

// WithIDGenerator replaces the random ID source.
func WithIDGenerator(ids idgen.Generator) Option {
	return func(o *options) {
		if ids != nil {
			o.ids = ids
		}
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithValidator replaces the default schema validator.
func WithValidator(v *schema.Validator) Option {
	return func(o *options) {
		if v != nil {
			o.validator = v
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithXMLOptions passes encoder options (indentation) to ToXML.
func WithXMLOptions(opts ...xmlenc.Option) Option {
	return func(o *options) { o.xmlOptions = append(o.xmlOptions, opts...) }
}
