// Package container provides dependency injection for the pain001 application.
// It centralizes the creation and wiring of the logger, the schema validator,
// the BIC resolver chain and the ID source, and opens payment instructions
// preconfigured from the loaded configuration.
package container

import (
	"fmt"
	"net/http"
	"time"

	"fjacquet/pain001/internal/bic"
	"fjacquet/pain001/internal/config"
	"fjacquet/pain001/internal/idgen"
	"fjacquet/pain001/internal/initiation"
	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/models"
	"fjacquet/pain001/internal/schema"
	"fjacquet/pain001/internal/xmlenc"
)

// Resolver names reported by ResolverNames.
const (
	ResolverDirectory = "directory"
	ResolverOpenIBAN  = "openiban"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: fields are private and only
// reachable through getters.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	validator *schema.Validator
	directory *bic.Directory
	resolver  bic.Resolver
	resolvers []string
	ids       idgen.Generator
	clock     func() time.Time
}

type overrides struct {
	logger     logging.Logger
	ids        idgen.Generator
	clock      func() time.Time
	httpClient *http.Client
}

// Option overrides a dependency the container would otherwise build itself.
type Option func(*overrides)

// WithLogger replaces the logger built from the log configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *overrides) { o.logger = logger }
}

// WithIDGenerator replaces the random UUID source.
func WithIDGenerator(ids idgen.Generator) Option {
	return func(o *overrides) { o.ids = ids }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *overrides) { o.clock = clock }
}

// WithHTTPClient sets the client used by the openiban.com resolver.
func WithHTTPClient(client *http.Client) Option {
	return func(o *overrides) { o.httpClient = client }
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	o := overrides{}
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	var validatorOpts []schema.Option
	if cfg.Validation.IBANChecksum {
		validatorOpts = append(validatorOpts, schema.WithIBANChecksum())
	}

	c := &Container{
		logger:    logger,
		config:    cfg,
		validator: schema.New(validatorOpts...),
		ids:       o.ids,
		clock:     o.clock,
	}
	if c.ids == nil {
		c.ids = idgen.Default()
	}
	if c.clock == nil {
		c.clock = time.Now
	}

	if err := c.wireResolvers(o.httpClient); err != nil {
		return nil, err
	}

	logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldResolver, Value: c.resolvers},
		logging.Field{Key: "iban_checksum", Value: cfg.Validation.IBANChecksum})

	return c, nil
}

// wireResolvers builds the chain: local directory, then openiban.com, behind
// an optional cache.
func (c *Container) wireResolvers(client *http.Client) error {
	var chain bic.Chain

	if path := c.config.BIC.DirectoryFile; path != "" {
		dir, err := bic.LoadDirectory(path)
		if err != nil {
			return fmt.Errorf("failed to load BIC directory: %w", err)
		}
		c.directory = dir
		chain = append(chain, dir)
		c.resolvers = append(c.resolvers, ResolverDirectory)
		c.logger.Debug("BIC directory loaded",
			logging.Field{Key: logging.FieldInputFile, Value: path},
			logging.Field{Key: logging.FieldCount, Value: dir.Len()})
	}

	if oc := c.config.BIC.OpenIBAN; oc.Enabled {
		openOpts := []bic.OpenIBANOption{
			bic.WithTimeout(time.Duration(oc.TimeoutSeconds) * time.Second),
			bic.WithRequestsPerMinute(oc.RequestsPerMinute),
			bic.WithOpenIBANLogger(c.logger),
		}
		if client != nil {
			openOpts = append(openOpts, bic.WithHTTPClient(client))
		}
		chain = append(chain, bic.NewOpenIBAN(oc.BaseURL, openOpts...))
		c.resolvers = append(c.resolvers, ResolverOpenIBAN)
	}

	switch {
	case len(chain) == 0:
		c.resolver = bic.Unavailable
	case c.config.BIC.CacheEnabled:
		c.resolver = bic.NewCache(chain)
	default:
		c.resolver = chain
	}
	return nil
}

// PaymentInstructionOptions returns the builder options derived from the
// configuration and the container dependencies.
func (c *Container) PaymentInstructionOptions() []initiation.Option {
	p := c.config.Payment
	opts := []initiation.Option{
		initiation.WithPaymentMethod(models.PaymentMethod(p.Method)),
		initiation.WithBatchBooking(p.BatchBooking),
		initiation.WithChargeBearer(models.ChargeBearer(p.ChargeBearer)),
		initiation.WithValidator(c.validator),
		initiation.WithLogger(c.logger),
		initiation.WithIDGenerator(c.ids),
		initiation.WithClock(c.clock),
		initiation.WithXMLOptions(xmlenc.WithIndent(c.config.Output.Indent)),
	}
	if p.InitiatingParty != "" {
		opts = append(opts, initiation.WithInitiatingParty(p.InitiatingParty))
	}
	if p.InstructionTotals {
		opts = append(opts, initiation.WithInstructionTotals())
	}
	return opts
}

// NewPaymentInstruction opens a payment instruction for debtor wired to the
// container resolver. extra options are applied after the configured ones.
func (c *Container) NewPaymentInstruction(debtor models.Party, extra ...initiation.Option) (*initiation.PaymentInstruction, error) {
	opts := append(c.PaymentInstructionOptions(), extra...)
	return initiation.NewPaymentInstruction(debtor, c.resolver, opts...)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetValidator returns the schema validator.
func (c *Container) GetValidator() *schema.Validator {
	return c.validator
}

// GetResolver returns the BIC resolver chain. It is never nil.
func (c *Container) GetResolver() bic.Resolver {
	return c.resolver
}

// GetDirectory returns the local BIC directory, nil when none is configured.
func (c *Container) GetDirectory() *bic.Directory {
	return c.directory
}

// Now returns the current time of the container clock.
func (c *Container) Now() time.Time {
	return c.clock()
}

// ResolverNames lists the configured resolvers in lookup order.
func (c *Container) ResolverNames() []string {
	return append([]string(nil), c.resolvers...)
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
