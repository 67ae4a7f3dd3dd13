package batch

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/pain001/internal/initiation"
	"fjacquet/pain001/internal/logging"
)

// Builder is the part of *initiation.PaymentInstruction the processor needs.
type Builder interface {
	AddTransaction(ctx context.Context, tx initiation.Transaction) (string, error)
}

// RowError reports a batch row that could not be added. Row is 1-based.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Report summarizes one run of the processor.
type Report struct {
	Added  []string
	Failed []*RowError
}

// Err joins the row failures, nil when every row was added.
func (r Report) Err() error {
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Processor adds batch rows to a payment instruction.
type Processor struct {
	logger      logging.Logger
	stopOnError bool
}

// NewProcessor creates a processor that keeps going after a failing row so
// that every problem of the batch is reported at once.
func NewProcessor(logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Processor{logger: logger}
}

// StopOnError makes Process return at the first failing row.
func (p *Processor) StopOnError(stop bool) *Processor {
	p.stopOnError = stop
	return p
}

// Process converts and adds rows in order. A cancelled ctx aborts the run and
// is returned as is; row failures are collected in the report and joined into
// the returned error.
func (p *Processor) Process(ctx context.Context, b Builder, rows []Row) (Report, error) {
	var report Report

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		id, err := p.add(ctx, b, row)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			rowErr := &RowError{Row: i + 1, Err: err}
			report.Failed = append(report.Failed, rowErr)
			p.logger.WithError(err).Warn("Skipping batch row",
				logging.Field{Key: logging.FieldRow, Value: i + 1})
			if p.stopOnError {
				return report, rowErr
			}
			continue
		}
		report.Added = append(report.Added, id)
	}

	p.logger.Info("Batch processed",
		logging.Field{Key: logging.FieldCount, Value: len(report.Added)},
		logging.Field{Key: logging.FieldFailed, Value: len(report.Failed)})

	return report, report.Err()
}

func (p *Processor) add(ctx context.Context, b Builder, row Row) (string, error) {
	tx, err := row.Transaction()
	if err != nil {
		return "", err
	}
	return b.AddTransaction(ctx, tx)
}
