// Package generate implements the command that turns a payment batch into a
// pain.001.001.09 file.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"fjacquet/pain001/cmd/root"
	"fjacquet/pain001/internal/batch"
	"fjacquet/pain001/internal/container"
	"fjacquet/pain001/internal/fileutils"
	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/models"
	"fjacquet/pain001/internal/xmlutils"
)

// Options are the generate command flags.
type Options struct {
	Input       string
	Output      string
	Debtor      batch.Debtor
	Delimiter   string
	Verify      bool
	StopOnError bool
}

// Result describes the generated message.
type Result struct {
	MessageID    string
	Transactions int
	ControlSum   string
	Output       string
}

var flags = Options{}

// Cmd represents the generate command
var Cmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a pain.001.001.09 file from a YAML or CSV payment batch",
	Long: `Generate a pain.001.001.09 Customer Credit Transfer Initiation from a payment batch.

A YAML batch carries the debtor, the payment options and the transactions. A CSV batch
only carries transactions; the debtor is then given with the --debtor-* flags, which
also override the debtor of a YAML batch.

Creditor BICs left empty are resolved from the IBAN through the configured BIC
directory and openiban.com.

Example:
  pain001 generate -i payments.yaml -o payments.xml --verify
  pain001 generate -i payments.csv --debtor-name "John Doe" \
    --debtor-iban CH0209000000100013997 --debtor-bic POFICHBE -o -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return errors.New("container not initialized")
		}
		_, err := Run(cmd.Context(), c, flags, cmd.OutOrStdout())
		return err
	},
}

func init() {
	Cmd.Flags().StringVarP(&flags.Input, "input", "i", "", "Payment batch (.yaml, .yml or .csv)")
	Cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file, - for stdout (default: input with .xml extension)")
	Cmd.Flags().StringVar(&flags.Debtor.Name, "debtor-name", "", "Debtor name")
	Cmd.Flags().StringVar(&flags.Debtor.IBAN, "debtor-iban", "", "Debtor IBAN")
	Cmd.Flags().StringVar(&flags.Debtor.BIC, "debtor-bic", "", "Debtor agent BIC")
	Cmd.Flags().StringVar(&flags.Delimiter, "delimiter", ",", "CSV delimiter")
	Cmd.Flags().BoolVar(&flags.Verify, "verify", false, "Re-read the generated XML and check its control totals")
	Cmd.Flags().BoolVar(&flags.StopOnError, "stop-on-error", false, "Stop at the first invalid transaction")
	_ = Cmd.MarkFlagRequired("input")
}

// Run loads the batch, builds and validates the message, writes it and
// optionally verifies it. Nothing is written when any transaction fails.
func Run(ctx context.Context, c *container.Container, opts Options, stdout io.Writer) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	delimiter, err := parseDelimiter(opts.Delimiter)
	if err != nil {
		return Result{}, err
	}

	format, err := batch.DetectFormat(opts.Input)
	if err != nil {
		return Result{}, err
	}
	f, err := batch.Load(opts.Input, delimiter)
	if err != nil {
		return Result{}, err
	}
	if len(f.Transactions) == 0 {
		return Result{}, fmt.Errorf("no transactions in %s", opts.Input)
	}

	debtor := mergeDebtor(f.Debtor, opts.Debtor)
	if debtor.IsEmpty() {
		return Result{}, errors.New("no debtor: set it in the batch file or with --debtor-name, --debtor-iban and --debtor-bic")
	}

	batchOpts, err := f.Options.InitiationOptions(c.Now())
	if err != nil {
		return Result{}, err
	}

	pi, err := c.NewPaymentInstruction(debtor.Party(), batchOpts...)
	if err != nil {
		return Result{}, err
	}

	report, err := batch.NewProcessor(logger).StopOnError(opts.StopOnError).Process(ctx, pi, f.Transactions)
	if err != nil {
		if len(report.Failed) == 0 {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%d of %d transactions rejected:\n%w",
			len(report.Failed), len(f.Transactions), err)
	}

	doc, err := pi.ToXML()
	if err != nil {
		return Result{}, err
	}

	if opts.Verify || c.GetConfig().Output.Verify {
		if err := verify(doc); err != nil {
			return Result{}, err
		}
	}

	output := opts.Output
	if output == "" {
		output = fileutils.ReplaceExtension(opts.Input, ".xml")
	}
	if err := fileutils.WriteOutput(output, []byte(doc), stdout); err != nil {
		return Result{}, err
	}

	document, err := pi.Document()
	if err != nil {
		return Result{}, err
	}
	hdr := document.CstmrCdtTrfInitn.GrpHdr
	result := Result{
		MessageID:    hdr.MsgID,
		Transactions: int(hdr.NbOfTxs),
		ControlSum:   models.FormatDecimal(hdr.CtrlSum),
		Output:       output,
	}

	logger.Info("Payment file generated",
		logging.Field{Key: logging.FieldMessageID, Value: result.MessageID},
		logging.Field{Key: logging.FieldCount, Value: result.Transactions},
		logging.Field{Key: logging.FieldControlSum, Value: result.ControlSum},
		logging.Field{Key: logging.FieldInputFile, Value: opts.Input},
		logging.Field{Key: logging.FieldFormat, Value: format},
		logging.Field{Key: logging.FieldOutputFile, Value: output})

	return result, nil
}

func parseDelimiter(value string) (rune, error) {
	if value == "" {
		return ',', nil
	}
	r, size := utf8.DecodeRuneInString(value)
	if size != len(value) {
		return 0, fmt.Errorf("delimiter must be a single character, got: %s", value)
	}
	return r, nil
}

// mergeDebtor overlays the non-empty flag values on the batch debtor.
func mergeDebtor(fromFile, fromFlags batch.Debtor) batch.Debtor {
	d := fromFile
	if fromFlags.Name != "" {
		d.Name = fromFlags.Name
	}
	if fromFlags.IBAN != "" {
		d.IBAN = fromFlags.IBAN
	}
	if fromFlags.BIC != "" {
		d.BIC = fromFlags.BIC
	}
	return d
}

func verify(doc string) error {
	node, err := xmlutils.ParseXMLString(doc)
	if err != nil {
		return err
	}
	summary, err := xmlutils.Summarize(node)
	if err != nil {
		return err
	}
	if err := summary.Verify(); err != nil {
		return fmt.Errorf("generated message failed verification: %w", err)
	}
	return nil
}
