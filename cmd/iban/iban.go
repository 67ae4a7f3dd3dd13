// Package iban implements the command that checks IBANs and looks up the BIC
// of their servicing institution.
package iban

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fjacquet/pain001/cmd/root"
	"fjacquet/pain001/internal/bic"
	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/validation"
)

// Options are the iban command flags.
type Options struct {
	Checksum  bool
	NoResolve bool
}

var flags = Options{}

// ErrInvalid is returned when at least one IBAN fails the checks.
var ErrInvalid = errors.New("invalid IBAN")

// Cmd represents the iban command
var Cmd = &cobra.Command{
	Use:   "iban <IBAN> [IBAN...]",
	Short: "Check IBANs and resolve their BIC",
	Long: `Check the format (and optionally the mod-97 check digits) of IBANs and resolve
the BIC of the servicing institution through the configured BIC directory and
openiban.com.

Example:
  pain001 iban CH0204835000626882001
  pain001 iban --checksum --no-resolve "DE89 3704 0044 0532 0130 00"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return errors.New("container not initialized")
		}
		opts := flags
		if c.GetValidator().IBANChecksum() {
			opts.Checksum = true
		}
		return Run(cmd.Context(), cmd.OutOrStdout(), c.GetResolver(), c.GetLogger(), args, opts)
	},
}

func init() {
	Cmd.Flags().BoolVar(&flags.Checksum, "checksum", false, "Also verify the mod-97 check digits")
	Cmd.Flags().BoolVar(&flags.NoResolve, "no-resolve", false, "Do not look up the BIC")
}

// Run checks every IBAN and prints one line per IBAN. A failed BIC lookup is
// reported but does not make the IBAN invalid.
func Run(ctx context.Context, w io.Writer, resolver bic.Resolver, logger logging.Logger, ibans []string, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if resolver == nil {
		resolver = bic.Unavailable
	}

	invalid := 0
	for _, raw := range ibans {
		normalized := validation.NormalizeIBAN(raw)

		switch {
		case !validation.IsIBAN(normalized):
			invalid++
			_, _ = fmt.Fprintf(w, "%s\tINVALID\tmalformed IBAN\n", raw)
			continue
		case opts.Checksum && !validation.IBANChecksumValid(normalized):
			invalid++
			_, _ = fmt.Fprintf(w, "%s\tINVALID\tbad check digits\n", normalized)
			continue
		case opts.NoResolve:
			_, _ = fmt.Fprintf(w, "%s\tVALID\n", normalized)
			continue
		}

		code, err := resolver.ResolveBIC(ctx, normalized)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			logger.WithError(err).Warn("Cannot resolve BIC",
				logging.Field{Key: logging.FieldIBAN, Value: normalized})
			_, _ = fmt.Fprintf(w, "%s\tVALID\tBIC unknown (%v)\n", normalized, err)
			continue
		}
		logger.Debug("BIC resolved",
			logging.Field{Key: logging.FieldIBAN, Value: normalized},
			logging.Field{Key: logging.FieldBIC, Value: code})
		_, _ = fmt.Fprintf(w, "%s\tVALID\t%s\n", normalized, code)
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalid, invalid, len(ibans))
	}
	return nil
}
