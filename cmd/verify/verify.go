// Package verify implements the command that checks the control totals of
// existing pain.001 files.
package verify

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/pain001/cmd/root"
	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/models"
	"fjacquet/pain001/internal/xmlutils"
)

// Cmd represents the verify command
var Cmd = &cobra.Command{
	Use:   "verify <file.xml> [file.xml...]",
	Short: "Check the group header totals of pain.001 files",
	Long: `Read one or more pain.001 files and check that GrpHdr/NbOfTxs and GrpHdr/CtrlSum
match the transactions they contain.

Example:
  pain001 verify payments.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.OutOrStdout(), root.GetLogger(), args)
	},
}

// Run verifies every file and prints one summary per file. It returns an
// error when any file cannot be read or fails verification.
func Run(w io.Writer, logger logging.Logger, paths []string) error {
	var errs []error
	for _, path := range paths {
		summary, err := xmlutils.VerifyFile(path)
		if err != nil && summary.MessageID == "" {
			logger.WithError(err).Error("Cannot read message",
				logging.Field{Key: logging.FieldInputFile, Value: path})
			_, _ = fmt.Fprintf(w, "%s: ERROR %v\n", path, err)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}

		status := "OK"
		if err != nil {
			status = "FAIL"
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
		logger.Info("Message verified",
			logging.Field{Key: logging.FieldInputFile, Value: path},
			logging.Field{Key: logging.FieldMessageID, Value: summary.MessageID},
			logging.Field{Key: logging.FieldStatus, Value: status})

		printSummary(w, path, status, summary)
		if err != nil {
			_, _ = fmt.Fprintf(w, "  %v\n", err)
		}
	}
	return errors.Join(errs...)
}

func printSummary(w io.Writer, path, status string, s xmlutils.Summary) {
	_, _ = fmt.Fprintf(w, "%s: %s\n", path, status)
	_, _ = fmt.Fprintf(w, "  message id:   %s\n", s.MessageID)
	_, _ = fmt.Fprintf(w, "  created:      %s\n", s.CreationDateTime)
	_, _ = fmt.Fprintf(w, "  instructions: %d\n", s.Instructions)
	_, _ = fmt.Fprintf(w, "  transactions: %d (declared %d)\n", s.Transactions, s.DeclaredCount)
	_, _ = fmt.Fprintf(w, "  control sum:  %s (declared %s)\n",
		models.FormatDecimal(s.AmountSum), models.FormatDecimal(s.DeclaredSum))
	if len(s.Currencies) > 0 {
		_, _ = fmt.Fprintf(w, "  currencies:   %s\n", strings.Join(s.Currencies, ", "))
	}
}
