// Package xmlutils reads pain.001 messages back with XPath expressions, to
// inspect generated files and to check their control totals.
package xmlutils

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"

	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/painerror"
)

var log logging.Logger = logging.NewNopLogger()

// SetLogger sets a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// LoadXMLFile loads an XML file and returns the XML root node
func LoadXMLFile(xmlFilePath string) (*xmlpath.Node, error) {
	file, err := os.Open(xmlFilePath) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file",
				logging.Field{Key: logging.FieldInputFile, Value: xmlFilePath})
		}
	}()

	return ParseXML(file)
}

// ParseXML parses an XML document from r.
func ParseXML(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// ParseXMLString parses an in-memory document.
func ParseXMLString(doc string) (*xmlpath.Node, error) {
	return ParseXML(bytes.NewBufferString(doc))
}

// ExtractFromXML extracts values from an XML node using an XPath expression
func ExtractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath %q: %w", xpath, err)
	}

	var values []string
	iter := path.Iter(root)
	for iter.Next() {
		values = append(values, strings.TrimSpace(iter.Node().String()))
	}

	return values, nil
}

// ExtractWithXPath extracts values from an XML file using an XPath expression
func ExtractWithXPath(xmlFilePath, xpath string) ([]string, error) {
	root, err := LoadXMLFile(xmlFilePath)
	if err != nil {
		return nil, err
	}

	return ExtractFromXML(root, xpath)
}

// GetOrEmpty returns the value at the specified index in a slice, or an empty string if the index is out of bounds
func GetOrEmpty(slice []string, index int) string {
	if index >= 0 && index < len(slice) {
		return slice[index]
	}
	return ""
}

// Summary is what a pain.001 message declares next to what it contains.
type Summary struct {
	MessageID        string
	CreationDateTime string
	DeclaredCount    int64
	DeclaredSum      decimal.Decimal
	Instructions     int
	Transactions     int
	AmountSum        decimal.Decimal
	Currencies       []string
	DebtorIBAN       string
	EndToEndIDs      []string
}

// Summarize reads the group header and the transaction amounts of a message.
func Summarize(root *xmlpath.Node) (Summary, error) {
	p := DefaultPain001XPaths()
	values := map[string][]string{}
	for _, xp := range []string{
		p.Header.MessageID, p.Header.CreationTime, p.Header.NumberOfTxs, p.Header.ControlSum,
		p.Instruction.ID, p.Instruction.DebtorIBAN,
		p.Transaction.Node, p.Transaction.EndToEndID,
		p.Transaction.InstructedAmount, p.Transaction.EquivalentAmount,
		p.Transaction.InstructedCcy, p.Transaction.EquivalentCcy,
	} {
		v, err := ExtractFromXML(root, xp)
		if err != nil {
			return Summary{}, err
		}
		values[xp] = v
	}

	s := Summary{
		MessageID:        GetOrEmpty(values[p.Header.MessageID], 0),
		CreationDateTime: GetOrEmpty(values[p.Header.CreationTime], 0),
		Instructions:     len(values[p.Instruction.ID]),
		Transactions:     len(values[p.Transaction.Node]),
		AmountSum:        decimal.Zero,
		DebtorIBAN:       GetOrEmpty(values[p.Instruction.DebtorIBAN], 0),
		EndToEndIDs:      values[p.Transaction.EndToEndID],
	}
	if s.MessageID == "" {
		return Summary{}, fmt.Errorf("not a pain.001 message: GrpHdr/MsgId not found")
	}

	count, err := strconv.ParseInt(GetOrEmpty(values[p.Header.NumberOfTxs], 0), 10, 64)
	if err != nil {
		return Summary{}, fmt.Errorf("invalid GrpHdr/NbOfTxs: %w", err)
	}
	s.DeclaredCount = count

	if raw := GetOrEmpty(values[p.Header.ControlSum], 0); raw != "" {
		if s.DeclaredSum, err = decimal.NewFromString(raw); err != nil {
			return Summary{}, fmt.Errorf("invalid GrpHdr/CtrlSum %q: %w", raw, err)
		}
	}

	amounts := slices.Concat(values[p.Transaction.InstructedAmount], values[p.Transaction.EquivalentAmount])
	for _, raw := range amounts {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return Summary{}, fmt.Errorf("invalid transaction amount %q: %w", raw, err)
		}
		s.AmountSum = s.AmountSum.Add(d)
	}

	seen := map[string]bool{}
	for _, ccy := range slices.Concat(values[p.Transaction.InstructedCcy], values[p.Transaction.EquivalentCcy]) {
		if !seen[ccy] {
			seen[ccy] = true
			s.Currencies = append(s.Currencies, ccy)
		}
	}
	slices.Sort(s.Currencies)

	return s, nil
}

// Verify checks the declared totals against the transactions.
func (s Summary) Verify() error {
	var violations []error
	if s.DeclaredCount != int64(s.Transactions) {
		violations = append(violations, &painerror.RuleError{
			Rule:   painerror.RuleControlTotals,
			Paths:  []string{"GrpHdr/NbOfTxs"},
			Reason: fmt.Sprintf("declares %d transactions, found %d", s.DeclaredCount, s.Transactions),
		})
	}
	if !s.DeclaredSum.Equal(s.AmountSum) {
		violations = append(violations, &painerror.RuleError{
			Rule:   painerror.RuleControlTotals,
			Paths:  []string{"GrpHdr/CtrlSum"},
			Reason: fmt.Sprintf("declares %s, transactions sum to %s", s.DeclaredSum, s.AmountSum),
		})
	}
	if len(violations) > 0 {
		return &painerror.ValidationError{Subject: s.MessageID, Violations: violations}
	}
	return nil
}

// VerifyFile summarizes and verifies the message stored at path.
func VerifyFile(path string) (Summary, error) {
	root, err := LoadXMLFile(path)
	if err != nil {
		return Summary{}, err
	}
	s, err := Summarize(root)
	if err != nil {
		return Summary{}, err
	}
	log.Debug("Verifying message",
		logging.Field{Key: logging.FieldInputFile, Value: path},
		logging.Field{Key: logging.FieldMessageID, Value: s.MessageID},
		logging.Field{Key: logging.FieldCount, Value: s.Transactions})
	return s, s.Verify()
}
