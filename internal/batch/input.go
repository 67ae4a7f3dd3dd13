// Package batch reads payment batches (a YAML document with debtor, options
// and transactions, or a CSV of transactions) and feeds them into a payment
// instruction.
package batch

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"fjacquet/pain001/internal/currencyutils"
	"fjacquet/pain001/internal/dateutils"
	"fjacquet/pain001/internal/fileutils"
	"fjacquet/pain001/internal/initiation"
	"fjacquet/pain001/internal/models"
)

// Supported input formats.
const (
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// File is a complete batch. CSV input only fills Transactions.
type File struct {
	Debtor       Debtor  `yaml:"debtor"`
	Options      Options `yaml:"options"`
	Transactions []Row   `yaml:"transactions"`
}

// Debtor identifies the ordering party of the batch.
type Debtor struct {
	Name string `yaml:"name"`
	IBAN string `yaml:"iban"`
	BIC  string `yaml:"bic"`
}

// Party returns the debtor as a flat party.
func (d Debtor) Party() models.Party {
	return models.NewParty(d.Name, d.IBAN, d.BIC)
}

// IsEmpty reports whether no debtor field is set.
func (d Debtor) IsEmpty() bool {
	return d.Name == "" && d.IBAN == "" && d.BIC == ""
}

// Options override the configured payment instruction defaults. Unset
// fields leave the default alone.
type Options struct {
	PaymentMethod     string `yaml:"payment_method"`
	BatchBooking      *bool  `yaml:"batch_booking"`
	ExecutionDate     string `yaml:"execution_date"`
	ExecutionDateTime string `yaml:"execution_date_time"`
	RollToBusinessDay bool   `yaml:"roll_to_business_day"`
	InitiatingParty   string `yaml:"initiating_party"`
	ChargeBearer      string `yaml:"charge_bearer"`
	InstructionTotals bool   `yaml:"instruction_totals"`
	ForwardingAgent   string `yaml:"forwarding_agent"`
}

// InitiationOptions converts the options into builder options. now is the
// execution date rolled forward when RollToBusinessDay is set without an
// explicit date.
func (o Options) InitiationOptions(now time.Time) ([]initiation.Option, error) {
	var opts []initiation.Option

	if o.PaymentMethod != "" {
		method := models.PaymentMethod(strings.ToUpper(o.PaymentMethod))
		if !method.IsValid() {
			return nil, fmt.Errorf("invalid payment_method: %s", o.PaymentMethod)
		}
		opts = append(opts, initiation.WithPaymentMethod(method))
	}
	if o.BatchBooking != nil {
		opts = append(opts, initiation.WithBatchBooking(*o.BatchBooking))
	}
	if o.ChargeBearer != "" {
		bearer := models.ChargeBearer(strings.ToUpper(o.ChargeBearer))
		if !bearer.IsValid() {
			return nil, fmt.Errorf("invalid charge_bearer: %s", o.ChargeBearer)
		}
		opts = append(opts, initiation.WithChargeBearer(bearer))
	}
	if o.InitiatingParty != "" {
		opts = append(opts, initiation.WithInitiatingParty(o.InitiatingParty))
	}
	if o.InstructionTotals {
		opts = append(opts, initiation.WithInstructionTotals())
	}
	if o.ForwardingAgent != "" {
		opts = append(opts, initiation.WithForwardingAgent(strings.ToUpper(o.ForwardingAgent)))
	}

	switch {
	case o.ExecutionDate != "" && o.ExecutionDateTime != "":
		return nil, errors.New("execution_date and execution_date_time are mutually exclusive")
	case o.ExecutionDate != "":
		d, err := dateutils.ParseDate(o.ExecutionDate)
		if err != nil {
			return nil, fmt.Errorf("invalid execution_date: %w", err)
		}
		if o.RollToBusinessDay {
			d = dateutils.RollToBusinessDay(d)
		}
		opts = append(opts, initiation.WithExecutionDate(d))
	case o.ExecutionDateTime != "":
		t, err := dateutils.ParseDateTime(o.ExecutionDateTime)
		if err != nil {
			return nil, fmt.Errorf("invalid execution_date_time: %w", err)
		}
		if o.RollToBusinessDay {
			t = dateutils.RollToBusinessDay(t)
		}
		opts = append(opts, initiation.WithExecutionDateTime(t))
	case o.RollToBusinessDay:
		opts = append(opts, initiation.WithExecutionDate(dateutils.RollToBusinessDay(now)))
	}

	return opts, nil
}

// Row is one transaction of a batch. Amounts are decimal strings so that no
// precision is lost on the way in.
type Row struct {
	Amount            string `yaml:"amount" csv:"amount"`
	Currency          string `yaml:"currency" csv:"currency"`
	TransferCurrency  string `yaml:"transfer_currency" csv:"transfer_currency"`
	CreditorName      string `yaml:"creditor_name" csv:"creditor_name"`
	CreditorFirstName string `yaml:"creditor_first_name" csv:"creditor_first_name"`
	CreditorLastName  string `yaml:"creditor_last_name" csv:"creditor_last_name"`
	CreditorIBAN      string `yaml:"creditor_iban" csv:"creditor_iban"`
	CreditorBIC       string `yaml:"creditor_bic" csv:"creditor_bic"`
	Purpose           string `yaml:"purpose" csv:"purpose"`
	PurposeCode       string `yaml:"purpose_code" csv:"purpose_code"`
	Priority          string `yaml:"priority" csv:"priority"`
	ChargeBearer      string `yaml:"charge_bearer" csv:"charge_bearer"`
	UETR              bool   `yaml:"uetr" csv:"uetr"`
}

// IsBlank reports whether every column is empty.
func (r Row) IsBlank() bool {
	return r == Row{}
}

// Transaction converts the row into a builder request. Only the amount is
// checked here; everything else is validated by the payment instruction.
// Amounts may use thousands separators and a decimal comma.
func (r Row) Transaction() (initiation.Transaction, error) {
	amount, err := currencyutils.ParseAmount(r.Amount)
	if err != nil {
		return initiation.Transaction{}, fmt.Errorf("invalid amount %q: %w", r.Amount, err)
	}

	return initiation.Transaction{
		Amount:           amount,
		Currency:         strings.TrimSpace(r.Currency),
		TransferCurrency: strings.TrimSpace(r.TransferCurrency),
		Creditor: initiation.Creditor{
			FirstName: r.CreditorFirstName,
			LastName:  r.CreditorLastName,
			Name:      r.CreditorName,
			IBAN:      strings.TrimSpace(r.CreditorIBAN),
			BIC:       strings.ToUpper(strings.TrimSpace(r.CreditorBIC)),
		},
		Purpose:      strings.TrimSpace(r.Purpose),
		PurposeCode:  r.PurposeCode,
		Priority:     strings.TrimSpace(r.Priority),
		ChargeBearer: models.ChargeBearer(strings.ToUpper(strings.TrimSpace(r.ChargeBearer))),
		GenerateUETR: r.UETR,
	}, nil
}

// DetectFormat maps a file extension to an input format.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported input format: %s (expected .yaml, .yml or .csv)", path)
	}
}

// ParseYAML decodes a YAML batch. Unknown keys are rejected.
func ParseYAML(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty batch file")
		}
		return nil, fmt.Errorf("error parsing YAML batch: %w", err)
	}
	return &f, nil
}

// ReadCSV decodes CSV transactions with a header row. Blank lines are skipped.
func ReadCSV(r io.Reader, delimiter rune) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true

	var rows []Row
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV batch: %w", err)
	}

	kept := rows[:0]
	for _, row := range rows {
		if !row.IsBlank() {
			kept = append(kept, row)
		}
	}
	return kept, nil
}

// Load reads a batch file, choosing the decoder from its extension.
func Load(path string, delimiter rune) (*File, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if format == FormatYAML {
		data, err := fileutils.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParseYAML(data)
	}

	file, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	rows, err := ReadCSV(file, delimiter)
	if err != nil {
		return nil, err
	}
	return &File{Transactions: rows}, nil
}
