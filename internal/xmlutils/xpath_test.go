package xmlutils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/painerror"
)

const sampleMessage = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.09" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <CstmrCdtTrfInitn>
    <GrpHdr>
      <MsgId>MSG-1</MsgId>
      <CreDtTm>2025-01-15T10:00:00Z</CreDtTm>
      <NbOfTxs>{{count}}</NbOfTxs>
      <CtrlSum>{{sum}}</CtrlSum>
      <InitgPty>
        <Nm>John Doe</Nm>
      </InitgPty>
    </GrpHdr>
    <PmtInf>
      <PmtInfId>PMT-1</PmtInfId>
      <PmtMtd>TRF</PmtMtd>
      <ReqdExctnDt>
        <Dt>2025-01-15</Dt>
      </ReqdExctnDt>
      <Dbtr>
        <Nm>John Doe</Nm>
      </Dbtr>
      <DbtrAcct>
        <Id>
          <IBAN>CH0209000000100013997</IBAN>
        </Id>
      </DbtrAcct>
      <DbtrAgt>
        <FinInstnId>
          <BICFI>POFICHBE</BICFI>
        </FinInstnId>
      </DbtrAgt>
      <CdtTrfTxInf>
        <PmtId>
          <InstrId>TX-1</InstrId>
          <EndToEndId>TX-1</EndToEndId>
        </PmtId>
        <Amt>
          <InstdAmt Ccy="CHF">100.20</InstdAmt>
        </Amt>
        <Cdtr>
          <Nm>Jane Roe</Nm>
        </Cdtr>
      </CdtTrfTxInf>
      <CdtTrfTxInf>
        <PmtId>
          <InstrId>TX-2</InstrId>
          <EndToEndId>TX-2</EndToEndId>
        </PmtId>
        <Amt>
          <EqvtAmt>
            <Amt Ccy="EUR">50.00</Amt>
            <CcyOfTrf>CHF</CcyOfTrf>
          </EqvtAmt>
        </Amt>
        <Cdtr>
          <Nm>ACME AG</Nm>
        </Cdtr>
      </CdtTrfTxInf>
    </PmtInf>
  </CstmrCdtTrfInitn>
</Document>`

func message(count, sum string) string {
	return strings.NewReplacer("{{count}}", count, "{{sum}}", sum).Replace(sampleMessage)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestGetOrEmpty(t *testing.T) {
	tests := []struct {
		name     string
		slice    []string
		index    int
		expected string
	}{
		{"valid index returns value", []string{"a", "b", "c"}, 1, "b"},
		{"last valid index", []string{"x", "y", "z"}, 2, "z"},
		{"index out of bounds returns empty", []string{"a", "b"}, 5, ""},
		{"negative index returns empty", []string{"a"}, -1, ""},
		{"nil slice returns empty", nil, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetOrEmpty(tt.slice, tt.index))
		})
	}
}

func TestLoadXMLFile(t *testing.T) {
	t.Run("loads valid XML file", func(t *testing.T) {
		root, err := LoadXMLFile(writeFile(t, "test.xml", message("2", "150.20")))
		require.NoError(t, err)
		assert.NotNil(t, root)
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := LoadXMLFile("/non/existent/file.xml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open XML file")
	})

	t.Run("returns error for invalid XML", func(t *testing.T) {
		_, err := LoadXMLFile(writeFile(t, "invalid.xml", "<invalid><unclosed>"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse XML")
	})
}

func TestExtractFromXML(t *testing.T) {
	root, err := ParseXMLString(message("2", "150.20"))
	require.NoError(t, err)
	xp := DefaultPain001XPaths()

	tests := []struct {
		name  string
		xpath string
		want  []string
	}{
		{"message id", xp.Header.MessageID, []string{"MSG-1"}},
		{"initiating party", xp.Header.InitiatingParty, []string{"John Doe"}},
		{"execution date", xp.Instruction.ExecutionDate, []string{"2025-01-15"}},
		{"debtor bic", xp.Instruction.DebtorBIC, []string{"POFICHBE"}},
		{"end to end ids", xp.Transaction.EndToEndID, []string{"TX-1", "TX-2"}},
		{"instructed amounts", xp.Transaction.InstructedAmount, []string{"100.20"}},
		{"equivalent amounts", xp.Transaction.EquivalentAmount, []string{"50.00"}},
		{"instructed currency", xp.Transaction.InstructedCcy, []string{"CHF"}},
		{"equivalent currency", xp.Transaction.EquivalentCcy, []string{"EUR"}},
		{"creditor names", xp.Transaction.CreditorName, []string{"Jane Roe", "ACME AG"}},
		{"no match", xp.Transaction.Remittance, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := ExtractFromXML(root, tt.xpath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, values)
		})
	}

	t.Run("returns error for invalid xpath", func(t *testing.T) {
		_, err := ExtractFromXML(root, "[invalid xpath")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to compile XPath")
	})
}

func TestExtractWithXPath(t *testing.T) {
	path := writeFile(t, "pain.xml", message("2", "150.20"))

	values, err := ExtractWithXPath(path, DefaultPain001XPaths().Instruction.DebtorIBAN)
	require.NoError(t, err)
	assert.Equal(t, []string{"CH0209000000100013997"}, values)

	_, err = ExtractWithXPath("/non/existent/file.xml", "//MsgId")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	root, err := ParseXMLString(message("2", "150.20"))
	require.NoError(t, err)

	s, err := Summarize(root)
	require.NoError(t, err)
	assert.Equal(t, "MSG-1", s.MessageID)
	assert.Equal(t, "2025-01-15T10:00:00Z", s.CreationDateTime)
	assert.Equal(t, int64(2), s.DeclaredCount)
	assert.True(t, decimal.RequireFromString("150.20").Equal(s.DeclaredSum))
	assert.Equal(t, 1, s.Instructions)
	assert.Equal(t, 2, s.Transactions)
	assert.True(t, decimal.RequireFromString("150.2").Equal(s.AmountSum))
	assert.Equal(t, []string{"CHF", "EUR"}, s.Currencies)
	assert.Equal(t, "CH0209000000100013997", s.DebtorIBAN)
	assert.Equal(t, []string{"TX-1", "TX-2"}, s.EndToEndIDs)
	assert.NoError(t, s.Verify())
}

func TestSummarize_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not a message", "<root><item>x</item></root>", "not a pain.001 message"},
		{"bad count", message("two", "150.20"), "invalid GrpHdr/NbOfTxs"},
		{"bad sum", message("2", "lots"), "invalid GrpHdr/CtrlSum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseXMLString(tt.doc)
			require.NoError(t, err)
			_, err = Summarize(root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVerify_Mismatch(t *testing.T) {
	tests := []struct {
		name  string
		count string
		sum   string
		paths []string
	}{
		{"count", "3", "150.20", []string{"GrpHdr/NbOfTxs"}},
		{"sum", "2", "150.21", []string{"GrpHdr/CtrlSum"}},
		{"both", "1", "100.20", []string{"GrpHdr/NbOfTxs", "GrpHdr/CtrlSum"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseXMLString(message(tt.count, tt.sum))
			require.NoError(t, err)
			s, err := Summarize(root)
			require.NoError(t, err)

			err = s.Verify()
			var verr *painerror.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "MSG-1", verr.Subject)
			for _, p := range tt.paths {
				assert.True(t, verr.HasRule(painerror.RuleControlTotals, p), p)
			}
			assert.Len(t, verr.Rules(), len(tt.paths))
		})
	}
}

func TestVerifyFile(t *testing.T) {
	logger := logging.NewMockLogger()
	SetLogger(logger)
	t.Cleanup(func() { SetLogger(logging.NewNopLogger()) })

	s, err := VerifyFile(writeFile(t, "ok.xml", message("2", "150.20")))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Transactions)
	assert.True(t, logger.HasEntry("DEBUG", "Verifying message"))

	_, err = VerifyFile(writeFile(t, "bad.xml", message("2", "1.00")))
	assert.Error(t, err)

	_, err = VerifyFile("/non/existent/file.xml")
	assert.Error(t, err)
}
