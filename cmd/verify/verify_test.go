package verify

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/painerror"
)

const message = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.09">
  <CstmrCdtTrfInitn>
    <GrpHdr>
      <MsgId>MSG-1</MsgId>
      <CreDtTm>2025-01-15T10:00:00Z</CreDtTm>
      <NbOfTxs>{{count}}</NbOfTxs>
      <CtrlSum>{{sum}}</CtrlSum>
      <InitgPty><Nm>John Doe</Nm></InitgPty>
    </GrpHdr>
    <PmtInf>
      <PmtInfId>PMT-1</PmtInfId>
      <PmtMtd>TRF</PmtMtd>
      <CdtTrfTxInf>
        <PmtId><EndToEndId>TX-1</EndToEndId></PmtId>
        <Amt><InstdAmt Ccy="CHF">100.20</InstdAmt></Amt>
      </CdtTrfTxInf>
      <CdtTrfTxInf>
        <PmtId><EndToEndId>TX-2</EndToEndId></PmtId>
        <Amt><InstdAmt Ccy="CHF">50.00</InstdAmt></Amt>
      </CdtTrfTxInf>
    </PmtInf>
  </CstmrCdtTrfInitn>
</Document>`

func writeMessage(t *testing.T, dir, name, count, sum string) string {
	t.Helper()
	content := strings.NewReplacer("{{count}}", count, "{{sum}}", sum).Replace(message)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	good := writeMessage(t, dir, "good.xml", "2", "150.20")
	badSum := writeMessage(t, dir, "bad-sum.xml", "2", "150.00")
	notXML := filepath.Join(dir, "notes.xml")
	require.NoError(t, os.WriteFile(notXML, []byte("<Document><Other/></Document>"), 0600))

	tests := []struct {
		name     string
		paths    []string
		wantErr  bool
		contains []string
	}{
		{
			name:     "valid message",
			paths:    []string{good},
			contains: []string{good + ": OK", "message id:   MSG-1", "transactions: 2 (declared 2)", "control sum:  150.20 (declared 150.20)", "currencies:   CHF"},
		},
		{
			name:     "control sum mismatch",
			paths:    []string{badSum},
			wantErr:  true,
			contains: []string{badSum + ": FAIL", "control sum:  150.20 (declared 150.00)"},
		},
		{
			name:     "not a pain.001 message",
			paths:    []string{notXML},
			wantErr:  true,
			contains: []string{notXML + ": ERROR"},
		},
		{
			name:     "missing file",
			paths:    []string{filepath.Join(dir, "missing.xml")},
			wantErr:  true,
			contains: []string{"missing.xml: ERROR"},
		},
		{
			name:     "mixed",
			paths:    []string{good, badSum},
			wantErr:  true,
			contains: []string{good + ": OK", badSum + ": FAIL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Run(&out, logging.NewMockLogger(), tt.paths)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestRun_MismatchIsRuleError(t *testing.T) {
	path := writeMessage(t, t.TempDir(), "bad.xml", "3", "150.20")
	logger := logging.NewMockLogger()

	err := Run(&bytes.Buffer{}, logger, []string{path})

	var verr *painerror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasRule(painerror.RuleControlTotals, "GrpHdr/NbOfTxs"))
	assert.True(t, logger.HasEntry("INFO", "Message verified"))
}

func TestCommandRequiresArgs(t *testing.T) {
	assert.Error(t, Cmd.Args(Cmd, nil))
	assert.NoError(t, Cmd.Args(Cmd, []string{"a.xml"}))
}
