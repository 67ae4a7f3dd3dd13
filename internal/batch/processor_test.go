package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pain001/internal/bic"
	"fjacquet/pain001/internal/idgen"
	"fjacquet/pain001/internal/initiation"
	"fjacquet/pain001/internal/logging"
	"fjacquet/pain001/internal/models"
	"fjacquet/pain001/internal/painerror"
)

func newInstruction(t *testing.T, resolver bic.Resolver) *initiation.PaymentInstruction {
	t.Helper()
	p, err := initiation.NewPaymentInstruction(
		models.NewParty("John Doe", "CH0209000000100013997", "POFICHBE"),
		resolver,
		initiation.WithIDGenerator(idgen.NewSequence("ID-")),
		initiation.WithClock(func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	return p
}

func validRow(amount string) Row {
	return Row{
		Amount:       amount,
		Currency:     "CHF",
		CreditorName: "Jane Roe",
		CreditorIBAN: "CH0204835000626882001",
		CreditorBIC:  "CRESCHZZ80A",
	}
}

func TestProcessor_Process(t *testing.T) {
	p := newInstruction(t, nil)
	logger := logging.NewMockLogger()

	report, err := NewProcessor(logger).Process(context.Background(), p, []Row{validRow("100.20"), validRow("50")})
	require.NoError(t, err)
	assert.Equal(t, []string{"ID-0003", "ID-0004"}, report.Added)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 2, p.Len())
	assert.True(t, logger.HasEntry("INFO", "Batch processed"))

	out, err := p.ToXML()
	require.NoError(t, err)
	assert.Contains(t, out, "<CtrlSum>150.20</CtrlSum>")
}

func TestProcessor_CollectsRowErrors(t *testing.T) {
	p := newInstruction(t, nil)
	logger := logging.NewMockLogger()

	unresolvable := validRow("3")
	unresolvable.CreditorBIC = ""
	invalid := validRow("4")
	invalid.Currency = "swiss francs"

	rows := []Row{validRow("1"), {Amount: "two"}, unresolvable, invalid, validRow("5")}
	report, err := NewProcessor(logger).Process(context.Background(), p, rows)

	require.Error(t, err)
	assert.Len(t, report.Added, 2)
	require.Len(t, report.Failed, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{report.Failed[0].Row, report.Failed[1].Row, report.Failed[2].Row})
	assert.Contains(t, err.Error(), "row 2: invalid amount")

	var rerr *painerror.ResolutionError
	assert.True(t, errors.As(report.Failed[1], &rerr))
	assert.ErrorIs(t, err, bic.ErrResolutionUnavailable)

	var verr *painerror.ValidationError
	assert.True(t, errors.As(report.Failed[2], &verr))

	assert.Len(t, logger.GetEntriesByLevel("WARN"), 3)
	assert.Equal(t, 2, p.Len())
}

func TestProcessor_StopOnError(t *testing.T) {
	p := newInstruction(t, nil)

	report, err := NewProcessor(nil).StopOnError(true).Process(context.Background(), p,
		[]Row{validRow("1"), {Amount: "x"}, validRow("2")})

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.Len(t, report.Added, 1)
	assert.Equal(t, 1, p.Len())
}

func TestProcessor_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	resolver := bic.ResolverFunc(func(ctx context.Context, _ string) (string, error) {
		cancel()
		return "", ctx.Err()
	})
	p := newInstruction(t, resolver)

	needsLookup := validRow("2")
	needsLookup.CreditorBIC = ""

	report, err := NewProcessor(nil).Process(ctx, p, []Row{validRow("1"), needsLookup, validRow("3")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, report.Added, 1)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 1, p.Len())
}

func TestReport_Err(t *testing.T) {
	assert.NoError(t, Report{}.Err())
	assert.Error(t, Report{Failed: []*RowError{{Row: 1, Err: errors.New("boom")}}}.Err())
}
