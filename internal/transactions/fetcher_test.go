package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/headsrooms/PlaywrightING/internal/page"
	"github.com/headsrooms/PlaywrightING/internal/page/pagetest"
)

var testSelectors = Selectors{
	ShowMore:              "td.more",
	PreviousMonth:         ".navigate-back",
	DisabledPreviousMonth: ".is-disabled.navigate-back",
	Table:                 ".grid",
	AlternativeTable:      ".data-grid",
	DateNavigator:         ".date-navigator-label",
	ThisMonth:             ".this-month",
	PhoneCheckText:        "validate this operation",
}

func testOptions() Options {
	return Options{Selectors: testSelectors, Format: testFormat, ProbeTimeout: time.Millisecond}
}

func monthMarkup(rows ...[2]string) string {
	var b strings.Builder
	b.WriteString(`<table><thead><tr><th>Fecha</th><th>Concepto</th></tr></thead><tbody>`)
	for _, r := range rows {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>", r[0], r[1])
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

// monthlyPage serves months[0] first and moves one month back per click on
// the previous-month control. The last month has it disabled.
func monthlyPage(months ...string) *pagetest.Fake {
	f := pagetest.New()
	cur := 0
	f.HTMLs[testSelectors.Table] = months[0]
	f.Visible[testSelectors.Table] = true
	f.Visible[testSelectors.PreviousMonth] = true
	f.Visible[testSelectors.DisabledPreviousMonth] = len(months) == 1
	f.OnClick = func(f *pagetest.Fake, selector string) error {
		if selector != testSelectors.PreviousMonth {
			return nil
		}
		cur++
		if cur >= len(months) {
			return errors.New("clicked past the first month")
		}
		f.HTMLs[testSelectors.Table] = months[cur]
		f.Visible[testSelectors.DisabledPreviousMonth] = cur == len(months)-1
		return nil
	}
	return f
}

type scriptedConfirmer struct {
	answers []bool
	err     error
	calls   int
	onCall  func()
}

func (c *scriptedConfirmer) Confirm(context.Context, string) (bool, error) {
	c.calls++
	if c.onCall != nil {
		c.onCall()
	}
	if c.err != nil {
		return false, c.err
	}
	if c.calls > len(c.answers) {
		return true, nil
	}
	return c.answers[c.calls-1], nil
}

func TestFetch_WalksEveryMonth(t *testing.T) {
	p := monthlyPage(
		monthMarkup([2]string{"Hoy 05/03/2024", "Bizum"}, [2]string{"01/03/2024", "Recibo"}),
		monthMarkup([2]string{"15/02/2024", "Nómina"}),
		monthMarkup([2]string{"20/01/2024", "Café"}, [2]string{"03/01/2024", "Cine"}),
	)

	tbl, err := NewFetcher(p, &scriptedConfirmer{}, testOptions()).Fetch(context.Background(), Request{})
	require.NoError(t, err)

	require.Equal(t, 5, tbl.Len())
	var got []string
	for i := range tbl.Rows {
		got = append(got, tbl.Value(i, "Concepto"))
	}
	assert.Equal(t, []string{"Bizum", "Recibo", "Nómina", "Café", "Cine"}, got)
	assert.Equal(t, 2, p.Clicks(testSelectors.PreviousMonth))
	assert.Zero(t, p.Clicks(testSelectors.DateNavigator))
}

func TestFetch_DropsDuplicatesAcrossMonths(t *testing.T) {
	p := monthlyPage(
		monthMarkup([2]string{"01/03/2024", "Recibo"}),
		monthMarkup([2]string{"01/03/2024", "Recibo"}, [2]string{"15/02/2024", "Nómina"}),
	)

	tbl, err := NewFetcher(p, &scriptedConfirmer{}, testOptions()).Fetch(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestFetch_CreditCardAnchorsThisMonth(t *testing.T) {
	p := monthlyPage(monthMarkup([2]string{"01/03/2024", "Amazon"}))

	_, err := NewFetcher(p, &scriptedConfirmer{}, testOptions()).Fetch(context.Background(), Request{Credit: true})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(p.Ops), 2)
	assert.Equal(t, "click "+testSelectors.DateNavigator, p.Ops[0])
	assert.Equal(t, "click "+testSelectors.ThisMonth, p.Ops[1])
}

func TestFetch_ShowMoreUntilGone(t *testing.T) {
	p := monthlyPage(monthMarkup([2]string{"01/03/2024", "Recibo"}))
	p.Visible[testSelectors.ShowMore] = true
	remaining := 3
	p.OnClick = func(f *pagetest.Fake, selector string) error {
		if selector == testSelectors.ShowMore {
			remaining--
			f.Visible[testSelectors.ShowMore] = remaining > 0
		}
		return nil
	}

	confirm := &scriptedConfirmer{}
	_, err := NewFetcher(p, confirm, testOptions()).Fetch(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Clicks(testSelectors.ShowMore))
	assert.Zero(t, confirm.calls, "no verification prompt, no confirmation")
}

func TestFetch_PhoneGateBlocksUntilConfirmed(t *testing.T) {
	p := monthlyPage(monthMarkup([2]string{"01/03/2024", "Recibo"}))
	gate := page.TextSelector(testSelectors.PhoneCheckText)
	p.Visible[testSelectors.ShowMore] = true
	p.Visible[gate] = true
	p.OnClick = func(f *pagetest.Fake, selector string) error {
		if selector == testSelectors.ShowMore {
			f.Visible[testSelectors.ShowMore] = false
			f.Visible[gate] = false
		}
		return nil
	}

	var opsAtCall []int
	confirm := &scriptedConfirmer{answers: []bool{false, false, false, true}}
	confirm.onCall = func() { opsAtCall = append(opsAtCall, len(p.Ops)) }

	_, err := NewFetcher(p, confirm, testOptions()).Fetch(context.Background(), Request{})
	require.NoError(t, err)

	assert.Equal(t, 4, confirm.calls)
	require.Len(t, opsAtCall, 4)
	for _, n := range opsAtCall {
		assert.Equal(t, opsAtCall[0], n, "page was driven while waiting for approval")
	}
	assert.Equal(t, "click "+testSelectors.ShowMore, p.Ops[opsAtCall[0]-1])
	assert.Greater(t, len(p.Ops), opsAtCall[0], "walk resumes after approval")
}

func TestFetch_PhoneGateErrorStops(t *testing.T) {
	p := monthlyPage(monthMarkup([2]string{"01/03/2024", "Recibo"}))
	p.Visible[testSelectors.ShowMore] = true
	p.Visible[page.TextSelector(testSelectors.PhoneCheckText)] = true

	confirm := &scriptedConfirmer{err: errors.New("stdin closed")}
	_, err := NewFetcher(p, confirm, testOptions()).Fetch(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone approval")
	assert.Zero(t, p.Clicks(testSelectors.PreviousMonth))
}

func TestFetch_AlternativeTable(t *testing.T) {
	p := monthlyPage(monthMarkup())
	p.Visible[testSelectors.Table] = false
	p.HTMLs[testSelectors.AlternativeTable] = monthMarkup([2]string{"01/03/2024", "Transferencia"})
	p.Visible[testSelectors.DisabledPreviousMonth] = true

	tbl, err := NewFetcher(p, &scriptedConfirmer{}, testOptions()).Fetch(context.Background(), Request{})
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Transferencia", tbl.Value(0, "Concepto"))
}

func TestFetch_SinceStopsAtKnownMonth(t *testing.T) {
	p := monthlyPage(
		monthMarkup([2]string{"05/03/2024", "Bizum"}),
		monthMarkup([2]string{"15/02/2024", "Nómina"}, [2]string{"05/02/2024", "Luz"}),
		monthMarkup([2]string{"20/01/2024", "Café"}),
	)
	since := time.Date(2024, 2, 10, 18, 30, 0, 0, time.UTC)

	tbl, err := NewFetcher(p, &scriptedConfirmer{}, testOptions()).Fetch(context.Background(), Request{Since: since})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 1, p.Clicks(testSelectors.PreviousMonth))
}

func TestFetch_Cancelled(t *testing.T) {
	p := monthlyPage(monthMarkup())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(p, &scriptedConfirmer{}, testOptions()).Fetch(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}
