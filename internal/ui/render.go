package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/headsrooms/PlaywrightING/internal/id"
	"github.com/headsrooms/PlaywrightING/internal/model"
	"github.com/headsrooms/PlaywrightING/internal/synclog"
)

const stampLayout = "2006-01-02 15:04"

// Choice is one selectable transaction table: "1" for an account, "1.a" for
// its first card.
type Choice struct {
	Key   string
	Label string
	Table model.Table
}

// Choices lists every account followed by its cards.
func Choices(pos *model.Position) []Choice {
	var out []Choice
	for i, a := range pos.Accounts {
		out = append(out, Choice{Key: id.FormatAccountKey(i), Label: a.Name, Table: a.Transactions})
		for j, c := range a.Cards {
			out = append(out, Choice{Key: id.FormatCardKey(i, j), Label: c.Name, Table: c.Transactions})
		}
	}
	return out
}

// Position prints the overall balance.
func (p *Printer) Position(pos *model.Position) {
	bold.Fprintf(p.w, "Position: %s %s\n", pos.Balance.StringFixed(2), pos.Currency)
	fmt.Fprintf(p.w, "Accounts: %d\n", len(pos.Accounts))
	fmt.Fprintf(p.w, "Last update: %s\n", stamp(pos.LastUpdate))
}

// Accounts prints one line per account and card.
func (p *Printer) Accounts(pos *model.Position) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tTYPE\tBALANCE\tTRANSACTIONS\tLAST UPDATE")
	for i, a := range pos.Accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%d\t%s\n",
			id.FormatAccountKey(i), a.Name, a.Type, a.Balance.StringFixed(2), pos.Currency, a.Transactions.Len(), stamp(a.LastUpdate))
		for j, c := range a.Cards {
			fmt.Fprintf(tw, "%s\t  %s\t%s\t%s\t%d\t%s\n",
				id.FormatCardKey(i, j), c.Name, c.Kind, cardStatus(c, pos.Currency), c.Transactions.Len(), stamp(c.LastUpdate))
		}
	}
	tw.Flush()
}

// Menu prints the choices for the transactions view.
func (p *Printer) Menu(choices []Choice) {
	for _, c := range choices {
		indent := ""
		if strings.Contains(c.Key, ".") {
			indent = "  "
		}
		fmt.Fprintf(p.w, "%s%s) %s\n", indent, c.Key, c.Label)
	}
}

// History prints the sync log, oldest run first.
func (p *Printer) History(entries []synclog.Entry) {
	if len(entries) == 0 {
		p.Info("no sync runs yet")
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tCOMMAND\tOUTCOME\tBALANCE\tRUN")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\n",
			stamp(e.Timestamp), e.Command, e.Outcome, e.Balance.StringFixed(2), e.Currency, e.RunID)
	}
	tw.Flush()
}

// Table prints the rows of t, the date first.
func (p *Printer) Table(t model.Table) {
	if t.IsEmpty() {
		p.Info("no transactions")
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(append([]string{"Fecha"}, t.Columns...), "\t"))
	for _, r := range t.Rows {
		fmt.Fprintln(tw, r.Date.Format("02/01/2006")+"\t"+strings.Join(r.Values, "\t"))
	}
	tw.Flush()
}

func cardStatus(c model.Card, currency string) string {
	if c.IsCredit() {
		return fmt.Sprintf("%s %s", c.OutstandingExpense.StringFixed(2), currency)
	}
	if c.Activated {
		return "activated"
	}
	return "inactive"
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(stampLayout)
}
