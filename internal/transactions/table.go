package transactions

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/headsrooms/PlaywrightING/internal/amount"
	"github.com/headsrooms/PlaywrightING/internal/model"
)

// ErrNoTable is returned when the markup holds no table.
var ErrNoTable = errors.New("no table in markup")

// TableFormat describes how the source renders a transaction table.
type TableFormat struct {
	DateColumn string   // header of the date column
	DateLayout string   // time layout of the cleaned date text
	DayWords   []string // relative-day words prefixed to dates
}

// ParseTable reads the first table in markup. Day words are stripped from the
// date column before parsing it; rows without a parsable date, fully empty
// rows, unnamed columns and fully empty columns are dropped. Every cell
// written as an amount is stored in canonical decimal form, so a row reads
// the same whatever month table it came from.
func ParseTable(markup string, format TableFormat) (model.Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return model.Table{}, fmt.Errorf("parsing table markup: %w", err)
	}
	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return model.Table{}, ErrNoTable
	}

	headers := tbl.Find("thead th")
	if headers.Length() == 0 {
		headers = tbl.Find("tr").First().Find("th")
	}
	var columns []string
	headers.Each(func(_ int, s *goquery.Selection) {
		columns = append(columns, cellText(s))
	})

	dateCol := -1
	for i, c := range columns {
		if strings.EqualFold(c, format.DateColumn) {
			dateCol = i
			break
		}
	}
	if dateCol < 0 {
		return model.Table{}, fmt.Errorf("date column %q not found in %v", format.DateColumn, columns)
	}

	days := dayPattern(format.DayWords)
	var rows [][]string
	var dates []time.Time
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		values := make([]string, len(columns))
		empty := true
		cells.Each(func(i int, td *goquery.Selection) {
			if i < len(values) {
				values[i] = cellText(td)
				if values[i] != "" {
					empty = false
				}
			}
		})
		if empty {
			return
		}
		date, err := time.Parse(format.DateLayout, stripDays(days, values[dateCol]))
		if err != nil {
			return
		}
		rows = append(rows, values)
		dates = append(dates, date)
	})

	keep := make([]int, 0, len(columns))
	for c, name := range columns {
		if c == dateCol || unnamed(name) || columnEmpty(rows, c) {
			continue
		}
		keep = append(keep, c)
	}
	out := model.Table{Columns: make([]string, len(keep))}
	for i, c := range keep {
		out.Columns[i] = columns[c]
	}
	for r, values := range rows {
		row := model.Row{Date: dates[r], Values: make([]string, len(keep))}
		for i, c := range keep {
			row.Values[i] = canonical(values[c])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func unnamed(header string) bool {
	return header == "" || strings.HasPrefix(header, "Unnamed")
}

func columnEmpty(rows [][]string, c int) bool {
	for _, r := range rows {
		if r[c] != "" {
			return false
		}
	}
	return true
}

// canonical rewrites an amount cell as a decimal and leaves other text alone.
func canonical(cell string) string {
	if !amount.Looks(cell) {
		return cell
	}
	d, err := amount.Parse(cell)
	if err != nil {
		return cell
	}
	return d.String()
}

// fold removes diacritics so "Sábado" and "Sabado" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func dayPattern(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(fold(w))
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}

func stripDays(days *regexp.Regexp, s string) string {
	if days == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(days.ReplaceAllString(fold(s), ""))
}
