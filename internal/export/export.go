// Package export writes the transaction tables of a position as CSV files,
// one directory per account.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/headsrooms/PlaywrightING/internal/model"
)

// ErrMissingParentDirectory is returned when the export directory cannot be
// created because its parent does not exist.
var ErrMissingParentDirectory = errors.New("parent directory of the download path does not exist")

// DateHeader is the header of the date column in exported files.
const DateHeader = "Fecha"

// Options controls an export.
type Options struct {
	// CreateParents creates every missing directory of the download path.
	CreateParents bool
}

// Position writes <dir>/<account>/<account>.csv for every account and
// <dir>/<account>/<card>.csv for every card. It returns the files written.
func Position(p *model.Position, dir string, opts Options) ([]string, error) {
	if err := prepare(dir, opts); err != nil {
		return nil, err
	}

	var written []string
	for _, a := range p.Accounts {
		accountDir := filepath.Join(dir, Slug(a.Name))
		if err := os.MkdirAll(accountDir, 0o755); err != nil {
			return written, fmt.Errorf("creating %s: %w", accountDir, err)
		}

		path := filepath.Join(accountDir, Slug(a.Name)+".csv")
		if err := writeFile(path, a.Transactions); err != nil {
			return written, err
		}
		written = append(written, path)

		for _, c := range a.Cards {
			path := filepath.Join(accountDir, Slug(c.Name)+".csv")
			if err := writeFile(path, c.Transactions); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func prepare(dir string, opts Options) error {
	if opts.CreateParents {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		return nil
	}
	err := os.Mkdir(dir, 0o755)
	switch {
	case err == nil, os.IsExist(err):
		return nil
	case os.IsNotExist(err):
		return fmt.Errorf("%s: %w; create it or pass --create-parents", dir, ErrMissingParentDirectory)
	default:
		return fmt.Errorf("creating %s: %w", dir, err)
	}
}

func writeFile(path string, t model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteTable(f, t); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteTable writes t as CSV with the date column first.
func WriteTable(w io.Writer, t model.Table) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{DateHeader}, t.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range t.Rows {
		record := make([]string, 0, len(header))
		record = append(record, r.Date.Format(model.DateLayout))
		record = append(record, r.Values...)
		for len(record) < len(header) {
			record = append(record, "")
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Slug turns an entity name into a portable file name: accents are dropped
// and anything other than letters, digits, '-' and '.' becomes '_'.
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(name))
	if err != nil {
		folded = name
	}
	slug := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, folded)
	if slug == "" || strings.Trim(slug, ".") == "" {
		return "_"
	}
	return slug
}
