package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/headsrooms/PlaywrightING/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS position (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	balance     TEXT NOT NULL,
	currency    TEXT NOT NULL,
	last_update TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS accounts (
	seq         INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	type        TEXT NOT NULL,
	balance     TEXT NOT NULL,
	last_update TEXT NOT NULL,
	history     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cards (
	account_seq INTEGER NOT NULL REFERENCES accounts(seq),
	seq         INTEGER NOT NULL,
	name        TEXT NOT NULL,
	kind        TEXT NOT NULL,
	activated   INTEGER NOT NULL,
	expense     TEXT NOT NULL,
	last_update TEXT NOT NULL,
	history     TEXT NOT NULL,
	PRIMARY KEY (account_seq, seq)
);`

// SQLiteStore keeps the graph in a SQLite file. Each save replaces the whole
// graph in one transaction; transactions of an entity are a JSON column.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore returns a SQLiteStore at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Path implements Store.
func (s *SQLiteStore) Path() string { return s.path }

// Exists implements Store.
func (s *SQLiteStore) Exists() (bool, error) { return fileExists(s.path) }

func (s *SQLiteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot schema: %w", err)
	}
	return db, nil
}

// Load implements Store.
func (s *SQLiteStore) Load() (*model.Position, error) {
	exists, err := s.Exists()
	if err != nil || !exists {
		return nil, err
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var (
		p                 model.Position
		balance, lastSeen string
	)
	err = db.QueryRow(`SELECT balance, currency, last_update FROM position WHERE id = 1`).
		Scan(&balance, &p.Currency, &lastSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading position: %w", err)
	}
	if p.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("reading position balance: %w", err)
	}
	if p.LastUpdate, err = parseTime(lastSeen); err != nil {
		return nil, err
	}

	if p.Accounts, err = loadAccounts(db); err != nil {
		return nil, err
	}
	return &p, nil
}

func loadAccounts(db *sql.DB) ([]model.Account, error) {
	rows, err := db.Query(`SELECT seq, name, type, balance, last_update, history FROM accounts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	defer rows.Close()

	var (
		accounts []model.Account
		seqs     []int
	)
	for rows.Next() {
		var (
			a                        model.Account
			seq                      int
			typ, balance, last, hist string
		)
		if err := rows.Scan(&seq, &a.Name, &typ, &balance, &last, &hist); err != nil {
			return nil, fmt.Errorf("reading account: %w", err)
		}
		a.Type = model.AccountType(typ)
		if a.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("account %s balance: %w", a.Name, err)
		}
		if a.History, err = decodeHistory(last, hist); err != nil {
			return nil, fmt.Errorf("account %s: %w", a.Name, err)
		}
		accounts = append(accounts, a)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}

	for i, seq := range seqs {
		cards, err := loadCards(db, seq)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", accounts[i].Name, err)
		}
		accounts[i].Cards = cards
	}
	return accounts, nil
}

func loadCards(db *sql.DB, accountSeq int) ([]model.Card, error) {
	rows, err := db.Query(`SELECT name, kind, activated, expense, last_update, history
		FROM cards WHERE account_seq = ? ORDER BY seq`, accountSeq)
	if err != nil {
		return nil, fmt.Errorf("reading cards: %w", err)
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		var (
			c                         model.Card
			kind, expense, last, hist string
		)
		if err := rows.Scan(&c.Name, &kind, &c.Activated, &expense, &last, &hist); err != nil {
			return nil, fmt.Errorf("reading card: %w", err)
		}
		c.Kind = model.CardKind(kind)
		if c.OutstandingExpense, err = decimal.NewFromString(expense); err != nil {
			return nil, fmt.Errorf("card %s expense: %w", c.Name, err)
		}
		if c.History, err = decodeHistory(last, hist); err != nil {
			return nil, fmt.Errorf("card %s: %w", c.Name, err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Save implements Store.
func (s *SQLiteStore) Save(p *model.Position) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM cards`, `DELETE FROM accounts`, `DELETE FROM position`} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clearing snapshot: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO position (id, balance, currency, last_update) VALUES (1, ?, ?, ?)`,
		p.Balance.String(), p.Currency, formatTime(p.LastUpdate)); err != nil {
		return fmt.Errorf("writing position: %w", err)
	}

	for i, a := range p.Accounts {
		hist, err := encodeHistory(a.History)
		if err != nil {
			return fmt.Errorf("account %s: %w", a.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO accounts (seq, name, type, balance, last_update, history) VALUES (?, ?, ?, ?, ?, ?)`,
			i, a.Name, string(a.Type), a.Balance.String(), formatTime(a.LastUpdate), hist); err != nil {
			return fmt.Errorf("writing account %s: %w", a.Name, err)
		}

		for j, c := range a.Cards {
			hist, err := encodeHistory(c.History)
			if err != nil {
				return fmt.Errorf("card %s: %w", c.Name, err)
			}
			if _, err := tx.Exec(`INSERT INTO cards (account_seq, seq, name, kind, activated, expense, last_update, history)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				i, j, c.Name, string(c.Kind), c.Activated, c.OutstandingExpense.String(), formatTime(c.LastUpdate), hist); err != nil {
				return fmt.Errorf("writing card %s: %w", c.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

func encodeHistory(h model.History) (string, error) {
	b, err := json.Marshal(h.Transactions)
	if err != nil {
		return "", fmt.Errorf("encoding transactions: %w", err)
	}
	return string(b), nil
}

func decodeHistory(lastUpdate, transactions string) (model.History, error) {
	var h model.History
	if err := json.Unmarshal([]byte(transactions), &h.Transactions); err != nil {
		return h, fmt.Errorf("decoding transactions: %w", err)
	}
	t, err := parseTime(lastUpdate)
	if err != nil {
		return h, err
	}
	h.LastUpdate = t
	return h, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
