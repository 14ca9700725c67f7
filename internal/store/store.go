// Package store persists inventions and their claims in SQLite. The claim
// tables are the system of record the engine reads snapshots from; engine
// results themselves are never stored.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/anicholas99/claimgraph/internal/model"
)

//go:embed schema.sql
var schemaSQL string

//go:embed pragmas.sql
var pragmasSQL string

var (
	ErrInventionNotFound = errors.New("invention not found")
	ErrClaimNotFound     = errors.New("claim not found")
)

// Store wraps a SQLite connection.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates the database at path, applying pragmas and schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	for _, pragma := range strings.Split(pragmasSQL, "\n") {
		pragma = strings.TrimSpace(pragma)
		if pragma == "" || strings.HasPrefix(pragma, "--") {
			continue
		}
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Invention is one claim set's owning record.
type Invention struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SpecText  string    `json:"spec_text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInvention inserts a new invention and returns it.
func (s *Store) CreateInvention(ctx context.Context, title string) (*Invention, error) {
	inv := &Invention{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	inv.UpdatedAt = inv.CreatedAt

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO inventions (id, title, spec_text, created_at, updated_at) VALUES (?, ?, '', ?, ?)`,
		inv.ID, inv.Title, inv.CreatedAt.UnixMilli(), inv.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting invention: %w", err)
	}
	return inv, nil
}

// GetInvention loads one invention by id.
func (s *Store) GetInvention(ctx context.Context, id string) (*Invention, error) {
	var inv Invention
	var created, updated int64
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, title, spec_text, created_at, updated_at FROM inventions WHERE id = ?`, id,
	).Scan(&inv.ID, &inv.Title, &inv.SpecText, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInventionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying invention: %w", err)
	}
	inv.CreatedAt = time.UnixMilli(created).UTC()
	inv.UpdatedAt = time.UnixMilli(updated).UTC()
	return &inv, nil
}

// FindInvention resolves an invention by id or by exact title. Several
// inventions sharing a title cannot be resolved by it.
func (s *Store) FindInvention(ctx context.Context, ref string) (*Invention, error) {
	inv, err := s.GetInvention(ctx, ref)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, ErrInventionNotFound) {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, spec_text, created_at, updated_at FROM inventions WHERE title = ? ORDER BY created_at DESC`, ref)
	if err != nil {
		return nil, fmt.Errorf("querying invention by title: %w", err)
	}
	defer rows.Close()

	var matches []Invention
	for rows.Next() {
		var inv Invention
		var created, updated int64
		if err := rows.Scan(&inv.ID, &inv.Title, &inv.SpecText, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning invention: %w", err)
		}
		inv.CreatedAt = time.UnixMilli(created).UTC()
		inv.UpdatedAt = time.UnixMilli(updated).UTC()
		matches = append(matches, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, ErrInventionNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%d inventions titled %q, use the id instead", len(matches), ref)
	}
}

// ListInventions returns every invention, newest first.
func (s *Store) ListInventions(ctx context.Context) ([]Invention, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, spec_text, created_at, updated_at FROM inventions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying inventions: %w", err)
	}
	defer rows.Close()

	var out []Invention
	for rows.Next() {
		var inv Invention
		var created, updated int64
		if err := rows.Scan(&inv.ID, &inv.Title, &inv.SpecText, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning invention: %w", err)
		}
		inv.CreatedAt = time.UnixMilli(created).UTC()
		inv.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, inv)
	}
	return out, rows.Err()
}

// RenameInvention changes an invention's title.
func (s *Store) RenameInvention(ctx context.Context, id, title string) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE inventions SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("renaming invention: %w", err)
	}
	return requireRow(res, ErrInventionNotFound)
}

// SetSpecText replaces the invention's specification text.
func (s *Store) SetSpecText(ctx context.Context, id, text string) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE inventions SET spec_text = ?, updated_at = ? WHERE id = ?`,
		text, time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("updating spec text: %w", err)
	}
	return requireRow(res, ErrInventionNotFound)
}

// DeleteInvention removes an invention and, through the foreign key, all
// of its claims.
func (s *Store) DeleteInvention(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM inventions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting invention: %w", err)
	}
	return requireRow(res, ErrInventionNotFound)
}

// AddClaim appends one claim to an invention.
func (s *Store) AddClaim(ctx context.Context, inventionID string, number int, text string) (*model.Claim, error) {
	if _, err := s.GetInvention(ctx, inventionID); err != nil {
		return nil, err
	}

	claim := &model.Claim{ID: uuid.NewString(), Number: number, Text: text}
	now := time.Now().UTC().UnixMilli()
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO claims (id, invention_id, number, text, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		claim.ID, inventionID, claim.Number, claim.Text, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting claim: %w", err)
	}
	if err := s.touchInvention(ctx, inventionID); err != nil {
		return nil, err
	}
	return claim, nil
}

// ListClaims returns the invention's claims ordered by number. This is the
// snapshot interface the engine consumes.
func (s *Store) ListClaims(ctx context.Context, inventionID string) ([]model.Claim, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, number, text FROM claims WHERE invention_id = ? ORDER BY number, id`, inventionID)
	if err != nil {
		return nil, fmt.Errorf("querying claims: %w", err)
	}
	defer rows.Close()

	var out []model.Claim
	for rows.Next() {
		var c model.Claim
		if err := rows.Scan(&c.ID, &c.Number, &c.Text); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetClaim loads one claim by id.
func (s *Store) GetClaim(ctx context.Context, id string) (*model.Claim, error) {
	var c model.Claim
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, number, text FROM claims WHERE id = ?`, id,
	).Scan(&c.ID, &c.Number, &c.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying claim: %w", err)
	}
	return &c, nil
}

// UpdateClaimText replaces one claim's text.
func (s *Store) UpdateClaimText(ctx context.Context, id, text string) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE claims SET text = ?, updated_at = ? WHERE id = ?`,
		text, time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("updating claim: %w", err)
	}
	return requireRow(res, ErrClaimNotFound)
}

// DeleteClaim removes one claim.
func (s *Store) DeleteClaim(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting claim: %w", err)
	}
	return requireRow(res, ErrClaimNotFound)
}

// UpdateClaims applies a renumbering batch in one transaction. Any update
// touching a claim outside the invention, or a missing claim, rolls the
// whole batch back; partial application would corrupt cross-references for
// the entire set.
func (s *Store) UpdateClaims(ctx context.Context, inventionID string, updates []model.ClaimUpdate) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().UnixMilli()
	for _, u := range updates {
		res, err := tx.ExecContext(ctx,
			`UPDATE claims SET
				number = COALESCE(?, number),
				text = COALESCE(?, text),
				updated_at = ?
			 WHERE id = ? AND invention_id = ?`,
			u.NewNumber, u.NewText, now, u.ID, inventionID,
		)
		if err != nil {
			return fmt.Errorf("updating claim %s: %w", u.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update of claim %s: %w", u.ID, err)
		}
		if n == 0 {
			return fmt.Errorf("claim %s: %w", u.ID, ErrClaimNotFound)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE inventions SET updated_at = ? WHERE id = ?`, now, inventionID); err != nil {
		return fmt.Errorf("touching invention: %w", err)
	}
	return tx.Commit()
}

// ReplaceClaims swaps an invention's whole claim set in one transaction,
// used by the importers.
func (s *Store) ReplaceClaims(ctx context.Context, inventionID string, claims []model.Claim) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE invention_id = ?`, inventionID); err != nil {
		return fmt.Errorf("clearing claims: %w", err)
	}

	now := time.Now().UTC().UnixMilli()
	for _, c := range claims {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO claims (id, invention_id, number, text, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, inventionID, c.Number, c.Text, now, now,
		); err != nil {
			return fmt.Errorf("inserting claim %d: %w", c.Number, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE inventions SET updated_at = ? WHERE id = ?`, now, inventionID); err != nil {
		return fmt.Errorf("touching invention: %w", err)
	}
	return tx.Commit()
}

func (s *Store) touchInvention(ctx context.Context, id string) error {
	_, err := s.conn.ExecContext(ctx,
		`UPDATE inventions SET updated_at = ? WHERE id = ?`,
		time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("touching invention: %w", err)
	}
	return nil
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
