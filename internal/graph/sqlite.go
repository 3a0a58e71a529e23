// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/medgraph/internal/query"
	"github.com/pdiddy/medgraph/internal/triples"
)

// SQLite is the persistent Store. The whole graph lives in one triples
// table; compiled queries run as SQL so large graphs never load into
// memory.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens or creates the graph database at path and creates
// the schema when missing.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening graph database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS triples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subject TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object TEXT NOT NULL,
			source_id TEXT NOT NULL DEFAULT '',
			start_tok INTEGER NOT NULL DEFAULT 0,
			end_tok INTEGER NOT NULL DEFAULT 0,
			UNIQUE(subject, predicate, object)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_subject ON triples(subject)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_predicate ON triples(predicate)`,
		`CREATE INDEX IF NOT EXISTS idx_triples_object ON triples(object)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Insert adds triples in one transaction. The UNIQUE constraint drops
// exact duplicates, so re-ingesting a document is idempotent.
func (s *SQLite) Insert(ctx context.Context, ts []Triple) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO triples (subject, predicate, object, source_id, start_tok, end_tok)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range ts {
		if _, err := stmt.ExecContext(ctx, t.Subject, t.Predicate, t.Object, t.SourceID, t.Start, t.End); err != nil {
			return fmt.Errorf("inserting triple (%s, %s): %w", t.Subject, t.Predicate, err)
		}
	}
	return tx.Commit()
}

// labelLookup binds the object's label when the object value names
// another subject. Ordered by id so the first stored label wins.
const labelLookup = `(SELECT l.object FROM triples l
		WHERE l.subject = u.object AND l.predicate = 'label'
		ORDER BY l.id LIMIT 1)`

// Select executes a compiled query in SQL: subjects bind by label
// containment, the relation-filtered branch precedes the unfiltered
// one, and duplicates collapse onto their earliest branch before the
// row cap applies.
func (s *SQLite) Select(ctx context.Context, q query.Query) (*Result, error) {
	switch q.Form {
	case query.FormDescribe:
		return s.describe(ctx, q)
	case query.FormSelect:
	default:
		return nil, fmt.Errorf("unsupported query form %q", q.Form)
	}

	res := &Result{Vars: resultVars}
	if q.Empty() {
		return res, nil
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`WITH bound AS (
		SELECT DISTINCT subject FROM triples
		WHERE predicate = 'label' AND instr(lower(object), lower(?)) > 0
	)
	SELECT u.subject, u.predicate, u.object, ` + labelLookup + ` AS label
	FROM (
`)
	args = append(args, q.Mention)

	if len(q.RelationKeywords) > 0 {
		terms := make([]string, len(q.RelationKeywords))
		for i, kw := range q.RelationKeywords {
			terms[i] = `instr(lower(t.predicate), ?) > 0`
			args = append(args, kw)
		}
		qb.WriteString(`		SELECT subject, predicate, object, MIN(branch) AS b, MIN(ord) AS o
		FROM (
			SELECT t.subject, t.predicate, t.object, 0 AS branch, t.id AS ord
			FROM triples t JOIN bound ON t.subject = bound.subject
			WHERE ` + strings.Join(terms, " OR ") + `
			UNION ALL
			SELECT t.subject, t.predicate, t.object, 1 AS branch, t.id AS ord
			FROM triples t JOIN bound ON t.subject = bound.subject
		)
		GROUP BY subject, predicate, object
`)
	} else {
		qb.WriteString(`		SELECT t.subject, t.predicate, t.object, 0 AS b, t.id AS o
		FROM triples t JOIN bound ON t.subject = bound.subject
`)
	}

	qb.WriteString(`	) u
	ORDER BY u.b, u.o
	LIMIT ?`)
	args = append(args, sqlLimit(q.Limit))

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying graph: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subject, predicate, object string
		var label sql.NullString
		if err := rows.Scan(&subject, &predicate, &object, &label); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		row := Row{"uri": subject, "relation": predicate, "content": object}
		if label.Valid {
			row["label"] = label.String
		}
		res.Rows = append(res.Rows, row)
	}
	return res, rows.Err()
}

// describe returns every triple of the subject matched by identifier
// or by exact label, case-insensitively.
func (s *SQLite) describe(ctx context.Context, q query.Query) (*Result, error) {
	if q.Empty() {
		return nil, errors.New("describe query has no subject")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, predicate, object, source_id, start_tok, end_tok
		 FROM triples
		 WHERE subject = ?
		    OR subject IN (SELECT subject FROM triples WHERE predicate = 'label' AND lower(object) = lower(?))
		 ORDER BY id
		 LIMIT ?`,
		triples.NormalizeID(q.Mention), q.Mention, sqlLimit(q.Limit))
	if err != nil {
		return nil, fmt.Errorf("querying graph: %w", err)
	}
	defer rows.Close()

	res := &Result{}
	for rows.Next() {
		var t Triple
		if err := rows.Scan(&t.Subject, &t.Predicate, &t.Object, &t.SourceID, &t.Start, &t.End); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		res.Triples = append(res.Triples, t)
	}
	return res, rows.Err()
}

// SubjectLiterals groups literal values by subject in storage order.
// Objects referencing another subject are skipped; label edges always
// count as literals.
func (s *SQLite) SubjectLiterals(ctx context.Context) ([]SubjectDoc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, predicate, object
		 FROM triples t
		 WHERE t.predicate = 'label'
		    OR NOT EXISTS (SELECT 1 FROM triples r WHERE r.subject = t.object)
		 ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("querying literals: %w", err)
	}
	defer rows.Close()

	var order []string
	pairs := make(map[string][]LiteralPair)
	for rows.Next() {
		var subject, predicate, object string
		if err := rows.Scan(&subject, &predicate, &object); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if _, ok := pairs[subject]; !ok {
			order = append(order, subject)
		}
		pairs[subject] = append(pairs[subject], LiteralPair{Predicate: predicate, Object: object})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	docs := make([]SubjectDoc, len(order))
	for i, subj := range order {
		docs[i] = SubjectDoc{Subject: subj, Pairs: pairs[subj]}
	}
	return docs, nil
}

// Dump returns every stored triple in insertion order.
func (s *SQLite) Dump(ctx context.Context) ([]Triple, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, predicate, object, source_id, start_tok, end_tok
		 FROM triples ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying triples: %w", err)
	}
	defer rows.Close()

	var out []Triple
	for rows.Next() {
		var t Triple
		if err := rows.Scan(&t.Subject, &t.Predicate, &t.Object, &t.SourceID, &t.Start, &t.End); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// sqlLimit converts the query row cap to a SQLite LIMIT argument,
// where a negative limit means unlimited.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
