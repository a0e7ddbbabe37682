package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kbforge/distill/pkg/distill/classify"
	"github.com/kbforge/distill/pkg/distill/entity"
	"github.com/kbforge/distill/pkg/distill/internalerr"
	"github.com/kbforge/distill/pkg/distill/phrase"
	"github.com/kbforge/distill/pkg/distill/relation"
	"github.com/kbforge/distill/pkg/distill/store"
)

// sqliteStore implements store.Store on SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite-backed extraction store with
// WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS extractions (
	id TEXT PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	source TEXT,
	body TEXT,
	created_at TEXT
);

CREATE TABLE IF NOT EXISTS entities (
	extraction_id TEXT NOT NULL,
	label TEXT NOT NULL,
	value TEXT NOT NULL,
	start_offset INTEGER NOT NULL,
	end_offset INTEGER NOT NULL,
	confidence REAL NOT NULL,
	FOREIGN KEY(extraction_id) REFERENCES extractions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS relationships (
	extraction_id TEXT NOT NULL,
	source_entity TEXT NOT NULL,
	target_entity TEXT NOT NULL,
	rel_type TEXT NOT NULL,
	confidence REAL NOT NULL,
	context TEXT,
	FOREIGN KEY(extraction_id) REFERENCES extractions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS categories (
	extraction_id TEXT NOT NULL,
	ord INTEGER NOT NULL,
	category TEXT NOT NULL,
	confidence REAL NOT NULL,
	keywords TEXT,
	UNIQUE(extraction_id, category),
	FOREIGN KEY(extraction_id) REFERENCES extractions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS key_phrases (
	extraction_id TEXT NOT NULL,
	ord INTEGER NOT NULL,
	body TEXT NOT NULL,
	score REAL NOT NULL,
	FOREIGN KEY(extraction_id) REFERENCES extractions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_entities_extraction ON entities(extraction_id);
CREATE INDEX IF NOT EXISTS idx_relationships_extraction ON relationships(extraction_id);
CREATE INDEX IF NOT EXISTS idx_categories_extraction ON categories(extraction_id);
CREATE INDEX IF NOT EXISTS idx_key_phrases_extraction ON key_phrases(extraction_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveExtraction inserts the record in one transaction, replacing any
// existing record with the same ID.
func (s *sqliteStore) SaveExtraction(ctx context.Context, rec store.Record) error {
	if rec.ID == "" {
		return internalerr.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if rec.Name != "" {
		var otherID string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM extractions WHERE name = ? AND id != ?`,
			rec.Name, rec.ID).Scan(&otherID)
		if err == nil {
			return fmt.Errorf("name %q already belongs to %s: %w",
				rec.Name, otherID, internalerr.ErrDuplicate)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}

	// Clear child rows explicitly: foreign_keys is a per-connection pragma
	// and the pool may hand this transaction a connection without it.
	for _, table := range []string{"entities", "relationships", "categories", "key_phrases"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE extraction_id = ?`, rec.ID); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM extractions WHERE id = ?`, rec.ID); err != nil {
		return err
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO extractions (id, name, source, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Source, rec.Text, createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert extraction: %w", err)
	}

	for _, e := range rec.Entities {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entities (extraction_id, label, value, start_offset, end_offset, confidence)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, e.Label, e.Text, e.Start, e.End, e.Confidence)
		if err != nil {
			return fmt.Errorf("insert entity: %w", err)
		}
	}

	for _, r := range rec.Relationships {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO relationships (extraction_id, source_entity, target_entity, rel_type, confidence, context)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, r.Source, r.Target, r.Type, r.Confidence, r.Context)
		if err != nil {
			return fmt.Errorf("insert relationship: %w", err)
		}
	}

	for i, c := range rec.Categories {
		keywords, err := json.Marshal(c.Keywords)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO categories (extraction_id, ord, category, confidence, keywords)
			 VALUES (?, ?, ?, ?, ?)`,
			rec.ID, i, c.Category, c.Confidence, string(keywords))
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
	}

	for i, p := range rec.KeyPhrases {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO key_phrases (extraction_id, ord, body, score) VALUES (?, ?, ?, ?)`,
			rec.ID, i, p.Phrase, p.Score)
		if err != nil {
			return fmt.Errorf("insert key phrase: %w", err)
		}
	}

	return tx.Commit()
}

// GetExtraction returns the record with the given ID.
func (s *sqliteStore) GetExtraction(ctx context.Context, id string) (store.Record, error) {
	rec, err := s.loadHeader(ctx, `SELECT id, name, source, body, created_at FROM extractions WHERE id = ?`, id)
	if err != nil {
		return store.Record{}, err
	}
	if err := s.loadChildren(ctx, &rec); err != nil {
		return store.Record{}, err
	}
	return rec, nil
}

// GetExtractionByName returns the record with the given name, if any.
func (s *sqliteStore) GetExtractionByName(ctx context.Context, name string) (store.Record, bool, error) {
	rec, err := s.loadHeader(ctx, `SELECT id, name, source, body, created_at FROM extractions WHERE name = ?`, name)
	if errors.Is(err, internalerr.ErrNotFound) {
		return store.Record{}, false, nil
	}
	if err != nil {
		return store.Record{}, false, err
	}
	if err := s.loadChildren(ctx, &rec); err != nil {
		return store.Record{}, false, err
	}
	return rec, true, nil
}

// SearchExtractions returns records whose text contains the query,
// best-classified first.
func (s *sqliteStore) SearchExtractions(ctx context.Context, query string, limit int) ([]store.Record, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, e.source, e.body, e.created_at
		FROM extractions e
		LEFT JOIN (
			SELECT extraction_id, MAX(confidence) AS top_conf
			FROM categories GROUP BY extraction_id
		) c ON c.extraction_id = e.id
		WHERE e.body LIKE '%' || ? || '%'
		ORDER BY COALESCE(c.top_conf, 0) DESC, e.id
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []store.Record
	for rows.Next() {
		rec, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range recs {
		if err := s.loadChildren(ctx, &recs[i]); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// Stats implements store.Store.
func (s *sqliteStore) Stats(ctx context.Context) (store.Stats, error) {
	st := store.Stats{BySource: make(map[string]int64)}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE((SELECT COUNT(*) FROM entities), 0),
		       COALESCE((SELECT COUNT(*) FROM relationships), 0),
		       COALESCE((SELECT AVG(top_conf) FROM (
		           SELECT e.id, COALESCE(MAX(c.confidence), 0) AS top_conf
		           FROM extractions e
		           LEFT JOIN categories c ON c.extraction_id = e.id
		           GROUP BY e.id
		       )), 0)
		FROM extractions`).Scan(&st.TotalDocs, &st.TotalEntities, &st.TotalRelations, &st.AvgTopConfidence)
	if err != nil {
		return store.Stats{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT source, COUNT(*) FROM extractions GROUP BY source`)
	if err != nil {
		return store.Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var source string
		var count int64
		if err := rows.Scan(&source, &count); err != nil {
			return store.Stats{}, err
		}
		st.BySource[source] = count
	}
	return st, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHeader(row rowScanner) (store.Record, error) {
	var rec store.Record
	var createdAt string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Source, &rec.Text, &createdAt); err != nil {
		return store.Record{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}

func (s *sqliteStore) loadHeader(ctx context.Context, query, arg string) (store.Record, error) {
	row := s.db.QueryRowContext(ctx, query, arg)
	rec, err := scanHeader(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, internalerr.ErrNotFound
	}
	if err != nil {
		return store.Record{}, err
	}
	return rec, nil
}

func (s *sqliteStore) loadChildren(ctx context.Context, rec *store.Record) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT label, value, start_offset, end_offset, confidence
		FROM entities WHERE extraction_id = ? ORDER BY start_offset`, rec.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var e entity.Entity
		if err := rows.Scan(&e.Label, &e.Text, &e.Start, &e.End, &e.Confidence); err != nil {
			rows.Close()
			return err
		}
		rec.Entities = append(rec.Entities, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT source_entity, target_entity, rel_type, confidence, context
		FROM relationships WHERE extraction_id = ? ORDER BY rowid`, rec.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var r relation.Relationship
		if err := rows.Scan(&r.Source, &r.Target, &r.Type, &r.Confidence, &r.Context); err != nil {
			rows.Close()
			return err
		}
		rec.Relationships = append(rec.Relationships, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT category, confidence, keywords
		FROM categories WHERE extraction_id = ? ORDER BY ord`, rec.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var c classify.ContentCategory
		var keywords string
		if err := rows.Scan(&c.Category, &c.Confidence, &keywords); err != nil {
			rows.Close()
			return err
		}
		if keywords != "" {
			if err := json.Unmarshal([]byte(keywords), &c.Keywords); err != nil {
				rows.Close()
				return err
			}
		}
		rec.Categories = append(rec.Categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT body, score FROM key_phrases WHERE extraction_id = ? ORDER BY ord`, rec.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var p phrase.KeyPhrase
		if err := rows.Scan(&p.Phrase, &p.Score); err != nil {
			rows.Close()
			return err
		}
		rec.KeyPhrases = append(rec.KeyPhrases, p)
	}
	rows.Close()
	return rows.Err()
}
