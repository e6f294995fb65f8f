package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/guideline/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode and cascading deletes.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	policy_key     TEXT NOT NULL,
	effective_date TEXT NOT NULL,
	access         TEXT NOT NULL,
	tags           TEXT NOT NULL,
	created_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS chunks (
	id             TEXT PRIMARY KEY,
	doc_id         TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	chunk_index    INTEGER NOT NULL,
	type           TEXT NOT NULL,
	page_start     INTEGER NOT NULL,
	page_end       INTEGER NOT NULL,
	content        TEXT NOT NULL,
	access         TEXT NOT NULL,
	effective_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS review_queue (
	id              TEXT PRIMARY KEY,
	question        TEXT NOT NULL,
	reason          TEXT NOT NULL,
	status          TEXT NOT NULL DEFAULT 'open',
	draft_answer    TEXT,
	draft_citations TEXT NOT NULL,
	final_answer    TEXT,
	created_at      DATETIME NOT NULL,
	resolved_at     DATETIME
);

CREATE TABLE IF NOT EXISTS schedule_config (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	config     TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_policy_key ON documents(policy_key);
CREATE INDEX IF NOT EXISTS idx_chunks_doc_id ON chunks(doc_id);
CREATE INDEX IF NOT EXISTS idx_chunks_access ON chunks(access);
CREATE INDEX IF NOT EXISTS idx_review_queue_status ON review_queue(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateDocument(ctx context.Context, doc model.Document) error {
	tagsJSON, err := json.Marshal(doc.Tags)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal tags")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, title, policy_key, effective_date, access, tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.PolicyKey, doc.EffectiveDate, string(doc.Access), string(tagsJSON), doc.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert document")
	}

	for _, c := range doc.Chunks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO chunks (id, doc_id, chunk_index, type, page_start, page_end, content, access, effective_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.DocID, c.ChunkIndex, string(c.Type), c.PageStart, c.PageEnd, c.Content, string(c.Access), c.EffectiveDate,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert chunk %d of document %s", c.ChunkIndex, doc.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit document")
}

func (s *SQLiteStore) ListDocuments(ctx context.Context, filter DocumentFilter) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, policy_key, effective_date, access, tags, created_at
		 FROM documents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list documents")
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		var access, tagsJSON string
		if err := rows.Scan(&d.ID, &d.Title, &d.PolicyKey, &d.EffectiveDate, &access, &tagsJSON, &d.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan document")
		}
		d.Access = model.AccessLevel(access)
		if err := json.Unmarshal([]byte(tagsJSON), &d.Tags); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal tags")
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: list documents iterate")
	}

	if filter.WithChunks {
		for i := range docs {
			chunks, err := s.documentChunks(ctx, docs[i].ID)
			if err != nil {
				return nil, err
			}
			docs[i].Chunks = chunks
		}
	}
	return docs, nil
}

func (s *SQLiteStore) documentChunks(ctx context.Context, docID string) ([]model.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc_id, chunk_index, type, page_start, page_end, content, access, effective_date
		 FROM chunks WHERE doc_id = ? ORDER BY chunk_index ASC`,
		docID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list chunks of document %s", docID)
	}
	defer rows.Close()
	return scanChunks(rows)
}

func (s *SQLiteStore) ListChunks(ctx context.Context, docIDs []string, access []model.AccessLevel) ([]model.Chunk, error) {
	if len(docIDs) == 0 || len(access) == 0 {
		return nil, nil
	}

	query := `SELECT id, doc_id, chunk_index, type, page_start, page_end, content, access, effective_date
		 FROM chunks
		 WHERE doc_id IN (` + placeholders(len(docIDs)) + `)
		 AND access IN (` + placeholders(len(access)) + `)
		 ORDER BY doc_id, chunk_index`

	args := make([]any, 0, len(docIDs)+len(access))
	for _, id := range docIDs {
		args = append(args, id)
	}
	for _, a := range access {
		args = append(args, string(a))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list chunks")
	}
	defer rows.Close()
	return scanChunks(rows)
}

func (s *SQLiteStore) DeleteDocumentsByPolicyKey(ctx context.Context, policyKey string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE policy_key = ?`, policyKey,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete documents for policy key %s", policyKey)
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

func (s *SQLiteStore) CreateReviewItem(ctx context.Context, question string, reason model.ReviewReason, draftAnswer *string, citations []model.Citation) (*model.ReviewItem, error) {
	if citations == nil {
		citations = []model.Citation{}
	}
	citationsJSON, err := json.Marshal(citations)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal citations")
	}

	item := model.ReviewItem{
		ID:             uuid.New().String(),
		Question:       question,
		Reason:         reason,
		Status:         model.ReviewOpen,
		DraftAnswer:    draftAnswer,
		DraftCitations: citations,
		CreatedAt:      time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO review_queue (id, question, reason, status, draft_answer, draft_citations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Question, string(item.Reason), string(item.Status), draftAnswer, string(citationsJSON), item.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert review item")
	}
	return &item, nil
}

func (s *SQLiteStore) ListReviewItems(ctx context.Context, filter ReviewFilter) ([]model.ReviewItem, error) {
	query := `SELECT id, question, reason, status, draft_answer, draft_citations, final_answer, created_at, resolved_at
		 FROM review_queue`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list review items")
	}
	defer rows.Close()

	var items []model.ReviewItem
	for rows.Next() {
		item, err := scanReviewItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, eris.Wrap(rows.Err(), "sqlite: list review items iterate")
}

func (s *SQLiteStore) ResolveReviewItem(ctx context.Context, id, finalAnswer string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE review_queue SET status = ?, final_answer = ?, resolved_at = ?
		 WHERE id = ? AND status = ?`,
		string(model.ReviewResolved), finalAnswer, time.Now().UTC(), id, string(model.ReviewOpen),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: resolve review item %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "open review item %s", id)
	}
	return nil
}

func (s *SQLiteStore) GetSchedule(ctx context.Context) (*model.ScheduleConfig, error) {
	row := s.db.QueryRowContext(ctx, `SELECT config FROM schedule_config WHERE id = 1`)

	var blob string
	err := row.Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get schedule")
	}

	var cfg model.ScheduleConfig
	if err := json.Unmarshal([]byte(blob), &cfg); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal schedule")
	}
	return &cfg, nil
}

func (s *SQLiteStore) SetSchedule(ctx context.Context, cfg model.ScheduleConfig) error {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal schedule")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO schedule_config (id, config, updated_at) VALUES (1, ?, ?)`,
		string(blob), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: set schedule")
}

// helpers

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanChunks(rows *sql.Rows) ([]model.Chunk, error) {
	var chunks []model.Chunk
	for rows.Next() {
		var c model.Chunk
		var chunkType, access string
		if err := rows.Scan(&c.ID, &c.DocID, &c.ChunkIndex, &chunkType, &c.PageStart, &c.PageEnd, &c.Content, &access, &c.EffectiveDate); err != nil {
			return nil, eris.Wrap(err, "scan chunk")
		}
		c.Type = model.ChunkType(chunkType)
		c.Access = model.AccessLevel(access)
		chunks = append(chunks, c)
	}
	return chunks, eris.Wrap(rows.Err(), "iterate chunks")
}

func scanReviewItem(row scannable) (*model.ReviewItem, error) {
	var item model.ReviewItem
	var reason, status, citationsJSON string
	var draftAnswer, finalAnswer sql.NullString
	var resolvedAt sql.NullTime

	err := row.Scan(&item.ID, &item.Question, &reason, &status, &draftAnswer, &citationsJSON, &finalAnswer, &item.CreatedAt, &resolvedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrap(ErrNotFound, "review item")
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan review item")
	}

	item.Reason = model.ReviewReason(reason)
	item.Status = model.ReviewStatus(status)
	if draftAnswer.Valid {
		item.DraftAnswer = &draftAnswer.String
	}
	if finalAnswer.Valid {
		item.FinalAnswer = &finalAnswer.String
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		item.ResolvedAt = &t
	}
	if err := json.Unmarshal([]byte(citationsJSON), &item.DraftCitations); err != nil {
		return nil, eris.Wrap(err, "unmarshal draft citations")
	}
	return &item, nil
}
