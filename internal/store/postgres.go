package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/guideline/internal/db"
	"github.com/sells-group/guideline/internal/model"
)

// Pool abstracts the pgx pool methods the store needs, so tests can
// substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	policy_key     TEXT NOT NULL,
	effective_date TEXT NOT NULL,
	access         TEXT NOT NULL,
	tags           JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
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
	draft_citations JSONB NOT NULL,
	final_answer    TEXT,
	created_at      TIMESTAMPTZ NOT NULL,
	resolved_at     TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS schedule_config (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	config     JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_policy_key ON documents(policy_key);
CREATE INDEX IF NOT EXISTS idx_chunks_doc_id ON chunks(doc_id);
CREATE INDEX IF NOT EXISTS idx_chunks_access ON chunks(access);
CREATE INDEX IF NOT EXISTS idx_review_queue_status ON review_queue(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) CreateDocument(ctx context.Context, doc model.Document) error {
	tagsJSON, err := json.Marshal(doc.Tags)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal tags")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO documents (id, title, policy_key, effective_date, access, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		doc.ID, doc.Title, doc.PolicyKey, doc.EffectiveDate, string(doc.Access), tagsJSON, doc.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert document")
	}

	if len(doc.Chunks) > 0 {
		rows := make([][]any, 0, len(doc.Chunks))
		for _, c := range doc.Chunks {
			rows = append(rows, []any{c.ID, c.DocID, c.ChunkIndex, string(c.Type), c.PageStart, c.PageEnd, c.Content, string(c.Access), c.EffectiveDate})
		}
		_, err = db.CopyFrom(ctx, tx, "chunks",
			[]string{"id", "doc_id", "chunk_index", "type", "page_start", "page_end", "content", "access", "effective_date"},
			rows,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert chunks of document %s", doc.ID)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit document")
}

func (s *PostgresStore) ListDocuments(ctx context.Context, filter DocumentFilter) ([]model.Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, policy_key, effective_date, access, tags, created_at
		 FROM documents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list documents")
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		var access string
		var tagsJSON []byte
		if err := rows.Scan(&d.ID, &d.Title, &d.PolicyKey, &d.EffectiveDate, &access, &tagsJSON, &d.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan document")
		}
		d.Access = model.AccessLevel(access)
		if err := json.Unmarshal(tagsJSON, &d.Tags); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal tags")
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: list documents iterate")
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

func (s *PostgresStore) documentChunks(ctx context.Context, docID string) ([]model.Chunk, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, doc_id, chunk_index, type, page_start, page_end, content, access, effective_date
		 FROM chunks WHERE doc_id = $1 ORDER BY chunk_index ASC`,
		docID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list chunks of document %s", docID)
	}
	defer rows.Close()
	return scanPgxChunks(rows)
}

func (s *PostgresStore) ListChunks(ctx context.Context, docIDs []string, access []model.AccessLevel) ([]model.Chunk, error) {
	if len(docIDs) == 0 || len(access) == 0 {
		return nil, nil
	}

	levels := make([]string, len(access))
	for i, a := range access {
		levels[i] = string(a)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, doc_id, chunk_index, type, page_start, page_end, content, access, effective_date
		 FROM chunks
		 WHERE doc_id = ANY($1) AND access = ANY($2)
		 ORDER BY doc_id, chunk_index`,
		docIDs, levels,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list chunks")
	}
	defer rows.Close()
	return scanPgxChunks(rows)
}

func (s *PostgresStore) DeleteDocumentsByPolicyKey(ctx context.Context, policyKey string) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE policy_key = $1`, policyKey,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: delete documents for policy key %s", policyKey)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) CreateReviewItem(ctx context.Context, question string, reason model.ReviewReason, draftAnswer *string, citations []model.Citation) (*model.ReviewItem, error) {
	if citations == nil {
		citations = []model.Citation{}
	}
	citationsJSON, err := json.Marshal(citations)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal citations")
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

	_, err = s.pool.Exec(ctx,
		`INSERT INTO review_queue (id, question, reason, status, draft_answer, draft_citations, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Question, string(item.Reason), string(item.Status), draftAnswer, citationsJSON, item.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert review item")
	}
	return &item, nil
}

func (s *PostgresStore) ListReviewItems(ctx context.Context, filter ReviewFilter) ([]model.ReviewItem, error) {
	query := `SELECT id, question, reason, status, draft_answer, draft_citations, final_answer, created_at, resolved_at
		 FROM review_queue`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list review items")
	}
	defer rows.Close()

	var items []model.ReviewItem
	for rows.Next() {
		var item model.ReviewItem
		var reason, status string
		var draftAnswer, finalAnswer *string
		var citationsJSON []byte
		var resolvedAt *time.Time
		if err := rows.Scan(&item.ID, &item.Question, &reason, &status, &draftAnswer, &citationsJSON, &finalAnswer, &item.CreatedAt, &resolvedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan review item")
		}
		item.Reason = model.ReviewReason(reason)
		item.Status = model.ReviewStatus(status)
		item.DraftAnswer = draftAnswer
		item.FinalAnswer = finalAnswer
		item.ResolvedAt = resolvedAt
		if err := json.Unmarshal(citationsJSON, &item.DraftCitations); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal draft citations")
		}
		items = append(items, item)
	}
	return items, eris.Wrap(rows.Err(), "postgres: list review items iterate")
}

func (s *PostgresStore) ResolveReviewItem(ctx context.Context, id, finalAnswer string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE review_queue SET status = $1, final_answer = $2, resolved_at = $3
		 WHERE id = $4 AND status = $5`,
		string(model.ReviewResolved), finalAnswer, time.Now().UTC(), id, string(model.ReviewOpen),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: resolve review item %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "open review item %s", id)
	}
	return nil
}

func (s *PostgresStore) GetSchedule(ctx context.Context) (*model.ScheduleConfig, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx, `SELECT config FROM schedule_config WHERE id = 1`).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get schedule")
	}

	var cfg model.ScheduleConfig
	if err := json.Unmarshal(blob, &cfg); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal schedule")
	}
	return &cfg, nil
}

func (s *PostgresStore) SetSchedule(ctx context.Context, cfg model.ScheduleConfig) error {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal schedule")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO schedule_config (id, config, updated_at) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET config = EXCLUDED.config, updated_at = EXCLUDED.updated_at`,
		blob, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: set schedule")
}

func scanPgxChunks(rows pgx.Rows) ([]model.Chunk, error) {
	var chunks []model.Chunk
	for rows.Next() {
		var c model.Chunk
		var chunkType, access string
		if err := rows.Scan(&c.ID, &c.DocID, &c.ChunkIndex, &chunkType, &c.PageStart, &c.PageEnd, &c.Content, &access, &c.EffectiveDate); err != nil {
			return nil, eris.Wrap(err, "postgres: scan chunk")
		}
		c.Type = model.ChunkType(chunkType)
		c.Access = model.AccessLevel(access)
		chunks = append(chunks, c)
	}
	return chunks, eris.Wrap(rows.Err(), "postgres: iterate chunks")
}
