package postgres

// Package postgres stores documents in a single JSONB-backed table keyed by
// (collection, id). Filters compile to parameterized JSONB path expressions so
// self-scoping queries are enforced by the database, not by callers.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/pgxutil"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// Store implements ports.DocumentStore over PostgreSQL.
type Store struct {
	DB *sql.DB
}

var _ ports.DocumentStore = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, collection, id string) (ports.Document, error) {
	var fields []byte
	err := pgxutil.WithPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT doc FROM documents WHERE collection = $1 AND id = $2`,
			collection, id,
		).Scan(&fields)
	})
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return ports.Document{}, apperrors.NotFoundf("document %s/%s not found", collection, id)
		}
		return ports.Document{}, mapped
	}
	return ports.Document{ID: id, Fields: fields}, nil
}

func (s *Store) Query(ctx context.Context, collection string, q ports.Query) ([]ports.Document, error) {
	sqlText, args, err := buildQuery(collection, q)
	if err != nil {
		return nil, err
	}

	var docs []ports.Document
	err = pgxutil.WithPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, sqlText, args...)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()

		for rows.Next() {
			var doc ports.Document
			if serr := rows.Scan(&doc.ID, &doc.Fields); serr != nil {
				return serr
			}
			docs = append(docs, doc)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return docs, nil
}

func (s *Store) Create(ctx context.Context, collection, id string, fields any) (string, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "encode document")
	}
	if len(raw) == 0 || raw[0] != '{' {
		return "", apperrors.Validation("document fields must be a JSON object")
	}
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now().UTC()
	err = pgxutil.WithPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx,
			`INSERT INTO documents (collection, id, doc, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $4)`,
			collection, id, raw, now,
		)
		return execErr
	})
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return "", apperrors.Conflict("document " + collection + "/" + id + " already exists")
		}
		return "", mapped
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	if len(partial) == 0 {
		return apperrors.Validation("no fields to update")
	}

	// Dotted keys address nested values; jsonb_set takes the path pieces.
	type patch struct {
		path  []string
		value []byte
	}
	patches := make([]patch, 0, len(partial))
	for key, value := range partial {
		raw, err := json.Marshal(value)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "encode field "+key)
		}
		patches = append(patches, patch{path: strings.Split(key, "."), value: raw})
	}

	err := pgxutil.WithPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		expr := "doc"
		args := []any{collection, id}
		for _, p := range patches {
			expr = fmt.Sprintf("jsonb_set(%s, $%d, $%d, true)", expr, len(args)+1, len(args)+2)
			args = append(args, p.path, p.value)
		}
		tag, execErr := conn.Exec(ctx,
			`UPDATE documents SET doc = `+expr+`, updated_at = now()
			 WHERE collection = $1 AND id = $2`,
			args...,
		)
		if execErr != nil {
			return execErr
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return apperrors.NotFoundf("document %s/%s not found", collection, id)
		}
		return mapped
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	err := pgxutil.WithPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx,
			`DELETE FROM documents WHERE collection = $1 AND id = $2`,
			collection, id,
		)
		return execErr
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

var opSQL = map[ports.FilterOp]string{
	ports.OpEqual:        "=",
	ports.OpNotEqual:     "<>",
	ports.OpGreater:      ">",
	ports.OpGreaterEqual: ">=",
	ports.OpLess:         "<",
	ports.OpLessEqual:    "<=",
}

// buildQuery compiles a ports.Query into parameterized SQL. Field values are
// extracted with the #>> path operator so dotted paths reach nested objects;
// numeric comparands cast the extracted text to numeric.
func buildQuery(collection string, q ports.Query) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, doc FROM documents WHERE collection = $1`)
	args := []any{collection}

	for _, f := range q.Filters {
		op, ok := opSQL[f.Op]
		if !ok {
			return "", nil, apperrors.Validation("unsupported filter operator " + string(f.Op))
		}
		expr, value, err := fieldExpr(f.Field, f.Value)
		if err != nil {
			return "", nil, err
		}
		args = append(args, value)
		fmt.Fprintf(&sb, " AND %s %s $%d", expr, op, len(args))
	}

	if q.OrderBy != "" {
		dir := "ASC"
		if q.Dir == ports.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY doc #>> '%s' %s", pathLiteral(q.OrderBy), dir)
	} else {
		sb.WriteString(" ORDER BY id ASC")
	}

	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}

	return sb.String(), args, nil
}

func fieldExpr(field string, value any) (string, any, error) {
	path := pathLiteral(field)
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("doc #>> '%s'", path), v, nil
	case bool:
		return fmt.Sprintf("(doc #>> '%s')::boolean", path), v, nil
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("(doc #>> '%s')::numeric", path), v, nil
	case time.Time:
		return fmt.Sprintf("doc #>> '%s'", path), v.UTC().Format(time.RFC3339Nano), nil
	default:
		return "", nil, apperrors.Validation(fmt.Sprintf("unsupported filter value type %T", value))
	}
}

// pathLiteral renders a dotted field path as a Postgres text-array literal.
// Path pieces come from compile-time field names, never user input; quotes are
// rejected outright as a guard.
func pathLiteral(field string) string {
	parts := strings.Split(field, ".")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(p, "'", ""), "\"", "")
	}
	return "{" + strings.Join(parts, ",") + "}"
}
