package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/todo/internal/shared/domain"
	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
)

// sqliteTimeLayout is fixed width so stored timestamps also sort as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	taskColumns = `id, task, completed, version, created_at, updated_at`

	insertTaskSQL = `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	listTasksSQL = `SELECT ` + taskColumns + ` FROM tasks ORDER BY id`

	getTaskSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	updateTaskSQL = `UPDATE tasks
		SET task = COALESCE(?, task),
			completed = COALESCE(?, completed),
			version = version + 1,
			updated_at = ?
		WHERE id = ?
		RETURNING ` + taskColumns

	deleteTaskSQL = `DELETE FROM tasks WHERE id = ?`
)

// SQLStore persists tasks in the tasks table of a PostgreSQL or SQLite
// database. The connection is owned by the caller unless Close is used.
type SQLStore struct {
	conn database.Connection
}

// NewSQLStore creates a store over an open connection. Run migrations first.
func NewSQLStore(conn database.Connection) *SQLStore {
	return &SQLStore{conn: conn}
}

// NewPostgresStore and NewSQLiteStore are named constructors that check the
// connection's driver.
func NewPostgresStore(conn database.Connection) (*SQLStore, error) {
	if conn.Driver() != database.DriverPostgres {
		return nil, fmt.Errorf("expected postgres connection, got %s", conn.Driver())
	}
	return NewSQLStore(conn), nil
}

func NewSQLiteStore(conn database.Connection) (*SQLStore, error) {
	if conn.Driver() != database.DriverSQLite {
		return nil, fmt.Errorf("expected sqlite connection, got %s", conn.Driver())
	}
	return NewSQLStore(conn), nil
}

func (s *SQLStore) Create(ctx context.Context, t *task.Task) error {
	if err := validateNew(t); err != nil {
		return err
	}

	_, err := s.conn.Exec(ctx, insertTaskSQL,
		t.ID().String(),
		t.Text(),
		t.Completed(),
		t.Version(),
		s.timeArg(t.CreatedAt()),
		s.timeArg(t.UpdatedAt()),
	)
	return task.NewStoreError("create", err)
}

func (s *SQLStore) List(ctx context.Context) ([]*task.Task, error) {
	rows, err := s.conn.Query(ctx, listTasksSQL)
	if err != nil {
		return nil, task.NewStoreError("list", err)
	}
	defer rows.Close()

	tasks := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, task.NewStoreError("list", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, task.NewStoreError("list", err)
	}
	return tasks, nil
}

func (s *SQLStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := scanTask(s.conn.QueryRow(ctx, getTaskSQL, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, notFound(id)
		}
		return nil, task.NewStoreError("find", err)
	}
	return t, nil
}

// Update applies changes in a single UPDATE ... RETURNING statement.
func (s *SQLStore) Update(ctx context.Context, id uuid.UUID, changes task.Changes) (*task.Task, error) {
	changes, err := changes.Normalize()
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	t, err := scanTask(s.conn.QueryRow(ctx, updateTaskSQL,
		changes.Text,
		changes.Completed,
		s.timeArg(domain.Now()),
		id.String(),
	))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, notFound(id)
		}
		return nil, task.NewStoreError("update", err)
	}
	return t, nil
}

func (s *SQLStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.conn.Exec(ctx, deleteTaskSQL, id.String())
	if err != nil {
		return task.NewStoreError("delete", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return task.NewStoreError("delete", err)
	}
	if affected == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return task.NewStoreError("ping", s.conn.Ping(ctx))
}

func (s *SQLStore) Close() error {
	return s.conn.Close()
}

func (s *SQLStore) timeArg(t time.Time) any {
	if s.conn.Driver() == database.DriverSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

func scanTask(row database.Row) (*task.Task, error) {
	var (
		rawID     string
		text      string
		completed bool
		version   int
		createdAt scannedTime
		updatedAt scannedTime
	)

	if err := row.Scan(&rawID, &text, &completed, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored id %q: %w", rawID, err)
	}

	return task.RehydrateTask(id, text, completed, version, createdAt.Time, updatedAt.Time), nil
}

// scannedTime accepts both native timestamps (pgx) and text (SQLite).
type scannedTime struct {
	time.Time
}

func (st *scannedTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		st.Time = v.UTC()
		return nil
	case string:
		return st.parse(v)
	case []byte:
		return st.parse(string(v))
	case nil:
		return fmt.Errorf("timestamp is NULL")
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (st *scannedTime) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	st.Time = t.UTC()
	return nil
}

var _ sql.Scanner = (*scannedTime)(nil)
