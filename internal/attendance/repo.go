package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"labattend/internal/model"
)

// Repository persists sessions and attendance in SQLite.
// Table names come from model.Kind, never from callers.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a repo.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const sessionColumns = `id, name, subject, date, time, capacity, created_at`

// ListSessions returns every session of kind k, newest first.
func (r *Repository) ListSessions(ctx context.Context, k model.Kind) ([]model.Session, error) {
	var out []model.Session
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+sessionColumns+` FROM `+k.Table+` ORDER BY created_at DESC, rowid DESC`)
	return out, err
}

// GetSession returns nil, nil when id does not exist.
func (r *Repository) GetSession(ctx context.Context, k model.Kind, id string) (*model.Session, error) {
	var s model.Session
	err := r.db.GetContext(ctx, &s, `SELECT `+sessionColumns+` FROM `+k.Table+` WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// InsertSession writes a fully populated session.
func (r *Repository) InsertSession(ctx context.Context, k model.Kind, s model.Session) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO `+k.Table+` (id, name, subject, date, time, capacity, created_at)
		VALUES (:id, :name, :subject, :date, :time, :capacity, :created_at)
	`, s)
	return err
}

// UpdateSession replaces the mutable fields of s. It reports whether a row matched.
func (r *Repository) UpdateSession(ctx context.Context, k model.Kind, s model.Session) (bool, error) {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE `+k.Table+`
		SET name = :name, subject = :subject, date = :date, time = :time, capacity = :capacity
		WHERE id = :id
	`, s)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// DeleteSession removes one session. Its attendance rows are left in place.
func (r *Repository) DeleteSession(ctx context.Context, k model.Kind, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+k.Table+` WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// SessionExists reports whether id names a session of kind k.
func (r *Repository) SessionExists(ctx context.Context, k model.Kind, id string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+k.Table+` WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountSessions returns the number of sessions of kind k.
func (r *Repository) CountSessions(ctx context.Context, k model.Kind) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+k.Table)
	return n, err
}

// InsertAttendance writes one attendance row for kind k.
func (r *Repository) InsertAttendance(ctx context.Context, k model.Kind, id string, in model.NewAttendance, createdAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO `+k.AttendanceTable+` (id, `+k.ForeignKey+`, student_name, student_id, status, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, in.SessionID, in.StudentName, in.StudentID, in.Status, in.Date, createdAt)
	return err
}

// CountAttendanceByStatus tallies attendance rows of kind k recorded for date.
func (r *Repository) CountAttendanceByStatus(ctx context.Context, k model.Kind, date string) (model.StatusCounts, error) {
	var rows []struct {
		Status model.Status `db:"status"`
		N      int          `db:"n"`
	}
	var counts model.StatusCounts
	err := r.db.SelectContext(ctx, &rows,
		`SELECT status, COUNT(*) AS n FROM `+k.AttendanceTable+` WHERE date = ? GROUP BY status`, date)
	if err != nil {
		return counts, err
	}
	for _, row := range rows {
		counts.Add(row.Status, row.N)
	}
	return counts, nil
}

// ListLabAttendance returns lab attendance matching f, newest first.
func (r *Repository) ListLabAttendance(ctx context.Context, f model.AttendanceFilter) ([]model.LabAttendance, error) {
	return listAttendance[model.LabAttendance](ctx, r.db, model.LabKind, f)
}

// ListClassAttendance returns class attendance matching f, newest first.
func (r *Repository) ListClassAttendance(ctx context.Context, f model.AttendanceFilter) ([]model.ClassAttendance, error) {
	return listAttendance[model.ClassAttendance](ctx, r.db, model.ClassKind, f)
}

// listAttendance left-joins the owning session so orphaned rows still appear with a null name.
func listAttendance[T any](ctx context.Context, db *sqlx.DB, k model.Kind, f model.AttendanceFilter) ([]T, error) {
	query := fmt.Sprintf(`
		SELECT a.id AS id, a.%[1]s AS %[1]s, a.student_name AS student_name, a.student_id AS student_id,
			a.status AS status, a.date AS date, a.created_at AS created_at, s.name AS %[2]s
		FROM %[3]s a
		LEFT JOIN %[4]s s ON s.id = a.%[1]s`,
		k.ForeignKey, k.JoinedName, k.AttendanceTable, k.Table)

	args := []any{}
	clauses := []string{}
	if f.SessionID != "" {
		clauses = append(clauses, "a."+k.ForeignKey+" = ?")
		args = append(args, f.SessionID)
	}
	if f.Date != "" {
		clauses = append(clauses, "a.date = ?")
		args = append(args, f.Date)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY a.created_at DESC, a.rowid DESC"

	var out []T
	if err := db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
