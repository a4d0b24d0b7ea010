package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "nested", "lab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Client.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, db.Migrate(ctx))

	_, err := db.Client.Exec(`INSERT INTO labs (id, name, created_at) VALUES ('l1', 'Physics I', ?)`, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, db.Migrate(ctx))
	assert.Equal(t, 1, countRows(t, db, "labs"))
}

func TestSchemaDefaults(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, db.Migrate(ctx))

	_, err := db.Client.Exec(`INSERT INTO classes (id, name) VALUES ('c1', 'Algebra')`)
	require.NoError(t, err)

	var row struct {
		Subject  string `db:"subject"`
		Time     string `db:"time"`
		Capacity int    `db:"capacity"`
	}
	require.NoError(t, db.Client.Get(&row, `SELECT subject, time, capacity FROM classes WHERE id = 'c1'`))
	assert.Equal(t, "General", row.Subject)
	assert.Equal(t, "09:00-11:00", row.Time)
	assert.Equal(t, 90, row.Capacity)
}

func TestStatusCheckConstraint(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, db.Migrate(ctx))

	_, err := db.Client.Exec(`INSERT INTO lab_attendance (id, lab_id, student_name, student_id, status, date)
		VALUES ('a1', 'l1', 'A', 'S1', 'excused', '2024-01-01')`)
	require.Error(t, err)
	assert.Equal(t, 0, countRows(t, db, "lab_attendance"))
}

func TestDeleteDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, db.Migrate(ctx))

	_, err := db.Client.Exec(`INSERT INTO labs (id, name) VALUES ('l1', 'Physics I')`)
	require.NoError(t, err)
	_, err = db.Client.Exec(`INSERT INTO lab_attendance (id, lab_id, student_name, student_id, status, date)
		VALUES ('a1', 'l1', 'A', 'S1', 'present', '2024-01-01')`)
	require.NoError(t, err)

	_, err = db.Client.Exec(`DELETE FROM labs WHERE id = 'l1'`)
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, db, "lab_attendance"))
}

func TestRecreateDropsData(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, db.Migrate(ctx))

	_, err := db.Client.Exec(`INSERT INTO labs (id, name) VALUES ('l1', 'Physics I')`)
	require.NoError(t, err)

	require.NoError(t, db.Recreate(ctx))
	for _, table := range []string{"labs", "classes", "lab_attendance", "class_attendance"} {
		assert.Equal(t, 0, countRows(t, db, table), table)
	}
}

func TestNilRedisIsUnhealthy(t *testing.T) {
	r := NewRedis("")
	assert.Nil(t, r)
	assert.False(t, r.Healthy(context.Background()))
	assert.NoError(t, r.Close())
}
