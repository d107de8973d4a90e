package checks

import (
	"testing"

	"listing-sync/core/database"
	"listing-sync/feature/listings/history"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func showColumns(types map[string]string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, col := range history.Columns {
		typ, ok := types[col]
		if !ok {
			typ = "bigint"
		}
		if typ == "" {
			continue
		}
		rows.AddRow(col, typ, "YES", "", nil, "")
	}
	return rows
}

func TestCheckHistorySchema_NilDB(t *testing.T) {
	report, err := CheckHistorySchema(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckHistorySchema_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `sync_runs`").WillReturnRows(showColumns(map[string]string{"error": "TEXT"}))

	report, err := CheckHistorySchema(db)
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "mysql", report.Driver)
	assert.Equal(t, "ok", report.Tables["sync_runs"].Status)
}

func TestCheckHistorySchema_MissingAndMismatch(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `sync_runs`").
		WillReturnRows(showColumns(map[string]string{"archive_key": "", "error": "varchar(255)"}))

	report, err := CheckHistorySchema(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)

	table := report.Tables["sync_runs"]
	assert.Equal(t, "error", table.Status)
	assert.Equal(t, []string{"archive_key"}, table.MissingColumns)
	require.Len(t, table.TypeMismatches, 1)
	assert.Contains(t, table.TypeMismatches[0], "error: expected text")
}

func TestCheckHistorySchema_InspectFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `sync_runs`").WillReturnError(assert.AnError)

	report, err := CheckHistorySchema(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.NotEmpty(t, report.Errors)
}

func TestCheckHistorySchema_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	report, err := CheckHistorySchema(db)
	require.NoError(t, err)
	assert.False(t, report.Matched, "table not migrated yet")

	require.NoError(t, history.NewRepository(db).Migrate())
	report, err = CheckHistorySchema(db)
	require.NoError(t, err)
	assert.True(t, report.Matched)
}

func TestParseGormTags(t *testing.T) {
	assert.Equal(t, "item_name", parseGormColumn("column:item_name;size:70"))
	assert.Equal(t, "", parseGormColumn("primaryKey;size:36"))
	assert.Equal(t, "text", parseGormType("type:text"))
	assert.Equal(t, "", parseGormType("size:255;index"))
}
