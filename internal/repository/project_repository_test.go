package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMySQLMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

// The key column is stored as project_key. KEY is a reserved word in MySQL
// and the raw where fragment is not quoted, so a lookup against a column
// named key would be a syntax error there.
func TestProjectFindByKeyIsValidMySQL(t *testing.T) {
	db, mock := setupMySQLMock(t)
	repo := NewProjectRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `projects` WHERE project_key = \\? ORDER BY `projects`\\.`id` LIMIT \\?").
		WithArgs("WEB1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "project_key"}).
			AddRow(1, "Website", "WEB1"))

	project, err := repo.FindByKey("WEB1")
	require.NoError(t, err)
	assert.Equal(t, "WEB1", project.Key)

	assert.NoError(t, mock.ExpectationsWereMet())
}
