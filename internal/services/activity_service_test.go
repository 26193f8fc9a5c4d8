package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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

func TestActivityServiceLog_AppendsRow(t *testing.T) {
	db, mock := setupMockDB(t)
	service := NewActivityService(repository.NewActivityRepository(db))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `activities`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	taskID := uint64(42)
	service.Log(1, 2, models.ActionTaskCreated, "Created task", models.EntityTask, &taskID, models.JSONMap{"taskTitle": "x"})

	require.NoError(t, mock.ExpectationsWereMet())
}

// A failed append must never surface to the caller: the task or project
// write that triggered it has already been committed.
func TestActivityServiceLog_SwallowsInsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	service := NewActivityService(repository.NewActivityRepository(db))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `activities`").
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	service.Log(1, 2, models.ActionTaskMoved, "Moved task", models.EntityTask, nil, nil)

	require.NoError(t, mock.ExpectationsWereMet())
}
