package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"reistoq/internal/handler"
	"reistoq/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestHealth(t *testing.T) {
	t.Run("sqlite without redis", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", handler.Health(testutil.NewSQLiteDB(t), nil))

		w := doJSON(r, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true,"db":"connected","redis":"disabled"}`, w.Body.String())
	})

	t.Run("database ping fails", func(t *testing.T) {
		db, mock := mockDB(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		r := gin.New()
		r.GET("/health", handler.Health(db, nil))

		w := doJSON(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"ok":false,"db":"error","redis":"disabled"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "refused")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database ping succeeds", func(t *testing.T) {
		db, mock := mockDB(t)
		mock.ExpectPing()

		r := gin.New()
		r.GET("/health", handler.Health(db, nil))

		w := doJSON(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
