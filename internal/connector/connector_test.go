package connector

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
)

// Helper function to create a test logger
func createTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return logger
}

func newMockConnector(t *testing.T) (*DatabaseConnector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewDatabaseConnectorWithDB(db, "shop", createTestLogger()), mock
}

func TestNewDatabaseConnector(t *testing.T) {
	t.Setenv("MYSQL_HOST", "test-host")
	t.Setenv("MYSQL_USER", "test-user")
	t.Setenv("MYSQL_PASSWORD", "test-password")
	t.Setenv("MYSQL_DATABASE", "test-database")
	t.Setenv("MYSQL_PORT", "3307")

	logger := createTestLogger()

	// Check that environment variables were used
	db := NewDatabaseConnector("", "", "", "", "", logger)
	if db.Host != "test-host" {
		t.Errorf("Expected host to be 'test-host', got '%s'", db.Host)
	}
	if db.User != "test-user" {
		t.Errorf("Expected user to be 'test-user', got '%s'", db.User)
	}
	if db.Password != "test-password" {
		t.Errorf("Expected password to be 'test-password', got '%s'", db.Password)
	}
	if db.Database != "test-database" {
		t.Errorf("Expected database to be 'test-database', got '%s'", db.Database)
	}
	if db.Port != "3307" {
		t.Errorf("Expected port to be '3307', got '%s'", db.Port)
	}

	// Check that explicit parameters win
	db = NewDatabaseConnector("explicit-host", "explicit-user", "explicit-password", "explicit-database", "3308", logger)
	if db.Host != "explicit-host" {
		t.Errorf("Expected host to be 'explicit-host', got '%s'", db.Host)
	}
	if db.Database != "explicit-database" {
		t.Errorf("Expected database to be 'explicit-database', got '%s'", db.Database)
	}
	if db.Port != "3308" {
		t.Errorf("Expected port to be '3308', got '%s'", db.Port)
	}

	expectedDSN := "explicit-user:explicit-password@tcp(explicit-host:3308)/explicit-database?parseTime=true"
	if db.DSN() != expectedDSN {
		t.Errorf("Expected DSN %q, got %q", expectedDSN, db.DSN())
	}
}

func TestConnectRequiresDatabase(t *testing.T) {
	db := &DatabaseConnector{Logger: createTestLogger()}
	if err := db.Connect(); err == nil {
		t.Error("Expected an error when no database name is set")
	}
}

func TestQueryRows(t *testing.T) {
	db, mock := newMockConnector(t)

	mock.ExpectQuery("SELECT id, name FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), []byte("alice")).
			AddRow(int64(2), nil))

	columns, rows, err := db.QueryRows("SELECT id, name FROM users")
	if err != nil {
		t.Fatalf("QueryRows() failed: %v", err)
	}
	if len(columns) != 2 || columns[0] != "id" || columns[1] != "name" {
		t.Errorf("Unexpected columns %v", columns)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "alice" {
		t.Errorf("Expected []byte to be converted to string, got %#v", rows[0][1])
	}
	if rows[1][1] != nil {
		t.Errorf("Expected NULL to stay nil, got %#v", rows[1][1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestExecuteQuery(t *testing.T) {
	db, mock := newMockConnector(t)

	mock.ExpectQuery("SELECT table_name FROM information_schema.tables").
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("orders"))

	result, err := db.ExecuteQuery("SELECT table_name FROM information_schema.tables WHERE table_schema = ?", "shop")
	if err != nil {
		t.Fatalf("ExecuteQuery() failed: %v", err)
	}
	if len(result) != 1 || result[0]["table_name"] != "orders" {
		t.Errorf("Unexpected result %v", result)
	}
}

func TestExecuteQueryError(t *testing.T) {
	db, mock := newMockConnector(t)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("boom"))

	if _, err := db.ExecuteQuery("SELECT 1"); err == nil {
		t.Error("Expected the query error to be returned")
	}
}

func TestExecuteMany(t *testing.T) {
	db, mock := newMockConnector(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO `orders`")
	prep.ExpectExec().WithArgs("a", 1).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("b", 2).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	affected, err := db.ExecuteMany("INSERT INTO `orders` (name, qty) VALUES (?, ?)", [][]interface{}{
		{"a", 1},
		{"b", 2},
	})
	if err != nil {
		t.Fatalf("ExecuteMany() failed: %v", err)
	}
	if affected != 2 {
		t.Errorf("Expected 2 affected rows, got %d", affected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestExecuteManyRollsBackOnError(t *testing.T) {
	db, mock := newMockConnector(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO")
	prep.ExpectExec().WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	if _, err := db.ExecuteMany("INSERT INTO t (a) VALUES (?)", [][]interface{}{{1}}); err == nil {
		t.Error("Expected the exec error to be returned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	if got := QuoteIdentifier("orders"); got != "`orders`" {
		t.Errorf("Expected `orders`, got %s", got)
	}
	if got := QuoteIdentifier("we`ird"); got != "`we``ird`" {
		t.Errorf("Expected escaped backtick, got %s", got)
	}
}
