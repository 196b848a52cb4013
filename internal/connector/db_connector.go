package connector

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// DatabaseConnector handles database connection and query execution
type DatabaseConnector struct {
	Host     string
	User     string
	Password string
	Database string
	Port     string
	DB       *sql.DB
	Logger   *logrus.Logger
}

// NewDatabaseConnector creates a new database connector
func NewDatabaseConnector(host, user, password, database, port string, logger *logrus.Logger) *DatabaseConnector {
	if host == "" {
		host = getEnvOrDefault("MYSQL_HOST", "localhost")
	}
	if user == "" {
		user = getEnvOrDefault("MYSQL_USER", "root")
	}
	if password == "" {
		password = getEnvOrDefault("MYSQL_PASSWORD", "")
	}
	if database == "" {
		database = getEnvOrDefault("MYSQL_DATABASE", "")
	}
	if port == "" {
		port = getEnvOrDefault("MYSQL_PORT", "3306")
	}

	return &DatabaseConnector{
		Host:     host,
		User:     user,
		Password: password,
		Database: database,
		Port:     port,
		Logger:   logger,
	}
}

// NewDatabaseConnectorWithDB wraps an already opened database handle
func NewDatabaseConnectorWithDB(db *sql.DB, database string, logger *logrus.Logger) *DatabaseConnector {
	return &DatabaseConnector{
		Database: database,
		DB:       db,
		Logger:   logger,
	}
}

// DSN returns the go-sql-driver/mysql data source name
func (dc *DatabaseConnector) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", dc.User, dc.Password, dc.Host, dc.Port, dc.Database)
}

// Connect establishes a connection to the MySQL database
func (dc *DatabaseConnector) Connect() error {
	if dc.Database == "" {
		return fmt.Errorf("database name must be provided either as an argument or as MYSQL_DATABASE environment variable")
	}

	db, err := sql.Open("mysql", dc.DSN())
	if err != nil {
		dc.Logger.Errorf("Error connecting to MySQL database: %v", err)
		return err
	}

	// Test the connection
	err = db.Ping()
	if err != nil {
		dc.Logger.Errorf("Error pinging MySQL database: %v", err)
		db.Close()
		return err
	}

	dc.DB = db
	dc.Logger.Infof("Connected to MySQL database: %s", dc.Database)
	return nil
}

// Disconnect closes the database connection
func (dc *DatabaseConnector) Disconnect() {
	if dc.DB != nil {
		err := dc.DB.Close()
		if err != nil {
			dc.Logger.Errorf("Error closing database connection: %v", err)
		} else {
			dc.Logger.Info("MySQL connection closed")
		}
		dc.DB = nil
	}
}

// DatabaseName returns the schema the connector is bound to
func (dc *DatabaseConnector) DatabaseName() string {
	return dc.Database
}

// QueryRows executes a SQL query and returns the column names together with
// the rows in result order. []byte values are converted to strings.
func (dc *DatabaseConnector) QueryRows(query string, params ...interface{}) ([]string, [][]interface{}, error) {
	if dc.DB == nil {
		if err := dc.Connect(); err != nil {
			return nil, nil, err
		}
	}

	rows, err := dc.DB.Query(query, params...)
	if err != nil {
		dc.Logger.Errorf("Error executing query: %v", err)
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		dc.Logger.Errorf("Error getting columns: %v", err)
		return nil, nil, err
	}

	var results [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			dc.Logger.Errorf("Error scanning row: %v", err)
			return nil, nil, err
		}

		for i, val := range values {
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}
		results = append(results, values)
	}

	if err := rows.Err(); err != nil {
		dc.Logger.Errorf("Error iterating rows: %v", err)
		return nil, nil, err
	}

	return columns, results, nil
}

// ExecuteQuery executes a SQL query and returns the results keyed by column name
func (dc *DatabaseConnector) ExecuteQuery(query string, params ...interface{}) ([]map[string]interface{}, error) {
	columns, rows, err := dc.QueryRows(query, params...)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, 0, len(rows))
	for _, values := range rows {
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}
	return results, nil
}

// ExecuteStatement executes a SQL statement and returns the number of affected rows
func (dc *DatabaseConnector) ExecuteStatement(query string, params ...interface{}) (int64, error) {
	if dc.DB == nil {
		if err := dc.Connect(); err != nil {
			return 0, err
		}
	}

	result, err := dc.DB.Exec(query, params...)
	if err != nil {
		dc.Logger.Errorf("Error executing statement: %v", err)
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		dc.Logger.Errorf("Error getting affected rows: %v", err)
		return 0, err
	}

	return affected, nil
}

// ExecuteMany executes a SQL statement with multiple parameter sets in one transaction
func (dc *DatabaseConnector) ExecuteMany(query string, paramsList [][]interface{}) (int64, error) {
	if dc.DB == nil {
		if err := dc.Connect(); err != nil {
			return 0, err
		}
	}

	tx, err := dc.DB.Begin()
	if err != nil {
		dc.Logger.Errorf("Error starting transaction: %v", err)
		return 0, err
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		dc.Logger.Errorf("Error preparing statement: %v", err)
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var totalAffected int64

	for _, params := range paramsList {
		result, err := stmt.Exec(params...)
		if err != nil {
			dc.Logger.Errorf("Error executing batch statement: %v", err)
			tx.Rollback()
			return 0, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			dc.Logger.Errorf("Error getting affected rows: %v", err)
			tx.Rollback()
			return 0, err
		}

		totalAffected += affected
	}

	if err := tx.Commit(); err != nil {
		dc.Logger.Errorf("Error committing transaction: %v", err)
		return 0, err
	}

	return totalAffected, nil
}

// QuoteIdentifier quotes a table or column name for MySQL
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// getEnvOrDefault gets an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
