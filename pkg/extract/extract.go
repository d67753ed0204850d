package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/table"
)

// Supported drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Query is one named SQL statement. Name only shows up in logs.
type Query struct {
	Name string `mapstructure:"name"`
	SQL  string `mapstructure:"query"`
}

// Result pairs a query with the rows it returned.
type Result struct {
	Query
	Data *table.Table
}

// MySQLConfig holds the connection settings of a MySQL server, using the key
// names of a project configuration document.
type MySQLConfig struct {
	Host     string `mapstructure:"sql_hostname"`
	User     string `mapstructure:"sql_username"`
	Password string `mapstructure:"sql_password"`
	Database string `mapstructure:"sql_main_database"`
	Port     int    `mapstructure:"sql_port"`
}

// DecodeMySQLConfig reads connection settings from plain data.
func DecodeMySQLConfig(raw any) (MySQLConfig, error) {
	var c MySQLConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return c, errors.Wrap(err, errors.ErrInternal, "failed to create decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return c, errors.Wrap(err, errors.ErrInvalidInput, "invalid database settings")
	}
	if c.Port == 0 {
		c.Port = 3306
	}
	return c, nil
}

// DSN formats the settings for the mysql driver.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", c.User, c.Password, c.Host, c.Port, c.Database)
}

// LoadQuery reads a .sql file. An empty file is logged but not an error.
func LoadQuery(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Newf(errors.ErrFileNotFound, "SQL file %s does not exist", path)
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to read SQL file %s", path)
	}
	sql := string(data)
	if strings.TrimSpace(sql) == "" {
		logger := logging.GetLogger("extract")
		logger.Error().Str("file", path).Msg("no content in SQL file")
	}
	return sql, nil
}

// Open connects to a database. driver is DriverMySQL or DriverSQLite.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported driver %q", driver).
			WithDetail("supported", []string{DriverMySQL, DriverSQLite})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrQuery, "failed to connect to %s database", driver)
	}
	logger := logging.GetLogger("extract")
	logger.Info().Str("driver", driver).Msg("connected to database")
	return db, nil
}

// QueryData runs queries in order and returns one result per query.
func QueryData(ctx context.Context, db *gorm.DB, queries []Query) ([]Result, error) {
	logger := logging.GetLogger("extract")
	results := make([]Result, 0, len(queries))
	for _, q := range queries {
		start := time.Now()
		logger.Info().Str("query", q.Name).Msg("running query")

		data, err := queryTable(ctx, db, q.SQL)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrQuery, "query %q failed", q.Name).
				WithDetail("query", q.Name)
		}
		results = append(results, Result{Query: q, Data: data})

		logger.Info().
			Str("query", q.Name).
			Int("rows", data.Len()).
			Dur("duration", time.Since(start)).
			Msg("query done")
	}
	return results, nil
}

func queryTable(ctx context.Context, db *gorm.DB, sql string) (*table.Table, error) {
	rows, err := db.WithContext(ctx).Raw(sql).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	t, err := table.FromRows(cols, nil)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		if err := t.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return t, rows.Err()
}
