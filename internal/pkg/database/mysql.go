package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLConfig describes the time-clock database that device punches are written to.
type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Location *time.Location
}

// Configured reports whether enough settings are present to open a connection.
func (c MySQLConfig) Configured() bool {
	return c.Host != "" && c.User != "" && c.Name != ""
}

// NewMySQLDB opens the punch store. The driver's own timeouts bound hung queries.
func NewMySQLDB(ctx context.Context, c MySQLConfig) (*sql.DB, error) {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.DBName = c.Name
	cfg.ParseTime = true
	cfg.Loc = loc
	cfg.Timeout = 3 * time.Second
	cfg.ReadTimeout = 10 * time.Second
	cfg.WriteTimeout = 10 * time.Second

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open punch database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping punch database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
