package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func openMySQL(cfg Config) (*gorm.DB, error) {
	dsn, err := buildMySQLDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(mysql.Open(dsn), gormConfig())
}

// buildMySQLDSN assembles the DSN with the driver's own formatter so
// credentials need no escaping. Options may name driver settings (tls,
// timeout) as well as session variables; both are routed by ParseDSN.
func buildMySQLDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("mysql configuration requires user and database name")
	}

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	base := mysqldriver.NewConfig()
	base.User = cfg.User
	base.Passwd = cfg.Password
	base.Net = "tcp"
	base.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	base.DBName = cfg.Name
	base.ParseTime = true

	params := url.Values{"charset": {"utf8mb4"}}
	for key, value := range cfg.Options {
		params.Set(key, value)
	}

	dsn := base.FormatDSN()
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	parsed, err := mysqldriver.ParseDSN(dsn + sep + params.Encode())
	if err != nil {
		return "", fmt.Errorf("mysql options: %w", err)
	}
	return parsed.FormatDSN(), nil
}
