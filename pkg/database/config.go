// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const dataTablePrefix = "t_"

// Database represents the database configuration.
type Database struct {
	Type         string `mapstructure:"type"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	OutPut       bool   `mapstructure:"output"`
	AutoMigrate  bool   `mapstructure:"autoMigrate"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	MaxLifetime  int    `mapstructure:"maxLifeTime"`
	MaxIdleTime  int    `mapstructure:"maxIdleTime"`
	// SSLMode 仅 postgres 使用
	SSLMode string `mapstructure:"sslMode"`
}

const (
	TypeMySQL    = "mysql"
	TypePostgres = "postgres"
)

// SetDefaults fills zero values.
func (d *Database) SetDefaults() {
	if d.Type == "" {
		d.Type = TypeMySQL
	}
	if d.Port == "" {
		d.Port = "3306"
		if d.Type == TypePostgres {
			d.Port = "5432"
		}
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.MaxOpenConns <= 0 {
		d.MaxOpenConns = 50
	}
	if d.MaxIdleConns <= 0 {
		d.MaxIdleConns = 10
	}
}

// GetConnMaxLifetime returns ConnMaxLifetime as time.Duration
func GetConnMaxLifetime(maxLifetime int) time.Duration {
	if maxLifetime > 0 {
		return time.Duration(maxLifetime) * time.Second
	}
	return 300 * time.Second
}

// GetConnMaxIdleTime returns ConnMaxIdleTime as time.Duration
func GetConnMaxIdleTime(maxIdleTime int) time.Duration {
	if maxIdleTime > 0 {
		return time.Duration(maxIdleTime) * time.Second
	}
	return 60 * time.Second
}

func newDialector(cfg Database) (gorm.Dialector, error) {
	switch cfg.Type {
	case TypeMySQL:
		return mysql.Open(buildMySQLDSN(cfg)), nil
	case TypePostgres:
		return postgres.Open(buildPostgresDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// buildMySQLDSN builds MySQL DSN string from configuration.
// loc=Local keeps DATETIME columns in the process zone, which the reminder
// windows rely on.
func buildMySQLDSN(c Database) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// buildPostgresDSN pins the session zone to the process zone, matching
// loc=Local on MySQL.
func buildPostgresDSN(c Database) string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	if zone := time.Local.String(); zone != "Local" {
		dsn += " TimeZone=" + zone
	}
	return dsn
}
