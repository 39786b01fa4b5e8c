package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	var my Database
	my.SetDefaults()
	assert.Equal(t, TypeMySQL, my.Type)
	assert.Equal(t, "3306", my.Port)

	pg := Database{Type: TypePostgres}
	pg.SetDefaults()
	assert.Equal(t, "5432", pg.Port)
	assert.Equal(t, "disable", pg.SSLMode)
}

func TestBuildDSN(t *testing.T) {
	c := Database{Host: "db", Port: "3306", User: "u", Password: "p", DBName: "quiz", SSLMode: "require"}
	assert.Equal(t, "u:p@tcp(db:3306)/quiz?charset=utf8mb4&parseTime=True&loc=Local", buildMySQLDSN(c))
	assert.Contains(t, buildPostgresDSN(c), "host=db port=3306 user=u password=p dbname=quiz sslmode=require")
}

func TestNewDialector(t *testing.T) {
	for _, typ := range []string{TypeMySQL, TypePostgres} {
		d, err := newDialector(Database{Type: typ})
		require.NoError(t, err)
		assert.Equal(t, typ, d.Name())
	}

	_, err := newDialector(Database{Type: "oracle"})
	assert.Error(t, err)
}
