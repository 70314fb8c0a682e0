package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/cppla/riqqa/remote"
)

func TestPostgresDSN(t *testing.T) {
	cfg := AppConfig{DBHost: "db", DBUser: "riqqa", DBPassword: "pw", DBName: "riqqa", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=riqqa password=pw dbname=riqqa port=5432 sslmode=disable TimeZone=UTC", postgresDSN(cfg))

	cfg.DatabaseURI = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:p@h/db", postgresDSN(cfg))
}

func TestMySQLDSN(t *testing.T) {
	cfg := AppConfig{DBHost: "db", DBUser: "root", DBPassword: "pw", DBName: "riqqa", DBPort: "3306"}
	assert.Equal(t, "root:pw@tcp(db:3306)/riqqa?charset=utf8mb4&parseTime=True&loc=UTC", mysqlDSN(cfg))
}

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor(AppConfig{DBDriver: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = dialectorFor(AppConfig{DBDriver: "MySQL"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = dialectorFor(AppConfig{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestInitDataSourceMemory(t *testing.T) {
	src, closeFn := InitDataSource(AppConfig{DBDriver: "memory"})
	assert.IsType(t, &remote.MemorySource{}, src)
	assert.NoError(t, closeFn())
}

func TestToGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, toGormLogLevel("debug"))
	assert.Equal(t, logger.Warn, toGormLogLevel("info"))
	assert.Equal(t, logger.Error, toGormLogLevel("error"))
	assert.Equal(t, logger.Silent, toGormLogLevel("silent"))
}
