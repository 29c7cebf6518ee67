package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Run("test env", func(t *testing.T) {
		t.Setenv("ENV", "test")
		conf := NewConfig()

		assert.Equal(t, "TEST", conf.Env)
		assert.True(t, conf.TestMode)
		assert.Equal(t, EngineMemory, conf.Store.Engine)
		assert.Equal(t, "HRMS", conf.AppName)
		assert.Equal(t, 8*time.Hour, conf.Server.JWTExpirationDelta)
	})

	t.Run("dev defaults", func(t *testing.T) {
		t.Setenv("ENV", "")
		conf := NewConfig()

		assert.Equal(t, "DEV", conf.Env)
		assert.False(t, conf.TestMode)
		assert.True(t, conf.Debug)
		assert.Equal(t, EngineFile, conf.Store.Engine)
		assert.Equal(t, "data", conf.Store.Dir)
		assert.Equal(t, ":8000", conf.Server.Address)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("ENV", "qa")
		t.Setenv("QA_DEBUG", "false")
		t.Setenv("QA_STORE_ENGINE", EngineSQLite)
		t.Setenv("QA_STORE_DSN", "hrms.db")
		t.Setenv("QA_SERVER_SHUTDOWNTIMEOUT", "3s")
		conf := NewConfig()

		assert.Equal(t, "QA", conf.Env)
		assert.False(t, conf.Debug)
		assert.Equal(t, EngineSQLite, conf.Store.Engine)
		assert.Equal(t, "hrms.db", conf.Store.DSN)
		assert.Equal(t, 3*time.Second, conf.Server.ShutdownTimeout)
	})
}
