package server

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/snoozer/internal/server/config"
	"github.com/stretchr/testify/require"
)

func TestNewApp_BadDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "not a dsn"
	cfg.LogLevel = "error"

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "db init error")
}
