package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go-sales-report/internal/config"
	"go-sales-report/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const exportHeader = "Date of sale,Date of listing,Buyer,State,Size,Total,Depop fee\n"

// testEnv is a config pointing at fresh input/output dirs under t.TempDir
func testEnv(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.InputDir = filepath.Join(dir, "input")
	cfg.OutputDir = filepath.Join(dir, "output")
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0755))
	return cfg
}

func writeInput(t *testing.T, cfg *config.Config, name, content string) string {
	t.Helper()
	path := filepath.Join(cfg.InputDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func quietContext() context.Context {
	return logger.WithContext(context.Background(), logger.NewWithWriter(io.Discard))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}
