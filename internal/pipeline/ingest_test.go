package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFiles(t *testing.T) {
	cfg := testEnv(t)
	writeInput(t, cfg, "b_2023_02.csv", exportHeader)
	writeInput(t, cfg, "a_2023_01.CSV", exportHeader)
	writeInput(t, cfg, "notes.txt", "ignore me")
	nested := filepath.Join(cfg.InputDir, "archive")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "old.csv"), []byte(exportHeader), 0644))

	files, err := DiscoverFiles(cfg.InputDir, cfg.FilePattern)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(cfg.InputDir, "a_2023_01.CSV"),
		filepath.Join(cfg.InputDir, "b_2023_02.csv"),
	}, files)
}

func TestDiscoverFiles_MissingDir(t *testing.T) {
	_, err := DiscoverFiles(filepath.Join(t.TempDir(), "nope"), "*.csv")
	assert.ErrorContains(t, err, "failed to read input directory")
}

func TestLoadFile(t *testing.T) {
	cfg := testEnv(t)
	path := writeInput(t, cfg, "2023.csv", exportHeader+
		"2023-01-15,2023-01-01,alice,CA,M,$50.00,$5.00\n"+
		"2023-02-01,,alice,NY,S,N/A,$3.00\n")

	res, err := LoadFile(quietContext(), path, cfg)
	require.NoError(t, err)

	require.Len(t, res.Transactions, 2)
	assert.Empty(t, res.Rejected)
	assert.Equal(t, 2, res.Transactions[0].Line)
	assert.Equal(t, 3, res.Transactions[1].Line)
	assert.False(t, res.Transactions[1].Total.Valid)

	require.Len(t, res.Files, 1)
	stats := res.Files[0]
	assert.Equal(t, path, stats.Path)
	assert.Equal(t, 2, stats.RowsRead)
	assert.Equal(t, 2, stats.RowsLoaded)
	assert.Equal(t, 0, stats.RowsRejected)
	assert.Equal(t, 1, stats.MissingTotals)
	assert.Equal(t, 0, stats.MissingFees)
}

func TestLoadFile_RejectsBadRowsAndKeepsTheRest(t *testing.T) {
	cfg := testEnv(t)
	path := writeInput(t, cfg, "2023.csv", exportHeader+
		"2023-01-15,2023-01-01,alice,CA,M,$50.00,$5.00\n"+
		"not a date,2023-01-01,bob,CA,M,$10.00,$1.00\n"+
		"2023-01-20,2023-01-01,carol,CA\n"+
		"2023-03-03,2023-01-01,dave,TX,L,$20.00,$2.00\n")

	res, err := LoadFile(quietContext(), path, cfg)
	require.NoError(t, err)

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "alice", res.Transactions[0].Buyer)
	assert.Equal(t, "dave", res.Transactions[1].Buyer)

	require.Len(t, res.Rejected, 2)
	assert.Equal(t, 3, res.Rejected[0].Line)
	assert.Contains(t, res.Rejected[0].Reason, "Date of sale")
	assert.Equal(t, 4, res.Rejected[1].Line)
	assert.Contains(t, res.Rejected[1].Reason, "expected 7 fields, got 4")

	assert.Equal(t, 4, res.Files[0].RowsRead)
	assert.Equal(t, 2, res.Files[0].RowsRejected)
}

func TestLoadFile_SchemaError(t *testing.T) {
	cfg := testEnv(t)
	path := writeInput(t, cfg, "broken.csv",
		"Date of sale,Date of listing,Buyer,State,Size,Total\n2023-01-15,2023-01-01,alice,CA,M,$50.00\n")

	_, err := LoadFile(quietContext(), path, cfg)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	assert.Equal(t, path, schemaErr.File)
	assert.Equal(t, "Depop fee", schemaErr.Column)
	assert.Contains(t, err.Error(), "broken.csv")
}

func TestLoadFile_EmptyFileIsSchemaError(t *testing.T) {
	cfg := testEnv(t)
	path := writeInput(t, cfg, "empty.csv", "")

	_, err := LoadFile(quietContext(), path, cfg)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "Date of sale", schemaErr.Column)
}

func TestLoadFile_HeaderCleaning(t *testing.T) {
	cfg := testEnv(t)
	path := writeInput(t, cfg, "bom.csv",
		"\ufeff\"Date of sale\", Date of listing ,Buyer,State,Size,Total,\"Depop fee\"\n"+
			"2023-04-10,2023-04-01,erin,Ontario,XS,$12.00,$1.20\n")

	res, err := LoadFile(quietContext(), path, cfg)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, 4, res.Transactions[0].Month)
	assert.True(t, res.Transactions[0].Fee.Decimal.Equal(dec("1.20")))
}

func TestLoadFile_ExtraColumnsIgnored(t *testing.T) {
	cfg := testEnv(t)
	path := writeInput(t, cfg, "extra.csv",
		"Item,Date of sale,Date of listing,Buyer,State,Size,Total,Depop fee,Payment type\n"+
			"jacket,2023-05-10,2023-05-01,frank,CA,L,$80.00,$8.00,card\n")

	res, err := LoadFile(quietContext(), path, cfg)
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "frank", res.Transactions[0].Buyer)
	assert.Equal(t, "L", res.Transactions[0].Size)
}

func TestLoadDirectory_ConcatenatesWithoutDedup(t *testing.T) {
	cfg := testEnv(t)
	row := "2023-01-15,2023-01-01,alice,CA,M,$50.00,$5.00\n"
	writeInput(t, cfg, "jan.csv", exportHeader+row)
	writeInput(t, cfg, "jan_copy.csv", exportHeader+row)
	writeInput(t, cfg, "feb.csv", exportHeader+"2023-02-01,2023-01-20,alice,NY,S,$30.00,$3.00\n")

	res, err := LoadDirectory(quietContext(), cfg)
	require.NoError(t, err)

	assert.Len(t, res.Transactions, 3, "duplicate rows across files are kept")
	assert.Len(t, res.Files, 3)
}

func TestLoadDirectory_SchemaErrorAbortsRun(t *testing.T) {
	cfg := testEnv(t)
	writeInput(t, cfg, "a.csv", exportHeader+"2023-01-15,2023-01-01,alice,CA,M,$50.00,$5.00\n")
	writeInput(t, cfg, "b.csv", "Date of sale,Buyer\n2023-01-15,alice\n")

	res, err := LoadDirectory(quietContext(), cfg)

	assert.Nil(t, res)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, filepath.Join(cfg.InputDir, "b.csv"), schemaErr.File)
	assert.Equal(t, "Date of listing", schemaErr.Column)
}

func TestLoadDirectory_Empty(t *testing.T) {
	cfg := testEnv(t)

	res, err := LoadDirectory(quietContext(), cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Transactions)
	assert.Empty(t, res.Files)
}
