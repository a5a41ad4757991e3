package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tirasundara/settlement-optimizer/pkg/fileutil"
)

func TestCSVReader_ReadAndProcessByRow(t *testing.T) {
	src := "participant, amount ,role\n# comment\nalice, 10 ,pay\nbob,10,get\n"
	reader := fileutil.NewCSVReaderFrom("inline", strings.NewReader(src))

	var header []string
	var lines []int
	var rows [][]string
	err := reader.ReadAndProcessByRow(
		func(h []string) error {
			header = append(header, h...)
			return nil
		},
		func(line int, row []string) error {
			lines = append(lines, line)
			rows = append(rows, append([]string(nil), row...))
			return nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"participant", "amount", "role"}, header)
	assert.Equal(t, [][]string{{"alice", "10", "pay"}, {"bob", "10", "get"}}, rows)
	assert.Equal(t, []int{3, 4}, lines)
}

func TestCSVReader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balances.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	count := 0
	err := fileutil.NewCSVReader(path).ReadAndProcessByRow(
		func([]string) error { return nil },
		func(int, []string) error {
			count++
			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCSVReader_Errors(t *testing.T) {
	noop := func([]string) error { return nil }
	noopRow := func(int, []string) error { return nil }

	err := fileutil.NewCSVReader(filepath.Join(t.TempDir(), "missing.csv")).ReadAndProcessByRow(noop, noopRow)
	assert.Error(t, err)

	err = fileutil.NewCSVReaderFrom("empty", strings.NewReader("")).ReadAndProcessByRow(noop, noopRow)
	assert.ErrorIs(t, err, fileutil.ErrEmptyFile)

	stop := errors.New("stop")
	err = fileutil.NewCSVReaderFrom("x", strings.NewReader("a\n1\n")).ReadAndProcessByRow(
		func([]string) error { return stop }, noopRow)
	assert.ErrorIs(t, err, stop)
}
