package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sentimentcsv/internal/config"
)

func writeTempCSV(t *testing.T, content [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, csv.NewWriter(f).WriteAll(content))
	require.NoError(t, f.Close())
	return path
}

// execute runs a fresh command tree with an empty env file and a clean environment.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"INPUT_FILE", "OUTPUT_FILE", "IN_PLACE", "CLASSIFIER", "TARGET_COLUMN", "COLUMN_KEYWORDS", "LEXICON_FILE", "GEMINI_API_KEY"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o644))

	logger = zap.NewNop()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", envFile, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

var coffee = [][]string{
	{"Origin", "Coffee D - Notes"},
	{"Kenya", "Great coffee!"},
	{"Peru", ""},
	{"Brazil", "Terrible, burnt taste"},
}

func TestRunCmd(t *testing.T) {
	in := writeTempCSV(t, coffee)
	outFile := filepath.Join(t.TempDir(), "out.csv")

	out, err := execute(t, "run", "--input", in, "--output", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Coffee D - Notes -> Coffee_D___Notes_Sentiment: Positive=1 Negative=1 Neutral=1")
	assert.Contains(t, out, "New columns: Coffee_D___Notes_Sentiment")

	f, err := os.Open(outFile)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Positive", "Neutral", "Negative"}, []string{rows[1][2], rows[2][2], rows[3][2]})
}

func TestRunCmdMissingInput(t *testing.T) {
	_, err := execute(t, "run")
	require.ErrorIs(t, err, config.ErrInputRequired)
	assert.Equal(t, "input_file is required (set INPUT_FILE in your environment or .env)", err.Error())
}

func TestRunCmdFlagsOverrideConfig(t *testing.T) {
	in := writeTempCSV(t, [][]string{
		{"Notes", "Other"},
		{"awful", "lovely"},
	})
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "sentimentcsv.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("target_column: Notes\noutput_file: "+filepath.Join(dir, "ignored.csv")+"\n"), 0o644))
	outFile := filepath.Join(dir, "out.csv")

	out, err := execute(t, "--config", cfgFile, "run", "--input", in, "-o", outFile, "--column", "Other")
	require.NoError(t, err)
	assert.Contains(t, out, "Other -> Other_Sentiment: Positive=1")
	assert.FileExists(t, outFile)
	assert.NoFileExists(t, filepath.Join(dir, "ignored.csv"))
}

func TestRunCmdNoMatch(t *testing.T) {
	in := writeTempCSV(t, coffee)
	outFile := filepath.Join(t.TempDir(), "out.csv")

	out, err := execute(t, "run", "-i", in, "-o", outFile, "-k", "tasting", "-k", "score")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing written")
	assert.NoFileExists(t, outFile)
}

func TestClassifyCmd(t *testing.T) {
	out, err := execute(t, "classify", "Great coffee!", "Terrible, burnt taste", "   ")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Positive\tGreat coffee!",
		"Negative\tTerrible, burnt taste",
		"Neutral\t   ",
	}, strings.Split(strings.TrimRight(out, "\n"), "\n"))

	_, err = execute(t, "classify")
	assert.Error(t, err)

	_, err = execute(t, "classify", "--classifier", "gemini", "nice")
	assert.ErrorContains(t, err, "gemini_api_key")
}

func TestColumnsCmd(t *testing.T) {
	in := writeTempCSV(t, [][]string{
		{"Coffee A - Notes", "Price", "coffee b notes"},
		{"good", "3", "bad"},
	})

	out, err := execute(t, "columns", "-i", in, "-k", "coffee", "-k", "notes")
	require.NoError(t, err)
	assert.Contains(t, out, "1 rows, 3 columns")
	assert.Contains(t, out, "* Coffee A - Notes -> Coffee_A___Notes_Sentiment")
	assert.Contains(t, out, "  Price\n")
	assert.Contains(t, out, "* coffee b notes -> coffee_b_notes_Sentiment")

	out, err = execute(t, "columns", "-i", in)
	require.NoError(t, err)
	assert.Contains(t, out, "no columns selected")
}
