package testing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	out := CSV([]string{"key", "pkey"}, []string{"a", "1"}, []string{"b", ""})
	assert.Equal(t, "key,pkey\na,1\nb,\n", out)
}

func TestGeneratedRows(t *testing.T) {
	rows := GeneratedRows(8)
	assert.Len(t, rows, 8)
	assert.Equal(t, "k00001", rows[0][0])
	assert.Equal(t, "", rows[6][5])
	for _, r := range rows {
		assert.Len(t, r, len(SurveyHeader1523))
	}
	assert.Equal(t, 9, strings.Count(CSV(SurveyHeader1523, rows...), "\n"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "testload_1523_case", sanitize("TestLoad/1523-case"))
	assert.LessOrEqual(t, len(sanitize(strings.Repeat("x", 100))), 30)
}

func TestSHA256(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", SHA256("abc"))
}
