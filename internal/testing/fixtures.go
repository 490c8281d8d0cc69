package testing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SurveyHeader1523 is the header of the 2022 survey export.
var SurveyHeader1523 = []string{"key", "pkey", "y22_q2", "y22_q1", "y22_q5", "y22_q100_1"}

// CSV renders a header and rows as comma-separated text. Values are not quoted.
func CSV(header []string, rows ...[]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// GeneratedRows returns n rows for SurveyHeader1523 with keys k00001, k00002, ...
// Every seventh row has an empty income cell.
func GeneratedRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		income := fmt.Sprint(200 + i%600)
		if i%7 == 6 {
			income = ""
		}
		rows[i] = []string{
			fmt.Sprintf("k%05d", i+1),
			fmt.Sprint(10_000 + i),
			fmt.Sprint(20 + i%50),
			fmt.Sprint(1 + i%2),
			fmt.Sprint(1 + i%15),
			income,
		}
	}
	return rows
}

// SHA256 returns the hex-encoded SHA-256 of content.
func SHA256(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
