package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSSLModes(t *testing.T) {
	cmd := &cobra.Command{}

	t.Run("returns all modes for empty input", func(t *testing.T) {
		completions, directive := completeSSLModes(cmd, nil, "")
		assert.Len(t, completions, len(sslModes))
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	})

	t.Run("filters by prefix", func(t *testing.T) {
		completions, _ := completeSSLModes(cmd, nil, "ver")
		assert.Equal(t, []string{"verify-ca", "verify-full"}, completions)
	})

	t.Run("returns empty for non-matching prefix", func(t *testing.T) {
		completions, _ := completeSSLModes(cmd, nil, "xyz")
		assert.Empty(t, completions)
	})
}

func TestCompleteSurveyNumbers(t *testing.T) {
	t.Setenv(envMappingFile, "")

	t.Run("built-in mappings", func(t *testing.T) {
		cmd := &cobra.Command{}
		cmd.Flags().String("mapping", "", "")

		completions, directive := completeSurveyNumbers(cmd, nil, "15")
		assert.Equal(t, []string{"1523"}, completions)
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	})

	t.Run("mapping file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "surveys.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
surveys:
  - number: 2001
    columns: {age: a, gender: g, educational_attainment: e, main_job_income: i}
  - number: 2002
    columns: {age: a, gender: g, educational_attainment: e, main_job_income: i}
`), 0644))

		cmd := &cobra.Command{}
		cmd.Flags().String("mapping", path, "")

		completions, _ := completeSurveyNumbers(cmd, nil, "")
		assert.Equal(t, []string{"2001", "2002"}, completions)
	})

	t.Run("no completion after the first argument", func(t *testing.T) {
		completions, _ := completeSurveyNumbers(&cobra.Command{}, []string{"1523"}, "")
		assert.Empty(t, completions)
	})
}
