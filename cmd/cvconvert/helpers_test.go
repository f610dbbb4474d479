package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI in-process and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("CVCONVERT_LOG_LEVEL", "error")
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const looseRecord = `{
  "Candidate Name": "MARIA GARCIA",
  "position": "QUALITY SYSTEMS MANAGER",
  "email": "maria@example.com",
  "language_skills": "",
  "experiences": [
    {"company": "Formation Bio", "location": "New York, NY", "role": "Quality Manager", "duration": "Mar 2021 - Present", "responsibilities": ["Owned the QMS", "Ran CAPA reviews"]},
    {"company": "Acme Pharma", "role": "QA Specialist", "start_date": "01/2018", "end_date": "02/2021"}
  ],
  "education": [{"institution": "Rutgers", "degree": "Bachelor of Science", "duration": "2012 to 2016"}]
}`
