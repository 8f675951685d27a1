package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap"
	"github.com/joshuapare/kheap/heap/backing"
)

// runCmd executes heapctl with args and returns what it printed to stdout.
// Global flag variables are reset first so tests do not leak into each other.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verbose, quiet, jsonOut = false, false, false
	heapSize = heap.DefaultConfig.Size
	classesName = backing.DefaultConfig.Name
	exerciseOps, exerciseSeed, exerciseMaxSize = 10000, 42, 512
	exerciseVerifyEvery, exerciseMetrics = 1, false
	perrorCP437 = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// assertJSON checks that output is valid JSON and decodes it into v.
func assertJSON(t *testing.T, output string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(output), v), "invalid JSON output:\n%s", output)
}
