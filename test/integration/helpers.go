//go:build integration

package integration

import (
	"bytes"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	API        string
	BookID     int
	LitnetPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	bookID, err := strconv.Atoi(os.Getenv("LITNET_INTEGRATION_BOOK_ID"))
	if err != nil {
		bookID = 0
	}

	return &TestConfig{
		API:        os.Getenv("LITNET_INTEGRATION_API"),
		BookID:     bookID,
		LitnetPath: getLitnetPath(),
		Verbose:    os.Getenv("LITNET_VERBOSE") == "true",
	}
}

// getLitnetPath determines the path to the litnet binary.
func getLitnetPath() string {
	if path := os.Getenv("LITNET_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../litnet", "./litnet"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "litnet"
}

// CommandRunner runs the litnet binary.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{config: config, t: t}
}

// Run executes a litnet command against the configured API with an isolated
// config file.
func (runner *CommandRunner) Run(configFile string, args ...string) (string, string, error) {
	args = append(args, "--api", runner.config.API, "--config", configFile)

	// #nosec G204 -- test binary path comes from the test environment
	cmd := exec.Command(runner.config.LitnetPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.LitnetPath, strings.Join(args, " "))
	}

	err := cmd.Run()
	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdoutBuf.String(), stderrBuf.String())
	}

	return stdoutBuf.String(), stderrBuf.String(), err
}
