//go:build basic || database || integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared trendscope binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// Fixture file names follow the default series patterns.
const (
	primaryFixture   = "설빙_search_trend_2025-02.csv"
	secondaryFixture = "설빙 기프티콘_search_trend_2025-02.csv"
)

// fixtureStart and fixtureDays bound the generated series: June 2024 to January 2025.
var (
	fixtureStart = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fixtureDays  = 245
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the trendscope binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "trendscope-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "trendscope")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build trendscope: %v\n%s", err, out))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// fixtureRatio is the brand ratio on day i of the fixture.
func fixtureRatio(i int) float64 {
	return float64(i%50) + 1.5
}

// writeFixture writes both series into a fresh data directory.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var primary, secondary strings.Builder
	primary.WriteString("period,ratio\n")
	secondary.WriteString("period,ratio\n")
	for i := range fixtureDays {
		day := fixtureStart.AddDate(0, 0, i).Format("2006-01-02")
		fmt.Fprintf(&primary, "%s,%g\n", day, fixtureRatio(i))
		fmt.Fprintf(&secondary, "%s,%g\n", day, fixtureRatio(i)/10)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, primaryFixture), []byte(primary.String()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, secondaryFixture), []byte(secondary.String()), 0o644))
	return dir
}

// runTrendscope runs the binary in workDir with extra environment and returns stdout.
func runTrendscope(t *testing.T, workDir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "HOME="+workDir)
	cmd.Env = append(cmd.Env, env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
