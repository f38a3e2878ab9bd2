//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedDhistatPath holds the path to a shared dhistat binary built once for all tests.
	sharedDhistatPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// facilityCSV is a small dataset exercising every pipeline stage: resolvable
// labels in several formats, an unresolvable label, and a null metric cell.
const facilityCSV = `adm0,adm1,adm2,period_name,confirmed,tested
SL,Western,Urban,January 2015,12,40
SL,Western,Urban,201501,5,10
SL,Western,Rural,2015-02,7,
SL,Northern,Bombali,Feb 2015,3,9
SL,Northern,Bombali,garbage,1,2
`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getDhistatBinary returns the path to the dhistat binary, building it once if needed.
func getDhistatBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "dhistat-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		dhistatPath := filepath.Join(tempDir, "dhistat")
		buildCmd := exec.Command("go", "build", "-o", dhistatPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build dhistat: %v", err))
		}

		sharedDhistatPath = dhistatPath
	})

	return sharedDhistatPath
}

// writeFacilityFixture writes the shared facility dataset into dir.
func writeFacilityFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "facility.csv")
	if err := os.WriteFile(path, []byte(facilityCSV), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// runDhistatCommand runs the shared binary with the given arguments from dir.
func runDhistatCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	dhistatPath := getDhistatBinary()
	cmd := exec.Command(dhistatPath, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}
