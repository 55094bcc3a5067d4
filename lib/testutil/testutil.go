package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	devenv "diary-export/dev/env"
	"diary-export/lib/telemetry"

	"github.com/dgraph-io/badger/v4"
)

type PackageParams struct {
	Name string
	// opens an in-memory page cache when set
	Cache bool
	// if unspecified, outputs go to t.TempDir()
	OutputDir string
}

type PackageResult struct {
	Cache     *badger.DB
	OutputDir string
}

// Output returns the path of a file called name in the output directory.
func (r PackageResult) Output(name string) string {
	return filepath.Join(r.OutputDir, name)
}

// SetupPackage sets up telemetry for the package under test and the
// resources its tests ask for. The returned func releases them.
func SetupPackage(t testing.TB, params PackageParams) (PackageResult, func()) {
	cleanupTelemetry := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	var result PackageResult

	result.OutputDir = t.TempDir()
	if params.OutputDir != "" {
		dir, err := devenv.ResolvePath(params.OutputDir)
		if err != nil {
			t.Fatal(err)
		}
		result.OutputDir = dir
	}

	if params.Cache {
		db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
		if err != nil {
			t.Fatal(err)
		}
		result.Cache = db
	}

	return result, func() {
		if result.Cache != nil {
			err := result.Cache.Close()
			if err != nil {
				t.Error(err)
			}
		}
		cleanupTelemetry()
	}
}
