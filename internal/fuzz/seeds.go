package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

// addUnitSeeds adds every unit file under the repository testdata tree.
func addUnitSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err == nil {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".json" {
				return nil
			}
			// #nosec G304 -- path comes from repository testdata walk
			src, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			f.Add(clampSeed(src))
			return nil
		})
	}
	f.Add([]byte{})
	f.Add([]byte(`{"functions":[]}`))
}

// addInstrSeeds adds one encoded instruction per operator with every operand
// drawn from the first slots of the pool.
func addInstrSeeds(f *testing.F) {
	for op := 0; op < 40; op++ {
		f.Add([]byte{byte(op), 0, 1, 2})
		f.Add([]byte{byte(op), 3, 4, 5})
		f.Add([]byte{byte(op), 6, 7, 8})
		f.Add([]byte{byte(op), 12, 13, 14})
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
