package fuzztests

import (
	"bytes"
	"context"
	"testing"

	"gccbridge/internal/config"
	"gccbridge/internal/driver"
	"gccbridge/internal/gimple"
	"gccbridge/internal/testkit"
)

func FuzzUnitPipeline(f *testing.F) {
	addUnitSeeds(f)
	cfg := config.Default()
	f.Fuzz(func(t *testing.T, input []byte) {
		u, err := gimple.DecodeUnitJSON(bytes.NewReader(clampSeed(input)))
		if err != nil {
			return
		}

		var packed bytes.Buffer
		if err := gimple.EncodeUnit(&packed, u); err == nil {
			if _, err := gimple.DecodeUnit(&packed); err != nil {
				t.Fatalf("packed unit does not decode: %v", err)
			}
		}

		for i := range u.Functions {
			fr, err := driver.TranslateFunction(context.Background(), &u.Functions[i], cfg)
			if err != nil && !fr.Failed {
				t.Fatalf("%s: error without Failed: %v", fr.Name, err)
			}
			if err := testkit.CheckBody(fr.Body, cfg.Naming.TempPrefix); err != nil {
				t.Fatalf("%s: %v", fr.Name, err)
			}
		}
	})
}
