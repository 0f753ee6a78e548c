// Command ramsesdemo demonstrates the ramses texture resource library.
//
// It builds a scene with one mip-mapped texture buffer, writes a test
// pattern into level 0, generates the remaining mip levels, stages the
// pending updates into a CPU-side backend, and saves one level as a PNG.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/0xflotus/ramses"
	"github.com/0xflotus/ramses/backend/staging"
	"github.com/0xflotus/ramses/render"
	"github.com/0xflotus/ramses/texel"
)

func main() {
	var (
		size    = flag.Uint("size", 256, "base texture size (width and height)")
		levels  = flag.Uint("levels", 4, "number of mip levels")
		level   = flag.Uint("level", 1, "mip level to save")
		output  = flag.String("output", "mip.png", "output file")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		ramses.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	sc := ramses.NewScene(ramses.SceneID(1), ramses.WithName("demo"))
	tb, err := sc.CreateTexture2DBuffer(uint32(*size), uint32(*size), texel.RGBA8, uint32(*levels))
	if err != nil {
		log.Fatalf("Failed to create texture buffer: %v", err)
	}

	// Checkerboard test pattern on level 0.
	if st := tb.SetData(checkerboard(uint32(*size)), 0, 0, 0, uint32(*size), uint32(*size)); st != ramses.StatusOK {
		log.Fatalf("Failed to write base level: %s", st.Message())
	}
	if st := tb.GenerateMipChain(); st != ramses.StatusOK {
		log.Fatalf("Failed to generate mip chain: %s", st.Message())
	}

	// Stage everything into the CPU-side backend.
	adapter := staging.New()
	if _, err := adapter.CreateTexture(sc.ID(), tb); err != nil {
		log.Fatalf("Failed to register texture: %v", err)
	}
	stager := render.NewStager(nil)
	uploads, err := stager.StageScene(sc, adapter)
	if err != nil {
		log.Fatalf("Failed to stage scene: %v", err)
	}

	if err := tb.SaveLevelPNG(uint32(*level), *output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Staged %d uploads; level %d saved to %s\n", uploads, *level, *output)
}

// checkerboard builds an RGBA8 checker pattern with 16-texel cells.
func checkerboard(size uint32) []byte {
	const cell = 16
	data := make([]byte, size*size*4)
	for y := uint32(0); y < size; y++ {
		for x := uint32(0); x < size; x++ {
			i := (y*size + x) * 4
			if (x/cell+y/cell)%2 == 0 {
				data[i], data[i+1], data[i+2] = 220, 90, 40
			} else {
				data[i], data[i+1], data[i+2] = 30, 60, 120
			}
			data[i+3] = 255
		}
	}
	return data
}
