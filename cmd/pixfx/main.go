// Command pixfx applies a filter pipeline to a PNG on the CPU.
//
//	pixfx -in photo.png -config pipeline.toml -out photo-fx.png
//
// The config is a TOML file (see pixfx.Config) or a JSON array of filter
// descriptors.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/pixfx"
	"golang.org/x/image/draw"
)

func main() {
	in := flag.String("in", "", "input PNG")
	out := flag.String("out", "", "output PNG")
	cfgPath := flag.String("config", "", "pipeline file (.toml or .json)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *in == "" || *out == "" || *cfgPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	pipeline, level, err := loadPipeline(*cfgPath)
	if err != nil {
		log.Fatalf("load pipeline: %v", err)
	}
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	pixfx.SetLogger(logger)

	img, err := readPNG(*in)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	backend := pixfx.NewFilterBackend(pixfx.BackendConfig{})
	defer backend.Dispose()
	res, err := backend.Run(pipeline, pixfx.RunOptions{Image: img})
	if err != nil {
		log.Fatalf("run pipeline: %v", err)
	}
	logger.Info("filtered", "passes", res.Passes, "skipped", res.Skipped, "out", *out)

	if err := writePNG(*out, res.Image); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

// loadPipeline reads the pipeline and, for TOML configs, the log level.
func loadPipeline(path string) (pixfx.Pipeline, slog.Level, error) {
	if strings.ToLower(filepath.Ext(path)) != ".toml" {
		p, err := pixfx.LoadPipelineFile(path)
		return p, slog.LevelInfo, err
	}
	cfg, err := pixfx.LoadConfig(path)
	if err != nil {
		return nil, 0, err
	}
	p, err := cfg.Pipeline()
	return p, cfg.Level(), err
}

func readPNG(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	if nrgba, ok := src.(*image.NRGBA); ok {
		return nrgba, nil
	}
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
