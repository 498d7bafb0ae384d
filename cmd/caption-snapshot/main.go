// Command caption-snapshot rasterizes every caption of a gallery manifest to a WebP file, so caption
// rendering can be inspected without a GPU.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/config"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
	"github.com/Carmen-Shannon/oxy-gallery/engine/text"
	"github.com/HugoSmits86/nativewebp"
)

func main() {
	manifest := flag.String("config", "", "Path to a gallery manifest (default: the built-in placeholder items)")
	outDir := flag.String("output", "captions", "Output directory")
	fontDesc := flag.String("font", "", "Caption font, overrides the manifest")
	textColor := flag.String("text-color", "", "Caption color, overrides the manifest")
	flag.Parse()

	var cfg config.Config
	if *manifest != "" {
		var err error
		if cfg, err = config.Load(*manifest); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{Font: *fontDesc, TextColor: *textColor})

	c, err := common.ParseColor(cfg.Gallery.TextColor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	labels := make([]string, 0, len(cfg.Items))
	for _, it := range cfg.Items {
		labels = append(labels, it.Text)
	}
	if len(labels) == 0 {
		for _, it := range scene.PlaceholderItems() {
			labels = append(labels, it.Text)
		}
	}

	written, err := snapshot(labels, text.ParseFont(cfg.Gallery.Font), c, *outDir)
	for _, path := range written {
		fmt.Println(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d/%d captions to %s\n", len(written), len(labels), *outDir)
}

// snapshot writes one WebP per label into outDir. Labels that produce no bitmap are reported in the
// returned error but do not stop the rest.
func snapshot(labels []string, f text.Font, c color.NRGBA, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", outDir, err)
	}

	var written []string
	var errs []error
	for i, label := range labels {
		img, err := text.Rasterize(label, f, c)
		if err != nil {
			errs = append(errs, fmt.Errorf("caption %d: %w", i, err))
			continue
		}

		path := filepath.Join(outDir, fmt.Sprintf("%02d-%s.webp", i, slug(label)))
		if err := writeWebP(path, img); err != nil {
			errs = append(errs, fmt.Errorf("caption %d: %w", i, err))
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

func writeWebP(path string, img *image.NRGBA) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(out, img, nil); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

// slug turns a caption into a file name fragment.
func slug(label string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "caption"
	}
	return s
}
