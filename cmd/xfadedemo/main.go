// Command xfadedemo renders the frames of a photo transition to PNG files.
//
// With no input images it blends two generated test cards, which is enough
// to eyeball every transition in the catalog:
//
//	xfadedemo -id circle -frames 24 -outdir out/
//	xfadedemo -list
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/xfade"
)

func main() {
	var (
		list     = flag.Bool("list", false, "list catalog transitions and exit")
		fromPath = flag.String("from", "", "outgoing image (png/jpeg); generated if empty")
		toPath   = flag.String("to", "", "incoming image (png/jpeg); generated if empty")
		id       = flag.String("id", xfade.DefaultTransitionID, "transition id")
		frames   = flag.Int("frames", 24, "number of frames to render")
		outdir   = flag.String("outdir", "out", "output directory")
		width    = flag.Int("width", 640, "output width")
		height   = flag.Int("height", 360, "output height")
		duration = flag.Duration("duration", 500*time.Millisecond, "transition duration")
		softness = flag.Float64("softness", 0.05, "mask/wipe edge softness")
	)
	flag.Parse()
	if *frames < 2 {
		*frames = 2
	}

	catalog := xfade.NewCatalog()
	if *list {
		listCatalog(catalog)
		return
	}

	from, err := loadOrGenerate(*fromPath, *width, *height, false)
	if err != nil {
		log.Fatalf("load outgoing image: %v", err)
	}
	to, err := loadOrGenerate(*toPath, *width, *height, true)
	if err != nil {
		log.Fatalf("load incoming image: %v", err)
	}

	driver, err := xfade.NewDriver(catalog, *width, *height,
		xfade.WithSoftness(*softness))
	if err != nil {
		log.Fatalf("create driver: %v", err)
	}
	defer driver.Close()

	if err := os.MkdirAll(*outdir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	req := xfade.FrameRequest{
		Pair:         xfade.ClipPair{Key: "demo", From: from, To: to},
		TransitionID: *id,
		Window: xfade.RenderWindow{
			ClipStart:          0,
			ClipDuration:       *duration,
			TransitionDuration: *duration,
		},
	}

	for i := 0; i < *frames; i++ {
		ts := time.Duration(float64(*duration) * float64(i) / float64(*frames-1))
		pm, err := driver.RenderFrame(ts, req)
		if err != nil {
			log.Fatalf("render frame %d: %v", i, err)
		}
		name := filepath.Join(*outdir, fmt.Sprintf("%s_%03d.png", *id, i))
		if err := pm.SavePNG(name); err != nil {
			log.Fatalf("save frame %d: %v", i, err)
		}
	}
	log.Printf("rendered %d frames of %q to %s (%dx%d)", *frames, *id, *outdir, *width, *height)
}

func listCatalog(catalog *xfade.Catalog) {
	for _, def := range catalog.All() {
		tier := "free"
		if def.Premium {
			tier = "premium"
		}
		fmt.Printf("%-16s %-20s %-8s %-8s %s\n",
			def.ID, def.Name, def.Category, tier, def.DefaultDuration)
	}
}

// loadOrGenerate decodes an image file, or produces a test card when no path
// is given. The two cards use opposing gradients so any transition is easy
// to follow.
func loadOrGenerate(path string, w, h int, incoming bool) (image.Image, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tx := float64(x) / float64(w-1)
			ty := float64(y) / float64(h-1)
			i := img.PixOffset(x, y)
			if incoming {
				img.Pix[i+0] = uint8(40 + 60*tx)
				img.Pix[i+1] = uint8(120 + 100*ty)
				img.Pix[i+2] = uint8(200 - 80*tx)
			} else {
				img.Pix[i+0] = uint8(200 - 80*ty)
				img.Pix[i+1] = uint8(60 + 80*tx)
				img.Pix[i+2] = uint8(40 + 60*ty)
			}
			img.Pix[i+3] = 255
		}
	}
	return img, nil
}
