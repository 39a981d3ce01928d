// Command framepick extracts frames from a video file for annotation.
//
// Usage: framepick -video <file> -out <dir> [-step N] [-frame N]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"anno-studio/internal/video"
)

func main() {
	videoPath := flag.String("video", "", "video file to read")
	outDir := flag.String("out", "frames", "output directory")
	step := flag.Int("step", 30, "extract every Nth frame")
	frame := flag.Int("frame", -1, "extract a single frame index instead")
	flag.Parse()

	if *videoPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *frame >= 0 {
		if err := extractOne(*videoPath, *outDir, *frame); err != nil {
			log.Fatalf("extract failed: %v", err)
		}
		return
	}

	paths, err := video.ExtractFrames(*videoPath, *outDir, *step)
	if err != nil {
		log.Fatalf("extract failed: %v", err)
	}
	fmt.Printf("Wrote %d frames to %s\n", len(paths), *outDir)
}

func extractOne(videoPath, outDir string, idx int) error {
	src, err := video.Open(videoPath)
	if err != nil {
		return err
	}
	defer src.Close()

	fmt.Printf("%s: %d frames at %.2f fps\n", videoPath, src.FrameCount(), src.FPS())

	img, err := src.Frame(idx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	base := filepath.Base(videoPath)
	base = base[:len(base)-len(filepath.Ext(base))]
	out := filepath.Join(outDir, fmt.Sprintf("%s_f%06d.png", base, idx))
	if err := video.WritePNG(out, img); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
