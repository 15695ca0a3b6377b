// Command imgutil is a thin driver over the images package: it pads an
// image with black borders or recompresses it as a tunable JPEG.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nvr-ai/go-imgutil/images"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "pad":
		runPad(os.Args[2:])
	case "compress":
		runCompress(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  imgutil pad -in <file> -out <name> [-left N] [-top N] [-right N] [-bottom N]")
	fmt.Fprintln(os.Stderr, "  imgutil compress -in <file> -name <name> [-quality N] [-chroma N] [-luma N] ...")
}

func pickCodec(native bool) images.Codec {
	if native {
		return images.NativeCodec{}
	}
	return images.DefaultCodec()
}

func runPad(args []string) {
	fs := flag.NewFlagSet("pad", flag.ExitOnError)
	in := fs.String("in", "", "source image path (required)")
	out := fs.String("out", "padded", "output name, written as JPEG next to the source")
	left := fs.Int("left", 0, "left border thickness in pixels")
	top := fs.Int("top", 0, "top border thickness in pixels")
	right := fs.Int("right", 0, "right border thickness in pixels")
	bottom := fs.Int("bottom", 0, "bottom border thickness in pixels")
	native := fs.Bool("native", false, "use the pure-Go codec instead of OpenCV")
	fs.Parse(args)

	if *in == "" {
		log.Fatal("pad: -in is required")
	}

	codec := pickCodec(*native)
	buf, err := codec.Decode(*in)
	if err != nil {
		log.Fatalf("pad: %v", err)
	}
	fmt.Printf("source: %v\n", buf.Shape())

	padded, err := images.AddPadding(buf, *left, *top, *right, *bottom)
	if err != nil {
		log.Fatalf("pad: %v", err)
	}
	fmt.Printf("padded: %v\n", padded.Shape())

	outPath := images.DeriveOutputPath(*in, *out)
	if err := codec.EncodeJPEG(outPath, padded, images.DefaultJPEGOptions()); err != nil {
		log.Fatalf("pad: %v", err)
	}
	fmt.Printf("padded image saved to: %s\n", outPath)
}

func runCompress(args []string) {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	in := fs.String("in", "", "source image path (required)")
	name := fs.String("name", "", "output name (required); .jpg is appended unless already JPEG-family")
	quality := fs.Int("quality", 90, "overall JPEG quality (0-100)")
	optimize := fs.Bool("optimize", true, "enable Huffman-table optimization")
	progressive := fs.Bool("progressive", true, "write a progressive JPEG")
	chroma := fs.Int("chroma", 75, "chroma (color) quality (0-100)")
	luma := fs.Int("luma", 75, "luma (brightness) quality (0-100)")
	maxWidth := fs.Int("max-width", 0, "downscale to fit this width before encoding (0 = off)")
	maxHeight := fs.Int("max-height", 0, "downscale to fit this height before encoding (0 = off)")
	native := fs.Bool("native", false, "use the pure-Go codec instead of OpenCV")
	fs.Parse(args)

	if *in == "" || *name == "" {
		log.Fatal("compress: -in and -name are required")
	}

	opts := images.JPEGOptions{
		Quality:       *quality,
		Optimize:      *optimize,
		Progressive:   *progressive,
		ChromaQuality: *chroma,
		LumaQuality:   *luma,
		MaxWidth:      *maxWidth,
		MaxHeight:     *maxHeight,
	}

	res, err := images.CompressJPEGWith(pickCodec(*native), *in, *name, opts)
	if err != nil {
		log.Fatalf("compress: %v", err)
	}
	if !res.OK {
		os.Exit(1)
	}
}
