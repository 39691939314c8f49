package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"phantomgen/internal/models"
	"phantomgen/pkg/config"
	"phantomgen/pkg/kspace"
	"phantomgen/pkg/phantom"
	"phantomgen/pkg/trajectory"
	"phantomgen/pkg/visualization"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "", "Optional YAML configuration file")
	mode := flag.String("mode", "", "Phantom type: ct2d, ct3d, mr, dynamic or kspace")
	size := flag.Int("size", 0, "Matrix size N, shorthand for equal height/width/depth")
	height := flag.Int("height", 0, "Output height in pixels")
	width := flag.Int("width", 0, "Output width in pixels")
	depth := flag.Int("depth", 0, "Number of slices for 3D phantoms")
	original := flag.Bool("original", false, "Use the original 1974 gray values")
	b0 := flag.Float64("b0", 0, "Field strength in Tesla for the MR phantom")
	t2star := flag.Bool("t2star", false, "Return T2* instead of T2 values")
	zmin := flag.Float64("zmin", -1, "Lower z bound for 3D phantoms")
	zmax := flag.Float64("zmax", 1, "Upper z bound for 3D phantoms")
	ellipseFile := flag.String("ellipses", "", "YAML file with a custom ellipse table")
	frames := flag.Int("frames", 0, "Number of time points for the dynamic phantom")
	spokes := flag.Int("spokes", 0, "Number of radial spokes for kspace sampling")
	readout := flag.Int("readout", 0, "Samples per spoke for kspace sampling")
	golden := flag.Bool("golden", false, "Use golden-angle spoke ordering")
	outDir := flag.String("out", "", "Output directory")
	cores := flag.Int("cores", 0, "Number of CPU cores to use (default: all available)")
	flag.Parse()

	// Load configuration, then let explicitly set flags override it
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *size > 0 {
		cfg.Phantom.Height = *size
		cfg.Phantom.Width = *size
		cfg.Phantom.Depth = *size
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Phantom.Mode = *mode
		case "height":
			cfg.Phantom.Height = *height
		case "width":
			cfg.Phantom.Width = *width
		case "depth":
			cfg.Phantom.Depth = *depth
		case "original":
			cfg.Phantom.Original = *original
		case "b0":
			cfg.Phantom.B0 = *b0
		case "t2star":
			cfg.Phantom.T2Star = *t2star
		case "zmin":
			cfg.Phantom.ZMin = *zmin
		case "zmax":
			cfg.Phantom.ZMax = *zmax
		case "ellipses":
			cfg.Phantom.EllipseFile = *ellipseFile
		case "frames":
			cfg.Dynamic.Frames = *frames
		case "spokes":
			cfg.Kspace.Spokes = *spokes
		case "readout":
			cfg.Kspace.SamplesPerSpoke = *readout
		case "golden":
			cfg.Kspace.Golden = *golden
		case "out":
			cfg.Output.Dir = *outDir
		case "cores":
			cfg.Output.NumWorkers = *cores
		}
	})

	fmt.Println("================================")
	fmt.Println("PHANTOMGEN - NUMERICAL PHANTOM GENERATION")
	fmt.Println("Shepp-Logan phantoms for CT and MR simulation")
	fmt.Println("================================")

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	startTime := time.Now()
	switch cfg.Phantom.Mode {
	case "ct2d":
		runCT2D(cfg)
	case "ct3d":
		runCT3D(cfg)
	case "mr":
		runMR(cfg)
	case "dynamic":
		runDynamic(cfg)
	case "kspace":
		runKspace(cfg)
	default:
		log.Fatalf("Unknown mode %q (must be ct2d, ct3d, mr, dynamic or kspace)", cfg.Phantom.Mode)
	}

	fmt.Printf("\nGeneration completed in %.2f seconds\n", time.Since(startTime).Seconds())
	fmt.Printf("Results saved to: %s\n", cfg.Output.Dir)
}

// runCT2D generates the 2D CT phantom and saves it as an image
func runCT2D(cfg *config.Config) {
	params := phantom.NewCTParams()
	params.Original = cfg.Phantom.Original
	params.NumWorkers = cfg.Output.NumWorkers
	if cfg.Phantom.EllipseFile != "" {
		es, err := phantom.LoadEllipses(cfg.Phantom.EllipseFile)
		if err != nil {
			log.Fatalf("Failed to load ellipse table: %v", err)
		}
		params.Ellipses = es
	}

	fmt.Printf("Generating %dx%d 2D CT phantom...\n", cfg.Phantom.Height, cfg.Phantom.Width)
	img, err := phantom.CT2D(cfg.Phantom.Height, cfg.Phantom.Width, params)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	printStats("phantom", img.Stats(), cfg)
	outPath := filepath.Join(cfg.Output.Dir, "ct_phantom.jpg")
	if err := visualization.SaveImage(img, outPath); err != nil {
		log.Fatalf("Failed to save phantom image: %v", err)
	}
	fmt.Printf("Phantom image saved to: %s\n", outPath)
}

// runCT3D generates the 3D CT phantom and saves slice sequences
// along all three axes
func runCT3D(cfg *config.Config) {
	params := phantom.NewCTParams()
	params.Original = cfg.Phantom.Original
	params.ZLims = [2]float64{cfg.Phantom.ZMin, cfg.Phantom.ZMax}
	params.NumWorkers = cfg.Output.NumWorkers
	if cfg.Phantom.EllipseFile != "" {
		es, err := phantom.LoadEllipsoids(cfg.Phantom.EllipseFile)
		if err != nil {
			log.Fatalf("Failed to load ellipsoid table: %v", err)
		}
		params.Ellipsoids = es
	}

	fmt.Printf("Generating %dx%dx%d 3D CT phantom...\n",
		cfg.Phantom.Height, cfg.Phantom.Width, cfg.Phantom.Depth)
	vol, err := phantom.CT3D(cfg.Phantom.Height, cfg.Phantom.Width, cfg.Phantom.Depth, params)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	printStats("phantom", vol.Stats(), cfg)
	saveVolume(vol, cfg.Output.Dir)
}

// runMR generates the MR phantom and saves the three tissue maps
func runMR(cfg *config.Config) {
	params := phantom.NewMRParams()
	params.B0 = cfg.Phantom.B0
	params.T2Star = cfg.Phantom.T2Star
	params.ZLims = [2]float64{cfg.Phantom.ZMin, cfg.Phantom.ZMax}
	params.NumWorkers = cfg.Output.NumWorkers
	if cfg.Phantom.EllipseFile != "" {
		es, err := phantom.LoadMREllipsoids(cfg.Phantom.EllipseFile)
		if err != nil {
			log.Fatalf("Failed to load MR ellipsoid table: %v", err)
		}
		params.Ellipsoids = es
	}

	fmt.Printf("Generating %dx%dx%d MR phantom at %.1f T...\n",
		cfg.Phantom.Height, cfg.Phantom.Width, cfg.Phantom.Depth, params.B0)
	vols, err := phantom.MR3D(cfg.Phantom.Height, cfg.Phantom.Width, cfg.Phantom.Depth, params)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	t2name := "t2"
	if params.T2Star {
		t2name = "t2star"
	}
	for _, m := range []struct {
		name string
		vol  *models.Volume
	}{
		{"m0", vols.M0},
		{"t1", vols.T1},
		{t2name, vols.T2},
	} {
		printStats(m.name, m.vol.Stats(), cfg)
		saveVolume(m.vol, filepath.Join(cfg.Output.Dir, m.name))
	}
}

// runDynamic generates the dynamic phantom and saves its frames
func runDynamic(cfg *config.Config) {
	fmt.Printf("Generating %dx%d dynamic phantom with %d frames...\n",
		cfg.Phantom.Width, cfg.Phantom.Width, cfg.Dynamic.Frames)
	ts, err := phantom.Dynamic(cfg.Phantom.Width, cfg.Dynamic.Frames)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	printStats("series", ts.Stats(), cfg)
	framesDir := filepath.Join(cfg.Output.Dir, "frames")
	if err := visualization.SaveFrameSequence(ts, framesDir); err != nil {
		log.Fatalf("Failed to save frames: %v", err)
	}
	fmt.Printf("Frames saved to: %s\n", framesDir)
}

// runKspace samples the analytic phantom spectrum along a radial
// trajectory and writes the samples as CSV
func runKspace(cfg *config.Config) {
	fmt.Printf("Sampling k-space along %d spokes of %d samples (golden=%v)...\n",
		cfg.Kspace.Spokes, cfg.Kspace.SamplesPerSpoke, cfg.Kspace.Golden)

	kx, ky := trajectory.Radial(cfg.Kspace.SamplesPerSpoke, cfg.Kspace.Spokes, cfg.Kspace.Golden)

	params := &kspace.Params{Original: cfg.Phantom.Original}
	if cfg.Phantom.EllipseFile != "" {
		es, err := phantom.LoadEllipses(cfg.Phantom.EllipseFile)
		if err != nil {
			log.Fatalf("Failed to load ellipse table: %v", err)
		}
		params.Ellipses = es
	}

	samples, err := kspace.SheppLogan(kx, ky, params)
	if err != nil {
		log.Fatalf("Sampling failed: %v", err)
	}

	outPath := filepath.Join(cfg.Output.Dir, "kspace_samples.csv")
	if err := writeSamplesCSV(outPath, kx, ky, samples); err != nil {
		log.Fatalf("Failed to write samples: %v", err)
	}
	fmt.Printf("%d k-space samples saved to: %s\n", len(samples), outPath)
}

// writeSamplesCSV stores k-space samples as kx,ky,real,imag rows
func writeSamplesCSV(path string, kx, ky []float64, samples []complex128) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"kx", "ky", "real", "imag"}); err != nil {
		return err
	}
	for i := range samples {
		rec := []string{
			strconv.FormatFloat(kx[i], 'g', -1, 64),
			strconv.FormatFloat(ky[i], 'g', -1, 64),
			strconv.FormatFloat(real(samples[i]), 'g', -1, 64),
			strconv.FormatFloat(imag(samples[i]), 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// saveVolume exports slice sequences of a volume along all three axes
func saveVolume(vol *models.Volume, dir string) {
	viewer := visualization.NewViewer(vol)
	for _, axis := range []string{"x", "y", "z"} {
		axisDir := filepath.Join(dir, axis)
		fmt.Printf("Saving %s-axis slices to: %s\n", axis, axisDir)
		if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
			log.Printf("Warning: Failed to save %s-axis slices: %v", axis, err)
		}
	}
}

// printStats reports the intensity distribution of a generated dataset
func printStats(name string, s models.Stats, cfg *config.Config) {
	if !cfg.Output.Verbose {
		return
	}
	fmt.Printf("%s intensities: min=%.4f max=%.4f mean=%.4f stddev=%.4f\n",
		name, s.Min, s.Max, s.Mean, s.StdDev)
}
