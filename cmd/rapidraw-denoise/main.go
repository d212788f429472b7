package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rustrunner/RapidRAW-Mark-I/internal/models"
	"github.com/rustrunner/RapidRAW-Mark-I/pkg/bm3d"
	"github.com/rustrunner/RapidRAW-Mark-I/pkg/config"
	"github.com/rustrunner/RapidRAW-Mark-I/pkg/metrics"
	"github.com/rustrunner/RapidRAW-Mark-I/pkg/noiseest"
	"github.com/rustrunner/RapidRAW-Mark-I/pkg/preview"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Input image (JPEG or PNG)")
	outputPath := flag.String("output", "denoised.png", "Output image filename")
	intensity := flag.Float64("intensity", 0, "Noise intensity in (0, 1] (0 = use config value)")
	numWorkers := flag.Int("cores", 0, "Number of CPU cores to use (0 = use config value)")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	autoIntensity := flag.Bool("auto-intensity", false, "Estimate the noise intensity from the input image")
	previewPath := flag.String("preview", "", "Optional path for a bounded-size PNG preview")
	referencePath := flag.String("reference", "", "Optional clean reference image for quality metrics")
	flag.Parse()

	// Validate inputs
	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	fmt.Println("================================")
	fmt.Println("BM3D COLLABORATIVE-FILTERING IMAGE DENOISER")
	fmt.Println("================================")

	img, err := loadImage(*inputPath)
	if err != nil {
		log.Fatalf("Failed to load input image: %v", err)
	}
	fmt.Printf("Loaded %s (%dx%d)\n", filepath.Base(*inputPath), img.Width, img.Height)

	level := cfg.Processing.Intensity
	if *intensity > 0 {
		level = *intensity
	}
	if *autoIntensity || cfg.Processing.AutoIntensity {
		fmt.Println("Estimating noise level...")
		level = noiseest.SuggestIntensity(img)
		fmt.Printf("Estimated sigma: %.2f, suggested intensity: %.3f\n",
			noiseest.EstimateSigma(img), level)
	}

	workers := resolveWorkers(*numWorkers, cfg.Processing.NumWorkers)

	denoiser := bm3d.NewDenoiser(level)
	denoiser.SetWorkers(workers)
	denoiser.SetProgress(func(msg string) {
		fmt.Printf("\rDenoising: %-24s", msg)
	})

	fmt.Printf("Starting two-pass denoise (intensity %.3f, %d workers)...\n", level, workers)
	startTime := time.Now()
	result := denoiser.Denoise(img)
	fmt.Printf("\nDenoising completed in %.2f seconds\n", time.Since(startTime).Seconds())

	if err := saveImage(*outputPath, result); err != nil {
		log.Fatalf("Failed to save output image: %v", err)
	}
	fmt.Printf("Denoised image saved to: %s\n", *outputPath)

	// Generate a bounded-size preview if requested
	if *previewPath != "" && cfg.Preview.Enabled {
		fitted := preview.Fit(result.ToImage(), cfg.Preview.MaxDimension)
		if err := preview.Save(fitted, *previewPath); err != nil {
			log.Printf("Warning: Failed to save preview: %v", err)
		} else {
			fmt.Printf("Preview saved to: %s\n", *previewPath)
		}
	}

	// Report quality metrics against a clean reference if provided
	if *referencePath != "" {
		reference, err := loadImage(*referencePath)
		if err != nil {
			log.Fatalf("Failed to load reference image: %v", err)
		}

		before, err := metrics.Compare(reference, img)
		if err != nil {
			log.Fatalf("Failed to compare against reference: %v", err)
		}
		after, err := metrics.Compare(reference, result)
		if err != nil {
			log.Fatalf("Failed to compare against reference: %v", err)
		}

		fmt.Println("\nQuality metrics vs reference:")
		fmt.Println("=============================")
		fmt.Printf("MSE:  %.6f -> %.6f\n", before.MSE, after.MSE)
		fmt.Printf("PSNR: %.2f dB -> %.2f dB\n", before.PSNR, after.PSNR)
		fmt.Printf("SSIM: %.4f -> %.4f\n", before.SSIM, after.SSIM)
	}
}

// resolveWorkers picks the worker count: an explicit -cores flag wins, then
// the config value, then all available CPU cores.
func resolveWorkers(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if configValue > 0 {
		return configValue
	}
	return runtime.NumCPU()
}

// loadImage decodes a JPEG or PNG file into a packed float image.
func loadImage(path string) (*models.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %v", path, err)
	}

	return models.FromImage(img), nil
}

// saveImage encodes the packed float image to the format implied by the
// output extension (PNG unless .jpg/.jpeg).
func saveImage(path string, img *models.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(file, img.ToImage(), &jpeg.Options{Quality: 90})
	default:
		return png.Encode(file, img.ToImage())
	}
}
