package main

import (
	"errors"
	"log"
	"os"

	"twixsite/config"
	"twixsite/favicon"
)

func main() {
	out := log.New(os.Stdout, "", 0)
	out.Printf("🚀 TWIX Chain Favicon Generator\n\n")

	cfg, err := config.Default()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gen := favicon.NewGenerator(cfg, ".", out)
	if _, err := gen.Run(); err != nil {
		if errors.Is(err, favicon.ErrMissingSource) {
			return
		}
		log.Fatalf("Favicon generation failed: %v", err)
	}

	out.Printf("\n📋 Next steps:")
	out.Printf("   1. Verify favicon files in %s/", cfg.OutputDir)
	out.Printf("   2. Test favicons in browser")
	out.Printf("   3. Use https://realfavicongenerator.net/ to validate")
}
