package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/fur"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML fur scene config")
	debug := flag.Bool("debug", false, "Enable debug logging")
	seed := flag.Uint64("seed", 0, "Strand mask seed (0 = clock seeded), overrides the config")
	dump := flag.String("dump-config", "", "Write the effective config to this path and continue")
	flag.Parse()

	cfg := fur.DefaultFurConfig()
	if *configPath != "" {
		var err error
		cfg, err = fur.LoadFurConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "furdemo: %v\n", err)
			os.Exit(1)
		}
	}
	if *seed != 0 {
		cfg.Mask.Seed = *seed
	}
	if *dump != "" {
		if err := fur.SaveFurConfig(*dump, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "furdemo: %v\n", err)
			os.Exit(1)
		}
	}

	fur.NewAppBuilder().
		UseModule(
			fur.LoggingModule{Debug: *debug},
			fur.TimeModule{Scale: fur.FurTimeScale},
			fur.AssetServerModule{},
			fur.FurSceneModule{Config: cfg},
			fur.FurRendererModule{},
		).
		Run()
}
