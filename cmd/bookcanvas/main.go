package main

import (
	"context"
	"flag"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"bookcanvas/internal/config"
	"bookcanvas/internal/layout"
	"bookcanvas/internal/media"
	"bookcanvas/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		utils.Error("%v", err)
		os.Exit(1)
	}

	assetDirs := strings.Join(cfg.AssetDirs, ":")
	flag.StringVar(&cfg.Key, "key", cfg.Key, "Data key to load")
	flag.StringVar(&cfg.SourceType, "source", cfg.SourceType, "Data source: file, http, bundle or sqlite")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory holding <key>.json (file source)")
	flag.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL serving <key> (http source)")
	flag.StringVar(&cfg.BundlePath, "bundle", cfg.BundlePath, "Path to a .pkg bundle (bundle source, also searched for images)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite catalog (sqlite source)")
	flag.StringVar(&assetDirs, "assets", assetDirs, "Colon separated image search directories")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Window width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Window height")
	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "Target frame rate")
	flag.Float64Var(&cfg.ParallaxStrength, "strength", cfg.ParallaxStrength, "Parallax strength in pixels")
	flag.BoolVar(&cfg.GlobalPointer, "global-pointer", cfg.GlobalPointer, "Drive parallax from the X11 root pointer (background mode)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable verbose debug logging and the overlay")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	packDir := flag.String("pack", "", "Pack a directory into a .pkg bundle and exit")
	extractPkg := flag.String("extract", "", "Extract a .pkg bundle and exit")
	importJSON := flag.String("import", "", "Import a JSON item list into the SQLite catalog under -key and exit")
	decodeTex := flag.String("decode", "", "Decode a single .tex texture to PNG and exit")
	output := flag.String("o", "", "Output path for -pack, -extract and -decode")
	flag.Parse()

	cfg.AssetDirs = splitList(assetDirs)
	utils.CurrentLevel = utils.ParseLevel(cfg.LogLevel)
	if cfg.Debug {
		utils.CurrentLevel = utils.LevelDebug
		utils.ShowDebugUI = true
	}

	switch {
	case *packDir != "":
		runPack(*packDir, *output)
		return
	case *extractPkg != "":
		runExtract(*extractPkg, *output)
		return
	case *decodeTex != "":
		runDecode(*decodeTex, *output)
		return
	case *importJSON != "":
		runImport(*importJSON, cfg)
		return
	}

	if err := cfg.Validate(); err != nil {
		utils.Error("%v", err)
		os.Exit(1)
	}

	utils.Info("--- Book Canvas Start ---")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	src, bundle, closeSource, err := openSource(cfg)
	if err != nil {
		cancel()
		utils.Error("Failed to open %s source: %v", cfg.SourceType, err)
		os.Exit(1)
	}
	raw := media.Load(ctx, src, cfg.Key)
	cancel()

	items := layout.Layout(raw)
	utils.Info("Loaded %d items (%d after layout)", len(raw), len(items))

	rl.SetTraceLogCallback(utils.RaylibLogCallback)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), "Book Canvas")

	window := NewWindow(items, cfg)
	resolver := &media.Resolver{Dirs: cfg.AssetDirs, Bundle: bundle}
	loadTextures(resolver, items, window.renderer, cfg.FetchTimeout)

	utils.Info("Starting render loop...")
	window.Run()

	window.Close()
	closeSource()
	rl.CloseWindow()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ":") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runPack(dir, outPath string) {
	if outPath == "" {
		outPath = filepath.Clean(dir) + ".pkg"
	}
	files, err := media.PackDir(dir)
	if err != nil {
		utils.Error("Failed to read %s: %v", dir, err)
		os.Exit(1)
	}

	f, err := os.Create(outPath)
	if err != nil {
		utils.Error("Failed to create output file: %v", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := media.WriteBundle(f, files); err != nil {
		utils.Error("Failed to write bundle: %v", err)
		os.Exit(1)
	}
	utils.Info("Packed %d files into %s", len(files), outPath)
}

func runExtract(pkgPath, outDir string) {
	if outDir == "" {
		outDir = strings.TrimSuffix(pkgPath, filepath.Ext(pkgPath))
	}
	bundle, f, err := media.OpenBundle(pkgPath)
	if err != nil {
		utils.Error("Failed to open bundle: %v", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := bundle.Extract(outDir); err != nil {
		utils.Error("Failed to extract bundle: %v", err)
		os.Exit(1)
	}
	utils.Info("Extracted %d files to %s", len(bundle.Entries), outDir)
}

func runDecode(texPath, outPath string) {
	utils.Info("Decoding: %s", texPath)
	data, err := os.ReadFile(texPath)
	if err != nil {
		utils.Error("Failed to read texture: %v", err)
		os.Exit(1)
	}
	img, err := media.DecodeImage(texPath, data)
	if err != nil {
		utils.Error("Decode failed: %v", err)
		os.Exit(1)
	}

	if outPath == "" {
		baseName := filepath.Base(texPath)
		outPath = strings.TrimSuffix(baseName, filepath.Ext(baseName)) + ".png"
	}
	f, err := os.Create(outPath)
	if err != nil {
		utils.Error("Failed to create output file: %v", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		utils.Error("Failed to encode PNG: %v", err)
		os.Exit(1)
	}
	utils.Info("Decode successful! Saved to: %s", outPath)
}

func runImport(jsonPath string, cfg config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	dir, name := filepath.Split(jsonPath)
	items, err := media.DirSource{Dir: dir}.Fetch(ctx, strings.TrimSuffix(name, filepath.Ext(name)))
	if err != nil {
		utils.Error("Failed to read %s: %v", jsonPath, err)
		os.Exit(1)
	}

	catalog, err := media.OpenSQLiteSource(cfg.DBPath)
	if err != nil {
		utils.Error("Failed to open catalog: %v", err)
		os.Exit(1)
	}
	defer catalog.Close()

	if err := catalog.Put(ctx, cfg.Key, items); err != nil {
		utils.Error("Failed to import items: %v", err)
		os.Exit(1)
	}
	utils.Info("Imported %d items into %s under %q", len(items), cfg.DBPath, cfg.Key)
}
