package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bookcanvas/internal/config"
	"bookcanvas/internal/layout"
	"bookcanvas/internal/media"
	"bookcanvas/internal/render"
	"bookcanvas/internal/utils"
)

// openSource builds the configured data source. The bundle, when one is
// configured, is returned for image lookup whatever the source type.
func openSource(cfg config.Config) (media.Source, *media.Bundle, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var bundle *media.Bundle
	if cfg.BundlePath != "" {
		b, f, err := media.OpenBundle(cfg.BundlePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open bundle: %w", err)
		}
		utils.Debug("Opened bundle %s (%s, %d entries)", cfg.BundlePath, b.Version, len(b.Entries))
		bundle = b
		closers = append(closers, func() { f.Close() })
	}

	switch cfg.SourceType {
	case config.SourceFile:
		return media.DirSource{Dir: cfg.DataDir}, bundle, closeAll, nil
	case config.SourceHTTP:
		client := &http.Client{Timeout: cfg.FetchTimeout}
		return media.HTTPSource{BaseURL: cfg.BaseURL, Client: client}, bundle, closeAll, nil
	case config.SourceBundle:
		return media.BundleSource{Bundle: bundle}, bundle, closeAll, nil
	case config.SourceSQLite:
		catalog, err := media.OpenSQLiteSource(cfg.DBPath)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, func() { catalog.Close() })
		return catalog, bundle, closeAll, nil
	}
	closeAll()
	return nil, nil, nil, fmt.Errorf("unknown source %q", cfg.SourceType)
}

// loadTextures decodes and uploads every item's image. Failures leave the
// item on its placeholder.
func loadTextures(resolver *media.Resolver, items []layout.Item, r *render.Renderer, timeout time.Duration) {
	loaded := 0
	for _, item := range items {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		img, err := media.LoadImage(ctx, resolver, item.Image)
		cancel()
		if err != nil {
			utils.Warn("Failed to load image for %s (%s): %v", item.ID, item.Image.DrawSource(), err)
			continue
		}
		r.Load(item.ID, img)
		if r.Has(item.ID) {
			loaded++
		}
	}
	utils.Info("Loaded %d/%d textures", loaded, len(items))
}
