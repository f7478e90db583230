package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bookcanvas/internal/utils"
)

var logger = utils.Tagged("media")

// Source fetches the raw items stored under key. A nil slice with a nil
// error means there is no data for key.
type Source interface {
	Fetch(ctx context.Context, key string) ([]RawItem, error)
}

// Load fetches key from src and degrades every failure to "no data".
// The canvas renders nothing for a nil result.
func Load(ctx context.Context, src Source, key string) []RawItem {
	if src == nil {
		return nil
	}
	items, err := src.Fetch(ctx, key)
	if err != nil {
		logger.Warn("Fetch %q failed, rendering nothing: %v", key, err)
		return nil
	}
	if len(items) == 0 {
		logger.Info("No media for %q", key)
		return nil
	}
	logger.Debug("Fetched %d raw items for %q", len(items), key)
	return items
}

func decodeItems(data []byte) ([]RawItem, error) {
	var items []RawItem
	if err := json.Unmarshal(data, &items); err != nil {
		// Accept the CMS envelope form {"items": [...]} as well.
		var envelope struct {
			Items []RawItem `json:"items"`
		}
		if envErr := json.Unmarshal(data, &envelope); envErr != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		return envelope.Items, nil
	}
	return items, nil
}

// DirSource reads <Dir>/<key>.json.
type DirSource struct {
	Dir string
}

func (s DirSource) Fetch(ctx context.Context, key string) ([]RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, key+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read items: %w", err)
	}
	return decodeItems(data)
}
