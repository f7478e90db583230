package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxBody bounds every HTTP response the sources read.
const maxBody = 64 << 20

// HTTPSource fetches GET <BaseURL>/<key> and decodes a JSON item list.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func (s HTTPSource) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

func (s HTTPSource) Fetch(ctx context.Context, key string) ([]RawItem, error) {
	endpoint := strings.TrimRight(s.BaseURL, "/") + "/" + url.PathEscape(key)
	data, status, err := get(ctx, s.client(), endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || status == http.StatusNoContent {
		return nil, nil
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", endpoint, status)
	}
	return decodeItems(data)
}

func get(ctx context.Context, client *http.Client, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return data, resp.StatusCode, nil
}
