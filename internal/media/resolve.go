package media

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".tex"}

// Resolver maps image references to bytes. Remote references are fetched
// over HTTP; local ones are looked up in the bundle first, then in Dirs.
type Resolver struct {
	Dirs   []string
	Bundle *Bundle
	Client *http.Client
}

// Read returns the data behind src and the name it was found under.
func (r *Resolver) Read(ctx context.Context, src string) ([]byte, string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, "", fmt.Errorf("empty image reference")
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		client := r.Client
		if client == nil {
			client = http.DefaultClient
		}
		data, status, err := get(ctx, client, src)
		if err != nil {
			return nil, "", err
		}
		if status < 200 || status > 299 {
			return nil, "", fmt.Errorf("fetch %s: unexpected status %d", src, status)
		}
		return data, urlName(src), nil
	}

	candidates := candidateNames(src)
	if r.Bundle != nil {
		for _, name := range candidates {
			if r.Bundle.Has(name) {
				data, err := r.Bundle.Open(name)
				return data, name, err
			}
		}
	}
	if p := r.FindFile(src); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, "", err
		}
		return data, p, nil
	}
	return nil, "", fmt.Errorf("resolve %s: %w", src, os.ErrNotExist)
}

// FindFile searches Dirs for src, trying its base name and known image
// extensions, and finally walks each dir for a file with the same stem.
func (r *Resolver) FindFile(src string) string {
	candidates := candidateNames(src)
	for _, dir := range r.Dirs {
		for _, name := range candidates {
			p := filepath.Join(dir, filepath.FromSlash(name))
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
	}

	stem := strings.TrimSuffix(path.Base(src), path.Ext(src))
	var found string
	for _, dir := range r.Dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			base := filepath.Base(p)
			ext := filepath.Ext(base)
			if strings.TrimSuffix(base, ext) == stem && isImageExt(ext) {
				found = p
				return filepath.SkipAll
			}
			return nil
		})
		if found != "" {
			break
		}
	}
	return found
}

func candidateNames(src string) []string {
	clean := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(src)), "/")
	names := []string{clean}
	if base := path.Base(clean); base != clean {
		names = append(names, base)
	}
	if path.Ext(clean) == "" {
		for _, ext := range imageExtensions {
			names = append(names, clean+ext)
		}
	}
	return names
}

func isImageExt(ext string) bool {
	for _, e := range imageExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func urlName(src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	return path.Base(src)
}
