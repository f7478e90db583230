package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BundleVersion is written into every archive created by WriteBundle.
const BundleVersion = "PKGV0001"

// maxEntryHint bounds the entry table preallocation.
const maxEntryHint = 4096

type FileEntry struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Bundle is an opened media archive: a version string, an entry table and
// a data block. Entry offsets are relative to the start of the data block.
type Bundle struct {
	Version string
	Entries []FileEntry

	r         io.ReaderAt
	dataStart int64
	index     map[string]int
}

func readPkgString(r io.Reader) (string, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return "", err
	}
	if size > 1<<16 {
		return "", fmt.Errorf("string length %d exceeds limit", size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writePkgString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadBundle parses the entry table of an archive. Entry data is read
// lazily through r.
func ReadBundle(r io.ReadSeeker) (*Bundle, error) {
	version, err := readPkgString(r)
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	logger.Debug("Bundle version %s", version)

	var fileCount uint32
	if err := binary.Read(r, binary.LittleEndian, &fileCount); err != nil {
		return nil, fmt.Errorf("read file count: %w", err)
	}

	// fileCount is untrusted; the table grows as entries are actually read.
	hint := min(fileCount, maxEntryHint)
	b := &Bundle{
		Version: version,
		Entries: make([]FileEntry, 0, hint),
		index:   make(map[string]int, hint),
	}
	for i := uint32(0); i < fileCount; i++ {
		name, err := readPkgString(r)
		if err != nil {
			return nil, fmt.Errorf("read entry %d name: %w", i, err)
		}
		var offset, size uint32
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return nil, fmt.Errorf("read entry %s offset: %w", name, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("read entry %s size: %w", name, err)
		}
		b.index[filepath.ToSlash(name)] = len(b.Entries)
		b.Entries = append(b.Entries, FileEntry{Name: name, Offset: offset, Size: size})
	}

	b.dataStart, err = r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(b.dataStart, io.SeekStart); err != nil {
		return nil, err
	}
	dataLen := end - b.dataStart
	for _, e := range b.Entries {
		if int64(e.Offset)+int64(e.Size) > dataLen {
			return nil, fmt.Errorf("entry %s spans %d+%d past data block of %d bytes", e.Name, e.Offset, e.Size, dataLen)
		}
	}
	ra, ok := r.(io.ReaderAt)
	if !ok {
		return nil, fmt.Errorf("bundle reader does not support ReadAt")
	}
	b.r = ra
	return b, nil
}

// OpenBundle opens and parses the archive at path. The caller closes the
// returned file once done with the bundle.
func OpenBundle(path string) (*Bundle, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	b, err := ReadBundle(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("read bundle %s: %w", path, err)
	}
	return b, f, nil
}

// Has reports whether the archive contains name.
func (b *Bundle) Has(name string) bool {
	_, ok := b.index[filepath.ToSlash(name)]
	return ok
}

// Open returns the contents of the entry called name.
func (b *Bundle) Open(name string) ([]byte, error) {
	i, ok := b.index[filepath.ToSlash(name)]
	if !ok {
		return nil, os.ErrNotExist
	}
	entry := b.Entries[i]
	if entry.Size == 0 {
		return []byte{}, nil
	}
	data := make([]byte, entry.Size)
	section := io.NewSectionReader(b.r, b.dataStart+int64(entry.Offset), int64(entry.Size))
	if _, err := io.ReadFull(section, data); err != nil {
		return nil, fmt.Errorf("read bundle entry %s: %w", entry.Name, err)
	}
	return data, nil
}

// Extract writes every entry below outputDir.
func (b *Bundle) Extract(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	root := filepath.Clean(outputDir)
	for i, entry := range b.Entries {
		if i%10 == 0 || i == len(b.Entries)-1 {
			logger.Debug("Extracting file %d/%d: %s", i+1, len(b.Entries), entry.Name)
		}
		destPath := filepath.Join(root, entry.Name)
		if destPath != root && !strings.HasPrefix(destPath, root+string(os.PathSeparator)) {
			return fmt.Errorf("entry %s escapes %s", entry.Name, outputDir)
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}
		data, err := b.Open(entry.Name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(destPath, data, 0644); err != nil {
			return err
		}
	}
	logger.Debug("Extraction completed")
	return nil
}

// WriteBundle writes files as an archive, entries sorted by name.
func WriteBundle(w io.Writer, files map[string][]byte) error {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var header bytes.Buffer
	if err := writePkgString(&header, BundleVersion); err != nil {
		return err
	}
	if err := binary.Write(&header, binary.LittleEndian, uint32(len(names))); err != nil {
		return err
	}
	var offset uint32
	for _, name := range names {
		if err := writePkgString(&header, filepath.ToSlash(name)); err != nil {
			return err
		}
		size := uint32(len(files[name]))
		if err := binary.Write(&header, binary.LittleEndian, offset); err != nil {
			return err
		}
		if err := binary.Write(&header, binary.LittleEndian, size); err != nil {
			return err
		}
		offset += size
	}
	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := w.Write(files[name]); err != nil {
			return fmt.Errorf("write entry %s: %w", name, err)
		}
	}
	return nil
}

// PackDir collects every regular file below dir, keyed by slash path.
func PackDir(dir string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", dir, err)
	}
	return files, nil
}

// BundleSource serves <key>.json from an archive.
type BundleSource struct {
	Bundle *Bundle
}

func (s BundleSource) Fetch(ctx context.Context, key string) ([]RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Bundle == nil {
		return nil, nil
	}
	data, err := s.Bundle.Open(key + ".json")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return decodeItems(data)
}
