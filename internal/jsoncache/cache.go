// Package jsoncache persists crawl results as a single JSON array on disk.
//
// Every Append reads the whole file, adds one element and writes the whole
// array back. There is no locking, callers are expected to be sequential.
package jsoncache

import (
	"baredcrawl/internal/components/telemetry"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	report_cache_load = "cache.load"
	report_cache_save = "cache.save"
)

type Cache[T any] struct {
	path string
	tel  telemetry.API
}

// New creates the parent directories of path, the file itself is only
// created on the first Save or Append.
func New[T any](path string, tel telemetry.API) (Cache[T], error) {
	tel = telemetry.NewScopedAPI("jsoncache", tel)

	err := os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return Cache[T]{}, fmt.Errorf("create cache directory: %w", err)
	}
	return Cache[T]{path: path, tel: tel}, nil
}

func (c Cache[T]) Path() string {
	return c.path
}

// loadRaw returns the elements of the array as they appear on disk. a missing
// file or a file that is not a JSON array yields an empty slice.
func (c Cache[T]) loadRaw() ([]json.RawMessage, error) {
	contents, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		c.tel.ReportBroken(report_cache_load, fmt.Errorf("read: %w", err), c.path)
		return nil, err
	}

	var items []json.RawMessage
	err = json.Unmarshal(contents, &items)
	if err != nil {
		c.tel.ReportWarning(
			report_cache_load,
			fmt.Errorf("malformed cache file, starting a new one: %w", err),
			c.path,
		)
		return []json.RawMessage{}, nil
	}
	if items == nil {
		// the file contained `null`
		items = []json.RawMessage{}
	}
	return items, nil
}

// Load returns every cached item, see loadRaw for the empty cases.
func (c Cache[T]) Load() ([]T, error) {
	raw, err := c.loadRaw()
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var item T
		err := json.Unmarshal(r, &item)
		if err != nil {
			c.tel.ReportWarning(
				report_cache_load,
				fmt.Errorf("skipping item %d: %w", i, err),
				c.path,
			)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// Save replaces the contents of the cache file with items.
func (c Cache[T]) Save(items []T) error {
	raw := make([]json.RawMessage, len(items))
	for i, item := range items {
		encoded, err := marshal(item)
		if err != nil {
			c.tel.ReportBroken(report_cache_save, fmt.Errorf("marshal item %d: %w", i, err))
			return err
		}
		raw[i] = encoded
	}
	return c.saveRaw(raw)
}

// Append adds one item to the end of the cache file. items already in the
// file are kept as they are, including fields T does not know about.
func (c Cache[T]) Append(item T) error {
	raw, err := c.loadRaw()
	if err != nil {
		return err
	}
	encoded, err := marshal(item)
	if err != nil {
		c.tel.ReportBroken(report_cache_save, fmt.Errorf("marshal item: %w", err))
		return err
	}
	return c.saveRaw(append(raw, encoded))
}

func (c Cache[T]) saveRaw(items []json.RawMessage) error {
	contents, err := encodeArray(items)
	if err != nil {
		c.tel.ReportBroken(report_cache_save, fmt.Errorf("encode: %w", err), c.path)
		return err
	}

	err = writeFile(c.path, contents)
	if err != nil {
		c.tel.ReportBroken(report_cache_save, fmt.Errorf("write: %w", err), c.path)
		return err
	}

	slog.Info("saved", "path", c.path, "items", len(items))
	return nil
}

func marshal(v any) (json.RawMessage, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// encodeArray renders the array with a two space indent, raw elements are
// re-indented so that the file looks the same no matter where they came from.
func encodeArray(items []json.RawMessage) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(items)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// writeFile writes through a temp file in the same directory so that a
// crash mid-write never leaves a truncated cache behind.
func writeFile(path string, contents []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(contents)
	if err == nil {
		err = tmp.Sync()
	}
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0644)
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
