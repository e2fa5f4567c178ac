package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File keeps one namespace of keys in a JSON document on disk. The whole
// document is rewritten on every change through a temp file and rename, so
// a crash mid-write leaves the previous contents intact.
//
// Layout: {"<namespace>": {"<key>": "<value>", ...}, ...}
type File struct {
	mu        sync.Mutex
	path      string
	namespace string
}

// NewFile returns a store backed by path. The file and its directory are
// created on first write.
func NewFile(path, namespace string) *File {
	return &File{path: path, namespace: namespace}
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := doc[f.namespace][key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, _, err := f.loadForWrite()
	if err != nil {
		return err
	}
	ns := doc[f.namespace]
	if ns == nil {
		ns = make(map[string]string)
		doc[f.namespace] = ns
	}
	ns[key] = value
	return f.save(doc)
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, reset, err := f.loadForWrite()
	if err != nil {
		return err
	}
	ns := doc[f.namespace]
	if _, ok := ns[key]; !ok {
		if reset {
			return f.save(doc)
		}
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(doc, f.namespace)
	}
	return f.save(doc)
}

func (f *File) Close() error { return nil }

func (f *File) load() (map[string]map[string]string, error) {
	doc := make(map[string]map[string]string)

	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, f.path, err)
	}
	return doc, nil
}

// loadForWrite is load for callers about to save. An undecodable document
// is discarded and reset reports it, so writes recover the file.
func (f *File) loadForWrite() (doc map[string]map[string]string, reset bool, err error) {
	doc, err = f.load()
	if errors.Is(err, ErrCorrupt) {
		return make(map[string]map[string]string), true, nil
	}
	return doc, false, err
}

func (f *File) save(doc map[string]map[string]string) error {
	b, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
