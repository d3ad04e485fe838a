package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

const (
	defaultCacheDir = "./cache"
	filePerm        = 0o644
	dirPerm         = 0o755
)

// validFileKey accepts keys that are safe to use as a bare file name.
var validFileKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func init() {
	Register("file", newFileCache)
}

// fileCache stores one file per entry in a flat directory. The file name is the
// key itself with no extension. Writes go through a hidden temporary file in the
// same directory that is synced and renamed over the final name, so a crash never
// leaves a truncated entry behind. Concurrent writers are not serialized.
type fileCache struct {
	dir    string
	logger *zerolog.Logger
}

func newFileCache(cfg ProviderConfig) (Cache, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultCacheDir
	}
	return &fileCache{dir: dir, logger: cfg.Logger}, nil
}

// ValidateFileKey reports whether key can be stored by the file provider.
func ValidateFileKey(key string) error {
	if !validFileKey.MatchString(key) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("cache: invalid key %q", key)
	}
	return nil
}

func (f *fileCache) path(key string) (string, error) {
	if err := ValidateFileKey(key); err != nil {
		return "", err
	}
	return filepath.Join(f.dir, key), nil
}

func (f *fileCache) Get(key string) ([]byte, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	return data, true, nil
}

func (f *fileCache) Set(key string, value []byte) error {
	if err := ValidateFileKey(key); err != nil {
		return err
	}
	if err := writeFileAtomic(f.dir, key, value); err != nil {
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	return nil
}

// Contains stats the entry without reading it.
func (f *fileCache) Contains(key string) bool {
	path, err := f.path(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) && f.logger != nil {
			f.logger.Error().Err(err).Str("key", key).Msg("file cache Contains failed")
		}
		return false
	}
	return info.Mode().IsRegular()
}

func (f *fileCache) Delete(key string) (bool, error) {
	path, err := f.path(key)
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return true, nil
}

// Len counts entry files, skipping in-flight temporary files.
func (f *fileCache) Len() int {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) && f.logger != nil {
			f.logger.Error().Err(err).Str("dir", f.dir).Msg("file cache Len failed")
		}
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() && ValidateFileKey(e.Name()) == nil {
			n++
		}
	}
	return n
}

func (f *fileCache) Close() error {
	return nil
}

func writeFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		return err
	}

	syncDirBestEffort(dir)
	return nil
}

// syncDirBestEffort flushes the directory entry of a rename. Not every
// platform supports syncing a directory, so failures are ignored.
func syncDirBestEffort(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
