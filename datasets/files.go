package datasets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// GetFiles returns the files in dir whose extension is in extensions, in
// lexical order. Hidden files (leading dot) and directories are skipped. An
// empty extensions set accepts every file. Extensions are compared lower-cased
// and may be given with or without the leading dot. recurse controls whether
// subfolders are searched.
func GetFiles(fs afero.Fs, dir string, extensions []string, recurse bool) ([]string, error) {
	allowed := normalizeExtensions(extensions)
	keep := func(path string, info os.FileInfo) bool {
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return false
		}
		if len(allowed) == 0 {
			return true
		}
		_, ok := allowed[strings.ToLower(filepath.Ext(path))]
		return ok
	}

	var files []string
	if !recurse {
		infos, err := afero.ReadDir(fs, dir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list %s", dir)
		}
		for _, info := range infos {
			path := filepath.Join(dir, info.Name())
			if keep(path, info) {
				files = append(files, path)
			}
		}
	} else {
		err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if keep(path, info) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", dir)
		}
	}

	logger.Debug("scanned folder",
		zap.String("dir", dir),
		zap.Bool("recurse", recurse),
		zap.Int("files", len(files)))
	return files, nil
}

func normalizeExtensions(extensions []string) map[string]struct{} {
	if len(extensions) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out[e] = struct{}{}
	}
	return out
}

// firstSegment returns the first path element of item relative to base.
func firstSegment(base, item string) (string, error) {
	rel, err := filepath.Rel(base, item)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrNotInPath, "%s is not under %s", item, base)
	}
	rel = filepath.ToSlash(rel)
	if i := strings.Index(rel, "/"); i >= 0 {
		return rel[:i], nil
	}
	return rel, nil
}
