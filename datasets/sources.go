package datasets

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// FromFolder lists the files under path with an extension in extensions (all
// when empty) and wraps them in an ItemList rooted at path.
func FromFolder(fs afero.Fs, path string, extensions []string, recurse bool, opts ...Option) (*ItemList, error) {
	files, err := GetFiles(fs, path, extensions, recurse)
	if err != nil {
		return nil, err
	}
	return NewItemList(files, append([]Option{WithFs(fs), WithPath(path)}, opts...)...)
}

// FromDF takes the items from column col of t and keeps t as the side table.
func FromDF(t *Table, path string, col Column, opts ...Option) (*ItemList, error) {
	items, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	return NewItemList(items, append([]Option{WithPath(path), WithXtra(t)}, opts...)...)
}

// FromCSV reads path/csvName and takes the items from column col.
func FromCSV(fs afero.Fs, path, csvName string, col Column, header bool, opts ...Option) (*ItemList, error) {
	t, err := ReadCSV(fs, filepath.Join(path, csvName), header)
	if err != nil {
		return nil, err
	}
	return FromDF(t, path, col, append([]Option{WithFs(fs)}, opts...)...)
}

// FromCSVs reads every file in csvNames (all sharing one layout), concatenates
// their rows and takes the items from column col.
func FromCSVs(fs afero.Fs, path string, csvNames []string, col Column, header bool, opts ...Option) (*ItemList, error) {
	if len(csvNames) == 0 {
		return nil, errors.Wrap(ErrPrecondition, "no CSV files given")
	}
	var all *Table
	for _, name := range csvNames {
		t, err := ReadCSV(fs, filepath.Join(path, name), header)
		if err != nil {
			return nil, err
		}
		if all == nil {
			all = t
			continue
		}
		if all, err = all.Concat(t); err != nil {
			return nil, errors.Wrapf(err, "failed to append %s", name)
		}
	}
	return FromDF(all, path, col, append([]Option{WithFs(fs)}, opts...)...)
}
