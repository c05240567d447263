package datasets

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// ManifestRow is one labeled item of a manifest.
type ManifestRow struct {
	Split string `csv:"split"`
	Item  string `csv:"item"`
	// Label holds the raw label; label sets are joined with ";".
	Label string `csv:"label"`
}

// Manifest lists every item of labeled lists with its split and raw label.
func Manifest(ls *ItemLists) ([]ManifestRow, error) {
	if err := ls.requireState("Manifest", StateLabeled); err != nil {
		return nil, err
	}
	var rows []ManifestRow
	for i, side := range ls.Lists() {
		split := [...]string{"train", "valid", "test"}[i]
		items := side.x.Items()
		for j, it := range items {
			rows = append(rows, ManifestRow{
				Split: split,
				Item:  it,
				Label: rawLabelString(side.Y().Raw(j)),
			})
		}
	}
	return rows, nil
}

// WriteManifest writes the manifest of ls to w as CSV with a header.
func WriteManifest(w io.Writer, ls *ItemLists) error {
	rows, err := Manifest(ls)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(err, "failed to write manifest")
	}
	return nil
}

func rawLabelString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ";")
	}
	return ""
}
