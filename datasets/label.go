package datasets

import (
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type labelConfig struct {
	kind    LabelKind
	classes []string
	delim   rune
	tfms    []Transform
	params  Params
	tfmY    bool
}

// LabelOption configures a labeling method.
type LabelOption func(*labelConfig)

// WithKind forces the label collection to build.
func WithKind(k LabelKind) LabelOption {
	return func(c *labelConfig) { c.kind = k }
}

// WithLabelClasses supplies the class vocabulary instead of deriving it.
func WithLabelClasses(classes []string) LabelOption {
	return func(c *labelConfig) { c.classes = classes }
}

// WithDelimiter splits every raw label on delim into a set of labels. Unless
// a kind is forced this builds a MultiCategoryList.
func WithDelimiter(delim rune) LabelOption {
	return func(c *labelConfig) { c.delim = delim }
}

// WithLabelTransforms sets the pipeline of the resulting LabelList.
func WithLabelTransforms(tfms []Transform, params Params, tfmY bool) LabelOption {
	return func(c *labelConfig) {
		c.tfms, c.params, c.tfmY = tfms, params, tfmY
	}
}

func newLabelConfig(opts []LabelOption) *labelConfig {
	cfg := &labelConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// createLabelList wraps one raw label per item in the resolved label kind.
func (l *ItemList) createLabelList(labels []string, cfg *labelConfig) (*LabelList, error) {
	var y Labels
	switch ResolveLabelKind(cfg.kind, l.labelKind, cfg.delim) {
	case KindMultiCategory:
		var sets [][]string
		if cfg.delim != 0 {
			var err error
			if sets, err = SplitMultiLabels(labels, cfg.delim); err != nil {
				return nil, err
			}
		} else {
			sets = make([][]string, len(labels))
			for i, s := range labels {
				sets[i] = []string{s}
			}
		}
		y = NewMultiCategoryList(sets, cfg.classes)
	default:
		y = NewCategoryList(labels, cfg.classes)
	}
	return l.pair(y, cfg)
}

func (l *ItemList) pair(y Labels, cfg *labelConfig) (*LabelList, error) {
	if cfg.classes != nil {
		var unknown []string
		switch t := y.(type) {
		case *CategoryList:
			unknown = t.Unknown()
		case *MultiCategoryList:
			unknown = t.Unknown()
		}
		if len(unknown) > 0 {
			logger.Warn("labels missing from the class vocabulary",
				zap.Strings("labels", unknown),
				zap.Int("classes", len(cfg.classes)))
		}
	}
	ll, err := NewLabelList(l, y)
	if err != nil {
		return nil, err
	}
	if cfg.tfms != nil {
		ll.Transform(cfg.tfms, WithParams(cfg.params), WithTransformY(cfg.tfmY))
	}
	return ll, nil
}

func (l *ItemList) labelFromFunc(fn func(item string) (string, error), cfg *labelConfig) (*LabelList, error) {
	labels := make([]string, len(l.items))
	for i, it := range l.items {
		s, err := fn(it)
		if err != nil {
			return nil, err
		}
		labels[i] = s
	}
	return l.createLabelList(labels, cfg)
}

// LabelFromFunc labels every item with fn(item).
func (l *ItemList) LabelFromFunc(fn func(item string) string, opts ...LabelOption) (*LabelList, error) {
	return l.labelFromFunc(func(it string) (string, error) { return fn(it), nil }, newLabelConfig(opts))
}

// LabelConst labels every item with c.
func (l *ItemList) LabelConst(c string, opts ...LabelOption) (*LabelList, error) {
	return l.LabelFromFunc(func(string) string { return c }, opts...)
}

// LabelFromList labels item i with labels[i].
func (l *ItemList) LabelFromList(labels []string, opts ...LabelOption) (*LabelList, error) {
	if len(labels) != len(l.items) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d items, %d labels", len(l.items), len(labels))
	}
	return l.createLabelList(labels, newLabelConfig(opts))
}

// LabelFromFolder labels every item with the name of its parent folder. It
// builds a CategoryList unless another kind is forced.
func (l *ItemList) LabelFromFolder(opts ...LabelOption) (*LabelList, error) {
	opts = append([]LabelOption{WithKind(KindCategory)}, opts...)
	return l.LabelFromFunc(func(it string) string {
		return filepath.Base(filepath.Dir(it))
	}, opts...)
}

// LabelFromRe labels every item with the first capture group of pattern,
// searched in the file name, or in the full path when fullPath is set. An
// item the pattern does not match fails the whole labeling with ErrNoMatch.
func (l *ItemList) LabelFromRe(pattern string, fullPath bool, opts ...LabelOption) (*LabelList, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "bad label pattern %q", pattern)
	}
	if re.NumSubexp() < 1 {
		return nil, errors.Wrapf(ErrPrecondition, "label pattern %q has no capture group", pattern)
	}
	return l.labelFromFunc(func(it string) (string, error) {
		s := it
		if !fullPath {
			s = filepath.Base(it)
		}
		m := re.FindStringSubmatch(s)
		if m == nil {
			return "", errors.Wrapf(ErrNoMatch, "failed to find %q in %q", pattern, s)
		}
		return m[1], nil
	}, newLabelConfig(opts))
}

// LabelFromDF labels every item from the side table. cols defaults to the
// second column. With a delimiter the single label column is split into label
// sets. With several columns and no delimiter the columns are one-hot flags
// and each item gets the names of the columns holding 1.
func (l *ItemList) LabelFromDF(cols []Column, opts ...LabelOption) (*LabelList, error) {
	cfg := newLabelConfig(opts)
	if len(cols) == 0 {
		cols = []Column{Col(1)}
	}
	if cfg.delim != 0 && len(cols) > 1 {
		return nil, errors.Wrapf(ErrPrecondition, "delimiter given with %d label columns", len(cols))
	}
	if l.xtra == nil {
		return nil, errors.Wrap(ErrPrecondition, "list has no side table to label from")
	}
	if len(cols) == 1 {
		labels, err := l.xtra.Column(cols[0])
		if err != nil {
			return nil, err
		}
		return l.createLabelList(labels, cfg)
	}

	idxs := make([]int, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		idx, err := l.xtra.ColumnIndex(c)
		if err != nil {
			return nil, err
		}
		idxs[i], names[i] = idx, l.xtra.Header()[idx]
	}
	sets := make([][]string, l.xtra.Len())
	for r := range sets {
		row := l.xtra.Row(r)
		set := []string{}
		for i, idx := range idxs {
			if isTruthy(row[idx]) {
				set = append(set, names[i])
			}
		}
		sets[r] = set
	}
	classes := cfg.classes
	if classes == nil {
		classes = names
	}
	return l.pair(NewMultiCategoryList(sets, classes), cfg)
}

// LabelCSVOptions locates labels in a CSV file for LabelFromCSV.
type LabelCSVOptions struct {
	// Header reports whether the first record names the columns.
	Header bool
	// FnCol holds file names, LabelCol their labels.
	FnCol, LabelCol Column
	// Folder is prepended to file names, relative to the list path.
	Folder string
	// Suffix is appended to file names, e.g. ".jpg".
	Suffix string
}

// DefaultLabelCSVOptions reads names from the first column and labels from
// the second of a CSV with a header.
func DefaultLabelCSVOptions() LabelCSVOptions {
	return LabelCSVOptions{Header: true, FnCol: Col(0), LabelCol: Col(1), Folder: "."}
}

// LabelFromCSV reads path/csvName and labels every item by looking up its
// path among path/Folder/<name><Suffix> rows.
func (l *ItemList) LabelFromCSV(csvName string, o LabelCSVOptions, opts ...LabelOption) (*LabelList, error) {
	t, err := ReadCSV(l.fs, filepath.Join(l.path, csvName), o.Header)
	if err != nil {
		return nil, err
	}
	names, err := t.Column(o.FnCol)
	if err != nil {
		return nil, err
	}
	labels, err := t.Column(o.LabelCol)
	if err != nil {
		return nil, err
	}
	byPath := make(map[string]string, len(names))
	for i, n := range names {
		byPath[filepath.Join(l.path, o.Folder, n+o.Suffix)] = labels[i]
	}
	return l.labelFromFunc(func(it string) (string, error) {
		lbl, ok := byPath[filepath.Clean(it)]
		if !ok {
			return "", errors.Wrapf(ErrNoMatch, "no row for %q in %s", it, csvName)
		}
		return lbl, nil
	}, newLabelConfig(opts))
}
