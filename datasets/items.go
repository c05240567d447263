package datasets

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ItemList is an ordered, indexable collection of raw items. Items stay raw
// until read: Get passes them through the CreateFunc, if one is set.
//
// The number of items only changes through the Filter methods, which replace
// the whole sequence.
type ItemList struct {
	items     []string
	create    CreateFunc
	path      string
	labelKind LabelKind
	xtra      *Table
	fs        afero.Fs
	cache     *lru.Cache
	proc      Preprocessor
}

// Option configures an ItemList.
type Option func(*ItemList) error

// WithCreateFunc sets the conversion applied by Get.
func WithCreateFunc(fn CreateFunc) Option {
	return func(l *ItemList) error {
		l.create = fn
		return nil
	}
}

// WithPath sets the base path items are relative to. Defaults to ".".
func WithPath(path string) Option {
	return func(l *ItemList) error {
		l.path = path
		return nil
	}
}

// WithLabelKind sets the label collection labeling methods build when the
// caller does not pick one.
func WithLabelKind(k LabelKind) Option {
	return func(l *ItemList) error {
		l.labelKind = k
		return nil
	}
}

// WithXtra attaches a side table aligned with the items by row.
func WithXtra(t *Table) Option {
	return func(l *ItemList) error {
		if t != nil && t.Len() != len(l.items) {
			return errors.Wrapf(ErrLengthMismatch, "side table has %d rows for %d items", t.Len(), len(l.items))
		}
		l.xtra = t
		return nil
	}
}

// WithFs sets the filesystem used by folder and CSV helpers. Defaults to the
// OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(l *ItemList) error {
		l.fs = fs
		return nil
	}
}

// WithCache memoizes up to size CreateFunc results, keyed by raw item.
// Lists derived by Index or New share the cache.
func WithCache(size int) Option {
	return func(l *ItemList) error {
		c, err := lru.New(size)
		if err != nil {
			return errors.Wrap(err, "failed to create item cache")
		}
		l.cache = c
		return nil
	}
}

// WithPreprocessor sets the hook run by Preprocess.
func WithPreprocessor(p Preprocessor) Option {
	return func(l *ItemList) error {
		l.proc = p
		return nil
	}
}

// NewItemList creates an ItemList over a copy of items.
func NewItemList(items []string, opts ...Option) (*ItemList, error) {
	l := &ItemList{
		items: append([]string(nil), items...),
		path:  ".",
		fs:    afero.NewOsFs(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Len returns the number of items.
func (l *ItemList) Len() int { return len(l.items) }

// Items returns the raw items. The slice must not be modified.
func (l *ItemList) Items() []string { return l.items }

// Path returns the base path.
func (l *ItemList) Path() string { return l.path }

// Xtra returns the side table, or nil.
func (l *ItemList) Xtra() *Table { return l.xtra }

// LabelKind returns the label collection hint.
func (l *ItemList) LabelKind() LabelKind { return l.labelKind }

// Fs returns the filesystem used by the list's helpers.
func (l *ItemList) Fs() afero.Fs { return l.fs }

// Get returns item i passed through the CreateFunc, or the raw item when no
// CreateFunc is set.
func (l *ItemList) Get(i int) (any, error) {
	if i < 0 || i >= len(l.items) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "item %d of %d", i, len(l.items))
	}
	item := l.items[i]
	if l.create == nil {
		return item, nil
	}
	if l.cache != nil {
		if v, ok := l.cache.Get(item); ok {
			return v, nil
		}
	}
	v, err := l.create(item)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create item %q", item)
	}
	if l.cache != nil {
		l.cache.Add(item, v)
	}
	return v, nil
}

// Index returns a new ItemList holding the raw items at idxs, with the side
// table sliced the same way. Settings carry over.
func (l *ItemList) Index(idxs []int) (*ItemList, error) {
	items := make([]string, len(idxs))
	for i, idx := range idxs {
		if idx < 0 || idx >= len(l.items) {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "item %d of %d", idx, len(l.items))
		}
		items[i] = l.items[idx]
	}
	var xtra *Table
	if l.xtra != nil {
		var err error
		if xtra, err = l.xtra.SelectRows(idxs); err != nil {
			return nil, err
		}
	}
	return l.New(items, xtra), nil
}

// New returns a list of the given items that shares every setting of l.
func (l *ItemList) New(items []string, xtra *Table) *ItemList {
	return &ItemList{
		items:     items,
		create:    l.create,
		path:      l.path,
		labelKind: l.labelKind,
		xtra:      xtra,
		fs:        l.fs,
		cache:     l.cache,
		proc:      l.proc,
	}
}

// clone returns a list over a copy of l's items, so filtering one leaves the
// other untouched.
func (l *ItemList) clone() *ItemList {
	if l == nil {
		return nil
	}
	return l.New(append([]string(nil), l.items...), l.xtra)
}

// Preprocess runs the list's Preprocessor, if any, and returns the extra
// options it declares.
func (l *ItemList) Preprocess(opts Params) (Params, error) {
	if l.proc == nil {
		return nil, nil
	}
	extra, err := l.proc.Preprocess(l.items, opts)
	if err != nil {
		return nil, errors.Wrap(err, "preprocess failed")
	}
	return extra, nil
}

// FilterByFunc keeps only the items for which pred returns true. It works in
// place and returns l.
func (l *ItemList) FilterByFunc(pred func(item string) bool) *ItemList {
	keep := make([]int, 0, len(l.items))
	for i, it := range l.items {
		if pred(it) {
			keep = append(keep, i)
		}
	}
	l.keep(keep)
	return l
}

// FilterByFolder keeps the items whose first folder relative to the base path
// is in include (when include is non-empty) and not in exclude. It works in
// place and returns l.
func (l *ItemList) FilterByFolder(include, exclude []string) (*ItemList, error) {
	inc := toSet(include)
	exc := toSet(exclude)
	keep := make([]int, 0, len(l.items))
	for i, it := range l.items {
		n, err := firstSegment(l.path, it)
		if err != nil {
			return nil, err
		}
		if len(inc) > 0 {
			if _, ok := inc[n]; !ok {
				continue
			}
		}
		if _, ok := exc[n]; ok {
			continue
		}
		keep = append(keep, i)
	}
	l.keep(keep)
	return l, nil
}

// keep replaces the items (and side table rows) by the ones at idxs.
func (l *ItemList) keep(idxs []int) {
	items := make([]string, len(idxs))
	for i, idx := range idxs {
		items[i] = l.items[idx]
	}
	if l.xtra != nil {
		// idxs come from ranging over l.items, so they are always in range.
		l.xtra, _ = l.xtra.SelectRows(idxs)
	}
	l.items = items
}

func (l *ItemList) String() string {
	const show = 5
	var b strings.Builder
	fmt.Fprintf(&b, "ItemList (%d items)\n", len(l.items))
	for i, it := range l.items {
		if i == show {
			b.WriteString("...\n")
			break
		}
		b.WriteString(it)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Path: %s", l.path)
	return b.String()
}

func toSet(vals []string) map[string]struct{} {
	out := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		out[v] = struct{}{}
	}
	return out
}
