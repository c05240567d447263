package datasets

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// LabelKind picks the label collection a labeling method builds.
type LabelKind int

const (
	// KindInfer lets ResolveLabelKind decide.
	KindInfer LabelKind = iota
	// KindCategory builds a CategoryList (one class per item).
	KindCategory
	// KindMultiCategory builds a MultiCategoryList (a set of classes per item).
	KindMultiCategory
)

func (k LabelKind) String() string {
	switch k {
	case KindInfer:
		return "infer"
	case KindCategory:
		return "category"
	case KindMultiCategory:
		return "multi-category"
	}
	return fmt.Sprintf("LabelKind(%d)", int(k))
}

// ResolveLabelKind returns explicit if set, else the list's hint if set, else
// KindCategory without a delimiter and KindMultiCategory with one.
func ResolveLabelKind(explicit, hint LabelKind, delim rune) LabelKind {
	switch {
	case explicit != KindInfer:
		return explicit
	case hint != KindInfer:
		return hint
	case delim == 0:
		return KindCategory
	default:
		return KindMultiCategory
	}
}

// Category is a resolved single label.
type Category struct {
	// Obj is the label value.
	Obj string
	// Data is the index of Obj in the class vocabulary.
	Data int
}

func (c Category) String() string { return c.Obj }

// ApplyTransforms returns c unchanged; category labels are not transformed.
func (c Category) ApplyTransforms([]Transform, Params, bool) (any, error) { return c, nil }

// MultiCategory is a resolved set of labels.
type MultiCategory struct {
	// Obj holds the raw label values.
	Obj []string
	// Data holds the distinct class indices of Obj, ascending.
	Data []int
}

func (c MultiCategory) String() string { return strings.Join(c.Obj, ";") }

// ApplyTransforms returns c unchanged.
func (c MultiCategory) ApplyTransforms([]Transform, Params, bool) (any, error) { return c, nil }

// classIndex maps class values to their position.
func classIndex(classes []string) map[string]int {
	m := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := m[c]; !dup {
			m[c] = i
		}
	}
	return m
}

// uniqueSorted returns the distinct values of vals in ascending order.
func uniqueSorted(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0)
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// CategoryList holds one raw label per item and resolves it against a class
// vocabulary on read.
type CategoryList struct {
	items     []string
	classes   []string
	class2idx map[string]int
	x         *ItemList
}

// NewCategoryList creates a CategoryList. When classes is nil the vocabulary
// is the sorted set of distinct items.
func NewCategoryList(items []string, classes []string) *CategoryList {
	if classes == nil {
		classes = uniqueSorted(items)
	}
	return &CategoryList{
		items:     append([]string(nil), items...),
		classes:   classes,
		class2idx: classIndex(classes),
	}
}

func (c *CategoryList) Len() int { return len(c.items) }

// Items returns the raw labels.
func (c *CategoryList) Items() []string { return c.items }

// Classes returns a copy of the class vocabulary.
func (c *CategoryList) Classes() []string { return append([]string(nil), c.classes...) }

// ClassToIdx returns the class vocabulary reverse mapping. The map is shared
// by every list of the vocabulary and must not be modified.
func (c *CategoryList) ClassToIdx() map[string]int { return c.class2idx }

// Inputs returns a copy of the paired inputs, or nil.
func (c *CategoryList) Inputs() *ItemList { return c.x.clone() }

func (c *CategoryList) setInputs(x *ItemList) { c.x = x }

// Category resolves item i.
func (c *CategoryList) Category(i int) (Category, error) {
	if i < 0 || i >= len(c.items) {
		return Category{}, errors.Wrapf(ErrIndexOutOfRange, "label %d of %d", i, len(c.items))
	}
	o := c.items[i]
	idx, ok := c.class2idx[o]
	if !ok {
		return Category{}, errors.Wrapf(ErrUnknownCategory, "%q", o)
	}
	return Category{Obj: o, Data: idx}, nil
}

// Get resolves item i into a Category.
func (c *CategoryList) Get(i int) (any, error) { return c.Category(i) }

// Raw returns the unresolved label of item i.
func (c *CategoryList) Raw(i int) any { return c.items[i] }

// New returns a CategoryList of items sharing c's class vocabulary.
func (c *CategoryList) New(items []string) *CategoryList {
	return &CategoryList{items: items, classes: c.classes, class2idx: c.class2idx}
}

// Index returns the labels at idxs, sharing c's class vocabulary.
func (c *CategoryList) Index(idxs []int) (*CategoryList, error) {
	items := make([]string, len(idxs))
	for i, idx := range idxs {
		if idx < 0 || idx >= len(c.items) {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "label %d of %d", idx, len(c.items))
		}
		items[i] = c.items[idx]
	}
	return c.New(items), nil
}

func (c *CategoryList) Select(idxs []int) (Labels, error) { return c.Index(idxs) }

// Fill returns n copies of raw, which must be a string.
func (c *CategoryList) Fill(raw any, n int) (Labels, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, errors.Wrapf(ErrPrecondition, "category label must be a string, got %T", raw)
	}
	items := make([]string, n)
	for i := range items {
		items[i] = s
	}
	return c.New(items), nil
}

// Unknown returns the distinct labels that are not in the vocabulary.
func (c *CategoryList) Unknown() []string {
	var out []string
	for _, o := range uniqueSorted(c.items) {
		if _, ok := c.class2idx[o]; !ok {
			out = append(out, o)
		}
	}
	return out
}

// Encode returns the class index of every item.
func (c *CategoryList) Encode() ([]int32, error) {
	out := make([]int32, len(c.items))
	for i := range c.items {
		cat, err := c.Category(i)
		if err != nil {
			return nil, err
		}
		out[i] = int32(cat.Data)
	}
	return out, nil
}

func (c *CategoryList) String() string {
	return fmt.Sprintf("CategoryList (%d items) classes=%v", len(c.items), c.classes)
}

// SplitMultiLabels splits every raw label on delim with CSV quoting rules,
// so a quoted token may contain the delimiter.
func SplitMultiLabels(raw []string, delim rune) ([][]string, error) {
	out := make([][]string, len(raw))
	for i, s := range raw {
		r := csv.NewReader(strings.NewReader(s))
		r.Comma = delim
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		rec, err := r.Read()
		switch {
		case err == io.EOF:
			rec = []string{}
		case err != nil:
			return nil, errors.Wrapf(err, "failed to split label %q", s)
		}
		out[i] = rec
	}
	return out, nil
}

// MultiCategoryList holds a set of raw labels per item.
type MultiCategoryList struct {
	items     [][]string
	classes   []string
	class2idx map[string]int
	x         *ItemList
}

// NewMultiCategoryList creates a MultiCategoryList. When classes is nil the
// vocabulary is the sorted union of every item's labels.
func NewMultiCategoryList(items [][]string, classes []string) *MultiCategoryList {
	if classes == nil {
		var all []string
		for _, it := range items {
			all = append(all, it...)
		}
		classes = uniqueSorted(all)
	}
	return &MultiCategoryList{
		items:     append([][]string(nil), items...),
		classes:   classes,
		class2idx: classIndex(classes),
	}
}

func (c *MultiCategoryList) Len() int { return len(c.items) }

// Items returns the raw label sets.
func (c *MultiCategoryList) Items() [][]string { return c.items }

// Classes returns a copy of the class vocabulary.
func (c *MultiCategoryList) Classes() []string { return append([]string(nil), c.classes...) }

// ClassToIdx returns the class vocabulary reverse mapping. The map is shared
// by every list of the vocabulary and must not be modified.
func (c *MultiCategoryList) ClassToIdx() map[string]int { return c.class2idx }

// Inputs returns a copy of the paired inputs, or nil.
func (c *MultiCategoryList) Inputs() *ItemList { return c.x.clone() }

func (c *MultiCategoryList) setInputs(x *ItemList) { c.x = x }

// MultiCategory resolves every label of item i.
func (c *MultiCategoryList) MultiCategory(i int) (MultiCategory, error) {
	if i < 0 || i >= len(c.items) {
		return MultiCategory{}, errors.Wrapf(ErrIndexOutOfRange, "label %d of %d", i, len(c.items))
	}
	o := c.items[i]
	seen := make(map[int]struct{}, len(o))
	data := make([]int, 0, len(o))
	for _, tok := range o {
		idx, ok := c.class2idx[tok]
		if !ok {
			return MultiCategory{}, errors.Wrapf(ErrUnknownCategory, "%q", tok)
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		data = append(data, idx)
	}
	sort.Ints(data)
	return MultiCategory{Obj: o, Data: data}, nil
}

// Get resolves item i into a MultiCategory.
func (c *MultiCategoryList) Get(i int) (any, error) { return c.MultiCategory(i) }

// Raw returns the unresolved labels of item i.
func (c *MultiCategoryList) Raw(i int) any { return c.items[i] }

// New returns a MultiCategoryList of items sharing c's class vocabulary.
func (c *MultiCategoryList) New(items [][]string) *MultiCategoryList {
	return &MultiCategoryList{items: items, classes: c.classes, class2idx: c.class2idx}
}

// Index returns the label sets at idxs, sharing c's class vocabulary.
func (c *MultiCategoryList) Index(idxs []int) (*MultiCategoryList, error) {
	items := make([][]string, len(idxs))
	for i, idx := range idxs {
		if idx < 0 || idx >= len(c.items) {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "label %d of %d", idx, len(c.items))
		}
		items[i] = c.items[idx]
	}
	return c.New(items), nil
}

func (c *MultiCategoryList) Select(idxs []int) (Labels, error) { return c.Index(idxs) }

// Fill returns n copies of raw, which must be a []string.
func (c *MultiCategoryList) Fill(raw any, n int) (Labels, error) {
	s, ok := raw.([]string)
	if !ok {
		return nil, errors.Wrapf(ErrPrecondition, "multi-category label must be a []string, got %T", raw)
	}
	items := make([][]string, n)
	for i := range items {
		items[i] = s
	}
	return c.New(items), nil
}

// Unknown returns the distinct labels that are not in the vocabulary.
func (c *MultiCategoryList) Unknown() []string {
	var all []string
	for _, it := range c.items {
		all = append(all, it...)
	}
	var out []string
	for _, o := range uniqueSorted(all) {
		if _, ok := c.class2idx[o]; !ok {
			out = append(out, o)
		}
	}
	return out
}

// Encode returns one one-hot row per item over the class vocabulary.
func (c *MultiCategoryList) Encode() ([][]float32, error) {
	out := make([][]float32, len(c.items))
	for i := range c.items {
		mc, err := c.MultiCategory(i)
		if err != nil {
			return nil, err
		}
		row := make([]float32, len(c.classes))
		for _, idx := range mc.Data {
			row[idx] = 1
		}
		out[i] = row
	}
	return out, nil
}

func (c *MultiCategoryList) String() string {
	return fmt.Sprintf("MultiCategoryList (%d items) classes=%v", len(c.items), c.classes)
}
