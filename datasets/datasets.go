package datasets

import "github.com/pkg/errors"

// This package builds the in-memory index a training loop consumes: raw items
// (file paths, table cells) are collected into an ItemList, labeled into a
// LabelList, and split into the train/valid/test sides of an ItemLists.
//
// Nothing is materialized eagerly. An ItemList stores raw items and only runs
// its CreateFunc when an item is read with Get, and a LabelList only applies
// its transform pipeline at read time.
//
// Typical chain:
//
//	il, _ := datasets.FromFolder(fs, "data", []string{".png"}, true)
//	lists, _ := il.SplitByFolder("train", "valid")
//	lists, _ = lists.LabelFromFolder()
//	x, y, _ := lists.Train().Get(0)
//
// Indexing follows two rules that splitting relies on:
//   - Get(i) returns the converted i-th value.
//   - Index(idxs) returns a new collection of the same concrete type holding
//     only the selected raw items (and the matching side-table rows).

// CreateFunc converts a raw item into the value handed to the training loop,
// for example by opening the image a path points to.
type CreateFunc func(item string) (any, error)

// Transform is one step of a transform pipeline. The package treats it as
// opaque; only Transformable values interpret it.
type Transform any

// Params are the keyword parameters passed alongside a transform pipeline.
type Params map[string]any

// Transformable is implemented by item values that can run a transform
// pipeline. When resolve is false the value must reuse the random decisions
// already made for the paired input instead of drawing new ones.
type Transformable interface {
	ApplyTransforms(tfms []Transform, params Params, resolve bool) (any, error)
}

// Preprocessor prepares a list before training, e.g. building a vocabulary.
// The returned Params are merged into the options of every later call, so
// state computed on the training items reaches valid and test.
type Preprocessor interface {
	Preprocess(items []string, opts Params) (Params, error)
}

// Labels is the label side of a LabelList. CategoryList and
// MultiCategoryList implement it.
type Labels interface {
	Len() int
	// Get returns the resolved label value of item i.
	Get(i int) (any, error)
	// Select returns a new Labels of the same concrete type holding the
	// chosen items and sharing the class vocabulary.
	Select(idxs []int) (Labels, error)
	// Raw returns the unresolved label of item i.
	Raw(i int) any
	// Fill returns a new Labels of n copies of raw sharing the class vocabulary.
	Fill(raw any, n int) (Labels, error)
	Classes() []string
	// Inputs returns a copy of the ItemList this label list is paired with,
	// if any.
	Inputs() *ItemList

	setInputs(x *ItemList)
}

func applyTransforms(v any, tfms []Transform, params Params, resolve bool) (any, error) {
	if len(tfms) == 0 {
		return v, nil
	}
	t, ok := v.(Transformable)
	if !ok {
		return nil, errors.Wrapf(ErrNotTransformable, "%T", v)
	}
	return t.ApplyTransforms(tfms, params, resolve)
}

func mergeParams(base, extra Params) Params {
	out := make(Params, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
