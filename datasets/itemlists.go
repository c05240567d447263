package datasets

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// State tells whether an ItemLists holds raw item lists or labeled ones.
type State int

const (
	// StateRaw lists hold unlabeled ItemLists for train and valid.
	StateRaw State = iota
	// StateLabeled lists hold LabelLists for train, valid and maybe test.
	StateLabeled
)

func (s State) String() string {
	switch s {
	case StateRaw:
		return "raw"
	case StateLabeled:
		return "labeled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ItemLists holds the train and valid sides of a dataset, plus an optional
// test side once labeled.
//
// Labeling methods run on train first and then on valid with identical
// arguments, valid reusing train's class vocabulary, and move the lists from
// StateRaw to StateLabeled. The move is one way.
type ItemLists struct {
	path  string
	state State

	// set while raw
	trainX, validX *ItemList

	// set once labeled
	train, valid, test *LabelList
}

// NewItemLists creates raw lists.
func NewItemLists(path string, train, valid *ItemList) *ItemLists {
	return &ItemLists{path: path, state: StateRaw, trainX: train, validX: valid}
}

// NewLabelLists creates labeled lists. test may be nil. Every side must use
// the same label collection type.
func NewLabelLists(path string, train, valid, test *LabelList) (*ItemLists, error) {
	kind := fmt.Sprintf("%T", train.Y())
	for _, side := range []*LabelList{valid, test} {
		if side == nil {
			continue
		}
		if k := fmt.Sprintf("%T", side.Y()); k != kind {
			return nil, errors.Wrapf(ErrPrecondition, "mixed label types %s and %s", kind, k)
		}
	}
	return &ItemLists{path: path, state: StateLabeled, train: train, valid: valid, test: test}, nil
}

// Path returns the base path.
func (ls *ItemLists) Path() string { return ls.path }

// State returns whether the lists are raw or labeled.
func (ls *ItemLists) State() State { return ls.state }

// Train returns the labeled train side, or nil while raw.
func (ls *ItemLists) Train() *LabelList { return ls.train }

// Valid returns the labeled valid side, or nil while raw.
func (ls *ItemLists) Valid() *LabelList { return ls.valid }

// Test returns the labeled test side, or nil.
func (ls *ItemLists) Test() *LabelList { return ls.test }

// TrainItems returns the train inputs in either state. Raw lists return
// the list itself; labeled ones return a copy.
func (ls *ItemLists) TrainItems() *ItemList {
	if ls.state == StateLabeled {
		return ls.train.X()
	}
	return ls.trainX
}

// ValidItems returns the valid inputs in either state, like TrainItems.
func (ls *ItemLists) ValidItems() *ItemList {
	if ls.state == StateLabeled {
		return ls.valid.X()
	}
	return ls.validX
}

// TestItems returns a copy of the test inputs, or nil.
func (ls *ItemLists) TestItems() *ItemList {
	if ls.test == nil {
		return nil
	}
	return ls.test.X()
}

// Lists returns train, valid and, when present, test.
func (ls *ItemLists) Lists() []*LabelList {
	if ls.state != StateLabeled {
		return nil
	}
	out := []*LabelList{ls.train, ls.valid}
	if ls.test != nil {
		out = append(out, ls.test)
	}
	return out
}

func (ls *ItemLists) requireState(op string, want State) error {
	if ls.state != want {
		return errors.Wrapf(ErrState, "%s needs %s lists, these are %s", op, want, ls.state)
	}
	return nil
}

// labelFunc labels one side. shared carries options that valid must inherit
// from train.
type labelFunc func(x *ItemList, shared []LabelOption) (*LabelList, error)

func withShared(opts, shared []LabelOption) []LabelOption {
	out := make([]LabelOption, 0, len(opts)+len(shared))
	out = append(out, opts...)
	return append(out, shared...)
}

// label applies fn to train, then to valid with train's classes, and promotes
// the lists. Nothing changes if either side fails.
func (ls *ItemLists) label(op string, fn labelFunc) (*ItemLists, error) {
	if err := ls.requireState(op, StateRaw); err != nil {
		return nil, err
	}
	train, err := fn(ls.trainX, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "%s on train", op)
	}
	valid, err := fn(ls.validX, []LabelOption{WithLabelClasses(train.Classes())})
	if err != nil {
		return nil, errors.Wrapf(err, "%s on valid", op)
	}
	ls.train, ls.valid = train, valid
	ls.trainX, ls.validX = nil, nil
	ls.state = StateLabeled
	logger.Debug("labeled item lists",
		zap.String("op", op),
		zap.Int("train", train.Len()),
		zap.Int("valid", valid.Len()),
		zap.Int("classes", len(train.Classes())))
	return ls, nil
}

// LabelFromFunc labels both sides with ItemList.LabelFromFunc.
func (ls *ItemLists) LabelFromFunc(fn func(item string) string, opts ...LabelOption) (*ItemLists, error) {
	return ls.label("LabelFromFunc", func(x *ItemList, shared []LabelOption) (*LabelList, error) {
		return x.LabelFromFunc(fn, withShared(opts, shared)...)
	})
}

// LabelConst labels both sides with ItemList.LabelConst.
func (ls *ItemLists) LabelConst(c string, opts ...LabelOption) (*ItemLists, error) {
	return ls.label("LabelConst", func(x *ItemList, shared []LabelOption) (*LabelList, error) {
		return x.LabelConst(c, withShared(opts, shared)...)
	})
}

// LabelFromFolder labels both sides with ItemList.LabelFromFolder.
func (ls *ItemLists) LabelFromFolder(opts ...LabelOption) (*ItemLists, error) {
	return ls.label("LabelFromFolder", func(x *ItemList, shared []LabelOption) (*LabelList, error) {
		return x.LabelFromFolder(withShared(opts, shared)...)
	})
}

// LabelFromRe labels both sides with ItemList.LabelFromRe.
func (ls *ItemLists) LabelFromRe(pattern string, fullPath bool, opts ...LabelOption) (*ItemLists, error) {
	return ls.label("LabelFromRe", func(x *ItemList, shared []LabelOption) (*LabelList, error) {
		return x.LabelFromRe(pattern, fullPath, withShared(opts, shared)...)
	})
}

// LabelFromDF labels both sides with ItemList.LabelFromDF. Both sides need a
// side table.
func (ls *ItemLists) LabelFromDF(cols []Column, opts ...LabelOption) (*ItemLists, error) {
	if ls.state == StateRaw && (ls.trainX.Xtra() == nil) != (ls.validX.Xtra() == nil) {
		return nil, errors.Wrap(ErrForward, "LabelFromDF: only one side has a side table")
	}
	return ls.label("LabelFromDF", func(x *ItemList, shared []LabelOption) (*LabelList, error) {
		return x.LabelFromDF(cols, withShared(opts, shared)...)
	})
}

// LabelFromCSV labels both sides with ItemList.LabelFromCSV.
func (ls *ItemLists) LabelFromCSV(csvName string, o LabelCSVOptions, opts ...LabelOption) (*ItemLists, error) {
	return ls.label("LabelFromCSV", func(x *ItemList, shared []LabelOption) (*LabelList, error) {
		return x.LabelFromCSV(csvName, o, withShared(opts, shared)...)
	})
}

// FilterByFunc filters both raw sides in place.
func (ls *ItemLists) FilterByFunc(pred func(item string) bool) (*ItemLists, error) {
	if err := ls.requireState("FilterByFunc", StateRaw); err != nil {
		return nil, err
	}
	ls.trainX.FilterByFunc(pred)
	ls.validX.FilterByFunc(pred)
	return ls, nil
}

// FilterByFolder filters both raw sides in place.
func (ls *ItemLists) FilterByFolder(include, exclude []string) (*ItemLists, error) {
	if err := ls.requireState("FilterByFolder", StateRaw); err != nil {
		return nil, err
	}
	if _, err := ls.trainX.FilterByFolder(include, exclude); err != nil {
		return nil, errors.Wrap(err, "FilterByFolder on train")
	}
	if _, err := ls.validX.FilterByFolder(include, exclude); err != nil {
		return nil, errors.Wrap(err, "FilterByFolder on valid")
	}
	return ls, nil
}

// Transform sets the train pipeline to trainTfms and the valid (and test)
// pipeline to validTfms.
func (ls *ItemLists) Transform(trainTfms, validTfms []Transform, opts ...TransformOption) (*ItemLists, error) {
	if err := ls.requireState("Transform", StateLabeled); err != nil {
		return nil, err
	}
	ls.train.Transform(trainTfms, opts...)
	ls.valid.Transform(validTfms, opts...)
	if ls.test != nil {
		ls.test.Transform(validTfms, opts...)
	}
	return ls, nil
}

// Preprocess runs the train inputs' Preprocessor first, merges the options it
// declares into opts, then preprocesses valid and test with the merged
// options.
func (ls *ItemLists) Preprocess(opts Params) (*ItemLists, error) {
	if err := ls.requireState("Preprocess", StateLabeled); err != nil {
		return nil, err
	}
	extra, err := ls.train.x.Preprocess(opts)
	if err != nil {
		return nil, errors.Wrap(err, "preprocess train")
	}
	merged := mergeParams(opts, extra)
	for _, side := range ls.Lists()[1:] {
		if _, err := side.x.Preprocess(merged); err != nil {
			return nil, err
		}
	}
	logger.Debug("preprocessed item lists", zap.Int("extra_options", len(extra)))
	return ls, nil
}

// AddTest adds a test side holding items. Every test item gets label, or the
// raw label of the first train item when label is nil. The test side takes
// the valid side's input settings, class vocabulary and pipeline.
func (ls *ItemLists) AddTest(items []string, label any) (*ItemLists, error) {
	if err := ls.requireState("AddTest", StateLabeled); err != nil {
		return nil, err
	}
	if label == nil {
		if ls.valid.Len() == 0 {
			return nil, errors.Wrap(ErrEmptyValid, "AddTest needs a label")
		}
		if ls.train.Len() == 0 {
			return nil, errors.Wrap(ErrPrecondition, "AddTest needs a label when train is empty")
		}
		label = ls.train.Y().Raw(0)
	}
	x := ls.valid.x.New(append([]string(nil), items...), nil)
	y, err := ls.valid.Y().Fill(label, x.Len())
	if err != nil {
		return nil, err
	}
	test, err := ls.valid.New(x, y)
	if err != nil {
		return nil, err
	}
	ls.test = test
	return ls, nil
}

// AddTestFolder adds the files under path/folder (searched recursively) as
// the test side. See AddTest.
func (ls *ItemLists) AddTestFolder(folder string, extensions []string, label any) (*ItemLists, error) {
	if err := ls.requireState("AddTestFolder", StateLabeled); err != nil {
		return nil, err
	}
	files, err := GetFiles(ls.valid.x.Fs(), filepath.Join(ls.path, folder), extensions, true)
	if err != nil {
		return nil, err
	}
	return ls.AddTest(files, label)
}

func (ls *ItemLists) String() string {
	if ls.state == StateRaw {
		return fmt.Sprintf("ItemLists;\nTrain: %v;\nValid: %v;\nTest: <nil>", ls.trainX, ls.validX)
	}
	return fmt.Sprintf("LabelLists;\nTrain: %v;\nValid: %v;\nTest: %v", ls.train, ls.valid, ls.test)
}

// BunchFunc builds the batch-producing collection a training loop reads
// from labeled train, valid and (possibly nil) test lists.
type BunchFunc[B any] func(path string, train, valid, test *LabelList) (B, error)

// Databunch hands labeled lists to create. An empty path means the lists'
// own path.
func Databunch[B any](ls *ItemLists, path string, create BunchFunc[B]) (B, error) {
	var zero B
	if err := ls.requireState("Databunch", StateLabeled); err != nil {
		return zero, err
	}
	if path == "" {
		path = ls.path
	}
	return create(path, ls.train, ls.valid, ls.test)
}

// ItemListsFromCSV reads path/csvName, takes inputs from inputCol and labels
// from labelCol, and sends the rows whose validCol is non-zero or true to
// valid.
func ItemListsFromCSV(fs afero.Fs, path, csvName string, inputCol, labelCol, validCol Column, header bool, opts ...LabelOption) (*ItemLists, error) {
	t, err := ReadCSV(fs, filepath.Join(path, csvName), header)
	if err != nil {
		return nil, err
	}
	flags, err := t.Column(validCol)
	if err != nil {
		return nil, err
	}
	var validIdx []int
	for i, f := range flags {
		if isTruthy(f) {
			validIdx = append(validIdx, i)
		}
	}
	il, err := FromDF(t, path, inputCol, WithFs(fs))
	if err != nil {
		return nil, err
	}
	ls, err := il.SplitByIdx(validIdx)
	if err != nil {
		return nil, err
	}
	return ls.LabelFromDF([]Column{labelCol}, opts...)
}

// CreateSData builds labeled lists from in-memory inputs and labels. When
// testX is non-nil it becomes the test side, labeled like AddTest does.
func CreateSData(path string, trainX, trainY, validX, validY, testX []string, opts ...Option) (*ItemLists, error) {
	opts = append([]Option{WithPath(path)}, opts...)
	tx, err := NewItemList(trainX, opts...)
	if err != nil {
		return nil, err
	}
	vx, err := NewItemList(validX, opts...)
	if err != nil {
		return nil, err
	}
	train, err := tx.LabelFromList(trainY)
	if err != nil {
		return nil, errors.Wrap(err, "train")
	}
	valid, err := vx.LabelFromList(validY, WithLabelClasses(train.Classes()))
	if err != nil {
		return nil, errors.Wrap(err, "valid")
	}
	ls, err := NewLabelLists(path, train, valid, nil)
	if err != nil {
		return nil, err
	}
	if testX != nil {
		return ls.AddTest(testX, nil)
	}
	return ls, nil
}
