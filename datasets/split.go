package datasets

import (
	"math/rand"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SplitByIdxs puts the items at trainIdx in train and those at validIdx in
// valid.
func (l *ItemList) SplitByIdxs(trainIdx, validIdx []int) (*ItemLists, error) {
	train, err := l.Index(trainIdx)
	if err != nil {
		return nil, errors.Wrap(err, "bad train indices")
	}
	valid, err := l.Index(validIdx)
	if err != nil {
		return nil, errors.Wrap(err, "bad valid indices")
	}
	return NewItemLists(l.path, train, valid), nil
}

// SplitByIdx puts the items at validIdx in valid and the rest in train. Both
// sides keep the original item order.
func (l *ItemList) SplitByIdx(validIdx []int) (*ItemLists, error) {
	isValid := make(map[int]struct{}, len(validIdx))
	for _, i := range validIdx {
		if i < 0 || i >= len(l.items) {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "valid index %d of %d", i, len(l.items))
		}
		isValid[i] = struct{}{}
	}
	train := make([]int, 0, len(l.items)-len(isValid))
	valid := make([]int, 0, len(isValid))
	for i := range l.items {
		if _, ok := isValid[i]; ok {
			valid = append(valid, i)
		} else {
			train = append(train, i)
		}
	}
	return l.SplitByIdxs(train, valid)
}

func (l *ItemList) idxsInFolder(name string) ([]int, error) {
	var out []int
	for i, it := range l.items {
		n, err := firstSegment(l.path, it)
		if err != nil {
			return nil, err
		}
		if n == name {
			out = append(out, i)
		}
	}
	return out, nil
}

// SplitByFolder splits on the first folder under the base path: items in
// train go to train, items in valid go to valid, anything else is dropped.
func (l *ItemList) SplitByFolder(train, valid string) (*ItemLists, error) {
	t, err := l.idxsInFolder(train)
	if err != nil {
		return nil, err
	}
	v, err := l.idxsInFolder(valid)
	if err != nil {
		return nil, err
	}
	return l.SplitByIdxs(t, v)
}

// RandomSplitByPct puts a random validPct share of the items in valid. A nil
// rng is seeded from the clock; pass a seeded one for a repeatable split.
func (l *ItemList) RandomSplitByPct(validPct float64, rng *rand.Rand) (*ItemLists, error) {
	if validPct < 0 || validPct > 1 {
		return nil, errors.Wrapf(ErrPrecondition, "valid pct %v not in [0, 1]", validPct)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	perm := rng.Perm(len(l.items))
	cut := int(validPct * float64(len(l.items)))
	return l.SplitByIdx(perm[:cut])
}

// The three splits below predate the current API. They are kept working but
// log a warning on every call; prefer SplitByIdx.

func legacySplit(name string) {
	logger.Warn("legacy split method; prefer SplitByIdx", zap.String("method", name))
}

// SplitByValidFunc puts the items for which pred returns true in valid.
//
// Deprecated: use SplitByIdx.
func (l *ItemList) SplitByValidFunc(pred func(item string) bool) (*ItemLists, error) {
	legacySplit("SplitByValidFunc")
	var valid []int
	for i, it := range l.items {
		if pred(it) {
			valid = append(valid, i)
		}
	}
	return l.SplitByIdx(valid)
}

// SplitByFiles puts the items whose path is in validNames in valid.
//
// Deprecated: use SplitByIdx.
func (l *ItemList) SplitByFiles(validNames []string) (*ItemLists, error) {
	legacySplit("SplitByFiles")
	return l.splitByFiles(validNames)
}

func (l *ItemList) splitByFiles(validNames []string) (*ItemLists, error) {
	names := make(map[string]struct{}, len(validNames))
	for _, n := range validNames {
		names[filepath.Clean(n)] = struct{}{}
	}
	var valid []int
	for i, it := range l.items {
		if _, ok := names[filepath.Clean(it)]; ok {
			valid = append(valid, i)
		}
	}
	return l.SplitByIdx(valid)
}

// SplitByFnameFile reads file names, one per line, from path/fname and puts
// the matching items in valid. Names are joined to namesPath, or to the list
// path when namesPath is empty.
//
// Deprecated: use SplitByIdx.
func (l *ItemList) SplitByFnameFile(fname, namesPath string) (*ItemLists, error) {
	legacySplit("SplitByFnameFile")
	if namesPath == "" {
		namesPath = l.path
	}
	lines, err := readLines(l.fs, filepath.Join(l.path, fname))
	if err != nil {
		return nil, err
	}
	for i, n := range lines {
		lines[i] = filepath.Join(namesPath, n)
	}
	return l.splitByFiles(lines)
}
