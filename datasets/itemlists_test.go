package datasets

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labeledFixture(t *testing.T, opts ...Option) *ItemLists {
	fs := folderFixture(t)
	il, err := FromFolder(fs, "/data", []string{".png"}, true, opts...)
	require.NoError(t, err)
	ls, err := il.SplitByFolder("train", "valid")
	require.NoError(t, err)
	ls, err = ls.LabelFromFolder()
	require.NoError(t, err)
	return ls
}

func TestItemLists_SplitAndLabelFromFolder(t *testing.T) {
	ls := labeledFixture(t)

	require.Equal(t, StateLabeled, ls.State())
	assert.Equal(t, 2, ls.Train().Len())
	assert.Equal(t, 1, ls.Valid().Len())
	assert.Nil(t, ls.Test())
	assert.Equal(t, []string{"cat", "dog"}, ls.Train().Classes())
	assert.Equal(t, []string{"cat", "dog"}, ls.Valid().Classes())

	_, y, err := ls.Valid().Get(0)
	require.NoError(t, err)
	assert.Equal(t, Category{Obj: "cat", Data: 0}, y)
	assert.Len(t, ls.Lists(), 2)
	assert.Contains(t, ls.String(), "LabelLists;")
}

func TestItemLists_LabeledSidesKeepTheirInputs(t *testing.T) {
	ls := labeledFixture(t)
	ls.TrainItems().FilterByFunc(func(string) bool { return false })
	ls.ValidItems().FilterByFunc(func(string) bool { return false })

	assert.Equal(t, 2, ls.Train().Len())
	assert.Equal(t, ls.Train().Len(), ls.Train().Y().Len())
	assert.Equal(t, 1, ls.Valid().Len())

	rows, err := Manifest(ls)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestItemLists_ClassesAreCopies(t *testing.T) {
	ls := labeledFixture(t)
	classes := ls.Train().Classes()
	classes[0] = "bird"

	assert.Equal(t, []string{"cat", "dog"}, ls.Train().Classes())
	assert.Equal(t, []string{"cat", "dog"}, ls.Valid().Classes())
	_, y, err := ls.Valid().Get(0)
	require.NoError(t, err)
	assert.Equal(t, Category{Obj: "cat", Data: 0}, y)
}

func TestItemLists_ValidUsesTrainClasses(t *testing.T) {
	logs := observeLogs(t)
	il := letters(t, 4)
	ls, err := il.SplitByIdx([]int{3})
	require.NoError(t, err)

	labels := map[string]string{"a": "x", "b": "y", "c": "x", "d": "z"}
	ls, err = ls.LabelFromFunc(func(s string) string { return labels[s] })
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, ls.Valid().Classes())
	_, _, err = ls.Valid().Get(0)
	require.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, 1, logs.FilterMessage("labels missing from the class vocabulary").Len())
}

func TestItemLists_StateChecks(t *testing.T) {
	il := letters(t, 3)
	raw, err := il.SplitByIdx([]int{0})
	require.NoError(t, err)
	assert.Nil(t, raw.Train())
	assert.Nil(t, raw.Lists())
	assert.Contains(t, raw.String(), "ItemLists;")

	_, err = raw.Transform(nil, nil)
	require.ErrorIs(t, err, ErrState)
	_, err = raw.AddTest([]string{"z"}, nil)
	require.ErrorIs(t, err, ErrState)
	_, err = raw.Preprocess(nil)
	require.ErrorIs(t, err, ErrState)
	_, err = Databunch[int](raw, "", func(string, *LabelList, *LabelList, *LabelList) (int, error) { return 0, nil })
	require.ErrorIs(t, err, ErrState)
	_, err = Manifest(raw)
	require.ErrorIs(t, err, ErrState)

	ls, err := raw.LabelConst("k")
	require.NoError(t, err)
	_, err = ls.LabelConst("k")
	require.ErrorIs(t, err, ErrState)
	_, err = ls.FilterByFunc(func(string) bool { return true })
	require.ErrorIs(t, err, ErrState)
}

func TestItemLists_FailedLabelingLeavesRaw(t *testing.T) {
	il, err := NewItemList([]string{"cat_1.png", "2.png"})
	require.NoError(t, err)
	ls, err := il.SplitByIdx([]int{1})
	require.NoError(t, err)

	_, err = ls.LabelFromRe(`^([a-z]+)_`, false)
	require.ErrorIs(t, err, ErrNoMatch)
	assert.Contains(t, err.Error(), "on valid")
	assert.Equal(t, StateRaw, ls.State())
	assert.Equal(t, 1, ls.TrainItems().Len())
}

func TestItemLists_Filters(t *testing.T) {
	fs := folderFixture(t)
	il, err := FromFolder(fs, "/data", []string{".png"}, true)
	require.NoError(t, err)
	ls, err := il.SplitByFolder("train", "valid")
	require.NoError(t, err)

	_, err = ls.FilterByFunc(func(s string) bool { return !strings.Contains(s, "/dog/") })
	require.NoError(t, err)
	assert.Equal(t, 1, ls.TrainItems().Len())

	_, err = ls.FilterByFolder(nil, []string{"valid"})
	require.NoError(t, err)
	assert.Equal(t, 1, ls.TrainItems().Len())
	assert.Equal(t, 0, ls.ValidItems().Len())
}

func TestItemLists_LabelFromDFNeedsBothTables(t *testing.T) {
	tbl, err := NewTable(nil, [][]string{{"a", "x"}})
	require.NoError(t, err)
	train, err := FromDF(tbl, ".", Col(0))
	require.NoError(t, err)
	valid, err := NewItemList([]string{"b"})
	require.NoError(t, err)

	ls := NewItemLists(".", train, valid)
	_, err = ls.LabelFromDF(nil)
	require.ErrorIs(t, err, ErrForward)
	assert.Equal(t, StateRaw, ls.State())
}

func TestItemLists_LabelFromCSV(t *testing.T) {
	fs := folderFixture(t)
	writeCSV(t, fs, "/data/labels.csv", "name,label", []string{
		"train/cat/1.png,cat",
		"train/dog/2.png,dog",
		"valid/cat/3.png,cat",
	})
	il, err := FromFolder(fs, "/data", []string{".png"}, true)
	require.NoError(t, err)
	ls, err := il.SplitByFolder("train", "valid")
	require.NoError(t, err)

	ls, err = ls.LabelFromCSV("labels.csv", DefaultLabelCSVOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, ls.Valid().Classes())
}

func TestItemLists_Transform(t *testing.T) {
	ls := labeledFixture(t, WithCreateFunc(newFakeImage))
	_, err := ls.AddTest([]string{"/data/test/9.png"}, "cat")
	require.NoError(t, err)

	_, err = ls.Transform([]Transform{"crop", "flip"}, []Transform{"crop"}, WithTransformY(false))
	require.NoError(t, err)

	x, _, err := ls.Train().Get(0)
	require.NoError(t, err)
	assert.Equal(t, []Transform{"crop", "flip"}, x.(*fakeImage).applied)

	for _, side := range []*LabelList{ls.Valid(), ls.Test()} {
		x, _, err := side.Get(0)
		require.NoError(t, err)
		assert.Equal(t, []Transform{"crop"}, x.(*fakeImage).applied)
	}
}

func TestItemLists_Preprocess(t *testing.T) {
	p := &countingPreprocessor{}
	ls := labeledFixture(t, WithPreprocessor(p))
	_, err := ls.AddTest([]string{"/data/test/9.png", "/data/test/8.png"}, nil)
	require.NoError(t, err)

	_, err = ls.Preprocess(Params{"k": 1})
	require.NoError(t, err)

	require.Len(t, p.seen, 3)
	assert.Equal(t, Params{"k": 1}, p.seen[0])
	assert.Equal(t, Params{"k": 1, "n": 2}, p.seen[1])
	assert.Equal(t, Params{"k": 1, "n": 2}, p.seen[2])
}

func TestItemLists_AddTest(t *testing.T) {
	ls := labeledFixture(t)

	_, err := ls.AddTest([]string{"/data/test/9.png", "/data/test/8.png"}, nil)
	require.NoError(t, err)
	require.NotNil(t, ls.Test())
	assert.Equal(t, 2, ls.Test().Len())
	assert.Equal(t, ls.Valid().Classes(), ls.Test().Classes())
	assert.Equal(t, "/data", ls.TestItems().Path())
	assert.Len(t, ls.Lists(), 3)

	// the placeholder is the first train label
	for i := range 2 {
		_, y, err := ls.Test().Get(i)
		require.NoError(t, err)
		assert.Equal(t, Category{Obj: "cat", Data: 0}, y)
	}

	_, err = ls.AddTest([]string{"x"}, []string{"cat"})
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestItemLists_AddTestNeedsValid(t *testing.T) {
	il := letters(t, 2)
	ls, err := il.SplitByIdx(nil)
	require.NoError(t, err)
	ls, err = ls.LabelConst("k")
	require.NoError(t, err)

	_, err = ls.AddTest([]string{"z"}, nil)
	require.ErrorIs(t, err, ErrEmptyValid)

	_, err = ls.AddTest([]string{"z"}, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, ls.Test().Len())
}

func TestItemLists_AddTestFolder(t *testing.T) {
	fs := folderFixture(t)
	writeFiles(t, fs, "/data/test/a/5.png", "/data/test/6.png", "/data/test/readme.md")
	il, err := FromFolder(fs, "/data", []string{".png"}, true)
	require.NoError(t, err)
	ls, err := il.SplitByFolder("train", "valid")
	require.NoError(t, err)
	ls, err = ls.LabelFromFolder()
	require.NoError(t, err)

	_, err = ls.AddTestFolder("test", []string{".png"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/test/6.png", "/data/test/a/5.png"}, ls.TestItems().Items())
}

func TestDatabunch(t *testing.T) {
	ls := labeledFixture(t)
	type bunch struct {
		path                   string
		train, valid, haveTest int
	}
	create := func(path string, train, valid, test *LabelList) (bunch, error) {
		b := bunch{path: path, train: train.Len(), valid: valid.Len()}
		if test != nil {
			b.haveTest = 1
		}
		return b, nil
	}

	b, err := Databunch[bunch](ls, "", create)
	require.NoError(t, err)
	assert.Equal(t, bunch{path: "/data", train: 2, valid: 1}, b)

	b, err = Databunch[bunch](ls, "/models", create)
	require.NoError(t, err)
	assert.Equal(t, "/models", b.path)
}

func TestNewLabelLists_MixedKinds(t *testing.T) {
	il := letters(t, 1)
	single, err := il.LabelConst("a")
	require.NoError(t, err)
	multi, err := il.LabelConst("a", WithKind(KindMultiCategory))
	require.NoError(t, err)

	_, err = NewLabelLists(".", single, multi, nil)
	require.ErrorIs(t, err, ErrPrecondition)

	ls, err := NewLabelLists(".", single, single, nil)
	require.NoError(t, err)
	assert.Equal(t, StateLabeled, ls.State())
}

func TestItemListsFromCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeCSV(t, fs, "/d/train.csv", "name,label,is_valid", []string{
		"a.png,cat,0",
		"b.png,dog,1",
		"c.png,cat,false",
		"d.png,dog,True",
	})

	ls, err := ItemListsFromCSV(fs, "/d", "train.csv", ColName("name"), ColName("label"), ColName("is_valid"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "c.png"}, ls.TrainItems().Items())
	assert.Equal(t, []string{"b.png", "d.png"}, ls.ValidItems().Items())
	assert.Equal(t, []string{"cat"}, ls.Train().Classes())
	assert.Equal(t, []string{"cat"}, ls.Valid().Classes())

	_, err = ItemListsFromCSV(fs, "/d", "train.csv", Col(0), Col(1), ColName("missing"), true)
	require.ErrorIs(t, err, ErrColumn)
}

func TestCreateSData(t *testing.T) {
	ls, err := CreateSData("/text",
		[]string{"good movie", "bad movie"}, []string{"pos", "neg"},
		[]string{"fine movie"}, []string{"pos"},
		[]string{"unseen movie"})
	require.NoError(t, err)

	assert.Equal(t, []string{"neg", "pos"}, ls.Train().Classes())
	assert.Equal(t, ls.Train().Classes(), ls.Valid().Classes())
	require.NotNil(t, ls.Test())
	_, y, err := ls.Test().Get(0)
	require.NoError(t, err)
	assert.Equal(t, Category{Obj: "pos", Data: 1}, y)

	noTest, err := CreateSData("/text", []string{"a"}, []string{"x"}, []string{"b"}, []string{"x"}, nil)
	require.NoError(t, err)
	assert.Nil(t, noTest.Test())

	_, err = CreateSData("/text", []string{"a"}, nil, nil, nil, nil)
	require.ErrorIs(t, err, ErrLengthMismatch)
}
