package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeImage records the pipeline it was last run through.
type fakeImage struct {
	name    string
	applied []Transform
	resolve bool
}

func newFakeImage(item string) (any, error) { return &fakeImage{name: item}, nil }

func (f *fakeImage) ApplyTransforms(tfms []Transform, _ Params, resolve bool) (any, error) {
	return &fakeImage{name: f.name, applied: tfms, resolve: resolve}, nil
}

// fakeMasks is a label collection whose values accept transforms.
type fakeMasks struct {
	items []string
	x     *ItemList
}

func (m *fakeMasks) Len() int { return len(m.items) }

func (m *fakeMasks) Get(i int) (any, error) { return &fakeImage{name: m.items[i]}, nil }

func (m *fakeMasks) Select(idxs []int) (Labels, error) {
	out := &fakeMasks{}
	for _, i := range idxs {
		out.items = append(out.items, m.items[i])
	}
	return out, nil
}

func (m *fakeMasks) Raw(i int) any { return m.items[i] }

func (m *fakeMasks) Fill(raw any, n int) (Labels, error) {
	out := &fakeMasks{items: make([]string, n)}
	for i := range out.items {
		out.items[i] = raw.(string)
	}
	return out, nil
}

func (m *fakeMasks) Classes() []string { return nil }

func (m *fakeMasks) Inputs() *ItemList { return m.x }

func (m *fakeMasks) setInputs(x *ItemList) { m.x = x }

func TestLabelList_TransformX(t *testing.T) {
	il, err := NewItemList([]string{"a.png", "b.png"}, WithCreateFunc(newFakeImage))
	require.NoError(t, err)
	ll, err := il.LabelConst("cat")
	require.NoError(t, err)

	got := ll.Transform([]Transform{"crop"}, WithParams(Params{"size": 32}))
	assert.Same(t, ll, got)

	x, y, err := ll.Get(1)
	require.NoError(t, err)
	img := x.(*fakeImage)
	assert.Equal(t, "b.png", img.name)
	assert.Equal(t, []Transform{"crop"}, img.applied)
	assert.True(t, img.resolve)
	assert.Equal(t, Category{Obj: "cat", Data: 0}, y)
}

func TestLabelList_TransformY(t *testing.T) {
	il, err := NewItemList([]string{"a.png"}, WithCreateFunc(newFakeImage))
	require.NoError(t, err)
	ll, err := NewLabelList(il, &fakeMasks{items: []string{"a_mask.png"}})
	require.NoError(t, err)

	ll.Transform([]Transform{"rotate"})
	_, y, err := ll.Get(0)
	require.NoError(t, err)
	assert.Nil(t, y.(*fakeImage).applied)

	ll.Transform([]Transform{"rotate"}, WithTransformY(true))
	x, y, err := ll.Get(0)
	require.NoError(t, err)
	assert.True(t, x.(*fakeImage).resolve)
	mask := y.(*fakeImage)
	assert.Equal(t, []Transform{"rotate"}, mask.applied)
	assert.False(t, mask.resolve)

	// the flag survives a later Transform without WithTransformY
	ll.Transform([]Transform{"flip"})
	assert.True(t, ll.TransformY())
}

func TestLabelList_NotTransformable(t *testing.T) {
	il, err := NewItemList([]string{"raw"})
	require.NoError(t, err)
	ll, err := il.LabelConst("x")
	require.NoError(t, err)

	x, _, err := ll.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "raw", x)

	ll.Transform([]Transform{"crop"})
	_, _, err = ll.Get(0)
	require.ErrorIs(t, err, ErrNotTransformable)
}

func TestLabelList_IndexKeepsPipeline(t *testing.T) {
	il, err := NewItemList([]string{"a", "b", "c"}, WithCreateFunc(newFakeImage))
	require.NoError(t, err)
	ll, err := il.LabelFromList([]string{"x", "y", "x"})
	require.NoError(t, err)
	ll.Transform([]Transform{"crop"}, WithTransformY(true))

	sub, err := ll.Index([]int{2, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, ll.Classes(), sub.Classes())
	assert.True(t, sub.TransformY())
	assert.Equal(t, sub.X().Items(), sub.Y().Inputs().Items())

	for i, want := range []string{"c", "b"} {
		x, _, err := sub.Get(i)
		require.NoError(t, err)
		assert.Equal(t, want, x.(*fakeImage).name)
	}

	_, err = ll.Index([]int{5})
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestNewLabelList_LengthMismatch(t *testing.T) {
	il, err := NewItemList([]string{"a", "b"})
	require.NoError(t, err)
	_, err = NewLabelList(il, NewCategoryList([]string{"x"}, nil))
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestLabelList_InputsStayAligned(t *testing.T) {
	il, err := NewItemList([]string{"a", "b", "c"})
	require.NoError(t, err)
	ll, err := il.LabelConst("k")
	require.NoError(t, err)

	// filtering the source list after labeling
	il.FilterByFunc(func(s string) bool { return s == "a" })
	require.Equal(t, 1, il.Len())
	assert.Equal(t, 3, ll.Len())
	assert.Equal(t, ll.Len(), ll.Y().Len())

	// filtering the lists handed out by the pair
	ll.X().FilterByFunc(func(string) bool { return false })
	ll.Y().Inputs().FilterByFunc(func(string) bool { return false })
	assert.Equal(t, 3, ll.Len())
	assert.Equal(t, []string{"a", "b", "c"}, ll.X().Items())

	x, _, err := ll.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "c", x)
}
