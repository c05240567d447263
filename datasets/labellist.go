package datasets

import (
	"fmt"

	"github.com/pkg/errors"
)

// LabelList pairs an input ItemList with its Labels and an optional transform
// pipeline. Both sides always have the same length.
type LabelList struct {
	x      *ItemList
	y      Labels
	tfms   []Transform
	params Params
	tfmY   bool
}

// NewLabelList pairs a copy of x with y and points y back at it. Filtering x
// afterwards does not change the pair.
func NewLabelList(x *ItemList, y Labels) (*LabelList, error) {
	if x.Len() != y.Len() {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d inputs, %d labels", x.Len(), y.Len())
	}
	x = x.clone()
	y.setInputs(x)
	return &LabelList{x: x, y: y}, nil
}

// Len returns the number of pairs.
func (l *LabelList) Len() int { return l.x.Len() }

// X returns a copy of the inputs.
func (l *LabelList) X() *ItemList { return l.x.clone() }

// Y returns the labels.
func (l *LabelList) Y() Labels { return l.y }

// Path returns the inputs' base path.
func (l *LabelList) Path() string { return l.x.Path() }

// Classes returns the labels' class vocabulary.
func (l *LabelList) Classes() []string { return l.y.Classes() }

// Transforms returns the active pipeline and its parameters.
func (l *LabelList) Transforms() ([]Transform, Params) { return l.tfms, l.params }

// TransformY reports whether labels go through the pipeline too.
func (l *LabelList) TransformY() bool { return l.tfmY }

// Get returns pair i. The input always goes through the pipeline. The label
// goes through it only when TransformY is set, and then reuses the decisions
// made for the input instead of resolving new random parameters.
func (l *LabelList) Get(i int) (x any, y any, err error) {
	if x, err = l.x.Get(i); err != nil {
		return nil, nil, err
	}
	if y, err = l.y.Get(i); err != nil {
		return nil, nil, err
	}
	if x, err = applyTransforms(x, l.tfms, l.params, true); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to transform input %d", i)
	}
	if l.tfmY {
		if y, err = applyTransforms(y, l.tfms, l.params, false); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to transform label %d", i)
		}
	}
	return x, y, nil
}

// Index returns the pairs at idxs with the same pipeline.
func (l *LabelList) Index(idxs []int) (*LabelList, error) {
	x, err := l.x.Index(idxs)
	if err != nil {
		return nil, err
	}
	y, err := l.y.Select(idxs)
	if err != nil {
		return nil, err
	}
	return l.New(x, y)
}

// New pairs x and y with l's pipeline.
func (l *LabelList) New(x *ItemList, y Labels) (*LabelList, error) {
	ll, err := NewLabelList(x, y)
	if err != nil {
		return nil, err
	}
	ll.tfms, ll.params, ll.tfmY = l.tfms, l.params, l.tfmY
	return ll, nil
}

// TransformOption configures Transform.
type TransformOption func(*LabelList)

// WithTransformY sets whether labels go through the pipeline too.
func WithTransformY(b bool) TransformOption {
	return func(l *LabelList) { l.tfmY = b }
}

// WithParams sets the parameters passed with the pipeline.
func WithParams(p Params) TransformOption {
	return func(l *LabelList) { l.params = p }
}

// Transform replaces the pipeline and its parameters in place and returns l.
// The transform-y flag keeps its value unless WithTransformY is given.
func (l *LabelList) Transform(tfms []Transform, opts ...TransformOption) *LabelList {
	l.tfms = tfms
	l.params = nil
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LabelList) String() string {
	return fmt.Sprintf("LabelList (%d items)\ny: %v\nx: %v", l.Len(), l.y, l.x)
}
