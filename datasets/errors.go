package datasets

import "github.com/pkg/errors"

// Sentinel errors returned (wrapped) by the package. Match them with errors.Is.
var (
	// ErrUnknownCategory is returned when a label value is not in the class vocabulary.
	ErrUnknownCategory = errors.New("value not in classes")

	// ErrNoMatch is returned by regex labeling when the pattern finds nothing.
	ErrNoMatch = errors.New("pattern did not match")

	// ErrPrecondition is returned when arguments contradict each other.
	ErrPrecondition = errors.New("precondition failed")

	// ErrState is returned when an ItemLists operation runs in the wrong state.
	ErrState = errors.New("invalid item lists state")

	// ErrForward is returned when a call forwarded to train and valid cannot
	// be satisfied by both sides.
	ErrForward = errors.New("cannot forward call to both train and valid")

	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrLengthMismatch   = errors.New("inputs and labels lengths differ")
	ErrEmptyValid       = errors.New("validation set is empty")
	ErrNotTransformable = errors.New("value does not accept transforms")
	ErrColumn           = errors.New("column not found")
	ErrNotInPath        = errors.New("item is not under the list path")
)
