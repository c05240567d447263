package datasets

import "github.com/gomlx/gomlx/pkg/core/tensors"

// Tensor returns the class indices of every item as an int32 gomlx tensor of
// shape [Len()].
func (c *CategoryList) Tensor() (*tensors.Tensor, error) {
	idx, err := c.Encode()
	if err != nil {
		return nil, err
	}
	return tensors.FromAnyValue(idx), nil
}

// Tensor returns the one-hot label rows as a float32 gomlx tensor of shape
// [Len(), len(Classes())].
func (c *MultiCategoryList) Tensor() (*tensors.Tensor, error) {
	rows, err := c.Encode()
	if err != nil {
		return nil, err
	}
	return tensors.FromAnyValue(rows), nil
}
