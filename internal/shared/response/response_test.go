package response_test

import (
	"testing"

	"go-payroll/internal/shared/response"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationMeta(t *testing.T) {
	meta := response.NewPaginationMeta(21, 2, 10)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.Page)

	assert.Equal(t, 0, response.NewPaginationMeta(5, 1, 0).TotalPages)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, response.Paginate(items, 2, 2))
	assert.Equal(t, []int{5}, response.Paginate(items, 3, 2))
	assert.Empty(t, response.Paginate(items, 4, 2))
	assert.Equal(t, items, response.Paginate(items, 1, 0))
}
