package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate_PageSizes(t *testing.T) {
	for _, n := range []int{0, 1, 19, 20, 21, 40, 57} {
		items := seq(n)
		pages := TotalPages(n, DefaultPerPage)
		for page := 1; page <= pages; page++ {
			got := Paginate(items, page, DefaultPerPage)
			want := min(DefaultPerPage, n-(page-1)*DefaultPerPage)
			assert.Len(t, got, want, "n=%d page=%d", n, page)
			assert.Equal(t, (page-1)*DefaultPerPage, got[0])
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	items := seq(5)

	assert.Empty(t, Paginate(items, 2, DefaultPerPage))
	assert.Empty(t, Paginate(items, 0, DefaultPerPage))
	assert.Empty(t, Paginate(items, 1, 0))
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total int
		want  int
	}{
		{"below range", 0, 45, 1},
		{"negative", -3, 45, 1},
		{"in range", 2, 45, 2},
		{"last page", 3, 45, 3},
		{"past last page", 4, 45, 3},
		{"empty list", 2, 0, 1},
		{"exact multiple", 3, 40, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPage(tt.page, tt.total, DefaultPerPage))
		})
	}
}

func TestNewPagination_Boundaries(t *testing.T) {
	first := NewPagination(1, 20, 45)
	assert.Equal(t, 3, first.TotalPages)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)

	last := NewPagination(3, 20, 45)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)

	empty := NewPagination(1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasPrev)
	assert.False(t, empty.HasNext)
}

func TestPageOf(t *testing.T) {
	result := PageOf(seq(45), 99, 20)

	assert.Equal(t, 3, result.Pagination.CurrentPage)
	assert.Len(t, result.Items, 5)
	assert.Equal(t, 40, result.Items[0])
}
