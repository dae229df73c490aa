package blog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/blogkit/svc/blog"
)

func TestNewPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		total               int64
		perPage, page       int
		wantPage, wantPages int
		wantOffset          int
		wantNext, wantPrev  bool
		wantStart, wantEnd  int64
	}{
		{name: "first page", total: 25, perPage: 10, page: 1, wantPage: 1, wantPages: 3, wantOffset: 0, wantNext: true, wantStart: 1, wantEnd: 10},
		{name: "middle page", total: 25, perPage: 10, page: 2, wantPage: 2, wantPages: 3, wantOffset: 10, wantNext: true, wantPrev: true, wantStart: 11, wantEnd: 20},
		{name: "last partial page", total: 25, perPage: 10, page: 3, wantPage: 3, wantPages: 3, wantOffset: 20, wantPrev: true, wantStart: 21, wantEnd: 25},
		{name: "page past the end is clamped", total: 25, perPage: 10, page: 9, wantPage: 3, wantPages: 3, wantOffset: 20, wantPrev: true, wantStart: 21, wantEnd: 25},
		{name: "page below one is clamped", total: 25, perPage: 10, page: -4, wantPage: 1, wantPages: 3, wantOffset: 0, wantNext: true, wantStart: 1, wantEnd: 10},
		{name: "exact multiple", total: 20, perPage: 10, page: 2, wantPage: 2, wantPages: 2, wantOffset: 10, wantPrev: true, wantStart: 11, wantEnd: 20},
		{name: "no records", total: 0, perPage: 10, page: 3, wantPage: 1, wantPages: 0, wantOffset: 0},
		{name: "invalid page size", total: 15, perPage: 0, page: 2, wantPage: 2, wantPages: 2, wantOffset: 10, wantPrev: true, wantStart: 11, wantEnd: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := blog.NewPagination(tt.total, tt.perPage, tt.page)

			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPages, p.Pages)
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.Equal(t, tt.wantNext, p.HasNext())
			assert.Equal(t, tt.wantPrev, p.HasPrevious())

			info := p.Info()
			assert.Equal(t, tt.wantStart, info.Start)
			assert.Equal(t, tt.wantEnd, info.End)
		})
	}
}

func TestPagination_NextPrevious(t *testing.T) {
	t.Parallel()

	p := blog.NewPagination(30, 10, 1)
	assert.Equal(t, 2, p.Next())
	assert.Equal(t, 1, p.Previous())

	p = blog.NewPagination(30, 10, 3)
	assert.Equal(t, 3, p.Next())
	assert.Equal(t, 2, p.Previous())
	assert.Equal(t, 10, p.Limit())
}
