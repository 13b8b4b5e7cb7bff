package category_test

import (
	"github.com/frahmantamala/marketplace/internal/category"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func ptr(s string) *string { return &s }

func ids(cs []category.Category) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

// food
// ├── drinks
// │   ├── coffee
// │   └── tea
// └── snacks
// clothes
func sampleTree() []category.Category {
	return []category.Category{
		{ID: "clothes", Name: "Clothes", SortOrder: 2},
		{ID: "tea", Name: "Tea", ParentID: ptr("drinks"), SortOrder: 1},
		{ID: "food", Name: "Food", SortOrder: 1},
		{ID: "snacks", Name: "Snacks", ParentID: ptr("food"), SortOrder: 2},
		{ID: "coffee", Name: "Coffee", ParentID: ptr("drinks"), SortOrder: 1},
		{ID: "drinks", Name: "Drinks", ParentID: ptr("food"), SortOrder: 1},
	}
}

var _ = Describe("FindSubcategories", func() {
	It("should collect grandchildren", func() {
		Expect(ids(category.FindSubcategories(sampleTree(), "food"))).
			To(ConsistOf("drinks", "snacks", "coffee", "tea"))
	})

	It("should return nothing for a leaf", func() {
		Expect(category.FindSubcategories(sampleTree(), "tea")).To(BeEmpty())
	})

	It("should terminate on cyclic data", func() {
		cyclic := []category.Category{
			{ID: "a", ParentID: ptr("b")},
			{ID: "b", ParentID: ptr("a")},
		}
		Expect(ids(category.FindSubcategories(cyclic, "a"))).To(ConsistOf("b"))
	})

	It("should list the root first in SubtreeIDs", func() {
		subtree := category.SubtreeIDs(sampleTree(), "drinks")
		Expect(subtree[0]).To(Equal("drinks"))
		Expect(subtree).To(ConsistOf("drinks", "coffee", "tea"))
	})
})

var _ = Describe("Flatten", func() {
	It("should order depth first with siblings by sort order then name", func() {
		flat := category.Flatten(sampleTree())

		var order []string
		var depths []int
		for _, f := range flat {
			order = append(order, f.ID)
			depths = append(depths, f.Depth)
		}
		Expect(order).To(Equal([]string{"food", "drinks", "coffee", "tea", "snacks", "clothes"}))
		Expect(depths).To(Equal([]int{0, 1, 2, 2, 1, 0}))
	})

	It("should build a readable path", func() {
		for _, f := range category.Flatten(sampleTree()) {
			if f.ID == "tea" {
				Expect(f.Path).To(Equal("Food / Drinks / Tea"))
			}
		}
	})

	It("should show orphans as roots", func() {
		flat := category.Flatten([]category.Category{{ID: "x", Name: "X", ParentID: ptr("gone")}})
		Expect(flat).To(HaveLen(1))
		Expect(flat[0].Depth).To(Equal(0))
	})
})
