package category

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	categoryDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/category"
)

type Category struct {
	ID          string    `json:"id"`
	PartnerID   string    `json:"partner_id"`
	ParentID    *string   `json:"parent_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FlatCategory is one row of the indented tree shown in the dashboard.
type FlatCategory struct {
	Category
	Depth int    `json:"depth"`
	Path  string `json:"path"`
}

func NewCategory(partnerID, name, description string, parentID *string) *Category {
	now := time.Now()
	return &Category{
		ID:          uuid.NewString(),
		PartnerID:   partnerID,
		ParentID:    parentID,
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

func (c *Category) Activate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
}

func (c *Category) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

func childrenIndex(all []Category) map[string][]Category {
	idx := make(map[string][]Category)
	for _, c := range all {
		if c.IsRoot() {
			continue
		}
		idx[*c.ParentID] = append(idx[*c.ParentID], c)
	}
	return idx
}

// FindSubcategories returns every descendant of parentID, breadth first.
// Malformed data containing a cycle terminates.
func FindSubcategories(all []Category, parentID string) []Category {
	idx := childrenIndex(all)
	seen := map[string]bool{parentID: true}
	queue := []string{parentID}
	var out []Category

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range idx[id] {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out
}

// SubtreeIDs is id followed by the ids of all its descendants.
func SubtreeIDs(all []Category, id string) []string {
	subs := FindSubcategories(all, id)
	ids := make([]string, 0, len(subs)+1)
	ids = append(ids, id)
	for _, c := range subs {
		ids = append(ids, c.ID)
	}
	return ids
}

func sortSiblings(cs []Category) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].SortOrder != cs[j].SortOrder {
			return cs[i].SortOrder < cs[j].SortOrder
		}
		return strings.ToLower(cs[i].Name) < strings.ToLower(cs[j].Name)
	})
}

// Flatten orders categories depth first for display. A category whose parent
// is missing is shown as a root.
func Flatten(all []Category) []FlatCategory {
	present := make(map[string]bool, len(all))
	for _, c := range all {
		present[c.ID] = true
	}

	var roots []Category
	for _, c := range all {
		if c.IsRoot() || !present[*c.ParentID] {
			roots = append(roots, c)
		}
	}
	sortSiblings(roots)

	idx := childrenIndex(all)
	for k := range idx {
		sortSiblings(idx[k])
	}

	out := make([]FlatCategory, 0, len(all))
	seen := make(map[string]bool, len(all))
	var walk func(c Category, depth int, prefix string)
	walk = func(c Category, depth int, prefix string) {
		if seen[c.ID] {
			return
		}
		seen[c.ID] = true
		path := c.Name
		if prefix != "" {
			path = prefix + " / " + c.Name
		}
		out = append(out, FlatCategory{Category: c, Depth: depth, Path: path})
		for _, child := range idx[c.ID] {
			walk(child, depth+1, path)
		}
	}
	for _, r := range roots {
		walk(r, 0, "")
	}
	return out
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:          c.ID,
		PartnerID:   c.PartnerID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:          c.ID,
		PartnerID:   c.PartnerID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModels(rows []*categoryDatamodel.Category) []Category {
	out := make([]Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, *FromDataModel(r))
	}
	return out
}
