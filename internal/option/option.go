package option

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	optionDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/option"
)

type Type string

const (
	TypeColor    Type = "color"
	TypeSize     Type = "size"
	TypeMaterial Type = "material"
	TypeBrand    Type = "brand"
)

// Types lists option types in display order.
var Types = []Type{TypeColor, TypeSize, TypeMaterial, TypeBrand}

func (t Type) IsValid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

type Option struct {
	ID        string    `json:"id"`
	PartnerID string    `json:"partner_id"`
	ParentID  *string   `json:"parent_id"`
	Type      Type      `json:"type"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FlatOption struct {
	Option
	Depth int `json:"depth"`
}

type Group struct {
	Type    Type         `json:"type"`
	Options []FlatOption `json:"options"`
}

func NewOption(partnerID string, t Type, name, value string, parentID *string) *Option {
	now := time.Now()
	return &Option{
		ID:        uuid.NewString(),
		PartnerID: partnerID,
		ParentID:  parentID,
		Type:      t,
		Name:      name,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (o *Option) IsRoot() bool {
	return o.ParentID == nil || *o.ParentID == ""
}

// Descendants returns every transitive child of id.
func Descendants(all []Option, id string) []Option {
	idx := make(map[string][]Option)
	for _, o := range all {
		if !o.IsRoot() {
			idx[*o.ParentID] = append(idx[*o.ParentID], o)
		}
	}

	seen := map[string]bool{id: true}
	queue := []string{id}
	var out []Option
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range idx[cur] {
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

func SubtreeIDs(all []Option, id string) []string {
	ids := []string{id}
	for _, o := range Descendants(all, id) {
		ids = append(ids, o.ID)
	}
	return ids
}

// GroupByType buckets options per type in display order. Inside a group,
// children follow their parent and siblings sort by name. Types without
// options are omitted.
func GroupByType(all []Option) []Group {
	byType := make(map[Type][]Option)
	for _, o := range all {
		byType[o.Type] = append(byType[o.Type], o)
	}

	groups := make([]Group, 0, len(byType))
	for _, t := range Types {
		opts := byType[t]
		if len(opts) == 0 {
			continue
		}
		groups = append(groups, Group{Type: t, Options: flatten(opts)})
	}
	return groups
}

func flatten(opts []Option) []FlatOption {
	present := make(map[string]bool, len(opts))
	for _, o := range opts {
		present[o.ID] = true
	}

	children := make(map[string][]Option)
	var roots []Option
	for _, o := range opts {
		if o.IsRoot() || !present[*o.ParentID] {
			roots = append(roots, o)
			continue
		}
		children[*o.ParentID] = append(children[*o.ParentID], o)
	}

	byName := func(s []Option) {
		sort.SliceStable(s, func(i, j int) bool {
			return strings.ToLower(s[i].Name) < strings.ToLower(s[j].Name)
		})
	}
	byName(roots)

	out := make([]FlatOption, 0, len(opts))
	seen := make(map[string]bool, len(opts))
	var walk func(o Option, depth int)
	walk = func(o Option, depth int) {
		if seen[o.ID] {
			return
		}
		seen[o.ID] = true
		out = append(out, FlatOption{Option: o, Depth: depth})
		kids := children[o.ID]
		byName(kids)
		for _, k := range kids {
			walk(k, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return out
}

func ToDataModel(o *Option) *optionDatamodel.Option {
	return &optionDatamodel.Option{
		ID:        o.ID,
		PartnerID: o.PartnerID,
		ParentID:  o.ParentID,
		Type:      string(o.Type),
		Name:      o.Name,
		Value:     o.Value,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func FromDataModel(o *optionDatamodel.Option) *Option {
	return &Option{
		ID:        o.ID,
		PartnerID: o.PartnerID,
		ParentID:  o.ParentID,
		Type:      Type(o.Type),
		Name:      o.Name,
		Value:     o.Value,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func FromDataModels(rows []*optionDatamodel.Option) []Option {
	out := make([]Option, 0, len(rows))
	for _, r := range rows {
		out = append(out, *FromDataModel(r))
	}
	return out
}
