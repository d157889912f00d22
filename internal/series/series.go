package series

import (
	"pagefinder/internal/discovery"
	"pagefinder/internal/identity"
)

// Group is the set of files that share a SeriesKey. Files keep discovery
// order; the first file is the representative used for searching.
type Group struct {
	Key      identity.SeriesKey
	Identity identity.Identity
	Files    []discovery.VideoFile
}

// Representative returns the first file of the group.
func (g *Group) Representative() discovery.VideoFile {
	return g.Files[0]
}

// Size returns the number of files in the group.
func (g *Group) Size() int {
	return len(g.Files)
}

// Groups is an ordered set of groups, keyed for lookup.
type Groups struct {
	order []*Group
	index map[identity.SeriesKey]*Group
}

// GroupFiles buckets files by SeriesKey using exact key equality. Groups are
// returned in first-seen order.
func GroupFiles(files []discovery.VideoFile) *Groups {
	groups := &Groups{index: make(map[identity.SeriesKey]*Group)}
	for _, file := range files {
		id := identity.Parse(file.Name)
		key := id.Key()
		group, ok := groups.index[key]
		if !ok {
			group = &Group{Key: key, Identity: id}
			groups.index[key] = group
			groups.order = append(groups.order, group)
		}
		group.Files = append(group.Files, file)
	}
	return groups
}

// All returns groups in first-seen order.
func (g *Groups) All() []*Group {
	return g.order
}

// Get returns the group for key.
func (g *Groups) Get(key identity.SeriesKey) (*Group, bool) {
	group, ok := g.index[key]
	return group, ok
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	return len(g.order)
}

// FileCount returns the number of files across all groups.
func (g *Groups) FileCount() int {
	total := 0
	for _, group := range g.order {
		total += len(group.Files)
	}
	return total
}

// Keys returns group keys in first-seen order.
func (g *Groups) Keys() []identity.SeriesKey {
	keys := make([]identity.SeriesKey, len(g.order))
	for i, group := range g.order {
		keys[i] = group.Key
	}
	return keys
}
