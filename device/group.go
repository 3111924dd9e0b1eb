package device

// Group is one work-group of a dispatch. Work items of a group run a Step in
// no particular order; consecutive Steps are separated by a barrier.
type Group struct {
	id     int
	size   int
	global int
	local  []uint32
}

// ID returns the group index within the dispatch.
func (g *Group) ID() int { return g.id }

// Size returns the local work size.
func (g *Group) Size() int { return g.size }

// GlobalSize returns the total number of work items in the dispatch.
func (g *Group) GlobalSize() int { return g.global }

// NumGroups returns the number of groups in the dispatch.
func (g *Group) NumGroups() int { return g.global / g.size }

// GlobalID maps a local id to its global id.
func (g *Group) GlobalID(local int) int { return g.id*g.size + local }

// Local returns the group's scratch memory. Its content is undefined when the
// group starts and it never outlives the group.
func (g *Group) Local() []uint32 { return g.local }

// Step runs fn for every work item of the group and returns once all of
// them are done.
func (g *Group) Step(fn func(local int)) {
	for l := 0; l < g.size; l++ {
		fn(l)
	}
}
