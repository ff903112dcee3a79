package sequence

import "github.com/kilianp07/raidplan/core/model"

// Transition costs. Owners joining or leaving weigh far more than an owner
// bringing a different character.
const (
	OwnerChangeCost = 100
	SwitchCost      = 1
)

// Switch records an owner bringing a different character.
type Switch struct {
	Owner string          `json:"owner"`
	From  model.Character `json:"from"`
	To    model.Character `json:"to"`
}

// TransitionDiff lists the changes between two consecutive runs.
type TransitionDiff struct {
	Leaving   []model.Character `json:"leaving"`
	Entering  []model.Character `json:"entering"`
	Switching []Switch          `json:"switching"`
}

// Cost weighs the diff for run ordering.
func (d TransitionDiff) Cost() int {
	return (len(d.Leaving)+len(d.Entering))*OwnerChangeCost + len(d.Switching)*SwitchCost
}

// Empty reports whether nothing changes.
func (d TransitionDiff) Empty() bool {
	return len(d.Leaving) == 0 && len(d.Entering) == 0 && len(d.Switching) == 0
}

// ComputeTransitionDiff compares the members of two runs by owner.
func ComputeTransitionDiff(prev, next model.Run) TransitionDiff {
	return DiffMembers(prev.Members(), next.Members())
}

type byOwner struct {
	order []string
	chars map[string]model.Character
}

// indexByOwner keeps owners in first-seen order; the last character listed
// for an owner wins.
func indexByOwner(members []model.Character) byOwner {
	idx := byOwner{chars: make(map[string]model.Character, len(members))}
	for _, m := range members {
		if _, ok := idx.chars[m.OwnerKey]; !ok {
			idx.order = append(idx.order, m.OwnerKey)
		}
		idx.chars[m.OwnerKey] = m
	}
	return idx
}

// DiffMembers compares two member lists by owner.
func DiffMembers(prev, next []model.Character) TransitionDiff {
	p, n := indexByOwner(prev), indexByOwner(next)
	d := TransitionDiff{
		Leaving:   []model.Character{},
		Entering:  []model.Character{},
		Switching: []Switch{},
	}
	for _, owner := range p.order {
		from := p.chars[owner]
		to, ok := n.chars[owner]
		if !ok {
			d.Leaving = append(d.Leaving, from)
			continue
		}
		if to.ID != from.ID {
			d.Switching = append(d.Switching, Switch{Owner: owner, From: from, To: to})
		}
	}
	for _, owner := range n.order {
		if _, ok := p.chars[owner]; !ok {
			d.Entering = append(d.Entering, n.chars[owner])
		}
	}
	return d
}
