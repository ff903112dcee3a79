// Package sequence orders the runs of a schedule so that consecutive runs
// share as many players and characters as possible.
package sequence

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/kilianp07/raidplan/core/model"
)

// DefaultOrder is the tier priority used to flatten a schedule. Elite tiers
// are scheduled separately and are not part of the sequence.
var DefaultOrder = []model.RaidID{
	model.RaidAct3Hard,
	model.RaidAct4Normal,
	model.RaidAct4Hard,
	model.RaidFinalNormal,
	model.RaidFinalHard,
}

// Options tunes BuildSequence.
type Options struct {
	// Order lists the tiers to include, by priority. Defaults to DefaultOrder.
	Order []model.RaidID
	// Exclusions hides completed characters from step diffs.
	Exclusions model.ExclusionMap
}

// Step is one run in the final sequence.
type Step struct {
	Index int          `json:"index"`
	Raid  model.RaidID `json:"raid"`
	Run   model.Run    `json:"run"`
	// Diff compares the visible members with the previous step. It is nil
	// for the first step.
	Diff *TransitionDiff `json:"diff,omitempty"`
}

// Group holds the runs played by the same set of owners.
type Group struct {
	Participants []string `json:"participants"`
	Steps        []Step   `json:"steps"`
}

// Size is the number of distinct owners of the group.
func (g Group) Size() int { return len(g.Participants) }

// Sequence is the ordered result of BuildSequence.
type Sequence struct {
	Groups []Group `json:"groups"`
	// TotalCost sums the transition costs of consecutive steps.
	TotalCost int `json:"totalCost"`
}

// Steps returns every step in order.
func (s Sequence) Steps() []Step {
	var out []Step
	for _, g := range s.Groups {
		out = append(out, g.Steps...)
	}
	return out
}

type entry struct {
	raid model.RaidID
	run  model.Run
}

type group struct {
	key          string
	participants []string
	entries      []entry
}

// BuildSequence groups runs by their owner set and orders each group with a
// nearest-neighbour tour. Groups with more owners come first, ties broken by
// the owner list.
func BuildSequence(s model.Schedule, opts Options) Sequence {
	order := opts.Order
	if len(order) == 0 {
		order = DefaultOrder
	}
	rank := make(map[model.RaidID]int, len(order))
	for i, r := range order {
		rank[r] = i
	}

	var groups []*group
	byKey := make(map[string]*group)
	for _, raid := range order {
		for _, run := range s[raid] {
			participants := owners(run)
			key := strings.Join(participants, "|")
			g, ok := byKey[key]
			if !ok {
				g = &group{key: key, participants: participants}
				byKey[key] = g
				groups = append(groups, g)
			}
			g.entries = append(g.entries, entry{raid: raid, run: run})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if len(a.participants) != len(b.participants) {
			return len(a.participants) > len(b.participants)
		}
		return strings.Join(a.participants, ",") < strings.Join(b.participants, ",")
	})

	var seq Sequence
	var prev *entry
	index := 1
	for _, g := range groups {
		out := Group{Participants: g.participants}
		for _, e := range orderGroup(g.entries, rank) {
			step := Step{Index: index, Raid: e.raid, Run: e.run}
			if prev != nil {
				seq.TotalCost += ComputeTransitionDiff(prev.run, e.run).Cost()
				d := DiffMembers(
					VisibleMembers(prev.raid, prev.run, opts.Exclusions),
					VisibleMembers(e.raid, e.run, opts.Exclusions),
				)
				step.Diff = &d
			}
			e := e
			prev = &e
			index++
			out.Steps = append(out.Steps, step)
		}
		seq.Groups = append(seq.Groups, out)
	}
	return seq
}

// owners returns the sorted distinct owners of run.
func owners(run model.Run) []string {
	set := make(map[string]struct{})
	for _, m := range run.Members() {
		set[m.OwnerKey] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for o := range set {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// orderGroup tries a nearest-neighbour tour from every start and keeps the
// cheapest. Equal costs are broken by the lexicographically smaller
// tier/run key sequence.
func orderGroup(entries []entry, rank map[model.RaidID]int) []entry {
	n := len(entries)
	if n <= 1 {
		return entries
	}
	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		for j := range cost[i] {
			if i == j {
				cost[i][j] = math.Inf(1)
				continue
			}
			cost[i][j] = float64(ComputeTransitionDiff(entries[i].run, entries[j].run).Cost())
		}
	}

	tourKey := func(tour []int) string {
		parts := make([]string, len(tour))
		for i, p := range tour {
			parts[i] = strconv.Itoa(rank[entries[p].raid]) + "-" + strconv.Itoa(entries[p].run.RunIndex)
		}
		return strings.Join(parts, ",")
	}

	var best []int
	bestCost := math.Inf(1)
	for start := 0; start < n; start++ {
		tour, total := nearestNeighbour(cost, start)
		switch {
		case total < bestCost:
			best, bestCost = tour, total
		case total == bestCost && tourKey(tour) < tourKey(best):
			best = tour
		}
	}

	out := make([]entry, n)
	for i, p := range best {
		out[i] = entries[p]
	}
	return out
}

func nearestNeighbour(cost [][]float64, start int) ([]int, float64) {
	n := len(cost)
	visited := make([]bool, n)
	tour := []int{start}
	visited[start] = true
	total := 0.0
	cur := start
	for len(tour) < n {
		next := -1
		for cand := 0; cand < n; cand++ {
			if visited[cand] {
				continue
			}
			if next < 0 || cost[cur][cand] < cost[cur][next] {
				next = cand
			}
		}
		visited[next] = true
		tour = append(tour, next)
		total += cost[cur][next]
		cur = next
	}
	return tour, total
}
