// Package planner assigns a roster of characters to raid runs.
//
// BuildSchedule classifies every character into at most three raid tiers,
// groups them into per-tier buckets and packs each bucket into runs that
// respect capacity, owner, job and support rules. Packing is driven by a
// Strategy selected from the balance mode and refined by a seeded local
// search, so identical inputs and seed always yield the same schedule.
package planner
