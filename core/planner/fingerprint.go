package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/kilianp07/raidplan/core/model"
)

// Fingerprint returns a stable hash of the schedule composition. Two
// schedules with the same runs, parties and member order share a
// fingerprint.
func Fingerprint(s model.Schedule) string {
	var b strings.Builder
	for _, raid := range model.AllRaids {
		for _, run := range s[raid] {
			b.WriteString(string(raid))
			b.WriteByte('#')
			b.WriteString(strconv.Itoa(run.RunIndex))
			for _, p := range run.Parties {
				b.WriteByte('/')
				b.WriteString(strconv.Itoa(p.PartyIndex))
				for _, m := range p.Members {
					b.WriteByte(',')
					b.WriteString(m.ID)
					b.WriteByte(':')
					b.WriteString(string(m.Role))
				}
			}
			b.WriteByte(';')
		}
	}
	return fmt.Sprintf("%016x", xxh3.HashString(b.String()))
}
