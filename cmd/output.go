package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kilianp07/raidplan/app"
	"github.com/kilianp07/raidplan/core/model"
	"github.com/kilianp07/raidplan/core/planner"
	"github.com/kilianp07/raidplan/core/sequence"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func memberLabel(ch model.Character) string {
	role := "D"
	if ch.IsSupport() {
		role = "S"
	}
	return fmt.Sprintf("%s[%s/%s/%s %.0f]", ch.ID, ch.OwnerKey, ch.JobCode, role, ch.CombatPower)
}

func partyLine(p model.Party) string {
	labels := make([]string, len(p.Members))
	for i, m := range p.Members {
		labels[i] = memberLabel(m)
	}
	return strings.Join(labels, " ")
}

func printSchedule(w io.Writer, res *app.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "schedule %s (%s, seed %d)\n", res.Fingerprint, res.Report.Mode, res.Report.Seed)
	for _, raid := range model.AllRaids {
		runs := res.Schedule[raid]
		if len(runs) == 0 {
			continue
		}
		fmt.Fprintf(tw, "\n%s\t%s\t%d runs\n", raid, raid.Label(), len(runs))
		for _, r := range runs {
			for i, p := range r.Parties {
				head := ""
				if i == 0 {
					head = fmt.Sprintf("#%d avg %.0f", r.RunIndex, r.AverageCombatPower)
				}
				fmt.Fprintf(tw, "  %s\tparty %d\t%s\n", head, p.PartyIndex, partyLine(p))
			}
		}
	}
	printReport(tw, res.Report)
	return tw.Flush()
}

func printReport(w io.Writer, rep planner.Report) {
	section := func(title string, ps []planner.Placement) {
		if len(ps) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s:\n", title)
		for _, p := range ps {
			fmt.Fprintf(w, "  %s\t%s\t%s/%s\n", p.Raid, p.CharacterID, p.Owner, p.Job)
		}
	}
	section("relaxed placements", rep.Degraded)
	section("unplaced", rep.Unplaced)
	section("party overflow", rep.Overflow)
	for _, raid := range model.AllRaids {
		if ids := rep.Promoted[raid]; len(ids) > 0 {
			fmt.Fprintf(w, "\npromoted to support in %s: %s\n", raid, strings.Join(ids, ", "))
		}
	}
}

func printSequence(w io.Writer, seq sequence.Sequence, excl model.ExclusionMap) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for gi, g := range seq.Groups {
		fmt.Fprintf(tw, "group %d (%d players): %s\n", gi+1, g.Size(), strings.Join(g.Participants, ", "))
		for _, st := range g.Steps {
			stats := sequence.Stats(st.Raid, st.Run, excl)
			fmt.Fprintf(tw, "  %d.\t%s #%d\tavg %s\tdps %s\tsup %s\n",
				st.Index, st.Raid, st.Run.RunIndex, fmtAvg(stats.Overall), fmtAvg(stats.DPS), fmtAvg(stats.Support))
			if st.Diff != nil && !st.Diff.Empty() {
				for _, ch := range st.Diff.Leaving {
					fmt.Fprintf(tw, "\t  - %s\n", memberLabel(ch))
				}
				for _, ch := range st.Diff.Entering {
					fmt.Fprintf(tw, "\t  + %s\n", memberLabel(ch))
				}
				for _, sw := range st.Diff.Switching {
					fmt.Fprintf(tw, "\t  ~ %s: %s -> %s\n", sw.Owner, sw.From.ID, sw.To.ID)
				}
			}
		}
	}
	fmt.Fprintf(tw, "\ntransition cost %d\n", seq.TotalCost)
	return tw.Flush()
}

func fmtAvg(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}
