package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"tasnim.dev/aws-reaper/internal/theme"
	"tasnim.dev/aws-reaper/internal/utils"
)

// Render writes a per-region table and the failure list to w.
func Render(w io.Writer, s *Summary) {
	title := "aws-reaper run"
	if s.AccountID != "" {
		title += " for account " + s.AccountID
	}
	fmt.Fprintln(w, theme.TitleStyle.Render(title))
	if s.DryRun {
		fmt.Fprintln(w, theme.WarningStyle.Render("dry run: no resources were changed"))
	}
	fmt.Fprintln(w, theme.MutedStyle.Render(fmt.Sprintf("%s to %s",
		utils.TimeOrDash(s.StartedAt, utils.DateTimeSec), utils.TimeOrDash(s.FinishedAt, utils.TimeOnly))))

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Region", "Snapshots deleted", "Snapshots kept", "Instances checked", "Instances stopped", "SGs deleted", "Failures"})

	for _, r := range s.Regions {
		if isEmpty(r) {
			continue
		}
		tw.AppendRow(table.Row{
			r.Region,
			len(r.DeletedSnapshots),
			r.RetainedSnapshots,
			r.EvaluatedInstances,
			len(r.StoppedInstances),
			len(r.DeletedSecurityGroups),
			status(len(r.Failures)),
		})
	}

	t := s.Totals()
	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d regions", t.Regions),
		t.DeletedSnapshots,
		t.RetainedSnapshots,
		t.EvaluatedInstances,
		t.StoppedInstances,
		t.DeletedSecurityGroups,
		t.Failures,
	})
	tw.Render()

	if t.DeletedSnapshotGB > 0 {
		verb := "released"
		if s.DryRun {
			verb = "would be released"
		}
		fmt.Fprintln(w, theme.MutedStyle.Render(fmt.Sprintf("snapshot storage %s: %d GiB", verb, t.DeletedSnapshotGB)))
	}

	var failures []string
	for _, r := range s.Regions {
		for _, f := range r.Failures {
			failures = append(failures, fmt.Sprintf("  %s %s %s (%s): %s", r.Region, f.Step, utils.OrDash(f.ResourceID), f.Kind, f.Error))
		}
	}
	if len(failures) > 0 {
		fmt.Fprintln(w, theme.ErrorStyle.Render("failures:"))
		fmt.Fprintln(w, strings.Join(failures, "\n"))
	}
}

func status(failures int) string {
	if failures == 0 {
		return theme.SuccessStyle.Render("0")
	}
	return theme.ErrorStyle.Render(fmt.Sprintf("%d", failures))
}

// isEmpty reports a region where nothing was found and nothing failed.
func isEmpty(r RegionReport) bool {
	return len(r.DeletedSnapshots) == 0 && r.RetainedSnapshots == 0 &&
		r.EvaluatedInstances == 0 && len(r.DeletedSecurityGroups) == 0 &&
		len(r.Failures) == 0
}

// RenderDetails lists every affected resource, one section per region.
func RenderDetails(w io.Writer, s *Summary) {
	deleted, stopped := "deleted", "stopped"
	if s.DryRun {
		deleted, stopped = "would-delete", "would-stop"
	}

	for _, r := range s.Regions {
		if isEmpty(r) {
			continue
		}
		l := utils.NewResourceList(24, theme.SectionStyle)
		l.Heading(r.Region,
			utils.Count(len(r.DeletedSnapshots)+len(r.DeletedSecurityGroups), deleted),
			utils.Count(len(r.StoppedInstances), stopped),
			utils.Count(len(r.Failures), "failed"),
		)

		for _, snap := range r.DeletedSnapshots {
			l.Entry(snap.SnapshotID,
				theme.RenderAction(deleted),
				snap.Reason,
				"volume "+utils.OrDash(snap.VolumeID),
				fmt.Sprintf("%d GiB", snap.SizeGB),
				"taken "+utils.TimeOrDash(snap.StartedAt, utils.DateTime),
			)
		}
		for _, inst := range r.StoppedInstances {
			l.Entry(inst.InstanceID,
				theme.RenderAction(stopped),
				fmt.Sprintf("%s of %d samples low", utils.Percent(inst.LowPercentage), inst.Samples),
			)
		}
		l.Entries(r.NoDataInstances, theme.RenderAction("no CPU data"))
		l.Entries(r.DeletedSecurityGroups, theme.RenderAction(deleted))
		for _, f := range r.Failures {
			l.Entry(utils.OrDash(f.ResourceID), theme.RenderAction("failed"), f.Step+": "+f.Error)
		}
		l.Blank()
		fmt.Fprint(w, l.String())
	}
}
