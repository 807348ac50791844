// Package display renders a scheduled Timeline as a terminal table for
// `cats schedule --display_timelines` (§6, §10). It is a thin, optional
// presentation layer over internal/timeline — nothing in the scheduling
// packages imports it.
package display

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/anonymousuni/cats/internal/timeline"
)

// fallbackWidth is used when stdout is not a terminal (e.g. piped output or
// CI), matching the teacher's terminal-width fallbacks for non-TTY output.
const fallbackWidth = 80

// TerminalWidth returns the current terminal width, or fallbackWidth if
// fd is not a terminal.
func TerminalWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return fallbackWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallbackWidth
	}
	return w
}

// Render writes tl as an aligned table to w: one row per event sorted by
// start position, then step name.
func Render(w io.Writer, tl *timeline.Timeline) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tSTART\tEND\tRESOURCE\tCPU%\tMEM_MB")

	events := make([]timeline.Event, len(tl.Events))
	copy(events, tl.Events)
	sort.Slice(events, func(i, j int) bool {
		if events[i].Position != events[j].Position {
			return events[i].Position < events[j].Position
		}
		return events[i].Step < events[j].Step
	})

	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%s\t%.1f\t%.1f\n",
			e.Step, e.Position, e.Finish(), e.Reservation.Resource, e.Reservation.CPUPercent, e.Reservation.MemoryMB)
	}
	tw.Flush()
}

// RenderAll renders every timeline in tls to os.Stdout, separated by a
// blank line and an index header when there is more than one candidate.
func RenderAll(tls []*timeline.Timeline) {
	for i, tl := range tls {
		if len(tls) > 1 {
			fmt.Fprintf(os.Stdout, "--- timeline %d/%d ---\n", i+1, len(tls))
		}
		Render(os.Stdout, tl)
	}
}
