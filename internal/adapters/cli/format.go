// Package cli contains the output adapters behind the bluehome commands.
// Each adapter calls one primary port and renders the result for a terminal.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/pipemene/bluehome-os/internal/core/order"
)

var statusColors = map[order.Status]*color.Color{
	order.StatusNew:             color.New(color.FgYellow),
	order.StatusInProgress:      color.New(color.FgCyan),
	order.StatusDoneWaitingSign: color.New(color.FgMagenta),
	order.StatusClosed:          color.New(color.FgGreen),
}

// StatusBadge renders a status key in its color.
func StatusBadge(s order.Status) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(s.Key())
	}
	return color.New(color.FgRed).Sprintf("%s?", s)
}

// orderTable writes the board columns for orders.
func orderTable(out io.Writer, orders []order.WorkOrder) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tRADICADO\tSTATUS\tASSIGNED\tCODE\tTENANT\tTYPE")
	fmt.Fprintln(w, "──\t────────\t──────\t────────\t────\t──────\t────")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID,
			o.Radicado,
			StatusBadge(o.Status),
			orNone(o.AssignedTo),
			o.Tenant.Code,
			truncate(o.Tenant.Name, 24),
			o.Tenant.Type,
		)
	}
	w.Flush()
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
