// cmd/scbbridge/describe.go
package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tamzrod/scb-bridge/internal/action"
	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/feedback"
	"github.com/tamzrod/scb-bridge/internal/projector"
)

// describe prints the command catalog, the variable keys usable in
// mirror.registers, and which commands take actions and feedbacks.
func describe(w io.Writer, reg *command.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "COMMAND\tTOKEN\tACCESS")
	for _, c := range reg.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Token, c.Access)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "VARIABLE\tLABEL")
	for _, d := range projector.Definitions(reg) {
		fmt.Fprintf(tw, "%s\t%s\n", d.Name, d.Label)
	}

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "ACTIONS\t%s\n", names(action.Actionable(reg)))
	fmt.Fprintf(tw, "FEEDBACKS\t%s\n", names(feedback.Supported(reg)))

	return tw.Flush()
}

func names(cmds []command.Command) string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Name)
	}
	return strings.Join(out, ", ")
}
