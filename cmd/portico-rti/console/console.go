// Package console provides the interactive command line of portico-rti.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"github.com/openlvc/portico-sub003/pkg/rti"
)

// Console inspects a running kernel from the terminal.
type Console struct {
	rl *readline.Instance
}

// New creates a console. It takes over the terminal until Run returns.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rti> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("help"),
			readline.PcItem("federations"),
			readline.PcItem("federates"),
			readline.PcItem("lbts"),
			readline.PcItem("saves"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{rl: rl}, nil
}

// Stdout returns a writer that coordinates with the prompt. Log output
// should go here while the console runs.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run reads commands for kernel until quit, end of input or ctx ends. It
// calls cancel when the user leaves.
func (c *Console) Run(ctx context.Context, kernel *rti.Kernel, cancel context.CancelFunc) {
	defer c.rl.Close()
	go func() {
		<-ctx.Done()
		c.rl.Close()
	}()

	w := c.rl.Stdout()
	Help(w)
	for {
		line, err := c.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil || ctx.Err() != nil {
			if ctx.Err() == nil {
				fmt.Fprintln(w, "Exiting...")
				cancel()
			}
			return
		}
		if !Execute(kernel, w, line) {
			fmt.Fprintln(w, "Exiting...")
			cancel()
			return
		}
	}
}

// Help prints the command summary.
func Help(w io.Writer) {
	fmt.Fprintln(w, `
RTI Commands:
  federations          - List federation executions
  federates <fed>      - List the federates joined to a federation
  lbts <fed>           - Show the time status of every federate
  saves <fed>          - List the saves stored for a federation
  help                 - Show this help
  quit                 - Stop the RTI`)
}

// Execute runs one command line against kernel, writing to w. It returns
// false when the line asks to quit.
func Execute(kernel *rti.Kernel, w io.Writer, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "help", "?":
		Help(w)
	case "federations", "feds", "f":
		cmdFederations(kernel, w)
	case "federates":
		withFederation(kernel, w, args, cmdFederates)
	case "lbts", "time":
		withFederation(kernel, w, args, cmdLBTS)
	case "saves":
		cmdSaves(kernel, w, args)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func withFederation(kernel *rti.Kernel, w io.Writer, args []string, fn func(io.Writer, rti.FederationInfo)) {
	if len(args) != 1 {
		fmt.Fprintln(w, "Usage: <command> <federation>")
		return
	}
	f, ok := kernel.Federation(args[0])
	if !ok {
		fmt.Fprintf(w, "No federation execution named %q\n", args[0])
		return
	}
	fn(w, f.Info())
}

func cmdFederations(kernel *rti.Kernel, w io.Writer) {
	feds := kernel.Federations()
	if len(feds) == 0 {
		fmt.Fprintln(w, "No federation executions")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFOM\tFEDERATES\tOBJECTS\tLBTS\tSTATE")
	for _, f := range feds {
		state := "running"
		switch {
		case f.Save != "":
			state = "saving " + f.Save
		case f.Restore != "":
			state = "restoring " + f.Restore
		case len(f.SyncPoints) > 0:
			state = fmt.Sprintf("%d sync points pending", len(f.SyncPoints))
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n", f.Name, f.FOM, len(f.Federates), f.Objects, f.LBTS, state)
	}
	tw.Flush()
}

func cmdFederates(w io.Writer, info rti.FederationInfo) {
	if len(info.Federates) == 0 {
		fmt.Fprintf(w, "No federates joined to %s\n", info.Name)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HANDLE\tNAME\tTYPE\tJOINED\tQUEUED RO/TSO")
	for _, fi := range info.Federates {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\n",
			fi.Handle, fi.Name, fi.Type, fi.JoinedAt.Format("15:04:05"), fi.QueuedRO, fi.QueuedTSO)
	}
	tw.Flush()
	for _, sp := range info.SyncPoints {
		fmt.Fprintf(w, "Sync point %q waiting on %v\n", sp.Label, sp.Waiting)
	}
}

func cmdLBTS(w io.Writer, info rti.FederationInfo) {
	fmt.Fprintf(w, "Federation LBTS: %s\n", info.LBTS)
	if len(info.Federates) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HANDLE\tNAME\tTIME\tLOOKAHEAD\tLBTS\tREGULATING\tCONSTRAINED\tADVANCING")
	for _, fi := range info.Federates {
		advancing := fi.Advancing
		if fi.Requested != "" {
			advancing += " to " + fi.Requested
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			fi.Handle, fi.Name, fi.Time, fi.Lookahead, fi.LBTS, fi.Regulating, fi.Constrained, advancing)
	}
	tw.Flush()
}

func cmdSaves(kernel *rti.Kernel, w io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(w, "Usage: saves <federation>")
		return
	}
	store := kernel.Store()
	if store == nil {
		fmt.Fprintln(w, "No save directory configured")
		return
	}
	labels, err := store.List(args[0])
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if len(labels) == 0 {
		fmt.Fprintf(w, "No saves for %s\n", args[0])
		return
	}
	for _, l := range labels {
		fmt.Fprintf(w, "  %s\n", l)
	}
}
