package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	domain "github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/selection"
	"github.com/turtacn/interactome/pkg/errors"
)

type selectOptions struct {
	file string
	mode string
}

// SelectResult is the JSON output of the select command.
type SelectResult struct {
	Mode         selection.Mode        `json:"mode"`
	Selection    string                `json:"selection,omitempty"`
	HasSelection bool                  `json:"has_selection"`
	Pairs        []selection.TypePairs `json:"pairs"`
	PairCount    int                   `json:"pair_count"`
}

// NewSelectCmd creates the select command.  Labels given as arguments are
// compiled directly; with --file every node of the payload is selected and
// its typed links become distance-line pairs.
func NewSelectCmd() *cobra.Command {
	opts := &selectOptions{}
	cmd := &cobra.Command{
		Use:   "select [label...]",
		Short: "Compile a viewer selection expression",
		Example: `  interactome select A/10/LIG/C1/1 R/55/SER/OG/2
  interactome select --mode residue -f residues.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "payload file, - for stdin")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "selection mode (atom, residue)")
	return cmd
}

func runSelect(cmd *cobra.Command, opts *selectOptions, labels []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	modeName := opts.mode
	if modeName == "" {
		modeName = cliCtx.Config.Filter.Mode
	}
	mode, err := selection.ParseMode(modeName)
	if err != nil {
		return err
	}

	var g *domain.Graph
	if opts.file != "" {
		data, err := readInput(cmd, opts.file)
		if err != nil {
			return err
		}
		if g, err = domain.NormalizeJSON(data); err != nil {
			return err
		}
	} else {
		g = &domain.Graph{}
	}
	for _, l := range labels {
		g.Nodes = append(g.Nodes, domain.Node{ID: l, Label: l, Role: domain.RoleOf(l)})
	}
	if len(g.Nodes) == 0 {
		return errors.InvalidParam("no labels given and no nodes in the payload")
	}

	expr, ok := selection.Compile(g.Nodes, mode)
	pairs := selection.OrderedPairs(selection.AtomPairs(g.Nodes, g.Links))
	res := SelectResult{
		Mode:         mode,
		Selection:    expr,
		HasSelection: ok,
		Pairs:        pairs,
		PairCount:    selection.CountPairs(pairs),
	}

	out := cmd.OutOrStdout()
	if cliCtx.Output == OutputJSON {
		return printJSON(out, res)
	}
	if !ok {
		fmt.Fprintln(out, color.YellowString("no selectable labels"))
	} else {
		fmt.Fprintln(out, res.Selection)
	}
	if res.PairCount > 0 {
		rows := make([][]string, 0, len(pairs))
		for _, tp := range pairs {
			rows = append(rows, []string{string(tp.Type), strconv.Itoa(len(tp.Pairs))})
		}
		renderTable(out, []string{"Type", "Pairs"}, rows)
	}
	return nil
}

//Personal.AI order the ending
