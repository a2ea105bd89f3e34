package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	app "github.com/turtacn/interactome/internal/application/interaction"
	"github.com/turtacn/interactome/pkg/errors"
)

type graphOptions struct {
	file         string
	viewerFile   string
	mode         string
	only         []string
	enable       []string
	disable      []string
	proximal     float64
	showIsolated bool
	ticks        int
	positions    bool
}

// NewGraphCmd creates the graph command: normalize, filter and lay out one
// payload file.
func NewGraphCmd() *cobra.Command {
	opts := &graphOptions{}
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Normalize, filter and lay out an interaction payload",
		Example: `  interactome graph -f atoms.json
  interactome graph -f atoms.json --only hbond,ionic --mode residue -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "payload file, - for stdin (required)")
	f.StringVar(&opts.viewerFile, "viewer-file", "", "viewer payload used for distance-line pairs")
	f.StringVar(&opts.mode, "mode", "", "selection mode (atom, residue)")
	f.StringSliceVar(&opts.only, "only", nil, "show only these interaction types")
	f.StringSliceVar(&opts.enable, "enable", nil, "interaction types to enable")
	f.StringSliceVar(&opts.disable, "disable", nil, "interaction types to disable")
	f.Float64Var(&opts.proximal, "proximal", 0, "hide proximal contacts longer than this distance")
	f.BoolVar(&opts.showIsolated, "show-isolated", false, "keep nodes without visible links")
	f.IntVar(&opts.ticks, "ticks", 0, "layout ticks (default from config)")
	f.BoolVar(&opts.positions, "positions", false, "list node positions in table output")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (o *graphOptions) filterUpdate(cmd *cobra.Command) *app.FilterUpdate {
	u := &app.FilterUpdate{Enable: o.enable, Disable: o.disable}
	if len(o.only) > 0 {
		u.ClearAll = true
		u.Enable = append(append([]string{}, o.only...), o.enable...)
	}
	if cmd.Flags().Changed("proximal") {
		p := o.proximal
		u.ProximalThreshold = &p
	}
	if cmd.Flags().Changed("show-isolated") {
		s := o.showIsolated
		u.ShowIsolated = &s
	}
	return u
}

func runGraph(cmd *cobra.Command, opts *graphOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if opts.ticks < 0 || opts.ticks > app.MaxStepTicks {
		return errors.Newf(errors.CodeInvalidParam, "ticks must be within [0, %d]", app.MaxStepTicks)
	}

	payload, err := readInput(cmd, opts.file)
	if err != nil {
		return err
	}
	in := app.AnalyzeInput{
		Payload: payload,
		Base:    app.FilterStateFrom(cliCtx.Config.Filter),
		Filters: opts.filterUpdate(cmd),
		Mode:    opts.mode,
		Ticks:   opts.ticks,
	}
	if in.Mode == "" {
		in.Mode = cliCtx.Config.Filter.Mode
	}
	if opts.viewerFile != "" {
		if in.ViewerPayload, err = readInput(cmd, opts.viewerFile); err != nil {
			return err
		}
	}

	res, err := app.Analyze(in, app.PipelineConfigFrom(cliCtx.Config.Layout), nil)
	if err != nil {
		return err
	}
	cliCtx.Logger.Debug("graph analyzed")

	out := cmd.OutOrStdout()
	if cliCtx.Output == OutputJSON {
		return printJSON(out, res)
	}

	fmt.Fprintf(out, "%s %s  nodes=%d links=%d dropped=%d ticks=%d\n",
		color.CyanString("shape"), orDash(res.Report.Shape),
		len(res.Nodes), len(res.Links), res.Report.DroppedLinks, res.Ticks)
	renderTable(out, []string{"Type", "Present", "Visible", "Active"}, typeRows(res))
	if res.HasSelection {
		fmt.Fprintf(out, "%s %s\n", color.GreenString("selection"), res.Selection)
	} else {
		fmt.Fprintf(out, "%s %s\n", color.YellowString("selection"), "(none)")
	}
	if opts.positions {
		rows := make([][]string, 0, len(res.Positions))
		for _, p := range res.Positions {
			rows = append(rows, []string{p.ID, fmtFloat(p.X), fmtFloat(p.Y), fmtFloat(p.Radius), strconv.Itoa(p.Degree)})
		}
		renderTable(out, []string{"Node", "X", "Y", "Radius", "Degree"}, rows)
	}
	return nil
}

func typeRows(res *app.AnalyzeResult) [][]string {
	types := res.Census.Types()
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		active := "no"
		if res.Filters.Active(t) {
			active = color.GreenString("yes")
		}
		rows = append(rows, []string{
			string(t),
			strconv.Itoa(res.Census.TypeCounts[t]),
			strconv.Itoa(res.VisibleTypeCounts[t]),
			active,
		})
	}
	return rows
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

//Personal.AI order the ending
