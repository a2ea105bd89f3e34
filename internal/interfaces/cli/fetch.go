package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	domain "github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/internal/infrastructure/upstream"
	"github.com/turtacn/interactome/pkg/client"
	"github.com/turtacn/interactome/pkg/errors"
)

type fetchOptions struct {
	baseURL string
	kinds   []string
	outDir  string
}

// FetchSummary describes one downloaded payload.
type FetchSummary struct {
	Kind    client.Kind `json:"kind"`
	Bytes   int         `json:"bytes"`
	Shape   string      `json:"shape,omitempty"`
	Nodes   int         `json:"nodes"`
	Links   int         `json:"links"`
	Dropped int         `json:"dropped_links"`
	Path    string      `json:"path,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	opts := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch <structure-id>",
		Short: "Download the interaction payloads of a structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.baseURL, "upstream", "", "upstream base URL (default from config)")
	f.StringSliceVar(&opts.kinds, "kind", []string{"atom", "residue", "viewer"}, "payload kinds to fetch")
	f.StringVar(&opts.outDir, "out-dir", "", "write each payload to <out-dir>/<structure-id>.<kind>.json")
	return cmd
}

func parseKinds(names []string) ([]client.Kind, error) {
	kinds := make([]client.Kind, 0, len(names))
	for _, n := range names {
		k := client.Kind(n)
		switch k {
		case client.KindAtom, client.KindResidue, client.KindViewer:
			kinds = append(kinds, k)
		default:
			return nil, errors.InvalidParam(fmt.Sprintf("unknown payload kind %q", n))
		}
	}
	return kinds, nil
}

func runFetch(cmd *cobra.Command, opts *fetchOptions, structureID string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	kinds, err := parseKinds(opts.kinds)
	if err != nil {
		return err
	}

	ucfg := cliCtx.Config.Upstream
	if opts.baseURL != "" {
		ucfg.BaseURL = opts.baseURL
	}
	c, err := upstream.NewClient(ucfg, cliCtx.Logger)
	if err != nil {
		return errors.InvalidParam("no upstream configured; pass --upstream").WithCause(err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	summaries := make([]FetchSummary, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			summaries[i] = fetchOne(gctx, c, kind, structureID, opts.outDir, cliCtx.Logger)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, s := range summaries {
		if s.Error != "" {
			failed++
		}
	}

	out := cmd.OutOrStdout()
	if cliCtx.Output == OutputJSON {
		if err := printJSON(out, summaries); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(summaries))
		for _, s := range summaries {
			status := color.GreenString("ok")
			if s.Error != "" {
				status = color.RedString(s.Error)
			}
			rows = append(rows, []string{
				string(s.Kind), strconv.Itoa(s.Bytes), orDash(s.Shape),
				strconv.Itoa(s.Nodes), strconv.Itoa(s.Links), strconv.Itoa(s.Dropped), status,
			})
		}
		renderTable(out, []string{"Kind", "Bytes", "Shape", "Nodes", "Links", "Dropped", "Status"}, rows)
	}

	if failed == len(summaries) {
		return errors.New(errors.CodeUpstreamUnavailable, fmt.Sprintf("all %d fetches failed", failed))
	}
	return nil
}

func fetchOne(ctx context.Context, c *client.Client, kind client.Kind, id, outDir string, log logging.Logger) FetchSummary {
	s := FetchSummary{Kind: kind}
	body, err := c.Fetch(ctx, kind, id)
	if err != nil {
		log.Warn("fetch failed", logging.String("kind", string(kind)), logging.Err(err))
		s.Error = err.Error()
		return s
	}
	s.Bytes = len(body)

	g, rep, err := domain.NormalizeJSONWithReport(body)
	if err != nil {
		s.Error = string(errors.CodeMalformedPayload)
		return s
	}
	s.Shape, s.Nodes, s.Links, s.Dropped = rep.Shape, len(g.Nodes), len(g.Links), rep.DroppedLinks

	if outDir != "" {
		path := filepath.Join(outDir, fmt.Sprintf("%s.%s.json", id, kind))
		if err := writeJSONFile(path, body); err != nil {
			s.Error = err.Error()
			return s
		}
		s.Path = path
	}
	return s
}

func writeJSONFile(path string, body json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

//Personal.AI order the ending
