package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/ksysoev/rulebook/pkg/core"
	"github.com/ksysoev/rulebook/pkg/repo/backend"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type dumpFlags struct {
	URL     string `mapstructure:"url"`
	Ruleids string `mapstructure:"ruleids"`
	Format  string `mapstructure:"format"`
	Color   bool   `mapstructure:"color"`
}

// dumpDoc is a content doc as written by the dump command.
type dumpDoc struct {
	CDocID   string `json:"cdoc_id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	CSetID   string `json:"cset_id,omitempty"`
	Targets  int    `json:"targets"`
	Chapters int    `json:"chapters"`
}

type dumpMsgs struct {
	Info    []string `json:"info,omitempty"`
	Warning []string `json:"warning,omitempty"`
	Error   []string `json:"error,omitempty"`
}

type dumpASOP struct {
	ChapterID string `json:"chapter_id"`
	Caption   string `json:"caption"`
	Sections  int    `json:"sections"`
}

type dumpOutput struct {
	Config      *core.AppConfig `json:"config,omitempty"`
	StartupMsgs *dumpMsgs       `json:"startup_msgs,omitempty"`
	ContentDocs []dumpDoc       `json:"content_docs"`
	Targets     []core.Target   `json:"targets"`
	ASOP        []dumpASOP      `json:"asop,omitempty"`
	Footnotes   int             `json:"footnotes"`
}

// newDumpCmd creates a cobra command that fetches the startup data from a rulebook backend
// and prints a summary of it, with the known rule targets filtered by a glob.
func newDumpCmd(flags *cmdFlags) *cobra.Command {
	var df dumpFlags

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the startup data of a rulebook backend",
		Long: "Fetch the app config, content docs, footnotes, ASOP and startup messages from a rulebook backend " +
			"and print them as JSON or YAML. Environment variables (RULEBOOK_URL, RULEBOOK_RULEIDS, " +
			"RULEBOOK_FORMAT, RULEBOOK_COLOR) provide defaults for the corresponding flags.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := initLogger(flags); err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}

			bindEnvDefaults(cmd, &df)

			return runDump(cmd.Context(), cmd.OutOrStdout(), &df)
		},
	}

	cmd.Flags().StringVar(&df.URL, "url", defaultBackendURL, "base URL of the rulebook backend")
	cmd.Flags().StringVar(&df.Ruleids, "ruleids", "", "glob pattern selecting the ruleids to list (e.g. \"A1*\")")
	cmd.Flags().StringVar(&df.Format, "format", formatJSON, "output format (json, yaml)")
	cmd.Flags().BoolVar(&df.Color, "color", false, "highlight the output for a terminal")

	return cmd
}

// bindEnvDefaults applies RULEBOOK_* environment variables to flags the user did not set explicitly.
func bindEnvDefaults(cmd *cobra.Command, df *dumpFlags) {
	v := viper.New()
	v.SetEnvPrefix("rulebook")
	v.AutomaticEnv()

	if !cmd.Flags().Changed("url") && v.IsSet("url") {
		df.URL = v.GetString("url")
	}

	if !cmd.Flags().Changed("ruleids") && v.IsSet("ruleids") {
		df.Ruleids = v.GetString("ruleids")
	}

	if !cmd.Flags().Changed("format") && v.IsSet("format") {
		df.Format = v.GetString("format")
	}

	if !cmd.Flags().Changed("color") && v.IsSet("color") {
		df.Color = v.GetBool("color")
	}
}

// runDump fetches the startup data concurrently and writes it to w in the requested format.
func runDump(ctx context.Context, w io.Writer, df *dumpFlags) error {
	format := strings.ToLower(df.Format)
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("unsupported format %q", df.Format)
	}

	if df.Ruleids != "" && !doublestar.ValidatePattern(df.Ruleids) {
		return fmt.Errorf("invalid ruleids pattern %q", df.Ruleids)
	}

	client := backend.New(backend.Config{BaseURL: df.URL})

	var (
		cfg   *core.AppConfig
		docs  []core.ContentDoc
		notes core.FootnoteIndex
		asop  *core.ASOP
		msgs  *core.StartupMsgs
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		if cfg, err = client.AppConfig(gctx); err != nil {
			return fmt.Errorf("failed to fetch app config: %w", err)
		}

		return nil
	})

	g.Go(func() (err error) {
		if docs, err = client.ContentDocs(gctx); err != nil {
			return fmt.Errorf("failed to fetch content docs: %w", err)
		}

		return nil
	})

	g.Go(func() (err error) {
		if notes, err = client.Footnotes(gctx); err != nil {
			return fmt.Errorf("failed to fetch footnotes: %w", err)
		}

		return nil
	})

	g.Go(func() (err error) {
		if asop, err = client.ASOP(gctx); err != nil {
			return fmt.Errorf("failed to fetch ASOP: %w", err)
		}

		return nil
	})

	g.Go(func() (err error) {
		if msgs, err = client.StartupMsgs(gctx); err != nil {
			return fmt.Errorf("failed to fetch startup messages: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	state := core.NewAppState().WithConfig(cfg).WithContentDocs(docs).WithFootnotes(notes).WithASOP(asop)

	out, err := buildDump(state, msgs, df.Ruleids)
	if err != nil {
		return err
	}

	data, err := encodeDump(out, format)
	if err != nil {
		return err
	}

	if df.Color {
		if err := quick.Highlight(w, string(data), format, "terminal256", "monokai"); err != nil {
			return fmt.Errorf("failed to highlight output: %w", err)
		}

		return nil
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func buildDump(state *core.AppState, msgs *core.StartupMsgs, pattern string) (*dumpOutput, error) {
	out := &dumpOutput{
		Config:      state.Config,
		ContentDocs: []dumpDoc{},
		Targets:     []core.Target{},
	}

	for _, d := range state.ContentDocs() {
		out.ContentDocs = append(out.ContentDocs, dumpDoc{
			CDocID:   d.CDocID,
			Title:    d.Title,
			URL:      d.URL,
			CSetID:   d.ParentCSetID,
			Targets:  len(d.Targets),
			Chapters: len(d.Chapters),
		})
	}

	pattern = strings.ToLower(pattern)

	for _, d := range state.ContentDocs() {
		for _, t := range d.Targets {
			if pattern != "" {
				ok, err := doublestar.Match(pattern, strings.ToLower(t.Ruleid))
				if err != nil {
					return nil, fmt.Errorf("failed to match ruleid %q: %w", t.Ruleid, err)
				}

				if !ok {
					continue
				}
			}

			out.Targets = append(out.Targets, core.Target{CSetID: d.ParentCSetID, CDocID: d.CDocID, Ruleid: t.Ruleid})
		}
	}

	for _, byRuleid := range state.Footnotes {
		for _, fns := range byRuleid {
			out.Footnotes += len(fns)
		}
	}

	if state.ASOP != nil {
		for _, c := range state.ASOP.Chapters {
			out.ASOP = append(out.ASOP, dumpASOP{ChapterID: c.ChapterID, Caption: c.Caption, Sections: len(c.Sections)})
		}
	}

	if msgs != nil {
		out.StartupMsgs = &dumpMsgs{
			Info:    msgTexts(msgs.Info),
			Warning: msgTexts(msgs.Warning),
			Error:   msgTexts(msgs.Error),
		}
	}

	return out, nil
}

func msgTexts(msgs []core.StartupMsg) []string {
	var out []string

	for _, m := range msgs {
		if m.Detail != "" {
			out = append(out, m.Text+": "+m.Detail)
			continue
		}

		out = append(out, m.Text)
	}

	return out
}

// encodeDump renders the dump as indented JSON or as block-style YAML with the JSON field names.
func encodeDump(out *dumpOutput, format string) ([]byte, error) {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}

	if format == formatJSON {
		return append(data, '\n'), nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to convert output to yaml: %w", err)
	}

	blockStyle(&node)

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}

	return buf.Bytes(), nil
}

// blockStyle clears the flow style JSON input leaves on every node.
func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle

	if n.Kind == yaml.ScalarNode && n.Style&yaml.DoubleQuotedStyle != 0 && n.Tag == "!!str" {
		n.Style &^= yaml.DoubleQuotedStyle
	}

	for _, c := range n.Content {
		blockStyle(c)
	}
}
