package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/entrhq/bua/pkg/dom"
	"github.com/entrhq/bua/pkg/tools"
	"github.com/entrhq/bua/pkg/tools/computeruse"
)

func newScreenshotCmd(o *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Capture the viewport as a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withSession(cmd, func(s session) error {
				encoded, err := s.Screenshot()
				if err != nil {
					return fmt.Errorf("screenshot failed: %w", err)
				}
				data, err := base64.StdEncoding.DecodeString(encoded)
				if err != nil {
					return fmt.Errorf("screenshot is not valid base64: %w", err)
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("failed to write screenshot: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved screenshot to %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "screenshot.png", "Output filename")
	return cmd
}

func newDOMCmd(o *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dom",
		Short: "Print the interactive elements of the current page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withSession(cmd, func(s session) error {
				tree, err := s.DOM()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(tree)
				}
				fmt.Fprint(out, dom.Render(tree))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full tree as JSON")
	return cmd
}

func newURLCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the current page URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withSession(cmd, func(s session) error {
				url, err := s.CurrentURL()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
		},
	}
}

func newRunCmd(o *rootOptions) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "run [script.json|-]",
		Short: "Run a script of tool calls and action documents",
		Long: `run reads a JSON script (a single step or an array of steps) from a file or
stdin and executes it in one session. A step is either a tool call

  {"tool": "click", "args": {"x": 100, "y": 200}}

or an action document, which runs through execute_action:

  {"kind": "interaction", "verb": "click", "selectors": [{"strategy": "css", "value": "#submit"}]}`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			data, err := readScript(source, cmd.InOrStdin())
			if err != nil {
				return err
			}
			steps, err := parseScript(data)
			if err != nil {
				return err
			}

			return o.withSession(cmd, func(s session) error {
				return runSteps(cmd, computeruse.NewRegistry(s), steps, keepGoing)
			})
		},
	}

	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue after a failed step")
	return cmd
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools accepted by run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, tool := range computeruse.NewRegistry(nil).List() {
				fmt.Fprintf(w, "%s\t%s\n", tool.Name(), tool.Description())
			}
			return w.Flush()
		},
	}
}

func readScript(source string, stdin io.Reader) ([]byte, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read script from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return data, nil
}

// step is one entry of a run script.
type step struct {
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args"`
}

// parseScript accepts one step or an array of steps. Entries without a tool
// name are action documents.
func parseScript(data []byte) ([]step, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("script is empty")
	}

	var raws []json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("failed to parse script: %w", err)
		}
	} else {
		raws = []json.RawMessage{data}
	}

	steps := make([]step, 0, len(raws))
	for i, raw := range raws {
		var s step
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to parse step %d: %w", i+1, err)
		}
		if s.Tool == "" {
			s = step{Tool: "execute_action", Args: raw}
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// runSteps executes steps in order and prints one line per step. It stops at
// the first failure unless keepGoing is set, in which case the failures are
// joined.
func runSteps(cmd *cobra.Command, registry *tools.Registry, steps []step, keepGoing bool) error {
	out := cmd.OutOrStdout()
	var errs []error
	for i, s := range steps {
		result, _, err := registry.Execute(cmd.Context(), s.Tool, s.Args)
		if err != nil {
			err = fmt.Errorf("step %d (%s): %w", i+1, s.Tool, err)
			if !keepGoing {
				return err
			}
			fmt.Fprintf(out, "%d. %s: FAILED: %v\n", i+1, s.Tool, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(out, "%d. %s: %s\n", i+1, s.Tool, result)
	}
	return errors.Join(errs...)
}
