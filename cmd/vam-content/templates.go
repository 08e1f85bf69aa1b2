package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage presentation templates",
	}
	cmd.AddCommand(newTemplatesListCmd())
	cmd.AddCommand(newTemplatesInitCmd())
	cmd.AddCommand(newTemplatesUploadCmd())
	return cmd
}

func newTemplatesListCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			names := a.registry.ListAvailable()
			return printValue(cmd.OutOrStdout(), output, map[string]any{"templates": names}, func(w io.Writer) error {
				for _, n := range names {
					if _, err := fmt.Fprintln(w, n); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "output format: text, json or yaml")
	return cmd
}

type statusOutput struct {
	Name  string `json:"name" yaml:"name"`
	State string `json:"state" yaml:"state"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newTemplatesInitCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create any missing default templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			statuses, err := a.registry.InitializeDefaults()
			if err != nil {
				return err
			}
			out := make([]statusOutput, 0, len(statuses))
			failed := 0
			for _, s := range statuses {
				so := statusOutput{Name: s.Name, State: s.State.String()}
				if s.Err != nil {
					so.Error = s.Err.Error()
					failed++
				}
				out = append(out, so)
			}
			err = printValue(cmd.OutOrStdout(), output, out, func(w io.Writer) error {
				for _, s := range statuses {
					if _, err := fmt.Fprintln(w, s.String()); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d templates could not be created", failed, len(statuses))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "output format: text, json or yaml")
	return cmd
}

func newTemplatesUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.pptx>",
		Short: "Store a custom template and print its upload id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			id, err := a.registry.SaveUpload(data)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "upload id:\t%s\n", id)
			fmt.Fprintf(tw, "use with:\t--upload %s\n", id)
			return tw.Flush()
		},
	}
}
