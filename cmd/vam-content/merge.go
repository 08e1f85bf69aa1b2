package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vamg1994/content-creation-vam/internal/content"
	"github.com/vamg1994/content-creation-vam/internal/deck"
)

// templateFlags binds the flags that select a template.
func templateFlags(cmd *cobra.Command, ref *content.TemplateRef) {
	cmd.Flags().StringVarP(&ref.Name, "template", "t", "", "template name (default: first available)")
	cmd.Flags().StringVar(&ref.UploadID, "upload", "", "id of an uploaded template")
	cmd.Flags().StringVar(&ref.Path, "template-file", "", "path to a local .pptx template")
	cmd.MarkFlagsMutuallyExclusive("template", "upload", "template-file")
}

// readRecords loads slide records from a JSON or YAML file. Both a bare list
// and an object with a "slides" key are accepted.
func readRecords(path string) ([]deck.SlideRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		Slides []deck.SlideRecord `json:"slides" yaml:"slides"`
	}
	var list []deck.SlideRecord

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &list); err == nil {
			return list, nil
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &list); err == nil {
			return list, nil
		}
		if err := yaml.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return wrapped.Slides, nil
}

func newMergeCmd() *cobra.Command {
	var (
		req content.MergeRequest
		out string
	)
	cmd := &cobra.Command{
		Use:   "merge <slides.yaml|slides.json>",
		Short: "Merge slide records into a template without generating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			req.Records, err = readRecords(args[0])
			if err != nil {
				return err
			}
			d, err := a.service.Merge(ctx, req)
			if err != nil {
				return err
			}
			return writeDeck(cmd, d, out)
		},
	}
	templateFlags(cmd, &req.TemplateRef)
	cmd.Flags().StringVar(&req.Topic, "topic", "", "topic used for the output file name")
	cmd.Flags().StringVarP(&out, "out", "O", "", "output path, or - for stdout (default: <topic>_presentation.pptx)")
	return cmd
}

// writeDeck writes a merged deck and reports where it went on stderr.
func writeDeck(cmd *cobra.Command, d *content.Deck, out string) error {
	if out == "" {
		out = d.Filename
	}
	if err := writeOutput(cmd.OutOrStdout(), out, d.Data); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d slides, template %s)\n", out, len(d.Records), d.Template)
	}
	if len(d.Unresolved) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d placeholders had no content: %v\n", len(d.Unresolved), d.Unresolved)
	}
	if len(d.Unused) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d slides had no placeholder in the template\n", len(d.Unused))
	}
	return nil
}
