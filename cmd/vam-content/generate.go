package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vamg1994/content-creation-vam/internal/content"
	"github.com/vamg1994/content-creation-vam/internal/llm"
)

func languageFlag(cmd *cobra.Command, l *llm.Language) {
	var names []string
	for _, lang := range llm.Languages {
		names = append(names, string(lang))
	}
	cmd.Flags().StringVarP((*string)(l), "language", "l", string(llm.English), "content language: "+strings.Join(names, ", "))
}

func newCarouselCmd() *cobra.Command {
	var (
		req content.CarouselRequest
		out string
	)
	cmd := &cobra.Command{
		Use:   "carousel <topic>",
		Short: "Generate a LinkedIn carousel presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.requireGeneration(); err != nil {
				return err
			}
			req.Topic = args[0]
			d, err := a.service.Carousel(ctx, req)
			if err != nil {
				return err
			}
			return writeDeck(cmd, d, out)
		},
	}
	var types []string
	for _, t := range llm.CarouselTypes {
		types = append(types, string(t))
	}
	templateFlags(cmd, &req.TemplateRef)
	languageFlag(cmd, &req.Language)
	authorFlags(cmd, &req.Author)
	cmd.Flags().IntVarP(&req.Slides, "slides", "n", 0, "number of content slides (default: derived from the template)")
	cmd.Flags().StringVar((*string)(&req.Type), "type", string(llm.BulletPoints), "carousel type: "+strings.Join(types, ", "))
	cmd.Flags().StringVarP(&out, "out", "O", "", "output path, or - for stdout (default: <topic>_presentation.pptx)")
	return cmd
}

func newPostCmd() *cobra.Command {
	var (
		req             llm.PostRequest
		out             string
		inspirationFile string
	)
	cmd := &cobra.Command{
		Use:   "post <topic>",
		Short: "Generate a LinkedIn post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.requireGeneration(); err != nil {
				return err
			}
			req.Topic = args[0]
			if inspirationFile != "" {
				if req.Inspiration, err = readFileString(inspirationFile); err != nil {
					return err
				}
			}
			post, err := a.service.Post(ctx, req)
			if err != nil {
				return err
			}
			return writeText(cmd.OutOrStdout(), out, post)
		},
	}
	languageFlag(cmd, &req.Language)
	authorFlags(cmd, &req.Author)
	cmd.Flags().StringVar(&req.Inspiration, "inspiration", "", "an existing post whose tone to follow")
	cmd.Flags().StringVar(&inspirationFile, "inspiration-file", "", "read the inspiration post from a file")
	cmd.Flags().StringVarP(&out, "out", "O", "", "write the post to a file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("inspiration", "inspiration-file")
	return cmd
}

func newIdeasCmd() *cobra.Command {
	var (
		req llm.IdeasRequest
		out string
	)
	cmd := &cobra.Command{
		Use:   "ideas <topic>",
		Short: "Generate content ideas for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.requireGeneration(); err != nil {
				return err
			}
			req.Topic = args[0]
			ideas, err := a.service.Ideas(ctx, req)
			if err != nil {
				return err
			}
			return writeText(cmd.OutOrStdout(), out, ideas)
		},
	}
	languageFlag(cmd, &req.Language)
	authorFlags(cmd, &req.Author)
	cmd.Flags().StringVarP(&out, "out", "O", "", "write the ideas to a file instead of stdout")
	return cmd
}

func newImagesCmd() *cobra.Command {
	var (
		req    llm.ImagesRequest
		output string
	)
	cmd := &cobra.Command{
		Use:   "images <topic>",
		Short: "Generate captioned images for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.requireGeneration(); err != nil {
				return err
			}
			req.Topic = args[0]
			images, err := a.service.Images(ctx, req)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), output, images, func(w io.Writer) error {
				for i, img := range images {
					if _, err := fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, img.Caption, img.URL); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&req.Count, "count", "c", llm.DefaultImageCount, fmt.Sprintf("number of images (max %d)", llm.MaxImageCount))
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "output format: text, json or yaml")
	return cmd
}
