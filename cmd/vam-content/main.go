package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "vam-content",
		Short:         "Generate LinkedIn carousels and posts from pptx templates",
		Long:          "vam-content merges generated or supplied slide content into pptx templates\nand generates LinkedIn posts, content ideas and images.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTemplatesCmd())
	rootCmd.AddCommand(newCarouselCmd())
	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newPostCmd())
	rootCmd.AddCommand(newIdeasCmd())
	rootCmd.AddCommand(newImagesCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
