package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/llmkit/llmstream/internal/model"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List model families with known embedding dimensions",
	Run: func(cmd *cobra.Command, _ []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MODEL\tDIMENSION")
		for _, name := range model.Known() {
			dim, _ := model.EmbeddingDimension(name)
			fmt.Fprintf(w, "%s\t%d\n", name, dim)
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
