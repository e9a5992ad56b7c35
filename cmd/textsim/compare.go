package main

import (
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/textsim-go/internal/apptype"
)

var (
	compareTaskType          string
	compareIncludeEmbeddings bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <text1> <text2> <text3>",
	Short: "Compare three texts once and print the result as JSON",
	Example: `  textsim compare "The cat sat on the mat" "A kitten rested on the rug" "Rockets reach orbit"
  textsim compare --provider ollama --model nomic-embed-text a b c`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		c, err := svc.Compare(ctx, args, compareTaskType)
		if err != nil {
			return err
		}
		if !compareIncludeEmbeddings {
			c.Embeddings = nil
		}
		return printJSON(cmd.OutOrStdout(), c)
	},
}

var (
	historyLimit             int
	historyOffset            int
	historyIncludeEmbeddings bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored comparisons, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, err := newService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		list, err := svc.List(ctx, historyLimit, historyOffset)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), struct {
			Comparisons []apptype.ComparisonSummary `json:"comparisons"`
		}{list})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one stored comparison",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		c, err := svc.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if !historyIncludeEmbeddings {
			c.Embeddings = nil
		}
		return printJSON(cmd.OutOrStdout(), c)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one stored comparison",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newService(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()
		return svc.Delete(ctx, args[0])
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareTaskType, "task-type", "", "Task type hint (default from EMBEDDINGS_TASK_TYPE)")
	compareCmd.Flags().BoolVar(&compareIncludeEmbeddings, "include-embeddings", false, "Include raw vectors in the output")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of comparisons (max 100)")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "Number of comparisons to skip")
	historyShowCmd.Flags().BoolVar(&historyIncludeEmbeddings, "include-embeddings", false, "Include raw vectors in the output")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}
