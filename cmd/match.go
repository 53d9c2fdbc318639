package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank stored profiles or postings against a text",
}

var matchCandidatesCmd = &cobra.Command{
	Use:   "candidates <job description>",
	Short: "Find the profiles closest to a job description",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env := setup(cmd.Context())
		defer env.Close()

		topK, _ := cmd.Flags().GetInt("top-k")
		exclude, _ := cmd.Flags().GetString("exclude-owner")

		res, err := env.service.FindCandidates(cmd.Context(), strings.Join(args, " "), topK, exclude)
		if err != nil {
			env.logger.Fatal("matching candidates", zap.Error(err))
		}
		if err := printJSON(res); err != nil {
			env.logger.Fatal("printing result", zap.Error(err))
		}
	},
}

var matchPostingsCmd = &cobra.Command{
	Use:   "postings <profile text>",
	Short: "Find the postings closest to a profile text",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env := setup(cmd.Context())
		defer env.Close()

		topK, _ := cmd.Flags().GetInt("top-k")
		exclude, _ := cmd.Flags().GetString("exclude-owner")

		res, err := env.service.FindPostings(cmd.Context(), strings.Join(args, " "), topK, exclude)
		if err != nil {
			env.logger.Fatal("matching postings", zap.Error(err))
		}
		if err := printJSON(res); err != nil {
			env.logger.Fatal("printing result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.AddCommand(matchCandidatesCmd, matchPostingsCmd)

	matchCmd.PersistentFlags().IntP("top-k", "k", 10, "number of matches to return")
	matchCmd.PersistentFlags().StringP("exclude-owner", "x", "", "skip records owned by this id")
}
