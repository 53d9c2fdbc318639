package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Print aggregate statistics over a collection",
}

var insightsProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Talent pool statistics",
	Run: func(cmd *cobra.Command, _ []string) {
		env := setup(cmd.Context())
		defer env.Close()

		snap, err := env.service.GetProfileInsights(cmd.Context())
		if err != nil {
			env.logger.Fatal("computing profile insights", zap.Error(err))
		}
		if err := printJSON(snap); err != nil {
			env.logger.Fatal("printing result", zap.Error(err))
		}
	},
}

var insightsPostingsCmd = &cobra.Command{
	Use:   "postings",
	Short: "Job market statistics",
	Run: func(cmd *cobra.Command, _ []string) {
		env := setup(cmd.Context())
		defer env.Close()

		snap, err := env.service.GetPostingInsights(cmd.Context())
		if err != nil {
			env.logger.Fatal("computing posting insights", zap.Error(err))
		}
		if err := printJSON(snap); err != nil {
			env.logger.Fatal("printing result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.AddCommand(insightsProfilesCmd, insightsPostingsCmd)
}
