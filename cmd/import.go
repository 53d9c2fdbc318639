package cmd

import (
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/seed"
	"github.com/spigell/hh-matcher/internal/workflow"
)

var importCmd = &cobra.Command{
	Use:   "import [glob...]",
	Short: "Import profiles and postings from YAML seed files",
	Long: "Import profiles and postings from YAML seed files. Patterns support ** and default to " +
		seed.DefaultPattern + ". Imported data only outlives the command with the bolt or mysql store.",
	Run: func(cmd *cobra.Command, args []string) {
		env := setup(cmd.Context())
		defer env.Close()

		if env.config.Store.Backend == backendMemory {
			env.logger.Warn("importing into the memory store, records are dropped on exit")
		}

		im := &seed.Importer{
			Target: env.service,
			NewProgress: func(total int) seed.Progress {
				return progressbar.Default(int64(total), "importing")
			},
			Logger: env.logger,
		}

		orch := workflow.NewOrchestrator(env.logger)
		id := orch.Create("import", im.Steps(args))

		exec, err := orch.Execute(cmd.Context(), id, args)
		if printErr := printJSON(exec); printErr != nil {
			env.logger.Error("printing execution", zap.Error(printErr))
		}
		if err != nil {
			env.logger.Fatal("import failed", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
