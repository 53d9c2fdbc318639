package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/service"
	"github.com/spigell/hh-matcher/internal/talent"
)

const promptExit = "exit"

var rolePrompt = promptui.Select{
	Label: "Who are you?",
	Items: []string{string(talent.RoleSeeker), string(talent.RolePoster)},
}

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask questions about matches and the market interactively",
	Run: func(cmd *cobra.Command, _ []string) {
		ask(cmd)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringP("owner", "o", "", "your owner id, used to find your profile or postings")
	askCmd.Flags().StringP("role", "r", "", "seeker or poster; asked interactively when unset")
}

func ask(cmd *cobra.Command) {
	ctx := cmd.Context()

	env := setup(ctx)
	defer env.Close()

	owner, _ := cmd.Flags().GetString("owner")
	role, _ := cmd.Flags().GetString("role")
	if role == "" {
		var err error
		_, role, err = rolePrompt.Run()
		if err != nil {
			env.logger.Fatal("selecting a role", zap.Error(err))
		}
	}

	question := promptui.Prompt{
		Label: fmt.Sprintf("Ask (%q to quit)", promptExit),
	}

	for {
		text, err := question.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return
		}
		if err != nil {
			env.logger.Fatal("reading a question", zap.Error(err))
		}

		text = strings.TrimSpace(text)
		if text == promptExit {
			return
		}
		if text == "" {
			continue
		}

		reply, err := env.service.RouteQuery(ctx, service.Query{OwnerID: owner, Role: role, Text: text})
		if err != nil {
			var inputErr *service.InputError
			if errors.As(err, &inputErr) {
				fmt.Println(inputErr.Error())
				continue
			}
			env.logger.Error("answering a question", zap.Error(err))
			continue
		}

		fmt.Printf("\n%s\n", reply.Narrative)
		for _, s := range reply.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
		fmt.Println()
	}
}
