package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/secure"
)

var (
	chatActor string
	chatCaps  []string
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one message to the assistant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		actor := secure.Actor{
			ID:           chatActor,
			SessionValid: chatActor != "",
			Capabilities: chatCaps,
		}

		resp, err := e.Dispatcher.Handle(ctx, model.AIRequest{Message: args[0]}, actor)
		if err != nil {
			return err
		}

		fmt.Println(resp.Content)
		for _, a := range resp.Actions {
			fmt.Printf("  [%s] %s\n", a.Type, a.Description)
		}
		if len(resp.Suggestions) > 0 {
			fmt.Println("\nYou could also ask:")
			for _, s := range resp.Suggestions {
				fmt.Printf("  - %s\n", s)
			}
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatActor, "actor", "cli", "actor id recorded in the audit log")
	chatCmd.Flags().StringSliceVar(&chatCaps, "cap", []string{
		secure.CapEmployeesUpdate,
		secure.CapTrainingsCreate,
		secure.CapTrainingsEnroll,
		secure.CapCertificatesCreate,
		secure.CapCertificatesUpdate,
	}, "capabilities granted to the actor")
	rootCmd.AddCommand(chatCmd)
}
