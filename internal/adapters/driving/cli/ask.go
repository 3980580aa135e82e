package cli

import (
	"context"
	"errors"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested document",
	Long: `Retrieves the most relevant segments from the index and streams
the model's answer to stdout. Ctrl-C cancels the generation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var askConversationID string

func init() {
	askCmd.Flags().StringVar(&askConversationID, "chat-id", "", "Conversation ID for follow-up questions (empty disables memory)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatSvc == nil {
		return errors.New("chat service not configured")
	}

	question := strings.Join(args, " ")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, errs := chatSvc.Answer(ctx, askConversationID, question)

	for token := range tokens {
		cmd.Print(token)
	}
	cmd.Println()

	if err := <-errs; err != nil {
		if errors.Is(err, context.Canceled) {
			cmd.Println("(cancelled)")
			return nil
		}
		return err
	}
	return nil
}
