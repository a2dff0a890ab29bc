package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

var (
	chatFabricID    string
	chatLLM         string
	chatTemperature float64
	chatMaxTokens   int

	feedbackMessageID string
	feedbackRating    string
	feedbackComments  string
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Chat with a knowledge fabric",
	Long: `Sends questions to a Ready fabric and prints grounded answers with
their citations.

With a question argument, asks once and exits. Without one, starts an
interactive session. In the session, /reset clears the conversation and
/quit exits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

var chatFeedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Rate an assistant answer",
	RunE:  runChatFeedback,
}

func init() {
	chatCmd.PersistentFlags().StringVarP(&chatFabricID, "fabric", "f", "", "fabric ID to chat with (required)")
	chatCmd.Flags().StringVar(&chatLLM, "llm", "", "model identifier")
	chatCmd.Flags().Float64Var(&chatTemperature, "temperature", 0, "sampling temperature in [0, 1]")
	chatCmd.Flags().IntVar(&chatMaxTokens, "max-tokens", 0, "generation token budget")

	chatFeedbackCmd.Flags().StringVar(&feedbackMessageID, "message-id", "", "assistant message ID (required)")
	chatFeedbackCmd.Flags().StringVar(&feedbackRating, "rating", "", "\"up\" or \"down\" (required)")
	chatFeedbackCmd.Flags().StringVar(&feedbackComments, "comments", "", "optional comments")

	chatCmd.AddCommand(chatFeedbackCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatSession == nil || registryService == nil {
		return errors.New("chat service not configured")
	}
	if chatFabricID == "" {
		return errors.New("--fabric is required")
	}

	ctx := context.Background()

	// The registry must know the fabric before it can be selected.
	if err := registryService.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load fabrics: %w", err)
	}
	if err := registryService.Select(chatFabricID); err != nil {
		return fmt.Errorf("failed to select fabric: %w", err)
	}

	if chatLLM != "" {
		chatSession.SetLLM(chatLLM)
	} else if configStore != nil {
		if llm := configStore.GetString("chat.default_llm"); llm != "" {
			chatSession.SetLLM(llm)
		}
	}
	if cmd.Flags().Changed("temperature") {
		if err := chatSession.SetTemperature(chatTemperature); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("max-tokens") {
		if err := chatSession.SetMaxTokens(chatMaxTokens); err != nil {
			return err
		}
	}

	if len(args) == 1 {
		return askOnce(ctx, cmd, args[0])
	}
	return chatLoop(ctx, cmd)
}

func askOnce(ctx context.Context, cmd *cobra.Command, question string) error {
	if err := chatSession.Send(ctx, question); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	printLastAnswer(cmd)
	return nil
}

func chatLoop(ctx context.Context, cmd *cobra.Command) error {
	selected := registryService.Selected()
	if selected != nil {
		cmd.Printf("Chatting with %s. /reset clears the conversation, /quit exits.\n\n", selected.Name)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("interactive chat needs a terminal; pass the question as an argument instead")
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		cmd.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			cmd.Println()
			return nil
		}
		input := strings.TrimSpace(line)

		switch input {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			chatSession.Reset()
			cmd.Println("Conversation cleared.")
			continue
		}

		if err := chatSession.Send(ctx, input); err != nil {
			cmd.Printf("Error: %v\n", err)
			continue
		}
		printLastAnswer(cmd)
	}
}

// printLastAnswer prints the newest assistant message with its citations.
func printLastAnswer(cmd *cobra.Command) {
	messages := chatSession.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != domain.RoleAssistant {
			continue
		}
		cmd.Printf("\n%s\n", messages[i].Content)
		if len(messages[i].Sources) > 0 {
			cmd.Println("\nSources:")
			for _, c := range messages[i].Sources {
				cmd.Printf("  [%s] %s\n", c.ID, c.Title)
				if c.Link != "" {
					cmd.Printf("      %s\n", c.Link)
				}
			}
		}
		cmd.Printf("\n(message %s; rate with 'fabricctl chat feedback')\n\n", messages[i].ID)
		return
	}
}

func runChatFeedback(cmd *cobra.Command, _ []string) error {
	if chatSession == nil {
		return errors.New("chat service not configured")
	}
	if feedbackMessageID == "" {
		return errors.New("--message-id is required")
	}

	fb := domain.Feedback{
		MessageID:      feedbackMessageID,
		FabricID:       chatFabricID,
		LLMID:          chatSession.LLM(),
		Rating:         domain.Rating(feedbackRating),
		Comments:       feedbackComments,
		ConversationID: chatSession.ConversationID(),
		Timestamp:      time.Now().UTC(),
	}

	if err := chatSession.SubmitFeedback(context.Background(), fb); err != nil {
		return fmt.Errorf("failed to submit feedback: %w", err)
	}

	cmd.Println("Feedback recorded. Thank you!")
	return nil
}
