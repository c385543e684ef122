package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sepri/internal/assistant"
	"sepri/internal/domain"
)

var interactive bool

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask the SEPRI assistant",
	Long: `Send a question to the SEPRI assistant. With --interactive the conversation
continues line by line until an empty line or end of input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if !interactive {
			if len(args) == 0 {
				return fmt.Errorf("a message is required")
			}
			fmt.Fprintln(out, reply(cmd, nil, strings.Join(args, " ")))
			return nil
		}

		var history []domain.ChatMessage
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				break
			}
			message := strings.TrimSpace(scanner.Text())
			if message == "" {
				break
			}

			answer := reply(cmd, history, message)
			fmt.Fprintln(out, answer)
			history = append(history,
				domain.ChatMessage{Role: "user", Text: message},
				domain.ChatMessage{Role: "model", Text: answer},
			)
		}
		return scanner.Err()
	},
}

func reply(cmd *cobra.Command, history []domain.ChatMessage, message string) string {
	answer, err := current.client.Chat(cmd.Context(), history, message)
	if err != nil {
		current.logger.Error("assistant request failed", "error", err)
		return assistant.ErrorReply
	}
	if answer == "" {
		return assistant.EmptyReply
	}
	return answer
}

func init() {
	askCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "keep the conversation going")
	rootCmd.AddCommand(askCmd)
}
