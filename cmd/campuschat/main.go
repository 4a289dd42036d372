package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"CampusChat/internal/chatbot"
	"CampusChat/internal/config"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath     string
	endpoint       string
	userID         int
	logDir         string
	transcriptDB   string
	markdown       bool
	debug          bool
	requestTimeout time.Duration
}

// load merges the config file with any flags the user actually set.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = o.endpoint
	}
	if flags.Changed("user-id") {
		cfg.UserID = o.userID
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = o.logDir
	}
	if flags.Changed("transcript-db") {
		cfg.TranscriptDB = o.transcriptDB
	}
	if flags.Changed("markdown") {
		cfg.Markdown = o.markdown
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	if flags.Changed("request-timeout") {
		cfg.RequestTimeout = o.requestTimeout
	}
	return cfg, nil
}

func (o *rootOptions) bot(cmd *cobra.Command) (*chatbot.ChatBot, error) {
	cfg, err := o.load(cmd)
	if err != nil {
		return nil, err
	}
	return chatbot.NewChatBot(cmd.Context(), cfg)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "campuschat",
		Short:         "Terminal chat client for the campus assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bot, err := opts.bot(cmd)
			if err != nil {
				return err
			}
			defer bot.Close()
			return bot.Run(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.endpoint, "endpoint", config.DefaultEndpoint, "Base URL of the chat service")
	flags.IntVar(&opts.userID, "user-id", config.DefaultUserID, "User identifier sent with each message")
	flags.StringVar(&opts.logDir, "log-dir", config.DefaultLogDir, "Directory for logs, traces and metrics")
	flags.StringVar(&opts.transcriptDB, "transcript-db", "", "Archive messages to this SQLite file")
	flags.BoolVar(&opts.markdown, "markdown", false, "Render assistant replies as markdown")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.DurationVar(&opts.requestTimeout, "request-timeout", 0, "Give up on a reply after this long (0 waits for the transport)")

	root.AddCommand(newHistoryCmd(opts), newFeedbackCmd(opts))
	return root
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <conversation-id>",
		Short: "Print a conversation stored by the chat service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid conversation id %q: %w", args[0], err)
			}

			bot, err := opts.bot(cmd)
			if err != nil {
				return err
			}
			defer bot.Close()

			conv, err := bot.Client().Conversation(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Conversation #%d\n", conv.ConversationID)
			for _, msg := range conv.Messages {
				who := "Bot"
				if msg.IsUser {
					who = "You"
				}
				fmt.Fprintf(out, "[%d] %s %s: %s\n", msg.ID, msg.Timestamp, who, msg.Content)
			}
			return nil
		},
	}
}

func newFeedbackCmd(opts *rootOptions) *cobra.Command {
	var rating int
	var comment string

	cmd := &cobra.Command{
		Use:   "feedback <message-id>",
		Short: "Rate a stored assistant message from 1 to 5",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid message id %q: %w", args[0], err)
			}

			bot, err := opts.bot(cmd)
			if err != nil {
				return err
			}
			defer bot.Close()

			resp, err := bot.Client().SubmitFeedback(cmd.Context(), id, rating, comment)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", resp.Status, resp.Message)
			return nil
		},
	}

	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional comment")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
