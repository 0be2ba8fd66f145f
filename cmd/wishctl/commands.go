package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/wishpool/internal/adapters/gateway/rest"
	"github.com/vncsmyrnk/wishpool/internal/config"
	"github.com/vncsmyrnk/wishpool/internal/core/board"
	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/services"
)

type options struct {
	server  string
	token   string
	timeout time.Duration
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "wishctl",
		Short:         "Browse and vote on the wish board",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.server, "server", envOr("WISHPOOL_URL", "http://localhost:8080"), "wishpool server URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("WISHPOOL_TOKEN"), "access token")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall command timeout")

	cmd.AddCommand(
		listCmd(opts),
		addCmd(opts),
		voteCmd(opts),
		editCmd(opts),
		deleteCmd(opts),
		tokenCmd(),
	)
	return cmd
}

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wishes, most voted first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, opts, func(b *board.Synchronizer) error { return nil })
		},
	}
}

func addCmd(opts *options) *cobra.Command {
	var desc string
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a wish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, opts, func(b *board.Synchronizer) error {
				_, err := b.Create(args[0], desc)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	return cmd
}

func voteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "vote ID",
		Short: "Vote for a wish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, opts, func(b *board.Synchronizer) error {
				return b.Vote(args[0])
			})
		},
	}
}

func editCmd(opts *options) *cobra.Command {
	var title, desc string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the title or description of a wish you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, opts, func(b *board.Synchronizer) error {
				if err := b.BeginEdit(args[0]); err != nil {
					return err
				}
				draft, _ := b.Edit()
				if cmd.Flags().Changed("title") {
					draft.Title = title
				}
				if cmd.Flags().Changed("desc") {
					draft.Description = desc
				}
				return b.SaveEdit(draft.Title, draft.Description)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	return cmd
}

func deleteCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a wish you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			return withBoard(cmd, opts, func(b *board.Synchronizer) error {
				return b.Delete(args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		name string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token EMAIL",
		Short: "Mint a development access token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := config.Load().JWTSecret
			if secret == "" {
				return errors.New("JWT_SECRET is required")
			}
			user := &domain.User{ID: uuid.New(), Email: strings.ToLower(args[0]), Name: name}
			token, err := services.SignAccessToken([]byte(secret), user, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

// withBoard loads the board, runs op, waits for it to settle and prints the
// result. Any error notice turns into a failed command.
func withBoard(cmd *cobra.Command, opts *options, op func(b *board.Synchronizer) error) error {
	if opts.token == "" {
		return errors.New("an access token is required (--token or WISHPOOL_TOKEN)")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	notifier := &printNotifier{out: cmd.ErrOrStderr()}
	b := board.New(ctx, rest.NewClient(opts.server, opts.token), board.Options{
		Notifier:   notifier,
		StuckAfter: 5 * time.Second,
	})

	if err := b.Load(); err != nil {
		return err
	}
	b.Wait()
	if !b.Loaded() {
		return errors.New("could not load the wish board")
	}

	if err := op(b); err != nil {
		return err
	}
	b.Wait()

	printBoard(cmd.OutOrStdout(), b.View(), b.IsAdmin())
	if notifier.failed {
		return errors.New("the server rejected the change")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
