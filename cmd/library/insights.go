package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FatjonaGashi/library-management-system/assistant"
	"github.com/FatjonaGashi/library-management-system/engine"
)

// ownShelfNotice follows the fallback disclosure when local recommendations
// can only see the viewer's own books.
const ownShelfNotice = "Only your own shelf is available locally, so other readers' books cannot be recommended."

var errNoCredential = errors.New("no credential")

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize the viewer's reading habits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}

		insights, _ := serverFirst(ctx, cmd.ErrOrStderr(), useRemote(cmd), sess.token,
			func(ctx context.Context) ([]string, error) { return sess.client.Insights(ctx, sess.token) },
			func() []string { return engine.GenerateInsights(sess.books, sess.viewer.ID) },
		)

		return emit(cmd, func(w io.Writer) error { return writeLines(w, format, insights) })
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest books from other shelves in the viewer's favorite genre",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}

		recs, path := serverFirst(ctx, cmd.ErrOrStderr(), useRemote(cmd), sess.token,
			func(ctx context.Context) ([]engine.Recommendation, error) {
				return sess.client.Recommendations(ctx, sess.token)
			},
			func() []engine.Recommendation { return engine.GenerateRecommendations(sess.books, sess.viewer.ID) },
		)
		if needsOwnShelfNotice(path, sess.ownShelfOnly) {
			fmt.Fprintln(cmd.ErrOrStderr(), ownShelfNotice)
		}

		return emit(cmd, func(w io.Writer) error { return writeRecommendations(w, format, recs) })
	},
}

// needsOwnShelfNotice reports whether a local fallback ran over a snapshot
// that holds only the viewer's own books.
func needsOwnShelfNotice(path assistant.Path, ownShelfOnly bool) bool {
	return ownShelfOnly && (path == assistant.PathFallbackRemoteFailed || path == assistant.PathFallbackUnauthenticated)
}

// serverFirst fetches from the server when remoteOn, and computes locally
// otherwise or when the server cannot answer. A fallback writes the same
// one-line disclosure the assistant prefixes to text answers to notice.
func serverFirst[T any](
	ctx context.Context,
	notice io.Writer,
	remoteOn bool,
	token string,
	fetch func(context.Context) (T, error),
	local func() T,
) (T, assistant.Path) {
	if !remoteOn {
		return local(), assistant.PathLocal
	}

	if token == "" {
		logger.Warn("server answer skipped, computing locally", zap.Error(errNoCredential))
		fmt.Fprintln(notice, strings.TrimSpace(assistant.UnauthenticatedPrefix))
		return local(), assistant.PathFallbackUnauthenticated
	}

	out, err := fetch(ctx)
	if err != nil {
		logger.Warn("server answer failed, computing locally", zap.Error(err))
		fmt.Fprintln(notice, strings.TrimSpace(assistant.RemoteFailedPrefix))
		return local(), assistant.PathFallbackRemoteFailed
	}
	return out, assistant.PathRemote
}
