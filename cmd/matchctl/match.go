package main

import (
	"time"

	"talent-bridge/internal/delivery/http/dto"

	"github.com/spf13/cobra"
)

const matchTimeout = 2 * time.Minute

func newRunCmd(c *cli) *cobra.Command {
	var projectID, requestedBy int64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a match for a project and print the ranked candidates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd, matchTimeout)
			defer cancel()

			uc, cleanup, err := c.matching(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			run, results, err := uc.RunMatch(ctx, projectID, requestedBy)
			if err != nil {
				return err
			}
			c.log.Info("match run completed", map[string]interface{}{
				"match_id":   run.ID,
				"project_id": run.ProjectID,
				"candidates": len(results),
			})
			return printJSON(cmd.OutOrStdout(), dto.NewMatchDetailResponse(run, results))
		},
	}

	cmd.Flags().Int64VarP(&projectID, "project", "p", 0, "project id to match (required)")
	cmd.Flags().Int64Var(&requestedBy, "requested-by", 0, "user id recorded as the requester (required)")
	requireFlags(cmd, "project", "requested-by")
	return cmd
}

func newScoreCmd(c *cli) *cobra.Command {
	var projectID, userID int64

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single employee against a project without recording a run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd, matchTimeout)
			defer cancel()

			uc, cleanup, err := c.matching(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := uc.ScoreCandidate(ctx, userID, projectID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.NewMatchResultResponse(res))
		},
	}

	cmd.Flags().Int64VarP(&projectID, "project", "p", 0, "project id (required)")
	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "employee user id (required)")
	requireFlags(cmd, "project", "user")
	return cmd
}

func newShowCmd(c *cli) *cobra.Command {
	var matchID, projectID int64
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a recorded match run, or list the runs of a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (matchID == 0) == (projectID == 0) {
				return errExactlyOne("match", "project")
			}

			ctx, cancel := commandContext(cmd, matchTimeout)
			defer cancel()

			uc, cleanup, err := c.matching(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if matchID != 0 {
				run, results, err := uc.GetMatch(ctx, matchID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.NewMatchDetailResponse(run, results))
			}

			runs, err := uc.ListProjectMatches(ctx, projectID, limit, offset)
			if err != nil {
				return err
			}
			out := make([]dto.MatchRunResponse, 0, len(runs))
			for _, r := range runs {
				out = append(out, dto.NewMatchRunResponse(r))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().Int64VarP(&matchID, "match", "m", 0, "match id to show")
	cmd.Flags().Int64VarP(&projectID, "project", "p", 0, "list runs of this project instead")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size when listing")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset when listing")
	return cmd
}
