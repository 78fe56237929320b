package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/danmuck/chainctl/internal/submitter"
	"github.com/spf13/cobra"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "query <job-id>",
		Short: "Fetch and print a job's results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid job id %q: %w", args[0], err)
			}
			client, err := opts.client()
			if err != nil {
				return err
			}
			res, err := client.Query(cmd.Context(), uint32(id), timeout)
			if err != nil {
				return err
			}
			return submitter.RenderResult(cmd.OutOrStdout(), uint32(id), res)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long the scheduler may wait on an unfinished unit before re-queueing it")
	return cmd
}
