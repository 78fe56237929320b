package main

import (
	"fmt"

	"github.com/danmuck/chainctl/internal/submitter"
	"github.com/spf13/cobra"
)

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	var req submitter.Request
	cmd := &cobra.Command{
		Use:   "submit -n <operands> -c <chain> [-i iterations]",
		Short: "Submit a job and print its id",
		Example: `  submitctl submit -n 7 -c "6-,|8,=>>4"
  submitctl submit -n 1-4 -c "+3,-4,^6"
  submitctl submit -n 1,4,7 -c "+1,+2,-3,&37" -i 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			id, err := client.Submit(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Job ID recv'd: %d\n", id)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&req.Operands, "operands", "n", "", "comma-separated operands; N or LO-HI")
	flags.StringVarP(&req.Chain, "chain", "c", "", "comma-separated op chain, e.g. \"+3,6-,~,=>>4\"")
	flags.Uint32VarP(&req.Iterations, "iterations", "i", 1, "times the chain is applied to each item")
	_ = cmd.MarkFlagRequired("operands")
	_ = cmd.MarkFlagRequired("chain")
	return cmd
}
