package main

import (
	"fmt"
	"net/http"
	"strconv"

	"hepflow/internal/workflows"

	"github.com/spf13/cobra"
)

var resolveFlags struct {
	approve bool
	reject  bool
	core    bool
	reason  string
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <object-id>",
	Short: "Record a curator decision for a halted object",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	f := resolveCmd.Flags()
	f.BoolVar(&resolveFlags.approve, "approve", false, "Accept the record")
	f.BoolVar(&resolveFlags.reject, "reject", false, "Reject the record")
	f.BoolVar(&resolveFlags.core, "core", false, "Mark the record CORE (only with --approve)")
	f.StringVar(&resolveFlags.reason, "reason", "", "Rejection reason")
}

func runResolve(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid object id %q", args[0])
	}
	if resolveFlags.approve == resolveFlags.reject {
		return fmt.Errorf("exactly one of --approve or --reject is required")
	}

	res := workflows.Resolution{Approved: resolveFlags.approve, Reason: resolveFlags.reason}
	if cmd.Flags().Changed("core") {
		core := resolveFlags.core
		res.Core = &core
	}

	var resp struct {
		ObjectID int64 `json:"object_id"`
		Approved bool  `json:"approved"`
	}
	path := fmt.Sprintf("/holdingpen/%d/resolve", id)
	if err := callAPI(cmd.Context(), http.MethodPost, path, res, &resp); err != nil {
		return err
	}
	verdict := "rejected"
	if resp.Approved {
		verdict = "approved"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "object #%d %s\n", resp.ObjectID, verdict)
	return nil
}
