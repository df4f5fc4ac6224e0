package main

import (
	"fmt"
	"net/http"
	"net/url"

	"hepflow/internal/holdingpen"
	"hepflow/internal/util"

	"github.com/spf13/cobra"
)

var listFlags struct {
	status string
	limit  int
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List holdingpen objects, newest first",
	RunE:  runList,
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listFlags.status, "status", "", "Filter by status (running, halted, completed, error)")
	f.IntVar(&listFlags.limit, "limit", 0, "Maximum number of objects")
}

func runList(cmd *cobra.Command, _ []string) error {
	q := url.Values{}
	if listFlags.status != "" {
		q.Set("status", listFlags.status)
	}
	if listFlags.limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", listFlags.limit))
	}
	path := "/holdingpen"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var resp struct {
		Objects []holdingpen.Object `json:"objects"`
	}
	if err := callAPI(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(resp.Objects) == 0 {
		fmt.Fprintln(out, "no holdingpen objects")
		return nil
	}
	for _, obj := range resp.Objects {
		title := ""
		if len(obj.Data.Titles) > 0 {
			title = util.Snippet(obj.Data.Titles[0].Title, 70)
		}
		fmt.Fprintf(out, "#%-6d %-10s %s\n", obj.ID, obj.Status, title)
	}
	return nil
}
