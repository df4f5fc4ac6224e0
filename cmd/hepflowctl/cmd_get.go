package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"hepflow/internal/holdingpen"
	"hepflow/internal/util"

	"github.com/spf13/cobra"
)

var getFlags struct {
	out string
}

var getCmd = &cobra.Command{
	Use:   "get <object-id>",
	Short: "Fetch one holdingpen object",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().StringVar(&getFlags.out, "out", "", "Write the object JSON to this file instead of stdout")
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid object id %q", args[0])
	}

	var obj holdingpen.Object
	if err := callAPI(cmd.Context(), http.MethodGet, fmt.Sprintf("/holdingpen/%d", id), nil, &obj); err != nil {
		return err
	}

	if getFlags.out != "" {
		if err := util.WriteJSONAtomic(getFlags.out, obj); err != nil {
			return fmt.Errorf("write object: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "object #%d written to %s\n", obj.ID, getFlags.out)
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(obj)
}
