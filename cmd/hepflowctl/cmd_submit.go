package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"hepflow/internal/holdingpen"
	"hepflow/internal/models"

	"github.com/spf13/cobra"
)

var submitFlags struct {
	file       string
	references string
	pdfURL     string
	user       int64
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a record to the holdingpen and start its workflow",
	RunE:  runSubmit,
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitFlags.file, "file", "", "Record JSON file")
	f.StringVar(&submitFlags.references, "references-file", "", "Optional text file with raw references")
	f.StringVar(&submitFlags.pdfURL, "pdf-url", "", "Optional URL of the submission full text")
	f.Int64Var(&submitFlags.user, "user", 0, "Submitting user id")

	_ = submitCmd.MarkFlagRequired("file")
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(submitFlags.file)
	if err != nil {
		return fmt.Errorf("read record: %w", err)
	}
	var rec models.HEPRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("parse record: %w", err)
	}

	req := struct {
		Data          models.HEPRecord     `json:"data"`
		Formdata      *holdingpen.Formdata `json:"formdata,omitempty"`
		SubmissionPDF string               `json:"submission_pdf,omitempty"`
		UserID        *int64               `json:"user_id,omitempty"`
	}{Data: rec, SubmissionPDF: submitFlags.pdfURL}
	if submitFlags.references != "" {
		refs, err := os.ReadFile(submitFlags.references)
		if err != nil {
			return fmt.Errorf("read references: %w", err)
		}
		req.Formdata = &holdingpen.Formdata{References: string(refs)}
	}
	if submitFlags.user > 0 {
		req.UserID = &submitFlags.user
	}

	var resp struct {
		ObjectID   int64  `json:"object_id"`
		WorkflowID string `json:"workflow_id"`
		RunID      string `json:"run_id"`
	}
	if err := callAPI(cmd.Context(), http.MethodPost, "/holdingpen", req, &resp); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "object #%d submitted, workflow %s run %s\n", resp.ObjectID, resp.WorkflowID, resp.RunID)
	return nil
}
