package main

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/traincore/certassist/internal/model"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file> [file...]",
	Short: "Extract certificate fields from one or more documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		reqs := make([]model.ExtractionRequest, 0, len(args))
		for _, path := range args {
			req := model.ExtractionRequest{
				DocumentID: uuid.New().String(),
				MimeType:   mimeFromPath(path),
				BlobPath:   path,
			}
			if err := e.Store.CreateExtraction(ctx, req); err != nil {
				return err
			}
			reqs = append(reqs, req)
		}

		var results []*model.ExtractionResult
		if len(reqs) == 1 {
			res, err := e.Pipeline.Process(ctx, reqs[0])
			if err != nil {
				zap.L().Warn("extraction failed", zap.Error(err))
			}
			results = append(results, res)
		} else {
			results = e.Pipeline.ProcessBatch(ctx, reqs)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
