package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"comex/internal/domain"
)

func newRevalidateCmd() *cobra.Command {
	var docType string
	cmd := &cobra.Command{
		Use:   "revalidate",
		Short: "Re-run the validator over stored documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			types := domain.AllDocumentTypes
			if docType != "" {
				t, err := parseTypeFlag(docType)
				if err != nil {
					return err
				}
				types = []domain.DocumentType{t}
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			svc, _, err := a.service(cmd.Context(), true)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, t := range types {
				summary, err := svc.Revalidate(cmd.Context(), t)
				if err != nil {
					return err
				}
				if err := enc.Encode(map[string]any{"document_type": t, "summary": summary}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&docType, "type", "", "document type tag (default: every type)")
	return cmd
}
