package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"comex/internal/csvexport"
	"comex/internal/repository/postgres"
)

const exportBatchSize = 500

func newExportCmd() *cobra.Command {
	var docType, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export validation findings of stored documents as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseTypeFlag(docType)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.connectDB(); err != nil {
				return err
			}
			repo := postgres.NewDocumentRepo(a.db)

			if outPath == "" {
				outPath = csvexport.BuildFilename(string(t), time.Now())
			}
			var dst io.Writer = cmd.OutOrStdout()
			if outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer func() { _ = f.Close() }()
				dst = f
			}

			if _, err := dst.Write(csvexport.BOM); err != nil {
				return err
			}
			w := csvexport.NewWriter(dst)
			if err := w.WriteHeader(); err != nil {
				return err
			}
			written := 0
			for offset := 0; ; offset += exportBatchSize {
				docs, _, err := repo.ListByType(cmd.Context(), t, offset, exportBatchSize)
				if err != nil {
					return err
				}
				if err := w.WriteDocuments(docs); err != nil {
					return err
				}
				written += len(docs)
				if len(docs) < exportBatchSize {
					break
				}
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d %s documents to %s\n", written, t, outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&docType, "type", "", "document type tag")
	cmd.Flags().StringVar(&outPath, "out", "", "output file, - for stdout (default: <type>_<date>.csv)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
