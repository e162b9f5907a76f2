package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"comex/internal/port"
	"comex/internal/service"
)

func newReassembleCmd() *cobra.Command {
	var (
		docType, hash string
		save, force   bool
	)
	cmd := &cobra.Command{
		Use:   "reassemble",
		Short: "Rebuild a stored record from its archived raw step outputs",
		Long: "Fetches the raw step outputs archived under the content hash, runs them through the " +
			"combiner and validator again and prints the outcome. With --save the stored row is replaced.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseTypeFlag(docType)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			svc, _, err := a.service(ctx, true)
			if err != nil {
				return err
			}
			out, err := svc.Reassemble(ctx, t, hash, port.ProcessOptions{ValidateData: a.cfg.Processing.ValidateData})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			if !out.Success {
				return errors.New(out.Error)
			}
			if !save {
				return nil
			}
			doc, err := svc.Save(ctx, &service.SaveInput{Outcome: out, ContentHash: hash, Force: force})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "replaced %s %s (%s)\n", doc.DocumentType, doc.ID, doc.ValidationStatus)
			return nil
		},
	}
	cmd.Flags().StringVar(&docType, "type", "", "document type tag")
	cmd.Flags().StringVar(&hash, "hash", "", "content hash the steps were archived under")
	cmd.Flags().BoolVar(&save, "save", false, "replace the stored record")
	cmd.Flags().BoolVar(&force, "force", false, "save even when validation fails")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("hash")
	return cmd
}
