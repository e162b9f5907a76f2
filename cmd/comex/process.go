package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"comex/internal/port"
	"comex/internal/service"
)

type processFlags struct {
	docType    string
	steps      []string
	file       string
	save       bool
	hash       string
	force      bool
	noValidate bool
	withNCM    bool
}

func newProcessCmd() *cobra.Command {
	var f processFlags
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Combine and validate step outputs, or extract a source file",
		Long: "Reads raw step outputs (one JSON file per step, in ordinal order) or a source file, " +
			"prints the processing outcome as JSON and optionally saves the record.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProcess(cmd, &f)
		},
	}
	cmd.Flags().StringVar(&f.docType, "type", "", "document type tag")
	cmd.Flags().StringArrayVar(&f.steps, "step", nil, "raw step output file, repeated in ordinal order")
	cmd.Flags().StringVar(&f.file, "file", "", "source document to send through the extractor")
	cmd.Flags().BoolVar(&f.save, "save", false, "persist the record")
	cmd.Flags().StringVar(&f.hash, "hash", "", "content hash for idempotent saves (default: sha256 of the inputs)")
	cmd.Flags().BoolVar(&f.force, "force", false, "save even when validation fails")
	cmd.Flags().BoolVar(&f.noValidate, "no-validate", false, "skip the type validator")
	cmd.Flags().BoolVar(&f.withNCM, "ncm", false, "load the NCM table from the database for tariff checks")
	_ = cmd.MarkFlagRequired("type")
	cmd.MarkFlagsMutuallyExclusive("step", "file")
	cmd.MarkFlagsOneRequired("step", "file")
	return cmd
}

func runProcess(cmd *cobra.Command, f *processFlags) error {
	docType, err := parseTypeFlag(f.docType)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if f.withNCM {
		if err := a.connectDB(); err != nil {
			return err
		}
	}
	svc, _, err := a.service(ctx, f.save)
	if err != nil {
		return err
	}

	opts := port.ProcessOptions{ValidateData: a.cfg.Processing.ValidateData && !f.noValidate}
	digest := sha256.New()

	var out *port.ProcessingOutcome
	if f.file != "" {
		content, err := os.ReadFile(f.file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.file, err)
		}
		digest.Write(content)
		out, err = svc.ProcessFile(ctx, docType, port.FileInput{
			Name:    filepath.Base(f.file),
			Size:    int64(len(content)),
			Content: content,
		}, opts)
		if err != nil {
			return err
		}
	} else {
		outputs := make([]port.StepOutput, 0, len(f.steps))
		for i, path := range f.steps {
			payload, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading step %d: %w", i+1, err)
			}
			if !json.Valid(payload) {
				return fmt.Errorf("step %d (%s) is not valid JSON", i+1, path)
			}
			digest.Write(payload)
			outputs = append(outputs, port.StepOutput{Ordinal: i + 1, Payload: payload})
		}
		out, err = svc.ProcessRaw(ctx, docType, outputs, opts)
		if err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if !out.Success {
		return errors.New(out.Error)
	}
	if !f.save {
		return nil
	}

	hash := f.hash
	if hash == "" {
		hash = hex.EncodeToString(digest.Sum(nil))
	}
	doc, err := svc.Save(ctx, &service.SaveInput{Outcome: out, ContentHash: hash, Force: f.force})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved %s as %s (%s)\n", doc.DocumentType, doc.ID, doc.ValidationStatus)
	return nil
}
