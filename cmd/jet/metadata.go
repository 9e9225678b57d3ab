package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"jet/internal/diagfmt"
	"jet/internal/driver"
	"jet/internal/meta"
	"jet/internal/persist"
)

type metadataJSON struct {
	Symbol   string           `json:"symbol"`
	Metadata []annotationJSON `json:"metadata"`
}

type annotationJSON struct {
	Name    string      `json:"name"`
	Entries []entryJSON `json:"entries"`
}

type entryJSON struct {
	Key   string `json:"key,omitempty"`
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

type fileJSON struct {
	Filename string `json:"filename"`
	Size     int    `json:"size"`
}

func newMetadataCmd() *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "metadata <file.jetd>",
		Short: "Print the processed metadata of a declaration snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(args[0], &checkFlags{maxDiagnostics: -1, outputDir: outputDir})
			if err != nil {
				return err
			}
			res, err := driver.Check(cmd.Context(), driver.Request{Root: args[0], Options: opts, Files: []string{args[0]}})
			if err != nil {
				return err
			}
			u := res.Units[0]
			if len(u.Diagnostics) > 0 {
				diagfmt.Short(cmd.ErrOrStderr(), u.Diagnostics, res.FileSet, diagfmt.PathModeRelative)
			}
			snap := persist.CaptureUnit(res.Checker, u.Unit, u.Program)

			out := make([]metadataJSON, 0, len(snap.Metadata))
			for _, sm := range snap.Metadata {
				out = append(out, metadataJSON{Symbol: sm.Symbol, Metadata: annotations(sm.Metadata)})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("failed to encode metadata: %w", err)
			}
			if u.Unit.Invalidated() {
				return errCheckFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for output file references in metadata")
	return cmd
}

func annotations(list []meta.Metadata) []annotationJSON {
	out := make([]annotationJSON, 0, len(list))
	for _, md := range list {
		out = append(out, annotationJSON{Name: md.Name, Entries: entries(md.Entries)})
	}
	return out
}

func entries(list []meta.Entry) []entryJSON {
	out := make([]entryJSON, 0, len(list))
	for _, e := range list {
		out = append(out, entryJSON{Key: e.Key, Kind: e.Value.Kind.String(), Value: valueJSON(e.Value)})
	}
	return out
}

func valueJSON(v meta.Value) any {
	switch v.Kind {
	case meta.ValueNumber:
		return v.Number
	case meta.ValueBool:
		return v.Bool
	case meta.ValueFile:
		return fileJSON{Filename: v.Filename, Size: len(v.Data)}
	case meta.ValueList:
		return entries(v.List)
	default:
		return v.String
	}
}
