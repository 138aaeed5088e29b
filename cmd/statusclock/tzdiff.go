package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/ngrash/statusclock/internal/config"
	"github.com/ngrash/statusclock/tzif"
)

var diffByteOrder string

func init() {
	cmd := &cobra.Command{
		Use:   "tzdiff <tzif file A> <tzif file B>",
		Short: "Compare the decoded contents of two TZif files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTZDiff(cmd.OutOrStdout(), args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&diffByteOrder, "byte-order", "little", "Byte order of both files (big or little)")
	rootCmd.AddCommand(cmd)
}

func runTZDiff(w io.Writer, pathA, pathB string) error {
	order, err := config.TimeConfig{ByteOrder: diffByteOrder}.Order()
	if err != nil {
		return err
	}
	decode := func(path string) (tzif.File, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return tzif.File{}, err
		}
		f, err := tzif.DecodeFile(data, order)
		if err != nil {
			return tzif.File{}, fmt.Errorf("decoding %s: %w", path, err)
		}
		return f, nil
	}

	a, err := decode(pathA)
	if err != nil {
		return err
	}
	b, err := decode(pathB)
	if err != nil {
		return err
	}

	if diff := cmp.Diff(a, b); diff != "" {
		fmt.Fprintln(w, "files are different: -A +B")
		fmt.Fprintln(w, diff)
	} else {
		fmt.Fprintln(w, "files are identical")
	}
	return nil
}
