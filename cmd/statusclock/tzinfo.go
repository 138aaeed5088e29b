package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngrash/statusclock/civil"
	"github.com/ngrash/statusclock/internal/config"
	"github.com/ngrash/statusclock/tzif"
)

var (
	printV1   bool
	byteOrder string
	atSeconds int64
)

func init() {
	cmd := &cobra.Command{
		Use:   "tzinfo <tzif file>",
		Short: "Print the decoded contents of a TZif file",
		Long: `The tzinfo command decodes a TZif file the way the clock does and prints
every retained field, the records dropped by decoding and the local time type
in effect at a given instant.

The decoder reads typecnt leap second records where zic writes leapcnt of
them, so files produced by zic (/etc/localtime, /usr/share/zoneinfo) fail to
decode in either byte order. Use it on files written to that layout, such as
those produced by the clock's own encoder.

Example:
  statusclock tzinfo zone.tzif
  statusclock tzinfo --v1 --byte-order big --at 1700000000 zone.tzif`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := config.TimeConfig{ByteOrder: byteOrder}.Order()
			if err != nil {
				return err
			}
			return runTZInfo(cmd.OutOrStdout(), args[0], order)
		},
	}
	cmd.Flags().BoolVar(&printV1, "v1", false, "Always print v1 header and data")
	cmd.Flags().StringVar(&byteOrder, "byte-order", "little", "Byte order of the file (big or little)")
	cmd.Flags().Int64Var(&atSeconds, "at", -1, "Show the local time type at this UNIX time (default: none)")
	rootCmd.AddCommand(cmd)
}

func runTZInfo(w io.Writer, path string, order binary.ByteOrder) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	f, err := tzif.DecodeFile(data, order)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	if f.Version == tzif.V1 || printV1 {
		printBlock(w, f.V1Header, f.V1Data, tzif.V1)
	}
	if f.Version > tzif.V1 {
		printBlock(w, f.Header, f.Data, f.Version)
		fmt.Fprintln(w, "Footer")
		fmt.Fprintln(w, "  TZString =", string(f.Footer.TZString))
		fmt.Fprintln(w)
	}

	if err := tzif.Inspect(f.Header, f.Data); err != nil {
		fmt.Fprintln(w, "Dropped")
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintln(w, " ", line)
		}
		fmt.Fprintln(w)
	}

	if atSeconds >= 0 {
		printLookup(w, f, atSeconds)
	}
	return nil
}

func printBlock(w io.Writer, h tzif.Header, b tzif.DataBlock, layout tzif.Version) {
	fmt.Fprintln(w, "Header")
	fmt.Fprintln(w, "  version  =", h.Version)
	fmt.Fprintln(w, "  isutcnt  =", h.Isutcnt)
	fmt.Fprintln(w, "  isstdcnt =", h.Isstdcnt)
	fmt.Fprintln(w, "  leapcnt  =", h.Leapcnt)
	fmt.Fprintln(w, "  timecnt  =", h.Timecnt)
	fmt.Fprintln(w, "  typecnt  =", h.Typecnt)
	fmt.Fprintln(w, "  charcnt  =", h.Charcnt)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Data block", layout)
	fmt.Fprintf(w, "  TransitionTimes (%d) = %v\n", len(b.TransitionTimes), b.TransitionTimes)
	fmt.Fprintf(w, "  TransitionTypes (%d) = %v\n", len(b.TransitionTypes), b.TransitionTypes)
	fmt.Fprintf(w, "  LocalTimeTypes (%d) = %+v\n", len(b.LocalTimeTypes), b.LocalTimeTypes)
	names := make([]string, 0, len(b.LocalTimeTypes))
	for _, t := range b.LocalTimeTypes {
		names = append(names, b.Designation(t.Idx))
	}
	fmt.Fprintf(w, "  TimeZoneDesignations (%d) = %q\n", len(b.TimeZoneDesignations), names)
	fmt.Fprintf(w, "  LeapSeconds (%d) = %+v\n", len(b.LeapSeconds), b.LeapSeconds)
	fmt.Fprintf(w, "  StandardWallIndicators (%d) = %v\n", len(b.StandardWallIndicators), b.StandardWallIndicators)
	fmt.Fprintf(w, "  UTLocalIndicators (%d) = %v\n", len(b.UTLocalIndicators), b.UTLocalIndicators)
	fmt.Fprintln(w)
}

func printLookup(w io.Writer, f tzif.File, sec int64) {
	fmt.Fprintln(w, "Lookup", sec)
	lt, err := tzif.Lookup(f.Header, f.Data, sec)
	if err != nil {
		fmt.Fprintln(w, "  error =", err)
		return
	}
	fmt.Fprintf(w, "  type  = %+v\n", lt)
	local, err := civil.Format(sec + int64(lt.Utoff))
	if err != nil {
		fmt.Fprintln(w, "  error =", err)
		return
	}
	fmt.Fprintln(w, "  local =", local)
}
