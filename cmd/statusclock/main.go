// Command statusclock writes an i3bar status line with the local time and
// the first line of configured files. It also ships tools to inspect the
// TZif file the clock reads.
package main

func main() {
	execute()
}
