// Command uecastoc-inspect drives the emulator from the command line: it
// collects one or more mod trees, writes the sentinel UTOC, reports the
// block count of the matching virtual UCAS layout, and can dump a single
// uasset's header for debugging.
package main

func main() {
	execute()
}
