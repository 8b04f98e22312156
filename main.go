// Command startup-flame converts startup timing events into folded stack
// lines, which can be rendered with flamegraph.pl or speedscope.  It can also
// write a Chrome devtools profile, which can be loaded via
// https://profiler.firefox.com/ or Chrome devtools (Performance tab).
package main

import "github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/cmd"

func main() {
	cmd.Execute()
}
