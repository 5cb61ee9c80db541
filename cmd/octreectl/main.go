// Command octreectl builds, inspects and exports distributed octrees from a
// point set generated by octreegen.
package main

import "github.com/flier/octree/cmd/octreectl/cmd"

func main() {
	cmd.Execute()
}
