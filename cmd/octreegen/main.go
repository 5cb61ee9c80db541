// Command octreegen generates synthetic point sets for octreectl build.
package main

import "github.com/flier/octree/cmd/octreegen/cmd"

func main() {
	cmd.Execute()
}
