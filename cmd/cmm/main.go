// Command cmm sets up C++ projects and compiles their CMakeMake.toml into a
// CMakeLists.txt.
package main

import "github.com/cmakemake/cmm/cmd/cmm/internal"

func main() {
	internal.Execute()
}
