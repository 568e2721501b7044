// Command pskill terminates processes whose listing line contains a
// pattern. Invoked through a symlink named pgrep it only lists them.
package main

import (
	"os"
	"path/filepath"

	"github.com/rcarmo/pskill/pkg/applets/pgrep"
	"github.com/rcarmo/pskill/pkg/applets/pskill"
	"github.com/rcarmo/pskill/pkg/core"
)

type appletFunc func(stdio *core.Stdio, args []string) int

var applets = map[string]appletFunc{
	"pskill": pskill.Run,
	"pgrep":  pgrep.Run,
}

func main() {
	stdio := core.DefaultStdio()
	run, args := resolveApplet(os.Args)
	os.Exit(run(stdio, args))
}

// resolveApplet picks the applet from the name the binary was invoked as,
// falling back to pskill.
func resolveApplet(args []string) (appletFunc, []string) {
	if len(args) == 0 {
		return pskill.Run, nil
	}
	if run, ok := applets[filepath.Base(args[0])]; ok {
		return run, args[1:]
	}
	return pskill.Run, args[1:]
}
