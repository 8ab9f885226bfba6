// tskit attaches to a running program, locates its timescale value,
// and overrides it while configured keys or buttons are pressed.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	log.SetFlags(0)

	err := app().Run(os.Args)
	if err != nil {
		log.Fatalf("tskit error: %v", err)
	}
}

func app() *cli.App {
	app := cli.NewApp()
	app.Name = "tskit"
	app.Usage = "override a program's timescale with key bindings"
	app.Commands = []*cli.Command{
		runCommand(),
		defaultsCommand(),
	}

	return app
}
