package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gitlab.com/stephen-fox/tskit/config"
)

func defaultsCommand() *cli.Command {
	return &cli.Command{
		Name:        "defaults",
		Usage:       "write the default config file",
		Description: "Writes the default key bindings, replacing the file if it exists.",
		Action:      writeDefaults,
		Flags: []cli.Flag{
			configFlag(),
		},
	}
}

func writeDefaults(c *cli.Context) error {
	filePath, err := configPath(c)
	if err != nil {
		return err
	}

	err = config.WriteDefaults(filePath)
	if err != nil {
		return err
	}

	fmt.Println(filePath)

	return nil
}
