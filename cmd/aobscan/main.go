// aobscan searches a file, such as a memory dump, for a byte signature
// and optionally follows the RIP-relative displacement of each match.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
	"gitlab.com/stephen-fox/tskit/memory"
	"gitlab.com/stephen-fox/tskit/pattern"
)

func main() {
	log.SetFlags(0)

	err := app().Run(os.Args)
	if err != nil {
		log.Fatalln(err)
	}
}

func app() *cli.App {
	app := cli.NewApp()
	app.Name = "aobscan"
	app.Usage = "find a byte signature in a file"
	app.Flags = []cli.Flag{
		&cli.PathFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "The file to search",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "signature",
			Aliases:  []string{"s"},
			Usage:    "The signature to find, e.g. '48 8b 05 ?? ?? ?? ??'",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "base",
			Usage: "Address the file was dumped from (decimal or 0x hex)",
			Value: "0",
		},
		&cli.IntFlag{
			Name:  "disp-offset",
			Usage: "Offset of a rip-relative displacement within the match",
			Value: -1,
		},
		&cli.IntFlag{
			Name:  "inst-len",
			Usage: "Length of the instruction containing the displacement",
		},
		&cli.BoolFlag{
			Name:  "first",
			Usage: "Stop after the first match",
		},
	}
	app.Action = scan

	return app
}

func scan(c *cli.Context) error {
	sig, err := pattern.ParseSignature(c.String("signature"))
	if err != nil {
		return fmt.Errorf("failed to parse signature - %w", err)
	}

	base, err := strconv.ParseUint(c.String("base"), 0, 64)
	if err != nil {
		return fmt.Errorf("failed to parse base address - %w", err)
	}

	dispOffset := c.Int("disp-offset")
	instLen := c.Int("inst-len")
	follow := dispOffset >= 0

	if follow && instLen <= 0 {
		return errors.New("please specify --inst-len with --disp-offset")
	}

	data, err := os.ReadFile(c.Path("file"))
	if err != nil {
		return fmt.Errorf("failed to read file - %w", err)
	}

	var matches []int
	if c.Bool("first") {
		offset, found := pattern.Find(sig, data)
		if found {
			matches = append(matches, offset)
		}
	} else {
		matches = pattern.FindAll(sig, data)
	}

	if len(matches) == 0 {
		return fmt.Errorf("failed to find '%s' in file - %w", sig, memory.ErrPatternNotFound)
	}

	for _, offset := range matches {
		if !follow {
			fmt.Printf("0x%x (offset 0x%x)\n", base+uint64(offset), offset)
			continue
		}

		target, err := memory.RelativeTarget(data, offset, dispOffset, instLen)
		if err != nil {
			return fmt.Errorf("failed to follow match at offset 0x%x - %w", offset, err)
		}

		fmt.Printf("0x%x (offset 0x%x) -> 0x%x (offset 0x%x)\n",
			base+uint64(offset), offset, int64(base)+target, target)
	}

	return nil
}
