package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

func main() {
	cmd := newCommand(os.Stdout, os.Stderr)

	p := flags.NewParser(cmd, flags.Default)
	p.Name = "zipls"
	p.Usage = "[OPTIONS] FILE.zip..."

	args, err := p.Parse()
	if err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(2)
	}

	if err := cmd.Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "zipls: %v\n", err)
		os.Exit(1)
	}
}
