// locomotion-config writes the default configuration so it can be tuned
// by hand, or checks an existing file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/locomotion/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "init":
		cmdInit(args)
	case "check":
		cmdCheck(args)
	case "print":
		cmdPrint()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`locomotion-config - locomotion tuning file utility

Usage:
  locomotion-config <command> [options]

Commands:
  init [-out path] [-force]   Write the default config (default: user config dir)
  check <file.yaml>           Load and validate a config file
  print                       Print the default config

Examples:
  locomotion-config init -out ./locomotion.yaml
  locomotion-config check ./locomotion.yaml`)
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	out := fs.String("out", "", "Write to this path instead of the user config dir")
	force := fs.Bool("force", false, "Overwrite an existing file")
	fs.Parse(args)

	path := *out
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.yaml")
	}
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: %s exists (use -force to overwrite)\n", path)
		os.Exit(1)
	}

	if err := config.Default().SaveTo(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

func cmdCheck(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: locomotion-config check <file.yaml>")
		os.Exit(1)
	}

	cfg, err := config.LoadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: ok (tick rate %v Hz, walk %v m/s, sprint %v m/s)\n",
		args[0], cfg.Simulation.TickRate,
		cfg.Movement.Gaits.Walking.TargetVelocity, cfg.Movement.Gaits.Sprinting.TargetVelocity)
}

func cmdPrint() {
	data, err := config.Default().Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
