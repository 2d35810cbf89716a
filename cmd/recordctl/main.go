package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	record "github.com/benjamonnguyen/record-go"
)

const usage = `usage: recordctl [-p] <command> [args]

commands:
  new [key=value ...]  create a record and print its JSON mapping
  save                 read a JSON mapping from stdin, save it, print it
  show                 read a JSON mapping from stdin, print its string form
`

func main() {
	isProd := flag.Bool("p", false, "is production environment")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	// logger
	log.SetReportCaller(true)

	// config
	cfg, err := record.LoadConfig(*isProd)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	log.SetLevel(cfg.LogLevel)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		log.Error("unknown command", "cmd", args[0])
		flag.Usage()
		os.Exit(2)
	}

	log.Debug("running command", "cmd", args[0], "kind", cfg.Kind)
	if err := cmd(cfg, args[1:], os.Stdin, os.Stdout); err != nil {
		log.Error("command failed", "cmd", args[0], "err", err)
		os.Exit(1)
	}
}
