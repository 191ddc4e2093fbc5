package main

import (
	"fmt"
	"os"

	"folio"
	"folio/auth"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		configPath := ""
		if len(os.Args) > 2 {
			configPath = os.Args[2]
		}
		if err := runServe(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "hash":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: folio hash <password>")
			os.Exit(1)
		}
		hash, err := auth.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
	case "version":
		fmt.Printf("folio %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe(configPath string) error {
	cfg, err := folio.LoadConfig(configPath)
	if err != nil {
		return err
	}
	app, err := folio.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Start()
}

func printUsage() {
	fmt.Println(`folio - a personal portfolio and blog engine

Usage:
  folio <command> [arguments]

Commands:
  serve [dir]      Run the server, reading folio.yaml from dir (default ".")
  hash <password>  Print a bcrypt hash for the admin password
  version          Print the folio version
  help             Show this help message`)
}
