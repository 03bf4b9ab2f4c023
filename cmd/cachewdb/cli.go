package main

import (
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/theopfr/cachew-db"
	"github.com/theopfr/cachew-db/value"
)

// minPasswordLength is enforced here, at the CLI boundary, rather
// than inside AUTH itself — spec.md §1 scopes password policy out of
// the wire protocol, but a CLI still shouldn't let an operator start
// an instance no client could sensibly authenticate against.
const minPasswordLength = 8

var version string

type cliOptions struct {
	Host     string `short:"h" long:"host" description:"Host to bind the CASP listener to" value-name:"host" default:"127.0.0.1"`
	Port     uint   `short:"P" long:"port" description:"Port to bind the CASP listener to" value-name:"port" default:"8080"`
	Password string `short:"p" long:"password" description:"AUTH password, overridden by $CACHEWDB_PASSWORD" value-name:"password"`
	Prompt   bool   `long:"password-prompt" description:"Force an interactive, no-echo password prompt"`
	Type     string `long:"type" description:"Declared value type for this instance: STR, INT, FLOAT, BOOL or JSON" value-name:"type" default:"STR"`
	Help     bool   `long:"help" description:"Show this help"`
	Version  bool   `long:"version" description:"Show this version"`
}

// parseOptions parses argv into a cachewdb.Config, exiting the
// process on --help/--version or on any validation failure, the same
// shape as the teacher's cmd/mysqldef parseOptions.
func parseOptions(args []string) cachewdb.Config {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options]"

	if _, err := parser.ParseArgs(args); err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	declared, ok := value.ParseDeclaredType(opts.Type)
	if !ok {
		fmt.Printf("Unknown --type value: %q (expected STR, INT, FLOAT, BOOL or JSON)\n\n", opts.Type)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	password := opts.Password
	if envPassword, ok := os.LookupEnv("CACHEWDB_PASSWORD"); ok {
		password = envPassword
	}

	if opts.Prompt {
		fmt.Print("Enter Password: ")
		pass, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			log.Fatal(err)
		}
		password = string(pass)
	}

	validatePassword(password)

	return cachewdb.Config{
		Host:     opts.Host,
		Port:     int(opts.Port),
		Password: password,
		Type:     declared,
	}
}

// validatePassword is the password-strength check spec.md §1 scopes
// out of the core as an external collaborator's concern.
func validatePassword(password string) {
	if len(password) < minPasswordLength {
		fmt.Printf("Password must be at least %d characters long\n", minPasswordLength)
		os.Exit(1)
	}
}
