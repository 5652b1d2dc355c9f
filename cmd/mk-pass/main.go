// mk-pass prints random passwords built to a set of composition
// requirements.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mkpass/mkpass-go/internal/config"
	"github.com/mkpass/mkpass-go/internal/crypto"
	"github.com/mkpass/mkpass-go/internal/service"
)

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	req        crypto.Requirements
	noFirst    bool
	count      int
	validate   bool
	samples    string
	hash       bool
	configPath string
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options
	defaults := crypto.DefaultRequirements()

	flagSet := pflag.NewFlagSet("mk-pass", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Uint16VarP(&opts.req.Length, "length", "l", defaults.Length, "password length (at least 10)")
	flagSet.Uint16VarP(&opts.req.Digits, "numbers", "n", defaults.Digits, "number of decimal digits")
	flagSet.Uint16VarP(&opts.req.Specials, "specials", "s", defaults.Specials, "number of special characters")
	flagSet.BoolVarP(&opts.noFirst, "no-first-is-letter", "f", false, "allow the first character to be a digit or special character")
	flagSet.BoolVarP(&opts.req.AllowRepeats, "allow-repeats", "r", false, "allow characters to repeat, lifting the length ceiling")
	flagSet.IntVarP(&opts.count, "count", "c", 1, fmt.Sprintf("number of passwords to print (1-%d)", service.MaxCount))
	flagSet.BoolVar(&opts.validate, "validate", false, "print the validated requirements instead of a password")
	flagSet.StringVar(&opts.samples, "samples", "", "print the characters of one pool: uppercase, lowercase, numbers or specials")
	flagSet.BoolVar(&opts.hash, "hash", false, "print an Argon2id hash after each password")
	flagSet.StringVar(&opts.configPath, "config", os.Getenv("MKPASS_CONFIG"), "YAML file with default requirements")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if opts.samples != "" {
		kind, err := crypto.ParseKind(opts.samples)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, kind.Pool())
		return nil
	}

	req, err := requirements(flagSet, opts)
	if err != nil {
		return err
	}

	if opts.validate {
		return printValidated(stdout, crypto.Validate(req))
	}

	resp, err := service.NewGeneratorService(req).GenerateFor(req, opts.count, opts.hash)
	if err != nil {
		return err
	}
	for i, password := range resp.Passwords {
		fmt.Fprintln(stdout, password)
		if opts.hash {
			fmt.Fprintln(stdout, resp.Hashes[i])
		}
	}
	return nil
}

// requirements layers the config file over the built-in defaults and the
// flags the user actually set over both.
func requirements(flagSet *pflag.FlagSet, opts options) (crypto.Requirements, error) {
	req := crypto.DefaultRequirements()
	if opts.configPath != "" {
		file, err := config.ReadFile(opts.configPath)
		if err != nil {
			return crypto.Requirements{}, err
		}
		req = file.Defaults.Apply(req)
	}

	if flagSet.Changed("length") {
		req.Length = opts.req.Length
	}
	if flagSet.Changed("numbers") {
		req.Digits = opts.req.Digits
	}
	if flagSet.Changed("specials") {
		req.Specials = opts.req.Specials
	}
	if flagSet.Changed("no-first-is-letter") {
		req.FirstIsLetter = !opts.noFirst
	}
	if flagSet.Changed("allow-repeats") {
		req.AllowRepeats = opts.req.AllowRepeats
	}
	return req, nil
}

func printValidated(w io.Writer, r crypto.Requirements) error {
	out := struct {
		Length        uint16 `yaml:"length"`
		Numbers       uint16 `yaml:"numbers"`
		Specials      uint16 `yaml:"specials"`
		FirstIsLetter bool   `yaml:"first_is_letter"`
		AllowRepeats  bool   `yaml:"allow_repeats"`
	}{r.Length, r.Digits, r.Specials, r.FirstIsLetter, r.AllowRepeats}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `mk-pass prints random passwords.

Every password has at least one uppercase and one lowercase letter. Digits
and special characters are placed at random, and characters never repeat
unless --allow-repeats is given. Requests that cannot be met are clamped:
the length is kept between 10 and the number of distinct characters
available, and digits win over special characters when both ask for more
room than there is.

Usage:
  mk-pass [flags]

Examples:
  # One 16 character password with a digit and a special character
  mk-pass

  # Five 24 character passwords with three digits and no specials
  mk-pass -l 24 -n 3 -s 0 -c 5

  # Show what a request would be clamped to
  mk-pass -l 16 -n 16 -s 16 --validate

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
