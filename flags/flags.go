// Package flags parses the command line of the hyperad CLI into the
// option structs of the exchange and output packages.
package flags

import (
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/huykingsofm/hyperad/exchange"
	"github.com/huykingsofm/hyperad/output"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
)

var reNumber = regexp.MustCompile(`^[0-9.]+$`)

type FlagSet interface {
	Args() []string
	PrintUsage(w io.Writer)
}

type OptionSet struct {
	ExchangeOptions exchange.Options
	OutputOptions   output.Options
	Verbose         bool
}

type terminalInfo struct {
	stdoutIsTerminal bool
}

func Parse(args []string) (FlagSet, *OptionSet, error) {
	return parse(args, terminalInfo{
		stdoutIsTerminal: isatty.IsTerminal(os.Stdout.Fd()),
	})
}

func parse(args []string, info terminalInfo) (FlagSet, *OptionSet, error) {
	exchangeOptions := exchange.Options{}
	outputOptions := output.Options{}
	verbose := false
	printFlag := "\000" // "\000" is a special value that indicates user did not specified --print
	timeout := "30s"
	auth := ""
	verify := "yes"

	flagSet := getopt.New()
	flagSet.SetParameters("[METHOD] URL [REQUEST_ITEM [REQUEST_ITEM ...]]")
	flagSet.StringVarLong(&printFlag, "print", 'p', "specifies what the output should contain (HBhb)")
	flagSet.StringVarLong(&timeout, "timeout", 0, "timeout seconds that you allow the whole operation to take")
	flagSet.StringVarLong(&auth, "auth", 'a', "colon-separated username and password for authentication")
	flagSet.StringVarLong(&verify, "verify", 0, "verify Host SSL certificate, 'yes' or 'no'")
	flagSet.BoolVarLong(&exchangeOptions.FollowRedirects, "follow", 'F', "follow 30x Location redirects")
	flagSet.BoolVarLong(&exchangeOptions.ForceHTTP1, "http1", 0, "force HTTP/1.1 protocol")
	flagSet.BoolVarLong(&outputOptions.Download, "download", 'd', "download the response body to a file")
	flagSet.StringVarLong(&outputOptions.OutputFile, "output", 'o', "save output to FILE")
	flagSet.BoolVarLong(&outputOptions.Overwrite, "overwrite", 0, "overwrite existing files on download")
	flagSet.BoolVarLong(&verbose, "verbose", 'v', "log request/response details to stderr")
	flagSet.Parse(args)

	// Parse --print
	if err := parsePrintFlag(printFlag, info, &outputOptions); err != nil {
		return nil, nil, err
	}

	// Parse --timeout
	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		return nil, nil, err
	}
	exchangeOptions.Timeout = d

	// Parse --auth
	if err := parseAuth(auth, &exchangeOptions); err != nil {
		return nil, nil, err
	}

	// Parse --verify
	switch verify {
	case "yes":
	case "no":
		exchangeOptions.SkipVerify = true
	default:
		return nil, nil, errors.Errorf("Value of --verify must be 'yes' or 'no': %s", verify)
	}

	// Color
	outputOptions.EnableColor = info.stdoutIsTerminal

	optionSet := &OptionSet{
		ExchangeOptions: exchangeOptions,
		OutputOptions:   outputOptions,
		Verbose:         verbose,
	}
	return flagSet, optionSet, nil
}

func parsePrintFlag(printFlag string, info terminalInfo, outputOptions *output.Options) error {
	if printFlag == "\000" {
		// --print is not specified
		if info.stdoutIsTerminal {
			outputOptions.PrintResponseHeader = true
			outputOptions.PrintResponseBody = true
		} else {
			outputOptions.PrintResponseBody = true
		}
		return nil
	}
	for _, c := range printFlag {
		switch c {
		case 'H':
			outputOptions.PrintRequestHeader = true
		case 'B':
			outputOptions.PrintRequestBody = true
		case 'h':
			outputOptions.PrintResponseHeader = true
		case 'b':
			outputOptions.PrintResponseBody = true
		default:
			return errors.Errorf("Invalid char in --print value (must be consist of HBhb): %c", c)
		}
	}
	return nil
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		timeout += "s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return time.Duration(0), errors.Errorf("Value of --timeout must be a number or duration string: %v", timeout)
	}
	return d, nil
}

func parseAuth(auth string, exchangeOptions *exchange.Options) error {
	if auth == "" {
		return nil
	}

	username := auth
	password := ""
	if colon := strings.Index(auth, ":"); colon != -1 {
		username = auth[:colon]
		password = auth[colon+1:]
	} else {
		p, err := askPassword()
		if err != nil {
			return err
		}
		password = p
	}

	exchangeOptions.Auth = exchange.AuthOptions{
		Enabled:  true,
		UserName: username,
		Password: password,
	}
	return nil
}
