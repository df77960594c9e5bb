package hyperad

import (
	"bufio"
	"context"
	"os"

	"github.com/huykingsofm/hyperad/exchange"
	"github.com/huykingsofm/hyperad/flags"
	"github.com/huykingsofm/hyperad/input"
	"github.com/huykingsofm/hyperad/output"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Main runs the hyperad command line: parse flags and request items, build
// an App, submit, and print or download the response.
func Main() error {
	flagSet, optionSet, err := flags.Parse(os.Args)
	if err != nil {
		return err
	}

	req, err := input.ParseArgs(flagSet.Args())
	if _, ok := errors.Cause(err).(*input.UsageError); ok {
		flagSet.PrintUsage(os.Stderr)
		return err
	}
	if err != nil {
		return err
	}

	app, err := NewApp(&optionSet.ExchangeOptions)
	if err != nil {
		return err
	}
	if optionSet.Verbose {
		app.SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())
	}

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()
	printer := output.NewPrettyPrinter(output.PrettyPrinterConfig{
		Writer:      writer,
		EnableColor: optionSet.OutputOptions.EnableColor,
	})

	if optionSet.OutputOptions.PrintRequestHeader || optionSet.OutputOptions.PrintRequestBody {
		if err := printRequest(req, optionSet, printer); err != nil {
			return err
		}
		writer.Flush()
	}

	resp, err := app.SubmitHeader(context.Background(), req.Method, req.URL.String(), req.Content, req.Header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if optionSet.OutputOptions.Download {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return errors.Errorf("download failed: server returned %s", resp.Status)
		}
		fileWriter := output.NewFileWriter(resp, &optionSet.OutputOptions)
		if _, err := fileWriter.Download(resp); err != nil {
			return err
		}
		return nil
	}

	if optionSet.OutputOptions.PrintResponseHeader {
		if err := printer.PrintStatusLine(resp.Proto, resp.Status); err != nil {
			return err
		}
		if err := printer.PrintHeader(resp.Header); err != nil {
			return err
		}
		writer.Flush()
	}
	if optionSet.OutputOptions.PrintResponseBody {
		if err := printer.PrintBody(resp.Body, resp.Header.Get("Content-Type")); err != nil {
			return err
		}
	}

	return nil
}

// printRequest formats the request a second time purely for display; the
// submitted request is built by App itself.
func printRequest(req *input.Request, optionSet *flags.OptionSet, printer output.Printer) error {
	r, err := exchange.BuildHTTPRequest(req.Method, req.URL.String(), req.Content, req.Header, &optionSet.ExchangeOptions)
	if err != nil {
		return err
	}
	r.Proto = "HTTP/1.1"

	if optionSet.OutputOptions.PrintRequestHeader {
		if err := printer.PrintRequestLine(r); err != nil {
			return err
		}
		if err := printer.PrintHeader(r.Header); err != nil {
			return err
		}
	}
	if optionSet.OutputOptions.PrintRequestBody && r.Body != nil {
		defer r.Body.Close()
		if err := printer.PrintBody(r.Body, r.Header.Get("Content-Type")); err != nil {
			return err
		}
	}
	return nil
}
