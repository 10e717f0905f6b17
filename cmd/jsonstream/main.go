// Command jsonstream reads JSON documents from files or standard input and
// writes them back normalized.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/pflag"
	"github.com/viant/jsonstream"
	"github.com/viant/jsonstream/descriptor"
)

func main() {
	bufferSize := pflag.IntP("buffer-size", "b", jsonstream.DefaultBufferSize, "Initial read buffer size in bytes")
	indent := pflag.StringP("indent", "i", "", "Indent nested values with this prefix")
	comments := pflag.Bool("allow-comments", false, "Accept // and /* */ comments")
	trailing := pflag.Bool("allow-trailing-commas", false, "Accept a comma before a closing bracket")
	validate := pflag.BoolP("validate", "v", false, "Only check that input is well-formed")
	verbose := pflag.Bool("verbose", false, "Log buffer growth and failures to standard error")
	pflag.Parse()

	options := []jsonstream.Option{
		jsonstream.WithBufferSize(*bufferSize),
		jsonstream.WithIndent(*indent),
		jsonstream.WithComments(*comments),
		jsonstream.WithTrailingCommas(*trailing),
	}
	if *verbose {
		options = append(options, jsonstream.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	engine, err := jsonstream.NewEngine(options...)
	if err != nil {
		color.Error.Println(err.Error())
		os.Exit(2)
	}

	inputs := pflag.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	failed := false
	for _, input := range inputs {
		if err := run(engine, input, *validate, os.Stdout); err != nil {
			color.Error.Printf("%s: %v\n", name(input), err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func run(engine *jsonstream.Engine, input string, validate bool, w io.Writer) error {
	r := io.Reader(os.Stdin)
	if input != "-" {
		file, err := os.Open(input)
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}
	value, err := engine.DeserializeStream(context.Background(), r, descriptor.Any())
	if err != nil {
		return err
	}
	if validate {
		color.Success.Printf("%s: ok\n", name(input))
		return nil
	}
	if err = engine.SerializeTo(w, value, descriptor.Any()); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

func name(input string) string {
	if input == "-" {
		return "stdin"
	}
	return input
}
