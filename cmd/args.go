package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/byteinternet/hypernode-vagrant-runner/runner"
	"github.com/urfave/cli/v3"
)

// Execute runs root with args. Usage errors are preceded by a one-line
// usage summary on the command's error writer.
func Execute(ctx context.Context, root *cli.Command, args []string) error {
	err := root.Run(ctx, RewriteArgs(root, args))

	var usageErr *runner.UsageError
	if errors.As(err, &usageErr) {
		w := root.ErrWriter
		if w == nil {
			w = os.Stderr
		}
		writeUsage(w, root)
	}
	return err
}

// RewriteArgs replaces numeric short options such as "-1" with their long
// form. urfave/cli treats "-<digit>" as a positional argument and stops
// parsing flags there. Values of string flags and everything after "--" are
// left alone. args[0] is the program name.
func RewriteArgs(root *cli.Command, args []string) []string {
	numeric := make(map[string]string)
	takesValue := make(map[string]bool)
	for _, f := range root.Flags {
		names := f.Names()
		for _, alias := range names[1:] {
			if _, isBool := f.(*cli.BoolFlag); isBool && isNumeric(alias) {
				numeric["-"+alias] = "--" + names[0]
			}
		}
		if _, isString := f.(*cli.StringFlag); isString {
			for _, n := range names {
				takesValue[dashed(n)] = true
			}
		}
	}

	out := make([]string, len(args))
	copy(out, args)
	for i := 1; i < len(out); i++ {
		arg := out[i]
		if arg == "--" {
			break
		}
		if long, ok := numeric[arg]; ok {
			out[i] = long
			continue
		}
		if takesValue[arg] {
			i++
		}
	}
	return out
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func dashed(name string) string {
	if len(name) == 1 {
		return "-" + name
	}
	return "--" + name
}

// writeUsage prints an argparse-style summary of the root flags.
func writeUsage(w io.Writer, root *cli.Command) {
	parts := []string{"usage:", root.Name, "[-h]"}
	for _, f := range root.Flags {
		name := f.Names()[0]
		if name == "help" {
			continue
		}
		switch f.(type) {
		case *cli.BoolFlag:
			parts = append(parts, fmt.Sprintf("[--%s]", name))
		default:
			metavar := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
			parts = append(parts, fmt.Sprintf("[--%s %s]", name, metavar))
		}
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}
