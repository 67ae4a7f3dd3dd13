package main

import (
	"fmt"
	"os"

	"fjacquet/pain001/cmd/generate"
	"fjacquet/pain001/cmd/iban"
	"fjacquet/pain001/cmd/root"
	"fjacquet/pain001/cmd/verify"
)

func init() {
	root.Cmd.AddCommand(generate.Cmd)
	root.Cmd.AddCommand(verify.Cmd)
	root.Cmd.AddCommand(iban.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
