package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/nanaoosaki/go-docnum/pkg/docnum"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("docnum version %s\n", version)
	case "repair":
		if err := runRepair(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("docnum - list numbering reconciliation for DOCX files")
	fmt.Println()
	fmt.Println("Usage: docnum <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  repair -in <file> -out <file> -style <id> [-styles <yaml>] [-debug]")
	fmt.Println("                              Repair numbering for one paragraph style")
	fmt.Println("  version                     Show version information")
}

func runRepair(args []string) error {
	fs := flag.NewFlagSet("repair", flag.ExitOnError)
	in := fs.String("in", "", "input DOCX file")
	out := fs.String("out", "", "output DOCX file")
	style := fs.String("style", "", "paragraph style id to reconcile")
	stylesPath := fs.String("styles", "", "optional YAML style configuration to register before repair")
	debug := fs.Bool("debug", false, "dump the reconciliation report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *in == "" || *out == "" || *style == "" {
		return fmt.Errorf("repair requires -in, -out and -style")
	}

	doc, err := docnum.PrepareFile(*in)
	if err != nil {
		return err
	}

	if *stylesPath != "" {
		configs, err := docnum.LoadStyleConfigFile(*stylesPath)
		if err != nil {
			return err
		}
		if err := doc.Styles().RegisterAll(configs); err != nil {
			return err
		}
	}

	report, err := doc.Reconcile(*style)
	if err != nil {
		return err
	}

	if err := doc.WriteFile(*out); err != nil {
		return err
	}

	fmt.Printf("pass %s: scanned %d, matched %d, repaired %d, stripped %d, skipped %d in %s\n",
		report.PassID, report.Scanned, report.Matched, report.Repaired(), report.Stripped(), report.Skipped(), report.Elapsed)
	if *debug {
		spew.Fdump(os.Stderr, report.Records)
	}
	return nil
}
