// Command vdkutil inspects and extracts VDK archives and CT tables from
// the command line.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/JordanRO2/RO2-Toolkit/ct"
	"github.com/JordanRO2/RO2-Toolkit/vdk"
)

const usage = `vdkutil - VDK archive and CT table CLI tool

Usage:
  vdkutil vdk ls <archive.vdk> [<path>]     List files and folders in a VDK archive (optionally under a path)
  vdkutil vdk cat <archive.vdk> <file>      Write a file's decompressed contents to stdout
  vdkutil vdk info <archive.vdk>            Display archive header and content counts
  vdkutil ct dump <table.ct>                Print a CT table's columns and rows
  vdkutil ct info <table.ct>                Display a CT table's header and column types
  vdkutil help                              Show this help message

Examples:
  vdkutil vdk ls data.vdk                   List the files and folders at the root of data.vdk
  vdkutil vdk ls data.vdk texture/mob       List the files and folders directly in texture/mob
  vdkutil vdk cat data.vdk readme.txt       Print readme.txt's contents
  vdkutil ct dump itemdata.ct               Print itemdata.ct's rows
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "vdk":
		err = runVDK(os.Args[2:])
	case "ct":
		err = runCT(os.Args[2:])
	case "help":
		fmt.Println(usage)
		return
	default:
		fmt.Printf("Error: unknown command %q\n", os.Args[1])
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func runVDK(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing subcommand or archive path")
	}
	sub, archivePath, rest := args[0], args[1], args[2:]

	switch sub {
	case "ls":
		dir := "."
		if len(rest) > 0 {
			dir = strings.Trim(rest[0], "/")
		}
		return vdkList(archivePath, dir)
	case "cat":
		if len(rest) == 0 {
			return fmt.Errorf("missing file path")
		}
		return vdkCat(archivePath, rest[0])
	case "info":
		return vdkInfo(archivePath)
	default:
		return fmt.Errorf("unknown vdk subcommand %q", sub)
	}
}

func vdkList(archivePath, dir string) error {
	a, err := vdk.Load(archivePath)
	if err != nil {
		return fmt.Errorf("load %s: %w", archivePath, err)
	}

	var names []string
	for _, e := range a.Entries() {
		if e.IsDot() {
			continue
		}
		parent := parentPath(e.FullPath)
		if dir == "." && parent == "" || parent == dir {
			prefix := "-"
			if e.IsDirectory {
				prefix = "d"
			}
			names = append(names, fmt.Sprintf("%s %8d  %s", prefix, e.CompressedSize, e.FullPath))
		}
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func parentPath(fullPath string) string {
	i := strings.LastIndexByte(fullPath, '/')
	if i < 0 {
		return ""
	}
	return fullPath[:i]
}

func vdkCat(archivePath, filePath string) error {
	a, err := vdk.Load(archivePath)
	if err != nil {
		return fmt.Errorf("load %s: %w", archivePath, err)
	}

	e, err := a.Find(filePath)
	if err != nil {
		return err
	}
	data, err := a.Extract(e)
	if err != nil {
		return fmt.Errorf("extract %s: %w", filePath, err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func vdkInfo(archivePath string) error {
	a, err := vdk.Load(archivePath)
	if err != nil {
		return fmt.Errorf("load %s: %w", archivePath, err)
	}

	fmt.Println("VDK Archive Information")
	fmt.Println("========================")
	fmt.Printf("Version:       %s\n", a.Version)
	fmt.Printf("File count:    %d\n", a.FileCount)
	fmt.Printf("Folder count:  %d\n", a.FolderCount)
	fmt.Printf("Total size:    %d bytes\n", a.TotalSize)
	fmt.Printf("Entries read:  %d (including . / .. markers)\n", len(a.Entries()))
	return nil
}

func runCT(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing subcommand or table path")
	}
	sub, tablePath := args[0], args[1]

	t, err := ct.Read(tablePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", tablePath, err)
	}
	if t.Checksum != nil {
		fmt.Fprintf(os.Stderr, "warning: %s\n", t.Checksum)
	}

	switch sub {
	case "dump":
		return ctDump(t)
	case "info":
		return ctInfo(t)
	default:
		return fmt.Errorf("unknown ct subcommand %q", sub)
	}
}

func ctDump(t *ct.Table) error {
	fmt.Println(strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		fmt.Println(strings.Join(row, "\t"))
	}
	return nil
}

func ctInfo(t *ct.Table) error {
	fmt.Println("CT Table Information")
	fmt.Println("=====================")
	fmt.Printf("Magic variant: %v\n", t.MagicVariant)
	fmt.Printf("Timestamp:     %s\n", t.Timestamp)
	fmt.Printf("Columns:       %d\n", t.ColumnCount())
	fmt.Printf("Rows:          %d\n", len(t.Rows))
	for i, h := range t.Headers {
		fmt.Printf("  %-20s %s\n", h, t.TypeNames[i])
	}
	return nil
}
