// Package main provides the formatter command that prints a stored series
// or realigns the tables of an exported markdown file.
package main

import (
	"flag"
	"fmt"
	"os"

	"ufscraper/internal/formatter"
	"ufscraper/internal/storage"
)

func main() {
	input := flag.String("input", "data/uf.json", "Path to a JSON document written by the scraper")
	limit := flag.Int("limit", 10, "Show only the latest N records (0 shows all)")
	markdownPath := flag.String("markdown", "", "Realign the tables of this markdown file instead of printing a series")
	write := flag.Bool("write", false, "With -markdown, write changes to the file (default: dry-run)")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *markdownPath != "" {
		changed, err := realignFile(*markdownPath, *write)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to process %s: %v\n", *markdownPath, err)
			os.Exit(1)
		}

		switch {
		case !changed:
			fmt.Printf("✅ Already formatted: %s\n", *markdownPath)
		case *write:
			fmt.Printf("✅ Formatted: %s\n", *markdownPath)
		default:
			fmt.Printf("📝 Would format: %s\n", *markdownPath)
			fmt.Println("\n💡 Run with -write to apply changes.")
			os.Exit(1)
		}

		return
	}

	dataset, err := storage.Load(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📂 %s\n", *input)
	fmt.Printf("  Source:     %s\n", dataset.Source)
	fmt.Printf("  Updated at: %s\n", dataset.UpdatedAt)
	fmt.Printf("  Records:    %d (%s .. %s)\n", len(dataset.Data), dataset.FirstDate(), dataset.LastDate())
	fmt.Println()
	fmt.Print(formatter.FormatRecords(dataset.Data, *limit))
}

// realignFile reformats the tables of a markdown file and reports whether
// the content changed. The file is only rewritten when write is set.
func realignFile(path string, write bool) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	original := string(content)

	formatted := formatter.FormatMarkdown(original)
	if formatted == original {
		return false, nil
	}

	if write {
		if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
			return false, err
		}
	}

	return true, nil
}

func printUsage() {
	fmt.Println("Usage: ./bin/formatter [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/formatter")
	fmt.Println("  ./bin/formatter -input data/uf.json -limit 0")
	fmt.Println("  ./bin/formatter -markdown docs/uf.md -write")
}
