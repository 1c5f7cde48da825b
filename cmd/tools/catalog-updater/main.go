// cmd/tools/catalog-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"recruitment-intake/pkg/catalog"
)

var catalogPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	removeCmd := flag.NewFlagSet("remove", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	listAdd := addCmd.String("list", "", "List name (e.g., skills)")
	valueAdd := addCmd.String("value", "", "Option to add (e.g., Rust)")
	addCmd.StringVar(&catalogPath, "path", "configs/catalog.json", "Path to catalog file")

	// Remove command flags
	listRemove := removeCmd.String("list", "", "List name to remove from")
	valueRemove := removeCmd.String("value", "", "Option to remove")
	removeCmd.StringVar(&catalogPath, "path", "configs/catalog.json", "Path to catalog file")

	// Validate command flags
	validateCmd.StringVar(&catalogPath, "path", "configs/catalog.json", "Path to catalog file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *listAdd == "" || *valueAdd == "" {
			fmt.Println("Error: list and value are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		if err := addOption(*listAdd, *valueAdd); err != nil {
			fmt.Printf("Error adding option: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added %q to %s\n", *valueAdd, *listAdd)

	case "remove":
		removeCmd.Parse(os.Args[2:])
		if *listRemove == "" || *valueRemove == "" {
			fmt.Println("Error: list and value are required for remove.")
			removeCmd.Usage()
			os.Exit(1)
		}
		if err := removeOption(*listRemove, *valueRemove); err != nil {
			fmt.Printf("Error removing option: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %q from %s\n", *valueRemove, *listRemove)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateCatalog(); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog validation passed.")

	case "help":
		fallthrough
	default:
		help()
	}
}

func addOption(list, value string) error {
	cat, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	values := cat.List(list)
	if values == nil && !knownList(list) {
		return fmt.Errorf("unknown list %q (known: %s)", list, strings.Join(catalog.ListNames(), ", "))
	}
	for _, v := range values {
		if v == value {
			return fmt.Errorf("%q is already in %s", value, list)
		}
	}

	// Options stay sorted; "Other" always sinks to the end.
	values = append(values, value)
	sort.SliceStable(values, func(i, j int) bool {
		if values[i] == "Other" {
			return false
		}
		if values[j] == "Other" {
			return true
		}
		return values[i] < values[j]
	})
	cat.SetList(list, values)

	return catalog.SaveCatalog(catalogPath, cat)
}

func removeOption(list, value string) error {
	cat, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	values := cat.List(list)
	if values == nil && !knownList(list) {
		return fmt.Errorf("unknown list %q (known: %s)", list, strings.Join(catalog.ListNames(), ", "))
	}

	kept := values[:0]
	for _, v := range values {
		if v != value {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(values) {
		return fmt.Errorf("%q is not in %s", value, list)
	}
	cat.SetList(list, kept)

	return catalog.SaveCatalog(catalogPath, cat)
}

func validateCatalog() error {
	cat, err := catalog.LoadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	var problems []string
	for _, name := range catalog.ListNames() {
		values := cat.List(name)
		if len(values) == 0 {
			problems = append(problems, fmt.Sprintf("list %s is empty", name))
			continue
		}
		seen := make(map[string]bool, len(values))
		for _, v := range values {
			if strings.TrimSpace(v) == "" {
				problems = append(problems, fmt.Sprintf("list %s contains a blank option", name))
			}
			if seen[v] {
				problems = append(problems, fmt.Sprintf("list %s contains %q twice", name, v))
			}
			seen[v] = true
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func knownList(name string) bool {
	for _, n := range catalog.ListNames() {
		if n == name {
			return true
		}
	}
	return false
}

func help() {
	fmt.Println(`Usage: catalog-updater <command> [flags]

Commands:
  add       Add an option to a catalog list
  remove    Remove an option from a catalog list
  validate  Check the catalog for empty lists, blanks and duplicates
  help      Show this message

Examples:
  catalog-updater add -list skills -value Rust
  catalog-updater remove -list companies -value Wipro
  catalog-updater validate -path configs/catalog.json`)
}
