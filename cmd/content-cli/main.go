package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"course-content-manager/internal/storage"
	"course-content-manager/internal/store"
	"course-content-manager/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	backend, err := storage.NewFileStore(cfg.DataFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}
	contentStore := store.NewContentStore(backend, logger)

	// Define subcommands
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)
	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	duplicateCmd := flag.NewFlagSet("duplicate", flag.ExitOnError)
	deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	restoreCmd := flag.NewFlagSet("restore", flag.ExitOnError)
	resetCmd := flag.NewFlagSet("reset", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)

	showID := showCmd.String("id", "", "ID of the module to show (required)")

	createTitle := createCmd.String("title", "", "French title for the new module (optional)")

	duplicateID := duplicateCmd.String("id", "", "ID of the module to duplicate (required)")

	deleteID := deleteCmd.String("id", "", "ID of the module to delete (required)")
	deleteForce := deleteCmd.Bool("force", false, "Bypass the last-module guard")

	restoreID := restoreCmd.String("id", "", "ID of the module to restore (required)")
	restoreRev := restoreCmd.String("rev", "", "ID of the history entry to restore (required)")

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	switch os.Args[1] {
	case "list":
		listCmd.Parse(os.Args[2:])
		handleList(contentStore)
	case "show":
		showCmd.Parse(os.Args[2:])
		if *showID == "" {
			fmt.Println("Error: -id flag is required for show command")
			showCmd.Usage()
			os.Exit(1)
		}
		handleShow(contentStore, *showID)
	case "create":
		createCmd.Parse(os.Args[2:])
		handleCreate(contentStore, *createTitle)
	case "duplicate":
		duplicateCmd.Parse(os.Args[2:])
		if *duplicateID == "" {
			fmt.Println("Error: -id flag is required for duplicate command")
			duplicateCmd.Usage()
			os.Exit(1)
		}
		handleDuplicate(contentStore, *duplicateID)
	case "delete":
		deleteCmd.Parse(os.Args[2:])
		if *deleteID == "" {
			fmt.Println("Error: -id flag is required for delete command")
			deleteCmd.Usage()
			os.Exit(1)
		}
		handleDelete(contentStore, *deleteID, *deleteForce)
	case "restore":
		restoreCmd.Parse(os.Args[2:])
		if *restoreID == "" || *restoreRev == "" {
			fmt.Println("Error: -id and -rev flags are required for restore command")
			restoreCmd.Usage()
			os.Exit(1)
		}
		handleRestore(contentStore, *restoreID, *restoreRev)
	case "reset":
		resetCmd.Parse(os.Args[2:])
		handleReset(contentStore)
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(contentStore)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: content-cli <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  list                       List all modules")
	fmt.Println("  show      -id <id>         Show one module in detail")
	fmt.Println("  create    [-title <t>]     Create a new module")
	fmt.Println("  duplicate -id <id>         Duplicate a module")
	fmt.Println("  delete    -id <id> [-force] Delete a module (guarded for the last one)")
	fmt.Println("  restore   -id <id> -rev <r> Restore a history entry")
	fmt.Println("  reset                      Replace all content with the seed dataset")
	fmt.Println("  export                     Print the collection as JSON")
}

func handleList(contentStore *store.ContentStore) {
	modules := contentStore.List()
	fmt.Printf("%-6s %-10s %-12s %-40s %s\n", "ID", "Jour", "Statut", "Titre", "Mis à jour")
	for _, m := range modules {
		fmt.Printf("%-6s %-10s %-12s %-40s %s\n", m.ID, m.Day, m.Status, truncate(m.Title.Fr, 40), m.Metadata.UpdatedAt)
	}
	fmt.Printf("%d module(s)\n", len(modules))
}

func handleShow(contentStore *store.ContentStore, moduleID string) {
	module, ok := contentStore.Get(moduleID)
	if !ok {
		fmt.Printf("Module %s not found.\n", moduleID)
		os.Exit(1)
	}
	fmt.Printf("%s — %s\n", module.ID, module.Title.Fr)
	fmt.Printf("  Jour: %s  Durée: %s  Niveau: %s  Statut: %s\n", module.Day, module.Duration, module.Level, module.Status)
	fmt.Printf("  Responsable: %s  Mis à jour: %s\n", module.Owner, module.Metadata.UpdatedAt)
	fmt.Printf("  Objectifs: %s\n", module.Objectives.Fr)
	fmt.Printf("  Programme (%d bloc(s)):\n", len(module.Program))
	for _, block := range module.Program {
		fmt.Printf("    [%s] %s\n", block.Type, block.Title)
	}
	if len(module.Resources) > 0 {
		fmt.Printf("  Ressources:\n")
		for _, resource := range module.Resources {
			fmt.Printf("    (%s) %s\n", resource.Type, resource.Label)
		}
	}
	if len(module.History) > 0 {
		fmt.Printf("  Historique:\n")
		for _, entry := range module.History {
			fmt.Printf("    %s — %s (%s)\n", entry.ID, entry.Label, entry.UpdatedAt)
		}
	}
}

func handleCreate(contentStore *store.ContentStore, title string) {
	overrides := store.Draft{}
	if title != "" {
		overrides.Title = store.Text(title, "")
	}
	newID := contentStore.Create(overrides)
	fmt.Printf("Created module %s.\n", newID)
}

func handleDuplicate(contentStore *store.ContentStore, moduleID string) {
	newID := contentStore.Duplicate(moduleID)
	if newID == "" {
		fmt.Printf("Module %s not found.\n", moduleID)
		os.Exit(1)
	}
	fmt.Printf("Duplicated %s as %s.\n", moduleID, newID)
}

func handleDelete(contentStore *store.ContentStore, moduleID string, force bool) {
	modules := contentStore.List()
	if len(modules) <= 1 && !force {
		fmt.Println("Refusing to delete the last module (use -force to override).")
		os.Exit(1)
	}
	if !askForConfirmation(fmt.Sprintf("Delete module %s?", moduleID)) {
		fmt.Println("Aborted.")
		return
	}
	if !contentStore.Delete(moduleID) {
		fmt.Printf("Module %s not found.\n", moduleID)
		os.Exit(1)
	}
	fmt.Printf("Deleted module %s.\n", moduleID)
}

func handleRestore(contentStore *store.ContentStore, moduleID, historyID string) {
	if !contentStore.RestoreVersion(moduleID, historyID) {
		fmt.Printf("Module %s or revision %s not found.\n", moduleID, historyID)
		os.Exit(1)
	}
	fmt.Printf("Restored module %s to revision %s.\n", moduleID, historyID)
}

func handleReset(contentStore *store.ContentStore) {
	if !askForConfirmation("Replace ALL local content with the seed dataset?") {
		fmt.Println("Aborted.")
		return
	}
	contentStore.Reset()
	fmt.Printf("Collection reset (%d modules).\n", len(contentStore.List()))
}

func handleExport(contentStore *store.ContentStore) {
	data, err := json.MarshalIndent(contentStore.List(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding collection: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// askForConfirmation prompts on stdin and accepts y/yes (case-insensitive).
func askForConfirmation(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}
