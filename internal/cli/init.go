package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initSemantic bool

var initCmd = &cobra.Command{
	Use:   "init [project-name]",
	Short: "Initialize a new mnemo memory directory",
	Long: `Initialize a new mnemo project with a starter mnemo.yaml and the
data directories the stores use.

Examples:
  mnemo init                  # Initialize the current directory
  mnemo init assistant        # Create ./assistant and initialize it
  mnemo init --semantic=false # Durable-only configuration`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initSemantic, "semantic", true, "enable the semantic vector index")
}

func runInit(cmd *cobra.Command, args []string) error {
	projectName := "."
	if len(args) > 0 {
		projectName = args[0]
	}

	if projectName != "." {
		if err := os.MkdirAll(projectName, 0755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}
	}

	dirs := []string{
		"data",
		"data/vector_db",
	}
	for _, dir := range dirs {
		path := filepath.Join(projectName, dir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := createMemoryConfig(projectName); err != nil {
		return err
	}
	if err := createGitignore(projectName); err != nil {
		return err
	}

	fmt.Printf("Initialized mnemo project in %s\n", projectName)
	fmt.Println("\nNext steps:")
	fmt.Println("  mnemo add \"my first memory\"")
	fmt.Println("  mnemo search \"memory\"")
	fmt.Println("  mnemo stats")
	return nil
}

func createMemoryConfig(projectName string) error {
	path := filepath.Join(projectName, "mnemo.yaml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("mnemo.yaml already exists in %s", projectName)
	}

	semantic := "true"
	if !initSemantic {
		semantic = "false"
	}

	content := fmt.Sprintf(`name: my-memory

memory:
  window:
    capacity: 10

  durable:
    path: data/conversations.db

  semantic:
    enabled: %s
    path: data/vector_db
    collection: conversations
    # Use "mock" for a dependency-free deterministic embedder, or
    # all-MiniLM-L6-v2 with model_path/tokenizer for real embeddings.
    model: mock
    dimensions: 384

logging:
  level: info
  format: text
`, semantic)

	return os.WriteFile(path, []byte(content), 0644)
}

func createGitignore(projectName string) error {
	path := filepath.Join(projectName, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	content := `data/
*.db
*.log
`
	return os.WriteFile(path, []byte(content), 0644)
}
