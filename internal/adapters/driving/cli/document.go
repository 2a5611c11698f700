package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"document", "docs"},
	Short:   "Manage uploaded documents",
	Long:    `List, inspect, download, or delete uploaded documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentSaveCmd = &cobra.Command{
	Use:   "save [doc-id]",
	Short: "Write the stored file to disk",
	Long: `Write the originally uploaded bytes of a document to a file.
Without --output the document's file name is used in the current directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentSave,
}

var (
	documentListJSON bool
	documentSavePath string
)

func init() {
	documentListCmd.Flags().BoolVar(&documentListJSON, "json", false, "Output as JSON")
	documentSaveCmd.Flags().StringVarP(&documentSavePath, "output", "o", "", "Destination path")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentSaveCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	svc, err := requireDocuments()
	if err != nil {
		return err
	}

	docs, err := svc.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentListJSON {
		return writeJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tUPLOADED")
	for _, d := range docs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.ID, d.FileName, d.FileSize, d.UploadedAt.Local().Format("2006-01-02 15:04"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	svc, err := requireDocuments()
	if err != nil {
		return err
	}

	doc, err := svc.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:      %s\n", doc.FileName)
	cmd.Printf("  Size:      %d bytes\n", doc.FileSize)
	cmd.Printf("  Stored at: %s\n", doc.FilePath)
	cmd.Printf("  Uploaded:  %s\n", doc.UploadedAt.Local().Format("2006-01-02 15:04:05"))

	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	svc, err := requireDocuments()
	if err != nil {
		return err
	}

	if err := svc.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

func runDocumentSave(cmd *cobra.Command, args []string) error {
	svc, err := requireDocuments()
	if err != nil {
		return err
	}

	rc, doc, err := svc.Open(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer rc.Close()

	dest := documentSavePath
	if dest == "" {
		dest = filepath.Base(doc.FileName)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	n, err := io.Copy(f, rc)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	cmd.Printf("Saved %s (%d bytes)\n", dest, n)
	return nil
}
