package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cetgrade/internal/library"
	"github.com/verte-zerg/cetgrade/internal/model"
)

var (
	vocabListCategory   string
	vocabAddCategory    string
	vocabEditContent    string
	vocabEditCategory   string
	vocabDeleteYes      bool
	vocabExportDir      string
	vocabImportCategory string
)

func newVocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Manage the vocabulary library",
	}
	cmd.AddCommand(newVocabListCmd())
	cmd.AddCommand(newVocabAddCmd())
	cmd.AddCommand(newVocabEditCmd())
	cmd.AddCommand(newVocabDeleteCmd())
	cmd.AddCommand(newVocabExportCmd())
	cmd.AddCommand(newVocabImportCmd())
	return cmd
}

func newVocabListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved expressions, newest first",
		Args:  cobra.NoArgs,
		RunE:  runVocabListCmd,
	}
	cmd.Flags().StringVar(&vocabListCategory, "category", library.FilterAll, "category filter")
	return cmd
}

func runVocabListCmd(cmd *cobra.Command, _ []string) error {
	if vocabListCategory != library.FilterAll && !model.IsCategory(vocabListCategory) {
		return unknownCategoryError(vocabListCategory)
	}
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	items := library.Filter(rt.shell.State().Library, vocabListCategory)
	if len(items) == 0 {
		return writeLines(cmd.OutOrStdout(), []string{"暂无收藏的表达"})
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.Category,
			item.CreatedAt.Local().Format("2006-01-02 15:04"),
			item.Content,
		})
	}
	lines := library.FormatTable([]string{"ID", "分类", "时间", "内容"}, rows, nil)
	lines = append(lines, "", fmt.Sprintf("共 %d 条", len(items)))
	return writeLines(cmd.OutOrStdout(), lines)
}

func newVocabAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Add one expression",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runVocabAddCmd,
	}
	cmd.Flags().StringVar(&vocabAddCategory, "category", model.Categories[0], "category")
	return cmd
}

func runVocabAddCmd(cmd *cobra.Command, args []string) error {
	if !model.IsCategory(vocabAddCategory) {
		return unknownCategoryError(vocabAddCategory)
	}
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	item, err := rt.shell.AddItem(cmd.Context(), strings.Join(args, " "), vocabAddCategory)
	if err != nil {
		return err
	}
	return writeLines(cmd.OutOrStdout(), []string{item.ID})
}

func newVocabEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the content or category of an expression",
		Args:  cobra.ExactArgs(1),
		RunE:  runVocabEditCmd,
	}
	cmd.Flags().StringVar(&vocabEditContent, "content", "", "new content")
	cmd.Flags().StringVar(&vocabEditCategory, "category", "", "new category")
	return cmd
}

func runVocabEditCmd(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("content") && !cmd.Flags().Changed("category") {
		return fmt.Errorf("nothing to change: pass --content and/or --category")
	}
	if cmd.Flags().Changed("category") && !model.IsCategory(vocabEditCategory) {
		return unknownCategoryError(vocabEditCategory)
	}
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	item, ok := library.Find(rt.shell.State().Library, args[0])
	if !ok {
		return fmt.Errorf("no expression with id %s", args[0])
	}
	content, category := item.Content, item.Category
	applyStringFlag(cmd, "content", &content, vocabEditContent)
	applyStringFlag(cmd, "category", &category, vocabEditCategory)
	return rt.shell.EditItem(cmd.Context(), item.ID, content, category)
}

func newVocabDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expression",
		Args:  cobra.ExactArgs(1),
		RunE:  runVocabDeleteCmd,
	}
	cmd.Flags().BoolVarP(&vocabDeleteYes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func runVocabDeleteCmd(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	item, ok := library.Find(rt.shell.State().Library, args[0])
	if !ok {
		return fmt.Errorf("no expression with id %s", args[0])
	}
	if !vocabDeleteYes {
		confirmed, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("%s\n确定要删除这条表达吗？ [y/N] ", item.Content))
		if err != nil {
			return err
		}
		if !confirmed {
			return writeLines(cmd.OutOrStdout(), []string{"已取消"})
		}
	}
	return rt.shell.DeleteItem(cmd.Context(), item.ID)
}

func newVocabExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the library as a text file",
		Args:  cobra.NoArgs,
		RunE:  runVocabExportCmd,
	}
	cmd.Flags().StringVar(&vocabExportDir, "dir", "", "output directory (default: configured export dir)")
	return cmd
}

func runVocabExportCmd(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	dir := rt.settings.ExportDir
	applyStringFlag(cmd, "dir", &dir, vocabExportDir)
	path, err := rt.shell.Export(dir)
	if errors.Is(err, library.ErrEmptyLibrary) {
		return writeLines(cmd.OutOrStdout(), []string{"表达库为空，无需导出"})
	}
	if err != nil {
		return err
	}
	return writeLines(cmd.OutOrStdout(), []string{path})
}

func newVocabImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add one expression per non-blank line of a file ('-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runVocabImportCmd,
	}
	cmd.Flags().StringVar(&vocabImportCategory, "category", model.Categories[0], "category for every imported line")
	return cmd
}

func runVocabImportCmd(cmd *cobra.Command, args []string) error {
	if !model.IsCategory(vocabImportCategory) {
		return unknownCategoryError(vocabImportCategory)
	}
	var (
		contents []string
		err      error
	)
	if args[0] == "-" {
		contents, err = library.ScanLines(cmd.InOrStdin())
	} else {
		contents, err = library.ReadLines(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	added, err := rt.shell.SaveVocabulary(cmd.Context(), contents, vocabImportCategory)
	if err != nil {
		return err
	}
	return writeLines(cmd.OutOrStdout(), []string{fmt.Sprintf("已导入 %d 条表达到「%s」", len(added), vocabImportCategory)})
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write output: %w", err)
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func unknownCategoryError(name string) error {
	return fmt.Errorf("unknown category %q (available: %s)", name, strings.Join(model.Categories, ", "))
}
