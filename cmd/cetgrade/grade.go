package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/cetgrade/internal/app"
	"github.com/verte-zerg/cetgrade/internal/assess"
	"github.com/verte-zerg/cetgrade/internal/model"
	"github.com/verte-zerg/cetgrade/internal/score"
)

var (
	gradeSource          string
	gradeTranslation     string
	gradeSourceFile      string
	gradeTranslationFile string
	gradeJSON            bool

	sessionJSON bool
)

func newGradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade one translation and print the result",
		Args:  cobra.NoArgs,
		RunE:  runGradeCmd,
	}
	cmd.Flags().StringVar(&gradeSource, "source", "", "Chinese source text")
	cmd.Flags().StringVar(&gradeTranslation, "translation", "", "English translation")
	cmd.Flags().StringVar(&gradeSourceFile, "source-file", "", "read the source text from a file ('-' for stdin)")
	cmd.Flags().StringVar(&gradeTranslationFile, "translation-file", "", "read the translation from a file ('-' for stdin)")
	cmd.Flags().BoolVar(&gradeJSON, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("source", "source-file")
	cmd.MarkFlagsMutuallyExclusive("translation", "translation-file")
	return cmd
}

func runGradeCmd(cmd *cobra.Command, _ []string) error {
	if gradeSourceFile == "-" && gradeTranslationFile == "-" {
		return fmt.Errorf("only one of --source-file and --translation-file may read stdin")
	}
	source, err := readText(cmd.InOrStdin(), gradeSource, gradeSourceFile)
	if err != nil {
		return fmt.Errorf("failed to read source text: %w", err)
	}
	translation, err := readText(cmd.InOrStdin(), gradeTranslation, gradeTranslationFile)
	if err != nil {
		return fmt.Errorf("failed to read translation: %w", err)
	}

	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.shell.SetInputs(source, translation)
	future, err := rt.shell.Grade(cmd.Context())
	if errors.Is(err, app.ErrBlankInput) {
		return errors.New(app.BlankInputMessage)
	}
	if err != nil {
		return err
	}
	if err := rt.shell.Finish(cmd.Context(), future); err != nil {
		if errors.Is(err, assess.ErrService) {
			return errors.New(assess.UserMessage)
		}
		return err
	}

	st := rt.shell.State()
	if gradeJSON {
		return writeJSON(cmd.OutOrStdout(), st.Result)
	}
	return writeLines(cmd.OutOrStdout(), formatSession(st.Session(), outputStyle(cmd.OutOrStdout())))
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the saved grading session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			return rt.shell.Reset(cmd.Context())
		},
	}
}

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Print the saved grading session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			st := rt.shell.State()
			if st.Session().Empty() {
				return writeLines(cmd.OutOrStdout(), []string{"没有保存的评分记录"})
			}
			if sessionJSON {
				return writeJSON(cmd.OutOrStdout(), st.Session())
			}
			return writeLines(cmd.OutOrStdout(), formatSession(st.Session(), outputStyle(cmd.OutOrStdout())))
		},
	}
	cmd.Flags().BoolVar(&sessionJSON, "json", false, "print the session as JSON")
	return cmd
}

func readText(stdin io.Reader, value, path string) (string, error) {
	switch path {
	case "":
		return value, nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
}

// styler colours output only when writing to a terminal.
type styler struct {
	color bool
	width int
}

func outputStyle(w io.Writer) styler {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return styler{width: 60}
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = 60
	}
	return styler{color: true, width: min(width, 100)}
}

func (s styler) heading(text string) string {
	if !s.color {
		return "== " + text + " =="
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true).Render(text)
}

func (s styler) badge(value int) string {
	band := score.BandFor(value)
	text := fmt.Sprintf("%d/%d %s", value, model.MaxScore, band.Label)
	if !s.color {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(band.Color).Bold(true).Padding(0, 1).Render(text)
}

func (s styler) rule() string {
	return strings.Repeat("─", s.width)
}

func formatSession(session model.Session, s styler) []string {
	lines := []string{
		s.rule(),
		s.heading("中文原文"), session.SourceText, "",
		s.heading("你的译文"), session.TranslationText,
	}
	res := session.Result
	if res == nil {
		return append(lines, s.rule())
	}
	lines = append(lines, "", "得分: "+s.badge(res.Score), "")
	lines = append(lines, s.heading("阅卷评语"), res.Comments, "")
	lines = append(lines, s.heading("参考译文"), res.StandardTranslation, "")
	lines = append(lines, s.heading("修改建议"))
	if len(res.Improvements) == 0 {
		lines = append(lines, "无")
	}
	for i, imp := range res.Improvements {
		lines = append(lines,
			fmt.Sprintf("%d. 原文: %s", i+1, imp.OriginalSnippet),
			fmt.Sprintf("   修改: %s", imp.RevisedSnippet),
			fmt.Sprintf("   说明: %s", imp.Explanation))
	}
	lines = append(lines, "", s.heading("积累表达"))
	if len(res.Vocabulary) == 0 {
		lines = append(lines, "无")
	}
	for i, v := range res.Vocabulary {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, v))
	}
	return append(lines, s.rule())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
