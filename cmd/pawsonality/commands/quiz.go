// ABOUTME: Quiz commands: questions, classify and types
// ABOUTME: Work from the catalog alone and need no knowledge base
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/2jang/Pawsonality/internal/personality"
)

// NewQuestionsCmd creates the questions command
func NewQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the quiz questions",
		Long: `List the 12 quiz questions with their A and B options.

Answer them with the classify command, one letter per question in order.`,
		Args: cobra.NoArgs,
		RunE: runQuestions,
	}
}

func runQuestions(cmd *cobra.Command, args []string) error {
	a, err := loadBase()
	if err != nil {
		return err
	}
	questions := a.Catalog.Questions()

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), questions)
	}

	w := cmd.OutOrStdout()
	for _, q := range questions {
		fmt.Fprintf(w, "%2d. %s\n", q.ID, q.Title)
		fmt.Fprintf(w, "    A) %s\n", q.OptionA)
		fmt.Fprintf(w, "    B) %s\n\n", q.OptionB)
	}
	return nil
}

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <answers>",
		Short: "Classify quiz answers into a personality type",
		Long: `Classify quiz answers into one of the 16 Pawsonality types.

Answers are either one A/B letter per question in order, or id=letter pairs.

Examples:
  pawsonality classify AABABBBBAABA
  pawsonality classify "1=A,2=A,3=B,4=A,5=B,6=B,7=B,8=B,9=A,10=A,11=B,12=A"
  pawsonality classify --format json BBBBBBBBBBBB`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	a, err := loadBase()
	if err != nil {
		return err
	}

	sub, err := personality.ParseAnswers(args[0], a.Catalog.Questions())
	if err != nil {
		return err
	}
	result, err := a.Catalog.Result(sub)
	if err != nil {
		return fmt.Errorf("classifying answers: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), result)
	}

	pt, _ := a.Catalog.Type(result.Code)
	best, good, err := a.Catalog.Matches(result.Code)
	if err != nil {
		return err
	}
	printType(cmd.OutOrStdout(), pt, best, good)
	return nil
}

// NewTypesCmd creates the types command
func NewTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types [code]",
		Short: "List personality types or show one",
		Long: `List all 16 Pawsonality types, or show the details of one type.

Examples:
  pawsonality types
  pawsonality types WTIL`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTypes,
	}
}

func runTypes(cmd *cobra.Command, args []string) error {
	a, err := loadBase()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		pt, ok := a.Catalog.Type(args[0])
		if !ok {
			return fmt.Errorf("unknown personality type: %s", strings.ToUpper(args[0]))
		}
		if jsonOutput() {
			return printJSON(cmd.OutOrStdout(), pt)
		}
		best, good, err := a.Catalog.Matches(pt.Code)
		if err != nil {
			return err
		}
		printType(cmd.OutOrStdout(), pt, best, good)
		return nil
	}

	types := a.Catalog.Types()
	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), types)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CODE\tMBTI\tNAME\tDESCRIPTION\n")
	fmt.Fprintf(w, "----\t----\t----\t-----------\n")
	for _, pt := range types {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", pt.Code, pt.MBTI, pt.Name, truncate(pt.Description, 60))
	}
	return w.Flush()
}
