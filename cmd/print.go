package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treeline-dev/treeline/internal/clierr"
	"github.com/treeline-dev/treeline/internal/export"
)

var flagPrintJSON bool

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Render the task tree to stdout without a terminal UI",
	RunE:  runPrint,
}

func init() {
	printCmd.Flags().BoolVar(&flagPrintJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(printCmd)
}

func runPrint(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	root := buildTree(cfg)

	if export.Detect(flagPrintJSON) == export.FormatJSON {
		return export.JSON(os.Stdout, root)
	}

	text, err := export.Text(root, glyphsFor(cfg))
	if err != nil {
		return clierr.Newf(clierr.RenderFailed, "%v", err)
	}
	fmt.Println(text)
	return nil
}
