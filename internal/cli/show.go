package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/covergen/internal/output"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			f, err := opts.formatter()
			if err != nil {
				return err
			}

			out, err := f.FormatList(reg.Records(), reg.DefaultName())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [TARGET]",
		Short: "Print a target (the default target when none is given)",
		Example: `  covergen show
  covergen show eyes_selenium_java_eg --format yaml
  covergen show --field '$.overrides[0]'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, _ := cmd.Flags().GetString("field")

			reg, r, err := opts.loadTarget(args)
			if err != nil {
				return err
			}

			if field != "" {
				value, err := output.FieldValue(r, field)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}

			f, err := opts.formatter()
			if err != nil {
				return err
			}
			out, err := f.FormatRecord(r, r.Name == reg.DefaultName())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().String("field", "", "Print a single field selected by a JSONPath expression")
	return cmd
}

func newPathCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path [TARGET] TEST",
		Short: "Print the file the emitter writes for a test",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			test := args[len(args)-1]
			_, r, err := opts.loadTarget(args[:len(args)-1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.OutputFile(test))
			return nil
		},
	}
}
