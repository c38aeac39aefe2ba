package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/covergen/internal/config"
	"github.com/wesleyorama2/covergen/internal/output"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [TARGET...]",
		Short: "Check targets for malformed fields",
		Long: `Validate checks every field of the named targets (all targets when none
are named) and reports each malformed field by path.

With --file the records of a targets file are checked one by one, so a
single bad record does not hide problems in the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			records, err := opts.recordsToValidate(file, args)
			if err != nil {
				return err
			}

			results := make([]output.ValidationResult, 0, len(records))
			failed := 0
			for _, r := range records {
				errs := config.Validate(r)
				if len(errs) > 0 {
					failed++
					opts.logger.Debug("target is malformed",
						zap.String("target", r.Name),
						zap.Int("errors", len(errs)))
				}
				results = append(results, output.NewValidationResult(r.Name, errs))
			}

			f, err := opts.formatter()
			if err != nil {
				return err
			}
			out, err := f.FormatValidation(results)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			if failed > 0 {
				return fmt.Errorf("%d of %d targets are malformed", failed, len(records))
			}
			return nil
		},
	}

	cmd.Flags().String("file", "", "Validate the records of a targets file instead of the registry")
	return cmd
}

func (o *rootOptions) recordsToValidate(file string, names []string) ([]config.Record, error) {
	if file != "" {
		f, err := config.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return f.Targets, nil
		}
		byName := make(map[string]config.Record, len(f.Targets))
		for _, r := range f.Targets {
			byName[r.Name] = r
		}
		records := make([]config.Record, 0, len(names))
		for _, name := range names {
			r, ok := byName[name]
			if !ok {
				return nil, &config.NotFoundError{Name: name}
			}
			records = append(records, r)
		}
		return records, nil
	}

	reg, err := o.registry()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return reg.Records(), nil
	}
	records := make([]config.Record, 0, len(names))
	for _, name := range names {
		r, err := reg.Load(name)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
