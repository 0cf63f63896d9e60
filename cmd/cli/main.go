package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"paxboard/app"
	"paxboard/domain/passenger"
	"paxboard/internal/config"
	"paxboard/internal/container"
)

// filterFlags are the criteria flags shared by every command
type filterFlags struct {
	survived []string
	classes  []int
	sexes    []string
	ageMin   float64
	ageMax   float64
}

var (
	sourceFlag   string
	jsonPathFlag string
	filters      filterFlags
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "paxboard",
		Short:         "Filter and summarize passenger datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&sourceFlag, "source", "", "CSV/XLSX file or http(s) URL (default $DATA_SOURCE)")
	flags.StringVar(&jsonPathFlag, "json-path", "", "gjson path to the records of a JSON source")
	flags.StringSliceVar(&filters.survived, "survived", nil, "survival states to keep (Yes,No or 1,0)")
	flags.IntSliceVar(&filters.classes, "class", nil, "cabin classes to keep")
	flags.StringSliceVar(&filters.sexes, "sex", nil, "sexes to keep")
	flags.Float64Var(&filters.ageMin, "age-min", 0, "minimum age, inclusive")
	flags.Float64Var(&filters.ageMax, "age-max", 0, "maximum age, inclusive")

	rootCmd.AddCommand(
		newDescribeCmd(),
		newPreviewCmd(),
		newCountsCmd(),
		newCorrCmd(),
		newChartCmd(),
		newExportCmd(),
	)
	return rootCmd
}

// newService builds the dashboard service for the configured source.
// The snapshot archive is never opened from the CLI.
func newService(ctx context.Context) (*app.DashboardService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if sourceFlag != "" {
		cfg.Data.Source = sourceFlag
	}
	if jsonPathFlag != "" {
		cfg.Data.JSONDataPath = jsonPathFlag
	}
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "WARN"
	}

	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Warm(ctx); err != nil {
		return nil, err
	}
	return c.Service(), nil
}

// criteria builds filter criteria from the flags that were set. With no
// filter flag the result is nil, which selects every row.
func criteria(cmd *cobra.Command, svc *app.DashboardService) (*passenger.Criteria, error) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	if !changed("survived") && !changed("class") && !changed("sex") && !changed("age-min") && !changed("age-max") {
		return nil, nil
	}

	c, err := svc.DefaultCriteria(cmd.Context())
	if err != nil {
		return nil, err
	}
	if changed("survived") {
		c.Survived = filters.survived
	}
	if changed("class") {
		c.Classes = filters.classes
	}
	if changed("sex") {
		c.Sexes = filters.sexes
	}
	if changed("age-min") {
		c.AgeMin = filters.ageMin
	}
	if changed("age-max") {
		c.AgeMax = filters.ageMax
	}
	c = c.Normalize()
	return &c, nil
}

// setup is the common prologue of every command.
func setup(cmd *cobra.Command) (*app.DashboardService, *passenger.Criteria, error) {
	svc, err := newService(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	c, err := criteria(cmd, svc)
	if err != nil {
		return nil, nil, err
	}
	return svc, c, nil
}

func describeCriteria(c passenger.Criteria) string {
	classes := make([]string, len(c.Classes))
	for i, class := range c.Classes {
		classes[i] = strconv.Itoa(class)
	}
	return fmt.Sprintf("survived=[%s] class=[%s] sex=[%s] age=[%g, %g]",
		strings.Join(c.Survived, ","), strings.Join(classes, ","), strings.Join(c.Sexes, ","), c.AgeMin, c.AgeMax)
}
