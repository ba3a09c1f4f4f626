package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	"github.com/GravityKit/GravityView-sub009/internal/logger"
)

var (
	renderQuery    string
	configureInput string
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Work with the fixture view's search fields",
}

var fieldsAvailableCmd = &cobra.Command{
	Use:   "available",
	Short: "List every search field the fixture form can offer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logger.ContextWithLogger(cmd.Context(), log)
		fields, err := world.service().AvailableFields(ctx, world.Form.ID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), fields)
		}
		printAvailableTable(cmd.OutOrStdout(), fields)
		return nil
	},
}

var fieldsRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the view's search fields against a query string",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := url.ParseQuery(renderQuery)
		if err != nil {
			return fmt.Errorf("invalid --query: %w", err)
		}
		ctx := logger.ContextWithLogger(cmd.Context(), log)
		data, err := world.service().Render(ctx, world.View.ID, searchfield.NewRequest(values))
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), data)
		}
		printTemplateTable(cmd.OutOrStdout(), data)
		return nil
	},
}

var fieldsConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the view's normalized search field configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logger.ContextWithLogger(cmd.Context(), log)
		cfgs, err := world.service().Configuration(ctx, world.View.ID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), cfgs)
	},
}

var fieldsConfigureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Validate and normalize a search field configuration file",
	Long: `Reads a YAML list of search field configurations, applies it to the
fixture view and prints the normalized result. Unknown field types are rejected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configureInput == "" {
			return fmt.Errorf("--input is required")
		}
		data, err := os.ReadFile(configureInput)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		var cfgs []searchfield.Configuration
		if err := yaml.Unmarshal(data, &cfgs); err != nil {
			return fmt.Errorf("parse input: %w", err)
		}
		ctx := logger.ContextWithLogger(cmd.Context(), log)
		normalized, err := world.service().Configure(ctx, world.View.ID, cfgs)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), normalized)
	},
}

var fieldsLegacyCmd = &cobra.Command{
	Use:   "legacy",
	Short: "Print the view's search fields in the legacy {field, input, title} shape",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logger.ContextWithLogger(cmd.Context(), log)
		legacy, err := world.service().Legacy(ctx, world.View.ID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), legacy)
		}
		printLegacyTable(cmd.OutOrStdout(), legacy)
		return nil
	},
}

func init() {
	fieldsRenderCmd.Flags().StringVarP(&renderQuery, "query", "q", "", "URL-encoded search request, e.g. 'filter_2=blue&gv_search=red'")
	fieldsConfigureCmd.Flags().StringVarP(&configureInput, "input", "i", "", "YAML file with the configurations to apply")

	fieldsCmd.AddCommand(fieldsAvailableCmd)
	fieldsCmd.AddCommand(fieldsRenderCmd)
	fieldsCmd.AddCommand(fieldsConfigCmd)
	fieldsCmd.AddCommand(fieldsConfigureCmd)
	fieldsCmd.AddCommand(fieldsLegacyCmd)
}
