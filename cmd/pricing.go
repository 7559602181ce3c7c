package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/bkcost/internal/cli"
	"github.com/theirongolddev/bkcost/internal/config"
	"github.com/theirongolddev/bkcost/internal/model"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Show the resolved price list and where each price comes from",
	RunE:  runPricing,
}

func init() {
	rootCmd.AddCommand(pricingCmd)
}

func runPricing(_ *cobra.Command, _ []string) error {
	pricing, err := config.ResolvePricing(appCfg)
	if err != nil {
		return err
	}
	env, err := config.EnvPricingOverrides()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PRICING  USD"))
	fmt.Println()

	tierOverrides := map[model.StorageTier][2]*float64{
		model.TierStandard:         {appCfg.Pricing.StandardPerGB, env.StandardPerGB},
		model.TierInfrequentAccess: {appCfg.Pricing.InfrequentAccessPerGB, env.InfrequentAccessPerGB},
		model.TierArchive:          {appCfg.Pricing.ArchivePerGB, env.ArchivePerGB},
	}

	rows := make([][]string, 0, len(model.StorageTiers)+2)
	for _, tier := range model.StorageTiers {
		price, _ := pricing.StorageCost(tier)
		o := tierOverrides[tier]
		rows = append(rows, []string{
			tier.Label() + " storage",
			"$" + strconv.FormatFloat(price, 'f', -1, 64) + " / GB-month",
			priceSource(o[0], o[1]),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"Transfer",
		"$" + strconv.FormatFloat(pricing.TransferCostPerGB, 'f', -1, 64) + " / GB",
		priceSource(appCfg.Pricing.TransferPerGB, env.TransferPerGB),
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Charge", "Price", "Source"},
		Rows:    rows,
	}))
	fmt.Println("  Transfer is charged for every backup created, retained or not.")
	fmt.Println()
	return nil
}

func priceSource(file, env *float64) string {
	switch {
	case env != nil:
		return "environment"
	case file != nil:
		return "config file"
	default:
		return "reference"
	}
}
