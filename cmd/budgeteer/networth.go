package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fquiros/budgeteer/pkg/importer"
	"github.com/fquiros/budgeteer/pkg/models"
	"github.com/fquiros/budgeteer/pkg/report"
)

var networthCmd = &cobra.Command{
	Use:   "networth",
	Short: "Track assets and liabilities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var networthAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an asset or liability",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		itemType, _ := cmd.Flags().GetString("type")
		name, _ := cmd.Flags().GetString("name")
		category, _ := cmd.Flags().GetString("category")
		amountStr, _ := cmd.Flags().GetString("amount")
		notes, _ := cmd.Flags().GetString("notes")

		switch strings.ToLower(itemType) {
		case "asset":
			itemType = models.ItemTypeAsset
		case "liability":
			itemType = models.ItemTypeLiability
		default:
			return fmt.Errorf("--type must be asset or liability")
		}

		amount, err := importer.ParseAmount(amountStr)
		if err != nil {
			return err
		}

		item := &models.NetWorthItem{
			ItemType: itemType,
			Name:     name,
			Category: category,
			Amount:   amount,
			Notes:    notes,
		}
		id, err := st.InsertNetWorthItem(item)
		if err != nil {
			return err
		}

		fmt.Printf("added #%d: %s %s %.2f\n", id, itemType, name, amount)
		return nil
	},
}

var networthListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items and the net worth total",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		items, err := st.ListNetWorthItems()
		if err != nil {
			return err
		}

		for _, item := range items {
			fmt.Printf("%5d  %-9s  %-30s  %-20s  %12.2f  %s\n",
				item.ID, item.ItemType, item.Name, item.Category, item.Amount, item.Notes)
		}

		nw := report.ComputeNetWorth(items)
		fmt.Printf("\nAssets: %.2f  Liabilities: %.2f  Net worth: %.2f\n", nw.Assets, nw.Liabilities, nw.Net)
		return nil
	},
}

var networthRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteNetWorthItem(id); err != nil {
			return err
		}
		fmt.Printf("deleted #%d\n", id)
		return nil
	},
}

func init() {
	networthAddCmd.Flags().String("type", "", "asset or liability")
	networthAddCmd.Flags().String("name", "", "Item name")
	networthAddCmd.Flags().String("category", "Other", "Item category")
	networthAddCmd.Flags().String("amount", "", "Current value")
	networthAddCmd.Flags().String("notes", "", "Free-form notes")
	networthAddCmd.MarkFlagRequired("type")
	networthAddCmd.MarkFlagRequired("name")
	networthAddCmd.MarkFlagRequired("amount")

	networthCmd.AddCommand(networthAddCmd)
	networthCmd.AddCommand(networthListCmd)
	networthCmd.AddCommand(networthRmCmd)
	rootCmd.AddCommand(networthCmd)
}
