package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fquiros/budgeteer/pkg/cleaner"
	"github.com/fquiros/budgeteer/pkg/csv"
	"github.com/fquiros/budgeteer/pkg/importer"
	"github.com/fquiros/budgeteer/pkg/models"
	"github.com/fquiros/budgeteer/pkg/report"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a single transaction",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		dateStr, _ := cmd.Flags().GetString("date")
		description, _ := cmd.Flags().GetString("description")
		amountStr, _ := cmd.Flags().GetString("amount")
		category, _ := cmd.Flags().GetString("category")

		date, err := importer.ParseDate(dateStr)
		if err != nil {
			return err
		}
		amount, err := importer.ParseAmount(amountStr)
		if err != nil {
			return err
		}

		cleaned := cleaner.Normalize(description)
		if cleaned == "" {
			cleaned = strings.TrimSpace(description)
		}
		if cleaned == "" {
			return fmt.Errorf("description must not be empty")
		}

		transaction := &models.Transaction{
			Date:        date,
			Description: cleaned,
			Amount:      amount,
			Category:    category,
		}
		id, err := st.Insert(transaction)
		if err != nil {
			return err
		}

		fmt.Printf("added #%d: %s  %.2f  %s (%s)\n", id, transaction.DateISO(), amount, cleaned, category)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored transactions, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		transactions, err := st.List()
		if err != nil {
			return err
		}

		asCSV, _ := cmd.Flags().GetBool("csv")
		if asCSV {
			fmt.Print(string(csv.Create(transactions, cliFilters.toFilterFunc())))
			return nil
		}

		filter := cliFilters.toFilterFunc()
		for _, t := range transactions {
			if !filter(t) {
				continue
			}
			fmt.Printf("%5d  %s  %-40s  %10.2f  %s\n", t.ID, t.DateISO(), t.Description, t.Amount, t.Category)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a transaction",
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

		if err := st.Delete(id); err != nil {
			return err
		}
		fmt.Printf("deleted #%d\n", id)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Update fields of a stored transaction",
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

		transactions, err := st.List()
		if err != nil {
			return err
		}
		var target *models.Transaction
		for _, t := range transactions {
			if t.ID == id {
				target = t
				break
			}
		}
		if target == nil {
			return fmt.Errorf("no transaction with id %d", id)
		}

		if cmd.Flags().Changed("date") {
			dateStr, _ := cmd.Flags().GetString("date")
			if target.Date, err = importer.ParseDate(dateStr); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			cleaned := cleaner.Normalize(description)
			if cleaned == "" {
				cleaned = strings.TrimSpace(description)
			}
			if cleaned == "" {
				return fmt.Errorf("description must not be empty")
			}
			target.Description = cleaned
		}
		if cmd.Flags().Changed("amount") {
			amountStr, _ := cmd.Flags().GetString("amount")
			if target.Amount, err = importer.ParseAmount(amountStr); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("category") {
			target.Category, _ = cmd.Flags().GetString("category")
		}

		if err := st.Update(target); err != nil {
			return err
		}
		fmt.Printf("updated #%d\n", id)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored transactions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		confirmed, _ := cmd.Flags().GetBool("yes")
		if !confirmed {
			return fmt.Errorf("refusing to clear without --yes")
		}

		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Clear(); err != nil {
			return err
		}
		fmt.Println("all transactions deleted")
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Spending totals by category and month",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		transactions, err := st.List()
		if err != nil {
			return err
		}

		filter := cliFilters.toFilterFunc()
		var filtered []*models.Transaction
		for _, t := range transactions {
			if filter(t) {
				filtered = append(filtered, t)
			}
		}

		summary := report.Summarize(filtered)
		fmt.Printf("%d transactions, %.2f total\n\n", summary.Count, summary.Total)

		fmt.Println("By category:")
		for _, cat := range summary.ByCategory {
			fmt.Printf("  %-30s  %10.2f  (%d)\n", cat.Category, cat.Total, cat.Count)
		}

		fmt.Println("\nBy month:")
		for _, month := range summary.ByMonth {
			fmt.Printf("  %s  %10.2f  (%d)\n", month.Month, month.Total, month.Count)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().String("date", time.Now().Format("2006-01-02"), "Transaction date")
	addCmd.Flags().String("description", "", "Description")
	addCmd.Flags().String("amount", "", "Amount, e.g. 12.50 or $1,234.56")
	addCmd.Flags().String("category", models.DefaultCategory, "Category")
	addCmd.MarkFlagRequired("description")
	addCmd.MarkFlagRequired("amount")

	listCmd.Flags().Bool("csv", false, "Print as CSV")

	setCmd.Flags().String("date", "", "New date")
	setCmd.Flags().String("description", "", "New description")
	setCmd.Flags().String("amount", "", "New amount")
	setCmd.Flags().String("category", "", "New category")

	clearCmd.Flags().Bool("yes", false, "Confirm deletion")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(summaryCmd)
}
