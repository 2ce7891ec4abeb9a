package commands

import (
	"fmt"
	"strconv"

	"github.com/boxwithpython/litnet-dataset/pkg/litnet"
	"github.com/boxwithpython/litnet-dataset/pkg/litnetclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewBookCommand creates the book command.
func NewBookCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "book BOOK_ID...",
		Short: "Get book details",
		Long:  "Authorize once and display the catalog record of each given book id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookIDs := make([]int, 0, len(args))

			for _, arg := range args {
				bookID, err := parseBookID(arg)
				if err != nil {
					return err
				}

				bookIDs = append(bookIDs, bookID)
			}

			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg)
			defer func() { _ = logger.Sync() }()

			catalog, err := litnetclient.New(cmd.Context(), clientConfig(cfg, logger, nil))
			if err != nil {
				return err
			}

			records := make([]litnet.Record, 0, len(bookIDs))

			for _, bookID := range bookIDs {
				record, err := catalog.Book(cmd.Context(), bookID)
				if err != nil {
					return fmt.Errorf("failed to get book %d: %w", bookID, err)
				}

				records = append(records, record)
			}

			if len(records) == 1 {
				return renderRecord(cmd.OutOrStdout(), cfg.Output, records[0])
			}

			return render(cmd.OutOrStdout(), cfg.Output, records, func(table *tablewriter.Table) {
				table.Header("Book", "Field", "Value")

				for i, record := range records {
					book := strconv.Itoa(bookIDs[i])
					for _, row := range recordRows(record) {
						_ = table.Append([]string{book, row[0], row[1]})
					}
				}
			})
		},
	}
}
