package service

import (
	"context"
	"fmt"

	"github.com/sangkips/tradebook-api/pkg/spreadsheet"
)

const exportDateLayout = "2006-01-02"

// Export is a rendered statement workbook
type Export struct {
	Filename string
	Data     []byte
}

// ExportStatement renders the whole filtered statement, oldest first, with a
// totals sheet and the pending balances of the same scope.
func (s *LedgerService) ExportStatement(ctx context.Context, q StatementQuery) (*Export, error) {
	records, statement, err := s.statementRecords(ctx, q)
	if err != nil {
		return nil, err
	}
	pending, err := s.PendingBalances(ctx, PendingQuery{LedgerType: q.LedgerType, CounterpartyID: q.CounterpartyID})
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, len(records))
	for i, tx := range records {
		rows[i] = []interface{}{
			tx.Date.In(s.loc).Format(exportDateLayout),
			displayName(tx.CounterpartyName),
			string(tx.Type),
			tx.ReferenceLabel,
			string(tx.Method),
			tx.Description,
			tx.Debit.StringFixed(2),
			tx.Credit.StringFixed(2),
			tx.Balance.StringFixed(2),
		}
	}

	t := statement.Totals
	totals := [][]interface{}{
		{"Total debit", t.TotalDebit.StringFixed(2)},
		{"Total credit", t.TotalCredit.StringFixed(2)},
		{"Total paid", t.TotalPaid.StringFixed(2)},
		{"Cash paid", t.CashPaid.StringFixed(2)},
		{"Bank paid", t.BankPaid.StringFixed(2)},
		{"Pending", t.TotalPending.StringFixed(2)},
		{"Closing balance", statement.ClosingBalance.StringFixed(2)},
		{"Entries", t.Count},
	}

	pendingRows := make([][]interface{}, len(pending.Records))
	for i, p := range pending.Records {
		pendingRows[i] = []interface{}{
			p.ReferenceLabel,
			displayName(p.CounterpartyName),
			p.Date.In(s.loc).Format(exportDateLayout),
			p.TotalAmount.StringFixed(2),
			p.TotalPaid.StringFixed(2),
			p.Amount.StringFixed(2),
			string(p.Status),
		}
	}

	data, err := spreadsheet.Write(
		spreadsheet.Sheet{
			Name:    "Statement",
			Headers: []string{"Date", "Counterparty", "Type", "Reference", "Method", "Description", "Debit", "Credit", "Balance"},
			Rows:    rows,
		},
		spreadsheet.Sheet{
			Name:    "Totals",
			Headers: []string{"Figure", "Amount"},
			Rows:    totals,
		},
		spreadsheet.Sheet{
			Name:    "Pending",
			Headers: []string{"Reference", "Counterparty", "Date", "Total", "Paid", "Remaining", "Status"},
			Rows:    pendingRows,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("render statement: %w", err)
	}

	return &Export{Filename: exportFilename(q, s.now()), Data: data}, nil
}

func displayName(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}

