package ledger

import (
	"cmp"
	"errors"
	"slices"

	"github.com/shopspring/decimal"
)

// ErrMixedCounterparties is returned when a single-counterparty view is
// requested over entries belonging to several counterparties.
var ErrMixedCounterparties = errors.New("ledger: single-counterparty view requested but entries span several")

// compareChronological orders transactions by date, then by creation time
// when both carry one, then by their position in the fetched slice.
func compareChronological(a, b Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if a.CreatedAt != nil && b.CreatedAt != nil {
		if c := a.CreatedAt.Compare(*b.CreatedAt); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Seq, b.Seq)
}

// SortChronological returns a copy of txs in ascending ledger order
func SortChronological(txs []Transaction) []Transaction {
	out := slices.Clone(txs)
	slices.SortStableFunc(out, compareChronological)
	return out
}

// ComputeRunningBalances returns txs in ascending ledger order with Balance set
// to the cumulative debit minus credit, starting from zero.
//
// With ScopeSingle every transaction must share one counterparty, otherwise
// ErrMixedCounterparties is returned. ScopeAll folds everything into one
// combined balance and must only be used when that is what the caller wants;
// per-counterparty balances come from BalancesByCounterparty.
func ComputeRunningBalances(txs []Transaction, scope Scope) ([]Transaction, error) {
	if scope != ScopeAll && spansCounterparties(txs) {
		return nil, ErrMixedCounterparties
	}
	return fold(txs), nil
}

func fold(txs []Transaction) []Transaction {
	out := SortChronological(txs)
	balance := decimal.Zero
	for i := range out {
		balance = balance.Add(out[i].Debit).Sub(out[i].Credit)
		out[i].Balance = balance
		out[i].BalanceComputed = true
	}
	return out
}

func spansCounterparties(txs []Transaction) bool {
	for i := 1; i < len(txs); i++ {
		if txs[i].CounterpartyID != txs[0].CounterpartyID {
			return true
		}
	}
	return false
}

// NewestFirst returns a reversed copy for display. Balances already attached
// are kept as computed.
func NewestFirst(txs []Transaction) []Transaction {
	out := slices.Clone(txs)
	slices.Reverse(out)
	return out
}

// FinalBalance is the balance after the last transaction in ledger order
func FinalBalance(txs []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		balance = balance.Add(tx.Debit).Sub(tx.Credit)
	}
	return balance
}

// CounterpartyBalance is the closing balance of one counterparty
type CounterpartyBalance struct {
	CounterpartyID   string          `json:"counterparty_id"`
	CounterpartyName *string         `json:"counterparty_name"`
	TotalDebit       decimal.Decimal `json:"total_debit"`
	TotalCredit      decimal.Decimal `json:"total_credit"`
	Balance          decimal.Decimal `json:"balance"`
	EntryCount       int             `json:"entry_count"`
}

// BalancesByCounterparty runs the running-balance fold separately for each
// counterparty. It returns the transactions with balances attached, in ledger
// order within each counterparty, and one closing balance per counterparty
// sorted by counterparty id.
func BalancesByCounterparty(txs []Transaction) ([]Transaction, []CounterpartyBalance) {
	groups := make(map[string][]Transaction)
	for _, tx := range txs {
		groups[tx.CounterpartyID] = append(groups[tx.CounterpartyID], tx)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	withBalances := make([]Transaction, 0, len(txs))
	balances := make([]CounterpartyBalance, 0, len(ids))
	for _, id := range ids {
		folded := fold(groups[id])
		withBalances = append(withBalances, folded...)

		cb := CounterpartyBalance{
			CounterpartyID: id,
			TotalDebit:     decimal.Zero,
			TotalCredit:    decimal.Zero,
			Balance:        decimal.Zero,
			EntryCount:     len(folded),
		}
		for _, tx := range folded {
			cb.TotalDebit = cb.TotalDebit.Add(tx.Debit)
			cb.TotalCredit = cb.TotalCredit.Add(tx.Credit)
			if cb.CounterpartyName == nil && tx.CounterpartyName != nil {
				cb.CounterpartyName = tx.CounterpartyName
			}
		}
		if len(folded) > 0 {
			cb.Balance = folded[len(folded)-1].Balance
		}
		balances = append(balances, cb)
	}
	return withBalances, balances
}

// SumBalances adds up closing balances for the "all counterparties" card
func SumBalances(balances []CounterpartyBalance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Balance)
	}
	return total
}
