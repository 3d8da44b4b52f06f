// Package papertrade implements the ledger of a single trading-simulation
// account: cash, share holdings and an append-only transaction history.
//
// The core functionalities include:
//   - Cash Management: deposits and withdrawals, never letting the cash
//     balance go negative.
//   - Trading: buying and selling whole shares at the price given by a
//     caller supplied PriceOracle, with an average-cost basis per symbol.
//   - Audit Trail: every committed operation appends one immutable
//     Transaction; the cash balance is always the exact sum of their amounts.
//   - Valuation: portfolio value and profit/loss against the cumulative
//     deposits, derived from live prices.
//
// The package performs no I/O of its own. Persistence, price sources and user
// interfaces live in the sub-packages store, quote, session, server and cmd.
package papertrade
