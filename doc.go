// Package capgains computes realized capital gains for brokerage accounts.
//
// Acquisitions open lots, disposals consume them first-in first-out, and each
// disposal yields a tax-relevant result: cost basis valued at the acquisition
// dates, revenue and profit in the trade currency, and their counterparts in
// the tax residency currency valued at the settlement date. A jurisdiction
// rule turns the local profit into the tax due.
//
// The package also simulates selling open positions at current market quotes
// without touching the recorded history.
package capgains
