package cmd

import (
	"github.com/abhisek/storyreel/internal/achievements"
)

// openLedger returns a read-mostly ledger over the durable store, without a
// running story session.
func (e *environment) openLedger() *achievements.Ledger {
	return achievements.NewLedger(achievements.Options{
		Catalog: e.catalog,
		KV:      e.store.Durable(),
		Events:  e.store.EventRepo(),
		Logger:  e.logger.Named("achievements"),
	})
}
