package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AllocationEdits counts whole-set edits by outcome ("applied"/"rejected").
	AllocationEdits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_ledger_allocation_edits_total",
		Help: "Allocation set edits by outcome.",
	}, []string{"result"})

	// Transfers counts employee assignments moved between employees.
	Transfers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asset_ledger_assignments_transferred_total",
		Help: "Employee assignments transferred to another employee.",
	})
)
