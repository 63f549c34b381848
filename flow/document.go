package flow

import (
	"time"

	"github.com/synthledger/core/id"
)

// EdgeKind classifies a reference between two documents in the flow DAG.
type EdgeKind int

const (
	EdgeFollows EdgeKind = iota
	EdgeSettles
	EdgeReverses
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeFollows:
		return "follows"
	case EdgeSettles:
		return "settles"
	case EdgeReverses:
		return "reverses"
	default:
		return "unknown"
	}
}

// Edge is one typed reference from a document to another, per spec §3
// ("Documents form a DAG whose edges are typed references").
type Edge struct {
	Kind EdgeKind
	To   id.ID
}

// LineItem references a Material within a document.
type LineItem struct {
	Material id.ID
	Quantity float64
	UnitCost float64
}

// Document is one node in the P2P/O2C flow DAG: a purchase order, goods
// receipt, vendor invoice, payment, sales order, delivery, customer
// invoice, or receipt, distinguished by Prefix on ID.
type Document struct {
	ID           id.ID
	Company      string
	Counterparty id.ID  // vendor or customer
	Status       string // stringified P2PState/O2CState
	DocumentDate time.Time
	Lines        []LineItem
	Edges        []Edge
}

// AddEdge appends a typed reference to another document.
func (d *Document) AddEdge(kind EdgeKind, to id.ID) {
	d.Edges = append(d.Edges, Edge{Kind: kind, To: to})
}

// DocumentReference is one flattened (from, kind, to) edge of the
// document-flow DAG, the shape the document_references output keys on.
type DocumentReference struct {
	From id.ID
	Kind EdgeKind
	To   id.ID
}

// References flattens every document's Edges into the DAG's full
// reference list, per spec §3 ("Documents form a DAG whose edges are
// typed references") and §6's document_references output.
func References(docs []*Document) []DocumentReference {
	var refs []DocumentReference
	for _, d := range docs {
		for _, e := range d.Edges {
			refs = append(refs, DocumentReference{From: d.ID, Kind: e.Kind, To: e.To})
		}
	}
	return refs
}

// TotalQuantity sums line quantities, used by three-way match tolerance
// checks in the synthesizer.
func (d Document) TotalQuantity() float64 {
	var sum float64
	for _, l := range d.Lines {
		sum += l.Quantity
	}
	return sum
}

// TotalCost sums line extended cost (quantity * unit cost).
func (d Document) TotalCost() float64 {
	var sum float64
	for _, l := range d.Lines {
		sum += l.Quantity * l.UnitCost
	}
	return sum
}
