// Package flow implements the document-flow engine (C6): the P2P and O2C
// finite state machines, deterministic shard partitioning, and the
// dunning side-state-machine, per spec §4.6.
package flow

// P2PState is one step of the Procure-to-Pay document lifecycle.
type P2PState int

const (
	POdraft P2PState = iota
	POApproved
	GRPosted
	InvoiceReceived
	InvoiceMatched
	PaymentIssued
	PaymentCleared
	POrejected
	Aborted
)

func (s P2PState) String() string {
	switch s {
	case POdraft:
		return "PO_Draft"
	case POApproved:
		return "PO_Approved"
	case GRPosted:
		return "GR_Posted"
	case InvoiceReceived:
		return "Invoice_Received"
	case InvoiceMatched:
		return "Invoice_Matched"
	case PaymentIssued:
		return "Payment_Issued"
	case PaymentCleared:
		return "Payment_Cleared"
	case POrejected:
		return "PO_Rejected"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// p2pTransitions is the adjacency table driving valid P2P moves: a small,
// data-driven rules table rather than a reflection-based dispatcher, per
// spec.md §9's "tagged variants over closed enum sets" guidance.
var p2pTransitions = map[P2PState][]P2PState{
	POdraft:         {POApproved, POrejected},
	POApproved:      {GRPosted},
	GRPosted:        {GRPosted, InvoiceReceived}, // partial GR loops here
	InvoiceReceived: {InvoiceMatched},
	InvoiceMatched:  {PaymentIssued},
	PaymentIssued:   {PaymentCleared},
}

// CanTransitionP2P reports whether to is a legal next state from from.
func CanTransitionP2P(from, to P2PState) bool {
	for _, s := range p2pTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// O2CState is one step of the Order-to-Cash document lifecycle.
type O2CState int

const (
	SOCreated O2CState = iota
	CreditCheck
	SOReleased
	Delivery
	Shipped
	InvoiceIssued
	ReceiptApplied
	CreditFailed
	Returned
	BadDebt
	O2CAborted
)

func (s O2CState) String() string {
	switch s {
	case SOCreated:
		return "SO_Created"
	case CreditCheck:
		return "Credit_Check"
	case SOReleased:
		return "SO_Released"
	case Delivery:
		return "Delivery"
	case Shipped:
		return "Shipped"
	case InvoiceIssued:
		return "Invoice_Issued"
	case ReceiptApplied:
		return "Receipt_Applied"
	case CreditFailed:
		return "Credit_Failed"
	case Returned:
		return "Returned"
	case BadDebt:
		return "Bad_Debt"
	case O2CAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

var o2cTransitions = map[O2CState][]O2CState{
	SOCreated:      {CreditCheck},
	CreditCheck:    {SOReleased, CreditFailed},
	SOReleased:     {Delivery},
	Delivery:       {Shipped, Returned},
	Shipped:        {InvoiceIssued},
	InvoiceIssued:  {ReceiptApplied, BadDebt},
	ReceiptApplied: {Returned},
}

// CanTransitionO2C reports whether to is a legal next state from from.
func CanTransitionO2C(from, to O2CState) bool {
	for _, s := range o2cTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
