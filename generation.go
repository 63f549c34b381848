package synth

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/synthledger/core/flow"
	"github.com/synthledger/core/id"
	"github.com/synthledger/core/journal"
	"github.com/synthledger/core/registry"
	"github.com/synthledger/core/rng"
	"github.com/synthledger/core/schedule"
)

// entryCollector accumulates journal entries produced by flow.Worker
// closures running across shard goroutines. Each shard goroutine calls a
// worker sequentially, so contention is rare; a mutex keeps the
// accumulation correct without threading a return channel through
// flow.RunShards.
type entryCollector struct {
	mu      sync.Mutex
	entries []*journal.Entry
}

func (c *entryCollector) add(entries ...*journal.Entry) {
	if len(entries) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entries...)
}

func (c *entryCollector) drain() []*journal.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries
}

// runFlows builds one flow.FlowKey per company per configured flow count,
// partitions them across shards, and walks each flow's P2P or O2C state
// machine, synthesizing a journal entry at every transition with
// accounting impact.
func (o *Orchestrator) runFlows(reg *registry.Registry, synthesizer *journal.Synthesizer, sched *schedule.Scheduler, stream *rng.Stream, namespace uuid.UUID, windowDays int) ([]*journal.Entry, []*flow.Document, []*flow.PartialFlowError) {
	var keys []flow.FlowKey
	for _, c := range o.cfg.Companies {
		for i := 0; i < o.cfg.Flow.FlowsPerCompany; i++ {
			keys = append(keys, flow.FlowKey{Company: c.Code, FlowIndex: i})
		}
	}
	if len(keys) == 0 {
		return nil, nil, nil
	}

	rateP2P, rateO2C := o.cfg.Flow.RateP2P, o.cfg.Flow.RateO2C
	if total := rateP2P + rateO2C; total > 1.0 {
		o.logger.Warn("synth: flow_rate_p2p + flow_rate_o2c exceeds 1.0, downscaling proportionally",
			"rate_p2p", rateP2P, "rate_o2c", rateO2C, "error", ErrFlowRateOverCommit)
		rateP2P /= total
		rateO2C /= total
	}

	collector := &entryCollector{}
	windowStart := o.cfg.StartDate

	worker := func(key flow.FlowKey, fstream *rng.Stream) ([]*flow.Document, error) {
		isP2P := true
		if pTotal := rateP2P + rateO2C; pTotal > 0 {
			isP2P = fstream.Bool(rateP2P / pTotal)
		}
		day := windowStart
		if windowDays > 1 {
			day = windowStart.AddDate(0, 0, fstream.UniformInt(0, windowDays-1))
		}

		var docs []*flow.Document
		var entries []*journal.Entry
		if isP2P {
			docs, entries = o.walkP2P(reg, synthesizer, sched, namespace, key, day, fstream)
		} else {
			docs, entries = o.walkO2C(reg, synthesizer, sched, namespace, key, day, fstream)
		}
		collector.add(entries...)
		return docs, nil
	}

	docs, aborts := flow.RunShards(keys, o.cfg.Flow.ShardCount, stream, worker)
	return collector.drain(), docs, aborts
}

// nextDay advances candidateDay by a uniformly sampled 1..maxDays, never
// going backwards.
func nextDay(candidateDay time.Time, stream *rng.Stream, maxDays int) time.Time {
	if maxDays < 1 {
		maxDays = 1
	}
	return candidateDay.AddDate(0, 0, stream.UniformInt(1, maxDays))
}

func requireP2P(from, to flow.P2PState) flow.P2PState {
	if !flow.CanTransitionP2P(from, to) {
		panic(fmt.Sprintf("synth: illegal P2P transition %s -> %s", from, to))
	}
	return to
}

func requireO2C(from, to flow.O2CState) flow.O2CState {
	if !flow.CanTransitionO2C(from, to) {
		panic(fmt.Sprintf("synth: illegal O2C transition %s -> %s", from, to))
	}
	return to
}

// scaleLineItems returns a copy of lines with every quantity multiplied by
// factor, used to split a PO's ordered quantity across partial goods
// receipts or to jitter a receipt/invoice away from what was ordered.
func scaleLineItems(lines []flow.LineItem, factor float64) []flow.LineItem {
	out := make([]flow.LineItem, len(lines))
	for i, l := range lines {
		out[i] = flow.LineItem{Material: l.Material, Quantity: l.Quantity * factor, UnitCost: l.UnitCost}
	}
	return out
}

// jitterUnitCost returns a copy of lines with every unit cost nudged by up
// to +/-spread, simulating the vendor invoice pricing a PO line slightly
// differently than ordered.
func jitterUnitCost(lines []flow.LineItem, stream *rng.Stream, spread float64) []flow.LineItem {
	out := make([]flow.LineItem, len(lines))
	for i, l := range lines {
		factor := 1.0 + (stream.Float64()*2-1)*spread
		out[i] = flow.LineItem{Material: l.Material, Quantity: l.Quantity, UnitCost: l.UnitCost * factor}
	}
	return out
}

// sampleOrderLines draws 1-3 line items from the material master for a new
// purchase order.
func sampleOrderLines(materials []registry.Material, stream *rng.Stream) []flow.LineItem {
	if len(materials) == 0 {
		return nil
	}
	lines := make([]flow.LineItem, 1+stream.UniformInt(0, 2))
	for i := range lines {
		m := materials[stream.UniformInt(0, len(materials)-1)]
		lines[i] = flow.LineItem{
			Material: m.ID,
			Quantity: float64(1 + stream.UniformInt(1, 200)),
			UnitCost: m.UnitPrice.Float64(),
		}
	}
	return lines
}

// walkP2P walks one procure-to-pay instance: purchase order, goods
// receipt(s), vendor invoice, payment, each a separate Document linked by
// EdgeFollows/EdgeSettles, per spec §3/§4.6. It may terminate early at PO
// rejection. The goods receipt occasionally posts in two partial
// shipments (the GRPosted -> GRPosted self-loop), and the resulting
// three-way match between PO/GR quantities and PO/invoice prices is
// checked against the configured tolerances, flagging the invoice-matched
// entry when the match falls outside them.
func (o *Orchestrator) walkP2P(reg *registry.Registry, synthesizer *journal.Synthesizer, sched *schedule.Scheduler, namespace uuid.UUID, key flow.FlowKey, candidateDay time.Time, stream *rng.Stream) ([]*flow.Document, []*journal.Entry) {
	vendors := reg.Vendors()
	if len(vendors) == 0 {
		return nil, nil
	}
	vendor := vendors[stream.UniformInt(0, len(vendors)-1)]
	label := fmt.Sprintf("flow/p2p/%s/%d", key.Company, key.FlowIndex)

	poID := id.New(namespace, id.PrefixPO, label, key.FlowIndex)
	po := &flow.Document{ID: poID, Company: key.Company, Counterparty: vendor.ID, Status: flow.POdraft.String(), DocumentDate: candidateDay, Lines: sampleOrderLines(reg.Materials(), stream)}
	docs := []*flow.Document{po}

	state := flow.POdraft
	if !stream.Bool(0.9) {
		state = requireP2P(state, flow.POrejected)
		po.Status = state.String()
		return docs, nil
	}
	state = requireP2P(state, flow.POApproved)
	po.Status = state.String()

	var entries []*journal.Entry

	day := nextDay(candidateDay, stream, 5)
	grLines := jitterUnitCost(po.Lines, stream, 0) // same price, quantity adjusted below
	partialGR := len(po.Lines) > 0 && stream.Bool(0.2)

	var grID id.ID
	var grTotalQty float64
	if partialGR {
		firstShare := 0.4 + stream.Float64()*0.3 // first shipment covers 40-70%
		firstLines := scaleLineItems(grLines, firstShare)
		firstID := id.New(namespace, id.PrefixGR, label+"/1", key.FlowIndex)
		firstGR := &flow.Document{ID: firstID, Company: key.Company, Counterparty: vendor.ID, DocumentDate: day, Lines: firstLines}
		firstGR.AddEdge(flow.EdgeFollows, poID)
		state = requireP2P(state, flow.GRPosted)
		firstGR.Status = state.String()
		docs = append(docs, firstGR)
		docDate, postDate := sched.Assign("Interface", key.Company, day, stream)
		if e, err := synthesizer.FromTransition("P2P", "GR_Posted", key.Company, firstID, docDate, postDate, stream, key.FlowIndex); err == nil {
			entries = append(entries, e)
		} else {
			o.plugins.EmitTemplateDropped(context.Background(), "P2P", "GR_Posted", err)
		}

		day = nextDay(day, stream, 3)
		secondLines := scaleLineItems(grLines, 1-firstShare)
		secondID := id.New(namespace, id.PrefixGR, label+"/2", key.FlowIndex)
		secondGR := &flow.Document{ID: secondID, Company: key.Company, Counterparty: vendor.ID, DocumentDate: day, Lines: secondLines}
		secondGR.AddEdge(flow.EdgeFollows, poID)
		state = requireP2P(state, flow.GRPosted) // partial-GR self-loop
		secondGR.Status = state.String()
		docs = append(docs, secondGR)
		docDate, postDate = sched.Assign("Interface", key.Company, day, stream)
		if e, err := synthesizer.FromTransition("P2P", "GR_Posted", key.Company, secondID, docDate, postDate, stream, key.FlowIndex); err == nil {
			entries = append(entries, e)
		} else {
			o.plugins.EmitTemplateDropped(context.Background(), "P2P", "GR_Posted", err)
		}

		grID = secondID
		grTotalQty = firstGR.TotalQuantity() + secondGR.TotalQuantity()
	} else {
		state = requireP2P(state, flow.GRPosted)
		grID = id.New(namespace, id.PrefixGR, label, key.FlowIndex)
		jittered := scaleLineItems(grLines, 1.0+(stream.Float64()*2-1)*0.03)
		gr := &flow.Document{ID: grID, Company: key.Company, Counterparty: vendor.ID, Status: state.String(), DocumentDate: day, Lines: jittered}
		gr.AddEdge(flow.EdgeFollows, poID)
		docs = append(docs, gr)
		docDate, postDate := sched.Assign("Interface", key.Company, day, stream)
		if e, err := synthesizer.FromTransition("P2P", "GR_Posted", key.Company, grID, docDate, postDate, stream, key.FlowIndex); err == nil {
			entries = append(entries, e)
		} else {
			o.plugins.EmitTemplateDropped(context.Background(), "P2P", "GR_Posted", err)
		}
		grTotalQty = gr.TotalQuantity()
	}

	day = nextDay(day, stream, 4)
	state = requireP2P(state, flow.InvoiceReceived)
	state = requireP2P(state, flow.InvoiceMatched)
	invID := id.New(namespace, id.PrefixVendorInv, label, key.FlowIndex)
	invLines := jitterUnitCost(po.Lines, stream, 0.015)
	inv := &flow.Document{ID: invID, Company: key.Company, Counterparty: vendor.ID, Status: state.String(), DocumentDate: day, Lines: invLines}
	inv.AddEdge(flow.EdgeFollows, grID)
	docs = append(docs, inv)
	docDate, postDate := sched.Assign("Interface", key.Company, day, stream)
	e, err := synthesizer.FromTransition("P2P", "Invoice_Matched", key.Company, invID, docDate, postDate, stream, key.FlowIndex)
	if err == nil {
		e.ThreeWayMatchTolerance = !threeWayMatchExact(po, grTotalQty, inv, o.cfg.Flow.QtyTolerance, o.cfg.Flow.PriceTolerance)
		entries = append(entries, e)
	} else {
		o.plugins.EmitTemplateDropped(context.Background(), "P2P", "Invoice_Matched", err)
	}

	payDays := vendor.PaymentTermsDays
	if payDays <= 0 {
		payDays = 30
	}
	day = day.AddDate(0, 0, payDays)
	state = requireP2P(state, flow.PaymentIssued)
	state = requireP2P(state, flow.PaymentCleared)
	payID := id.New(namespace, id.PrefixPayment, label, key.FlowIndex)
	pay := &flow.Document{ID: payID, Company: key.Company, Counterparty: vendor.ID, Status: state.String(), DocumentDate: day}
	pay.AddEdge(flow.EdgeSettles, invID)
	docs = append(docs, pay)
	docDate, postDate = sched.Assign("Batch", key.Company, day, stream)
	if e, err := synthesizer.FromTransition("P2P", "Payment_Cleared", key.Company, payID, docDate, postDate, stream, key.FlowIndex); err == nil {
		entries = append(entries, e)
	} else {
		o.plugins.EmitTemplateDropped(context.Background(), "P2P", "Payment_Cleared", err)
	}

	return docs, entries
}

// threeWayMatchExact reports whether a PO's quantity and price match the
// received quantity and invoiced price within tol. A PO with no lines
// always matches (nothing to compare against).
func threeWayMatchExact(po *flow.Document, grQty float64, inv *flow.Document, qtyTol, priceTol float64) bool {
	poQty := po.TotalQuantity()
	if poQty > 0 {
		if math.Abs(poQty-grQty)/poQty > qtyTol {
			return false
		}
	}
	poCost := po.TotalCost()
	if poCost > 0 {
		if math.Abs(poCost-inv.TotalCost())/poCost > priceTol {
			return false
		}
	}
	return true
}

// walkO2C walks one order-to-cash instance: sales order, delivery,
// customer invoice, then either an on-time receipt, a dunned late
// receipt, or a bad-debt write-off, per spec §3/§4.6's dunning
// side-state-machine.
func (o *Orchestrator) walkO2C(reg *registry.Registry, synthesizer *journal.Synthesizer, sched *schedule.Scheduler, namespace uuid.UUID, key flow.FlowKey, candidateDay time.Time, stream *rng.Stream) ([]*flow.Document, []*journal.Entry) {
	customers := reg.Customers()
	if len(customers) == 0 {
		return nil, nil
	}
	customer := customers[stream.UniformInt(0, len(customers)-1)]
	label := fmt.Sprintf("flow/o2c/%s/%d", key.Company, key.FlowIndex)

	soID := id.New(namespace, id.PrefixSalesOrder, label, key.FlowIndex)
	so := &flow.Document{ID: soID, Company: key.Company, Counterparty: customer.ID, Status: flow.SOCreated.String(), DocumentDate: candidateDay}
	docs := []*flow.Document{so}

	state := flow.SOCreated
	state = requireO2C(state, flow.CreditCheck)
	if !stream.Bool(0.95) {
		state = requireO2C(state, flow.CreditFailed)
		so.Status = state.String()
		return docs, nil
	}
	state = requireO2C(state, flow.SOReleased)
	so.Status = state.String()

	day := nextDay(candidateDay, stream, 4)
	state = requireO2C(state, flow.Delivery)
	state = requireO2C(state, flow.Shipped)
	dlvID := id.New(namespace, id.PrefixDelivery, label, key.FlowIndex)
	dlv := &flow.Document{ID: dlvID, Company: key.Company, Counterparty: customer.ID, Status: state.String(), DocumentDate: day}
	dlv.AddEdge(flow.EdgeFollows, soID)
	docs = append(docs, dlv)

	var entries []*journal.Entry

	day = nextDay(day, stream, 3)
	state = requireO2C(state, flow.InvoiceIssued)
	invID := id.New(namespace, id.PrefixCustomerInv, label, key.FlowIndex)
	inv := &flow.Document{ID: invID, Company: key.Company, Counterparty: customer.ID, Status: state.String(), DocumentDate: day}
	inv.AddEdge(flow.EdgeFollows, dlvID)
	docs = append(docs, inv)
	docDate, postDate := sched.Assign("Interface", key.Company, day, stream)
	if e, err := synthesizer.FromTransition("O2C", "Invoice_Issued", key.Company, invID, docDate, postDate, stream, key.FlowIndex); err == nil {
		entries = append(entries, e)
	} else {
		o.plugins.EmitTemplateDropped(context.Background(), "O2C", "Invoice_Issued", err)
	}

	payTermDays := customer.PaymentTermsDays
	if payTermDays <= 0 {
		payTermDays = 30
	}
	dueDay := day.AddDate(0, 0, payTermDays)

	if stream.Bool(0.8) {
		payDay := dueDay.AddDate(0, 0, -stream.UniformInt(0, 5))
		docDate, postDate = sched.Assign("Batch", key.Company, payDay, stream)
		if e, err := synthesizer.FromTransition("O2C", "Receipt_Applied", key.Company, invID, docDate, postDate, stream, key.FlowIndex); err == nil {
			entries = append(entries, e)
		} else {
			o.plugins.EmitTemplateDropped(context.Background(), "O2C", "Receipt_Applied", err)
		}
		state = requireO2C(state, flow.ReceiptApplied)
		inv.Status = state.String()
		return docs, entries
	}

	dunning := o.cfg.Flow.Dunning
	daysOverdue := 0
	paid := false
	for _, threshold := range dunning.Thresholds {
		daysOverdue = threshold
		level := dunning.LevelForDaysOverdue(daysOverdue)
		if dunning.SamplePayment(level, stream) {
			paid = true
			break
		}
	}
	payDay := dueDay.AddDate(0, 0, daysOverdue)
	docDate, postDate = sched.Assign("Batch", key.Company, payDay, stream)
	if paid {
		if e, err := synthesizer.FromTransition("O2C", "Receipt_Applied", key.Company, invID, docDate, postDate, stream, key.FlowIndex); err == nil {
			entries = append(entries, e)
		} else {
			o.plugins.EmitTemplateDropped(context.Background(), "O2C", "Receipt_Applied", err)
		}
		state = requireO2C(state, flow.ReceiptApplied)
	} else {
		if e, err := synthesizer.FromTransition("O2C", "Bad_Debt", key.Company, invID, docDate, postDate, stream, key.FlowIndex); err == nil {
			entries = append(entries, e)
		} else {
			o.plugins.EmitTemplateDropped(context.Background(), "O2C", "Bad_Debt", err)
		}
		state = requireO2C(state, flow.BadDebt)
	}
	inv.Status = state.String()

	return docs, entries
}

// runDirect fills out manual/recurring/adjustment posting volume that has
// no underlying document flow, at a quarter of each company's flow
// volume.
func (o *Orchestrator) runDirect(synthesizer *journal.Synthesizer, sched *schedule.Scheduler, stream *rng.Stream, namespace uuid.UUID) []*journal.Entry {
	transitions := []string{"Manual", "Recurring", "Adjustment"}
	windowDays := o.cfg.PeriodMonths * 30
	if windowDays < 1 {
		windowDays = 1
	}

	var entries []*journal.Entry
	index := 0
	for _, c := range o.cfg.Companies {
		perCompany := o.cfg.Flow.FlowsPerCompany / 4
		for i := 0; i < perCompany; i++ {
			transition := transitions[stream.UniformInt(0, len(transitions)-1)]
			day := o.cfg.StartDate.AddDate(0, 0, stream.UniformInt(0, windowDays-1))
			docDate, postDate := sched.Assign("Manual", c.Code, day, stream)
			e, err := synthesizer.Direct("Direct", transition, c.Code, docDate, postDate, stream, index)
			index++
			if err != nil {
				o.plugins.EmitTemplateDropped(context.Background(), "Direct", transition, err)
				continue
			}
			entries = append(entries, e)
		}
	}
	return entries
}

// orderEntries merges entries into strict ascending (posting_date,
// doc_id) order via the same k-way merge used for multi-shard output,
// treating the already-generated slice as a single pre-sorted source
// once locally sorted.
func orderEntries(entries []*journal.Entry) []*journal.Entry {
	sorted := append([]*journal.Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return entryLess(sorted[i], sorted[j]) })
	return schedule.MergeOrdered([]schedule.EntrySource{schedule.NewSliceSource(sorted)})
}

func entryLess(a, b *journal.Entry) bool {
	if !a.PostingDate.Equal(b.PostingDate) {
		return a.PostingDate.Before(b.PostingDate)
	}
	return a.DocID.String() < b.DocID.String()
}
