package journal

// Template is a small data-driven recipe for one (business_process,
// transition) pair: which account slots get debited and credited. The
// synthesizer fills amounts and line counts around this fixed shape.
type Template struct {
	BusinessProcess string
	Transition      string
	DebitAccounts   []string
	CreditAccounts  []string
	Currency        string
}

// TemplateKey identifies a template in the registry.
type TemplateKey struct {
	BusinessProcess string
	Transition      string
}

// TemplateSet is the lookup table the synthesizer consults, keyed by
// (business_process, transition); company-specific overrides are resolved
// by the caller supplying a company-scoped TemplateSet, not by a three-part
// key, to keep the table small and data-driven per spec §9.
type TemplateSet map[TemplateKey]Template

// Lookup finds the template for (businessProcess, transition).
func (ts TemplateSet) Lookup(businessProcess, transition string) (Template, bool) {
	t, ok := ts[TemplateKey{BusinessProcess: businessProcess, Transition: transition}]
	return t, ok
}

// DefaultTemplates covers the P2P/O2C transitions that have a direct
// accounting impact, per spec §4.7.
var DefaultTemplates = TemplateSet{
	{"P2P", "GR_Posted"}:         {BusinessProcess: "P2P", Transition: "GR_Posted", DebitAccounts: []string{"1300"}, CreditAccounts: []string{"2100"}, Currency: "USD"},
	{"P2P", "Invoice_Matched"}:   {BusinessProcess: "P2P", Transition: "Invoice_Matched", DebitAccounts: []string{"5100"}, CreditAccounts: []string{"2100"}, Currency: "USD"},
	{"P2P", "Payment_Cleared"}:   {BusinessProcess: "P2P", Transition: "Payment_Cleared", DebitAccounts: []string{"2100"}, CreditAccounts: []string{"1000"}, Currency: "USD"},
	{"O2C", "Invoice_Issued"}:    {BusinessProcess: "O2C", Transition: "Invoice_Issued", DebitAccounts: []string{"1200"}, CreditAccounts: []string{"4000"}, Currency: "USD"},
	{"O2C", "Receipt_Applied"}:   {BusinessProcess: "O2C", Transition: "Receipt_Applied", DebitAccounts: []string{"1000"}, CreditAccounts: []string{"1200"}, Currency: "USD"},
	{"O2C", "Returned"}:          {BusinessProcess: "O2C", Transition: "Returned", DebitAccounts: []string{"4000"}, CreditAccounts: []string{"1200"}, Currency: "USD"},
	{"O2C", "Bad_Debt"}:          {BusinessProcess: "O2C", Transition: "Bad_Debt", DebitAccounts: []string{"5900"}, CreditAccounts: []string{"1200"}, Currency: "USD"},
	{"Direct", "Manual"}:         {BusinessProcess: "Direct", Transition: "Manual", DebitAccounts: []string{"5000"}, CreditAccounts: []string{"1000"}, Currency: "USD"},
	{"Direct", "Recurring"}:      {BusinessProcess: "Direct", Transition: "Recurring", DebitAccounts: []string{"5000"}, CreditAccounts: []string{"2000"}, Currency: "USD"},
	{"Direct", "Adjustment"}:     {BusinessProcess: "Direct", Transition: "Adjustment", DebitAccounts: []string{"3000"}, CreditAccounts: []string{"5000"}, Currency: "USD"},
}
