package flow

import "testing"

func TestCanTransitionP2PHappyPath(t *testing.T) {
	path := []P2PState{POdraft, POApproved, GRPosted, InvoiceReceived, InvoiceMatched, PaymentIssued, PaymentCleared}
	for i := 0; i < len(path)-1; i++ {
		if !CanTransitionP2P(path[i], path[i+1]) {
			t.Fatalf("expected %v -> %v to be legal", path[i], path[i+1])
		}
	}
}

func TestCanTransitionP2PRejectsSkip(t *testing.T) {
	if CanTransitionP2P(POdraft, PaymentCleared) {
		t.Fatal("expected PO_Draft -> Payment_Cleared to be illegal")
	}
}

func TestGRPostedAllowsPartialLoop(t *testing.T) {
	if !CanTransitionP2P(GRPosted, GRPosted) {
		t.Fatal("expected GR_Posted -> GR_Posted (partial receipt loop) to be legal")
	}
}

func TestCanTransitionO2CHappyPath(t *testing.T) {
	path := []O2CState{SOCreated, CreditCheck, SOReleased, Delivery, Shipped, InvoiceIssued, ReceiptApplied}
	for i := 0; i < len(path)-1; i++ {
		if !CanTransitionO2C(path[i], path[i+1]) {
			t.Fatalf("expected %v -> %v to be legal", path[i], path[i+1])
		}
	}
}

func TestCanTransitionO2CCreditFailureTerminates(t *testing.T) {
	if !CanTransitionO2C(CreditCheck, CreditFailed) {
		t.Fatal("expected Credit_Check -> Credit_Failed to be legal")
	}
	if CanTransitionO2C(CreditFailed, SOReleased) {
		t.Fatal("Credit_Failed should be terminal")
	}
}
