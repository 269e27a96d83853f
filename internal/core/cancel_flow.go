package core

import (
	"context"
	"fmt"
	"sync"
)

// CancelStep is a state of the order cancellation dialog.
type CancelStep string

const (
	CancelIdle           CancelStep = "idle"
	CancelConfirmPending CancelStep = "confirm_pending"
	CancelSubmitting     CancelStep = "submitting"
	CancelSucceeded      CancelStep = "succeeded"
	CancelFailed         CancelStep = "failed"
)

// CancelFlowState is a point-in-time view of a CancelFlow.
type CancelFlowState struct {
	Step    CancelStep `json:"step"`
	OrderID string     `json:"orderId,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// CancelFlow drives Idle -> ConfirmPending -> Submitting -> Succeeded|Failed.
// Declining returns to Idle without writing. Failed keeps the dialog open and
// Confirm may be retried.
type CancelFlow struct {
	mu      sync.Mutex
	step    CancelStep
	orderID string
	err     error
	cancel  func(ctx context.Context, orderID string) error
}

func NewCancelFlow(cancel func(ctx context.Context, orderID string) error) *CancelFlow {
	return &CancelFlow{step: CancelIdle, cancel: cancel}
}

// Request opens the confirmation for orderID.
func (f *CancelFlow) Request(orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == CancelSubmitting {
		return fmt.Errorf("%w: submission in progress", ErrCancelFlowState)
	}
	f.step = CancelConfirmPending
	f.orderID = orderID
	f.err = nil
	return nil
}

// Decline closes the confirmation without any write.
func (f *CancelFlow) Decline() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != CancelConfirmPending && f.step != CancelFailed {
		return fmt.Errorf("%w: nothing to decline in %s", ErrCancelFlowState, f.step)
	}
	f.step = CancelIdle
	f.orderID = ""
	f.err = nil
	return nil
}

// Confirm submits the cancellation. On failure the flow stays open in Failed.
func (f *CancelFlow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.step != CancelConfirmPending && f.step != CancelFailed {
		step := f.step
		f.mu.Unlock()
		return fmt.Errorf("%w: cannot confirm in %s", ErrCancelFlowState, step)
	}
	f.step = CancelSubmitting
	orderID := f.orderID
	f.mu.Unlock()

	err := f.cancel(ctx, orderID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.step = CancelFailed
		f.err = err
		return err
	}
	f.step = CancelSucceeded
	f.err = nil
	return nil
}

// Reset returns a finished flow to Idle.
func (f *CancelFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == CancelSubmitting {
		return
	}
	f.step = CancelIdle
	f.orderID = ""
	f.err = nil
}

func (f *CancelFlow) State() CancelFlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := CancelFlowState{Step: f.step, OrderID: f.orderID}
	if f.err != nil {
		st.Error = f.err.Error()
	}
	return st
}
