package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Checkout steps. The flow only ever moves confirm -> processing and
// then to success, or back to confirm when the submission failed.
const (
	StepConfirm    = "confirm"
	StepProcessing = "processing"
	StepSuccess    = "success"
)

// autoCloseDelay is how long the success step stays up before the
// flow closes itself.
const autoCloseDelay = 3 * time.Second

// OrderForm holds the customer details captured during checkout.
type OrderForm struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

// CheckoutFlow drives one order submission from confirmation to
// completion. It owns the step machine, the form validation and the
// auto-close timer of the success step.
type CheckoutFlow struct {
	logger *zap.Logger
	origin *OriginClient
	auth   Authenticator
	cart   *CartStore

	mu          sync.Mutex
	open        bool
	step        string
	form        OrderForm
	fieldErrors map[string]string
	submitErr   error
	closeTimer  *time.Timer
	onClose     func()
}

// NewCheckoutFlow provides a closed checkout flow bound to a session
// and its cart.
func NewCheckoutFlow(logger *zap.Logger, origin *OriginClient, auth Authenticator, cart *CartStore) *CheckoutFlow {
	return &CheckoutFlow{
		logger:      logger,
		origin:      origin,
		auth:        auth,
		cart:        cart,
		step:        StepConfirm,
		fieldErrors: map[string]string{},
	}
}

// OnClose installs the hook called when the flow closes.
func (cf *CheckoutFlow) OnClose(f func()) {
	cf.mu.Lock()
	cf.onClose = f
	cf.mu.Unlock()
}

// Open starts the flow on the confirmation step with the form
// prefilled from the session profile.
func (cf *CheckoutFlow) Open() {
	profile := cf.auth.UserInfo()
	cf.mu.Lock()
	cf.open = true
	cf.step = StepConfirm
	cf.submitErr = nil
	cf.fieldErrors = map[string]string{}
	cf.form = OrderForm{
		Name:  profile.FullName(),
		Email: profile.Email,
		Phone: profile.PhoneNumber,
	}
	cf.mu.Unlock()
}

// Step returns the current step.
func (cf *CheckoutFlow) Step() string {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	return cf.step
}

// IsOpen tells whether the flow is in progress.
func (cf *CheckoutFlow) IsOpen() bool {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	return cf.open
}

// Form returns the current form content.
func (cf *CheckoutFlow) Form() OrderForm {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	return cf.form
}

// SetForm replaces the form content.
func (cf *CheckoutFlow) SetForm(form OrderForm) {
	cf.mu.Lock()
	cf.form = form
	cf.mu.Unlock()
}

// FieldErrors returns the validation failures of the last submit
// attempt, keyed by form field.
func (cf *CheckoutFlow) FieldErrors() map[string]string {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	out := make(map[string]string, len(cf.fieldErrors))
	for k, v := range cf.fieldErrors {
		out[k] = v
	}
	return out
}

// Err returns the failure of the last submission, if any.
func (cf *CheckoutFlow) Err() error {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	return cf.submitErr
}

// Validate checks the form and records per-field messages. It returns
// true when the form can be submitted.
func (cf *CheckoutFlow) Validate() bool {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	errs := map[string]string{}
	if strings.TrimSpace(cf.form.Name) == "" {
		errs["name"] = "name is required"
	}
	if !IsValidEmail(cf.form.Email) {
		errs["email"] = "a valid email is required"
	}
	if len(strings.TrimSpace(cf.form.Address)) < 10 {
		errs["address"] = "shipping address must be at least 10 characters"
	}
	cf.fieldErrors = errs
	return len(errs) == 0
}

// Submit places the order. The token is refreshed first so a session
// on the edge of expiry does not lose the submission. On failure the
// flow returns to the confirmation step with the cart untouched. On
// success the cart is cleared and the success step closes itself
// after a short delay, unless Close is called earlier.
func (cf *CheckoutFlow) Submit(ctx context.Context) error {
	if !cf.auth.IsAuthenticated() {
		cf.mu.Lock()
		cf.submitErr = ErrNoSession
		cf.mu.Unlock()
		return ErrNoSession
	}
	if !cf.Validate() {
		err := errors.New("checkout form is not valid")
		cf.mu.Lock()
		cf.submitErr = err
		cf.mu.Unlock()
		return err
	}

	items := cf.cart.Items()
	if len(items) == 0 {
		err := errors.New("cart is empty")
		cf.mu.Lock()
		cf.submitErr = err
		cf.mu.Unlock()
		return err
	}

	cf.mu.Lock()
	cf.step = StepProcessing
	cf.submitErr = nil
	form := cf.form
	cf.mu.Unlock()

	if err := cf.auth.CheckAndRefresh(ctx); err != nil {
		cf.backToConfirm(err)
		return err
	}

	order := OrderRequest{
		Items:           make([]OrderItem, 0, len(items)),
		TotalAmount:     cf.cart.Total(),
		ShippingAddress: strings.TrimSpace(form.Address),
		CustomerName:    strings.TrimSpace(form.Name),
		CustomerEmail:   strings.TrimSpace(form.Email),
		CustomerPhone:   strings.TrimSpace(form.Phone),
		Notes:           strings.TrimSpace(form.Notes),
	}
	for _, item := range items {
		order.Items = append(order.Items, OrderItem{BookID: item.BookID, Quantity: item.Quantity})
	}

	status, data, err := cf.origin.Do(ctx, http.MethodPost, "/api/orders", cf.auth.Token(), order)
	if err != nil {
		cf.backToConfirm(err)
		return err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		err = errors.New(errorMessage(data, "failed to place order"))
		cf.backToConfirm(err)
		return err
	}

	if err := cf.cart.Clear(ctx); err != nil {
		cf.logger.Error("failed to clear cart after order", zap.Error(err))
	}

	cf.mu.Lock()
	cf.step = StepSuccess
	cf.closeTimer = time.AfterFunc(autoCloseDelay, cf.Close)
	cf.mu.Unlock()
	cf.logger.Info("order placed", zap.Int("order.items", len(order.Items)))
	return nil
}

// Close ends the flow and cancels the pending auto-close timer.
func (cf *CheckoutFlow) Close() {
	cf.mu.Lock()
	if cf.closeTimer != nil {
		cf.closeTimer.Stop()
		cf.closeTimer = nil
	}
	wasOpen := cf.open
	cf.open = false
	cf.step = StepConfirm
	onClose := cf.onClose
	cf.mu.Unlock()
	if wasOpen && onClose != nil {
		onClose()
	}
}

func (cf *CheckoutFlow) backToConfirm(err error) {
	cf.mu.Lock()
	cf.step = StepConfirm
	cf.submitErr = err
	cf.mu.Unlock()
	cf.logger.Error("order submission failed", zap.Error(err))
}
