package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCheckout(originURL string, auth Authenticator, cartItems string) (*CheckoutFlow, *CartStore) {
	origin := NewOriginClient(originURL)
	cart := NewCartStore(zap.NewNop(), origin, auth, NewIDsHandler())
	if cartItems != "" {
		var c Cart
		_ = json.Unmarshal([]byte(cartItems), &c)
		cart.replace(c)
	}
	return NewCheckoutFlow(zap.NewNop(), origin, auth, cart), cart
}

// TestCheckoutOpen ensures the form is prefilled from the session profile.
func TestCheckoutOpen(t *testing.T) {
	auth := &MockAuthenticator{
		MockToken: "usertoken",
		MockProfile: UserProfile{
			FirstName:   "Anna",
			LastName:    "Sergeeva",
			Email:       "anna@example.com",
			PhoneNumber: "+7 900 000 00 00",
		},
	}
	cf, _ := newTestCheckout("http://127.0.0.1:1", auth, "")
	cf.Open()

	assert.True(t, cf.IsOpen())
	assert.Equal(t, StepConfirm, cf.Step())
	form := cf.Form()
	assert.Equal(t, "Anna Sergeeva", form.Name)
	assert.Equal(t, "anna@example.com", form.Email)
	assert.Equal(t, "+7 900 000 00 00", form.Phone)
	assert.Empty(t, form.Address)
}

// TestCheckoutValidate ensures each form rule produces its field error.
func TestCheckoutValidate(t *testing.T) {
	testCases := []struct {
		name   string
		form   OrderForm
		valid  bool
		fields []string
	}{
		{
			"all fields valid",
			OrderForm{Name: "Anna", Email: "anna@example.com", Address: "12 Nevsky Prospekt, Saint Petersburg"},
			true,
			nil,
		},
		{
			"blank name",
			OrderForm{Name: "   ", Email: "anna@example.com", Address: "12 Nevsky Prospekt, Saint Petersburg"},
			false,
			[]string{"name"},
		},
		{
			"bad email",
			OrderForm{Name: "Anna", Email: "anna-at-example", Address: "12 Nevsky Prospekt, Saint Petersburg"},
			false,
			[]string{"email"},
		},
		{
			"short address",
			OrderForm{Name: "Anna", Email: "anna@example.com", Address: "short   "},
			false,
			[]string{"address"},
		},
		{
			"everything wrong",
			OrderForm{},
			false,
			[]string{"name", "email", "address"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cf, _ := newTestCheckout("http://127.0.0.1:1", &MockAuthenticator{MockToken: "usertoken"}, "")
			cf.SetForm(tc.form)
			assert.Equal(t, tc.valid, cf.Validate())
			errs := cf.FieldErrors()
			assert.Len(t, errs, len(tc.fields))
			for _, field := range tc.fields {
				assert.Contains(t, errs, field)
			}
		})
	}
}

// TestCheckoutSubmit ensures the step machine moves forward on success
// and falls back to confirmation with the cart intact on failure.
func TestCheckoutSubmit(t *testing.T) {
	cartJSON := `{"id":"c1","items":[{"bookId":"b1","quantity":2,"priceSnapshot":4.5}]}`
	validForm := OrderForm{Name: "Anna", Email: "anna@example.com", Address: "12 Nevsky Prospekt, Saint Petersburg"}

	t.Run("should pass: order placed and cart cleared", func(t *testing.T) {
		var gotOrder OrderRequest
		mux := http.NewServeMux()
		mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer usertoken", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotOrder))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"orderId":"o1"}`))
		})
		mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":true}`))
		})
		origin := httptest.NewServer(mux)
		defer origin.Close()

		auth := &MockAuthenticator{MockToken: "usertoken"}
		cf, cart := newTestCheckout(origin.URL, auth, cartJSON)
		cf.Open()
		cf.SetForm(validForm)

		err := cf.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StepSuccess, cf.Step())
		assert.Empty(t, cart.Items())
		require.Len(t, gotOrder.Items, 1)
		assert.Equal(t, "b1", gotOrder.Items[0].BookID)
		assert.Equal(t, 2, gotOrder.Items[0].Quantity)
		assert.Equal(t, 9.0, gotOrder.TotalAmount)
		assert.Equal(t, "Anna", gotOrder.CustomerName)

		cf.Close()
		assert.False(t, cf.IsOpen())
	})

	t.Run("should fail: backend rejection keeps the cart", func(t *testing.T) {
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"payment rejected"}`))
		}))
		defer origin.Close()

		auth := &MockAuthenticator{MockToken: "usertoken"}
		cf, cart := newTestCheckout(origin.URL, auth, cartJSON)
		cf.Open()
		cf.SetForm(validForm)

		err := cf.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, "payment rejected", err.Error())
		assert.Equal(t, StepConfirm, cf.Step())
		assert.True(t, cf.IsOpen())
		assert.Len(t, cart.Items(), 1)
		assert.Equal(t, err, cf.Err())
	})

	t.Run("should fail: invalid form never reaches the wire", func(t *testing.T) {
		var originCalled bool
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			originCalled = true
		}))
		defer origin.Close()

		cf, _ := newTestCheckout(origin.URL, &MockAuthenticator{MockToken: "usertoken"}, cartJSON)
		cf.Open()
		cf.SetForm(OrderForm{Name: "Anna", Email: "anna@example.com", Address: "short"})

		err := cf.Submit(context.Background())
		require.Error(t, err)
		assert.False(t, originCalled)
		assert.Contains(t, cf.FieldErrors(), "address")
	})

	t.Run("should fail: empty cart", func(t *testing.T) {
		cf, _ := newTestCheckout("http://127.0.0.1:1", &MockAuthenticator{MockToken: "usertoken"}, "")
		cf.Open()
		cf.SetForm(validForm)

		err := cf.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, "cart is empty", err.Error())
	})

	t.Run("should fail: no session never reaches the wire", func(t *testing.T) {
		var originCalled bool
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			originCalled = true
		}))
		defer origin.Close()

		cf, _ := newTestCheckout(origin.URL, &MockAuthenticator{}, cartJSON)
		cf.SetForm(validForm)

		err := cf.Submit(context.Background())
		require.ErrorIs(t, err, ErrNoSession)
		assert.False(t, originCalled)
		assert.Equal(t, err, cf.Err())
	})

	t.Run("should fail: expired session falls back to confirmation", func(t *testing.T) {
		var originCalled bool
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			originCalled = true
		}))
		defer origin.Close()

		auth := &MockAuthenticator{
			MockToken: "stale",
			RefreshFunc: func(ctx context.Context) error {
				return errors.New("session expired")
			},
		}
		cf, cart := newTestCheckout(origin.URL, auth, cartJSON)
		cf.Open()
		cf.SetForm(validForm)

		err := cf.Submit(context.Background())
		require.Error(t, err)
		assert.Equal(t, "session expired", err.Error())
		assert.Equal(t, StepConfirm, cf.Step())
		assert.False(t, originCalled)
		assert.Len(t, cart.Items(), 1)
		assert.Equal(t, err, cf.Err())
	})

	t.Run("should pass: token refreshed before submission", func(t *testing.T) {
		var gotToken string
		mux := http.NewServeMux()
		mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
			gotToken = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"orderId":"o1"}`))
		})
		mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":true}`))
		})
		origin := httptest.NewServer(mux)
		defer origin.Close()

		auth := &MockAuthenticator{
			MockToken: "stale",
			RefreshFunc: func(ctx context.Context) error {
				return nil
			},
		}
		cf, _ := newTestCheckout(origin.URL, auth, cartJSON)
		cf.Open()
		cf.SetForm(validForm)

		err := cf.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer stale", gotToken)
	})
}

// TestCheckoutClose ensures closing fires the hook and cancels the
// pending auto-close timer.
func TestCheckoutClose(t *testing.T) {
	cf, _ := newTestCheckout("http://127.0.0.1:1", &MockAuthenticator{MockToken: "usertoken"}, "")
	var closed bool
	cf.OnClose(func() { closed = true })
	cf.Open()
	require.True(t, cf.IsOpen())

	cf.Close()
	assert.True(t, closed)
	assert.False(t, cf.IsOpen())
	assert.Equal(t, StepConfirm, cf.Step())

	closed = false
	cf.Close()
	assert.False(t, closed)
}
