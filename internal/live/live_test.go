package live

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func waitUpdate(t *testing.T, sub *Subscription) interface{} {
	t.Helper()
	select {
	case v := <-sub.Updates():
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return nil
	}
}

func TestSubscribeDeliversInitialResult(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	sub := bus.Subscribe(func(context.Context) (interface{}, error) {
		return "hello", nil
	}, "patients")
	defer sub.Unsubscribe()

	if got := waitUpdate(t, sub); got != "hello" {
		t.Errorf("expected initial result, got %v", got)
	}
}

func TestNotifyOnlyRefreshesMatchingSubscriptions(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var patientRuns, billRuns int64
	patients := bus.Subscribe(func(context.Context) (interface{}, error) {
		return atomic.AddInt64(&patientRuns, 1), nil
	}, "patients")
	defer patients.Unsubscribe()
	bills := bus.Subscribe(func(context.Context) (interface{}, error) {
		return atomic.AddInt64(&billRuns, 1), nil
	}, "bills", "medicines")
	defer bills.Unsubscribe()

	// Drain the initial evaluations.
	waitUpdate(t, patients)
	waitUpdate(t, bills)

	bus.Notify("medicines")
	if got := waitUpdate(t, bills); got != int64(2) {
		t.Errorf("expected second bill run, got %v", got)
	}

	select {
	case v := <-patients.Updates():
		t.Errorf("patients subscription refreshed for unrelated collection: %v", v)
	case <-time.After(100 * time.Millisecond):
	}
	if atomic.LoadInt64(&patientRuns) != 1 {
		t.Errorf("patient query re-ran %d times", atomic.LoadInt64(&patientRuns))
	}
}

func TestLatestResultWins(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	sub := bus.Subscribe(func(context.Context) (interface{}, error) {
		return "initial", nil
	}, "patients")
	defer sub.Unsubscribe()
	waitUpdate(t, sub)

	// Unread results pile up; only the most recent survives.
	sub.push(1)
	sub.push(2)
	sub.push(3)
	if got := waitUpdate(t, sub); got != 3 {
		t.Errorf("expected latest result 3, got %v", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	sub := bus.Subscribe(func(context.Context) (interface{}, error) {
		return "x", nil
	}, "patients")
	waitUpdate(t, sub)

	sub.Unsubscribe()
	bus.Notify("patients")

	if _, ok := <-sub.Updates(); ok {
		t.Error("expected closed channel after unsubscribe")
	}
}

func TestQueryErrorIsSwallowed(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	sub := bus.Subscribe(func(context.Context) (interface{}, error) {
		return nil, context.Canceled
	}, "patients")
	defer sub.Unsubscribe()

	select {
	case v := <-sub.Updates():
		t.Errorf("failed query must not push, got %v", v)
	case <-time.After(100 * time.Millisecond):
	}
}
