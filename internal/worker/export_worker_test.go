package worker

import (
	"context"
	"errors"
	"testing"

	"ledgerd/internal/amqp"
	"ledgerd/internal/core"
)

type fakeStore struct {
	expenses map[string]core.Expense
	err      error
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (core.Expense, bool, error) {
	if s.err != nil {
		return core.Expense{}, false, s.err
	}
	e, ok := s.expenses[id]
	return e, ok, nil
}

type fakeAppender struct {
	appended []core.Expense
	err      error
}

func (a *fakeAppender) Append(ctx context.Context, e core.Expense) error {
	if a.err != nil {
		return a.err
	}
	a.appended = append(a.appended, e)
	return nil
}

func msg(id string) *amqp.ExpenseCreatedMessage {
	return amqp.NewExpenseCreatedMessage(id, 15050, "Food", "2024-02-15")
}

func TestHandleCreatedMessage_Exports(t *testing.T) {
	store := &fakeStore{expenses: map[string]core.Expense{
		"e1": {ID: "e1", AmountMinor: 15050, Category: "Food", Description: "Lunch", Date: "2024-02-15"},
	}}
	appender := &fakeAppender{}
	w := NewExportWorker(store, appender)

	if err := w.HandleCreatedMessage(context.Background(), msg("e1")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(appender.appended) != 1 || appender.appended[0].ID != "e1" {
		t.Fatalf("expected the stored record exported, got %v", appender.appended)
	}
}

func TestHandleCreatedMessage_RecordMissing(t *testing.T) {
	appender := &fakeAppender{}
	w := NewExportWorker(&fakeStore{expenses: map[string]core.Expense{}}, appender)

	// A missing record is drained, not retried.
	if err := w.HandleCreatedMessage(context.Background(), msg("gone")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(appender.appended) != 0 {
		t.Fatalf("nothing should be exported, got %v", appender.appended)
	}
}

func TestHandleCreatedMessage_StoreError(t *testing.T) {
	storeErr := errors.New("db gone")
	w := NewExportWorker(&fakeStore{err: storeErr}, &fakeAppender{})

	err := w.HandleCreatedMessage(context.Background(), msg("e1"))
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error surfaced for redelivery, got %v", err)
	}
}

func TestHandleCreatedMessage_NoAppender(t *testing.T) {
	store := &fakeStore{expenses: map[string]core.Expense{
		"e1": {ID: "e1"},
	}}
	w := NewExportWorker(store, nil)

	if err := w.HandleCreatedMessage(context.Background(), msg("e1")); err != nil {
		t.Fatalf("handle without appender: %v", err)
	}
}

func TestHandleCreatedMessage_AppendError(t *testing.T) {
	store := &fakeStore{expenses: map[string]core.Expense{
		"e1": {ID: "e1"},
	}}
	appendErr := errors.New("sheets quota")
	w := NewExportWorker(store, &fakeAppender{err: appendErr})

	err := w.HandleCreatedMessage(context.Background(), msg("e1"))
	if !errors.Is(err, appendErr) {
		t.Fatalf("expected append error surfaced, got %v", err)
	}
}
