package app_test

import (
	"sync"
	"testing"
	"time"

	"exam-portal-service/internal/app"
	"exam-portal-service/internal/domain"
)

func TestFeedDeliversPerExam(t *testing.T) {
	feed := app.NewFeed()

	chA, cancelA := feed.Subscribe("exam-a")
	defer cancelA()
	chB, cancelB := feed.Subscribe("exam-b")
	defer cancelB()

	feed.Broadcast("exam-a", []domain.Result{{ID: "r1"}})

	select {
	case update := <-chA:
		if update.ExamID != "exam-a" || len(update.Results) != 1 {
			t.Fatalf("unexpected update: %+v", update)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber a received nothing")
	}

	select {
	case update := <-chB:
		t.Fatalf("subscriber b received foreign update: %+v", update)
	default:
	}
}

func TestFeedDropsStaleUpdatesForSlowConsumers(t *testing.T) {
	feed := app.NewFeed()

	ch, cancel := feed.Subscribe("exam-a")
	defer cancel()

	// Overfill the buffer; the consumer must still end on the newest snapshot.
	for i := 0; i < 32; i++ {
		feed.Broadcast("exam-a", []domain.Result{{ID: "r", Score: i}})
	}

	var last app.BoardUpdate
	for {
		select {
		case update := <-ch:
			last = update
			continue
		default:
		}
		break
	}
	if len(last.Results) != 1 || last.Results[0].Score != 31 {
		t.Fatalf("expected newest snapshot last, got %+v", last)
	}
}

func TestFeedConcurrentBroadcastsNeverBlock(t *testing.T) {
	feed := app.NewFeed()

	// A subscriber that never reads: its buffer stays full, forcing every
	// broadcaster through the drain-and-retry branch at the same time.
	_, cancel := feed.Subscribe("exam-a")

	var wg sync.WaitGroup
	for b := 0; b < 8; b++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				feed.Broadcast("exam-a", []domain.Result{{ID: "r", Score: i}})
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("broadcasters blocked on a full subscriber")
	}

	// The subscriber lock must still be free for cancellation.
	cancel()
}

func TestFeedCancelClosesChannel(t *testing.T) {
	feed := app.NewFeed()

	ch, cancel := feed.Subscribe("exam-a")
	cancel()
	cancel() // repeat cancel is a no-op

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}

	// Broadcasting to an exam with no subscribers must not panic.
	feed.Broadcast("exam-a", nil)
}
