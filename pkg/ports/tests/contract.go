package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/navstack/pkg/ports"
)

// LinkSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.LinkSource.
// open must deliver url through the adapter's "URL opened" stream.
// A URL opened while nobody is subscribed must reach the next subscriber.
func LinkSourceContractTest(t *testing.T, source ports.LinkSource, launchURL string, open func(url string)) {
	t.Helper()

	t.Run("InitialURL", func(t *testing.T) {
		got, err := source.InitialURL(context.Background())
		if err != nil {
			t.Fatalf("unexpected error getting initial url: %v", err)
		}
		if got != launchURL {
			t.Errorf("initial url mismatch. got %q, want %q", got, launchURL)
		}
	})

	t.Run("Subscribe_Delivers", func(t *testing.T) {
		var mu sync.Mutex
		var seen []string
		unsubscribe := source.Subscribe(func(url string) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, url)
		})
		defer unsubscribe()

		open("https://example.com/a")
		open("https://example.com/a")

		waitFor(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(seen) == 2
		})
	})

	t.Run("Unsubscribe_Stops", func(t *testing.T) {
		var mu sync.Mutex
		count := 0
		unsubscribe := source.Subscribe(func(string) {
			mu.Lock()
			defer mu.Unlock()
			count++
		})
		unsubscribe()
		unsubscribe() // idempotent

		open("https://example.com/b")
		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		if count != 0 {
			t.Errorf("expected no delivery after unsubscribe, got %d", count)
		}
	})

	t.Run("Unheard_DeliveredToNextSubscriber", func(t *testing.T) {
		open("https://example.com/unheard")

		var mu sync.Mutex
		var seen []string
		unsubscribe := source.Subscribe(func(url string) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, url)
		})
		defer unsubscribe()

		waitFor(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(seen) > 0 && seen[len(seen)-1] == "https://example.com/unheard"
		})
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
