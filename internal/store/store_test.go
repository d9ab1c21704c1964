package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aquaview/aquaview/internal/telemetry"
)

func reading(ph float64, ts time.Time) telemetry.Reading {
	return telemetry.Reading{PH: ph, Turbidity: 1, Temperature: 20, DissolvedOxygen: 8, Timestamp: ts}
}

func TestAppend_Bounded(t *testing.T) {
	st := New(20)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		st.Append("crystal-lake", reading(float64(i), base.Add(time.Duration(i)*3*time.Second)))
		if n := st.Len("crystal-lake"); n > 20 {
			t.Fatalf("history length %d exceeds cap after %d appends", n, i+1)
		}
	}

	h := st.History("crystal-lake")
	if len(h) != 20 {
		t.Fatalf("history length = %d, want 20", len(h))
	}
	// Oldest entries dropped from the front — the window holds appends 80..99.
	if h[0].PH != 80 || h[19].PH != 99 {
		t.Errorf("window = [%.0f .. %.0f], want [80 .. 99]", h[0].PH, h[19].PH)
	}
	// Ordering: oldest first.
	for i := 1; i < len(h); i++ {
		if !h[i].Timestamp.After(h[i-1].Timestamp) {
			t.Fatalf("history not oldest-first at index %d", i)
		}
	}
}

func TestLatest(t *testing.T) {
	st := New(20)
	if _, ok := st.Latest("nowhere"); ok {
		t.Fatal("Latest on empty site reported ok")
	}

	base := time.Now()
	st.Append("mill-creek", reading(6.8, base))
	st.Append("mill-creek", reading(7.1, base.Add(3*time.Second)))

	got, ok := st.Latest("mill-creek")
	if !ok {
		t.Fatal("Latest returned !ok after appends")
	}
	if got.PH != 7.1 {
		t.Errorf("Latest PH = %.2f, want 7.10", got.PH)
	}
}

func TestSeedHistory(t *testing.T) {
	st := New(20)
	base := time.Now()

	var rs []telemetry.Reading
	for i := 0; i < 10; i++ {
		rs = append(rs, reading(7.0, base.Add(time.Duration(i-9)*3*time.Second)))
	}
	st.SeedHistory("silver-lake", rs)

	if n := st.Len("silver-lake"); n != 10 {
		t.Fatalf("seeded length = %d, want 10", n)
	}

	// Seeding more than the cap keeps only the newest entries.
	var long []telemetry.Reading
	for i := 0; i < 30; i++ {
		long = append(long, reading(float64(i), base.Add(time.Duration(i)*time.Second)))
	}
	st.SeedHistory("silver-lake", long)
	h := st.History("silver-lake")
	if len(h) != 20 || h[0].PH != 10 {
		t.Errorf("seeded window starts at %.0f with len %d, want 10 with len 20", h[0].PH, len(h))
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	st := New(20)
	st.Append("willow-river", reading(7.0, time.Now()))

	h := st.History("willow-river")
	h[0].PH = 999

	got, _ := st.Latest("willow-river")
	if got.PH != 7.0 {
		t.Errorf("mutating the returned history leaked into the store: PH = %.0f", got.PH)
	}
}

func TestManualReadings(t *testing.T) {
	st := New(20)
	if _, ok := st.LastManual(); ok {
		t.Fatal("LastManual reported ok before any submission")
	}

	for i := 0; i < 3; i++ {
		st.AddManual(telemetry.ManualReading{
			ID:       fmt.Sprintf("m-%d", i),
			Location: "Manual Entry",
			Reading:  reading(7.0+float64(i)*0.1, time.Now()),
		})
	}

	last, ok := st.LastManual()
	if !ok || last.ID != "m-2" {
		t.Errorf("LastManual = %q ok=%v, want m-2", last.ID, ok)
	}
	all := st.ManualReadings()
	if len(all) != 3 || all[0].ID != "m-0" {
		t.Errorf("ManualReadings = %d entries starting %q, want 3 starting m-0", len(all), all[0].ID)
	}
}

// Concurrent appends and reads must not race and must preserve the cap.
func TestConcurrentAccess(t *testing.T) {
	st := New(20)
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				st.Append("crystal-lake", reading(7.0, time.Now()))
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			st.History("crystal-lake")
			st.Latest("crystal-lake")
		}
	}()

	wg.Wait()
	if n := st.Len("crystal-lake"); n != 20 {
		t.Errorf("history length after concurrent appends = %d, want 20", n)
	}
}
