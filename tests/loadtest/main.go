// Load generator for a locally running clipkeep. It drives the write queue
// through setting and pin mutations while reading history and settings.
package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const (
	numWorkers   = 20
	testDuration = 10 * time.Second
)

var baseURL = "http://127.0.0.1:8765"

var httpClient = &http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type item struct {
	ID       string `json:"id"`
	IsPinned bool   `json:"isPinned"`
}

func main() {
	if v := os.Getenv("CLIPKEEP_URL"); v != "" {
		baseURL = strings.TrimRight(v, "/")
	}
	fmt.Println("=== clipkeep load test ===")
	fmt.Printf("Target: %s | Workers: %d | Duration: %s\n\n", baseURL, numWorkers, testDuration)

	original, err := fetchSettings()
	if err != nil {
		fmt.Println("FAILED: server not responding:", err)
		os.Exit(1)
	}
	ids := fetchIDs()
	fmt.Printf("History entries available for pin toggles: %d\n", len(ids))

	fmt.Println("\n--- Phase 1: Mutations (settings + pins) ---")
	runPhase(func(rng *rand.Rand) result {
		if len(ids) > 0 && rng.Float64() < 0.5 {
			return doPost("/history/pin", map[string]string{"id": ids[rng.Intn(len(ids))]})
		}
		return doPost("/settings", map[string]any{"key": "zoom", "value": 50 + rng.Intn(150)})
	})

	fmt.Println("\n--- Phase 2: Mixed load (20% writes, 80% reads) ---")
	runPhase(func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.20:
			return doPost("/settings", map[string]any{"key": "zoom", "value": 50 + rng.Intn(150)})
		case r < 0.70:
			return doGet("/history")
		case r < 0.90:
			return doGet("/settings")
		default:
			return doGet("/health")
		}
	})

	// leave the user's settings as they were
	doPost("/settings", map[string]any{"key": "zoom", "value": original["zoom"]})
}

func fetchSettings() (map[string]any, error) {
	resp, err := httpClient.Get(baseURL + "/settings")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var settings map[string]any
	return settings, json.NewDecoder(resp.Body).Decode(&settings)
}

// fetchIDs returns ids of unpinned entries. Pin states toggled during the
// run are not restored.
func fetchIDs() []string {
	resp, err := httpClient.Get(baseURL + "/history")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	var items []item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if !it.IsPinned {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func runPhase(workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(time.Now().UnixNano() + int64(i))
	}

	all := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := all[r.endpoint]
			if !ok {
				s = &stats{}
				all[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(testDuration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(all)
}

func printResults(all map[string]*stats) {
	var total, totalErrors int64
	endpoints := make([]string, 0, len(all))
	for ep := range all {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s\n", "Endpoint", "Reqs", "Errs", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 70))
	for _, ep := range endpoints {
		s := all[ep]
		total += s.count
		totalErrors += s.errors
		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		fmt.Printf("  %-22s %8d %6d %10s %10s %10s\n", ep, s.count, s.errors,
			fmtDur(percentile(s.latencies, 0.50)), fmtDur(percentile(s.latencies, 0.95)), fmtDur(percentile(s.latencies, 0.99)))
	}
	fmt.Println("  " + strings.Repeat("-", 70))
	if total > 0 {
		fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
			total, totalErrors, float64(totalErrors)/float64(total)*100, float64(total)/testDuration.Seconds())
	}
}

func doPost(path string, body any) result {
	data, _ := json.Marshal(body)
	start := time.Now()
	resp, err := httpClient.Post(baseURL+path, "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST " + path, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST " + path, lat, resp.StatusCode != http.StatusOK}
}

func doGet(path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{"GET " + path, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET " + path, lat, resp.StatusCode != http.StatusOK}
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
