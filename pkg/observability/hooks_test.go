package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEnumerationHooks{}
	e.OnRoundStart(ctx, "run", 0, 1)
	e.OnRoundComplete(ctx, "run", 0, 12, time.Second, nil)
	e.OnRecord(ctx, "run", "CuCuCuCu")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "derivation")
	c.OnCacheMiss(ctx, "analysis")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/v1/shapes/{code}")
	h.OnResponse(ctx, "GET", "/v1/shapes/{code}", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Enumeration().(NoopEnumerationHooks); !ok {
		t.Error("Enumeration() should return NoopEnumerationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customEnum := &testEnumerationHooks{}
	SetEnumerationHooks(customEnum)
	if Enumeration() != customEnum {
		t.Error("SetEnumerationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Enumeration().(NoopEnumerationHooks); !ok {
		t.Error("Reset() should restore NoopEnumerationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testEnumerationHooks{}
	SetEnumerationHooks(custom)
	SetEnumerationHooks(nil)

	if Enumeration() != custom {
		t.Error("SetEnumerationHooks(nil) should be ignored")
	}
}

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusHooks(reg)
	ctx := context.Background()

	p.OnRoundStart(ctx, "run", 1, 7)
	if got := testutil.ToFloat64(p.frontier); got != 7 {
		t.Errorf("frontier = %v, want 7", got)
	}

	p.OnRoundComplete(ctx, "run", 1, 3, time.Millisecond, nil)
	p.OnRoundComplete(ctx, "run", 2, 0, time.Millisecond, errors.New("boom"))
	if got := testutil.ToFloat64(p.rounds.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok rounds = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.rounds.WithLabelValues("error")); got != 1 {
		t.Errorf("error rounds = %v, want 1", got)
	}

	p.OnRecord(ctx, "run", "pin")
	p.OnRecord(ctx, "run", "pin")
	if got := testutil.ToFloat64(p.records.WithLabelValues("pin")); got != 2 {
		t.Errorf("pin records = %v, want 2", got)
	}

	p.OnCacheHit(ctx, "derivation")
	p.OnCacheSet(ctx, "derivation", 100)
	if got := testutil.ToFloat64(p.cacheBytes.WithLabelValues("derivation")); got != 100 {
		t.Errorf("cache bytes = %v, want 100", got)
	}

	p.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
	if got := testutil.ToFloat64(p.requests.WithLabelValues("GET", "/healthz", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}

	if n, err := testutil.GatherAndCount(reg); err != nil || n == 0 {
		t.Errorf("GatherAndCount = %d, %v", n, err)
	}
}

type testEnumerationHooks struct{ NoopEnumerationHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
