package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/shapereach/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := KeyOpts{Width: 4, MaxHeight: 5, Table: "abc"}

	dk := k.DerivationKey(0xc3, opts)
	if !strings.HasPrefix(dk, "derivation:") || len(dk) != len("derivation:")+64 {
		t.Errorf("DerivationKey unexpected: %s", dk)
	}
	if dk != k.DerivationKey(0xc3, opts) {
		t.Error("DerivationKey should be deterministic")
	}

	tests := []struct {
		name string
		a, b string
	}{
		{"index", k.DerivationKey(0xc3, opts), k.DerivationKey(0xc4, opts)},
		{"table", k.DerivationKey(0xc3, opts), k.DerivationKey(0xc3, KeyOpts{Width: 4, MaxHeight: 5, Table: "def"})},
		{"height", k.AnalysisKey("CuCu----", opts), k.AnalysisKey("CuCu----", KeyOpts{Width: 4, MaxHeight: 4, Table: "abc"})},
		{"format", k.ArtifactKey(0xc3, "svg", opts), k.ArtifactKey(0xc3, "dot", opts)},
		{"type", k.DerivationKey(0, opts), k.ArtifactKey(0, "", opts)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a == tt.b {
				t.Errorf("keys should differ: %s", tt.a)
			}
		})
	}
}

func TestKeyType(t *testing.T) {
	k := NewDefaultKeyer()
	scoped := NewScopedKeyer(k, "staging:")
	opts := KeyOpts{Width: 4, MaxHeight: 5}

	tests := []struct {
		key  string
		want string
	}{
		{k.DerivationKey(1, opts), KeyTypeDerivation},
		{k.AnalysisKey("Cu------", opts), KeyTypeAnalysis},
		{scoped.ArtifactKey(1, "svg", opts), KeyTypeArtifact},
		{"plain", "unknown"},
		{"other:abc", "unknown"},
	}
	for _, tt := range tests {
		if got := KeyType(tt.key); got != tt.want {
			t.Errorf("KeyType(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")
	opts := KeyOpts{Width: 4, MaxHeight: 5}

	if got, want := scoped.DerivationKey(7, opts), "staging:"+inner.DerivationKey(7, opts); got != want {
		t.Errorf("DerivationKey = %s, want %s", got, want)
	}
	if got := scoped.AnalysisKey("Cu------", opts); !strings.HasPrefix(got, "staging:analysis:") {
		t.Errorf("AnalysisKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey(1, "svg", KeyOpts{})
	if key != "prefix:"+NewDefaultKeyer().ArtifactKey(1, "svg", KeyOpts{}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	key := NewDefaultKeyer().DerivationKey(0xc3, KeyOpts{Width: 4, MaxHeight: 5})
	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get before Set = %v, %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte(`{"verdict":"derived"}`), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != `{"verdict":"derived"}` {
		t.Fatalf("Get after Set = %q, %v, %v", data, hit, err)
	}
	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hooks = %+v", *hooks)
	}
	if hooks.lastType != KeyTypeDerivation {
		t.Errorf("hook key type = %q", hooks.lastType)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry = %v, %v; want miss", hit, err)
	}
}

func TestFileCacheConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	const writers, rounds = 32, 25
	key := "derivation:abc"
	var wg sync.WaitGroup
	errCh := make(chan error, writers*rounds)
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rounds {
				val := []byte(fmt.Sprintf(`{"writer":%d,"round":%d}`, w, i))
				if err := c.Set(ctx, key, val, 0); err != nil {
					errCh <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)

	failed := 0
	for err := range errCh {
		failed++
		if failed == 1 {
			t.Errorf("Set error: %v", err)
		}
	}
	if failed > 0 {
		t.Errorf("%d of %d Sets failed", failed, writers*rounds)
	}

	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("Get after concurrent Sets: hit=%v err=%v", hit, err)
	}
	if !strings.HasPrefix(string(data), `{"writer":`) {
		t.Errorf("Get = %q, want one writer's value", data)
	}
	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(c.path(key)), "*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	if dir, err := DefaultDir(); err != nil || dir != filepath.Join("/tmp/xdg", "shapereach") {
		t.Errorf("DefaultDir() with XDG_CACHE_HOME = %q, %v", dir, err)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if dir, err := DefaultDir(); err != nil || dir != filepath.Join(home, ".cache", "shapereach") {
		t.Errorf("DefaultDir() = %q, %v", dir, err)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if !errors.Is(classify(redis.Nil), ErrCacheMiss) {
		t.Error("redis.Nil should map to ErrCacheMiss")
	}
	netErr := classify(&net.OpError{Op: "dial", Err: errors.New("refused")})
	if !IsRetryable(netErr) || !errors.Is(netErr, ErrNetwork) {
		t.Errorf("network errors should be retryable ErrNetwork: %v", netErr)
	}
	other := errors.New("WRONGTYPE")
	if classify(other) != other {
		t.Error("other errors should pass through")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("SHAPEREACH_REDIS_ADDR")
	if addr == "" {
		t.Skip("SHAPEREACH_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: "shapereach-test:" + t.Name() + ":"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("Get before Set = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get after Set = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}

type countingHooks struct {
	hits, misses, sets int
	lastType           string
}

func (h *countingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.hits++
	h.lastType = keyType
}

func (h *countingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.misses++
	h.lastType = keyType
}

func (h *countingHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.sets++
	h.lastType = keyType
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should stay nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) || err.Error() != ErrNetwork.Error() {
		t.Errorf("Retryable(ErrNetwork) = %v", err)
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("plain errors are not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { RetryDelay = d }(RetryDelay)
	RetryDelay = time.Millisecond

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"not retryable", 5, ErrCacheMiss, 1, ErrCacheMiss},
		{"recovers", 2, Retryable(ErrNetwork), 3, nil},
		{"gives up", 5, Retryable(ErrNetwork), RetryAttempts, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil || tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrNetwork) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
