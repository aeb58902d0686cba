package probably

import "testing"

func TestBytesFunnel(t *testing.T) {
	var sink HashSink
	BytesFunnel{}.Put([]byte("abc"), &sink)
	if string(sink.Bytes()) != "abc" {
		t.Fatalf("sink = %q, want %q", sink.Bytes(), "abc")
	}
}

func TestStringFunnel(t *testing.T) {
	var sink HashSink
	StringFunnel{}.Put("hello", &sink)
	if string(sink.Bytes()) != "hello" {
		t.Fatalf("sink = %q, want %q", sink.Bytes(), "hello")
	}
}

func TestUint64Funnel(t *testing.T) {
	var sink HashSink
	Uint64Funnel{}.Put(0x0102030405060708, &sink)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if !bytesEqual(sink.Bytes(), want) {
		t.Fatalf("sink = %v, want %v", sink.Bytes(), want)
	}
}

func TestFunnelOrdinalsAreDistinct(t *testing.T) {
	seen := map[int8]bool{}
	for _, o := range []int8{BytesFunnel{}.Ordinal(), StringFunnel{}.Ordinal(), Uint64Funnel{}.Ordinal()} {
		if seen[o] {
			t.Fatalf("duplicate funnel ordinal %d", o)
		}
		seen[o] = true
	}
}

func TestHashSinkResetReusesBuffer(t *testing.T) {
	var sink HashSink
	sink.WriteString("first")
	sink.reset()
	sink.WriteString("second")
	if string(sink.Bytes()) != "second" {
		t.Fatalf("sink after reset = %q, want %q", sink.Bytes(), "second")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
