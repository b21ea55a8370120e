package hash

import "testing"

func TestSumDeterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	if Sum(data) != Sum(data) {
		t.Fatal("Sum is not deterministic")
	}
}

func TestSumDistinguishesContent(t *testing.T) {
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Fatal("distinct content hashed to the same digest")
	}
}

func TestHasherMatchesSum(t *testing.T) {
	data := []byte("streamed in pieces")

	h := New()
	_, _ = h.Write(data[:5])
	_, _ = h.Write(data[5:])

	if got, want := h.Sum256(), Sum(data); got != want {
		t.Fatalf("incremental hash %x != one-shot hash %x", got, want)
	}
}
