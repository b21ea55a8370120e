package godsync

import (
	"fmt"
	"io"
)

// VerifyResult reports whether a file's current content still matches a
// signature recorded earlier (e.g. via a sigstore.Store), the integrity
// check a sync-tree run or a pull-mode client can use to confirm a
// previously-applied patch actually reconstructed its target.
type VerifyResult struct {
	// Matches is true iff the rebuilt signature is identical to Want:
	// same version, same CDC params, same chunk sequence.
	Matches bool

	// Got is the signature rebuilt from the file's current bytes.
	Got *Signature

	// Want is the signature Got was compared against.
	Want *Signature

	// ChunksMismatched counts indexes present in both signatures whose
	// chunks differ in hash, offset or length, plus the difference between
	// the two chunk counts; it is 0 whenever Matches is true.
	ChunksMismatched int
}

// Verify rebuilds a signature from r using want's CDC params and
// compares it against want. A file that verifies false either changed
// since want was recorded, or was never brought in sync in the first
// place.
func Verify(r io.Reader, want *Signature) (VerifyResult, error) {
	got, err := BuildSignature(r, want.Params, nil)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("godsync: verify: %w", err)
	}

	result := VerifyResult{Got: got, Want: want, Matches: got.Equal(want)}
	if result.Matches {
		return result, nil
	}

	for i := 0; i < len(got.Chunks) && i < len(want.Chunks); i++ {
		if got.Chunks[i] != want.Chunks[i] {
			result.ChunksMismatched++
		}
	}
	result.ChunksMismatched += abs(len(got.Chunks) - len(want.Chunks))

	return result, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Summary renders a VerifyResult as a single human-readable line.
func (r VerifyResult) Summary() string {
	if r.Matches {
		return "OK: signature matches"
	}
	return fmt.Sprintf("MISMATCH: %d chunk(s) differ (got %d chunks, want %d)",
		r.ChunksMismatched, len(r.Got.Chunks), len(r.Want.Chunks))
}
