package scanpipeline

import (
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/agentwarden/warden/internal/model"
	"github.com/agentwarden/warden/internal/scanengine"
)

// PostPassOptions gates each optional stage; a false/zero value skips that
// stage entirely rather than running it as a no-op, so the caller controls
// cost as well as behavior.
type PostPassOptions struct {
	MetaDedup           bool
	AttachConfidence    bool
	ConfidenceThreshold float64 // only applied when > 0
	Fix                 FixFunc
}

// FixFunc applies the fix pass to findings, returning the findings that
// remain (a finding whose fix failed to apply is still returned, see
// fixapply's own semantics) plus any warnings. Defined as a function type
// here, rather than importing internal/fixapply directly, so this package
// never depends on the file-mutation layer for pure dedup/scoring use.
type FixFunc func(findings []model.Finding) (remaining []model.Finding, warnings []string, err error)

// PostPassSummary reports what each stage did, for the CLI to print.
type PostPassSummary struct {
	DuplicatesRemoved int
	ScoredCount       int
	DroppedByFilter   int
	FixWarnings       []string
}

// RunPostPass applies meta-dedup, confidence attachment, confidence-
// threshold filtering, and the fix pass, strictly in that order, per stage
// only when enabled in opts.
func RunPostPass(findings []model.Finding, opts PostPassOptions) ([]model.Finding, PostPassSummary, error) {
	var summary PostPassSummary

	if opts.MetaDedup {
		before := len(findings)
		findings = dedupByKey(findings)
		summary.DuplicatesRemoved = before - len(findings)
	}

	if opts.AttachConfidence {
		for i := range findings {
			attachConfidence(&findings[i])
			summary.ScoredCount++
		}
	}

	if opts.ConfidenceThreshold > 0 {
		kept := findings[:0:0]
		for _, f := range findings {
			if f.Confidence == nil || *f.Confidence >= opts.ConfidenceThreshold {
				kept = append(kept, f)
			}
		}
		summary.DroppedByFilter = len(findings) - len(kept)
		findings = kept
	}

	if opts.Fix != nil {
		remaining, warnings, err := opts.Fix(findings)
		if err != nil {
			return findings, summary, fmt.Errorf("applying fixes: %w", err)
		}
		findings = remaining
		summary.FixWarnings = warnings
	}

	return findings, summary, nil
}

// dedupByKey collapses findings sharing a (rule_id, file, line, message)
// key, keeping the first occurrence. The key tuple is folded into a single
// uint64 via xxh3 -- a non-cryptographic hash over already-trusted
// in-process bytes, unlike resultcache's sha256 content address -- so the
// seen-set stays a cheap fixed-size map key instead of a 4-string tuple.
func dedupByKey(findings []model.Finding) []model.Finding {
	seen := make(map[uint64]bool, len(findings))
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		key := fingerprintDedupKey(f.DedupKey())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

func fingerprintDedupKey(key [4]string) uint64 {
	h := xxh3.New()
	for _, part := range key {
		h.WriteString(part)
		h.WriteString("\x00")
	}
	return h.Sum64()
}

func attachConfidence(f *model.Finding) {
	in := scanengine.ConfidenceInput{
		IsSignature: f.Source == model.SourceSignature,
		IsHeuristic: f.Source == model.SourceHeuristic,
		Severity:    f.Severity.String(),
		InComment:   f.InComment,
		FilePath:    f.File,
		Category:    f.Category,
		Entropy:     f.Entropy,
		HasEntropy:  f.HasEntropy,
		MatchLength: f.MatchLength,
		FileType:    f.FileType,
	}
	score, reason := scanengine.ScoreConfidence(in)
	f.Confidence = &score
	f.ConfidenceReason = reason
}
