package usecase

import (
	"context"
	"log"
	"strconv"

	"github.com/Gee9999/proto-catalogue-app/internal/domain"
)

// Default fallback-chain tuning; see MatchConfig
const (
	defaultMinSubstringScore = 0.6
	defaultTrimMaxDigits     = 3
	defaultTrimMinRemaining  = 4
)

// defaultPrefixLengths are the shared-prefix lengths tried, longest first, to
// shrink the scoring candidate pool before an exhaustive scan
var defaultPrefixLengths = []int{6, 4}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinSubstringScore      float64 // rejection floor for substring scoring, (0,1]
	TrimMaxDigits          int     // how many trailing digits suffix-trimming may remove
	TrimMinRemaining       int     // floor below which trimming is disallowed
	CandidatePrefixLengths []int   // prefix lengths tried in order for candidate pre-filtering
	EnableDebugLogging     bool
}

// MatchingService matches photo filenames against a price catalogue using an
// ordered fallback chain: exact lookup, suffix trim, common-substring scoring,
// numeric nearest-neighbor. The first stage that succeeds is final.
type MatchingService struct {
	minSubstringScore      float64
	trimMaxDigits          int
	trimMinRemaining       int
	candidatePrefixLengths []int
	enableDebugLogging     bool
}

// NewMatchingService creates a matching service with the given configuration,
// falling back to defaults for unset values
func NewMatchingService(config MatchConfig) *MatchingService {
	score := config.MinSubstringScore
	if score <= 0 || score > 1 {
		score = defaultMinSubstringScore
	}
	trimMax := config.TrimMaxDigits
	if trimMax <= 0 {
		trimMax = defaultTrimMaxDigits
	}
	trimMin := config.TrimMinRemaining
	if trimMin <= 0 {
		trimMin = defaultTrimMinRemaining
	}
	prefixes := config.CandidatePrefixLengths
	if len(prefixes) == 0 {
		prefixes = defaultPrefixLengths
	}

	return &MatchingService{
		minSubstringScore:      score,
		trimMaxDigits:          trimMax,
		trimMinRemaining:       trimMin,
		candidatePrefixLengths: prefixes,
		enableDebugLogging:     config.EnableDebugLogging,
	}
}

// MatchBatch matches every photo independently against the catalogue. Results
// come back in input order; one unmatched photo never aborts the batch.
func (s *MatchingService) MatchBatch(
	ctx context.Context,
	photos []domain.PhotoFile,
	catalog *domain.Catalog,
) ([]domain.MatchResult, error) {
	results := make([]domain.MatchResult, 0, len(photos))
	for _, photo := range photos {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		results = append(results, s.MatchPhoto(photo, catalog))
	}
	return results, nil
}

// MatchPhoto runs the fallback chain for a single photo
func (s *MatchingService) MatchPhoto(photo domain.PhotoFile, catalog *domain.Catalog) domain.MatchResult {
	result := domain.MatchResult{PhotoFilename: photo.Filename, Kind: domain.MatchNone}

	code := ExtractCode(photo.Filename)
	if code == "" || catalog == nil || catalog.Len() == 0 {
		if s.enableDebugLogging {
			log.Printf("[MATCH] %q: no code extracted, skipping stages", photo.Filename)
		}
		return result
	}

	// Stage 1: exact lookup
	if record, ok := catalog.Get(code); ok {
		result.Record = record
		result.Kind = domain.MatchExact
		return result
	}

	// Stage 2: trim spurious trailing digits and retry the lookup
	if record, ok := s.trimMatch(code, catalog); ok {
		result.Record = record
		result.Kind = domain.MatchPrefixTrim
		return result
	}

	// Stage 3: best common-substring score over a prefix-filtered candidate pool
	if record, score, ok := s.bestSubstringMatch(code, catalog); ok {
		result.Record = record
		result.Kind = domain.MatchSubstringScore
		result.Score = score
		return result
	}

	// Stage 4: numeric nearest neighbor, the last resort with no threshold
	if record, ok := s.nearestNumericMatch(code, catalog); ok {
		result.Record = record
		result.Kind = domain.MatchNumericNearest
		return result
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] %q (code %s): no stage matched", photo.Filename, code)
	}
	return result
}

// trimMatch removes 1..trimMaxDigits trailing digits, stopping before the
// remaining code would drop under trimMinRemaining digits. Short codes are too
// ambiguous to trim safely.
func (s *MatchingService) trimMatch(code string, catalog *domain.Catalog) (*domain.PriceRecord, bool) {
	for n := 1; n <= s.trimMaxDigits; n++ {
		remaining := len(code) - n
		if remaining < s.trimMinRemaining {
			break
		}
		if record, ok := catalog.Get(code[:remaining]); ok {
			if s.enableDebugLogging {
				log.Printf("[MATCH] code %s matched %s after trimming %d digit(s)", code, code[:remaining], n)
			}
			return record, true
		}
	}
	return nil, false
}

// bestSubstringMatch scores the extracted code against candidate codes by
// longest-common-contiguous-substring ratio and keeps the best one. Ties keep
// the first-seen candidate. Fails when the best score is under the floor.
func (s *MatchingService) bestSubstringMatch(code string, catalog *domain.Catalog) (*domain.PriceRecord, float64, bool) {
	candidates := s.prefilterCandidates(code, catalog)

	var best *domain.PriceRecord
	bestScore := -1.0
	for _, candidate := range candidates {
		score := substringScore(code, candidate)
		if score > bestScore {
			bestScore = score
			best, _ = catalog.Get(candidate)
		}
	}

	if best == nil || bestScore < s.minSubstringScore {
		if s.enableDebugLogging && best != nil {
			log.Printf("[MATCH] code %s: best substring score %.2f under floor %.2f",
				code, bestScore, s.minSubstringScore)
		}
		return nil, 0, false
	}
	return best, bestScore, true
}

// prefilterCandidates bounds the scoring scan: prefer candidates sharing a
// long prefix with the code, fall back to shorter prefixes, and only score the
// whole catalogue when no prefix bucket has members
func (s *MatchingService) prefilterCandidates(code string, catalog *domain.Catalog) []string {
	all := catalog.Codes()
	for _, n := range s.candidatePrefixLengths {
		if len(code) < n {
			continue
		}
		prefix := code[:n]
		var bucket []string
		for _, candidate := range all {
			if len(candidate) >= n && candidate[:n] == prefix {
				bucket = append(bucket, candidate)
			}
		}
		if len(bucket) > 0 {
			return bucket
		}
	}
	return all
}

// nearestNumericMatch parses both sides as integers and keeps the candidate
// with the smallest absolute difference. No rejection threshold: this stage
// exists so every photo gets some row rather than none.
func (s *MatchingService) nearestNumericMatch(code string, catalog *domain.Catalog) (*domain.PriceRecord, bool) {
	target, err := strconv.ParseInt(code, 10, 64)
	if err != nil {
		return nil, false
	}

	var best *domain.PriceRecord
	bestDiff := int64(-1)
	for _, candidate := range catalog.Codes() {
		value, err := strconv.ParseInt(candidate, 10, 64)
		if err != nil {
			continue
		}
		diff := target - value
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			best, _ = catalog.Get(candidate)
		}
	}
	return best, best != nil
}

// substringScore rates the similarity of two codes as the length of their
// longest common contiguous substring divided by the length of the longer
// code, a ratio in [0,1]
func substringScore(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	return float64(longestCommonSubstring(a, b)) / float64(longer)
}

// longestCommonSubstring returns the length of the longest contiguous
// substring shared by s1 and s2
func longestCommonSubstring(s1, s2 string) int {
	if len(s1) == 0 || len(s2) == 0 {
		return 0
	}

	// Two rows instead of the full matrix for space efficiency
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	longest := 0

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			if s1[i-1] == s2[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > longest {
					longest = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}

	return longest
}
