package heuristics

import (
	"regexp"

	"github.com/agentwarden/warden/internal/model"
)

const (
	CategoryCodeEvalOrFunction   = "CODE_JS_EVAL_OR_FUNCTION"
	CategoryCodeExecutionGeneric = "CODE_EXECUTION_GENERIC"
	CategoryJSDynamicScriptInject = "CODE_JS_DYNAMIC_SCRIPT_INJECT"
	CategoryJSExfilShape          = "CODE_JS_POSSIBLE_EXFIL"

	// RuleJSExfilSourcesToNetwork is the rule ID for the exfil-shape finding;
	// it names the exact pattern (storage/cookie source reaching a network
	// sink) rather than just the broader possible-exfil category.
	RuleJSExfilSourcesToNetwork = "CODE_JS_EXFIL_SOURCES_TO_NETWORK"

	exfilProximityLines = 80
)

var (
	evalOrFunctionRe  = regexp.MustCompile(`\beval\s*\(|\bnew\s+Function\s*\(`)
	createScriptRe    = regexp.MustCompile(`createElement\s*\(\s*['"]script['"]\s*\)`)
	scriptSrcAssignRe = regexp.MustCompile(`\.src\s*=`)
	exfilSourceRe     = regexp.MustCompile(`document\.cookie|localStorage|chrome\.storage|chrome\.cookies`)
	exfilSinkRe       = regexp.MustCompile(`fetch\s*\(|XMLHttpRequest|new\s+WebSocket`)
)

// transformResult is the outcome of running jsTransform over source content.
type transformResult struct {
	commentStripped string // comments blanked, string literals kept intact
	blanked         string // comments and string bodies blanked
}

// ScanJSCode runs the two string-aware transforms over JS/TS content and
// applies the structural and literal-aware detectors.
func ScanJSCode(path, content string) []model.Finding {
	tr := jsTransform(content)
	li := newOffsetLineLocator(content)

	var out []model.Finding

	for _, loc := range evalOrFunctionRe.FindAllStringIndex(tr.blanked, -1) {
		out = append(out, model.Finding{
			RuleID:   CategoryCodeEvalOrFunction,
			Severity: model.SeverityHigh,
			Message:  "dynamic code execution via eval()/Function constructor",
			File:     path,
			Line:     li.lineAt(loc[0]),
			Category: CategoryCodeEvalOrFunction,
			Source:   model.SourceHeuristic,
		})
	}

	if createScriptRe.MatchString(tr.commentStripped) && scriptSrcAssignRe.MatchString(tr.commentStripped) {
		loc := createScriptRe.FindStringIndex(tr.commentStripped)
		line := 0
		if loc != nil {
			line = li.lineAt(loc[0])
		}
		out = append(out, model.Finding{
			RuleID:   CategoryJSDynamicScriptInject,
			Severity: model.SeverityHigh,
			Message:  "dynamically injects a script element with an assigned src",
			File:     path,
			Line:     line,
			Category: CategoryJSDynamicScriptInject,
			Source:   model.SourceHeuristic,
		})
	}

	if f := detectExfilShape(path, tr.commentStripped, li); f != nil {
		out = append(out, *f)
	}

	return out
}

func detectExfilShape(path, content string, li *offsetLineLocator) *model.Finding {
	sourceLocs := exfilSourceRe.FindAllStringIndex(content, -1)
	sinkLocs := exfilSinkRe.FindAllStringIndex(content, -1)
	if len(sourceLocs) == 0 || len(sinkLocs) == 0 {
		return nil
	}

	proximate := false
	for _, s := range sourceLocs {
		sl := li.lineAt(s[0])
		for _, k := range sinkLocs {
			kl := li.lineAt(k[0])
			diff := sl - kl
			if diff < 0 {
				diff = -diff
			}
			if diff <= exfilProximityLines {
				proximate = true
				break
			}
		}
		if proximate {
			break
		}
	}

	bothRepeat := len(sourceLocs) > 1 && len(sinkLocs) > 1

	severity := model.SeverityMedium
	if proximate || bothRepeat {
		severity = model.SeverityHigh
	}

	return &model.Finding{
		RuleID:   RuleJSExfilSourcesToNetwork,
		Severity: severity,
		Message:  "reads browser storage/cookies near a network call, a possible exfiltration path",
		File:     path,
		Line:     li.lineAt(sourceLocs[0][0]),
		Category: CategoryJSExfilShape,
		Source:   model.SourceHeuristic,
	}
}

// jsTransform produces the two string-aware views of JS/TS source that the
// detectors above run against. Both preserve byte length and line breaks so
// match offsets translate back to the original content's line numbers.
func jsTransform(content string) transformResult {
	csBuf := make([]byte, len(content))
	blBuf := make([]byte, len(content))
	copy(csBuf, content)
	copy(blBuf, content)

	n := len(content)
	i := 0
	for i < n {
		c := content[i]

		switch {
		case c == '/' && i+1 < n && content[i+1] == '/':
			start := i
			for i < n && content[i] != '\n' {
				i++
			}
			blankRange(csBuf, start, i)
			blankRange(blBuf, start, i)

		case c == '/' && i+1 < n && content[i+1] == '*':
			start := i
			i += 2
			for i+1 < n && !(content[i] == '*' && content[i+1] == '/') {
				i++
			}
			if i+1 < n {
				i += 2
			} else {
				i = n
			}
			blankRange(csBuf, start, i)
			blankRange(blBuf, start, i)

		case c == '\'' || c == '"' || c == '`':
			quote := c
			start := i
			i++
			for i < n && content[i] != quote {
				if content[i] == '\\' && i+1 < n {
					i += 2
					continue
				}
				i++
			}
			if i < n {
				i++
			}
			// commentStripped keeps the literal as-is; blanked erases the body,
			// leaving the delimiters so token shape survives.
			if i-start > 2 {
				blankRange(blBuf, start+1, i-1)
			}

		default:
			i++
		}
	}

	return transformResult{commentStripped: string(csBuf), blanked: string(blBuf)}
}

func blankRange(buf []byte, start, end int) {
	for i := start; i < end && i < len(buf); i++ {
		if buf[i] != '\n' {
			buf[i] = ' '
		}
	}
}
