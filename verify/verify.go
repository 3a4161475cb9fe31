// Package verify provides debugging tools that check parsed programs.
//
// It implements three complementary stages:
//
// 1. Static Lint (lint.go): structural checks on the instruction graph
//   - ARENA checks: every node is either reachable from the root or retired
//   - STRUCT checks: next/previous links agree, no no-op or unset nodes
//   - LOOP checks: loop starts and ends are paired and properly nested
//   - COPY checks: copy terms are sorted, unique, and non-zero
//
// 2. Functional Simulator (funcsim.go): a reference interpreter that runs the
// program text one operator at a time, with a jump table for the brackets and
// no rewriting at all. It shares nothing with the parser, so a disagreement
// between the two points at a rewrite bug.
//
// 3. Report (report.go): runs both stages plus the optimized interpreter and
// compares output, tape, and pointer.
//
// # Usage Example
//
//	prog, err := program.ParseDefault(text)
//	if err != nil {
//	    return err
//	}
//
//	if issues := verify.RunLint(prog); len(issues) > 0 {
//	    for _, issue := range issues {
//	        log.Printf("[%s] #%d: %s", issue.Type, issue.Index, issue.Message)
//	    }
//	}
//
//	report := verify.GenerateReport(text, cfg, ops, input, 1_000_000)
//	report.WriteReport(os.Stdout)
//
// # Limitations
//
// - The reference run has a step budget. Programs that need more steps are
// reported as unverified instead of being compared.
// - Tapes larger than the dense limit are compared on a window around the
// start and the final pointers only.
package verify

import (
	"github.com/sarchlab/bfi/instr"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueArena  IssueType = "ARENA"  // Node neither live nor retired, or both
	IssueStruct IssueType = "STRUCT" // Broken links or invalid nodes
	IssueLoop   IssueType = "LOOP"   // Unpaired or badly nested loops
	IssueCopy   IssueType = "COPY"   // Malformed copy terms
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // ARENA, STRUCT, LOOP or COPY
	Index   instr.Index            // Node index (instr.Nil if not applicable)
	Opcode  instr.Opcode           // Opcode of the node, if any
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}
