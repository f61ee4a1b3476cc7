// Package session captures console input one unit at a time and validates it
// against rules the caller declares up front.
//
// A Session owns the most recent capture: the raw value, its case-folded
// form and, when the value reads as a number, its integer interpretation.
// Every capture replaces all three. Validation methods only look at that
// state and never read from the input themselves.
//
// Two capture granularities share the same contract:
//
//	Tokens : whitespace-delimited words (multi-character exits and choices)
//	Chars  : a single character, line terminator discarded
//
// Typical loop:
//
//	s := session.NewTokens(os.Stdin, session.WithWriter(os.Stdout))
//	s.RegisterExit("x", true)
//	for {
//	    if _, err := s.Prompt("choice: "); err != nil {
//	        return err
//	    }
//	    if s.IsExitNotify("bye") {
//	        return nil
//	    }
//	    if !s.ParseInt() || !s.InRange(1, 3) {
//	        continue
//	    }
//	    ...
//	}
//
// Checks made before the first successful capture report false. Malformed
// numbers are not errors; they make ParseInt and InRange report false. End of
// input surfaces as io.EOF from Capture and Prompt.
//
// A Session is meant for one interactive loop on one goroutine. It holds no
// locks and its captures block until the reader yields a unit.
package session
