// Package interpreter classifies script lines and runs the control-flow
// state machine that decides whether a line executes, is buffered as part
// of a loop body, or is skipped.
//
// The machine has three states. SEQUENTIAL executes lines. LOOPING runs
// the first pass of a FOR body, executing each line and recording it in
// the loop buffer. SKIPPING ignores lines of a false IF branch or a FOR
// whose condition was false from the start. IF and FOR blocks cannot be
// nested.
//
// Process returns a Statement for every line. When it returns a LoopBody,
// the caller runs each buffered line through Process again and then calls
// ContinueLoop, repeating until ContinueLoop no longer returns a LoopBody.
package interpreter
